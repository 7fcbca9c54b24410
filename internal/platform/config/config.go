package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the static catalog and the writable data directory.
type Paths struct {
	Catalog        string `toml:"catalog"`
	DataDir        string `toml:"data_dir"`
	AudioDir       string `toml:"audio_dir"`
	CertificateDir string `toml:"certificate_dir"`
}

// Store selects the persistence substrate for the progression record.
type Store struct {
	Backend string `toml:"backend"`
	Key     string `toml:"key"`
}

// Playback holds player defaults.
type Playback struct {
	DefaultSubtitleMS int     `toml:"default_subtitle_ms"`
	WheelThreshold    int     `toml:"wheel_threshold"`
	AutoplayOnOpen    bool    `toml:"autoplay_on_open"`
	AudioEnabled      bool    `toml:"audio_enabled"`
	SubtitlesVisible  bool    `toml:"subtitles_visible"`
	Volume            float64 `toml:"volume"`
}

// Audio configures the output backend used by the audio controller.
type Audio struct {
	Output         string `toml:"output"`
	FFmpegPath     string `toml:"ffmpeg_path"`
	DeviceFormat   string `toml:"device_format"`
	Device         string `toml:"device"`
	PollIntervalMS int    `toml:"poll_interval_ms"`
}

// Logging configures the zap logger.
type Logging struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Config struct {
	Paths    Paths    `toml:"paths"`
	Store    Store    `toml:"store"`
	Playback Playback `toml:"playback"`
	Audio    Audio    `toml:"audio"`
	Logging  Logging  `toml:"logging"`
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	OutputFFmpeg = "ffmpeg"
	OutputSilent = "silent"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Paths: Paths{
			Catalog:        "catalog.yaml",
			DataDir:        "~/.local/share/storydeck",
			CertificateDir: "~/.local/share/storydeck/certificates",
		},
		Store: Store{
			Backend: BackendFile,
			Key:     "story_progress",
		},
		Playback: Playback{
			DefaultSubtitleMS: 4000,
			WheelThreshold:    3,
			AudioEnabled:      false,
			SubtitlesVisible:  true,
			Volume:            1,
		},
		Audio: Audio{
			Output:         OutputSilent,
			FFmpegPath:     "ffmpeg",
			DeviceFormat:   "pulse",
			Device:         "default",
			PollIntervalMS: 50,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/storydeck/config.toml")
}

// Load reads path (or the default location when empty) over Default and
// returns the normalized config, the resolved path and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(filepath.Dir(resolvedPath), exists); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// normalize expands every path. Relative catalog and audio paths are
// resolved against the config file's directory when a file was loaded.
func (c *Config) normalize(baseDir string, fromFile bool) error {
	resolve := func(value string) (string, error) {
		value = strings.TrimSpace(value)
		if value == "" {
			return "", nil
		}
		if fromFile && !strings.HasPrefix(value, "~") && !filepath.IsAbs(value) {
			value = filepath.Join(baseDir, value)
		}
		return expandPath(value)
	}

	var err error
	if c.Paths.Catalog, err = resolve(c.Paths.Catalog); err != nil {
		return err
	}
	if c.Paths.DataDir, err = resolve(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.AudioDir, err = resolve(c.Paths.AudioDir); err != nil {
		return err
	}
	if c.Paths.CertificateDir, err = resolve(c.Paths.CertificateDir); err != nil {
		return err
	}
	if c.Logging.File, err = resolve(c.Logging.File); err != nil {
		return err
	}

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Audio.Output = strings.ToLower(strings.TrimSpace(c.Audio.Output))
	if c.Playback.Volume < 0 {
		c.Playback.Volume = 0
	}
	if c.Playback.Volume > 1 {
		c.Playback.Volume = 1
	}
	return nil
}

// Validate reports configuration values the application cannot run with.
func (c *Config) Validate() error {
	if c.Paths.Catalog == "" {
		return fmt.Errorf("paths.catalog is required")
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir is required")
	}
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Store.Backend)
	}
	if strings.TrimSpace(c.Store.Key) == "" {
		return fmt.Errorf("store.key is required")
	}
	switch c.Audio.Output {
	case OutputFFmpeg, OutputSilent:
	default:
		return fmt.Errorf("audio.output must be %q or %q, got %q", OutputFFmpeg, OutputSilent, c.Audio.Output)
	}
	if c.Playback.DefaultSubtitleMS <= 0 {
		return fmt.Errorf("playback.default_subtitle_ms must be positive")
	}
	if c.Playback.WheelThreshold <= 0 {
		return fmt.Errorf("playback.wheel_threshold must be positive")
	}
	if c.Audio.PollIntervalMS <= 0 {
		return fmt.Errorf("audio.poll_interval_ms must be positive")
	}
	return nil
}

// DBPath is the SQLite file used by the sqlite store backend.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir(), "storydeck.db")
}

// DataDir returns the expanded data directory.
func (c *Config) DataDir() string {
	return c.Paths.DataDir
}

// CreateSample writes the sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
