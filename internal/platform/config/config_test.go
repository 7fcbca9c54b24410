package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storydeck/internal/platform/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %s, got %s", path, resolved)
	}
	if cfg.Store.Backend != config.BackendFile || cfg.Playback.DefaultSubtitleMS != 4000 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) || strings.Contains(cfg.Paths.DataDir, "~") {
		t.Fatalf("data dir not expanded: %s", cfg.Paths.DataDir)
	}
}

func TestLoadResolvesRelativePathsAgainstConfigDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
catalog = "story/catalog.yaml"
data_dir = "data"

[store]
backend = "SQLite"

[playback]
volume = 3.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatalf("expected config to exist")
	}
	if cfg.Paths.Catalog != filepath.Join(dir, "story", "catalog.yaml") {
		t.Fatalf("unexpected catalog path %s", cfg.Paths.Catalog)
	}
	if cfg.DBPath() != filepath.Join(dir, "data", "storydeck.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath())
	}
	if cfg.Store.Backend != config.BackendSQLite {
		t.Fatalf("expected sqlite backend, got %s", cfg.Store.Backend)
	}
	if cfg.Playback.Volume != 1 {
		t.Fatalf("expected clamped volume, got %f", cfg.Playback.Volume)
	}
	if cfg.Playback.WheelThreshold != 3 {
		t.Fatalf("expected default wheel threshold, got %d", cfg.Playback.WheelThreshold)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"backend": "[store]\nbackend = \"redis\"\n",
		"output":  "[audio]\noutput = \"speakers\"\n",
		"timing":  "[playback]\ndefault_subtitle_ms = 0\n",
		"syntax":  "[store\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), name+".toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, _, _, err := config.Load(path); err == nil {
			t.Fatalf("expected %s config to fail", name)
		}
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if !exists || cfg.Audio.Output != config.OutputSilent {
		t.Fatalf("unexpected sample config: %+v", cfg.Audio)
	}
}
