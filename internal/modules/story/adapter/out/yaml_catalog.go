package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"storydeck/internal/modules/story/domain"
	storyout "storydeck/internal/modules/story/port/out"
	"storydeck/internal/platform/slug"
)

type manifest struct {
	AudioDir string         `yaml:"audio_dir"`
	Chapters []chapterEntry `yaml:"chapters"`
}

type chapterEntry struct {
	ID                string      `yaml:"id"`
	Ordinal           *int        `yaml:"ordinal"`
	Title             string      `yaml:"title"`
	Description       string      `yaml:"description"`
	Thumbnail         string      `yaml:"thumbnail"`
	ImagesDir         string      `yaml:"images_dir"`
	Images            []string    `yaml:"images"`
	Script            string      `yaml:"script"`
	Audio             []audioSlot `yaml:"audio"`
	ClosingDurationMS int         `yaml:"closing_duration_ms"`
}

// audioSlot accepts null, a bare clip name, or {file, start, end}.
type audioSlot struct {
	File  string   `yaml:"file"`
	Start *float64 `yaml:"start"`
	End   *float64 `yaml:"end"`
}

func (s *audioSlot) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&s.File)
	case yaml.MappingNode:
		type plain audioSlot
		var decoded plain
		if err := node.Decode(&decoded); err != nil {
			return err
		}
		*s = audioSlot(decoded)
		return nil
	default:
		return fmt.Errorf("line %d: audio slot must be null, a clip name or a mapping", node.Line)
	}
}

// YAMLCatalog reads a catalog.yaml manifest. Relative paths resolve against
// the manifest directory; relative clip names resolve against the audio dir.
type YAMLCatalog struct {
	path     string
	audioDir string
}

func NewYAMLCatalog(path, audioDir string) storyout.CatalogSource {
	return &YAMLCatalog{path: path, audioDir: audioDir}
}

func (c *YAMLCatalog) Load(ctx context.Context) ([]domain.ChapterSource, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog manifest: %w", err)
	}
	var doc manifest
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog manifest: %w", err)
	}

	base := filepath.Dir(c.path)
	audioDir := c.audioDir
	if audioDir == "" {
		audioDir = resolve(base, doc.AudioDir)
	}
	if audioDir == "" {
		audioDir = base
	}

	sources := make([]domain.ChapterSource, 0, len(doc.Chapters))
	for idx, entry := range doc.Chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := c.chapterSource(base, audioDir, idx, entry)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (c *YAMLCatalog) chapterSource(base, audioDir string, idx int, entry chapterEntry) (domain.ChapterSource, error) {
	if strings.TrimSpace(entry.Title) == "" && strings.TrimSpace(entry.ID) == "" {
		return domain.ChapterSource{}, fmt.Errorf("catalog chapter %d: title or id is required", idx)
	}
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		id = slug.Make(entry.Title)
	}
	ordinal := idx
	if entry.Ordinal != nil {
		ordinal = *entry.Ordinal
	}

	src := domain.ChapterSource{
		ID:              id,
		Ordinal:         ordinal,
		Title:           entry.Title,
		Description:     strings.TrimSpace(entry.Description),
		Thumbnail:       resolve(base, entry.Thumbnail),
		ClosingDuration: time.Duration(entry.ClosingDurationMS) * time.Millisecond,
	}
	if src.Title == "" {
		src.Title = id
	}

	images, root, err := listImages(base, entry)
	if err != nil {
		return domain.ChapterSource{}, fmt.Errorf("catalog chapter %q: %w", id, err)
	}
	src.Images = images
	src.ImageRoot = root

	if entry.Script == "" {
		src.ScriptMissing = true
	} else {
		text, err := os.ReadFile(resolve(base, entry.Script))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			src.ScriptMissing = true
		case err != nil:
			return domain.ChapterSource{}, fmt.Errorf("read script for %q: %w", id, err)
		default:
			src.Script = string(text)
		}
	}

	for _, slot := range entry.Audio {
		if strings.TrimSpace(slot.File) == "" {
			src.Audio = append(src.Audio, nil)
			continue
		}
		src.Audio = append(src.Audio, &domain.AudioBinding{
			ClipID: resolveClip(audioDir, slot.File),
			Start:  slot.Start,
			End:    slot.End,
		})
	}
	return src, nil
}

func listImages(base string, entry chapterEntry) ([]string, string, error) {
	root := resolve(base, entry.ImagesDir)
	if len(entry.Images) > 0 {
		if root == "" {
			root = base
		}
		return append([]string(nil), entry.Images...), root, nil
	}
	if root == "" {
		return nil, "", nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, root, nil
		}
		return nil, "", fmt.Errorf("list images: %w", err)
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() || !domain.IsImage(e.Name()) {
			continue
		}
		images = append(images, e.Name())
	}
	return images, root, nil
}

func resolve(base, value string) string {
	value = strings.TrimSpace(value)
	if value == "" || filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(base, value)
}

func resolveClip(audioDir, clip string) string {
	clip = strings.TrimSpace(clip)
	if strings.Contains(clip, "://") || filepath.IsAbs(clip) || audioDir == "" {
		return clip
	}
	return filepath.Join(audioDir, clip)
}
