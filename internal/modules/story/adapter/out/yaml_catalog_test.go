package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	storyout "storydeck/internal/modules/story/adapter/out"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestYAMLCatalogLoadsChapters(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "images", "prologue", "2.png"), "")
	writeFile(t, filepath.Join(root, "images", "prologue", "1.png"), "")
	writeFile(t, filepath.Join(root, "images", "prologue", "notes.txt"), "")
	writeFile(t, filepath.Join(root, "scripts", "prologue.txt"), "1-1: Hello\n1-2-luna: Hi\n")
	writeFile(t, filepath.Join(root, "catalog.yaml"), `
audio_dir: sounds
chapters:
  - title: The Prologue
    ordinal: 0
    images_dir: images/prologue
    script: scripts/prologue.txt
    closing_duration_ms: 9000
    audio:
      - intro.mp3
      - null
      - file: https://cdn.example.com/luna.mp3
        start: 1.5
        end: 4
  - id: chapter-one
    ordinal: 1
    title: Chapter One
    images: ["[1.0] Start.png"]
    script: scripts/missing.txt
`)

	sources, err := storyout.NewYAMLCatalog(filepath.Join(root, "catalog.yaml"), "").Load(context.Background())
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(sources))
	}
	prologue := sources[0]
	if prologue.ID != "the-prologue" {
		t.Fatalf("expected slug id, got %s", prologue.ID)
	}
	if len(prologue.Images) != 2 || prologue.ImageRoot != filepath.Join(root, "images", "prologue") {
		t.Fatalf("unexpected images %v in %s", prologue.Images, prologue.ImageRoot)
	}
	if prologue.Script == "" || prologue.ScriptMissing {
		t.Fatalf("script should be loaded")
	}
	if prologue.ClosingDuration != 9*time.Second {
		t.Fatalf("unexpected closing duration %s", prologue.ClosingDuration)
	}
	if len(prologue.Audio) != 3 {
		t.Fatalf("expected 3 audio slots, got %d", len(prologue.Audio))
	}
	if prologue.Audio[0].ClipID != filepath.Join(root, "sounds", "intro.mp3") {
		t.Fatalf("relative clip not resolved: %s", prologue.Audio[0].ClipID)
	}
	if prologue.Audio[1] != nil {
		t.Fatalf("null slot should stay silent")
	}
	windowed := prologue.Audio[2]
	if windowed.ClipID != "https://cdn.example.com/luna.mp3" || *windowed.Start != 1.5 || *windowed.End != 4 {
		t.Fatalf("unexpected windowed slot %+v", windowed)
	}

	chapterOne := sources[1]
	if !chapterOne.ScriptMissing {
		t.Fatalf("missing script should be flagged")
	}
	if chapterOne.ImageRoot != root || len(chapterOne.Images) != 1 {
		t.Fatalf("explicit images should resolve against manifest dir, got %s %v", chapterOne.ImageRoot, chapterOne.Images)
	}
}

func TestYAMLCatalogErrors(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if _, err := storyout.NewYAMLCatalog(filepath.Join(root, "nope.yaml"), "").Load(context.Background()); err == nil {
		t.Fatalf("expected missing manifest error")
	}
	writeFile(t, filepath.Join(root, "bad.yaml"), "chapters:\n  - title: x\n    audio:\n      - [1, 2]\n")
	if _, err := storyout.NewYAMLCatalog(filepath.Join(root, "bad.yaml"), "").Load(context.Background()); err == nil {
		t.Fatalf("expected bad audio slot error")
	}
	writeFile(t, filepath.Join(root, "untitled.yaml"), "chapters:\n  - description: nothing\n")
	if _, err := storyout.NewYAMLCatalog(filepath.Join(root, "untitled.yaml"), "").Load(context.Background()); err == nil {
		t.Fatalf("expected missing title error")
	}
}
