package domain_test

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"storydeck/internal/modules/story/domain"
)

func float(v float64) *float64 { return &v }

func TestSortImagesSupportsBothConventions(t *testing.T) {
	t.Parallel()
	got := domain.SortImages([]string{"10.png", "[2.1] Flight.png", "2.png", "cover.png", "[1.0] Start.png", "[2.05] Mid.png"})
	want := []string{"cover.png", "[1.0] Start.png", "2.png", "[2.05] Mid.png", "[2.1] Flight.png", "10.png"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order\n got %v\nwant %v", got, want)
	}
}

func TestIsImage(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]bool{"1.png": true, "2.JPG": true, "3.webp": true, "notes.txt": false, "script": false} {
		if domain.IsImage(name) != want {
			t.Fatalf("IsImage(%q) != %v", name, want)
		}
	}
}

func TestAssembleSingleImageTwoSubtitles(t *testing.T) {
	t.Parallel()
	records, _ := domain.ParseScript("1-1: Hello\n1-2-luna: Hi")
	groups, _ := domain.GroupByPage(records)
	slides := domain.AssembleSlides("prologue", []string{"1.png"}, groups, nil, domain.AssembleOptions{})
	if len(slides) != 1 {
		t.Fatalf("expected 1 slide, got %d", len(slides))
	}
	slide := slides[0]
	if slide.ID != "slide-prologue-1" || len(slide.Subtitles) != 2 {
		t.Fatalf("unexpected slide %+v", slide)
	}
	if slide.Subtitles[1].Speaker != domain.SpeakerLuna || slide.Subtitles[1].ID != "1-2" {
		t.Fatalf("unexpected second subtitle %+v", slide.Subtitles[1])
	}
	if slide.TotalDuration != 8*time.Second {
		t.Fatalf("expected 8s total, got %s", slide.TotalDuration)
	}
}

func TestAssembleKeepsEveryImageAndSharesAudioCursor(t *testing.T) {
	t.Parallel()
	records, _ := domain.ParseScript("1-1: a\n1-2: b\n3-1: c\n")
	groups, _ := domain.GroupByPage(records)
	slots := []*domain.AudioBinding{
		{ClipID: "a.mp3"},
		nil,
		{ClipID: "empty-page.mp3"},
		{ClipID: "c.mp3", Start: float(1.5), End: float(3)},
	}
	slides := domain.AssembleSlides("ch1", []string{"3.png", "1.png", "2.png"}, groups, slots, domain.AssembleOptions{
		DefaultDuration: time.Second,
		ClosingDuration: 10 * time.Second,
		ImageRoot:       "/images/ch1",
	})
	if len(slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(slides))
	}
	if slides[0].Image != filepath.Join("/images/ch1", "1.png") {
		t.Fatalf("unexpected image ref %s", slides[0].Image)
	}
	if slides[0].Subtitles[0].Audio == nil || slides[0].Subtitles[0].Audio.ClipID != "a.mp3" {
		t.Fatalf("first subtitle should bind a.mp3")
	}
	if slides[0].Subtitles[1].Audio != nil {
		t.Fatalf("nil slot should leave subtitle silent")
	}
	synthetic := slides[1].Subtitles
	if len(synthetic) != 1 || synthetic[0].Text != "" || synthetic[0].Speaker != domain.SpeakerNarrator {
		t.Fatalf("expected synthetic empty subtitle, got %+v", synthetic)
	}
	if synthetic[0].Audio == nil || synthetic[0].Audio.ClipID != "empty-page.mp3" {
		t.Fatalf("synthetic subtitle should consume a slot")
	}
	last := slides[2].Subtitles[0]
	if last.Audio == nil || last.Audio.StartOffset() != 1.5 || *last.Audio.End != 3 {
		t.Fatalf("expected windowed binding, got %+v", last.Audio)
	}
	if last.Duration != 10*time.Second || slides[2].TotalDuration != 10*time.Second {
		t.Fatalf("closing duration not applied: %s", last.Duration)
	}
}

func TestAssembleWithNoImages(t *testing.T) {
	t.Parallel()
	records, _ := domain.ParseScript("1-1: orphan")
	groups, _ := domain.GroupByPage(records)
	if slides := domain.AssembleSlides("x", nil, groups, nil, domain.AssembleOptions{}); len(slides) != 0 {
		t.Fatalf("expected no slides, got %d", len(slides))
	}
}

func TestAlignAudioDoesNotShareBindings(t *testing.T) {
	t.Parallel()
	slot := &domain.AudioBinding{ClipID: "x.mp3"}
	aligned := domain.AlignAudio([]domain.Subtitle{{ID: "1-1"}, {ID: "1-2"}}, []*domain.AudioBinding{slot})
	if aligned[0].Audio == slot {
		t.Fatalf("binding should be copied")
	}
	if aligned[1].Audio != nil {
		t.Fatalf("subtitle past the slot list should be silent")
	}
}
