package usecase_test

import (
	"context"
	"errors"
	"testing"

	"storydeck/internal/modules/story/domain"
	"storydeck/internal/modules/story/service"
	"storydeck/internal/modules/story/usecase"
	apperrors "storydeck/internal/platform/errors"
)

type fakeCatalog struct {
	sources []domain.ChapterSource
	loads   int
	err     error
}

func (f *fakeCatalog) Load(context.Context) ([]domain.ChapterSource, error) {
	f.loads++
	return f.sources, f.err
}

type fakeProgress struct {
	completed map[int]bool
}

func (f fakeProgress) Status(_ context.Context, ordinals []int) (map[int]domain.ChapterStatus, error) {
	out := map[int]domain.ChapterStatus{}
	for _, n := range ordinals {
		out[n] = domain.ChapterStatus{Unlocked: n == 0 || f.completed[n-1], Completed: f.completed[n]}
	}
	return out, nil
}

func catalog() *fakeCatalog {
	return &fakeCatalog{sources: []domain.ChapterSource{
		{ID: "chapter-one", Ordinal: 1, Title: "Chapter One", Images: []string{"1.png", "2.png"}, Script: "1-1: a\n2-1: b\n2-2: c\n",
			Audio: []*domain.AudioBinding{{ClipID: "a.mp3"}}},
		{ID: "prologue", Ordinal: 0, Title: "Prologue", Images: []string{"1.png"}, Script: "1-1: Hello\n1-2-luna: Hi\noops\n"},
		{ID: "chapter-two", Ordinal: 2, Title: "Chapter Two", Images: []string{"1.png"}, ScriptMissing: true},
	}}
}

func TestListChaptersAnnotatesProgress(t *testing.T) {
	t.Parallel()
	src := catalog()
	uc := usecase.NewInteractor(service.NewStoryService(src, 0, nil), fakeProgress{completed: map[int]bool{0: true}})
	chapters, err := uc.ListChapters(context.Background())
	if err != nil {
		t.Fatalf("list chapters: %v", err)
	}
	if len(chapters) != 3 || chapters[0].ID != "prologue" {
		t.Fatalf("expected ordinal order, got %+v", chapters)
	}
	if !chapters[0].Completed || !chapters[1].Unlocked || chapters[2].Unlocked {
		t.Fatalf("unexpected flags: %+v", chapters)
	}
	if chapters[1].SlideCount != 2 {
		t.Fatalf("expected 2 slides, got %d", chapters[1].SlideCount)
	}
	if _, err := uc.ListChapters(context.Background()); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if src.loads != 1 {
		t.Fatalf("catalog should load once, loaded %d times", src.loads)
	}
}

func TestListChaptersWithoutProgressUnlocksPrologueOnly(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewStoryService(catalog(), 0, nil), nil)
	chapters, err := uc.ListChapters(context.Background())
	if err != nil {
		t.Fatalf("list chapters: %v", err)
	}
	if !chapters[0].Unlocked || chapters[1].Unlocked {
		t.Fatalf("unexpected unlock state: %+v", chapters)
	}
}

func TestGetChapterMapsSlides(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewStoryService(catalog(), 0, nil), fakeProgress{})
	chapter, err := uc.GetChapter(context.Background(), "chapter-one")
	if err != nil {
		t.Fatalf("get chapter: %v", err)
	}
	if len(chapter.Slides) != 2 || len(chapter.Slides[1].Subtitles) != 2 {
		t.Fatalf("unexpected slides: %+v", chapter.Slides)
	}
	if chapter.Slides[0].Subtitles[0].Audio == nil || chapter.Slides[0].Subtitles[0].Audio.ClipID != "a.mp3" {
		t.Fatalf("expected audio binding on first subtitle")
	}
	if chapter.Slides[1].Subtitles[0].Audio != nil {
		t.Fatalf("second slide should be silent")
	}
	if _, err := uc.GetChapter(context.Background(), "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestValidateReportsDiagnosticsAndClips(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewStoryService(catalog(), 0, nil), nil)
	report, err := uc.Validate(context.Background())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.Chapters != 3 || report.Slides != 4 || report.Subtitles != 6 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if len(report.Clips) != 1 || report.Clips[0].SubtitleID != "1-1" {
		t.Fatalf("unexpected clips: %+v", report.Clips)
	}
	if len(report.Diagnostics) != 2 {
		t.Fatalf("expected malformed line and missing script diagnostics, got %+v", report.Diagnostics)
	}
}

func TestDuplicateOrdinalsRejected(t *testing.T) {
	t.Parallel()
	src := &fakeCatalog{sources: []domain.ChapterSource{{ID: "a", Ordinal: 0}, {ID: "b", Ordinal: 0}}}
	uc := usecase.NewInteractor(service.NewStoryService(src, 0, nil), nil)
	if _, err := uc.ListChapters(context.Background()); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
