package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storydeck/internal/modules/story/domain"
	storyout "storydeck/internal/modules/story/port/out"
	apperrors "storydeck/internal/platform/errors"
	"storydeck/internal/platform/logging"
)

// StoryService loads the catalog once and serves assembled chapters.
type StoryService struct {
	source          storyout.CatalogSource
	defaultDuration time.Duration
	logger          *logging.Logger

	mu       sync.Mutex
	chapters []domain.Chapter
	loaded   bool
}

func NewStoryService(source storyout.CatalogSource, defaultDuration time.Duration, logger *logging.Logger) *StoryService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &StoryService{source: source, defaultDuration: defaultDuration, logger: logger}
}

// Chapters returns every chapter ordered by ordinal.
func (s *StoryService) Chapters(ctx context.Context) ([]domain.Chapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.chapters, nil
	}

	sources, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	chapters := make([]domain.Chapter, 0, len(sources))
	for _, src := range sources {
		chapter := domain.BuildChapter(src, s.defaultDuration)
		for _, d := range chapter.Diagnostics {
			s.logger.Warnw("chapter content issue", "chapter", d.Chapter, "line", d.Line, "reason", d.Reason)
		}
		chapters = append(chapters, chapter)
	}
	if err := domain.SortChapters(chapters); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	s.logger.Infow("catalog loaded", "chapters", len(chapters))
	s.chapters = chapters
	s.loaded = true
	return chapters, nil
}

func (s *StoryService) Chapter(ctx context.Context, id string) (domain.Chapter, error) {
	chapters, err := s.Chapters(ctx)
	if err != nil {
		return domain.Chapter{}, err
	}
	for _, chapter := range chapters {
		if chapter.ID == id {
			return chapter, nil
		}
	}
	return domain.Chapter{}, fmt.Errorf("chapter %q: %w", id, apperrors.ErrNotFound)
}

// Ordinals lists the catalog's chapter ordinals in ascending order.
func (s *StoryService) Ordinals(ctx context.Context) ([]int, error) {
	chapters, err := s.Chapters(ctx)
	if err != nil {
		return nil, err
	}
	ordinals := make([]int, len(chapters))
	for i, chapter := range chapters {
		ordinals[i] = chapter.Ordinal
	}
	return ordinals, nil
}
