package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"storydeck/internal/modules/progress/domain"
	progressout "storydeck/internal/modules/progress/port/out"
	"storydeck/internal/platform/clock"
	apperrors "storydeck/internal/platform/errors"
	"storydeck/internal/platform/logging"
)

// ProgressService is the only writer of the progression record. Every
// mutation is persisted before it returns.
type ProgressService struct {
	clock  clock.Clock
	store  progressout.KVStore
	key    string
	course domain.Course
	logger *logging.Logger

	mu sync.Mutex
}

func NewProgressService(clock clock.Clock, store progressout.KVStore, key string, course domain.Course, logger *logging.Logger) *ProgressService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ProgressService{clock: clock, store: store, key: key, course: course, logger: logger}
}

func (s *ProgressService) Course() domain.Course {
	return s.course
}

func (s *ProgressService) Get(ctx context.Context) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *ProgressService) IsUnlocked(ctx context.Context, ordinal int) (bool, error) {
	state, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return state.IsUnlocked(ordinal), nil
}

// CompleteChapter accepts any catalog ordinal regardless of which chapters
// precede it.
func (s *ProgressService) CompleteChapter(ctx context.Context, ordinal int) (domain.State, error) {
	if !s.course.Contains(ordinal) {
		return domain.State{}, fmt.Errorf("%w: chapter %d is not in the catalog", apperrors.ErrInvalidInput, ordinal)
	}
	return s.mutate(ctx, func(state *domain.State) bool {
		wasCertified := state.IsCertified
		state.Complete(ordinal, s.course, s.clock.Now())
		if state.IsCertified && !wasCertified {
			s.logger.Infow("story certified", "certified_at", state.CertificationDate)
		}
		return true
	})
}

// SetDisplayName stores the trimmed name. A blank name clears it, so the
// certificate falls back to the default name.
func (s *ProgressService) SetDisplayName(ctx context.Context, name string) (domain.State, error) {
	return s.mutate(ctx, func(state *domain.State) bool {
		if state.UserName == strings.TrimSpace(name) {
			return false
		}
		state.SetUserName(name)
		return true
	})
}

func (s *ProgressService) RecordSlideViewed(ctx context.Context, chapterID, slideID string) error {
	if chapterID == "" || slideID == "" {
		return fmt.Errorf("%w: chapter and slide ids are required", apperrors.ErrInvalidInput)
	}
	_, err := s.mutate(ctx, func(state *domain.State) bool {
		if state.LastSlideViewed[chapterID] == slideID {
			return false
		}
		state.RecordSlide(chapterID, slideID)
		return true
	})
	return err
}

func (s *ProgressService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	s.logger.Infow("progress reset", "key", s.key)
	return nil
}

func (s *ProgressService) mutate(ctx context.Context, apply func(*domain.State) bool) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.load(ctx)
	if err != nil {
		return domain.State{}, err
	}
	if !apply(&state) {
		return state, nil
	}
	if err := s.save(ctx, state); err != nil {
		return domain.State{}, err
	}
	return state, nil
}

// load falls back to the default state when the stored record cannot be decoded.
func (s *ProgressService) load(ctx context.Context) (domain.State, error) {
	raw, found, err := s.store.Read(ctx, s.key)
	if err != nil {
		return domain.State{}, fmt.Errorf("read progress: %w", err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		return domain.Default(), nil
	}
	state := domain.Default()
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Warnw("stored progress is corrupt, starting over", "key", s.key, "error", err)
		return domain.Default(), nil
	}
	state.Normalize()
	return state, nil
}

func (s *ProgressService) save(ctx context.Context, state domain.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.store.Write(ctx, s.key, string(payload)); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}
