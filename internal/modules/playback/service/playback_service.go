package service

import (
	"context"
	"fmt"
	"sync"

	"storydeck/internal/modules/playback/domain"
	playbackout "storydeck/internal/modules/playback/port/out"
	apperrors "storydeck/internal/platform/errors"
	"storydeck/internal/platform/id"
	"storydeck/internal/platform/logging"
)

// SchedulerFactory returns a fresh scheduler for each session.
type SchedulerFactory func() playbackout.Scheduler

type PlaybackService struct {
	chapters     playbackout.ChapterSource
	progress     playbackout.ProgressSink
	audio        *AudioController
	newScheduler SchedulerFactory
	prober       playbackout.ClipProber
	ids          id.Generator
	defaults     SessionOptions
	logger       *logging.Logger

	mu     sync.Mutex
	active *Session
}

func NewPlaybackService(
	chapters playbackout.ChapterSource,
	progress playbackout.ProgressSink,
	audio *AudioController,
	newScheduler SchedulerFactory,
	prober playbackout.ClipProber,
	ids id.Generator,
	defaults SessionOptions,
	logger *logging.Logger,
) *PlaybackService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &PlaybackService{
		chapters:     chapters,
		progress:     progress,
		audio:        audio,
		newScheduler: newScheduler,
		prober:       prober,
		ids:          ids,
		defaults:     defaults,
		logger:       logger,
	}
}

// Open starts a session for an unlocked chapter, closing any session still
// holding the audio controller. With resume, playback starts on the last
// slide recorded for the chapter.
func (s *PlaybackService) Open(ctx context.Context, chapterID string, resume bool) (*Session, error) {
	deck, err := s.chapters.Deck(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if !deck.Unlocked {
		return nil, fmt.Errorf("chapter %q: %w", chapterID, apperrors.ErrChapterLocked)
	}

	opts := s.defaults
	if resume && s.progress != nil {
		last, err := s.progress.LastSlideViewed(ctx, deck.ChapterID)
		if err != nil {
			s.logger.Warnw("resume position unavailable", "chapter", deck.ChapterID, "error", err)
		} else if idx := deck.SlideIndex(last); idx >= 0 {
			opts.StartSlide = idx
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Close()
	}
	session := NewSession(s.ids.New(), deck, s.audio, s.newScheduler(), s.progress, opts, s.logger)
	s.active = session
	s.logger.Infow("chapter opened", "chapter", deck.ChapterID, "session", session.ID(), "start_slide", opts.StartSlide)
	return session, nil
}

func (s *PlaybackService) SetVolume(v float64) float64 {
	return s.audio.SetVolume(v)
}

// Probe measures each distinct clip once and flags windows that do not fit.
func (s *PlaybackService) Probe(ctx context.Context, clips []domain.ClipUse) ([]domain.ClipCheck, error) {
	if s.prober == nil {
		return nil, fmt.Errorf("audio probing is not configured")
	}
	durations := map[string]float64{}
	failures := map[string]error{}
	checks := make([]domain.ClipCheck, 0, len(clips))
	for _, clip := range clips {
		if _, seen := durations[clip.ClipID]; !seen {
			if _, failed := failures[clip.ClipID]; !failed {
				d, err := s.prober.Duration(ctx, clip.ClipID)
				if err != nil {
					failures[clip.ClipID] = err
				} else {
					durations[clip.ClipID] = d
				}
			}
		}
		check := domain.ClipCheck{ClipUse: clip}
		if err, failed := failures[clip.ClipID]; failed {
			check.Problem = err.Error()
		} else {
			check.Duration = durations[clip.ClipID]
			check.Problem = clip.WindowProblem(check.Duration)
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// Shutdown closes the active session and releases the audio player.
func (s *PlaybackService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Close()
		s.active = nil
	}
	s.audio.Close()
}
