package service

import (
	"context"
	"fmt"
	"time"

	"storydeck/internal/modules/playback/domain"
	"storydeck/internal/modules/playback/dto"
	playbackout "storydeck/internal/modules/playback/port/out"
	apperrors "storydeck/internal/platform/errors"
	"storydeck/internal/platform/logging"
)

type SessionOptions struct {
	Autoplay         bool
	AudioEnabled     bool
	SubtitlesVisible bool
	WheelThreshold   int
	StartSlide       int
}

// Session is the interactive player for one chapter. Every input channel
// (autoplay timer, keys, wheel, scroll) ends in transition, which is the only
// code that moves the position. It is not safe for concurrent use.
type Session struct {
	id        string
	deck      domain.Deck
	machine   domain.Machine
	audio     *AudioController
	scheduler playbackout.Scheduler
	progress  playbackout.ProgressSink
	logger    *logging.Logger

	autoplay         bool
	audioEnabled     bool
	subtitlesVisible bool
	wheelThreshold   int
	wheelAccum       int
	token            uint64
	closed           bool
}

func NewSession(id string, deck domain.Deck, audio *AudioController, scheduler playbackout.Scheduler, progress playbackout.ProgressSink, opts SessionOptions, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.WheelThreshold <= 0 {
		opts.WheelThreshold = 1
	}
	s := &Session{
		id:               id,
		deck:             deck,
		machine:          domain.NewMachine(deck.SubtitleCounts()),
		audio:            audio,
		scheduler:        scheduler,
		progress:         progress,
		logger:           logger,
		audioEnabled:     opts.AudioEnabled,
		subtitlesVisible: opts.SubtitlesVisible,
		wheelThreshold:   opts.WheelThreshold,
	}
	if opts.StartSlide > 0 && opts.StartSlide < len(deck.Slides) {
		s.machine.Jump(opts.StartSlide)
	}
	s.syncAudio()
	if opts.Autoplay {
		s.ToggleAutoplay()
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Timer() <-chan uint64 { return s.scheduler.Fired() }

// Tick handles an autoplay deadline. Tokens from cancelled or superseded
// deadlines are ignored.
func (s *Session) Tick(token uint64) bool {
	if s.closed || !s.autoplay || token != s.token {
		return false
	}
	step := s.transition(func(m *domain.Machine) domain.Step { return m.Advance() })
	if step.ReachedEnd {
		s.autoplay = false
		s.cancelTimer()
		s.logger.Infow("autoplay reached chapter end", "chapter", s.deck.ChapterID, "session", s.id)
	}
	return step.Moved()
}

func (s *Session) HandleKey(key string) dto.Action {
	if s.closed {
		return dto.ActionExit
	}
	switch key {
	case "esc", "q":
		return dto.ActionExit
	case " ", "space", "p":
		s.ToggleAutoplay()
		return dto.ActionNone
	case "a":
		s.ToggleAudio()
		return dto.ActionNone
	case "c":
		s.ToggleSubtitles()
		return dto.ActionNone
	case "enter":
		if s.machine.AtEnd() {
			return dto.ActionComplete
		}
	}
	if s.autoplay {
		return dto.ActionNone
	}
	switch key {
	case "right", "down", "l", "j":
		s.transition(func(m *domain.Machine) domain.Step { return m.Advance() })
	case "left", "up", "h", "k":
		s.transition(func(m *domain.Machine) domain.Step { return m.Retreat() })
	case "home", "g":
		s.JumpTo(0)
	case "end", "G":
		s.JumpTo(len(s.deck.Slides) - 1)
	}
	return dto.ActionNone
}

// HandleWheel steps one subtitle each time the accumulated delta crosses the
// threshold. Positive deltas move forward.
func (s *Session) HandleWheel(deltaY int) {
	if s.closed || s.autoplay || deltaY == 0 {
		return
	}
	if (deltaY > 0) != (s.wheelAccum > 0) && s.wheelAccum != 0 {
		s.wheelAccum = 0
	}
	s.wheelAccum += deltaY
	switch {
	case s.wheelAccum >= s.wheelThreshold:
		s.wheelAccum = 0
		s.transition(func(m *domain.Machine) domain.Step { return m.Advance() })
	case s.wheelAccum <= -s.wheelThreshold:
		s.wheelAccum = 0
		s.transition(func(m *domain.Machine) domain.Step { return m.Retreat() })
	}
}

// HandleScroll snaps to slideIndex.
func (s *Session) HandleScroll(slideIndex int) {
	if s.closed || s.autoplay || slideIndex == s.machine.SlideIndex() {
		return
	}
	s.JumpTo(slideIndex)
}

func (s *Session) JumpTo(slideIndex int) {
	if s.closed {
		return
	}
	s.transition(func(m *domain.Machine) domain.Step { return m.Jump(slideIndex) })
}

func (s *Session) ToggleAutoplay() {
	if s.closed {
		return
	}
	if s.autoplay {
		s.autoplay = false
		s.cancelTimer()
		return
	}
	if s.machine.AtEnd() {
		return
	}
	s.autoplay = true
	s.wheelAccum = 0
	if binding := s.currentBinding(); s.audioEnabled && binding != nil {
		s.audio.Play(*binding)
	}
	s.armTimer()
}

// ToggleAudio pauses in place when switching off and replays the current
// subtitle's clip from its start offset when switching on.
func (s *Session) ToggleAudio() {
	if s.closed {
		return
	}
	s.audioEnabled = !s.audioEnabled
	if !s.audioEnabled {
		s.audio.Pause()
		return
	}
	s.audio.Stop()
	s.syncAudio()
}

func (s *Session) ToggleSubtitles() {
	s.subtitlesVisible = !s.subtitlesVisible
}

// Complete records the chapter as finished and closes the session. It is only
// valid on the end screen.
func (s *Session) Complete(ctx context.Context) (dto.CompletionOutput, error) {
	if s.closed {
		return dto.CompletionOutput{}, apperrors.ErrSessionClosed
	}
	if !s.machine.AtEnd() {
		return dto.CompletionOutput{}, apperrors.ErrNotAtChapterEnd
	}
	completion, err := s.progress.CompleteChapter(ctx, s.deck.Ordinal)
	if err != nil {
		return dto.CompletionOutput{}, fmt.Errorf("complete chapter %s: %w", s.deck.ChapterID, err)
	}
	s.logger.Infow("chapter completed", "chapter", s.deck.ChapterID, "ordinal", s.deck.Ordinal, "certified", completion.Certified)
	s.Close()
	return dto.CompletionOutput{
		ChapterID:     s.deck.ChapterID,
		Ordinal:       completion.Ordinal,
		TotalProgress: completion.TotalProgress,
		Certified:     completion.Certified,
		GameUnlocked:  completion.GameUnlocked,
	}, nil
}

// Close cancels the pending deadline and stops audio. Repeated calls are no-ops.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.autoplay = false
	s.cancelTimer()
	s.scheduler.Stop()
	s.audio.Stop()
}

func (s *Session) Snapshot() dto.SessionSnapshot {
	snap := dto.SessionSnapshot{
		SessionID:        s.id,
		ChapterID:        s.deck.ChapterID,
		Title:            s.deck.Title,
		Ordinal:          s.deck.Ordinal,
		SlideIndex:       s.machine.SlideIndex(),
		SlideCount:       s.machine.SlideCount(),
		SubtitleIndex:    s.machine.SubtitleIndex(),
		SubtitleCount:    s.machine.SubtitleCount(),
		AtEnd:            s.machine.AtEnd(),
		Autoplay:         s.autoplay,
		AudioEnabled:     s.audioEnabled,
		SubtitlesVisible: s.subtitlesVisible,
		Closed:           s.closed,
	}
	if slide, ok := s.currentSlide(); ok {
		snap.SlideID = slide.ID
		snap.Image = slide.Image
	}
	if subtitle, ok := s.currentSubtitle(); ok {
		snap.SubtitleID = subtitle.ID
		snap.Text = subtitle.Text
		snap.Speaker = subtitle.Speaker
		snap.Duration = subtitle.Duration
		snap.HasAudio = subtitle.Audio != nil
	}
	return snap
}

func (s *Session) transition(move func(*domain.Machine) domain.Step) domain.Step {
	s.cancelTimer()
	step := move(&s.machine)
	if step.SubtitleChanged {
		s.syncAudio()
	}
	if step.SlideChanged {
		s.recordSlide()
	}
	s.armTimer()
	return step
}

func (s *Session) syncAudio() {
	if s.machine.AtEnd() {
		s.audio.Pause()
		return
	}
	subtitle, ok := s.currentSubtitle()
	if !ok {
		return
	}
	switch {
	case s.audioEnabled && subtitle.Audio != nil:
		s.audio.Play(*subtitle.Audio)
	case s.audioEnabled && subtitle.ContinueAudio:
	default:
		s.audio.Pause()
	}
}

func (s *Session) recordSlide() {
	slide, ok := s.currentSlide()
	if !ok || s.progress == nil {
		return
	}
	if err := s.progress.RecordSlideViewed(context.Background(), s.deck.ChapterID, slide.ID); err != nil {
		s.logger.Warnw("record last slide failed", "chapter", s.deck.ChapterID, "slide", slide.ID, "error", err)
	}
}

func (s *Session) armTimer() {
	if !s.autoplay || s.closed || s.machine.AtEnd() {
		return
	}
	var delay time.Duration
	if subtitle, ok := s.currentSubtitle(); ok {
		delay = subtitle.Duration
	}
	if delay <= 0 {
		delay = defaultSubtitleDuration
	}
	s.token++
	s.scheduler.Schedule(delay, s.token)
}

// cancelTimer also bumps the token so a deadline already queued on the
// channel is recognized as stale.
func (s *Session) cancelTimer() {
	s.scheduler.Cancel()
	s.token++
}

func (s *Session) currentSlide() (domain.Slide, bool) {
	idx := s.machine.SlideIndex()
	if idx < 0 || idx >= len(s.deck.Slides) {
		return domain.Slide{}, false
	}
	return s.deck.Slides[idx], true
}

func (s *Session) currentSubtitle() (domain.Subtitle, bool) {
	slide, ok := s.currentSlide()
	if !ok || len(slide.Subtitles) == 0 {
		return domain.Subtitle{}, false
	}
	idx := s.machine.SubtitleIndex()
	if idx >= len(slide.Subtitles) {
		return domain.Subtitle{}, false
	}
	return slide.Subtitles[idx], true
}

func (s *Session) currentBinding() *domain.AudioBinding {
	subtitle, ok := s.currentSubtitle()
	if !ok {
		return nil
	}
	return subtitle.Audio
}
