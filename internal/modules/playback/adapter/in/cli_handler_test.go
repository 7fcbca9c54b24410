package in_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	playbackin "storydeck/internal/modules/playback/adapter/in"
	playbackdto "storydeck/internal/modules/playback/dto"
	playbackport "storydeck/internal/modules/playback/port/in"
)

type line struct {
	slide   int
	speaker string
	text    string
}

type scriptedSession struct {
	lines     []line
	pos       int
	autoplay  bool
	timer     chan uint64
	completed bool
	closed    bool
}

func (s *scriptedSession) Snapshot() playbackdto.SessionSnapshot {
	snap := playbackdto.SessionSnapshot{Title: "Prologue", SlideCount: 2, Autoplay: s.autoplay, Closed: s.closed}
	if s.pos >= len(s.lines) {
		snap.AtEnd = true
		snap.SlideIndex = 2
		return snap
	}
	l := s.lines[s.pos]
	snap.SlideIndex, snap.Speaker, snap.Text = l.slide, l.speaker, l.text
	return snap
}

func (s *scriptedSession) Timer() <-chan uint64 { return s.timer }

func (s *scriptedSession) Tick(token uint64) bool {
	if token == 0 {
		return false
	}
	s.pos++
	return true
}

func (s *scriptedSession) HandleKey(string) playbackdto.Action { return playbackdto.ActionNone }
func (s *scriptedSession) HandleWheel(int)                     {}
func (s *scriptedSession) HandleScroll(int)                    {}
func (s *scriptedSession) ToggleAudio()                        {}
func (s *scriptedSession) ToggleSubtitles()                    {}
func (s *scriptedSession) JumpTo(int)                          {}
func (s *scriptedSession) Close()                              { s.closed = true }

func (s *scriptedSession) ToggleAutoplay() {
	s.autoplay = !s.autoplay
	if s.autoplay {
		go func() {
			for range s.lines {
				s.timer <- 0
				s.timer <- 1
			}
		}()
	}
}

func (s *scriptedSession) Complete(context.Context) (playbackdto.CompletionOutput, error) {
	if s.pos < len(s.lines) {
		return playbackdto.CompletionOutput{}, errors.New("not at end")
	}
	s.completed = true
	s.closed = true
	return playbackdto.CompletionOutput{ChapterID: "prologue", TotalProgress: 25}, nil
}

type fakeUsecase struct {
	session *scriptedSession
	input   playbackdto.OpenChapterInput
}

func (f *fakeUsecase) OpenChapter(_ context.Context, input playbackdto.OpenChapterInput) (playbackport.Session, error) {
	f.input = input
	return f.session, nil
}

func (f *fakeUsecase) ProbeClips(context.Context, []playbackdto.ClipRef) ([]playbackdto.ClipReport, error) {
	return nil, nil
}

func (f *fakeUsecase) SetVolume(v float64) float64 { return v }
func (f *fakeUsecase) Shutdown()                   {}

func TestPlayHeadlessPrintsSubtitlesAndCompletes(t *testing.T) {
	t.Parallel()
	session := &scriptedSession{
		lines: []line{
			{slide: 0, speaker: "narrator", text: "The sun rose."},
			{slide: 0, speaker: "luna", text: "Hello!"},
			{slide: 1, speaker: "narrator", text: "Storms ahead."},
		},
		timer: make(chan uint64),
	}
	uc := &fakeUsecase{session: session}
	var out bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := playbackin.NewCLIHandler(uc).PlayHeadless(ctx, "prologue", true, &out)
	if err != nil {
		t.Fatalf("play headless: %v", err)
	}
	if !uc.input.Resume || uc.input.ChapterID != "prologue" {
		t.Fatalf("unexpected open input %+v", uc.input)
	}
	if !session.completed || result.TotalProgress != 25 {
		t.Fatalf("expected completion, got %+v", result)
	}
	text := out.String()
	for _, want := range []string{"Prologue", "[slide 1/2]", "luna: Hello!", "[slide 2/2]", "narrator: Storms ahead."} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestPlayHeadlessStopsOnCancel(t *testing.T) {
	t.Parallel()
	session := &scriptedSession{
		lines: []line{{slide: 0, speaker: "narrator", text: "Waiting."}},
		timer: make(chan uint64),
	}
	session.autoplay = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := playbackin.NewCLIHandler(&fakeUsecase{session: session}).PlayHeadless(ctx, "prologue", false, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !session.closed || session.completed {
		t.Fatalf("cancelled playback should close without completing")
	}
}
