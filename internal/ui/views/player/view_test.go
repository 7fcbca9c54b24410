package player_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"storydeck/internal/modules/playback/domain"
	"storydeck/internal/modules/playback/service"
	"storydeck/internal/ui/views/player"
)

type mutePlayer struct{}

func (p *mutePlayer) Load(string) error    { return nil }
func (p *mutePlayer) Play() error          { return nil }
func (p *mutePlayer) Pause()               {}
func (p *mutePlayer) Playing() bool        { return false }
func (p *mutePlayer) CurrentTime() float64 { return 0 }
func (p *mutePlayer) Seek(float64)         {}
func (p *mutePlayer) SetVolume(float64)    {}
func (p *mutePlayer) Close() error         { return nil }

type idleScheduler struct{ fired chan uint64 }

func (s *idleScheduler) Schedule(time.Duration, uint64) {}
func (s *idleScheduler) Cancel()                        {}
func (s *idleScheduler) Fired() <-chan uint64           { return s.fired }
func (s *idleScheduler) Stop()                          {}

type noProgress struct{}

func (noProgress) LastSlideViewed(context.Context, string) (string, error) { return "", nil }
func (noProgress) RecordSlideViewed(context.Context, string, string) error { return nil }
func (noProgress) CompleteChapter(_ context.Context, ordinal int) (domain.Completion, error) {
	return domain.Completion{Ordinal: ordinal}, nil
}

func newModel(t *testing.T) (player.Model, *service.Session) {
	t.Helper()
	deck := domain.Deck{ChapterID: "prologue", Title: "Prologue", Unlocked: true}
	for _, id := range []string{"1", "2", "3"} {
		deck.Slides = append(deck.Slides, domain.Slide{
			ID:        "page-" + id,
			Image:     id + ".png",
			Subtitles: []domain.Subtitle{{ID: id + "-1", Text: "line " + id, Speaker: "narrator"}},
		})
	}
	audio := service.NewAudioController(&mutePlayer{}, time.Millisecond, nil)
	session := service.NewSession("s-1", deck, audio, &idleScheduler{fired: make(chan uint64)}, noProgress{}, service.SessionOptions{SubtitlesVisible: true}, nil)
	return player.New(session, nil, 1), session
}

func digit(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSlideKeysAndShiftWheelMoveBetweenSlides(t *testing.T) {
	t.Parallel()
	m, session := newModel(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	if got := session.Snapshot().SlideIndex; got != 1 {
		t.Fatalf("pgdown: expected slide 1, got %d", got)
	}
	m, _ = m.Update(digit('3'))
	if got := session.Snapshot().SlideIndex; got != 2 {
		t.Fatalf("digit 3: expected slide 2, got %d", got)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	if got := session.Snapshot().SlideIndex; got != 1 {
		t.Fatalf("pgup: expected slide 1, got %d", got)
	}
	m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp, Shift: true})
	if got := session.Snapshot().SlideIndex; got != 0 {
		t.Fatalf("shift+wheel: expected slide 0, got %d", got)
	}
}

func TestSlideNavigationIgnoredWhileAutoplaying(t *testing.T) {
	t.Parallel()
	m, session := newModel(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !session.Snapshot().Autoplay {
		t.Fatalf("space should start autoplay")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	m, _ = m.Update(digit('3'))
	m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown, Shift: true})
	if snap := session.Snapshot(); snap.SlideIndex != 0 || snap.SubtitleIndex != 0 {
		t.Fatalf("navigation during autoplay moved to %d/%d", snap.SlideIndex, snap.SubtitleIndex)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	_, _ = m.Update(digit('2'))
	if got := session.Snapshot().SlideIndex; got != 1 {
		t.Fatalf("after autoplay stops: expected slide 1, got %d", got)
	}
}
