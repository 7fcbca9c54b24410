package usecase_test

import (
	"context"
	"testing"
	"time"

	"storydeck/internal/modules/playback/domain"
	playbackdto "storydeck/internal/modules/playback/dto"
	playbackout "storydeck/internal/modules/playback/port/out"
	"storydeck/internal/modules/playback/service"
	"storydeck/internal/modules/playback/usecase"
	"storydeck/internal/platform/id"
)

type chapters struct{}

func (chapters) Deck(_ context.Context, chapterID string) (domain.Deck, error) {
	return domain.Deck{
		ChapterID: chapterID,
		Title:     "Prologue",
		Unlocked:  true,
		Slides: []domain.Slide{{ID: "page-1", Subtitles: []domain.Subtitle{
			{ID: "1-1", Text: "Hello", Audio: &domain.AudioBinding{ClipID: "intro.mp3"}},
		}}},
	}, nil
}

type prober struct{}

func (prober) Duration(context.Context, string) (float64, error) { return 3, nil }

type idleScheduler struct{ fired chan uint64 }

func (s idleScheduler) Schedule(time.Duration, uint64) {}
func (s idleScheduler) Cancel()                        {}
func (s idleScheduler) Fired() <-chan uint64           { return s.fired }
func (s idleScheduler) Stop()                          {}

type mutePlayer struct{}

func (mutePlayer) Load(string) error    { return nil }
func (mutePlayer) Play() error          { return nil }
func (mutePlayer) Pause()               {}
func (mutePlayer) Playing() bool        { return false }
func (mutePlayer) CurrentTime() float64 { return 0 }
func (mutePlayer) Seek(float64)         {}
func (mutePlayer) SetVolume(float64)    {}
func (mutePlayer) Close() error         { return nil }

func newService() *service.PlaybackService {
	audio := service.NewAudioController(mutePlayer{}, time.Millisecond, nil)
	schedulers := func() playbackout.Scheduler { return idleScheduler{fired: make(chan uint64)} }
	return service.NewPlaybackService(chapters{}, nil, audio, schedulers, prober{}, id.UUID{}, service.SessionOptions{}, nil)
}

func TestOpenChapterRequiresID(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(newService())
	if _, err := uc.OpenChapter(context.Background(), playbackdto.OpenChapterInput{}); err == nil {
		t.Fatalf("expected error for empty chapter id")
	}
	session, err := uc.OpenChapter(context.Background(), playbackdto.OpenChapterInput{ChapterID: "prologue"})
	if err != nil {
		t.Fatalf("open chapter: %v", err)
	}
	if snap := session.Snapshot(); snap.Text != "Hello" || snap.SessionID == "" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	uc.Shutdown()
	if !session.Snapshot().Closed {
		t.Fatalf("shutdown should close the session")
	}
}

func TestProbeClipsReportsWindowProblems(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(newService())
	end := 5.0
	reports, err := uc.ProbeClips(context.Background(), []playbackdto.ClipRef{
		{ChapterID: "prologue", SubtitleID: "1-1", ClipID: "intro.mp3"},
		{ChapterID: "prologue", SubtitleID: "1-2", ClipID: "intro.mp3", End: &end},
	})
	if err != nil {
		t.Fatalf("probe clips: %v", err)
	}
	if len(reports) != 2 || reports[0].Duration != 3 || reports[0].Problem != "" {
		t.Fatalf("unexpected reports %+v", reports)
	}
	if reports[1].Problem == "" || reports[1].SubtitleID != "1-2" {
		t.Fatalf("expected end past clip to be flagged, got %+v", reports[1])
	}
	if got := uc.SetVolume(2); got != 1 {
		t.Fatalf("expected clamped volume, got %v", got)
	}
}
