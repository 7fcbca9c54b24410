package in

import (
	"context"

	"storydeck/internal/modules/playback/dto"
)

// Session is one chapter viewing. Inputs must be delivered from a single
// goroutine; tokens read from Timer are passed back through Tick. Timer is
// closed once the session closes.
type Session interface {
	Snapshot() dto.SessionSnapshot
	Timer() <-chan uint64
	Tick(token uint64) bool
	HandleKey(key string) dto.Action
	HandleWheel(deltaY int)
	HandleScroll(slideIndex int)
	ToggleAutoplay()
	ToggleAudio()
	ToggleSubtitles()
	JumpTo(slideIndex int)
	Complete(ctx context.Context) (dto.CompletionOutput, error)
	Close()
}

type Usecase interface {
	OpenChapter(ctx context.Context, input dto.OpenChapterInput) (Session, error)
	ProbeClips(ctx context.Context, clips []dto.ClipRef) ([]dto.ClipReport, error)
	SetVolume(volume float64) float64
	Shutdown()
}
