package out

import (
	"context"
	"time"

	"storydeck/internal/modules/playback/domain"
)

// AudioPlayer is a single playable resource. Implementations must allow
// CurrentTime and Playing to be called from another goroutine.
type AudioPlayer interface {
	Load(url string) error
	Play() error
	Pause()
	Playing() bool
	CurrentTime() float64
	Seek(seconds float64)
	SetVolume(volume float64)
	Close() error
}

// Scheduler arms one pending autoplay deadline at a time. When it elapses
// the token is delivered on Fired; Cancel drops any pending deadline. Stop
// is final and closes Fired.
type Scheduler interface {
	Schedule(delay time.Duration, token uint64)
	Cancel()
	Fired() <-chan uint64
	Stop()
}

type ChapterSource interface {
	Deck(ctx context.Context, chapterID string) (domain.Deck, error)
}

type ProgressSink interface {
	LastSlideViewed(ctx context.Context, chapterID string) (string, error)
	RecordSlideViewed(ctx context.Context, chapterID, slideID string) error
	CompleteChapter(ctx context.Context, ordinal int) (domain.Completion, error)
}

type ClipProber interface {
	Duration(ctx context.Context, clip string) (float64, error)
}
