package dto

import "time"

type OpenChapterInput struct {
	ChapterID string
	Resume    bool
}

// Action is what the caller must do after a key press.
type Action int

const (
	ActionNone Action = iota
	ActionExit
	ActionComplete
)

type SessionSnapshot struct {
	SessionID        string
	ChapterID        string
	Title            string
	Ordinal          int
	SlideIndex       int
	SlideCount       int
	SubtitleIndex    int
	SubtitleCount    int
	SlideID          string
	Image            string
	SubtitleID       string
	Text             string
	Speaker          string
	Duration         time.Duration
	HasAudio         bool
	AtEnd            bool
	Autoplay         bool
	AudioEnabled     bool
	SubtitlesVisible bool
	Closed           bool
}

type CompletionOutput struct {
	ChapterID     string
	Ordinal       int
	TotalProgress float64
	Certified     bool
	GameUnlocked  bool
}

type ClipRef struct {
	ChapterID  string
	SubtitleID string
	ClipID     string
	Start      *float64
	End        *float64
}

type ClipReport struct {
	ClipRef
	Duration float64
	Problem  string
}
