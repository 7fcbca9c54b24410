package dto

import "time"

type AudioOutput struct {
	ClipID string
	Start  *float64
	End    *float64
}

type SubtitleOutput struct {
	ID            string
	Text          string
	Speaker       string
	VoiceID       string
	ContinueAudio bool
	Duration      time.Duration
	Audio         *AudioOutput
}

type SlideOutput struct {
	ID        string
	Image     string
	Duration  time.Duration
	Subtitles []SubtitleOutput
}

type ChapterSummary struct {
	ID          string
	Ordinal     int
	Title       string
	Description string
	Thumbnail   string
	SlideCount  int
	Duration    time.Duration
	Unlocked    bool
	Completed   bool
}

type ChapterOutput struct {
	ChapterSummary
	Slides []SlideOutput
}

type DiagnosticOutput struct {
	ChapterID string
	Line      int
	Text      string
	Reason    string
}

type AudioClipOutput struct {
	ChapterID  string
	SubtitleID string
	ClipID     string
	Start      *float64
	End        *float64
}

type ValidateOutput struct {
	Chapters    int
	Slides      int
	Subtitles   int
	Clips       []AudioClipOutput
	Diagnostics []DiagnosticOutput
}
