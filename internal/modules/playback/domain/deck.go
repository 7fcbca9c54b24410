package domain

import "time"

type AudioBinding struct {
	ClipID string
	Start  *float64
	End    *float64
}

func (b AudioBinding) StartOffset() float64 {
	if b.Start == nil {
		return 0
	}
	return *b.Start
}

type Subtitle struct {
	ID            string
	Text          string
	Speaker       string
	ContinueAudio bool
	Duration      time.Duration
	Audio         *AudioBinding
}

type Slide struct {
	ID        string
	Image     string
	Subtitles []Subtitle
}

// Deck is the playable form of one chapter.
type Deck struct {
	ChapterID string
	Ordinal   int
	Title     string
	Unlocked  bool
	Slides    []Slide
}

// SubtitleCounts returns the per-slide subtitle counts a Machine runs over.
func (d Deck) SubtitleCounts() []int {
	counts := make([]int, len(d.Slides))
	for i, slide := range d.Slides {
		counts[i] = len(slide.Subtitles)
	}
	return counts
}

// SlideIndex finds a slide by id, -1 when absent.
func (d Deck) SlideIndex(id string) int {
	for i, slide := range d.Slides {
		if slide.ID == id {
			return i
		}
	}
	return -1
}

// Completion is the progression outcome of finishing a chapter.
type Completion struct {
	Ordinal       int
	TotalProgress float64
	Certified     bool
	GameUnlocked  bool
}
