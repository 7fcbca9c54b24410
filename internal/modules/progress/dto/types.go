package dto

import "time"

type ProgressOutput struct {
	CurrentChapter    int
	CompletedChapters []int
	UnlockedChapters  []int
	LastSlideViewed   map[string]string
	TotalProgress     float64
	Badges            []string
	IsCertified       bool
	CertifiedAt       *time.Time
	GameUnlocked      bool
	UserName          string
}

// Unlocked reports whether ordinal is among the unlocked catalog chapters.
func (p ProgressOutput) Unlocked(ordinal int) bool {
	for _, n := range p.UnlockedChapters {
		if n == ordinal {
			return true
		}
	}
	return false
}

type CompleteChapterInput struct {
	Ordinal int
}

type SetDisplayNameInput struct {
	Name string
}

type SlideViewedInput struct {
	ChapterID string
	SlideID   string
}

type CertificateInput struct {
	Write bool
}

type CertificateOutput struct {
	ID          string
	Name        string
	CertifiedAt time.Time
	Badges      []string
	Text        string
	Path        string
}

type GameAccessOutput struct {
	Unlocked  bool
	Percent   float64
	Completed int
	Total     int
}
