package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	CertifiedBadge = "solar-sentinel-certified"
	DefaultName    = "Solar Sentinel Graduate"
)

// State is the single persisted progression record. Field names match the
// JSON layout written by earlier releases.
type State struct {
	CurrentChapter    int               `json:"currentChapter"`
	CompletedChapters []int             `json:"completedChapters"`
	LastSlideViewed   map[string]string `json:"lastSlideViewed"`
	TotalProgress     float64           `json:"totalProgress"`
	Badges            []string          `json:"badges"`
	IsCertified       bool              `json:"isCertified"`
	CertificationDate *time.Time        `json:"certificationDate,omitempty"`
	GameUnlocked      bool              `json:"gameUnlocked"`
	UserName          string            `json:"userName,omitempty"`
}

func Default() State {
	return State{
		CompletedChapters: []int{},
		LastSlideViewed:   map[string]string{},
		Badges:            []string{},
	}
}

// Course is the fixed set of chapter ordinals progression is measured against.
type Course struct {
	ordinals []int
}

func NewCourse(ordinals []int) Course {
	sorted := append([]int(nil), ordinals...)
	sort.Ints(sorted)
	unique := sorted[:0]
	for i, n := range sorted {
		if i == 0 || n != sorted[i-1] {
			unique = append(unique, n)
		}
	}
	return Course{ordinals: unique}
}

func (c Course) Ordinals() []int { return append([]int(nil), c.ordinals...) }

func (c Course) Total() int { return len(c.ordinals) }

func (c Course) Max() int {
	if len(c.ordinals) == 0 {
		return 0
	}
	return c.ordinals[len(c.ordinals)-1]
}

func (c Course) Contains(ordinal int) bool {
	idx := sort.SearchInts(c.ordinals, ordinal)
	return idx < len(c.ordinals) && c.ordinals[idx] == ordinal
}

// Normalize repairs a decoded record: nil collections become empty, the
// completion set is sorted without duplicates and the game flag follows
// certification.
func (s *State) Normalize() {
	if s.LastSlideViewed == nil {
		s.LastSlideViewed = map[string]string{}
	}
	if s.Badges == nil {
		s.Badges = []string{}
	}
	set := map[int]struct{}{}
	completed := make([]int, 0, len(s.CompletedChapters))
	for _, n := range s.CompletedChapters {
		if _, dup := set[n]; dup || n < 0 {
			continue
		}
		set[n] = struct{}{}
		completed = append(completed, n)
	}
	sort.Ints(completed)
	s.CompletedChapters = completed
	if s.IsCertified {
		s.GameUnlocked = true
	}
}

func (s State) HasCompleted(ordinal int) bool {
	for _, n := range s.CompletedChapters {
		if n == ordinal {
			return true
		}
	}
	return false
}

func (s State) HasBadge(badge string) bool {
	for _, b := range s.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// IsUnlocked: the prologue is always open, every later chapter opens once
// its predecessor is completed.
func (s State) IsUnlocked(ordinal int) bool {
	if ordinal == 0 {
		return true
	}
	return s.HasCompleted(ordinal - 1)
}

// UnlockedOrdinals lists the course chapters currently open.
func (s State) UnlockedOrdinals(course Course) []int {
	var out []int
	for _, n := range course.ordinals {
		if s.IsUnlocked(n) {
			out = append(out, n)
		}
	}
	return out
}

// Complete records ordinal as completed and recomputes every derived field.
// Repeating a completion changes nothing but the derived values.
// Certification happens once, when every course chapter is complete, and is
// never revoked.
func (s *State) Complete(ordinal int, course Course, now time.Time) {
	s.Normalize()
	if !s.HasCompleted(ordinal) {
		s.CompletedChapters = append(s.CompletedChapters, ordinal)
		sort.Ints(s.CompletedChapters)
	}
	s.addBadge(fmt.Sprintf("chapter-%d-complete", ordinal))

	s.CurrentChapter = ordinal + 1
	if last := course.Max(); s.CurrentChapter > last {
		s.CurrentChapter = last
	}

	done := 0
	for _, n := range s.CompletedChapters {
		if course.Contains(n) {
			done++
		}
	}
	if course.Total() > 0 {
		s.TotalProgress = float64(done) / float64(course.Total()) * 100
	}

	if course.Total() > 0 && done == course.Total() && !s.IsCertified {
		s.IsCertified = true
		certifiedAt := now.UTC()
		if s.CertificationDate == nil {
			s.CertificationDate = &certifiedAt
		}
		s.addBadge(CertifiedBadge)
	}
	s.GameUnlocked = s.IsCertified
}

// SetUserName stores the trimmed display name.
func (s *State) SetUserName(name string) {
	s.UserName = strings.TrimSpace(name)
}

// RecordSlide remembers the last slide seen in a chapter.
func (s *State) RecordSlide(chapterID, slideID string) {
	if s.LastSlideViewed == nil {
		s.LastSlideViewed = map[string]string{}
	}
	s.LastSlideViewed[chapterID] = slideID
}

func (s *State) addBadge(badge string) {
	if !s.HasBadge(badge) {
		s.Badges = append(s.Badges, badge)
	}
}

// Certificate is the rendered proof of completion.
type Certificate struct {
	ID          string
	Name        string
	CertifiedAt time.Time
	Badges      []string
}

// NewCertificate returns the certificate for a certified state. The id is
// derived from the certification instant so it is stable across calls.
func NewCertificate(s State) (Certificate, bool) {
	if !s.IsCertified || s.CertificationDate == nil {
		return Certificate{}, false
	}
	name := strings.TrimSpace(s.UserName)
	if name == "" {
		name = DefaultName
	}
	return Certificate{
		ID:          fmt.Sprintf("SS-%d", s.CertificationDate.UnixMilli()),
		Name:        name,
		CertifiedAt: *s.CertificationDate,
		Badges:      append([]string(nil), s.Badges...),
	}, true
}
