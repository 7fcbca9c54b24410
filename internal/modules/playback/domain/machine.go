package domain

// Step describes what a transition changed.
type Step struct {
	SubtitleChanged bool
	SlideChanged    bool
	ReachedEnd      bool
}

func (s Step) Moved() bool {
	return s.SubtitleChanged || s.SlideChanged
}

// Machine tracks the (slide, subtitle) position over a deck. Slide indexes
// run from 0 to the slide count inclusive; the extra index is the chapter
// complete screen and carries no subtitle.
type Machine struct {
	counts   []int
	slide    int
	subtitle int
}

func NewMachine(counts []int) Machine {
	normalized := make([]int, len(counts))
	for i, n := range counts {
		if n < 1 {
			n = 1
		}
		normalized[i] = n
	}
	return Machine{counts: normalized}
}

func (m Machine) SlideIndex() int    { return m.slide }
func (m Machine) SubtitleIndex() int { return m.subtitle }
func (m Machine) SlideCount() int    { return len(m.counts) }
func (m Machine) AtEnd() bool        { return m.slide == len(m.counts) }

// SubtitleCount is the number of subtitles on the current slide, zero at the end.
func (m Machine) SubtitleCount() int {
	if m.AtEnd() {
		return 0
	}
	return m.counts[m.slide]
}

func (m *Machine) Advance() Step {
	if m.AtEnd() {
		return Step{}
	}
	if m.subtitle < m.counts[m.slide]-1 {
		m.subtitle++
		return Step{SubtitleChanged: true}
	}
	m.slide++
	m.subtitle = 0
	return Step{SubtitleChanged: true, SlideChanged: true, ReachedEnd: m.AtEnd()}
}

func (m *Machine) Retreat() Step {
	if m.subtitle > 0 {
		m.subtitle--
		return Step{SubtitleChanged: true}
	}
	if m.slide == 0 {
		return Step{}
	}
	m.slide--
	m.subtitle = m.counts[m.slide] - 1
	return Step{SubtitleChanged: true, SlideChanged: true}
}

// Jump moves to the first subtitle of slide, clamping out-of-range indexes.
func (m *Machine) Jump(slide int) Step {
	if slide < 0 {
		slide = 0
	}
	if slide > len(m.counts) {
		slide = len(m.counts)
	}
	if slide == m.slide && m.subtitle == 0 {
		return Step{}
	}
	step := Step{SubtitleChanged: true, SlideChanged: slide != m.slide}
	m.slide = slide
	m.subtitle = 0
	step.ReachedEnd = step.SlideChanged && m.AtEnd()
	return step
}
