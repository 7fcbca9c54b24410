package domain_test

import (
	"testing"

	"storydeck/internal/modules/playback/domain"
)

type position struct{ slide, subtitle int }

func at(m domain.Machine) position {
	return position{m.SlideIndex(), m.SubtitleIndex()}
}

func TestAdvanceWalksEverySubtitleThenEnds(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine([]int{2, 1, 3})
	want := []position{{0, 1}, {1, 0}, {2, 0}, {2, 1}, {2, 2}, {3, 0}}
	ends := 0
	for i, w := range want {
		step := m.Advance()
		if !step.Moved() {
			t.Fatalf("advance %d did not move", i)
		}
		if step.ReachedEnd {
			ends++
		}
		if got := at(m); got != w {
			t.Fatalf("advance %d: expected %+v, got %+v", i, w, got)
		}
	}
	if !m.AtEnd() || ends != 1 {
		t.Fatalf("expected one transition to the end, got %d", ends)
	}
	if step := m.Advance(); step.Moved() || step.ReachedEnd {
		t.Fatalf("advance at the end must be a no-op")
	}
	if m.SubtitleCount() != 0 {
		t.Fatalf("end screen has no subtitles")
	}
}

func TestRetreatFromEndRoundTrips(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine([]int{2, 3})
	m.Jump(2)
	if !m.AtEnd() {
		t.Fatalf("jump to slide count should reach the end")
	}
	step := m.Retreat()
	if !step.SlideChanged || at(m) != (position{1, 2}) {
		t.Fatalf("retreat from end should land on last subtitle, got %+v", at(m))
	}
	if step := m.Advance(); !step.ReachedEnd {
		t.Fatalf("advance should return to the end")
	}
	m.Jump(1)
	m.Retreat()
	if at(m) != (position{0, 1}) {
		t.Fatalf("retreat across slides should land on the previous slide's last subtitle, got %+v", at(m))
	}
	m.Retreat()
	if step := m.Retreat(); step.Moved() || at(m) != (position{0, 0}) {
		t.Fatalf("retreat at the start must be a no-op")
	}
}

func TestJumpClamps(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine([]int{1, 1})
	m.Jump(-4)
	if at(m) != (position{0, 0}) {
		t.Fatalf("negative jump should clamp to 0")
	}
	m.Jump(99)
	if !m.AtEnd() || m.SlideIndex() != 2 {
		t.Fatalf("large jump should clamp to the end, got %+v", at(m))
	}
	if step := m.Jump(2); step.Moved() {
		t.Fatalf("jump to the current slide should not move")
	}
}

func TestEmptySlidesStillNavigable(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine([]int{0, 2})
	if m.SubtitleCount() != 1 {
		t.Fatalf("slide without subtitles counts as one")
	}
	m.Advance()
	if at(m) != (position{1, 0}) {
		t.Fatalf("unexpected position %+v", at(m))
	}
	empty := domain.NewMachine(nil)
	if !empty.AtEnd() {
		t.Fatalf("empty deck starts at the end")
	}
	if step := empty.Retreat(); step.Moved() {
		t.Fatalf("empty deck retreat must not move")
	}
}
