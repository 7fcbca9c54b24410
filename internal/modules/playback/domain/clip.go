package domain

import "fmt"

// ClipUse is one subtitle's reference to an audio clip.
type ClipUse struct {
	ChapterID  string
	SubtitleID string
	AudioBinding
}

type ClipCheck struct {
	ClipUse
	Duration float64
	Problem  string
}

// WindowProblem describes why the binding's window does not fit a clip of
// the given length, or returns "" when it does.
func (u ClipUse) WindowProblem(duration float64) string {
	start := u.StartOffset()
	switch {
	case start < 0:
		return fmt.Sprintf("start %.2fs is negative", start)
	case start >= duration:
		return fmt.Sprintf("start %.2fs is past the clip end %.2fs", start, duration)
	case u.End != nil && *u.End <= start:
		return fmt.Sprintf("end %.2fs is not after start %.2fs", *u.End, start)
	case u.End != nil && *u.End > duration:
		return fmt.Sprintf("end %.2fs is past the clip end %.2fs", *u.End, duration)
	}
	return ""
}
