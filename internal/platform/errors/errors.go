package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrChapterLocked   = errors.New("chapter is locked")
	ErrNotCertified    = errors.New("story not completed yet")
	ErrSessionClosed   = errors.New("playback session is closed")
	ErrNotAtChapterEnd = errors.New("playback has not reached the end of the chapter")
)
