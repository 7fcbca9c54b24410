package in

import (
	"context"
	"fmt"
	"io"
	"strings"

	playbackdto "storydeck/internal/modules/playback/dto"
	playbackin "storydeck/internal/modules/playback/port/in"
	apperrors "storydeck/internal/platform/errors"
)

type CLIHandler struct {
	usecase playbackin.Usecase
}

func NewCLIHandler(usecase playbackin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// PlayHeadless autoplays a chapter to its end, writing each subtitle to out,
// and records the completion.
func (h CLIHandler) PlayHeadless(ctx context.Context, chapterID string, resume bool, out io.Writer) (playbackdto.CompletionOutput, error) {
	session, err := h.usecase.OpenChapter(ctx, playbackdto.OpenChapterInput{ChapterID: chapterID, Resume: resume})
	if err != nil {
		return playbackdto.CompletionOutput{}, err
	}

	snap := session.Snapshot()
	fmt.Fprintf(out, "%s\n", snap.Title)
	if !snap.Autoplay {
		session.ToggleAutoplay()
	}
	lastSlide := -1
	for {
		snap = session.Snapshot()
		if snap.AtEnd {
			break
		}
		if snap.SlideIndex != lastSlide {
			lastSlide = snap.SlideIndex
			fmt.Fprintf(out, "\n[slide %d/%d]\n", snap.SlideIndex+1, snap.SlideCount)
		}
		if strings.TrimSpace(snap.Text) != "" {
			fmt.Fprintf(out, "  %s: %s\n", snap.Speaker, snap.Text)
		}
		if err := waitForStep(ctx, session); err != nil {
			session.Close()
			return playbackdto.CompletionOutput{}, err
		}
	}
	return session.Complete(ctx)
}

func waitForStep(ctx context.Context, session playbackin.Session) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case token, ok := <-session.Timer():
			if !ok {
				return apperrors.ErrSessionClosed
			}
			if session.Tick(token) {
				return nil
			}
		}
	}
}

func (h CLIHandler) ProbeClips(ctx context.Context, clips []playbackdto.ClipRef) ([]playbackdto.ClipReport, error) {
	return h.usecase.ProbeClips(ctx, clips)
}

func (h CLIHandler) Shutdown() {
	h.usecase.Shutdown()
}
