package in

import (
	"context"

	playbackdto "storydeck/internal/modules/playback/dto"
	playbackin "storydeck/internal/modules/playback/port/in"
)

type TUIHandler struct {
	usecase playbackin.Usecase
}

func NewTUIHandler(usecase playbackin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Open(ctx context.Context, chapterID string, resume bool) (playbackin.Session, error) {
	return h.usecase.OpenChapter(ctx, playbackdto.OpenChapterInput{ChapterID: chapterID, Resume: resume})
}

func (h TUIHandler) SetVolume(volume float64) float64 {
	return h.usecase.SetVolume(volume)
}

func (h TUIHandler) Shutdown() {
	h.usecase.Shutdown()
}
