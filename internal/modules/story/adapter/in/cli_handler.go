package in

import (
	"context"

	storydto "storydeck/internal/modules/story/dto"
	storyin "storydeck/internal/modules/story/port/in"
)

type CLIHandler struct {
	usecase storyin.Usecase
}

func NewCLIHandler(usecase storyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Chapters(ctx context.Context) ([]storydto.ChapterSummary, error) {
	return h.usecase.ListChapters(ctx)
}

func (h CLIHandler) Chapter(ctx context.Context, id string) (storydto.ChapterOutput, error) {
	return h.usecase.GetChapter(ctx, id)
}

func (h CLIHandler) Validate(ctx context.Context) (storydto.ValidateOutput, error) {
	return h.usecase.Validate(ctx)
}
