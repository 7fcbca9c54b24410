package in

import (
	"context"

	"storydeck/internal/modules/story/dto"
)

type Usecase interface {
	ListChapters(ctx context.Context) ([]dto.ChapterSummary, error)
	GetChapter(ctx context.Context, id string) (dto.ChapterOutput, error)
	Validate(ctx context.Context) (dto.ValidateOutput, error)
}
