package in

import (
	"context"

	"storydeck/internal/modules/progress/dto"
)

type Usecase interface {
	GetProgress(ctx context.Context) (dto.ProgressOutput, error)
	CompleteChapter(ctx context.Context, input dto.CompleteChapterInput) (dto.ProgressOutput, error)
	IsUnlocked(ctx context.Context, ordinal int) (bool, error)
	SetDisplayName(ctx context.Context, input dto.SetDisplayNameInput) (dto.ProgressOutput, error)
	RecordSlideViewed(ctx context.Context, input dto.SlideViewedInput) error
	Reset(ctx context.Context) error
	Certificate(ctx context.Context, input dto.CertificateInput) (dto.CertificateOutput, error)
	GameAccess(ctx context.Context) (dto.GameAccessOutput, error)
}
