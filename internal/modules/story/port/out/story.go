package out

import (
	"context"

	"storydeck/internal/modules/story/domain"
)

// CatalogSource supplies the static chapter content.
type CatalogSource interface {
	Load(ctx context.Context) ([]domain.ChapterSource, error)
}

// ProgressView reports the unlock/completion projection of a chapter.
type ProgressView interface {
	Status(ctx context.Context, ordinals []int) (map[int]domain.ChapterStatus, error)
}
