package out

import (
	"context"

	progressin "storydeck/internal/modules/progress/port/in"
	"storydeck/internal/modules/story/domain"
	storyout "storydeck/internal/modules/story/port/out"
)

type ProgressAdapter struct {
	progress progressin.Usecase
}

func NewProgressAdapter(progress progressin.Usecase) storyout.ProgressView {
	return &ProgressAdapter{progress: progress}
}

func (a *ProgressAdapter) Status(ctx context.Context, ordinals []int) (map[int]domain.ChapterStatus, error) {
	snapshot, err := a.progress.GetProgress(ctx)
	if err != nil {
		return nil, err
	}
	completed := make(map[int]bool, len(snapshot.CompletedChapters))
	for _, ordinal := range snapshot.CompletedChapters {
		completed[ordinal] = true
	}
	statuses := make(map[int]domain.ChapterStatus, len(ordinals))
	for _, ordinal := range ordinals {
		statuses[ordinal] = domain.ChapterStatus{
			Unlocked:  snapshot.Unlocked(ordinal),
			Completed: completed[ordinal],
		}
	}
	return statuses, nil
}
