package out

import (
	"context"

	"storydeck/internal/modules/playback/domain"
	playbackout "storydeck/internal/modules/playback/port/out"
	progressdto "storydeck/internal/modules/progress/dto"
	progressin "storydeck/internal/modules/progress/port/in"
)

type ProgressAdapter struct {
	progress progressin.Usecase
}

func NewProgressAdapter(progress progressin.Usecase) playbackout.ProgressSink {
	return &ProgressAdapter{progress: progress}
}

func (a *ProgressAdapter) LastSlideViewed(ctx context.Context, chapterID string) (string, error) {
	snapshot, err := a.progress.GetProgress(ctx)
	if err != nil {
		return "", err
	}
	return snapshot.LastSlideViewed[chapterID], nil
}

func (a *ProgressAdapter) RecordSlideViewed(ctx context.Context, chapterID, slideID string) error {
	return a.progress.RecordSlideViewed(ctx, progressdto.SlideViewedInput{ChapterID: chapterID, SlideID: slideID})
}

func (a *ProgressAdapter) CompleteChapter(ctx context.Context, ordinal int) (domain.Completion, error) {
	snapshot, err := a.progress.CompleteChapter(ctx, progressdto.CompleteChapterInput{Ordinal: ordinal})
	if err != nil {
		return domain.Completion{}, err
	}
	return domain.Completion{
		Ordinal:       ordinal,
		TotalProgress: snapshot.TotalProgress,
		Certified:     snapshot.IsCertified,
		GameUnlocked:  snapshot.GameUnlocked,
	}, nil
}
