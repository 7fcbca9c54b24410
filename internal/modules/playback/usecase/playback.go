package usecase

import (
	"context"
	"fmt"

	"storydeck/internal/modules/playback/domain"
	playbackdto "storydeck/internal/modules/playback/dto"
	playbackin "storydeck/internal/modules/playback/port/in"
	"storydeck/internal/modules/playback/service"
)

type Interactor struct {
	svc *service.PlaybackService
}

func NewInteractor(svc *service.PlaybackService) playbackin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) OpenChapter(ctx context.Context, input playbackdto.OpenChapterInput) (playbackin.Session, error) {
	if input.ChapterID == "" {
		return nil, fmt.Errorf("chapter id is required")
	}
	session, err := i.svc.Open(ctx, input.ChapterID, input.Resume)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (i *Interactor) ProbeClips(ctx context.Context, clips []playbackdto.ClipRef) ([]playbackdto.ClipReport, error) {
	uses := make([]domain.ClipUse, 0, len(clips))
	for _, clip := range clips {
		uses = append(uses, domain.ClipUse{
			ChapterID:    clip.ChapterID,
			SubtitleID:   clip.SubtitleID,
			AudioBinding: domain.AudioBinding{ClipID: clip.ClipID, Start: clip.Start, End: clip.End},
		})
	}
	checks, err := i.svc.Probe(ctx, uses)
	if err != nil {
		return nil, err
	}
	reports := make([]playbackdto.ClipReport, 0, len(checks))
	for _, check := range checks {
		reports = append(reports, playbackdto.ClipReport{
			ClipRef: playbackdto.ClipRef{
				ChapterID:  check.ChapterID,
				SubtitleID: check.SubtitleID,
				ClipID:     check.ClipID,
				Start:      check.Start,
				End:        check.End,
			},
			Duration: check.Duration,
			Problem:  check.Problem,
		})
	}
	return reports, nil
}

func (i *Interactor) SetVolume(volume float64) float64 {
	return i.svc.SetVolume(volume)
}

func (i *Interactor) Shutdown() {
	i.svc.Shutdown()
}
