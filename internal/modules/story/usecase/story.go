package usecase

import (
	"context"

	"storydeck/internal/modules/story/domain"
	storydto "storydeck/internal/modules/story/dto"
	storyin "storydeck/internal/modules/story/port/in"
	storyout "storydeck/internal/modules/story/port/out"
	"storydeck/internal/modules/story/service"
)

type Interactor struct {
	svc      *service.StoryService
	progress storyout.ProgressView
}

func NewInteractor(svc *service.StoryService, progress storyout.ProgressView) storyin.Usecase {
	return &Interactor{svc: svc, progress: progress}
}

func (i *Interactor) ListChapters(ctx context.Context) ([]storydto.ChapterSummary, error) {
	chapters, err := i.svc.Chapters(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := i.statuses(ctx, chapters)
	if err != nil {
		return nil, err
	}
	out := make([]storydto.ChapterSummary, 0, len(chapters))
	for _, chapter := range chapters {
		out = append(out, summary(chapter, statuses[chapter.Ordinal]))
	}
	return out, nil
}

func (i *Interactor) GetChapter(ctx context.Context, id string) (storydto.ChapterOutput, error) {
	chapter, err := i.svc.Chapter(ctx, id)
	if err != nil {
		return storydto.ChapterOutput{}, err
	}
	statuses, err := i.statuses(ctx, []domain.Chapter{chapter})
	if err != nil {
		return storydto.ChapterOutput{}, err
	}
	out := storydto.ChapterOutput{
		ChapterSummary: summary(chapter, statuses[chapter.Ordinal]),
		Slides:         make([]storydto.SlideOutput, 0, len(chapter.Slides)),
	}
	for _, slide := range chapter.Slides {
		slideOut := storydto.SlideOutput{
			ID:        slide.ID,
			Image:     slide.Image,
			Duration:  slide.TotalDuration,
			Subtitles: make([]storydto.SubtitleOutput, 0, len(slide.Subtitles)),
		}
		for _, subtitle := range slide.Subtitles {
			slideOut.Subtitles = append(slideOut.Subtitles, storydto.SubtitleOutput{
				ID:            subtitle.ID,
				Text:          subtitle.Text,
				Speaker:       string(subtitle.Speaker),
				VoiceID:       subtitle.VoiceID,
				ContinueAudio: subtitle.ContinueAudio,
				Duration:      subtitle.Duration,
				Audio:         audioOutput(subtitle.Audio),
			})
		}
		out.Slides = append(out.Slides, slideOut)
	}
	return out, nil
}

func (i *Interactor) Validate(ctx context.Context) (storydto.ValidateOutput, error) {
	chapters, err := i.svc.Chapters(ctx)
	if err != nil {
		return storydto.ValidateOutput{}, err
	}
	out := storydto.ValidateOutput{Chapters: len(chapters)}
	for _, chapter := range chapters {
		out.Slides += len(chapter.Slides)
		for _, slide := range chapter.Slides {
			out.Subtitles += len(slide.Subtitles)
			for _, subtitle := range slide.Subtitles {
				if subtitle.Audio == nil {
					continue
				}
				out.Clips = append(out.Clips, storydto.AudioClipOutput{
					ChapterID:  chapter.ID,
					SubtitleID: subtitle.ID,
					ClipID:     subtitle.Audio.ClipID,
					Start:      subtitle.Audio.Start,
					End:        subtitle.Audio.End,
				})
			}
		}
		for _, d := range chapter.Diagnostics {
			out.Diagnostics = append(out.Diagnostics, storydto.DiagnosticOutput{ChapterID: d.Chapter, Line: d.Line, Text: d.Text, Reason: d.Reason})
		}
	}
	return out, nil
}

func (i *Interactor) statuses(ctx context.Context, chapters []domain.Chapter) (map[int]domain.ChapterStatus, error) {
	if i.progress == nil {
		statuses := make(map[int]domain.ChapterStatus, len(chapters))
		for _, chapter := range chapters {
			statuses[chapter.Ordinal] = domain.ChapterStatus{Unlocked: chapter.Ordinal == 0}
		}
		return statuses, nil
	}
	ordinals := make([]int, len(chapters))
	for idx, chapter := range chapters {
		ordinals[idx] = chapter.Ordinal
	}
	return i.progress.Status(ctx, ordinals)
}

func summary(chapter domain.Chapter, status domain.ChapterStatus) storydto.ChapterSummary {
	return storydto.ChapterSummary{
		ID:          chapter.ID,
		Ordinal:     chapter.Ordinal,
		Title:       chapter.Title,
		Description: chapter.Description,
		Thumbnail:   chapter.Thumbnail,
		SlideCount:  len(chapter.Slides),
		Duration:    chapter.Duration(),
		Unlocked:    status.Unlocked,
		Completed:   status.Completed,
	}
}

func audioOutput(binding *domain.AudioBinding) *storydto.AudioOutput {
	if binding == nil {
		return nil
	}
	return &storydto.AudioOutput{ClipID: binding.ClipID, Start: binding.Start, End: binding.End}
}
