package out

import (
	"context"

	"storydeck/internal/modules/playback/domain"
	playbackout "storydeck/internal/modules/playback/port/out"
	storydto "storydeck/internal/modules/story/dto"
	storyin "storydeck/internal/modules/story/port/in"
)

type StoryAdapter struct {
	story storyin.Usecase
}

func NewStoryAdapter(story storyin.Usecase) playbackout.ChapterSource {
	return &StoryAdapter{story: story}
}

func (a *StoryAdapter) Deck(ctx context.Context, chapterID string) (domain.Deck, error) {
	chapter, err := a.story.GetChapter(ctx, chapterID)
	if err != nil {
		return domain.Deck{}, err
	}
	deck := domain.Deck{
		ChapterID: chapter.ID,
		Ordinal:   chapter.Ordinal,
		Title:     chapter.Title,
		Unlocked:  chapter.Unlocked,
		Slides:    make([]domain.Slide, 0, len(chapter.Slides)),
	}
	for _, slide := range chapter.Slides {
		deck.Slides = append(deck.Slides, toDeckSlide(slide))
	}
	return deck, nil
}

func toDeckSlide(slide storydto.SlideOutput) domain.Slide {
	out := domain.Slide{
		ID:        slide.ID,
		Image:     slide.Image,
		Subtitles: make([]domain.Subtitle, 0, len(slide.Subtitles)),
	}
	for _, sub := range slide.Subtitles {
		item := domain.Subtitle{
			ID:            sub.ID,
			Text:          sub.Text,
			Speaker:       sub.Speaker,
			ContinueAudio: sub.ContinueAudio,
			Duration:      sub.Duration,
		}
		if sub.Audio != nil {
			item.Audio = &domain.AudioBinding{
				ClipID: sub.Audio.ClipID,
				Start:  sub.Audio.Start,
				End:    sub.Audio.End,
			}
		}
		out.Subtitles = append(out.Subtitles, item)
	}
	return out
}
