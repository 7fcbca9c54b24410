package domain

import (
	"fmt"
	"sort"
	"time"
)

// ChapterSource is the unassembled catalog entry: metadata plus raw script
// text, image names and audio slots.
type ChapterSource struct {
	ID              string
	Ordinal         int
	Title           string
	Description     string
	Thumbnail       string
	ImageRoot       string
	Images          []string
	Script          string
	ScriptMissing   bool
	Audio           []*AudioBinding
	ClosingDuration time.Duration
}

type Chapter struct {
	ID          string
	Ordinal     int
	Title       string
	Description string
	Thumbnail   string
	Slides      []Slide
	Diagnostics []Diagnostic
}

func (c Chapter) Duration() time.Duration {
	var total time.Duration
	for _, slide := range c.Slides {
		total += slide.TotalDuration
	}
	return total
}

func (c Chapter) SubtitleCount() int {
	count := 0
	for _, slide := range c.Slides {
		count += len(slide.Subtitles)
	}
	return count
}

// BuildChapter parses the source script and assembles its slide deck.
func BuildChapter(src ChapterSource, defaultDuration time.Duration) Chapter {
	records, diagnostics := ParseScript(src.Script)
	groups, dupes := GroupByPage(records)
	diagnostics = append(diagnostics, dupes...)
	if src.ScriptMissing {
		diagnostics = append(diagnostics, Diagnostic{Reason: "subtitle script not found, slides have no text"})
	}
	if len(src.Images) == 0 {
		diagnostics = append(diagnostics, Diagnostic{Reason: "chapter has no images"})
	}

	slides := AssembleSlides(src.ID, src.Images, groups, src.Audio, AssembleOptions{
		DefaultDuration: defaultDuration,
		ClosingDuration: src.ClosingDuration,
		ImageRoot:       src.ImageRoot,
	})
	pages := len(slides)
	for page := range groups {
		if page < 1 || page > pages {
			diagnostics = append(diagnostics, Diagnostic{Reason: fmt.Sprintf("subtitles for page %d have no image", page)})
		}
	}
	streamLen := 0
	for _, slide := range slides {
		streamLen += len(slide.Subtitles)
	}
	if len(src.Audio) > streamLen {
		diagnostics = append(diagnostics, Diagnostic{Reason: fmt.Sprintf("%d audio slots for %d subtitles, extra slots unused", len(src.Audio), streamLen)})
	}
	for i := range diagnostics {
		diagnostics[i].Chapter = src.ID
	}
	sortDiagnostics(diagnostics)

	return Chapter{
		ID:          src.ID,
		Ordinal:     src.Ordinal,
		Title:       src.Title,
		Description: src.Description,
		Thumbnail:   src.Thumbnail,
		Slides:      slides,
		Diagnostics: diagnostics,
	}
}

func sortDiagnostics(diagnostics []Diagnostic) {
	sort.SliceStable(diagnostics, func(a, b int) bool {
		return diagnostics[a].Line < diagnostics[b].Line
	})
}

// SortChapters orders chapters by ordinal and rejects duplicate ids or ordinals.
func SortChapters(chapters []Chapter) error {
	sort.SliceStable(chapters, func(a, b int) bool {
		return chapters[a].Ordinal < chapters[b].Ordinal
	})
	ids := make(map[string]struct{}, len(chapters))
	for i, chapter := range chapters {
		if chapter.Ordinal < 0 {
			return fmt.Errorf("chapter %q has negative ordinal %d", chapter.ID, chapter.Ordinal)
		}
		if i > 0 && chapters[i-1].Ordinal == chapter.Ordinal {
			return fmt.Errorf("chapters %q and %q share ordinal %d", chapters[i-1].ID, chapter.ID, chapter.Ordinal)
		}
		if _, dup := ids[chapter.ID]; dup {
			return fmt.Errorf("duplicate chapter id %q", chapter.ID)
		}
		ids[chapter.ID] = struct{}{}
	}
	return nil
}

// ChapterStatus is the progression projection of one chapter.
type ChapterStatus struct {
	Unlocked  bool
	Completed bool
}
