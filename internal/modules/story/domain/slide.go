package domain

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const DefaultSubtitleDuration = 4 * time.Second

// AudioBinding ties a subtitle to a playable clip, optionally windowed.
type AudioBinding struct {
	ClipID string
	Start  *float64
	End    *float64
}

// StartOffset returns the window start in seconds, zero when unset.
func (b AudioBinding) StartOffset() float64 {
	if b.Start == nil {
		return 0
	}
	return *b.Start
}

type Subtitle struct {
	ID            string
	Page          int
	Line          int
	Text          string
	Speaker       Speaker
	VoiceID       string
	ContinueAudio bool
	Duration      time.Duration
	Audio         *AudioBinding
}

type Slide struct {
	ID            string
	Page          int
	Image         string
	Subtitles     []Subtitle
	TotalDuration time.Duration
}

type AssembleOptions struct {
	// DefaultDuration applies to every subtitle; zero means DefaultSubtitleDuration.
	DefaultDuration time.Duration
	// ClosingDuration replaces the duration of the chapter's final subtitle when positive.
	ClosingDuration time.Duration
	// ImageRoot is joined in front of each image name.
	ImageRoot string
}

var (
	bracketKey  = regexp.MustCompile(`\[(\d+(?:\.\d+)?)\]`)
	trailingKey = regexp.MustCompile(`(\d+)\.[A-Za-z0-9]+$`)
	imageExts   = map[string]struct{}{".png": {}, ".jpg": {}, ".jpeg": {}, ".webp": {}}
)

// IsImage reports whether name carries a supported image extension.
func IsImage(name string) bool {
	_, ok := imageExts[strings.ToLower(path.Ext(name))]
	return ok
}

// ImageSortKey extracts the ordering number from names such as "[2.1] Intro.png"
// or "14.png". Names without either form sort as 0.
func ImageSortKey(name string) float64 {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if m := bracketKey.FindStringSubmatch(base); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}
	if m := trailingKey.FindStringSubmatch(base); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return float64(v)
		}
	}
	return 0
}

// SortImages returns a sorted copy of images. Equal keys keep input order.
func SortImages(images []string) []string {
	sorted := append([]string(nil), images...)
	sort.SliceStable(sorted, func(a, b int) bool {
		return ImageSortKey(sorted[a]) < ImageSortKey(sorted[b])
	})
	return sorted
}

// AlignAudio zips the flattened subtitle stream with the chapter's audio
// slots: subtitle i receives slot i. Missing and nil slots leave the
// subtitle silent. The input is not modified.
func AlignAudio(stream []Subtitle, slots []*AudioBinding) []Subtitle {
	aligned := make([]Subtitle, len(stream))
	for i, subtitle := range stream {
		subtitle.Audio = nil
		if i < len(slots) && slots[i] != nil && slots[i].ClipID != "" {
			binding := *slots[i]
			subtitle.Audio = &binding
		}
		aligned[i] = subtitle
	}
	return aligned
}

// AssembleSlides builds one slide per image in sorted order. Page numbers are
// 1-based positions in that order; pages with no subtitles get a single empty
// narrator line so every image stays navigable.
func AssembleSlides(chapterName string, images []string, groups map[int][]SubtitleRecord, slots []*AudioBinding, opts AssembleOptions) []Slide {
	defaultDuration := opts.DefaultDuration
	if defaultDuration <= 0 {
		defaultDuration = DefaultSubtitleDuration
	}

	sorted := SortImages(images)
	counts := make([]int, len(sorted))
	var stream []Subtitle
	for i := range sorted {
		page := i + 1
		records := groups[page]
		if len(records) == 0 {
			records = []SubtitleRecord{{Page: page, Line: 1, Speaker: SpeakerNarrator}}
		}
		counts[i] = len(records)
		for _, record := range records {
			stream = append(stream, Subtitle{
				ID:            record.ID(),
				Page:          page,
				Line:          record.Line,
				Text:          record.Text,
				Speaker:       record.Speaker,
				VoiceID:       record.VoiceID,
				ContinueAudio: record.ContinueAudio,
				Duration:      defaultDuration,
			})
		}
	}
	if len(stream) > 0 && opts.ClosingDuration > 0 {
		stream[len(stream)-1].Duration = opts.ClosingDuration
	}
	stream = AlignAudio(stream, slots)

	slides := make([]Slide, 0, len(sorted))
	cursor := 0
	for i, image := range sorted {
		page := i + 1
		subtitles := stream[cursor : cursor+counts[i]]
		cursor += counts[i]
		var total time.Duration
		for _, subtitle := range subtitles {
			total += subtitle.Duration
		}
		ref := image
		if opts.ImageRoot != "" {
			ref = filepath.Join(opts.ImageRoot, image)
		}
		slides = append(slides, Slide{
			ID:            fmt.Sprintf("slide-%s-%d", chapterName, page),
			Page:          page,
			Image:         ref,
			Subtitles:     subtitles,
			TotalDuration: total,
		})
	}
	return slides
}
