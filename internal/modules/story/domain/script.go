package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type Speaker string

const (
	SpeakerNarrator  Speaker = "narrator"
	SpeakerLuna      Speaker = "luna"
	SpeakerCharacter Speaker = "character"
)

// SubtitleRecord is one parsed script directive. SourceLine is the 1-based
// script line it was read from.
type SubtitleRecord struct {
	Page          int
	Line          int
	Text          string
	Speaker       Speaker
	VoiceID       string
	ContinueAudio bool
	SourceLine    int
}

func (r SubtitleRecord) ID() string {
	return fmt.Sprintf("%d-%d", r.Page, r.Line)
}

// Diagnostic describes script or catalog content that was skipped or
// repaired while loading. Line is 1-based and zero when not line-specific.
type Diagnostic struct {
	Chapter string
	Line    int
	Text    string
	Reason  string
}

func (d Diagnostic) String() string {
	prefix := d.Chapter
	if d.Line > 0 {
		prefix = fmt.Sprintf("%s:%d", prefix, d.Line)
	}
	if prefix == "" {
		return d.Reason
	}
	return prefix + ": " + d.Reason
}

var (
	directivePattern = regexp.MustCompile(`^(\d+)-(\d+)(?:-(luna|character|continue|V\d+(?:-luna)?|V\d+(?:-character)?))?\s*:\s*(.+)$`)
	voicePattern     = regexp.MustCompile(`^(V\d+)(?:-(luna|character))?$`)
)

// ParseScript reads `<page>-<line>[-<tag>] : <text>` directives in input
// order. Blank lines and lines starting with '#' are ignored; any other line
// that does not match is skipped and reported.
func ParseScript(text string) ([]SubtitleRecord, []Diagnostic) {
	var (
		records     []SubtitleRecord
		diagnostics []Diagnostic
	)
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		match := directivePattern.FindStringSubmatch(line)
		if match == nil {
			diagnostics = append(diagnostics, Diagnostic{Line: i + 1, Text: line, Reason: "line does not match <page>-<line>[-tag]: text"})
			continue
		}
		page, errPage := strconv.Atoi(match[1])
		number, errLine := strconv.Atoi(match[2])
		if errPage != nil || errLine != nil {
			diagnostics = append(diagnostics, Diagnostic{Line: i + 1, Text: line, Reason: "page or line number out of range"})
			continue
		}
		record := SubtitleRecord{
			Page:       page,
			Line:       number,
			Text:       strings.TrimSpace(match[4]),
			Speaker:    SpeakerNarrator,
			SourceLine: i + 1,
		}
		applyTag(&record, match[3])
		records = append(records, record)
	}
	return records, diagnostics
}

func applyTag(record *SubtitleRecord, tag string) {
	switch tag {
	case "":
	case "luna":
		record.Speaker = SpeakerLuna
	case "character":
		record.Speaker = SpeakerCharacter
	case "continue":
		record.ContinueAudio = true
	default:
		voice := voicePattern.FindStringSubmatch(tag)
		if voice == nil {
			return
		}
		record.VoiceID = voice[1]
		if voice[2] != "" {
			record.Speaker = Speaker(voice[2])
		}
	}
}

// GroupByPage buckets records by page, ordering each page by line number.
// A repeated (page, line) pair keeps the first occurrence.
func GroupByPage(records []SubtitleRecord) (map[int][]SubtitleRecord, []Diagnostic) {
	groups := make(map[int][]SubtitleRecord)
	seen := make(map[string]struct{}, len(records))
	var diagnostics []Diagnostic
	for _, record := range records {
		key := record.ID()
		if _, dup := seen[key]; dup {
			diagnostics = append(diagnostics, Diagnostic{Line: record.SourceLine, Text: record.Text, Reason: fmt.Sprintf("duplicate subtitle %s ignored", key)})
			continue
		}
		seen[key] = struct{}{}
		groups[record.Page] = append(groups[record.Page], record)
	}
	for page := range groups {
		sort.SliceStable(groups[page], func(a, b int) bool {
			return groups[page][a].Line < groups[page][b].Line
		})
	}
	return groups, diagnostics
}
