package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	fence        = "---\n"
	closingFence = "\n---\n"
)

// Document is a markdown note split into its YAML header and body.
type Document struct {
	Meta map[string]any
	Body string
}

// Parse splits content into frontmatter and body. Content without a leading
// fence is treated as body only.
func Parse(content string) (Document, error) {
	if !strings.HasPrefix(content, fence) {
		return Document{Meta: map[string]any{}, Body: content}, nil
	}
	rest := content[len(fence):]
	end := strings.Index(rest, closingFence)
	if end < 0 {
		return Document{}, fmt.Errorf("frontmatter is not closed")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return Document{}, fmt.Errorf("decode frontmatter: %w", err)
	}
	return Document{Meta: meta, Body: rest[end+len(closingFence):]}, nil
}

// Render writes the document back with its header first.
func (d Document) Render() (string, error) {
	header, err := yaml.Marshal(d.Meta)
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	var out bytes.Buffer
	out.WriteString(fence)
	out.Write(header)
	out.WriteString(fence)
	if !strings.HasPrefix(d.Body, "\n") {
		out.WriteByte('\n')
	}
	out.WriteString(d.Body)
	return out.String(), nil
}

// Block is a region of the body owned by the application, delimited by HTML
// comment markers so hand edits outside it survive rewrites.
type Block struct {
	Name string
}

func (b Block) start() string { return "<!-- storydeck:" + b.Name + ":start -->" }
func (b Block) end() string   { return "<!-- storydeck:" + b.Name + ":end -->" }

// Replace swaps the block's content inside body, appending the block when it
// is not present yet.
func (b Block) Replace(body, content string) string {
	startMarker, endMarker := b.start(), b.end()
	rendered := startMarker + "\n" + strings.TrimRight(content, "\n") + "\n" + endMarker

	from := strings.Index(body, startMarker)
	to := strings.Index(body, endMarker)
	if from >= 0 && to > from {
		return body[:from] + rendered + body[to+len(endMarker):]
	}
	switch {
	case strings.TrimSpace(body) == "":
		return rendered + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + rendered + "\n"
	default:
		return body + "\n\n" + rendered + "\n"
	}
}
