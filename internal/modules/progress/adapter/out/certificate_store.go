package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"storydeck/internal/modules/progress/domain"
	progressout "storydeck/internal/modules/progress/port/out"
	"storydeck/internal/platform/markdown"
	"storydeck/internal/platform/slug"
)

var badgeBlock = markdown.Block{Name: "badges"}

// MarkdownCertificateStore writes one note per certificate holder. Text the
// user adds below the header is kept; only the frontmatter and the badge
// block are regenerated.
type MarkdownCertificateStore struct {
	dir string
}

func NewMarkdownCertificateStore(dir string) progressout.CertificateStore {
	return &MarkdownCertificateStore{dir: dir}
}

func (s *MarkdownCertificateStore) Save(_ context.Context, cert domain.Certificate) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create certificate dir: %w", err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("certificate-%s.md", slug.Make(cert.Name)))

	doc := markdown.Document{Body: fmt.Sprintf("# Certificate of Completion\n\nAwarded to **%s** on %s.\n", cert.Name, cert.CertifiedAt.Format("January 2, 2006"))}
	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return "", fmt.Errorf("read certificate: %w", err)
	default:
		parsed, err := markdown.Parse(string(existing))
		if err != nil {
			return "", err
		}
		doc.Body = parsed.Body
	}

	doc.Meta = map[string]any{
		"certificate_id": cert.ID,
		"name":           cert.Name,
		"certified_at":   cert.CertifiedAt.Format("2006-01-02T15:04:05Z07:00"),
		"badges":         cert.Badges,
	}
	lines := make([]string, 0, len(cert.Badges))
	for _, badge := range cert.Badges {
		lines = append(lines, "- "+badge)
	}
	doc.Body = badgeBlock.Replace(doc.Body, "## Badges\n\n"+strings.Join(lines, "\n"))

	rendered, err := doc.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write certificate: %w", err)
	}
	return path, nil
}
