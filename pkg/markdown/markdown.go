// Package markdown turns stored post bodies into display HTML. It runs
// on the read side only; the raw markdown is what gets persisted.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer wraps goldmark. WithUnsafe keeps author-supplied raw HTML
// in the output, matching the reference renderer. Callers hold the
// rendering behind an interface so a sanitizing implementation can be
// swapped in as a deliberate, tested change.
type Renderer struct {
	md goldmark.Markdown
}

func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

func (r *Renderer) Render(raw string) (string, error) {
	var buf strings.Builder
	if err := r.md.Convert([]byte(raw), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
