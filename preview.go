package gitex

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-gitex/internal/assets"
	"github.com/alnah/go-gitex/internal/hints"
	"github.com/alnah/go-gitex/internal/pipeline"
)

// DefaultStyle is the preview stylesheet used when none is named.
const DefaultStyle = assets.DefaultStyleName

// PreviewInput is a translated document to show as HTML.
type PreviewInput struct {
	Markdown string
	Title    string
	// Dir is the directory of the translated document; relative image
	// sources resolve against it.
	Dir string
	// Style names a preview stylesheet (default "default").
	Style string
}

// Preview renders a translated document as a standalone HTML page.
// Raw GitHub image links under the translator's root are served from Dir,
// so the page works before anything is pushed.
func (t *Translator) Preview(ctx context.Context, in PreviewInput) ([]byte, error) {
	style := in.Style
	if style == "" {
		style = DefaultStyle
	}
	css, err := t.loader.LoadStyle(style)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return nil, fmt.Errorf("loading style %q: %w%s", style, err, hints.ForStyleNotFound(StyleNames()))
		}
		return nil, fmt.Errorf("loading style %q: %w", style, err)
	}

	page, err := t.previewer.Render(ctx, pipeline.PreviewInput{
		Markdown: in.Markdown,
		Title:    in.Title,
		CSS:      css,
		Images: pipeline.ImageRewrite{
			SourceDir: in.Dir,
			RawPrefix: t.rawPrefix(),
		},
	})
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}

// StyleNames lists the built-in preview styles.
func StyleNames() []string {
	return assets.NewEmbeddedLoader().StyleNames()
}
