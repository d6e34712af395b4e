package pipeline

import (
	"context"
	"fmt"
)

// PreviewInput is one document to preview.
type PreviewInput struct {
	Markdown string
	Title    string
	CSS      string
	Images   ImageRewrite
}

// Previewer chains conversion, image rewriting and CSS injection.
type Previewer struct {
	converter HTMLConverter
	css       CSSInjector
}

// NewPreviewer creates a Previewer backed by Goldmark.
func NewPreviewer() *Previewer {
	return &Previewer{
		converter: NewGoldmarkConverter(),
		css:       &CSSInjection{},
	}
}

// Render returns the preview page for in.
func (p *Previewer) Render(ctx context.Context, in PreviewInput) (string, error) {
	page, err := p.converter.ToHTML(ctx, in.Title, in.Markdown)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	page, err = RewriteImages(page, in.Images)
	if err != nil {
		return "", fmt.Errorf("rewriting image sources: %w", err)
	}

	page = p.css.InjectCSS(ctx, page, in.CSS)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return page, nil
}
