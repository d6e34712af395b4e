package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubConverter returns fixed HTML or an error.
type stubConverter struct {
	html string
	err  error
}

func (s *stubConverter) ToHTML(context.Context, string, string) (string, error) {
	return s.html, s.err
}

func TestPreviewer_Render(t *testing.T) {
	t.Parallel()

	md := "# Notes\n\nEnergy <img src=\"img/tex_" + sampleKey + ".png\" alt=\"E=mc^2\" height=\"14\" /> here.\n"

	got, err := NewPreviewer().Render(context.Background(), PreviewInput{
		Markdown: md,
		Title:    "notes",
		CSS:      "img." + MathClass + "{vertical-align:middle}",
		Images:   ImageRewrite{SourceDir: testSourceDir()},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"<title>notes</title>",
		"<style>img." + MathClass,
		`class="` + MathClass + `"`,
		`src="file://`,
		`<h1 id="notes">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q in:\n%s", want, got)
		}
	}
}

func TestPreviewer_Render_ConversionError(t *testing.T) {
	t.Parallel()

	p := &Previewer{
		converter: &stubConverter{err: ErrHTMLConversion},
		css:       &CSSInjection{},
	}

	_, err := p.Render(context.Background(), PreviewInput{Markdown: "x"})
	if !errors.Is(err, ErrHTMLConversion) {
		t.Errorf("Render() error = %v, want ErrHTMLConversion", err)
	}
}

func TestPreviewer_Render_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Previewer{
		converter: &stubConverter{html: "<html><head></head><body></body></html>"},
		css:       &CSSInjection{},
	}
	if _, err := p.Render(ctx, PreviewInput{Markdown: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}
