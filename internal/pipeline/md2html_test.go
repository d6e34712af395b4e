package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGoldmarkConverter_ToHTML - Markdown conversion
// ---------------------------------------------------------------------------

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	conv := NewGoldmarkConverter()

	tests := []struct {
		name         string
		title        string
		markdown     string
		wantContains []string
	}{
		{
			name:         "heading gets an id",
			markdown:     "# Hello World",
			wantContains: []string{`<h1 id="hello-world">Hello World</h1>`},
		},
		{
			name:         "raw img markup kept",
			markdown:     `a <img src="tex_x.png" alt="x" height="12" /> b`,
			wantContains: []string{`<img src="tex_x.png" alt="x" height="12" />`},
		},
		{
			name:         "table extension",
			markdown:     "| a | b |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:         "code highlighted with classes",
			markdown:     "```go\nfunc main() {}\n```",
			wantContains: []string{`class="chroma"`},
		},
		{
			name:         "default title",
			markdown:     "text",
			wantContains: []string{"<title>" + DefaultTitle + "</title>"},
		},
		{
			name:         "title escaped",
			title:        "a <b> & c",
			markdown:     "text",
			wantContains: []string{"<title>a &lt;b&gt; &amp; c</title>"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToHTML(context.Background(), tt.title, tt.markdown)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			if !strings.HasPrefix(got, "<!DOCTYPE html>") {
				t.Errorf("ToHTML() should produce a full document, got %q", got)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestGoldmarkConverter_ToHTML_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter().ToHTML(ctx, "", "# x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}
