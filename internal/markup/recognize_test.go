package markup

// Notes:
// - Offsets in expected matches are byte offsets; all inputs are ASCII so
//   they can be counted by eye.

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestFindImages - Image directive recognition
// ---------------------------------------------------------------------------

func TestFindImages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want []ImageMatch
	}{
		{
			name: "no directive",
			line: "plain text",
			want: nil,
		},
		{
			name: "unsized",
			line: "![a](b.png)",
			want: []ImageMatch{{Span: Span{0, 11}, Alt: "a", URL: "b.png"}},
		},
		{
			name: "width only",
			line: "![a](b.png =200x)",
			want: []ImageMatch{{Span: Span{0, 17}, Alt: "a", URL: "b.png", Width: 200, Sized: true}},
		},
		{
			name: "height only",
			line: "![a](b.png =x50)",
			want: []ImageMatch{{Span: Span{0, 16}, Alt: "a", URL: "b.png", Height: 50, Sized: true}},
		},
		{
			name: "both dimensions with spaces",
			line: "x ![cat](img/c.png = 20 x 30 ) y",
			want: []ImageMatch{{Span: Span{2, 30}, Alt: "cat", URL: "img/c.png", Width: 20, Height: 30, Sized: true}},
		},
		{
			name: "empty size suffix",
			line: "![a](b.png =x)",
			want: []ImageMatch{{Span: Span{0, 14}, Alt: "a", URL: "b.png", Sized: true}},
		},
		{
			name: "query string equals is not a size",
			line: "![a](http://h/i.png?w=2x3)",
			want: []ImageMatch{{Span: Span{0, 26}, Alt: "a", URL: "http://h/i.png?w=2x3"}},
		},
		{
			name: "two directives",
			line: "![a](x) and ![b](y =1x2)",
			want: []ImageMatch{
				{Span: Span{0, 7}, Alt: "a", URL: "x"},
				{Span: Span{12, 24}, Alt: "b", URL: "y", Width: 1, Height: 2, Sized: true},
			},
		},
		{
			name: "overflowing width leaves target unsized",
			line: "![a](p.png =99999999999999999999x)",
			want: []ImageMatch{{Span: Span{0, 34}, Alt: "a", URL: "p.png =99999999999999999999x"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FindImages(tt.line)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindImages(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestImageMatch_HasSize(t *testing.T) {
	t.Parallel()

	if (ImageMatch{Sized: true}).HasSize() {
		t.Error("HasSize() = true for empty suffix, want false")
	}
	if !(ImageMatch{Width: 1}).HasSize() {
		t.Error("HasSize() = false with width, want true")
	}
}

// ---------------------------------------------------------------------------
// TestFindDisplayMath / TestFindInlineMath - Math span recognition
// ---------------------------------------------------------------------------

func TestFindDisplayMath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want []MathMatch
	}{
		{
			name: "simple",
			line: "$$x^2$$",
			want: []MathMatch{{Span: Span{0, 7}, Formula: "x^2"}},
		},
		{
			name: "with options",
			line: "a $$y$$[dpi=200] b",
			want: []MathMatch{{Span: Span{2, 16}, Formula: "y", Options: "dpi=200", HasOptions: true}},
		},
		{
			name: "unclosed bracket is not a suffix",
			line: "$$y$$[dpi",
			want: []MathMatch{{Span: Span{0, 5}, Formula: "y"}},
		},
		{
			name: "empty body",
			line: "$$$$",
			want: nil,
		},
		{
			name: "single dollar body is not display",
			line: "$$a$ b$$",
			want: nil,
		},
		{
			name: "escaped opening",
			line: `\$$x$$`,
			want: nil,
		},
		{
			name: "escaped closing",
			line: `$$x\$$`,
			want: nil,
		},
		{
			name: "two spans",
			line: "$$a$$ $$b$$",
			want: []MathMatch{
				{Span: Span{0, 5}, Formula: "a"},
				{Span: Span{6, 11}, Formula: "b"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FindDisplayMath(tt.line)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindDisplayMath(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestFindInlineMath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want []MathMatch
	}{
		{
			name: "simple",
			line: "Let $x$ be",
			want: []MathMatch{{Span: Span{4, 7}, Formula: "x"}},
		},
		{
			name: "keeps inner spaces",
			line: "$ a + b $",
			want: []MathMatch{{Span: Span{0, 9}, Formula: " a + b "}},
		},
		{
			name: "options suffix",
			line: "$x$[height=12, dpi=150]",
			want: []MathMatch{{Span: Span{0, 23}, Formula: "x", Options: "height=12, dpi=150", HasOptions: true}},
		},
		{
			name: "link text after math is not a suffix",
			line: "see $x$[footnote](u)",
			want: []MathMatch{{Span: Span{4, 7}, Formula: "x"}},
		},
		{
			name: "empty suffix",
			line: "$x$[]",
			want: []MathMatch{{Span: Span{0, 5}, Formula: "x", HasOptions: true}},
		},
		{
			name: "escaped dollars are prose",
			line: `costs \$5 and \$6`,
			want: nil,
		},
		{
			name: "escaped dollar before real math",
			line: `\$5 and $y$`,
			want: []MathMatch{{Span: Span{8, 11}, Formula: "y"}},
		},
		{
			name: "escaped closing skips to next dollar",
			line: `$a\$ b$`,
			want: nil,
		},
		{
			name: "double dollar without display pass",
			line: "$$x$$",
			want: []MathMatch{{Span: Span{1, 4}, Formula: "x"}},
		},
		{
			name: "unpaired",
			line: "only $ one",
			want: nil,
		},
		{
			name: "several",
			line: "$a$, $b$ and $c$",
			want: []MathMatch{
				{Span: Span{0, 3}, Formula: "a"},
				{Span: Span{5, 8}, Formula: "b"},
				{Span: Span{13, 16}, Formula: "c"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FindInlineMath(tt.line)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindInlineMath(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnescapeLine - Escape removal
// ---------------------------------------------------------------------------

func TestUnescapeLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "no backslash", line: "plain", want: "plain"},
		{name: "escaped dollar", line: `costs \$5`, want: "costs $5"},
		{name: "escaped begin", line: `\\begin[math_mode=display]`, want: `\begin[math_mode=display]`},
		{name: "escaped end", line: `\\end`, want: `\end`},
		{name: "escaped include", line: `\\include[a.tex]`, want: `\include[a.tex]`},
		{name: "prose begin untouched", line: `\begin{align}`, want: `\begin{align}`},
		{name: "latex line break untouched", line: `a \\ b`, want: `a \\ b`},
		{name: "trailing backslash", line: `end\`, want: `end\`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := UnescapeLine(tt.line); got != tt.want {
				t.Errorf("UnescapeLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDirectives - Block directive recognition
// ---------------------------------------------------------------------------

func TestParseBegin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{line: `\begin`, want: "", wantOK: true},
		{line: "\\begin\n", want: "", wantOK: true},
		{line: "  \\begin[math_mode=display]\r\n", want: "math_mode=display", wantOK: true},
		{line: `\begin[]`, want: "", wantOK: true},
		{line: `\begin{align}`, wantOK: false},
		{line: `text \begin`, wantOK: false},
		{line: `\\begin`, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseBegin(tt.line)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseBegin(%q) = (%q, %v), want (%q, %v)", tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want bool
	}{
		{line: `\end`, want: true},
		{line: "  \\end  \n", want: true},
		{line: `\end{align}`, want: false},
		{line: `\endgroup`, want: false},
		{line: `x \end`, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			if got := IsEnd(tt.line); got != tt.want {
				t.Errorf("IsEnd(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseInclude(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{line: `\include[eq.tex]`, want: "eq.tex", wantOK: true},
		{line: "\\include[eq.tex, math_mode=display]\n", want: "eq.tex, math_mode=display", wantOK: true},
		{line: `\include`, wantOK: false},
		{line: `see \include[x]`, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseInclude(tt.line)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseInclude(%q) = (%q, %v), want (%q, %v)", tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
