package gitex

import "testing"

func TestImgTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		src, alt      string
		width, height int
		want          string
	}{
		{
			name: "no size",
			src:  "a.png", alt: "x",
			want: `<img src="a.png" alt="x" />`,
		},
		{
			name: "both sizes",
			src:  "a.png", alt: "x", width: 3, height: 4,
			want: `<img src="a.png" alt="x" width="3" height="4" />`,
		},
		{
			name: "escapes quotes and dollars",
			src:  `a".png`, alt: `$a<b$`,
			want: `<img src="a&#34;.png" alt="&#36;a&lt;b&#36;" />`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := imgTag(tt.src, tt.alt, tt.width, tt.height); got != tt.want {
				t.Errorf("imgTag() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAltText(t *testing.T) {
	t.Parallel()

	if got := altText("\n  a +\tb\n  = c\n"); got != "a + b = c" {
		t.Errorf("altText() = %q, want %q", got, "a + b = c")
	}
}
