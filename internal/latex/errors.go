package latex

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for rendering.
var (
	// ErrRender indicates latex, dvipng or optipng failed.
	ErrRender = errors.New("formula rendering failed")

	// ErrToolNotFound indicates a required external program is not on PATH.
	ErrToolNotFound = errors.New("required program not found")

	// ErrInvalidRequest indicates a render request is missing required fields.
	ErrInvalidRequest = errors.New("invalid render request")
)

// RenderError carries the diagnostics of a failed tool run: the captured
// output and the LaTeX source that was compiled.
type RenderError struct {
	Tool   string
	Output string
	Source string
	Err    error
}

func (e *RenderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ErrRender, e.Tool)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString("\n--- " + e.Tool + " output ---\n")
		b.WriteString(out)
	}
	if src := strings.TrimSpace(e.Source); src != "" {
		b.WriteString("\n--- LaTeX source ---\n")
		b.WriteString(src)
	}
	return b.String()
}

// Unwrap exposes both ErrRender and the underlying cause to errors.Is.
func (e *RenderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRender}
	}
	return []error{ErrRender, e.Err}
}
