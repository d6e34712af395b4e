package gitex

import (
	"context"
	"io"

	"github.com/alnah/go-gitex/internal/fragment"
	"github.com/alnah/go-gitex/internal/latex"
)

// MathMode selects how a formula is wrapped before compilation.
type MathMode = fragment.MathMode

// Math modes.
const (
	ModeInline   = fragment.ModeInline
	ModeDisplay  = fragment.ModeDisplay
	ModeHeadless = fragment.ModeHeadless
	ModeNone     = fragment.ModeNone
)

// Defaults applied when Options leaves a field empty.
const (
	DefaultDPI        = latex.DefaultDPI
	DefaultForeground = latex.DefaultForeground
	DefaultBackground = latex.DefaultBackground
)

// Options are the document-wide render settings. Per-formula [k=v]
// suffixes and \begin[...] options override them field by field; a
// per-formula package list replaces Packages, and amsmath and amssymb are
// always added.
type Options struct {
	DPI        int
	Packages   []string
	Foreground string // dvipng color: a name, "rgb R G B" (0-255) or a raw dvipng color
	Background string
	Optimize   bool
}

// RenderRequest is one formula to rasterize. Colors are already in dvipng
// form and Packages already include the base set.
type RenderRequest struct {
	Formula    string
	Mode       MathMode
	DPI        int
	Packages   []string
	Foreground string
	Background string
	Optimize   bool
	// Output is the PNG path to create.
	Output string
}

// Renderer produces the PNG named by a request.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) error
}

// Measurer reads the pixel size of a rendered image.
type Measurer interface {
	Measure(path string) (width, height int, err error)
}

// Input is one document to translate.
type Input struct {
	Source io.Reader
	// SourceDir resolves relative \include paths. Empty means the working
	// directory.
	SourceDir string
	// OutputDir is where the translated document will live. The image
	// folder is relative to it. Empty means the working directory.
	OutputDir string
}

// Result summarizes a translation.
type Result struct {
	Formulas int // math spans, blocks and includes replaced
	Images   int // image directives rewritten
	Rendered int // renderer invocations
	Cached   int // formulas served from an existing image
}

// EventKind classifies an Event.
type EventKind int

// Event kinds.
const (
	EventRendered EventKind = iota
	EventCached
	EventFolderCreated
	EventNotice
)

func (k EventKind) String() string {
	switch k {
	case EventRendered:
		return "rendered"
	case EventCached:
		return "cached"
	case EventFolderCreated:
		return "created"
	default:
		return "notice"
	}
}

// Event reports progress to the function set with WithNotify.
type Event struct {
	Kind    EventKind
	Line    int    // source line, 0 when not tied to one
	Path    string // image or folder concerned
	Message string
}

// toolchainRenderer adapts the latex package to Renderer.
type toolchainRenderer struct {
	r *latex.Renderer
}

func (t *toolchainRenderer) Render(ctx context.Context, req RenderRequest) error {
	return t.r.Render(ctx, latex.Request{
		Formula:    req.Formula,
		Mode:       req.Mode,
		DPI:        req.DPI,
		Packages:   req.Packages,
		Foreground: req.Foreground,
		Background: req.Background,
		Optimize:   req.Optimize,
		Output:     req.Output,
	})
}

var (
	_ Renderer = (*toolchainRenderer)(nil)
	_ Measurer = latex.PNGMeasurer{}
)
