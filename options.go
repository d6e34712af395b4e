package gitex

import (
	"fmt"
	"strings"

	"github.com/alnah/go-gitex/internal/fragment"
)

// Option configures a Translator.
type Option func(*Translator)

// translatorConfig holds settings resolved in New.
type translatorConfig struct {
	defaults     Options
	imageFolder  string
	redraw       bool
	githubRoot   string
	manifestPath string
	assetPath    string
	latex        string
	dvipng       string
	optipng      string
	tempRoot     string
}

// WithRenderer replaces the latex/dvipng toolchain.
// Panics if r is nil (programmer error).
func WithRenderer(r Renderer) Option {
	if r == nil {
		panic("gitex: WithRenderer renderer must not be nil")
	}
	return func(t *Translator) {
		t.renderer = r
	}
}

// WithMeasurer replaces the PNG size reader.
// Panics if m is nil (programmer error).
func WithMeasurer(m Measurer) Option {
	if m == nil {
		panic("gitex: WithMeasurer measurer must not be nil")
	}
	return func(t *Translator) {
		t.measurer = m
	}
}

// WithDefaults sets the document-wide render options.
func WithDefaults(o Options) Option {
	return func(t *Translator) {
		t.cfg.defaults = o
	}
}

// WithImageFolder sets where images go, relative to the output document.
// It must not be absolute or leave the output directory.
func WithImageFolder(folder string) Option {
	return func(t *Translator) {
		t.cfg.imageFolder = folder
	}
}

// WithRedraw re-renders every formula even when its image exists.
func WithRedraw(redraw bool) Option {
	return func(t *Translator) {
		t.cfg.redraw = redraw
	}
}

// WithGitHubRoot makes image links absolute raw.githubusercontent.com URLs
// under root, given as "<user>/<repo>/<branch>". Image directives whose URL
// starts with "/" are rewritten against the same root.
func WithGitHubRoot(root string) Option {
	return func(t *Translator) {
		t.cfg.githubRoot = strings.Trim(root, "/")
	}
}

// WithManifestPath records every image in a bbolt database at path.
func WithManifestPath(path string) Option {
	return func(t *Translator) {
		t.cfg.manifestPath = path
	}
}

// WithAssetPath loads LaTeX templates and preview styles from dir,
// falling back to the embedded ones.
func WithAssetPath(dir string) Option {
	return func(t *Translator) {
		t.cfg.assetPath = dir
	}
}

// WithTools overrides the latex, dvipng and optipng programs used by the
// default renderer. Empty values keep the defaults.
func WithTools(latex, dvipng, optipng string) Option {
	return func(t *Translator) {
		t.cfg.latex = latex
		t.cfg.dvipng = dvipng
		t.cfg.optipng = optipng
	}
}

// WithTempDir sets the parent of the default renderer's scratch
// directories.
func WithTempDir(dir string) Option {
	return func(t *Translator) {
		t.cfg.tempRoot = dir
	}
}

// WithNotify receives progress events.
// Panics if fn is nil (programmer error).
func WithNotify(fn func(Event)) Option {
	if fn == nil {
		panic("gitex: WithNotify function must not be nil")
	}
	return func(t *Translator) {
		t.notify = fn
	}
}

// fragmentOptions converts o into the layer every formula is merged over.
// Empty fields take the package defaults so that keys always reflect the
// effective settings.
func (o Options) fragmentOptions() (fragment.Options, error) {
	if o.DPI < 0 {
		return fragment.Options{}, fmt.Errorf("%w: dpi %d", ErrInvalidDefaults, o.DPI)
	}

	f := fragment.Options{
		DPI:        o.DPI,
		Foreground: o.Foreground,
		Background: o.Background,
		Optimize:   &o.Optimize,
	}
	if f.DPI == 0 {
		f.DPI = DefaultDPI
	}
	if f.Foreground == "" {
		f.Foreground = DefaultForeground
	}
	if f.Background == "" {
		f.Background = DefaultBackground
	}
	if len(o.Packages) > 0 {
		f.Packages = append([]string(nil), o.Packages...)
	}
	return f, nil
}
