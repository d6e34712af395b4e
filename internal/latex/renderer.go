// Package latex turns a formula into a PNG by running latex and dvipng, and
// optionally optipng, inside a scratch directory that is always removed.
package latex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"text/template"

	"github.com/alnah/go-gitex/internal/assets"
	"github.com/alnah/go-gitex/internal/fileutil"
	"github.com/alnah/go-gitex/internal/fragment"
	"github.com/alnah/go-gitex/internal/hints"
)

// Default tool names and colors.
const (
	DefaultLaTeX      = "latex"
	DefaultDVIPNG     = "dvipng"
	DefaultOptiPNG    = "optipng"
	DefaultForeground = "Black"
	DefaultBackground = "White"
	DefaultDPI        = 300
)

// Scratch file names inside the per-render directory.
const (
	texName = "formula.tex"
	dviName = "formula.dvi"
	pngName = "formula.png"
)

// optipngArgs try every zlib/filter combination; slow but the result is cached.
var optipngArgs = []string{"-quiet", "-zc1-9", "-zm1-9", "-zs0-3", "-f0-5"}

// Request describes one formula to render.
type Request struct {
	Formula    string
	Mode       fragment.MathMode
	DPI        int
	Packages   []string
	Foreground string
	Background string
	Optimize   bool
	// Output is the destination PNG path.
	Output string
}

// Renderer runs the TeX toolchain.
type Renderer struct {
	runner   CommandRunner
	loader   assets.AssetLoader
	lookPath func(string) (string, error)
	notify   func(string)
	tempRoot string
	latex    string
	dvipng   string
	optipng  string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRunner replaces the command runner (tests use a fake).
func WithRunner(r CommandRunner) Option {
	return func(rd *Renderer) {
		rd.runner = r
	}
}

// WithAssetLoader sets where the inline and display templates come from.
func WithAssetLoader(l assets.AssetLoader) Option {
	return func(rd *Renderer) {
		rd.loader = l
	}
}

// WithLookPath replaces exec.LookPath for tool discovery.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(rd *Renderer) {
		rd.lookPath = fn
	}
}

// WithNotify receives non-fatal notices, such as a skipped optipng pass.
func WithNotify(fn func(string)) Option {
	return func(rd *Renderer) {
		rd.notify = fn
	}
}

// WithTempRoot sets the parent of scratch directories (default os.TempDir).
func WithTempRoot(dir string) Option {
	return func(rd *Renderer) {
		rd.tempRoot = dir
	}
}

// WithTools overrides the latex, dvipng and optipng programs. Empty values
// keep the defaults.
func WithTools(latex, dvipng, optipng string) Option {
	return func(rd *Renderer) {
		if latex != "" {
			rd.latex = latex
		}
		if dvipng != "" {
			rd.dvipng = dvipng
		}
		if optipng != "" {
			rd.optipng = optipng
		}
	}
}

// New creates a Renderer using the real toolchain and embedded templates.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		runner:   &ExecRunner{},
		loader:   assets.NewEmbeddedLoader(),
		lookPath: exec.LookPath,
		notify:   func(string) {},
		latex:    DefaultLaTeX,
		dvipng:   DefaultDVIPNG,
		optipng:  DefaultOptiPNG,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces req.Output. The PNG is assembled in a scratch directory
// and copied into place only after every tool succeeded, so a failed run
// never leaves a file that would later count as cached.
func (r *Renderer) Render(ctx context.Context, req Request) error {
	if req.Output == "" {
		return fmt.Errorf("%w: empty output path", ErrInvalidRequest)
	}
	if req.DPI == 0 {
		req.DPI = DefaultDPI
	}
	if req.DPI < 0 {
		return fmt.Errorf("%w: dpi %d", ErrInvalidRequest, req.DPI)
	}
	if req.Foreground == "" {
		req.Foreground = DefaultForeground
	}
	if req.Background == "" {
		req.Background = DefaultBackground
	}

	latexBin, err := r.resolve(r.latex)
	if err != nil {
		return err
	}
	dvipngBin, err := r.resolve(r.dvipng)
	if err != nil {
		return err
	}

	source, err := r.Source(req)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp(r.tempRoot, "gitex-*")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	texPath := filepath.Join(dir, texName)
	if err := os.WriteFile(texPath, []byte(source), 0o600); err != nil {
		return fmt.Errorf("writing LaTeX source: %w", err)
	}

	out, err := r.runner.Run(ctx, dir, latexBin,
		"-halt-on-error", "-interaction=nonstopmode", "-output-directory="+dir, texPath)
	if err != nil {
		return r.failure(ctx, "latex", out, source, err)
	}
	dviPath := filepath.Join(dir, dviName)
	if !fileutil.FileExists(dviPath) {
		return &RenderError{Tool: "latex", Output: out, Source: source, Err: errors.New("no DVI file produced")}
	}

	pngPath := filepath.Join(dir, pngName)
	out, err = r.runner.Run(ctx, dir, dvipngBin,
		"-D", strconv.Itoa(req.DPI),
		"-fg", req.Foreground,
		"-bg", req.Background,
		"-T", "tight",
		"--strict", "-q",
		"-o", pngPath,
		dviPath)
	if err != nil {
		return r.failure(ctx, "dvipng", out, source, err)
	}
	if !fileutil.FileExists(pngPath) {
		return &RenderError{Tool: "dvipng", Output: out, Source: source, Err: errors.New("no PNG file produced")}
	}

	if req.Optimize {
		if err := r.optimize(ctx, dir, pngPath, source); err != nil {
			return err
		}
	}

	return copyInto(pngPath, req.Output)
}

// Source returns the LaTeX document compiled for req. Inline and display
// formulas are wrapped in their template; headless and none fragments are
// complete documents already and pass through verbatim.
func (r *Renderer) Source(req Request) (string, error) {
	if !req.Mode.Wrapped() {
		return req.Formula, nil
	}
	name := assets.InlineTemplateName
	if req.Mode == fragment.ModeDisplay {
		name = assets.DisplayTemplateName
	}

	content, err := r.loader.LoadTemplate(name)
	if err != nil {
		return "", fmt.Errorf("loading %s template: %w", name, err)
	}
	tmpl, err := template.New(name).Delims("<<", ">>").Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing %s template: %w", name, err)
	}

	var buf bytes.Buffer
	data := struct {
		Formula  string
		Packages []string
	}{Formula: req.Formula, Packages: req.Packages}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", name, err)
	}
	return buf.String(), nil
}

// optimize runs optipng in place. A missing optipng is reported through
// notify and skipped.
func (r *Renderer) optimize(ctx context.Context, dir, pngPath, source string) error {
	bin, err := r.lookPath(r.optipng)
	if err != nil {
		r.notify(fmt.Sprintf("%s not found, skipping PNG optimization", r.optipng))
		return nil
	}
	args := append(append([]string{}, optipngArgs...), pngPath)
	out, err := r.runner.Run(ctx, dir, bin, args...)
	if err != nil {
		return r.failure(ctx, "optipng", out, source, err)
	}
	return nil
}

// resolve finds a tool on PATH.
func (r *Renderer) resolve(tool string) (string, error) {
	bin, err := r.lookPath(tool)
	if err != nil {
		return "", fmt.Errorf("%w: %s%s", ErrToolNotFound, tool, hints.ForMissingTool(filepath.Base(tool)))
	}
	return bin, nil
}

// failure builds the error for a failed tool. Cancellation is reported as
// such rather than as a tool failure.
func (r *Renderer) failure(ctx context.Context, tool, output, source string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &RenderError{Tool: tool, Output: output, Source: source, Err: err}
}

// copyInto places the finished PNG at dst atomically.
func copyInto(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- scratch file created above
	if err != nil {
		return fmt.Errorf("opening rendered PNG: %w", err)
	}
	defer func() { _ = in.Close() }()

	if err := fileutil.WriteAtomic(dst, 0o644, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	}); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
