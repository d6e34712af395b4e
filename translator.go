package gitex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-gitex/internal/assets"
	"github.com/alnah/go-gitex/internal/config"
	"github.com/alnah/go-gitex/internal/fileutil"
	"github.com/alnah/go-gitex/internal/fragment"
	"github.com/alnah/go-gitex/internal/gitremote"
	"github.com/alnah/go-gitex/internal/hints"
	"github.com/alnah/go-gitex/internal/latex"
	"github.com/alnah/go-gitex/internal/manifest"
	"github.com/alnah/go-gitex/internal/pipeline"
)

// Translator rewrites documents. Configuration is fixed at New; a single
// Translator must not run two translations at once since they would share
// the image folder and the manifest.
// Create with New, use Translate or TranslateFile, and Close when done.
type Translator struct {
	cfg       translatorConfig
	defaults  fragment.Options
	renderer  Renderer
	measurer  Measurer
	loader    assets.AssetLoader
	store     *manifest.Store
	previewer *pipeline.Previewer
	notify    func(Event)
	now       func() time.Time
}

// New creates a Translator. Without WithRenderer it renders with the local
// TeX installation; missing programs are only reported on first use.
func New(opts ...Option) (*Translator, error) {
	t := &Translator{
		measurer:  latex.PNGMeasurer{},
		loader:    assets.NewEmbeddedLoader(),
		previewer: pipeline.NewPreviewer(),
		notify:    func(Event) {},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := config.ValidateImageFolder(t.cfg.imageFolder); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImageFolder, err)
	}
	if t.cfg.githubRoot != "" && !gitremote.ValidRoot(t.cfg.githubRoot) {
		return nil, fmt.Errorf("%w: %q%s", ErrInvalidGitHubRoot, t.cfg.githubRoot, hints.ForGitHubRoot())
	}

	defaults, err := t.cfg.defaults.fragmentOptions()
	if err != nil {
		return nil, err
	}
	t.defaults = defaults

	if t.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(t.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		t.loader = resolver
	}

	if t.renderer == nil {
		t.renderer = &toolchainRenderer{r: latex.New(
			latex.WithAssetLoader(t.loader),
			latex.WithTools(t.cfg.latex, t.cfg.dvipng, t.cfg.optipng),
			latex.WithTempRoot(t.cfg.tempRoot),
			latex.WithNotify(func(msg string) {
				t.notify(Event{Kind: EventNotice, Message: msg})
			}),
		)}
	}

	if t.cfg.manifestPath != "" {
		store, err := manifest.Open(t.cfg.manifestPath)
		if err != nil {
			return nil, err
		}
		t.store = store
	}

	return t, nil
}

// Close releases the manifest, if one was opened.
func (t *Translator) Close() error {
	if t.store == nil {
		return nil
	}
	err := t.store.Close()
	t.store = nil
	return err
}

// Translate reads in.Source to the end and writes the translated document
// to w. Nothing is written unless the whole document translates: errors
// leave w untouched. Errors carry the offending line number.
// Recovers from internal panics so callers never crash.
func (t *Translator) Translate(ctx context.Context, in Input, w io.Writer) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if in.Source == nil {
		return nil, ErrNoSource
	}

	// Artifact paths outlive the run in the manifest, so they must not
	// depend on the working directory.
	if in.OutputDir, err = filepath.Abs(in.OutputDir); err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}

	r := newRun(ctx, t, in)
	out, err := r.translate(in.Source)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}
	return r.res, nil
}

// TranslateFile translates src into dst. dst is replaced atomically: a
// failed translation leaves no new file behind. Includes resolve against
// the directory of src and images go under the directory of dst.
func (t *Translator) TranslateFile(ctx context.Context, src, dst string) (*Result, error) {
	f, err := os.Open(src) // #nosec G304 -- user-provided source path
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := os.Stat(filepath.Dir(dst)); err != nil {
		return nil, fmt.Errorf("output directory: %w%s", err, hints.ForOutputDirectory())
	}

	var res *Result
	err = fileutil.WriteAtomic(dst, 0o644, func(w io.Writer) error {
		var err error
		res, err = t.Translate(ctx, Input{
			Source:    f,
			SourceDir: filepath.Dir(src),
			OutputDir: filepath.Dir(dst),
		}, w)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RenderFormula renders one formula to output with the translator's
// defaults, bypassing the cache. It backs the "gitex render" command.
func (t *Translator) RenderFormula(ctx context.Context, formula string, mode MathMode, output string) error {
	if strings.TrimSpace(formula) == "" {
		return fmt.Errorf("%w: empty formula", ErrNoSource)
	}
	if _, err := fileutil.EnsureDir(filepath.Dir(output)); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := t.renderer.Render(ctx, t.request(formula, mode, t.defaults, output)); err != nil {
		return err
	}
	if !fileutil.FileExists(output) {
		return fmt.Errorf("%w: %s", ErrArtifactMissing, output)
	}
	return nil
}

// request builds the render request for a formula with resolved options.
func (t *Translator) request(formula string, mode MathMode, opts fragment.Options, output string) RenderRequest {
	return RenderRequest{
		Formula:    formula,
		Mode:       mode,
		DPI:        opts.DPI,
		Packages:   opts.EffectivePackages(),
		Foreground: fragment.NormalizeColor(opts.Foreground),
		Background: fragment.NormalizeColor(opts.Background),
		Optimize:   opts.OptimizeEnabled(),
		Output:     output,
	}
}

// rawPrefix returns the raw GitHub URL of the output directory, or "".
func (t *Translator) rawPrefix() string {
	if t.cfg.githubRoot == "" {
		return ""
	}
	return gitremote.RawURL(t.cfg.githubRoot, "")
}

// isNotExist reports whether err means a missing file.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
