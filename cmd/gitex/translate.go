package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	gitex "github.com/alnah/go-gitex"
	"github.com/alnah/go-gitex/internal/config"
	"github.com/alnah/go-gitex/internal/fileutil"
	"github.com/alnah/go-gitex/internal/gitremote"
	"github.com/alnah/go-gitex/internal/hints"
)

// Sentinel errors for CLI I/O.
var (
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

// stdio names standard input or output in place of a path.
const stdio = "-"

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// runTranslate translates one document.
func runTranslate(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseTranslateFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printTranslateUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected at most one input, got %d", ErrUsage, len(positional))
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if len(positional) == 1 {
		cfg.Input = positional[0]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	input, output := cfg.Input, cfg.Output
	toStdout := isStdio(output)
	if !toStdout && !isStdio(input) && samePath(input, output) {
		return fmt.Errorf("%w: output %s would overwrite the input", ErrUsage, output)
	}
	if cfg.Preview.Enabled && toStdout && cfg.Preview.Output == "" {
		return fmt.Errorf("%w: --preview needs --output or --preview-output", ErrUsage)
	}

	outputDir := "."
	if !toStdout {
		outputDir = filepath.Dir(output)
	}

	root, err := resolveGitHubRoot(ctx, cfg, outputDir, env)
	if err != nil {
		return err
	}

	rep := newReporter(env, flags.common)
	tr, err := gitex.New(translatorOptions(cfg, root, rep, env)...)
	if err != nil {
		return err
	}
	defer func() { _ = tr.Close() }()

	start := env.Now()
	markdown, res, err := translate(ctx, tr, input, output, env)
	if err != nil {
		rep.Fail()
		return err
	}
	name := output
	if toStdout {
		name = "stdout"
	}
	rep.Done(name, res, env.Now().Sub(start))

	if !cfg.Preview.Enabled {
		return nil
	}
	path, err := writePreview(ctx, tr, cfg, markdown, output, outputDir)
	if err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Wrote preview %s\n", path)
	}
	return nil
}

// translate runs the translator for the resolved input and output and
// returns the translated text.
func translate(ctx context.Context, tr *gitex.Translator, input, output string, env *Environment) (string, *gitex.Result, error) {
	if !isStdio(input) && !isStdio(output) {
		res, err := tr.TranslateFile(ctx, input, output)
		if err != nil {
			return "", nil, err
		}
		data, err := os.ReadFile(output) // #nosec G304 -- just written by us
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		return string(data), res, nil
	}

	src, sourceDir, closeSrc, err := openInput(input, env)
	if err != nil {
		return "", nil, err
	}
	defer closeSrc()

	outputDir := "."
	if !isStdio(output) {
		outputDir = filepath.Dir(output)
	}

	var buf bytes.Buffer
	res, err := tr.Translate(ctx, gitex.Input{Source: src, SourceDir: sourceDir, OutputDir: outputDir}, &buf)
	if err != nil {
		return "", nil, err
	}

	if isStdio(output) {
		if _, err := env.Stdout.Write(buf.Bytes()); err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return buf.String(), res, nil
	}

	err = fileutil.WriteAtomic(output, filePermissions, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return buf.String(), res, nil
}

// openInput opens a source document, or stdin for "" and "-".
func openInput(input string, env *Environment) (io.Reader, string, func(), error) {
	if isStdio(input) {
		return env.Stdin, ".", func() {}, nil
	}
	f, err := os.Open(input) // #nosec G304 -- user-provided input path
	if err != nil {
		return nil, "", nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return f, filepath.Dir(input), func() { _ = f.Close() }, nil
}

// writePreview renders the translated document to an HTML page and
// returns its path.
func writePreview(ctx context.Context, tr *gitex.Translator, cfg *config.Config, markdown, output, outputDir string) (string, error) {
	path := cfg.Preview.Output
	if path == "" {
		path = strings.TrimSuffix(output, filepath.Ext(output)) + ".html"
	}

	title := ""
	if !isStdio(output) {
		title = strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	}

	page, err := tr.Preview(ctx, gitex.PreviewInput{
		Markdown: markdown,
		Title:    title,
		Dir:      outputDir,
		Style:    cfg.Preview.Style,
	})
	if err != nil {
		return "", err
	}

	err = fileutil.WriteAtomic(path, filePermissions, func(w io.Writer) error {
		_, err := w.Write(page)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	return path, nil
}

// loadConfig loads the config named by the flag or GITEX_CONFIG and
// applies environment overrides.
func loadConfig(flagConfig string) (*config.Config, error) {
	envCfg := loadEnvConfig()

	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *translateFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output = flags.output
	}

	if flags.images.folder != "" {
		cfg.Images.Folder = flags.images.folder
	}
	if flags.images.redraw {
		cfg.Images.Redraw = true
	}

	mergeRenderFlags(&flags.render, &cfg.Render)

	if flags.github.root != "" {
		cfg.GitHub.Root = flags.github.root
	}
	if flags.github.auto {
		cfg.GitHub.Auto = true
	}
	if flags.github.remote != "" {
		cfg.GitHub.Remote = flags.github.remote
	}

	if flags.preview.enabled {
		cfg.Preview.Enabled = true
	}
	if flags.preview.output != "" {
		cfg.Preview.Output = flags.preview.output
		cfg.Preview.Enabled = true
	}
	if flags.preview.style != "" {
		cfg.Preview.Style = flags.preview.style
	}

	if flags.manifest != "" {
		cfg.Manifest.Path = flags.manifest
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}
}

// mergeRenderFlags merges rendering flags shared by translate and render.
func mergeRenderFlags(f *renderFlags, r *config.RenderConfig) {
	if f.dpi != 0 {
		r.DPI = f.dpi
	}
	if len(f.packages) > 0 {
		r.Packages = f.packages
	}
	if f.foreground != "" {
		r.Foreground = f.foreground
	}
	if f.background != "" {
		r.Background = f.background
	}
	if f.optimize {
		r.Optimize = true
	}
	if f.latex != "" {
		r.LaTeX = f.latex
	}
	if f.dvipng != "" {
		r.DVIPNG = f.dvipng
	}
	if f.optipng != "" {
		r.OptiPNG = f.optipng
	}
}

// resolveGitHubRoot returns the configured root, or derives it from the
// checkout containing dir when github.auto is set. The derived root
// assumes the document sits at the top of the checkout.
func resolveGitHubRoot(ctx context.Context, cfg *config.Config, dir string, env *Environment) (string, error) {
	if cfg.GitHub.Root != "" || !cfg.GitHub.Auto {
		return cfg.GitHub.Root, nil
	}
	root, err := gitremote.Root(ctx, env.Git, dir, cfg.GitHub.Remote)
	if err != nil {
		return "", fmt.Errorf("deriving GitHub root: %w%s", err, hints.ForGitHubRoot())
	}
	return root, nil
}

// translatorOptions builds translator options from the merged config.
func translatorOptions(cfg *config.Config, root string, rep *reporter, env *Environment) []gitex.Option {
	opts := []gitex.Option{
		gitex.WithDefaults(renderDefaults(cfg.Render)),
		gitex.WithImageFolder(cfg.Images.Folder),
		gitex.WithRedraw(cfg.Images.Redraw),
		gitex.WithGitHubRoot(root),
		gitex.WithManifestPath(cfg.Manifest.Path),
		gitex.WithAssetPath(cfg.Assets.BasePath),
		gitex.WithTools(cfg.Render.LaTeX, cfg.Render.DVIPNG, cfg.Render.OptiPNG),
		gitex.WithNotify(rep.Event),
	}
	return append(opts, env.translatorOptions()...)
}

// renderDefaults converts the render config section.
func renderDefaults(r config.RenderConfig) gitex.Options {
	return gitex.Options{
		DPI:        r.DPI,
		Packages:   r.Packages,
		Foreground: r.Foreground,
		Background: r.Background,
		Optimize:   r.Optimize,
	}
}

func isStdio(path string) bool {
	return path == "" || path == stdio
}

// samePath reports whether a and b name the same file.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
