package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-gitex/internal/timefmt"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("usage error")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// imageFlags holds image folder flags.
type imageFlags struct {
	folder string
	redraw bool
}

// renderFlags holds global rendering flags.
type renderFlags struct {
	dpi        int
	packages   []string
	foreground string
	background string
	optimize   bool
	latex      string
	dvipng     string
	optipng    string
}

// githubFlags holds raw GitHub link flags.
type githubFlags struct {
	root   string
	auto   bool
	remote string
}

// previewFlags holds HTML preview flags.
type previewFlags struct {
	enabled bool
	output  string
	style   string
}

// translateFlags holds all flags for the translate command.
type translateFlags struct {
	common    commonFlags
	output    string
	images    imageFlags
	render    renderFlags
	github    githubFlags
	preview   previewFlags
	manifest  string
	assetPath string
}

// renderCmdFlags holds flags for the render command.
type renderCmdFlags struct {
	common  commonFlags
	output  string
	display bool
	render  renderFlags
}

// cacheFlags holds flags for the cache command.
type cacheFlags struct {
	common     commonFlags
	manifest   string
	olderThan  string
	json       bool
	dateFormat string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "report every formula")
}

// addImageFlags adds image folder flags to a FlagSet.
func addImageFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.StringVarP(&f.folder, "image-folder", "i", "", "image folder relative to the output")
	fs.BoolVarP(&f.redraw, "redraw", "r", false, "re-render existing images")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.IntVar(&f.dpi, "dpi", 0, "render resolution (default 300)")
	fs.StringSliceVar(&f.packages, "packages", nil, "extra LaTeX packages (comma separated)")
	fs.StringVar(&f.foreground, "fg", "", "foreground color: name, \"rgb R G B\" or raw dvipng color")
	fs.StringVar(&f.background, "bg", "", "background color: name, \"rgb R G B\" or raw dvipng color")
	fs.BoolVar(&f.optimize, "optimize", false, "run optipng on new images")
	fs.StringVar(&f.latex, "latex", "", "latex program")
	fs.StringVar(&f.dvipng, "dvipng", "", "dvipng program")
	fs.StringVar(&f.optipng, "optipng", "", "optipng program")
}

// addGitHubFlags adds raw GitHub link flags to a FlagSet.
func addGitHubFlags(fs *flag.FlagSet, f *githubFlags) {
	fs.StringVarP(&f.root, "github-root", "g", "", "raw link root <user>/<repo>/<branch>")
	fs.BoolVar(&f.auto, "github-auto", false, "derive the raw link root from git")
	fs.StringVar(&f.remote, "remote", "", "git remote used by --github-auto (default origin)")
}

// addPreviewFlags adds HTML preview flags to a FlagSet.
func addPreviewFlags(fs *flag.FlagSet, f *previewFlags) {
	fs.BoolVar(&f.enabled, "preview", false, "also write an HTML preview")
	fs.StringVar(&f.output, "preview-output", "", "preview path (default: output with .html)")
	fs.StringVar(&f.style, "style", "", "preview style name")
}

// newFlagSet returns a silent FlagSet; usage is printed by the caller.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// parseErr wraps flag errors so they map to the usage exit code.
// flag.ErrHelp is returned unchanged.
func parseErr(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// parseTranslateFlags parses translate command flags and returns positional args.
func parseTranslateFlags(args []string) (*translateFlags, []string, error) {
	f := &translateFlags{}
	fs := translateFlagSet(f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, parseErr(err)
	}
	return f, fs.Args(), nil
}

// translateFlagSet registers the translate flags into f. Completion scripts
// are generated from the same set.
func translateFlagSet(f *translateFlags) *flag.FlagSet {
	fs := newFlagSet("translate")
	fs.StringVarP(&f.output, "output", "o", "", "output file (\"-\" = stdout)")
	fs.StringVar(&f.manifest, "manifest", "", "render manifest path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")

	addCommonFlags(fs, &f.common)
	addImageFlags(fs, &f.images)
	addRenderFlags(fs, &f.render)
	addGitHubFlags(fs, &f.github)
	addPreviewFlags(fs, &f.preview)
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string) (*renderCmdFlags, []string, error) {
	f := &renderCmdFlags{}
	fs := renderFlagSet(f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, parseErr(err)
	}
	return f, fs.Args(), nil
}

func renderFlagSet(f *renderCmdFlags) *flag.FlagSet {
	fs := newFlagSet("render")
	fs.StringVarP(&f.output, "output", "o", "", "PNG file to write")
	fs.BoolVarP(&f.display, "display", "d", false, "render in display style")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

// parseCacheFlags parses cache command flags and returns positional args.
func parseCacheFlags(args []string) (*cacheFlags, []string, error) {
	f := &cacheFlags{}
	fs := cacheFlagSet(f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, parseErr(err)
	}
	return f, fs.Args(), nil
}

func cacheFlagSet(f *cacheFlags) *flag.FlagSet {
	fs := newFlagSet("cache")

	fs.StringVar(&f.manifest, "manifest", "", "render manifest path")
	fs.StringVar(&f.olderThan, "older-than", "", "prune entries rendered before this age (e.g. 720h)")
	fs.BoolVar(&f.json, "json", false, "list as JSON")
	fs.StringVar(&f.dateFormat, "date-format", timefmt.DefaultFormat, "render time format: preset (iso, datetime, european, us, long) or tokens")

	addCommonFlags(fs, &f.common)
	return fs
}
