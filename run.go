package gitex

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-gitex/internal/fileutil"
	"github.com/alnah/go-gitex/internal/fragment"
	"github.com/alnah/go-gitex/internal/gitremote"
	"github.com/alnah/go-gitex/internal/hints"
	"github.com/alnah/go-gitex/internal/manifest"
	"github.com/alnah/go-gitex/internal/markup"
)

// Sizing scales applied to the pixel height at 100 dpi.
const (
	scaleDisplay = 1.2
	scaleInline  = 1.0
	scaleOther   = 1.1
)

// run holds the state of one translation.
type run struct {
	ctx       context.Context
	t         *Translator
	sourceDir string
	outputDir string
	res       *Result

	line        int
	folderReady bool
	// seen is the in-run memo: a key is rendered or reused at most once.
	seen map[string]bool
	// heights caches measured pixel heights by key.
	heights map[string]int
}

// openBlock is a \begin awaiting its \end.
type openBlock struct {
	line    int
	options string
	body    strings.Builder
}

func newRun(ctx context.Context, t *Translator, in Input) *run {
	return &run{
		ctx:       ctx,
		t:         t,
		sourceDir: in.SourceDir,
		outputDir: in.OutputDir,
		res:       &Result{},
		seen:      make(map[string]bool),
		heights:   make(map[string]int),
	}
}

// translate consumes src line by line and returns the translated text.
func (r *run) translate(src io.Reader) (string, error) {
	br := bufio.NewReader(src)
	var (
		out   strings.Builder
		block *openBlock
	)

	for {
		if err := r.ctx.Err(); err != nil {
			return "", err
		}

		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return "", fmt.Errorf("reading source: %w", readErr)
		}
		if raw == "" {
			break
		}
		r.line++

		content, ending := splitLineEnding(raw)
		switch {
		case block != nil && markup.IsEnd(content):
			text, err := r.block(block)
			if err != nil {
				return "", fmt.Errorf("line %d: %w", block.line, err)
			}
			out.WriteString(text + ending)
			block = nil

		case block != nil:
			block.body.WriteString(raw)

		default:
			if opts, ok := markup.ParseBegin(content); ok {
				block = &openBlock{line: r.line, options: opts}
				break
			}
			text, err := r.scan(content)
			if err != nil {
				return "", fmt.Errorf("line %d: %w", r.line, err)
			}
			out.WriteString(text + ending)
		}

		if readErr == io.EOF {
			break
		}
	}

	if block != nil {
		return "", fmt.Errorf("line %d: %w: \\begin has no matching \\end%s",
			block.line, ErrUnterminatedBlock, hints.ForUnterminatedBlock())
	}
	return out.String(), nil
}

// scan translates a line outside any block. Math and escapes are only
// recognized between image directives, never inside them.
func (r *run) scan(line string) (string, error) {
	if args, ok := markup.ParseInclude(line); ok {
		return r.include(args)
	}

	var b strings.Builder
	last := 0
	for _, m := range markup.FindImages(line) {
		text, err := r.text(line[last:m.Start])
		if err != nil {
			return "", err
		}
		b.WriteString(text)

		if img, ok := r.imageMarkup(m); ok {
			b.WriteString(img)
			r.res.Images++
		} else {
			b.WriteString(line[m.Start:m.End])
		}
		last = m.End
	}

	text, err := r.text(line[last:])
	if err != nil {
		return "", err
	}
	b.WriteString(text)
	return b.String(), nil
}

// text translates math and escapes in a stretch of prose.
func (r *run) text(s string) (string, error) {
	s, err := r.math(s, markup.FindDisplayMath(s), fragment.ModeDisplay)
	if err != nil {
		return "", err
	}
	s, err = r.math(s, markup.FindInlineMath(s), fragment.ModeInline)
	if err != nil {
		return "", err
	}
	return markup.UnescapeLine(s), nil
}

// imageMarkup rewrites an image directive. It reports false for
// directives that need no change, which are then kept byte for byte.
func (r *run) imageMarkup(m markup.ImageMatch) (string, bool) {
	url := m.URL
	// An empty "=x" suffix is dropped.
	changed := m.Sized
	if strings.HasPrefix(url, "www.") {
		url = "http://" + url
		changed = true
	}
	if strings.HasPrefix(url, "/") && r.t.cfg.githubRoot != "" {
		url = gitremote.RawURL(r.t.cfg.githubRoot, url)
		changed = true
	}

	alt := markup.UnescapeLine(m.Alt)
	if m.HasSize() {
		return imgTag(url, alt, m.Width, m.Height), true
	}
	if !changed {
		return "", false
	}
	return "![" + alt + "](" + url + ")", true
}

// math replaces each match with the markup of its rendered image.
func (r *run) math(line string, matches []markup.MathMatch, mode fragment.MathMode) (string, error) {
	if len(matches) == 0 {
		return line, nil
	}

	reps := make([]markup.Replacement, 0, len(matches))
	for _, m := range matches {
		local, err := fragment.Parse(m.Options)
		if err != nil {
			return "", fmt.Errorf("%w%s", err, hints.ForInvalidOptions())
		}
		text, err := r.formula(m.Formula, mode, local)
		if err != nil {
			return "", err
		}
		reps = append(reps, markup.Replacement{Span: m.Span, Text: text})
	}
	return markup.ReplaceN(line, reps), nil
}

// block renders a \begin ... \end region.
func (r *run) block(b *openBlock) (string, error) {
	local, err := fragment.Parse(b.options)
	if err != nil {
		return "", fmt.Errorf("%w%s", err, hints.ForInvalidOptions())
	}
	return r.formula(b.body.String(), fragment.ModeNone, local)
}

// include renders the file named by an \include[path, k=v, ...] directive.
func (r *run) include(args string) (string, error) {
	name, opts, _ := strings.Cut(args, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: \\include without a file name", ErrInvalidOptions)
	}

	local, err := fragment.Parse(opts)
	if err != nil {
		return "", fmt.Errorf("%w%s", err, hints.ForInvalidOptions())
	}

	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.sourceDir, p)
	}
	body, err := os.ReadFile(p) // #nosec G304 -- include path written by the document author
	if err != nil {
		if isNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrIncludeNotFound, p)
		}
		return "", fmt.Errorf("reading include %s: %w", p, err)
	}
	return r.formula(string(body), fragment.ModeNone, local)
}

// formula renders (or reuses) one fragment and returns its <img> markup.
// mode is the delimiter's mode; a math_mode option overrides it.
func (r *run) formula(formula string, mode fragment.MathMode, local fragment.Options) (string, error) {
	opts := r.t.defaults.Merge(local)
	if local.MathMode != "" {
		mode = local.MathMode
	}
	opts.MathMode = mode

	key := fragment.Key(formula, mode, opts)
	rel := path.Join(filepath.ToSlash(r.t.cfg.imageFolder), fragment.ArtifactName(key))
	abs := filepath.Join(r.outputDir, filepath.FromSlash(rel))

	fresh, err := r.ensure(key, formula, mode, opts, abs)
	if err != nil {
		return "", err
	}
	r.res.Formulas++

	width, height := opts.Width, opts.Height
	if (width == 0 && height == 0) || r.t.store != nil {
		pixels, err := r.pixelHeight(key, formula, mode, opts, abs, fresh)
		if err != nil {
			return "", err
		}
		if width == 0 && height == 0 {
			height = scaledHeight(pixels, mode, opts.DPI)
		}
	}

	src := rel
	if r.t.cfg.githubRoot != "" {
		src = gitremote.RawURL(r.t.cfg.githubRoot, rel)
	}
	return imgTag(src, altText(formula), width, height), nil
}

// ensure makes sure the image for key exists. It reports whether the
// image was rendered by this call.
func (r *run) ensure(key, formula string, mode fragment.MathMode, opts fragment.Options, abs string) (bool, error) {
	if r.seen[key] {
		return false, nil
	}

	if !r.t.cfg.redraw && fileutil.FileExists(abs) {
		r.seen[key] = true
		r.res.Cached++
		r.t.notify(Event{Kind: EventCached, Line: r.line, Path: abs})
		return false, nil
	}

	if err := r.ensureFolder(filepath.Dir(abs)); err != nil {
		return false, err
	}
	if err := r.t.renderer.Render(r.ctx, r.t.request(formula, mode, opts, abs)); err != nil {
		return false, err
	}
	if !fileutil.FileExists(abs) {
		return false, fmt.Errorf("%w: %s", ErrArtifactMissing, abs)
	}

	r.seen[key] = true
	r.res.Rendered++
	r.t.notify(Event{Kind: EventRendered, Line: r.line, Path: abs})
	return true, nil
}

// ensureFolder creates the image folder on first use.
func (r *run) ensureFolder(dir string) error {
	if r.folderReady {
		return nil
	}
	created, err := fileutil.EnsureDir(dir)
	if err != nil {
		return fmt.Errorf("creating image folder: %w%s", err, hints.ForOutputDirectory())
	}
	if created {
		r.t.notify(Event{Kind: EventFolderCreated, Line: r.line, Path: dir})
	}
	r.folderReady = true
	return nil
}

// pixelHeight returns the image height in pixels. A manifest entry spares
// decoding the PNG, unless the image was just rendered.
func (r *run) pixelHeight(key, formula string, mode fragment.MathMode, opts fragment.Options, abs string, fresh bool) (int, error) {
	if h, ok := r.heights[key]; ok && !fresh {
		return h, nil
	}

	if r.t.store != nil && !fresh {
		e, found, err := r.t.store.Get(key)
		if err != nil {
			return 0, fmt.Errorf("reading manifest: %w", err)
		}
		if found && e.Height > 0 {
			r.heights[key] = e.Height
			return e.Height, nil
		}
	}

	width, height, err := r.t.measurer.Measure(abs)
	if err != nil {
		return 0, fmt.Errorf("measuring %s: %w", abs, err)
	}
	r.heights[key] = height

	if r.t.store != nil {
		err := r.t.store.Put(manifest.Entry{
			Key:        key,
			Formula:    formula,
			Mode:       string(mode),
			Artifact:   abs,
			Width:      width,
			Height:     height,
			DPI:        opts.DPI,
			RenderedAt: r.t.now().UTC(),
		})
		if err != nil {
			return 0, fmt.Errorf("updating manifest: %w", err)
		}
	}
	return height, nil
}

// scaledHeight converts a pixel height rendered at dpi into the display
// height used in markup.
func scaledHeight(pixels int, mode fragment.MathMode, dpi int) int {
	scale := scaleOther
	switch mode {
	case fragment.ModeDisplay:
		scale = scaleDisplay
	case fragment.ModeInline:
		scale = scaleInline
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return int(float64(pixels) * scale / (float64(dpi) / 100))
}

// splitLineEnding separates "\n" or "\r\n" from the end of a line.
func splitLineEnding(line string) (content, ending string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}
