package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	gitex "github.com/alnah/go-gitex"
)

// defaultRenderOutput is the PNG written when no output is given.
const defaultRenderOutput = "formula.png"

// runRender renders a single formula to a PNG file.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printRenderUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}

	formula, output, err := renderArgs(positional, flags.output, env)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeRenderFlags(&flags.render, &cfg.Render)
	if err := cfg.Validate(); err != nil {
		return err
	}

	rep := newReporter(env, flags.common)
	opts := []gitex.Option{
		gitex.WithDefaults(renderDefaults(cfg.Render)),
		gitex.WithAssetPath(cfg.Assets.BasePath),
		gitex.WithTools(cfg.Render.LaTeX, cfg.Render.DVIPNG, cfg.Render.OptiPNG),
		gitex.WithNotify(rep.Event),
	}
	tr, err := gitex.New(append(opts, env.translatorOptions()...)...)
	if err != nil {
		return err
	}
	defer func() { _ = tr.Close() }()

	mode := gitex.ModeInline
	if flags.display {
		mode = gitex.ModeDisplay
	}
	if err := tr.RenderFormula(ctx, formula, mode, output); err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Wrote %s\n", output)
	}
	return nil
}

// renderArgs resolves the formula and output path. The output comes from
// --output or a second argument; a formula of "-" is read from stdin.
func renderArgs(positional []string, flagOutput string, env *Environment) (formula, output string, err error) {
	if len(positional) == 0 || len(positional) > 2 {
		return "", "", fmt.Errorf("%w: render takes a formula and an optional output file", ErrUsage)
	}
	if len(positional) == 2 && flagOutput != "" {
		return "", "", fmt.Errorf("%w: output given twice", ErrUsage)
	}

	formula = positional[0]
	if formula == stdio {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		formula = strings.TrimSpace(string(data))
	}

	output = flagOutput
	if len(positional) == 2 {
		output = positional[1]
	}
	if output == "" {
		output = defaultRenderOutput
	}
	return formula, output, nil
}
