package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-gitex/internal/fileutil"
	"github.com/alnah/go-gitex/internal/manifest"
	"github.com/alnah/go-gitex/internal/timefmt"
)

// formulaPreviewLength caps the formula column of "cache list".
const formulaPreviewLength = 40

// cacheEntry is the JSON form of a manifest entry.
type cacheEntry struct {
	Key        string    `json:"key"`
	Formula    string    `json:"formula"`
	Mode       string    `json:"mode"`
	Artifact   string    `json:"artifact"`
	Exists     bool      `json:"exists"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	DPI        int       `json:"dpi"`
	RenderedAt time.Time `json:"renderedAt"`
}

// runCache lists or prunes the render manifest.
func runCache(args []string, env *Environment) error {
	flags, positional, err := parseCacheFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printCacheUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: cache needs a subcommand: list or prune", ErrUsage)
	}
	layout, err := timefmt.Layout(flags.dateFormat)
	if err != nil {
		return fmt.Errorf("%w: --date-format: %w", ErrUsage, err)
	}

	path := flags.manifest
	if path == "" {
		cfg, err := loadConfig(flags.common.config)
		if err != nil {
			return err
		}
		path = cfg.Manifest.Path
	}
	if path == "" {
		return fmt.Errorf("%w: no manifest configured (use --manifest or manifest.path)", ErrUsage)
	}
	if !fileutil.FileExists(path) {
		return fmt.Errorf("%w: manifest %s does not exist", ErrReadInput, path)
	}

	store, err := manifest.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	switch positional[0] {
	case "list":
		return listCache(store, flags.json, layout, env)
	case "prune":
		return pruneCache(store, flags, env)
	default:
		return fmt.Errorf("%w: unknown cache subcommand %q", ErrUsage, positional[0])
	}
}

// listCache prints every manifest entry. Render times are shown in local
// time with layout; JSON keeps the stored UTC timestamps.
func listCache(store *manifest.Store, asJSON bool, layout string, env *Environment) error {
	entries, err := store.List()
	if err != nil {
		return err
	}

	if asJSON {
		out := make([]cacheEntry, 0, len(entries))
		for _, e := range entries {
			out = append(out, cacheEntry{
				Key:        e.Key,
				Formula:    e.Formula,
				Mode:       e.Mode,
				Artifact:   e.Artifact,
				Exists:     fileutil.FileExists(e.Artifact),
				Width:      e.Width,
				Height:     e.Height,
				DPI:        e.DPI,
				RenderedAt: e.RenderedAt,
			})
		}
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tMODE\tSIZE\tDPI\tRENDERED\tSTATUS\tFORMULA")
	for _, e := range entries {
		status := "ok"
		if !fileutil.FileExists(e.Artifact) {
			status = "missing"
		}
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%s\t%s\t%s\n",
			shortKey(e.Key), e.Mode, e.Width, e.Height, e.DPI,
			e.RenderedAt.Local().Format(layout), status, shorten(e.Formula))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "%d entr%s\n", len(entries), plural(len(entries), "y", "ies"))
	return nil
}

// pruneCache drops entries whose image is gone and, with --older-than,
// entries rendered before the cutoff. Images themselves are left alone.
func pruneCache(store *manifest.Store, flags *cacheFlags, env *Environment) error {
	var cutoff time.Time
	if flags.olderThan != "" {
		age, err := time.ParseDuration(flags.olderThan)
		if err != nil || age <= 0 {
			return fmt.Errorf("%w: --older-than %q is not a positive duration", ErrUsage, flags.olderThan)
		}
		cutoff = env.Now().Add(-age)
	}

	removed, err := store.Prune(func(e manifest.Entry) bool {
		if !fileutil.FileExists(e.Artifact) {
			return false
		}
		return cutoff.IsZero() || !e.RenderedAt.Before(cutoff)
	})
	if err != nil {
		return err
	}

	if flags.common.verbose {
		for _, e := range removed {
			fmt.Fprintf(env.Stdout, "removed %s %s\n", e.Key, e.Artifact)
		}
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Pruned %d entr%s\n", len(removed), plural(len(removed), "y", "ies"))
	}
	return nil
}

// shorten flattens a formula to one line and truncates it.
func shorten(formula string) string {
	s := strings.Join(strings.Fields(formula), " ")
	if r := []rune(s); len(r) > formulaPreviewLength {
		return string(r[:formulaPreviewLength-3]) + "..."
	}
	return s
}

// shortKey returns the first 8 characters of a key.
func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
