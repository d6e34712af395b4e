// Package fragment holds the per-formula rendering options and the cache
// key that identifies a rendered formula image.
package fragment

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidOptions indicates a malformed option string or value.
var ErrInvalidOptions = errors.New("invalid options")

// MathMode selects the LaTeX wrapper used around a formula.
type MathMode string

// Math modes.
const (
	// ModeNone renders the fragment verbatim as a full document.
	ModeNone MathMode = "none"
	// ModeInline wraps the fragment in $...$.
	ModeInline MathMode = "inline"
	// ModeDisplay wraps the fragment in $$...$$.
	ModeDisplay MathMode = "display"
	// ModeHeadless renders the fragment verbatim, like none.
	ModeHeadless MathMode = "headless"
)

// ParseMathMode validates a math_mode value.
func ParseMathMode(s string) (MathMode, error) {
	switch m := MathMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNone, ModeInline, ModeDisplay, ModeHeadless:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown math_mode %q (want inline, display, headless or none)", ErrInvalidOptions, s)
	}
}

// Wrapped reports whether the mode places the formula inside the standard
// article template rather than using it as a complete document.
func (m MathMode) Wrapped() bool {
	return m == ModeInline || m == ModeDisplay
}

// Option keys accepted in [k=v,...] suffixes and \begin[...] directives.
const (
	KeyMathMode   = "math_mode"
	KeyDPI        = "dpi"
	KeyPackages   = "packages"
	KeyForeground = "foreground"
	KeyBackground = "background"
	KeyWidth      = "width"
	KeyHeight     = "height"
	KeyOptimize   = "optimize"
)

// BasePackages are always loaded by the LaTeX template.
var BasePackages = []string{"amsmath", "amssymb"}

// Options is the typed form of a fragment option mapping. Zero values mean
// "not set" so that Merge can layer per-fragment options over globals.
type Options struct {
	MathMode   MathMode
	DPI        int
	Packages   []string
	Foreground string
	Background string
	Width      int
	Height     int
	Optimize   *bool
}

// Merge returns o with every field set in override replacing the
// corresponding field of o.
func (o Options) Merge(override Options) Options {
	if override.MathMode != "" {
		o.MathMode = override.MathMode
	}
	if override.DPI != 0 {
		o.DPI = override.DPI
	}
	if override.Packages != nil {
		o.Packages = override.Packages
	}
	if override.Foreground != "" {
		o.Foreground = override.Foreground
	}
	if override.Background != "" {
		o.Background = override.Background
	}
	if override.Width != 0 {
		o.Width = override.Width
	}
	if override.Height != 0 {
		o.Height = override.Height
	}
	if override.Optimize != nil {
		o.Optimize = override.Optimize
	}
	return o
}

// OptimizeEnabled reports whether the optimize flag is set and true.
func (o Options) OptimizeEnabled() bool {
	return o.Optimize != nil && *o.Optimize
}

// EffectivePackages returns the configured packages followed by every base
// package not already listed. Duplicates are dropped.
func (o Options) EffectivePackages() []string {
	out := make([]string, 0, len(o.Packages)+len(BasePackages))
	for _, p := range o.Packages {
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	for _, p := range BasePackages {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// renderPairs returns the render-affecting options as "k=v" strings.
// width and height only change the emitted markup and are left out.
func (o Options) renderPairs() []string {
	var pairs []string
	if o.DPI != 0 {
		pairs = append(pairs, KeyDPI+"="+strconv.Itoa(o.DPI))
	}
	if o.Packages != nil {
		pairs = append(pairs, KeyPackages+"="+strings.Join(o.Packages, ","))
	}
	if o.Foreground != "" {
		pairs = append(pairs, KeyForeground+"="+o.Foreground)
	}
	if o.Background != "" {
		pairs = append(pairs, KeyBackground+"="+o.Background)
	}
	if o.Optimize != nil {
		pairs = append(pairs, KeyOptimize+"="+strconv.FormatBool(*o.Optimize))
	}
	slices.Sort(pairs)
	return pairs
}

// ParseOptionString parses "k=v, k2=v2" into a mapping. Whitespace around
// keys and values is stripped, entries without '=' are ignored and empty
// input yields an empty mapping. An entry with more than one '=' or an
// empty key is an error.
func ParseOptionString(s string) (map[string]string, error) {
	m := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "=") {
			continue
		}
		if strings.Count(entry, "=") > 1 {
			return nil, fmt.Errorf("%w: %q has more than one '='", ErrInvalidOptions, entry)
		}
		k, v, _ := strings.Cut(entry, "=")
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, fmt.Errorf("%w: %q has an empty key", ErrInvalidOptions, entry)
		}
		m[k] = strings.TrimSpace(v)
	}
	return m, nil
}

// FromMap converts an option mapping into Options. Unknown keys and
// malformed values are errors.
func FromMap(m map[string]string) (Options, error) {
	var o Options

	// Sorted iteration keeps the reported error stable.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		v := m[k]
		switch k {
		case KeyMathMode:
			mode, err := ParseMathMode(v)
			if err != nil {
				return Options{}, err
			}
			o.MathMode = mode
		case KeyDPI:
			n, err := positiveInt(k, v)
			if err != nil {
				return Options{}, err
			}
			o.DPI = n
		case KeyWidth:
			n, err := positiveInt(k, v)
			if err != nil {
				return Options{}, err
			}
			o.Width = n
		case KeyHeight:
			n, err := positiveInt(k, v)
			if err != nil {
				return Options{}, err
			}
			o.Height = n
		case KeyPackages:
			o.Packages = SplitPackages(v)
		case KeyForeground:
			o.Foreground = v
		case KeyBackground:
			o.Background = v
		case KeyOptimize:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Options{}, fmt.Errorf("%w: optimize=%q is not a boolean", ErrInvalidOptions, v)
			}
			o.Optimize = &b
		default:
			return Options{}, fmt.Errorf("%w: unknown option %q", ErrInvalidOptions, k)
		}
	}
	return o, nil
}

// Parse is ParseOptionString followed by FromMap.
func Parse(s string) (Options, error) {
	m, err := ParseOptionString(s)
	if err != nil {
		return Options{}, err
	}
	return FromMap(m)
}

// SplitPackages splits a package list on commas, semicolons or whitespace.
// Inside an option suffix commas separate options, so per-fragment lists
// use ';' or spaces.
func SplitPackages(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	if fields == nil {
		return []string{}
	}
	return fields
}

func positiveInt(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s=%q is not a positive integer", ErrInvalidOptions, key, v)
	}
	return n, nil
}
