// Package config loads and validates the gitex YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-gitex/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName names the user config directory (~/.config/gitex).
const AppName = "gitex"

// Bounds and defaults.
const (
	MinDPI            = 50
	MaxDPI            = 2400
	DefaultDPI        = 300
	DefaultForeground = "Black"
	DefaultBackground = "White"
	DefaultRemote     = "origin"
	DefaultStyle      = "default"
)

// Field length limits.
const (
	MaxPathLength    = 4096
	MaxColorLength   = 64
	MaxPackageLength = 64
	MaxRootLength    = 512
	MaxNameLength    = 100
)

// githubRootPattern is "<user>/<repo>/<branch>"; branches may contain '/'.
var githubRootPattern = regexp.MustCompile(`^[^/\s]+/[^/\s]+/\S+$`)

// Config holds all configuration for a translation run.
type Config struct {
	Input    string         `yaml:"input"`
	Output   string         `yaml:"output"`
	Images   ImagesConfig   `yaml:"images"`
	Render   RenderConfig   `yaml:"render"`
	GitHub   GitHubConfig   `yaml:"github"`
	Assets   AssetsConfig   `yaml:"assets"`
	Preview  PreviewConfig  `yaml:"preview"`
	Manifest ManifestConfig `yaml:"manifest"`
}

// ImagesConfig defines where formula images go.
type ImagesConfig struct {
	Folder string `yaml:"folder"` // Relative to the output document (empty = next to it)
	Redraw bool   `yaml:"redraw"` // Re-render even when the PNG exists
}

// RenderConfig defines global rendering options and tool locations.
type RenderConfig struct {
	DPI        int      `yaml:"dpi"`
	Packages   []string `yaml:"packages"` // Extra LaTeX packages; amsmath and amssymb are always loaded
	Foreground string   `yaml:"foreground"`
	Background string   `yaml:"background"`
	Optimize   bool     `yaml:"optimize"` // Run optipng when available
	LaTeX      string   `yaml:"latex"`    // Empty = "latex" on PATH
	DVIPNG     string   `yaml:"dvipng"`   // Empty = "dvipng" on PATH
	OptiPNG    string   `yaml:"optipng"`  // Empty = "optipng" on PATH
}

// GitHubConfig defines raw GitHub link generation.
type GitHubConfig struct {
	Root   string `yaml:"root"`   // "<user>/<repo>/<branch>"; empty = relative links
	Auto   bool   `yaml:"auto"`   // Derive root from the git checkout
	Remote string `yaml:"remote"` // Remote consulted when auto is set
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PreviewConfig defines the HTML preview.
type PreviewConfig struct {
	Enabled bool   `yaml:"enabled"`
	Output  string `yaml:"output"` // Empty = output document with .html extension
	Style   string `yaml:"style"`
}

// ManifestConfig defines the render manifest database.
type ManifestConfig struct {
	Path string `yaml:"path"` // Empty = no manifest
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			DPI:        DefaultDPI,
			Foreground: DefaultForeground,
			Background: DefaultBackground,
		},
		GitHub:  GitHubConfig{Remote: DefaultRemote},
		Preview: PreviewConfig{Style: DefaultStyle},
	}
}

// Validate checks value ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"input", c.Input, MaxPathLength},
		{"output", c.Output, MaxPathLength},
		{"images.folder", c.Images.Folder, MaxPathLength},
		{"render.foreground", c.Render.Foreground, MaxColorLength},
		{"render.background", c.Render.Background, MaxColorLength},
		{"render.latex", c.Render.LaTeX, MaxPathLength},
		{"render.dvipng", c.Render.DVIPNG, MaxPathLength},
		{"render.optipng", c.Render.OptiPNG, MaxPathLength},
		{"github.root", c.GitHub.Root, MaxRootLength},
		{"github.remote", c.GitHub.Remote, MaxNameLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"preview.output", c.Preview.Output, MaxPathLength},
		{"preview.style", c.Preview.Style, MaxNameLength},
		{"manifest.path", c.Manifest.Path, MaxPathLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Render.DPI != 0 && (c.Render.DPI < MinDPI || c.Render.DPI > MaxDPI) {
		return fmt.Errorf("%w: render.dpi must be between %d and %d, got %d", ErrInvalidValue, MinDPI, MaxDPI, c.Render.DPI)
	}
	for i, p := range c.Render.Packages {
		if err := validateFieldLength(fmt.Sprintf("render.packages[%d]", i), p, MaxPackageLength); err != nil {
			return err
		}
		if p == "" || strings.ContainsAny(p, "{}\\ ,;") {
			return fmt.Errorf("%w: render.packages[%d]: %q is not a package name", ErrInvalidValue, i, p)
		}
	}

	if err := ValidateImageFolder(c.Images.Folder); err != nil {
		return err
	}

	if c.GitHub.Root != "" && !githubRootPattern.MatchString(c.GitHub.Root) {
		return fmt.Errorf("%w: github.root must look like <user>/<repo>/<branch>, got %q", ErrInvalidValue, c.GitHub.Root)
	}

	return nil
}

// ValidateImageFolder checks that the image folder is a relative path that
// stays inside the output directory. Raw GitHub links are built from it, so
// it must also make sense as a repository path.
func ValidateImageFolder(folder string) error {
	if folder == "" {
		return nil
	}
	if filepath.IsAbs(folder) || strings.HasPrefix(folder, "/") {
		return fmt.Errorf("%w: images.folder must be relative, got %q", ErrInvalidValue, folder)
	}
	clean := filepath.ToSlash(filepath.Clean(folder))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: images.folder escapes the output directory: %q", ErrInvalidValue, folder)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
//
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the locations tried for a config name, in order:
// current directory, then the user config directory, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
