package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-gitex/internal/config"
	"github.com/alnah/go-gitex/internal/fragment"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string   // GITEX_CONFIG: config file name or path
	ImageFolder string   // GITEX_IMAGE_FOLDER: image folder relative to the output
	DPI         int      // GITEX_DPI: render resolution
	Packages    []string // GITEX_PACKAGES: extra LaTeX packages
	GitHubRoot  string   // GITEX_GITHUB_ROOT: <user>/<repo>/<branch>
	Manifest    string   // GITEX_MANIFEST: render manifest path
	AssetPath   string   // GITEX_ASSET_PATH: template and style overrides
}

// knownEnvVars lists valid GITEX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"GITEX_CONFIG":       true,
	"GITEX_IMAGE_FOLDER": true,
	"GITEX_DPI":          true,
	"GITEX_PACKAGES":     true,
	"GITEX_GITHUB_ROOT":  true,
	"GITEX_MANIFEST":     true,
	"GITEX_ASSET_PATH":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("GITEX_CONFIG"),
		ImageFolder: os.Getenv("GITEX_IMAGE_FOLDER"),
		GitHubRoot:  os.Getenv("GITEX_GITHUB_ROOT"),
		Manifest:    os.Getenv("GITEX_MANIFEST"),
		AssetPath:   os.Getenv("GITEX_ASSET_PATH"),
	}

	if dpi := os.Getenv("GITEX_DPI"); dpi != "" {
		if n, err := strconv.Atoi(dpi); err == nil && n > 0 {
			cfg.DPI = n
		}
	}
	if pkgs := os.Getenv("GITEX_PACKAGES"); pkgs != "" {
		cfg.Packages = fragment.SplitPackages(pkgs)
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized GITEX_* variables.
// Helps catch typos like GITEX_IMAGES_FOLDER.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "GITEX_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the config file.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.ImageFolder != "" {
		cfg.Images.Folder = env.ImageFolder
	}
	if env.DPI != 0 {
		cfg.Render.DPI = env.DPI
	}
	if len(env.Packages) > 0 {
		cfg.Render.Packages = env.Packages
	}
	if env.GitHubRoot != "" {
		cfg.GitHub.Root = env.GitHubRoot
	}
	if env.Manifest != "" {
		cfg.Manifest.Path = env.Manifest
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
}
