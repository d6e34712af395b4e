package main

// Notes:
// - These tests use t.Setenv and therefore cannot run in parallel.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-gitex/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("GITEX_CONFIG", "work")
	t.Setenv("GITEX_IMAGE_FOLDER", "img")
	t.Setenv("GITEX_DPI", "150")
	t.Setenv("GITEX_PACKAGES", "bm, mathtools;physics")
	t.Setenv("GITEX_GITHUB_ROOT", "me/notes/main")
	t.Setenv("GITEX_MANIFEST", ".gitex.db")
	t.Setenv("GITEX_ASSET_PATH", "assets")

	got := loadEnvConfig()
	want := &envConfig{
		ConfigPath:  "work",
		ImageFolder: "img",
		DPI:         150,
		Packages:    []string{"bm", "mathtools", "physics"},
		GitHubRoot:  "me/notes/main",
		Manifest:    ".gitex.db",
		AssetPath:   "assets",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loadEnvConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvConfig_InvalidDPI(t *testing.T) {
	for _, v := range []string{"abc", "-5", "0"} {
		t.Setenv("GITEX_DPI", v)
		if got := loadEnvConfig().DPI; got != 0 {
			t.Errorf("GITEX_DPI=%q: DPI = %d, want 0", v, got)
		}
	}
}

func TestApplyEnvConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Images.Folder = "from-file"
	cfg.GitHub.Root = "file/repo/main"

	applyEnvConfig(&envConfig{ImageFolder: "from-env", DPI: 600}, cfg)

	if cfg.Images.Folder != "from-env" {
		t.Errorf("Images.Folder = %q, want from-env", cfg.Images.Folder)
	}
	if cfg.Render.DPI != 600 {
		t.Errorf("Render.DPI = %d, want 600", cfg.Render.DPI)
	}
	if cfg.GitHub.Root != "file/repo/main" {
		t.Errorf("GitHub.Root = %q, unset env values must not override", cfg.GitHub.Root)
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("GITEX_IMAGES_FOLDER", "img")
	t.Setenv("GITEX_DPI", "300")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "unknown environment variable GITEX_IMAGES_FOLDER") {
		t.Errorf("missing warning for typo:\n%s", out)
	}
	if strings.Contains(out, "GITEX_DPI") {
		t.Errorf("known variable reported as unknown:\n%s", out)
	}
}
