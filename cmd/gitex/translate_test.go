package main

// Notes:
// - Commands run through run() so flag parsing, config merging and exit code
//   mapping are exercised together. The fake renderer writes placeholder
//   images into t.TempDir(); nothing calls latex.
// - Translations to stdout use the working directory for images, so those
//   tests only feed documents without math.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gitex "github.com/alnah/go-gitex"
)

// ---------------------------------------------------------------------------
// TestRunTranslate - File and stream translation
// ---------------------------------------------------------------------------

func TestRunTranslate_FileToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "README.src.md", "Euler: $e^{i\\pi}+1=0$\n")
	dst := filepath.Join(dir, "README.md")
	env := newTestEnv(t)

	code := run(context.Background(), []string{src, "-o", dst, "-i", "img"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d; stderr: %s", code, ExitSuccess, env.stderr)
	}

	got := readFile(t, dst)
	if !strings.HasPrefix(got, `Euler: <img src="img/tex_`) {
		t.Errorf("output = %q, want an image link into img/", got)
	}
	if env.renderer.count() != 1 {
		t.Errorf("renderer called %d times, want 1", env.renderer.count())
	}
	if !strings.Contains(env.stderr.String(), "Wrote "+dst) {
		t.Errorf("stderr = %q, want a summary line", env.stderr)
	}
}

func TestRunTranslate_ExplicitCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "in.md", "$$x$$\n")
	dst := filepath.Join(dir, "out.md")
	env := newTestEnv(t)

	code := run(context.Background(), []string{"translate", "-q", src, "--output", dst}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr)
	}
	if env.stderr.Len() != 0 {
		t.Errorf("quiet run wrote to stderr: %q", env.stderr)
	}
	if env.renderer.calls[0].Mode != gitex.ModeDisplay {
		t.Errorf("Mode = %q, want display", env.renderer.calls[0].Mode)
	}
}

func TestRunTranslate_StdinToStdout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.Stdin = strings.NewReader(`costs \$5` + "\n")

	code := run(context.Background(), []string{"translate", "-q", "-"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr)
	}
	if got := env.stdout.String(); got != "costs $5\n" {
		t.Errorf("stdout = %q, want %q", got, "costs $5\n")
	}
}

func TestRunTranslate_StdinToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dst := filepath.Join(dir, "out.md")
	env := newTestEnv(t)
	env.Stdin = strings.NewReader("$a$")

	code := run(context.Background(), []string{"translate", "-o", dst}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr)
	}
	if got := readFile(t, dst); !strings.HasPrefix(got, `<img src="tex_`) {
		t.Errorf("output = %q", got)
	}
	if _, err := os.Stat(env.renderer.calls[0].Output); err != nil {
		t.Errorf("image not written next to the output: %v", err)
	}
}

func TestRunTranslate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    map[string]string
		args     func(dir string) []string
		render   error
		wantCode int
		wantErr  string
	}{
		{
			name:     "unterminated block",
			files:    map[string]string{"in.md": "\\begin\nx\n"},
			args:     func(dir string) []string { return []string{filepath.Join(dir, "in.md"), "-o", filepath.Join(dir, "out.md")} },
			wantCode: ExitUsage,
			wantErr:  "unterminated block",
		},
		{
			name:     "invalid options",
			files:    map[string]string{"in.md": "$x$[dpi=big]\n"},
			args:     func(dir string) []string { return []string{filepath.Join(dir, "in.md"), "-o", filepath.Join(dir, "out.md")} },
			wantCode: ExitUsage,
			wantErr:  "line 1",
		},
		{
			name:     "missing input",
			args:     func(dir string) []string { return []string{filepath.Join(dir, "nope.md"), "-o", filepath.Join(dir, "out.md")} },
			wantCode: ExitIO,
		},
		{
			name:     "render failure",
			files:    map[string]string{"in.md": "$x$\n"},
			args:     func(dir string) []string { return []string{filepath.Join(dir, "in.md"), "-o", filepath.Join(dir, "out.md")} },
			render:   gitex.ErrRender,
			wantCode: ExitRenderer,
		},
		{
			name:     "output overwrites input",
			files:    map[string]string{"in.md": "x\n"},
			args:     func(dir string) []string { return []string{filepath.Join(dir, "in.md"), "-o", filepath.Join(dir, "in.md")} },
			wantCode: ExitUsage,
			wantErr:  "overwrite",
		},
		{
			name:     "two inputs",
			args:     func(dir string) []string { return []string{"translate", "a.md", "b.md"} },
			wantCode: ExitUsage,
		},
		{
			name:     "unknown flag",
			args:     func(dir string) []string { return []string{"translate", "--frobnicate"} },
			wantCode: ExitUsage,
		},
		{
			name:     "absolute image folder",
			files:    map[string]string{"in.md": "x\n"},
			args:     func(dir string) []string { return []string{filepath.Join(dir, "in.md"), "-o", filepath.Join(dir, "out.md"), "-i", "/abs"} },
			wantCode: ExitUsage,
		},
		{
			name:     "preview to stdout",
			files:    map[string]string{"in.md": "x\n"},
			args:     func(dir string) []string { return []string{filepath.Join(dir, "in.md"), "--preview"} },
			wantCode: ExitUsage,
			wantErr:  "--preview needs",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}
			env := newTestEnv(t)
			env.renderer.err = tt.render

			code := run(context.Background(), tt.args(dir), env.Environment)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d; stderr: %s", code, tt.wantCode, env.stderr)
			}
			if tt.wantErr != "" && !strings.Contains(env.stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", env.stderr, tt.wantErr)
			}
			if _, err := os.Stat(filepath.Join(dir, "out.md")); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("out.md exists after a failed run (stat err = %v)", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunTranslate_Config - Config file, flags and GitHub roots
// ---------------------------------------------------------------------------

func TestRunTranslate_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "in.md", "$x$\n")
	cfgPath := writeFile(t, dir, "gitex.yaml", `
images:
  folder: formulas
render:
  dpi: 600
  packages: [bm]
github:
  root: me/notes/main
`)
	dst := filepath.Join(dir, "out.md")
	env := newTestEnv(t)

	code := run(context.Background(), []string{src, "-o", dst, "-c", cfgPath, "--dpi", "150"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr)
	}

	req := env.renderer.calls[0]
	if req.DPI != 150 {
		t.Errorf("DPI = %d, want the flag value 150", req.DPI)
	}
	if req.Packages[0] != "bm" {
		t.Errorf("Packages = %v, want bm first", req.Packages)
	}
	want := `<img src="https://raw.githubusercontent.com/me/notes/main/formulas/tex_`
	if got := readFile(t, dst); !strings.HasPrefix(got, want) {
		t.Errorf("output = %q, want prefix %q", got, want)
	}
}

func TestRunTranslate_MissingConfig(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	code := run(context.Background(), []string{"translate", "-c", "/no/such/gitex.yaml", "in.md"}, env.Environment)
	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}

func TestRunTranslate_GitHubAuto(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "in.md", "![logo](/assets/logo.png)\n")
	dst := filepath.Join(dir, "out.md")
	env := newTestEnv(t)
	env.Git = func(_ context.Context, gotDir string, args ...string) (string, error) {
		if gotDir != dir {
			t.Errorf("git ran in %s, want %s", gotDir, dir)
		}
		switch args[0] {
		case "remote":
			return "origin\tgit@github.com:me/notes.git (fetch)\norigin\tgit@github.com:me/notes.git (push)\n", nil
		case "rev-parse":
			return "dev\n", nil
		}
		return "", errors.New("unexpected git call")
	}

	code := run(context.Background(), []string{src, "-o", dst, "--github-auto"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr)
	}
	want := "![logo](https://raw.githubusercontent.com/me/notes/dev/assets/logo.png)\n"
	if got := readFile(t, dst); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunTranslate_GitHubAutoFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "in.md", "x\n")
	env := newTestEnv(t)

	code := run(context.Background(), []string{src, "-o", filepath.Join(dir, "out.md"), "--github-auto"}, env.Environment)
	if code == ExitSuccess {
		t.Fatal("expected failure when git is unavailable")
	}
	if !strings.Contains(env.stderr.String(), "deriving GitHub root") {
		t.Errorf("stderr = %q", env.stderr)
	}
}

// ---------------------------------------------------------------------------
// TestRunTranslate_Preview - HTML preview output
// ---------------------------------------------------------------------------

func TestRunTranslate_Preview(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "notes.src.md", "# Notes\n\n$a^2$\n")
	dst := filepath.Join(dir, "notes.md")
	env := newTestEnv(t)

	code := run(context.Background(), []string{src, "-o", dst, "--preview", "--style", "plain"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr)
	}

	page := readFile(t, filepath.Join(dir, "notes.html"))
	for _, want := range []string{"<title>notes</title>", `class="gitex-math"`, "file://"} {
		if !strings.Contains(page, want) {
			t.Errorf("preview missing %q", want)
		}
	}
	if !strings.Contains(env.stderr.String(), "Wrote preview") {
		t.Errorf("stderr = %q", env.stderr)
	}
}

func TestRunTranslate_PreviewUnknownStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "in.md", "x\n")
	env := newTestEnv(t)

	code := run(context.Background(), []string{src, "-o", filepath.Join(dir, "out.md"), "--preview", "--style", "neon"}, env.Environment)
	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(env.stderr.String(), "available: default, plain") {
		t.Errorf("stderr = %q, want the style hint", env.stderr)
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI over config
// ---------------------------------------------------------------------------

func TestMergeFlags_PreviewOutputEnablesPreview(t *testing.T) {
	t.Parallel()

	flags, _, err := parseTranslateFlags([]string{"--preview-output", "p.html", "-r", "--optimize"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	mergeFlags(flags, cfg)

	if !cfg.Preview.Enabled || cfg.Preview.Output != "p.html" {
		t.Errorf("Preview = %+v", cfg.Preview)
	}
	if !cfg.Images.Redraw || !cfg.Render.Optimize {
		t.Errorf("Redraw = %v, Optimize = %v, want both true", cfg.Images.Redraw, cfg.Render.Optimize)
	}
}
