package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gitex "github.com/alnah/go-gitex"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fakes and environment
// ---------------------------------------------------------------------------

// fixedNow is the clock used by test environments.
var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeRenderer writes a placeholder image for every request.
type fakeRenderer struct {
	mu    sync.Mutex
	calls []gitex.RenderRequest
	err   error
}

func (f *fakeRenderer) Render(_ context.Context, req gitex.RenderRequest) error {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(req.Output, []byte("png"), 0o644)
}

func (f *fakeRenderer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeMeasurer struct{}

func (fakeMeasurer) Measure(string) (int, int, error) { return 90, 60, nil }

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	renderer *fakeRenderer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	r := &fakeRenderer{}
	env := &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		Git: func(context.Context, string, ...string) (string, error) {
			return "", errors.New("git not available in tests")
		},
		LookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
		Renderer: r,
		Measurer: fakeMeasurer{},
	}
	return &testEnv{Environment: env, stdout: stdout, stderr: stderr, renderer: r}
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("creating dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
