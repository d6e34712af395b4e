package latex

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/alnah/go-gitex/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	// Run executes name in dir and returns its combined stdout and stderr.
	Run(ctx context.Context, dir, name string, args ...string) (output string, err error)
}

// ExecRunner implements CommandRunner using os/exec. Each command gets its
// own process group so cancellation also stops helpers spawned by TeX.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- tool paths come from configuration
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	process.Bind(cmd)

	err := cmd.Run()
	return out.String(), err
}

// Compile-time interface check.
var _ CommandRunner = (*ExecRunner)(nil)
