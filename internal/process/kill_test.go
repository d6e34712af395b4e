package process

// Notes:
// - KillProcessGroup: we only test with an invalid PID to verify the function
//   doesn't panic. Cannot test with PID 0 (kills current process group) or
//   real PIDs.
// - Bind: cancellation is exercised with a real child only on unix, where
//   "sleep" is available.

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Invalid PID Handling
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

// ---------------------------------------------------------------------------
// TestBind - Group cancellation
// ---------------------------------------------------------------------------

func TestBind_SetsCancel(t *testing.T) {
	t.Parallel()

	cmd := exec.CommandContext(context.Background(), "true")
	Bind(cmd)

	if cmd.Cancel == nil {
		t.Fatal("Bind() did not set Cancel")
	}
	if cmd.SysProcAttr == nil {
		t.Fatal("Bind() did not set SysProcAttr")
	}
	// Not started: Cancel must be a no-op.
	if err := cmd.Cancel(); err != nil {
		t.Errorf("Cancel() before Start = %v, want nil", err)
	}
}

func TestBind_CancelStopsChild(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("uses sleep(1)")
	}
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sleep", "30")
	Bind(cmd)

	start := time.Now()
	if err := cmd.Run(); err == nil {
		t.Fatal("Run() succeeded, want error from cancellation")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("child survived cancellation for %v", elapsed)
	}
}
