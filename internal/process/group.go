package process

import "os/exec"

// Bind places cmd in a new process group and makes context cancellation
// kill the whole group instead of only the direct child. Call it before
// cmd.Start on a command built with exec.CommandContext.
func Bind(cmd *exec.Cmd) {
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
}
