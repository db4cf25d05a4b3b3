//go:build unix

package fsops

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts the script in its own process group and makes
// cancellation kill the whole group, so children spawned by the script do
// not outlive it.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
