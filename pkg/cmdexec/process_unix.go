//go:build unix

package cmdexec

import (
	"os/exec"
	"syscall"
)

// setProcGroup configures the command to run in its own process group.
//
// Setpgid lets killProcGroup signal npm together with any scripts it spawned.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killProcGroup kills the entire process group for the given process.
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
