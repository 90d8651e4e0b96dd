//go:build !unix

package process

import "os/exec"

// setProcessGroup is a no-op on platforms without process group support.
func setProcessGroup(cmd *exec.Cmd) {}

// terminateProcessGroup signals the process directly.
func terminateProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}

// killProcessGroup kills the process directly.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
