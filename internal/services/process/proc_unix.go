//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

func configureCommandProcess(command *exec.Cmd) {
	command.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateCommandProcess kills the process group so pagers spawned by the target die too.
func terminateCommandProcess(command *exec.Cmd) {
	if command == nil || command.Process == nil {
		return
	}
	pid := command.Process.Pid
	if pid <= 0 {
		return
	}
	if groupID, err := syscall.Getpgid(pid); err == nil && groupID > 0 {
		_ = syscall.Kill(-groupID, syscall.SIGKILL)
		return
	}
	_ = command.Process.Kill()
}
