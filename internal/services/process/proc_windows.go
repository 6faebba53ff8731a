//go:build windows

package process

import "os/exec"

func configureCommandProcess(command *exec.Cmd) {}

func terminateCommandProcess(command *exec.Cmd) {
	if command == nil || command.Process == nil {
		return
	}
	_ = command.Process.Kill()
}
