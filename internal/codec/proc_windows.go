//go:build windows

package codec

import (
	"os/exec"
	"syscall"
)

// createNoWindow keeps console tools from flashing a window
const createNoWindow = 0x08000000

func configureCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true, CreationFlags: createNoWindow}
}
