//go:build !windows

package codec

import "os/exec"

func configureCommand(*exec.Cmd) {}
