//go:build unix

package command

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own session so terminal signals aimed at the
// parent do not reach it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
