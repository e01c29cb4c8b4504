//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillTree terminates pid and every child with taskkill /F /T.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// Errors are ignored: the launcher kills the leader anyway.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- numeric pid
}
