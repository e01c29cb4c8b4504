//go:build !windows

package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid. Chrome starts its
// renderer and GPU helpers in the same group.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// Errors are ignored: the launcher kills the leader anyway.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
