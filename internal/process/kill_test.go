package process

// Notes:
// - Only PIDs that cannot exist are used: killing a real process group from a
//   unit test is unsafe. Real reaping is covered by the PDF integration tests.

import "testing"

// ---------------------------------------------------------------------------
// TestKillTree - Harmless inputs
// ---------------------------------------------------------------------------

func TestKillTree(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{999999999, 0, -1} {
		// Must not panic, and 0 or negative must never reach the syscall
		// (-0 would target our own group).
		KillTree(pid)
	}
}
