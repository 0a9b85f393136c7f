package board

import "os"

// DebugAssertions gates the InvariantViolation checks spec.md §7
// calls development-time assertions. Off by default; set
// CHESSBUDDY_DEBUG_ASSERTIONS=1 to enable in tests or development
// builds.
var DebugAssertions = os.Getenv("CHESSBUDDY_DEBUG_ASSERTIONS") != ""

// assertInvariant panics with msg when DebugAssertions is enabled and
// ok is false. It is a no-op otherwise, so it never affects release
// behavior.
func assertInvariant(ok bool, msg string) {
	if DebugAssertions && !ok {
		panic("board: invariant violated: " + msg)
	}
}
