// Package perft counts legal move tree leaves at a fixed depth, for
// validating internal/board's move generator against known-good node
// counts. Grounded on easychessanimations-zurichess/perft/perft.go's
// recursive-count-with-split shape, adapted from that engine's
// make/unmake position to our persistent-tree-of-States model (no
// undo is needed: each child is already a distinct State).
package perft

import (
	"fmt"
	"strings"

	"github.com/tux21b/chessbuddy/internal/board"
)

// Count returns the number of legal move sequences of exactly depth
// plies reachable from s. depth 0 counts s itself as a single leaf.
func Count(s *board.State, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	board.GetLegalMoves(s)
	if len(s.Children) == 0 {
		return 0
	}
	var total uint64
	for _, c := range s.Children {
		total += Count(c, depth-1)
	}
	return total
}

// Divide returns the perft count of each first move from s at the
// given depth, keyed by that move's coordinate notation — a debugging
// aid for locating the exact branch where a move generator disagrees
// with a reference engine.
func Divide(s *board.State, depth int) map[string]uint64 {
	board.GetLegalMoves(s)
	out := make(map[string]uint64, len(s.Children))
	for _, c := range s.Children {
		key := moveKey(c.LastMove)
		out[key] = Count(c, depth-1)
	}
	return out
}

func moveKey(m board.Move) string {
	var sb strings.Builder
	sb.WriteString(board.IndexToCoord(m.Origin))
	sb.WriteString(board.IndexToCoord(m.Dest))
	if m.IsPromotion() {
		sb.WriteByte(board.RoleLetter(m.PromoRole))
	}
	return sb.String()
}

// Report renders a depth-by-depth perft table in the
// zurichess/perft.go style, for use by the perft console command.
func Report(s *board.State, maxDepth int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "depth        nodes\n")
	fmt.Fprintf(&sb, "-----+------------\n")
	for d := 1; d <= maxDepth; d++ {
		cp := s.Copy()
		fmt.Fprintf(&sb, "%5d %12d\n", d, Count(cp, d))
	}
	return sb.String()
}
