package search_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tux21b/chessbuddy/internal/board"
	"github.com/tux21b/chessbuddy/internal/search"
)

func TestStartStopIsCooperative(t *testing.T) {
	root := board.NewInitial()
	e := search.New(4, search.DefaultC, 20)

	e.Start(root)
	time.Sleep(20 * time.Millisecond)
	e.Stop() // must return once the driver observes the stop flag and closes the workers' job channels

	board.GetLegalMoves(root)
	require.NotEmpty(t, root.Children)

	var total uint64
	for _, c := range root.Children {
		total += c.GamesPlayed()
	}
	assert.Positive(t, total, "some playouts should have completed before Stop")
}

func TestBestChildPicksMostPlayed(t *testing.T) {
	root := board.NewInitial()
	board.GetLegalMoves(root)
	require.NotEmpty(t, root.Children)

	root.Children[2].WinsW = 50
	root.Children[2].Draws = 10

	got := search.BestChild(root)
	assert.Same(t, root.Children[2], got)
}

// TestConvergesTowardMatingMove is a reduced-scale smoke test: from a
// position one ply from mate, a short search should prefer the
// mating move over the alternatives at least as often as not.
func TestConvergesTowardMatingMove(t *testing.T) {
	// White: Ra1, Kg6; Black: Kh8. Ra8# is mate in one: the rook seals
	// the back rank and the king covers g7/h7.
	root := &board.State{}
	root.Board[board.CoordToIndex("a1")] = board.MakeSquare(board.Rook, false, board.PieceMoved)
	root.Board[board.CoordToIndex("g6")] = board.MakeSquare(board.King, false, board.PieceMoved)
	root.Board[board.CoordToIndex("h8")] = board.MakeSquare(board.King, true, board.PieceMoved)

	e := search.New(4, search.DefaultC, 50)
	e.Start(root)
	time.Sleep(150 * time.Millisecond)
	e.Stop()

	best := search.BestChild(root)
	require.NotNil(t, best)
	assert.Equal(t, "a8", board.IndexToCoord(best.LastMove.Dest))
}

// TestScenarioSixMassPlayoutConvergence is spec.md §8 Scenario 6: given
// a long enough run, root's total play count reaches the target, every
// top-level child gets visited at least once, and the selection path's
// visit counts never lose a playout in the merge (sum of children's
// games_played equals root's games_played, since root itself is only
// ever a selection step, never a playout target).
func TestScenarioSixMassPlayoutConvergence(t *testing.T) {
	const target = 10000

	// A king-and-rook-vs-king fixture: enough legal replies at the root
	// to exercise real selection breadth, but few enough pieces that a
	// single worker can grind through 10k+ shallow playouts quickly.
	root := &board.State{}
	root.Board[board.CoordToIndex("a1")] = board.MakeSquare(board.Rook, false, board.PieceMoved)
	root.Board[board.CoordToIndex("e1")] = board.MakeSquare(board.King, false, board.PieceMoved)
	root.Board[board.CoordToIndex("e8")] = board.MakeSquare(board.King, true, board.PieceMoved)

	e := search.New(1, search.DefaultC, 10)
	e.Start(root)
	time.Sleep(3 * time.Second)
	e.Stop() // joins the driver; safe to read root below only past this point

	board.GetLegalMoves(root)
	require.NotEmpty(t, root.Children)

	total := root.GamesPlayed()
	require.GreaterOrEqualf(t, total, uint64(target), "expected at least %d playouts at root, got %d", target, total)

	var sum uint64
	for _, c := range root.Children {
		n := c.GamesPlayed()
		assert.Positivef(t, n, "top-level child %+v was never visited", c.LastMove)
		sum += n
	}
	assert.Equal(t, total, sum, "every playout selected through root must land on exactly one top-level child")
}
