package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diffSquares(a, b [128]Square) int {
	n := 0
	for i := 0; i < 128; i++ {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}

func TestInitialPositionLegalMoveCount(t *testing.T) {
	s := NewInitial()
	GetLegalMoves(s)
	assert.Len(t, s.Children, 20)
	assert.False(t, s.Check)
}

func TestChildPlyAndParent(t *testing.T) {
	s := NewInitial()
	GetLegalMoves(s)
	for _, c := range s.Children {
		assert.Equal(t, s.Ply+1, c.Ply)
		assert.Same(t, s, c.Parent)
		assert.True(t, c.LastMove.Valid)
	}
}

func TestBoardDiffInvariant(t *testing.T) {
	s := NewInitial()
	GetLegalMoves(s)
	for _, c := range s.Children {
		n := diffSquares(s.Board, c.Board)
		switch {
		case c.LastMove.Castle:
			assert.Equal(t, 2, n, "castling should touch exactly king+rook squares")
		case c.LastMove.EnPassant:
			assert.Equal(t, 3, n, "en passant should touch origin, dest, captured pawn")
		default:
			assert.Equal(t, 2, n, "normal move touches origin+dest squares")
		}
	}
}

func TestNoChildLeavesMoverInCheck(t *testing.T) {
	s := NewInitial()
	GetLegalMoves(s)
	moverBlack := s.BlackToMove()
	for _, c := range s.Children {
		assert.False(t, kingInCheck(&c.Board, moverBlack), "move %+v leaves mover in check", c.LastMove)
	}
}

func TestPawnTwoStepFlagLifecycle(t *testing.T) {
	s := NewInitial()
	GetLegalMoves(s)

	var e4 *State
	for _, c := range s.Children {
		if IndexToCoord(c.LastMove.Origin) == "e2" && IndexToCoord(c.LastMove.Dest) == "e4" {
			e4 = c
		}
	}
	require.NotNil(t, e4)
	pawnSq := e4.Board[CoordToIndex("e4")]
	assert.True(t, pawnSq.HasPawnTwoStep())

	GetLegalMoves(e4)
	var afterA6 *State
	for _, c := range e4.Children {
		if IndexToCoord(c.LastMove.Origin) == "a7" {
			afterA6 = c
		}
	}
	require.NotNil(t, afterA6)
	// the flag clear is lazy: it runs the next time GetLegalMoves walks
	// the board for White (its own side), i.e. when White's replies
	// from afterA6 are generated.
	pawnSq = afterA6.Board[CoordToIndex("e4")]
	assert.True(t, pawnSq.HasPawnTwoStep(), "flag survives unchanged until White's own next generation pass")

	GetLegalMoves(afterA6)
	for _, c := range afterA6.Children {
		pawnSq := c.Board[CoordToIndex("e4")]
		assert.False(t, pawnSq.HasPawnTwoStep(), "white's e4 pawn two-step flag must be cleared once White generates its own next moves")
	}
}

// buildState places pieces from a map of coord->Square on an
// otherwise empty board, for constructing minimal test fixtures.
func buildState(ply int, pieces map[string]Square) *State {
	s := &State{Ply: ply}
	for coord, sq := range pieces {
		s.Board[CoordToIndex(coord)] = sq
	}
	return s
}

func TestCastlingBothSides(t *testing.T) {
	s := buildState(0, map[string]Square{
		"e1": MakeSquare(King, false, 0),
		"a1": MakeSquare(Rook, false, 0),
		"h1": MakeSquare(Rook, false, 0),
		"e8": MakeSquare(King, true, 0),
	})
	GetLegalMoves(s)

	var queenside, kingside *State
	for _, c := range s.Children {
		if c.LastMove.Castle && c.LastMove.CastleQueen {
			queenside = c
		}
		if c.LastMove.Castle && !c.LastMove.CastleQueen {
			kingside = c
		}
	}
	require.NotNil(t, queenside)
	require.NotNil(t, kingside)

	assert.True(t, queenside.Board[CoordToIndex("c1")].HasMoved())
	assert.True(t, queenside.Board[CoordToIndex("d1")].HasMoved())
	assert.True(t, queenside.Board[CoordToIndex("a1")].IsEmpty())
	assert.True(t, queenside.Board[CoordToIndex("e1")].IsEmpty())

	assert.True(t, kingside.Board[CoordToIndex("g1")].HasMoved())
	assert.True(t, kingside.Board[CoordToIndex("f1")].HasMoved())
	assert.True(t, kingside.Board[CoordToIndex("h1")].IsEmpty())
	assert.True(t, kingside.Board[CoordToIndex("e1")].IsEmpty())
}

func TestCastlingDeniedThroughCheck(t *testing.T) {
	s := buildState(0, map[string]Square{
		"e1": MakeSquare(King, false, 0),
		"h1": MakeSquare(Rook, false, 0),
		"e8": MakeSquare(King, true, 0),
		"f8": MakeSquare(Rook, true, 0), // attacks f1, the kingside transit square
	})
	GetLegalMoves(s)
	for _, c := range s.Children {
		assert.False(t, c.LastMove.Castle, "castling through check must be excluded")
	}
}

// Scenario 4: promotion enumeration.
func TestPromotionEnumeratesFourRoles(t *testing.T) {
	s := buildState(0, map[string]Square{
		"a1": MakeSquare(King, false, 0),
		"e7": MakeSquare(Pawn, false, 0),
		"a8": MakeSquare(King, true, 0),
	})
	GetLegalMoves(s)

	var promos []Move
	for _, c := range s.Children {
		if c.LastMove.Role == Pawn && c.LastMove.IsPromotion() {
			promos = append(promos, c.LastMove)
		}
	}
	require.Len(t, promos, 4)
	seen := map[Role]bool{}
	for _, m := range promos {
		seen[m.PromoRole] = true
	}
	for _, r := range PromotionRoles {
		assert.True(t, seen[r], "missing promotion to role %v", r)
	}
}

func TestPromotionViaCaptureEnumeratesFour(t *testing.T) {
	s := buildState(0, map[string]Square{
		"a1": MakeSquare(King, false, 0),
		"e7": MakeSquare(Pawn, false, 0),
		"d8": MakeSquare(Rook, true, 0),
		"a8": MakeSquare(King, true, 0),
	})
	GetLegalMoves(s)

	var promos []Move
	for _, c := range s.Children {
		if c.LastMove.Role == Pawn && c.LastMove.IsPromotion() && c.LastMove.Captured {
			promos = append(promos, c.LastMove)
		}
	}
	assert.Len(t, promos, 4)
}

// Scenario 5: en passant window.
func TestEnPassantWindow(t *testing.T) {
	s := NewInitial()
	moves := []struct{ from, to string }{
		{"e2", "e4"}, {"a7", "a6"}, {"e4", "e5"}, {"d7", "d5"},
	}
	cur := s
	for _, mv := range moves {
		GetLegalMoves(cur)
		var next *State
		for _, c := range cur.Children {
			if IndexToCoord(c.LastMove.Origin) == mv.from && IndexToCoord(c.LastMove.Dest) == mv.to {
				next = c
			}
		}
		require.NotNilf(t, next, "move %s-%s not found", mv.from, mv.to)
		cur = next
	}

	GetLegalMoves(cur)
	found := false
	for _, c := range cur.Children {
		if IndexToCoord(c.LastMove.Origin) == "e5" && IndexToCoord(c.LastMove.Dest) == "d6" {
			found = true
			require.True(t, c.LastMove.EnPassant)
			assert.True(t, c.Board[CoordToIndex("d5")].IsEmpty(), "captured pawn must be removed")
		}
	}
	assert.True(t, found, "e5d6 en passant must be legal immediately after d7d5")

	// two plies later (after White plays some other move and Black
	// replies), the window must have closed.
	var otherWhiteMove *State
	for _, c := range cur.Children {
		if IndexToCoord(c.LastMove.Origin) != "e5" || IndexToCoord(c.LastMove.Dest) != "d6" {
			otherWhiteMove = c
			break
		}
	}
	require.NotNil(t, otherWhiteMove)
	GetLegalMoves(otherWhiteMove)
	require.NotEmpty(t, otherWhiteMove.Children)
	blackReply := otherWhiteMove.Children[0]
	GetLegalMoves(blackReply)
	for _, c := range blackReply.Children {
		assert.False(t, c.LastMove.EnPassant, "en passant window must be closed two plies later")
	}
}

func TestCheckmateIsChildlessAndInCheck(t *testing.T) {
	// Fool's mate: 1.f3 e5 2.g4 Qh4#
	s := NewInitial()
	seq := []struct{ from, to string }{
		{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"},
	}
	cur := s
	for _, mv := range seq {
		GetLegalMoves(cur)
		var next *State
		for _, c := range cur.Children {
			if IndexToCoord(c.LastMove.Origin) == mv.from && IndexToCoord(c.LastMove.Dest) == mv.to {
				next = c
			}
		}
		require.NotNilf(t, next, "move %s-%s not found", mv.from, mv.to)
		cur = next
	}
	GetLegalMoves(cur)
	assert.Empty(t, cur.Children)
	assert.True(t, cur.Check)
}

func TestStateCopyIsIndependent(t *testing.T) {
	s := NewInitial()
	GetLegalMoves(s)
	child := s.Children[0]
	cp := child.Copy()
	assert.Nil(t, cp.Parent)
	assert.Empty(t, cp.Children)
	assert.False(t, cp.CastlesExpanded)
	assert.False(t, cp.ChecksRemoved)
	assert.Equal(t, child.Board, cp.Board)
}

func TestPruneToChildFreesSiblings(t *testing.T) {
	s := NewInitial()
	GetLegalMoves(s)
	require.Len(t, s.Children, 20)
	kept := s.Children[3]
	newRoot := s.PruneToChild(3)
	assert.Same(t, kept, newRoot)
	assert.Nil(t, newRoot.Parent)
	assert.Empty(t, newRoot.Children)
	assert.False(t, newRoot.CastlesExpanded)
}
