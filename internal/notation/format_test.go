package notation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tux21b/chessbuddy/internal/board"
	"github.com/tux21b/chessbuddy/internal/notation"
)

func TestFormatPlainMove(t *testing.T) {
	s := board.NewInitial()
	board.GetLegalMoves(s)
	var e4 *board.State
	for _, c := range s.Children {
		if board.IndexToCoord(c.LastMove.Origin) == "e2" && board.IndexToCoord(c.LastMove.Dest) == "e4" {
			e4 = c
		}
	}
	require.NotNil(t, e4)
	assert.Equal(t, "e2e4", notation.Format(e4.LastMove))
}

func TestFormatPromotion(t *testing.T) {
	s := &board.State{}
	s.Board[board.CoordToIndex("e7")] = board.MakeSquare(board.Pawn, false, 0)
	s.Board[board.CoordToIndex("a1")] = board.MakeSquare(board.King, false, 0)
	s.Board[board.CoordToIndex("a8")] = board.MakeSquare(board.King, true, 0)
	board.GetLegalMoves(s)

	found := false
	for _, c := range s.Children {
		if c.LastMove.PromoRole == board.Queen {
			found = true
			assert.Equal(t, "e7e8Q", notation.Format(c.LastMove))
		}
	}
	assert.True(t, found)
}

func TestFormatNonPawnMoveHasRoleLetter(t *testing.T) {
	s := &board.State{}
	s.Board[board.CoordToIndex("g1")] = board.MakeSquare(board.Knight, false, 0)
	s.Board[board.CoordToIndex("e1")] = board.MakeSquare(board.King, false, 0)
	s.Board[board.CoordToIndex("a8")] = board.MakeSquare(board.King, true, 0)
	board.GetLegalMoves(s)

	var knightMove *board.State
	for _, c := range s.Children {
		if board.IndexToCoord(c.LastMove.Origin) == "g1" && board.IndexToCoord(c.LastMove.Dest) == "f3" {
			knightMove = c
		}
	}
	require.NotNil(t, knightMove)
	assert.Equal(t, "Ng1f3", notation.Format(knightMove.LastMove))
}

func TestParseRoundTrip(t *testing.T) {
	s := board.NewInitial()
	board.GetLegalMoves(s)

	got, err := notation.Parse(s, "  e2e4 ")
	require.NoError(t, err)
	assert.Equal(t, "e4", board.IndexToCoord(got.LastMove.Dest))
}

func TestParseRejectsUnknownMove(t *testing.T) {
	s := board.NewInitial()
	board.GetLegalMoves(s)

	_, err := notation.Parse(s, "e2e5")
	assert.ErrorIs(t, err, notation.ErrInvalidMove)
}
