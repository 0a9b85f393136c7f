// Package render draws a board.State as an ANSI-colored terminal grid.
// Library chosen per SPEC_FULL.md §6.3 (github.com/fatih/color, the
// terminal-color dependency carried by daystram-gambit's go.mod).
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/tux21b/chessbuddy/internal/board"
)

var (
	whitePiece = color.New(color.FgHiWhite, color.Bold)
	blackPiece = color.New(color.FgHiBlack, color.Bold)
	lastMoveSq = color.New(color.BgYellow, color.FgBlack)
	darkSquare = color.New(color.BgBlue)
	lightSquare = color.New(color.BgCyan)
)

// Board writes an 8x8 ANSI-colored rendering of s to w, rank 8 at the
// top, with the origin and destination squares of s.LastMove
// highlighted when present.
func Board(w io.Writer, s *board.State) {
	origin, dest := board.Index(-1), board.Index(-1)
	if s.LastMove.Valid {
		origin, dest = s.LastMove.Origin, s.LastMove.Dest
	}

	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(w, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			idx := board.MakeIndex(rank, file)
			sq := s.Board[idx]

			bg := darkSquare
			if (rank+file)%2 == 1 {
				bg = lightSquare
			}
			if idx == origin || idx == dest {
				bg = lastMoveSq
			}

			glyph := glyphFor(sq)
			fg := whitePiece
			if sq.IsBlack() {
				fg = blackPiece
			}
			bg.SetWriter(w)
			fg.Fprint(w, glyph)
			bg.UnsetWriter(w)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "  "+strings.Join(fileLabels(), ""))
}

func fileLabels() []string {
	labels := make([]string, 8)
	for f := 0; f < 8; f++ {
		labels[f] = string(rune('a' + f))
	}
	return labels
}

var glyphs = [...]byte{
	board.Empty:  ' ',
	board.Pawn:   'P',
	board.Rook:   'R',
	board.Knight: 'N',
	board.Bishop: 'B',
	board.Queen:  'Q',
	board.King:   'K',
}

func glyphFor(sq board.Square) string {
	if sq.IsEmpty() {
		return " . "
	}
	return fmt.Sprintf(" %c ", glyphs[sq.Role()])
}
