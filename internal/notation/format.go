// Package notation renders board.Move values as console move strings
// and resolves a typed move string back to one of a position's
// children. Grounded on tux21b-ChessBuddy/board.go's formatMove,
// generalized from SAN-with-check-suffix to spec.md's console format:
// a pawn move is plain {from}{to}[promo]; every other move is prefixed
// with its uppercase role letter, {role}{from}{to} (e.g. "Ng1f3") — no
// capture "x", no check suffix, since the console only ever needs to
// round-trip a move unambiguously against an already-enumerated
// children list.
package notation

import (
	"errors"
	"strings"

	"github.com/tux21b/chessbuddy/internal/board"
)

// ErrInvalidMove is returned by Parse when the given string does not
// name any of the position's legal children.
var ErrInvalidMove = errors.New("notation: not a legal move in this position")

// Format renders a pawn move as "{from}{to}", or "{from}{to}{PROMO}"
// for a promotion, e.g. "e2e4" or "e7e8Q"; any other move is prefixed
// with its role letter, "{role}{from}{to}", e.g. "Ng1f3".
func Format(m board.Move) string {
	var sb strings.Builder
	if m.Role != board.Pawn {
		sb.WriteByte(board.RoleLetter(m.Role))
	}
	sb.WriteString(board.IndexToCoord(m.Origin))
	sb.WriteString(board.IndexToCoord(m.Dest))
	if m.IsPromotion() {
		sb.WriteByte(board.RoleLetter(m.PromoRole))
	}
	return sb.String()
}

// Parse resolves a typed move string against s's already-generated
// children (board.GetLegalMoves(s) must have been called first) and
// returns the matching child. Matching is case-insensitive on the
// promotion letter and tolerates surrounding whitespace.
func Parse(s *board.State, input string) (*board.State, error) {
	want := strings.ToUpper(strings.TrimSpace(input))
	for _, c := range s.Children {
		if strings.ToUpper(Format(c.LastMove)) == want {
			return c, nil
		}
	}
	return nil, ErrInvalidMove
}
