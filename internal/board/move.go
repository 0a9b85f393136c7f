package board

// Move records a single half-move: where it came from, where it went,
// what piece moved, whether it was a promotion or a capture.
type Move struct {
	Origin      Index
	Dest        Index
	Role        Role
	PromoRole   Role // 0 if not a promotion
	Captured    bool
	EnPassant   bool // capture was an en-passant removal
	Castle      bool // this move is a castling move (king+rook)
	CastleQueen bool // queenside, only meaningful when Castle
	Valid       bool

	// rookOrigin/rookDest carry the rook's leg of a castling move.
	// Unexported: only applyMove needs them, and only when Castle is set.
	rookOrigin Index
	rookDest   Index
}

// IsPromotion reports whether m promotes a pawn.
func (m Move) IsPromotion() bool { return m.PromoRole != Empty }
