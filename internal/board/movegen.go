package board

// GetLegalMoves populates s.Children with exactly the set of States
// reachable from s by a single legal move of the side to move (spec.md
// §4.3). Idempotent once both CastlesExpanded and ChecksRemoved are
// set; otherwise runs Phase A (non-castling pseudo-legal moves), Phase
// B (castling) and Phase C (check filter), and sets s.Check.
//
// Internally this uses the two-function decomposition SPEC_FULL.md §9
// recommends (a pure pseudoLegalMoves/kingInCheck pair used for check
// detection, never re-entering GetLegalMoves itself) so the latches
// exist purely as the spec'd observable State fields, not as a guard
// against recursive re-entry.
func GetLegalMoves(s *State) {
	if s.CastlesExpanded && s.ChecksRemoved {
		return
	}

	black := s.BlackToMove()
	clearOwnPawnTwoStep(&s.Board, black)

	moves := pseudoLegalMoves(&s.Board, black)
	if !s.CastlesExpanded {
		moves = append(moves, castlingMoves(&s.Board, black)...)
		s.CastlesExpanded = true
	}

	for _, m := range moves {
		childBoard := applyMove(s.Board, m, black)
		if kingInCheck(&childBoard, black) {
			continue // mover would be left in check: Phase C discards it
		}
		c := s.NewChild()
		c.Board = childBoard
		c.LastMove = m
	}
	s.ChecksRemoved = true
	s.Check = kingInCheck(&s.Board, black)

	assertInvariant(s.ChecksRemoved && s.CastlesExpanded, "GetLegalMoves returned without completing both phases")
}

// clearOwnPawnTwoStep clears the PawnTwoStep flag on every pawn
// belonging to the side to move, so that en-passant eligibility
// expires exactly one ply after the originating two-square advance
// (spec.md §4.3 Phase A).
func clearOwnPawnTwoStep(bd *[128]Square, black bool) {
	for raw := 0; raw < 128; raw++ {
		i := Index(raw)
		if !OnBoard(i) {
			continue
		}
		sq := bd[i]
		if sq.Role() == Pawn && sq.IsColor(black) && sq.HasPawnTwoStep() {
			bd[i] = sq &^ PawnTwoStep
		}
	}
}

// pseudoLegalMoves generates every Phase-A (non-castling) pseudo-legal
// move for the given side to move on bd. It is pure: bd is read-only.
func pseudoLegalMoves(bd *[128]Square, black bool) []Move {
	var moves []Move
	for raw := 0; raw < 128; raw++ {
		origin := Index(raw)
		if !OnBoard(origin) {
			continue
		}
		sq := bd[origin]
		if sq.IsEmpty() || !sq.IsColor(black) {
			continue
		}
		switch sq.Role() {
		case Pawn:
			pawnMoves(bd, origin, black, &moves)
		case Knight:
			stepMoves(bd, origin, KnightOffsets[:], Knight, black, &moves)
		case Bishop:
			slideMoves(bd, origin, BishopDirections[:], Bishop, black, &moves)
		case Rook:
			slideMoves(bd, origin, RookDirections[:], Rook, black, &moves)
		case Queen:
			slideMoves(bd, origin, QueenDirections[:], Queen, black, &moves)
		case King:
			stepMoves(bd, origin, QueenDirections[:], King, black, &moves)
		}
	}
	return moves
}

func stepMoves(bd *[128]Square, origin Index, offsets []Index, role Role, black bool, out *[]Move) {
	for _, d := range offsets {
		dest := origin + d
		if !OnBoard(dest) {
			continue
		}
		target := bd[dest]
		if !target.IsEmpty() && target.IsColor(black) {
			continue // friendly blocker
		}
		*out = append(*out, Move{
			Origin:   origin,
			Dest:     dest,
			Role:     role,
			Captured: !target.IsEmpty(),
			Valid:    true,
		})
	}
}

func slideMoves(bd *[128]Square, origin Index, dirs []Index, role Role, black bool, out *[]Move) {
	for _, d := range dirs {
		for dest := origin + d; OnBoard(dest); dest += d {
			target := bd[dest]
			if target.IsEmpty() {
				*out = append(*out, Move{Origin: origin, Dest: dest, Role: role, Valid: true})
				continue
			}
			if target.IsColor(black) {
				break // friendly blocker
			}
			*out = append(*out, Move{Origin: origin, Dest: dest, Role: role, Captured: true, Valid: true})
			break
		}
	}
}

func pawnMoves(bd *[128]Square, origin Index, black bool, out *[]Move) {
	var dir Index
	var startRank, promoRank, epRank int
	if black {
		dir, startRank, promoRank, epRank = Down, 6, 0, 3
	} else {
		dir, startRank, promoRank, epRank = Up, 1, 7, 4
	}
	originRank, _ := RankFile(origin)

	emit := func(dest Index, captured bool) {
		destRank, _ := RankFile(dest)
		if destRank == promoRank {
			for _, pr := range PromotionRoles {
				*out = append(*out, Move{Origin: origin, Dest: dest, Role: Pawn, PromoRole: pr, Captured: captured, Valid: true})
			}
			return
		}
		*out = append(*out, Move{Origin: origin, Dest: dest, Role: Pawn, Captured: captured, Valid: true})
	}

	// forward one
	one := origin + dir
	if OnBoard(one) && bd[one].IsEmpty() {
		emit(one, false)

		// forward two, only from the starting rank and only when both
		// the skipped and landing squares are empty
		if originRank == startRank {
			two := origin + dir + dir
			if OnBoard(two) && bd[two].IsEmpty() {
				*out = append(*out, Move{Origin: origin, Dest: two, Role: Pawn, Valid: true})
			}
		}
	}

	// diagonal captures
	for _, side := range [2]Index{Left, Right} {
		dest := origin + dir + side
		if !OnBoard(dest) {
			continue
		}
		target := bd[dest]
		if !target.IsEmpty() && !target.IsColor(black) {
			emit(dest, true)
		}
	}

	// en passant
	if originRank == epRank {
		for _, side := range [2]Index{Left, Right} {
			adjacent := origin + side
			if !OnBoard(adjacent) {
				continue
			}
			neighbor := bd[adjacent]
			if neighbor.IsEmpty() || neighbor.IsColor(black) || neighbor.Role() != Pawn || !neighbor.HasPawnTwoStep() {
				continue
			}
			dest := origin + dir + side
			if !OnBoard(dest) || !bd[dest].IsEmpty() {
				continue
			}
			*out = append(*out, Move{Origin: origin, Dest: dest, Role: Pawn, Captured: true, EnPassant: true, Valid: true})
		}
	}
}

// castlingMoves generates Phase-B castling moves for the king of the
// given side to move. Never invoked recursively through check
// detection (kingInCheck only ever calls pseudoLegalMoves).
func castlingMoves(bd *[128]Square, black bool) []Move {
	if kingInCheck(bd, black) {
		return nil
	}
	kingSq := findKing(bd, black)
	if kingSq < 0 || bd[kingSq].HasMoved() {
		return nil
	}

	var moves []Move
	for _, side := range [2]struct {
		dir         Index
		rookSteps   Index
		queenside   bool
	}{
		{Left, 4, true},
		{Right, 3, false},
	} {
		rookOrigin := kingSq + side.dir*side.rookSteps
		if !OnBoard(rookOrigin) {
			continue
		}
		rook := bd[rookOrigin]
		if rook.Role() != Rook || !rook.IsColor(black) || rook.HasMoved() {
			continue
		}

		clear := true
		for sq := kingSq + side.dir; sq != rookOrigin; sq += side.dir {
			if !bd[sq].IsEmpty() {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}

		transit := kingSq + side.dir
		if squareAttackedViaTempKing(bd, kingSq, transit, black) {
			continue
		}

		kingDest := kingSq + side.dir*2
		rookDest := transit
		moves = append(moves, Move{
			Origin:      kingSq,
			Dest:        kingDest,
			Role:        King,
			Castle:      true,
			CastleQueen: side.queenside,
			Valid:       true,
		}.withRook(rookOrigin, rookDest))
	}
	return moves
}

// rookOrigin/rookDest are carried on castling Move values via these
// extra fields so applyMove can relocate the rook in the same ply.
// They are appended here rather than in the Move struct literal above
// to keep castlingMoves's two branches symmetric.
func (m Move) withRook(origin, dest Index) Move {
	m.rookOrigin = origin
	m.rookDest = dest
	return m
}

// squareAttackedViaTempKing checks whether transit is attacked by
// temporarily relocating the king from kingSq to transit and asking
// kingInCheck, then discarding the temporary board (spec.md §9: this
// mutate-then-restore pattern is confined to the single-threaded
// generator and must never be used from worker goroutines).
func squareAttackedViaTempKing(bd *[128]Square, kingSq, transit Index, black bool) bool {
	tmp := *bd
	tmp[transit] = tmp[kingSq]
	tmp[kingSq] = 0
	return kingInCheck(&tmp, black)
}

// kingInCheck reports whether the king of the given color is attacked
// on bd, by generating the opponent's Phase-A pseudo-legal moves and
// checking whether any of them captures that king (spec.md §4.3 Phase
// C / "compute s.check the same way").
func kingInCheck(bd *[128]Square, black bool) bool {
	kingSq := findKing(bd, black)
	if kingSq < 0 {
		return false
	}
	for _, m := range pseudoLegalMoves(bd, !black) {
		if m.Dest == kingSq {
			return true
		}
	}
	return false
}

func findKing(bd *[128]Square, black bool) Index {
	for raw := 0; raw < 128; raw++ {
		i := Index(raw)
		if !OnBoard(i) {
			continue
		}
		sq := bd[i]
		if sq.Role() == King && sq.IsColor(black) {
			return i
		}
	}
	return -1
}

// applyMove returns the board resulting from playing m by the given
// side to move on bd. bd is passed by value (128 bytes, cheap to
// copy) and never mutated.
func applyMove(bd [128]Square, m Move, black bool) [128]Square {
	switch {
	case m.Castle:
		king := bd[m.Origin]
		rook := bd[m.rookOrigin]
		bd[m.Origin] = 0
		bd[m.rookOrigin] = 0
		bd[m.Dest] = king.WithFlags(PieceMoved)
		bd[m.rookDest] = rook.WithFlags(PieceMoved)
	case m.EnPassant:
		pawn := bd[m.Origin]
		bd[m.Origin] = 0
		bd[m.Dest] = pawn.WithFlags(PieceMoved)
		bd[epCapturedSquare(m)] = 0
	case m.IsPromotion():
		bd[m.Origin] = 0
		bd[m.Dest] = MakeSquare(m.PromoRole, black, PieceMoved)
	default:
		moving := bd[m.Origin]
		bd[m.Origin] = 0
		flags := PieceMoved
		if isDoubleStep(m) {
			flags |= PawnTwoStep
		}
		bd[m.Dest] = moving.WithFlags(flags)
	}
	return bd
}

func isDoubleStep(m Move) bool {
	if m.Role != Pawn {
		return false
	}
	delta := int(m.Dest) - int(m.Origin)
	return delta == 32 || delta == -32
}

// epCapturedSquare returns the square of the pawn removed by an
// en-passant capture: same rank as the capturing pawn's origin, same
// file as the destination.
func epCapturedSquare(m Move) Index {
	originRank, _ := RankFile(m.Origin)
	_, destFile := RankFile(m.Dest)
	return MakeIndex(originRank, destFile)
}
