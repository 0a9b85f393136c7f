package board

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFEN decodes a Forsyth-Edwards string into a root State, for
// loading perft fixtures and FEN start positions (the prompt's load
// command and --fixture). Grounded on the six-field
// FEN layout (piece placement, active color, castling availability, en
// passant target, halfmove/fullmove counters); halfmove and fullmove
// counters are parsed for validation only, since State tracks neither.
//
// Our representation has no separate castling-rights or en-passant-file
// bits: both are folded into Square flags (PieceMoved, PawnTwoStep), so a
// missing castling right is encoded by marking the rook on the relevant
// corner as already moved (a corner without a rook is left as it is),
// and an en passant target is encoded by setting PawnTwoStep on the
// pawn that just double-stepped.
func ParseFEN(fen string) (*State, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) != 6 {
		return nil, fmt.Errorf("board: FEN must have 6 fields, got %d: %q", len(fields), fen)
	}

	s := &State{}
	if err := parsePlacement(&s.Board, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		s.Ply = 0
	case "b":
		s.Ply = 1
	default:
		return nil, fmt.Errorf("board: invalid active color %q in FEN", fields[1])
	}

	if err := applyCastlingRights(&s.Board, fields[2]); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		if err := applyEnPassantTarget(&s.Board, fields[3]); err != nil {
			return nil, err
		}
	}

	for _, counter := range fields[4:] {
		if _, err := strconv.Atoi(counter); err != nil {
			return nil, fmt.Errorf("board: invalid FEN move counter %q", counter)
		}
	}

	return s, nil
}

func parsePlacement(bd *[128]Square, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("board: FEN placement must have 8 ranks, got %d", len(ranks))
	}
	for ri, row := range ranks {
		rank := 7 - ri // FEN lists rank 8 first
		file := 0
		for _, c := range row {
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			if file >= 8 {
				return fmt.Errorf("board: FEN rank %d overflows 8 files", rank+1)
			}
			black := c >= 'a' && c <= 'z'
			role := RoleFromLetter(byte(toUpper(c)))
			if toUpper(c) == 'P' {
				role = Pawn // RoleFromLetter has no letter for pawns
			}
			if role == Empty {
				return fmt.Errorf("board: invalid FEN piece letter %q", c)
			}
			bd[MakeIndex(rank, file)] = MakeSquare(role, black, 0)
			file++
		}
		if file != 8 {
			return fmt.Errorf("board: FEN rank %d has %d files, want 8", rank+1, file)
		}
	}
	return nil
}

func toUpper(c rune) rune {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func applyCastlingRights(bd *[128]Square, rights string) error {
	// every rook starts this function marked as moved; a present right
	// un-marks the corresponding rook, so an absent right (including an
	// all-absent "-") leaves it locked out of castling generation.
	type corner struct {
		rookCoord string
		flag      byte
	}
	corners := []corner{
		{"h1", 'K'}, {"a1", 'Q'}, {"h8", 'k'}, {"a8", 'q'},
	}
	for _, c := range corners {
		idx := CoordToIndex(c.rookCoord)
		if bd[idx].Role() == Rook {
			bd[idx] = bd[idx] | PieceMoved
		}
	}
	if rights == "-" {
		return nil
	}
	for _, r := range rights {
		var coord string
		switch r {
		case 'K':
			coord = "h1"
		case 'Q':
			coord = "a1"
		case 'k':
			coord = "h8"
		case 'q':
			coord = "a8"
		default:
			return fmt.Errorf("board: invalid FEN castling letter %q", r)
		}
		idx := CoordToIndex(coord)
		if bd[idx].Role() == Rook {
			bd[idx] = bd[idx] &^ PieceMoved
		}
	}
	return nil
}

func applyEnPassantTarget(bd *[128]Square, target string) error {
	idx := CoordToIndex(target)
	if !OnBoard(idx) {
		return fmt.Errorf("board: invalid FEN en passant square %q", target)
	}
	rank, _ := RankFile(idx)
	var pawnSq Index
	switch rank {
	case 2: // behind a white double-step, pawn landed on rank index 3
		pawnSq = idx + Up
	case 5: // behind a black double-step, pawn landed on rank index 4
		pawnSq = idx + Down
	default:
		return fmt.Errorf("board: en passant square %q on implausible rank", target)
	}
	if bd[pawnSq].Role() == Pawn {
		bd[pawnSq] |= PawnTwoStep
	}
	return nil
}
