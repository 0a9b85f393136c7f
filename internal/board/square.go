// Package board implements the 0x88 position representation and the
// legal move generator for chessbuddy.
package board

import "fmt"

// Role identifies the kind of piece occupying a square, independent
// of color.
type Role uint8

const (
	Empty Role = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

// Square is a single board cell packed into one byte:
//
//	bits 0-2: Role
//	bits 3-4: reserved, always 0
//	bit 5:    PawnTwoStep
//	bit 6:    PieceMoved
//	bit 7:    Black
type Square uint8

const (
	roleMask    Square = 0x07
	PawnTwoStep Square = 1 << 5
	PieceMoved  Square = 1 << 6
	Black       Square = 1 << 7
)

// MakeSquare packs a role, color and flag set into a square byte.
// black selects the black piece; flags must be a combination of
// PawnTwoStep and PieceMoved (or 0).
func MakeSquare(r Role, black bool, flags Square) Square {
	s := Square(r)
	if black {
		s |= Black
	}
	s |= flags & (PawnTwoStep | PieceMoved)
	return s
}

// Role returns the role encoded in the square.
func (s Square) Role() Role { return Role(s & roleMask) }

// IsEmpty reports whether the square holds no piece.
func (s Square) IsEmpty() bool { return s.Role() == Empty }

// IsBlack reports whether the square holds a black piece. Empty
// squares are neither black nor white.
func (s Square) IsBlack() bool { return !s.IsEmpty() && s&Black != 0 }

// IsWhite reports whether the square holds a white piece.
func (s Square) IsWhite() bool { return !s.IsEmpty() && s&Black == 0 }

// IsColor reports whether the square holds a piece of the given color
// (black when black is true). Always false on an empty square.
func (s Square) IsColor(black bool) bool {
	if s.IsEmpty() {
		return false
	}
	return s.IsBlack() == black
}

// HasPawnTwoStep reports whether the pawn-two-step flag is set.
func (s Square) HasPawnTwoStep() bool { return s&PawnTwoStep != 0 }

// HasMoved reports whether the piece-moved flag is set.
func (s Square) HasMoved() bool { return s&PieceMoved != 0 }

// WithRole returns a copy of s with its role bits overwritten; used by
// promotion, which keeps color and PieceMoved but rewrites the role.
func (s Square) WithRole(r Role) Square {
	return (s &^ roleMask) | Square(r)
}

// WithFlags returns a copy of s with its flag bits replaced.
func (s Square) WithFlags(flags Square) Square {
	return (s &^ (PawnTwoStep | PieceMoved)) | (flags & (PawnTwoStep | PieceMoved))
}

// Index is a 0x88 board index: bits 4-6 encode rank 0-7, bits 0-2
// encode file 0-7, bits 3 and 7 are zero for on-board squares. It is a
// plain int (not a one-byte type) so that probing one step past the
// edge of the board during generation — e.g. rank 7 file 7 plus an
// Up step — never overflows before the OnBoard bitwise test runs.
type Index int

// Direction offsets, as signed 0x88 increments.
const (
	Left  Index = -1
	Right Index = 1
	Up    Index = 16
	Down  Index = -16

	UpLeft    = Up + Left
	UpRight   = Up + Right
	DownLeft  = Down + Left
	DownRight = Down + Right
)

// RookDirections are the four cardinal slide directions.
var RookDirections = [4]Index{Left, Right, Up, Down}

// BishopDirections are the four diagonal slide directions.
var BishopDirections = [4]Index{UpLeft, UpRight, DownLeft, DownRight}

// QueenDirections are all eight slide directions.
var QueenDirections = [8]Index{Left, Right, Up, Down, UpLeft, UpRight, DownLeft, DownRight}

// KnightOffsets are the eight knight L-shaped jumps, built as sums of
// cardinal directions per spec.md §4.3.
var KnightOffsets = [8]Index{
	Up + Up + Left, Up + Up + Right,
	Down + Down + Left, Down + Down + Right,
	Left + Left + Up, Left + Left + Down,
	Right + Right + Up, Right + Right + Down,
}

// OnBoard is the 0x88 exact off-board test.
func OnBoard(i Index) bool {
	return i&0x88 == 0
}

// MakeIndex builds a 0x88 index from a rank and file, each 0-7.
func MakeIndex(rank, file int) Index {
	return Index(rank<<4 | file)
}

// RankFile decomposes a 0x88 index into its rank and file, each 0-7.
// Only meaningful when OnBoard(i).
func RankFile(i Index) (rank, file int) {
	return int(i) >> 4, int(i) & 7
}

// invalidIndex is the out-of-range sentinel returned by CoordToIndex
// on malformed input.
const invalidIndex Index = -1

// CoordToIndex parses a two-character algebraic coordinate such as
// "e4" into a 0x88 index. Returns the invalid sentinel (not OnBoard)
// on malformed input. Case-insensitive on the file letter.
func CoordToIndex(coord string) Index {
	if len(coord) != 2 {
		return invalidIndex
	}
	f := coord[0]
	r := coord[1]
	var file int
	switch {
	case f >= 'a' && f <= 'h':
		file = int(f - 'a')
	case f >= 'A' && f <= 'H':
		file = int(f - 'A')
	default:
		return invalidIndex
	}
	if r < '1' || r > '8' {
		return invalidIndex
	}
	rank := int(r - '1')
	return MakeIndex(rank, file)
}

// IndexToCoord renders a 0x88 index as a two-character algebraic
// coordinate, e.g. "e4". Panics if i is not OnBoard, since the caller
// is expected to have validated it already.
func IndexToCoord(i Index) string {
	if !OnBoard(i) {
		panic(fmt.Sprintf("board: IndexToCoord of off-board index %d", i))
	}
	rank, file := RankFile(i)
	return string([]byte{byte('a' + file), byte('1' + rank)})
}

// roleLetters maps a role to its uppercase algebraic letter; Pawn has
// no letter of its own in the console protocol.
var roleLetters = [...]byte{Empty: 0, Pawn: 0, Rook: 'R', Knight: 'N', Bishop: 'B', Queen: 'Q', King: 'K'}

// RoleLetter returns the uppercase algebraic letter for r, or 0 for
// Pawn and Empty.
func RoleLetter(r Role) byte {
	if int(r) >= len(roleLetters) {
		return 0
	}
	return roleLetters[r]
}

// RoleFromLetter parses an uppercase algebraic piece letter (R, N, B,
// Q, K) into a Role. Returns Empty if the letter doesn't match any
// promotable or named role.
func RoleFromLetter(c byte) Role {
	switch c {
	case 'R', 'r':
		return Rook
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'Q', 'q':
		return Queen
	case 'K', 'k':
		return King
	default:
		return Empty
	}
}

// PromotionRoles are the four roles a pawn may promote to, in the
// order spec.md §4.3 requires children to be produced.
var PromotionRoles = [4]Role{Rook, Knight, Bishop, Queen}
