package board

// initialChildCap and childGrowStep implement the lazy children-array
// growth schedule spec.md §4.4 prescribes: capacity 48 on first
// insertion, grown in steps of 16 thereafter.
const (
	initialChildCap = 48
	childGrowStep   = 16
)

// State is a single chess position in the search tree. It owns its
// Children slice exclusively; Parent is a non-owning back-reference
// used only for bottom-up traversal (see internal/search, which walks
// an explicit path stack instead of Parent during backpropagation —
// SPEC_FULL.md §9).
type State struct {
	Board [128]Square

	Ply      int
	LastMove Move
	Parent   *State
	Children []*State

	CastlesExpanded bool
	ChecksRemoved   bool
	Check           bool

	WinsB uint64
	WinsW uint64
	Draws uint64
}

// WhiteToMove reports whether it is White's turn to move, i.e. Ply is
// even.
func (s *State) WhiteToMove() bool { return s.Ply%2 == 0 }

// BlackToMove reports whether it is Black's turn to move.
func (s *State) BlackToMove() bool { return s.Ply%2 != 0 }

// GamesPlayed returns the total number of playouts recorded at s.
func (s *State) GamesPlayed() uint64 { return s.WinsB + s.WinsW + s.Draws }

// NewInitial returns the root State for a standard chess game.
func NewInitial() *State {
	s := &State{}
	back := [8]Role{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < 8; file++ {
		s.Board[MakeIndex(0, file)] = MakeSquare(back[file], false, 0)
		s.Board[MakeIndex(1, file)] = MakeSquare(Pawn, false, 0)
		s.Board[MakeIndex(6, file)] = MakeSquare(Pawn, true, 0)
		s.Board[MakeIndex(7, file)] = MakeSquare(back[file], true, 0)
	}
	return s
}

// Copy returns an independent copy of s: the board, ply, last move
// and statistics are duplicated, but the copy starts with no parent,
// no children and cleared generation latches, per spec.md §4.2 ("copy
// must NOT carry over the parent's children pointer").
func (s *State) Copy() *State {
	n := &State{
		Board:    s.Board,
		Ply:      s.Ply,
		LastMove: s.LastMove,
		Check:    s.Check,
		WinsB:    s.WinsB,
		WinsW:    s.WinsW,
		Draws:    s.Draws,
	}
	return n
}

// NewChild allocates a new successor State, appending it to s's
// Children slice and growing that slice per the cap-48/+16 schedule.
// The child's Parent is set to s and Ply to s.Ply+1; board content and
// LastMove must be filled in by the caller (the move generator).
func (s *State) NewChild() *State {
	if s.Children == nil {
		s.Children = make([]*State, 0, initialChildCap)
	} else if len(s.Children) == cap(s.Children) {
		grown := make([]*State, len(s.Children), cap(s.Children)+childGrowStep)
		copy(grown, s.Children)
		s.Children = grown
	}
	c := &State{
		Ply:    s.Ply + 1,
		Parent: s,
	}
	s.Children = append(s.Children, c)
	return c
}

// PruneToChild moves child index k out of s's Children, re-roots it
// (Parent nil, Children cleared, latches cleared), recursively frees
// every sibling subtree, and returns the re-rooted child. It never
// frees the chosen successor. Panics if k is out of range, since this
// is a programmer error (the prompt must validate the move first).
func (s *State) PruneToChild(k int) *State {
	if k < 0 || k >= len(s.Children) {
		panic("board: PruneToChild index out of range")
	}
	chosen := s.Children[k]
	for i, c := range s.Children {
		if i == k {
			continue
		}
		FreeSubtree(c)
	}
	s.Children = nil

	chosen.Parent = nil
	chosen.Children = nil
	chosen.CastlesExpanded = false
	chosen.ChecksRemoved = false
	return chosen
}

// FreeSubtree recursively releases a State's children (post-order).
// Go is garbage collected, so there is no explicit deallocation; this
// exists to sever Parent/Children links so a pruned subtree cannot be
// reached by a stray traversal and so its memory can be reclaimed
// promptly, matching spec.md §4.4's "recursive post-order free".
func FreeSubtree(s *State) {
	if s == nil {
		return
	}
	for _, c := range s.Children {
		FreeSubtree(c)
	}
	s.Children = nil
	s.Parent = nil
}

// Clone copies the single State s (not its subtree), used by MCTS
// workers to obtain an isolated local copy of the selected node before
// running a playout (SPEC_FULL.md §5: "workers never touch the shared
// tree"). The clone has no parent and no children: only the board
// state and statistics are copied, since a playout grows its own,
// entirely local, tree beneath it.
func (s *State) Clone() *State {
	return s.Copy()
}
