// Package persist saves and loads board.State snapshots to disk.
// Grounded on spec.md §6.1 and original_source/boris.c's autosave
// call site (the C original declares but never ships autosave_game's
// body in the retained sources; the snapshot below is written with
// encoding/gob, not as a raw memory dump, and is not reverse-engineered
// from the missing C definition).
package persist

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/tux21b/chessbuddy/internal/board"
)

const (
	dirMode  = 0777
	fileMode = 0666
)

// Meta is the TOML sidecar written alongside each raw save, so an
// operator can inspect a save without decoding the byte dump.
type Meta struct {
	SessionID string `toml:"session_id"`
	Ply       int    `toml:"ply"`
	BlackMove bool   `toml:"black_to_move"`
	Check     bool   `toml:"check"`
	Sequence  int    `toml:"sequence"`
}

// snapshot is the tree-transient-cleared view of a State that actually
// gets written: Parent/Children/generation latches never survive a
// save, since they are meaningless (and in Parent's case, unsafe to
// serialize) outside the live search tree.
type snapshot struct {
	Board    [128]board.Square
	Ply      int
	LastMove board.Move
	Check    bool
	WinsB    uint64
	WinsW    uint64
	Draws    uint64
}

// Save writes history/move{s.Ply}.game (a gob-encoded, tree-transient-
// cleared snapshot of s) and its history/move{s.Ply}.meta.toml sidecar
// under dir, creating dir if necessary. sessionID identifies the whole
// game across every save in the run; sequence is a caller-supplied
// monotonic counter (the number of saves made so far this run, not a
// timestamp, since State carries no wall-clock notion).
func Save(dir string, s *board.State, sessionID uuid.UUID, sequence int) error {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("persist: create history dir: %w", err)
	}

	snap := snapshot{
		Board:    s.Board,
		Ply:      s.Ply,
		LastMove: s.LastMove,
		Check:    s.Check,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("persist: encode snapshot: %w", err)
	}

	gamePath := filepath.Join(dir, fmt.Sprintf("move%d.game", s.Ply))
	if err := os.WriteFile(gamePath, buf.Bytes(), fileMode); err != nil {
		return fmt.Errorf("persist: write %s: %w", gamePath, err)
	}

	meta := Meta{
		SessionID: sessionID.String(),
		Ply:       s.Ply,
		BlackMove: s.BlackToMove(),
		Check:     s.Check,
		Sequence:  sequence,
	}
	metaPath := filepath.Join(dir, fmt.Sprintf("move%d.meta.toml", s.Ply))
	f, err := os.OpenFile(metaPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("persist: open %s: %w", metaPath, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(meta); err != nil {
		return fmt.Errorf("persist: encode %s: %w", metaPath, err)
	}
	return nil
}

// Load reads the raw snapshot at dir/move{ply}.game back into a fresh,
// root State: Parent is nil, Children is empty, and the generation
// latches are cleared, so the loaded position must run through
// board.GetLegalMoves again before use. The search statistics
// (WinsB/WinsW/Draws) are zero: Save never writes them, since they
// belong to the search tree that produced the save, not to the
// position itself, and a resumed search starts counting fresh.
func Load(dir string, ply int) (*board.State, error) {
	gamePath := filepath.Join(dir, fmt.Sprintf("move%d.game", ply))
	raw, err := os.ReadFile(gamePath)
	if err != nil {
		return nil, fmt.Errorf("persist: read %s: %w", gamePath, err)
	}

	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("persist: decode %s: %w", gamePath, err)
	}

	return &board.State{
		Board:    snap.Board,
		Ply:      snap.Ply,
		LastMove: snap.LastMove,
		Check:    snap.Check,
	}, nil
}
