// Package prompt implements chessbuddy's interactive command loop.
// Grounded on herohde-morlock/pkg/engine/console/console.go's
// channel-driven driver shape (in <-chan string, out chan<- string,
// one goroutine reading commands), generalized from UCI-ish analyze/
// depth/hash commands to spec.md §6's five console commands plus the
// save/quit pair original_source/boris.c's REPL carries.
package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/seekerror/logw"

	"github.com/tux21b/chessbuddy/internal/board"
	"github.com/tux21b/chessbuddy/internal/notation"
	"github.com/tux21b/chessbuddy/internal/perft"
	"github.com/tux21b/chessbuddy/internal/persist"
	"github.com/tux21b/chessbuddy/internal/render"
	"github.com/tux21b/chessbuddy/internal/search"
)

// Driver runs the command loop against a single root position,
// launching and halting a search.Engine in response to "search"/"stop".
type Driver struct {
	engine    *search.Engine
	root      *board.State
	historyDir string
	sessionID uuid.UUID
	saveCount int

	out chan<- string

	running bool
}

// NewDriver constructs a Driver over root, reading commands from in
// and writing responses to the returned channel. The driver goroutine
// exits (closing the output channel) when in is closed or a
// "quit"/"exit" command is received.
func NewDriver(ctx context.Context, engine *search.Engine, root *board.State, historyDir string, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		engine:     engine,
		root:       root,
		historyDir: historyDir,
		sessionID:  uuid.New(),
		out:        out,
	}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer close(d.out)
	logw.Infof(ctx, "Console ready, session %v", d.sessionID)
	d.printBoard()

	for line := range in {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "search":
			d.handleSearch(ctx)
		case "stop":
			d.handleStop(ctx)
		case "perft":
			d.handlePerft(args)
		case "load":
			d.handleLoad(ctx, args)
		case "save":
			d.handleSave(ctx)
		case "quit", "exit":
			d.handleStop(ctx)
			logw.Infof(ctx, "Console exiting")
			return
		default:
			d.handleMove(parts[0])
		}
	}
	logw.Infof(ctx, "Input stream closed")
}

func (d *Driver) handleSearch(ctx context.Context) {
	if d.running {
		d.out <- "search already running"
		return
	}
	board.GetLegalMoves(d.root)
	if len(d.root.Children) == 0 {
		d.out <- "no legal moves: game over"
		return
	}
	d.engine.Start(d.root)
	d.running = true
	logw.Infof(ctx, "Search started at ply %d", d.root.Ply)
	d.out <- "searching"
}

func (d *Driver) handleStop(ctx context.Context) {
	if !d.running {
		return
	}
	d.engine.Stop()
	d.running = false
	best := search.BestChild(d.root)
	logw.Infof(ctx, "Search stopped after %d playouts", d.root.GamesPlayed())
	if best != nil {
		d.out <- fmt.Sprintf("bestmove %v (%d playouts)", notation.Format(best.LastMove), best.GamesPlayed())
	}
}

func (d *Driver) handleMove(token string) {
	if d.running {
		d.out <- "search is running: send 'stop' first"
		return
	}
	board.GetLegalMoves(d.root)
	next, err := notation.Parse(d.root, token)
	if err != nil {
		d.out <- fmt.Sprintf("invalid move: %v", token)
		return
	}
	idx := indexOf(d.root.Children, next)
	d.root = d.root.PruneToChild(idx)
	d.printBoard()
}

func indexOf(children []*board.State, want *board.State) int {
	for i, c := range children {
		if c == want {
			return i
		}
	}
	return -1
}

func (d *Driver) handlePerft(args []string) {
	if len(args) != 1 {
		d.out <- "usage: perft N"
		return
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		d.out <- "usage: perft N"
		return
	}
	cp := d.root.Copy()
	d.out <- fmt.Sprintf("perft(%d) = %d", depth, perft.Count(cp, depth))
}

func (d *Driver) handleLoad(ctx context.Context, args []string) {
	if len(args) == 0 {
		d.out <- "usage: load <fen-or-ply>"
		return
	}
	if ply, err := strconv.Atoi(args[0]); err == nil && len(args) == 1 {
		s, err := persist.Load(d.historyDir, ply)
		if err != nil {
			logw.Errorf(ctx, "load ply %d failed: %v", ply, err)
			d.out <- fmt.Sprintf("load failed: %v", err)
			return
		}
		d.root = s
		d.printBoard()
		return
	}
	s, err := board.ParseFEN(strings.Join(args, " "))
	if err != nil {
		d.out <- fmt.Sprintf("invalid fixture: %v", err)
		return
	}
	d.root = s
	d.printBoard()
}

func (d *Driver) handleSave(ctx context.Context) {
	d.saveCount++
	if err := persist.Save(d.historyDir, d.root, d.sessionID, d.saveCount); err != nil {
		logw.Errorf(ctx, "save failed: %v", err)
		d.out <- fmt.Sprintf("save failed: %v", err)
		return
	}
	d.out <- fmt.Sprintf("saved ply %d", d.root.Ply)
}

func (d *Driver) printBoard() {
	var sb strings.Builder
	render.Board(&sb, d.root)
	d.out <- sb.String()
}
