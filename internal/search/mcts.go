// Package search implements a parallel Monte Carlo Tree Search engine
// over internal/board's position tree. Grounded on
// brighamskarda-applechess/mcts/mcst.go's node shape (w/n statistics,
// UCB1 selection, random rollout) and hailam-chessplay's worker-owns-
// its-state isolation discipline, adapted to spec.md's single-driver,
// fixed-worker-pool design: one driver goroutine does select, dispatch,
// join and backprop; W persistent worker goroutines only ever run
// playouts on a cloned leaf handed to them over a channel and never
// touch the shared tree (spec.md §5, "workers never touch the shared
// tree" — one MCTS iteration is one selection followed by W parallel
// playouts of that same node, merged once).
package search

import (
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tux21b/chessbuddy/internal/board"
)

const (
	// DefaultWorkers is the number of playout goroutines spun up by
	// Start, absent an explicit override (spec.md §5, W=12).
	DefaultWorkers = 12

	// DefaultC is the UCB1 exploration constant. Deliberately 0.5, not
	// the textbook sqrt(2) brighamskarda-applechess uses — spec.md §5
	// calls for a narrower, more exploitative constant.
	DefaultC = 0.5

	// DefaultPlayoutCap bounds a single rollout; beyond this many plies
	// without a decisive result, the playout is scored as a draw.
	DefaultPlayoutCap = 200
)

// outcome tallies one iteration's W playout results, for a single
// merged backprop pass over the selection path.
type outcome struct {
	whiteWins int
	blackWins int
	draws     int
}

func (o *outcome) add(result int) {
	switch {
	case result > 0:
		o.whiteWins++
	case result < 0:
		o.blackWins++
	default:
		o.draws++
	}
}

// Engine runs parallel MCTS playouts against a shared board.State tree.
// The zero value is not usable; construct with New.
type Engine struct {
	Workers    int
	C          float64
	PlayoutCap int

	stopping atomic.Bool
	jobs     []chan *board.State // one per-worker SPSC job queue, driver -> worker
	results  chan int            // shared MPSC results queue, workers -> driver
	wg       sync.WaitGroup
}

// New returns an Engine configured with the given worker count, UCB1
// constant and playout cap. A non-positive workers or playoutCap falls
// back to the package defaults.
func New(workers int, c float64, playoutCap int) *Engine {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if playoutCap <= 0 {
		playoutCap = DefaultPlayoutCap
	}
	return &Engine{Workers: workers, C: c, PlayoutCap: playoutCap}
}

// Start launches the driver and its W persistent workers against root
// and returns immediately. Only the driver goroutine ever reads or
// mutates root; workers receive an isolated clone of the selected leaf
// per iteration and never see root itself. Callers must not read
// root's Children or statistics while the engine is running without
// calling Stop first.
func (e *Engine) Start(root *board.State) {
	e.stopping.Store(false)
	e.jobs = make([]chan *board.State, e.Workers)
	e.results = make(chan int, e.Workers)

	for i := range e.jobs {
		e.jobs[i] = make(chan *board.State)
		e.wg.Add(1)
		go e.runWorker(i, e.jobs[i])
	}

	e.wg.Add(1)
	go e.runDriver(root)
}

// Stop raises the cooperative stop flag and blocks until the driver
// and every worker have returned. Safe to call only after a matching
// Start.
func (e *Engine) Stop() {
	e.stopping.Store(true)
	e.wg.Wait()
}

// runDriver is the sole goroutine that ever touches the shared tree:
// each iteration it selects a leaf, hands a clone of it to every
// worker, joins on all W results, and applies one merged backprop.
func (e *Engine) runDriver(root *board.State) {
	defer e.wg.Done()
	defer func() {
		for _, ch := range e.jobs {
			close(ch)
		}
	}()

	for !e.stopping.Load() {
		path := e.selectPath(root)
		leaf := path[len(path)-1]

		for _, ch := range e.jobs {
			ch <- leaf.Clone()
		}

		var agg outcome
		for range e.jobs {
			agg.add(<-e.results)
		}
		backprop(path, agg)
	}
}

// runWorker only ever sees clones handed to it over jobs; it never
// reads or writes the shared tree (root, Children, statistics).
func (e *Engine) runWorker(id int, jobs <-chan *board.State) {
	defer e.wg.Done()
	seed := uint64(time.Now().UnixNano()) ^ uint64(id)*0x9E3779B97F4A7C15
	rng := rand.New(rand.NewPCG(seed, uint64(id)))

	for local := range jobs {
		e.results <- e.playout(local, rng)
	}
}

// selectPath walks root to a leaf by UCB1 with progressive-widening-
// lite (an unvisited child is always taken immediately, bypassing the
// UCB1 comparison, since it has no statistics to compare yet), and
// returns every State visited along the way, root first. Only the
// driver ever calls this, so no synchronization is needed.
func (e *Engine) selectPath(root *board.State) []*board.State {
	path := []*board.State{root}
	cur := root
	for {
		board.GetLegalMoves(cur)
		if len(cur.Children) == 0 {
			return path // checkmate or stalemate: nothing further to select
		}
		next := selectChild(cur, e.C)
		path = append(path, next)
		if next.GamesPlayed() == 0 {
			return path
		}
		cur = next
	}
}

// selectChild returns the unvisited child if one exists, else the
// child maximizing UCB1 from the perspective of the side to move at s.
func selectChild(s *board.State, c float64) *board.State {
	for _, ch := range s.Children {
		if ch.GamesPlayed() == 0 {
			return ch
		}
	}

	moverBlack := s.BlackToMove()
	parentN := float64(s.GamesPlayed())

	var best *board.State
	bestUCB := math.Inf(-1)
	for _, ch := range s.Children {
		n := float64(ch.GamesPlayed())
		wins := ch.WinsW
		if moverBlack {
			wins = ch.WinsB
		}
		ucb := float64(wins)/n + c*math.Sqrt(math.Log(parentN)/n)
		if ucb > bestUCB {
			bestUCB = ucb
			best = ch
		}
	}
	return best
}

// playout plays uniformly random legal moves from s until a decisive
// result, a draw by stalemate, or PlayoutCap plies pass (scored as a
// draw). s is a private clone, so moves are applied by repeatedly
// calling GetLegalMoves and descending — no undo is needed.
func (e *Engine) playout(s *board.State, rng *rand.Rand) int {
	cur := s
	for ply := 0; ply < e.PlayoutCap; ply++ {
		board.GetLegalMoves(cur)
		if len(cur.Children) == 0 {
			if !cur.Check {
				return 0 // stalemate
			}
			if cur.WhiteToMove() {
				return -1 // white to move and mated: black wins
			}
			return 1
		}
		cur = cur.Children[rng.IntN(len(cur.Children))]
	}
	return 0
}

// backprop applies one iteration's merged W-playout outcome to every
// State in path. Only the driver calls this, immediately after
// joining on all W results for that iteration.
func backprop(path []*board.State, agg outcome) {
	for _, s := range path {
		s.WinsW += uint64(agg.whiteWins)
		s.WinsB += uint64(agg.blackWins)
		s.Draws += uint64(agg.draws)
	}
}

// BestChild returns root's most-played child, the conventional
// "robust child" choice of a finished search. Returns nil if root has
// no children (the game is already over).
func BestChild(root *board.State) *board.State {
	board.GetLegalMoves(root)
	var best *board.State
	var bestN uint64
	for _, c := range root.Children {
		if n := c.GamesPlayed(); best == nil || n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
