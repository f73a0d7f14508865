package mcts

import (
	"sync/atomic"
	"time"

	"github.com/cpirc/megumax/internal/position"
)

// GoParams mirrors the subset of UCI "go" parameters the controller
// consumes (spec.md §6). Pointer fields distinguish "not supplied"
// from "supplied as zero"; nil means absent.
type GoParams struct {
	WTime, BTime *int
	WInc, BInc   *int
	MovesToGo    *int
	MoveTime     *int
	Infinite     bool
}

// Globals is the search-wide state a UCI front end and the
// SearchController share across one "go": the cooperative stop flag,
// the time budget, and the node counter. Grounded on spec.md
// §4.9/§5 — stop and nodes are atomic scalars, matching
// search_globals.h in the original implementation. The debug
// mutex/condition-variable/pause state spec.md §4.10 also locates
// here is instead owned entirely by DebugStepper (debug.go), which is
// the only thing that ever touches it; keeping a second, unused copy
// here would just be a dead shadow of the real state.
type Globals struct {
	stop  int32
	nodes int32

	sideToMove position.Color
	params     GoParams
	startTime  time.Time

	lastInfoTime time.Time
}

// NewGlobals returns a ready-to-use Globals.
func NewGlobals() *Globals {
	return &Globals{}
}

// Reset prepares globals for a new search: clears the stop flag,
// records the side to move and the go parameters, zeroes the node
// counter, and stamps the start time. Per spec.md §4.8 step 1.
func (g *Globals) Reset(sideToMove position.Color, params GoParams) {
	atomic.StoreInt32(&g.stop, 0)
	atomic.StoreInt32(&g.nodes, 0)
	g.sideToMove = sideToMove
	g.params = params
	g.startTime = time.Now()
	g.lastInfoTime = g.startTime
}

// Stop reports whether the cooperative stop flag is set.
func (g *Globals) Stop() bool { return atomic.LoadInt32(&g.stop) != 0 }

// SetStop sets the cooperative stop flag. Safe to call from any
// goroutine (the UCI "stop" handler runs on its own thread per
// spec.md §5).
func (g *Globals) SetStop() { atomic.StoreInt32(&g.stop, 1) }

// Nodes returns the node counter.
func (g *Globals) Nodes() int32 { return atomic.LoadInt32(&g.nodes) }

// IncrementNodes increments and returns the new node counter.
func (g *Globals) IncrementNodes() int32 { return atomic.AddInt32(&g.nodes, 1) }

// StartTime returns the search's recorded start time.
func (g *Globals) StartTime() time.Time { return g.startTime }
