package mcts

import (
	"time"

	"github.com/cpirc/megumax/internal/position"
)

// InfoSink receives periodic search progress reports, decoupling this
// package from the UCI "info" line format (internal/uci implements it).
type InfoSink interface {
	Info(nodes int32, elapsed time.Duration, pv []position.Move)
}

// SearchController is the top-level MCTS iteration loop: it owns no
// state across calls to Search beyond its Config, Globals and optional
// DebugStepper/InfoSink, matching the single-search-at-a-time model of
// spec.md §5. Grounded on the teacher's agent.go/arena.go Search
// entrypoints, stripped of the goroutine pool and neural-network
// inference those used.
type SearchController struct {
	Config  Config
	Globals *Globals
	Debug   *DebugStepper
	Sink    InfoSink
}

// NewSearchController wires a controller with the given config,
// shared globals, and optional debug stepper / info sink (either may
// be nil).
func NewSearchController(cfg Config, globals *Globals, debug *DebugStepper, sink InfoSink) *SearchController {
	return &SearchController{Config: cfg, Globals: globals, Debug: debug, Sink: sink}
}

// Search runs MCTS iterations against pos until the stop gate fires,
// then returns the root's most-visited child's move. Returns
// (NullMove, false) if the stop flag was already set, or if the root
// never acquired a single child (no legal moves at the search's
// starting position). Implements spec.md §4.8.
func (sc *SearchController) Search(pos *position.Position) (position.Move, bool) {
	g := sc.Globals

	if g.Stop() {
		return position.NullMove, false
	}

	root := NewRoot()
	if sc.Debug != nil {
		sc.Debug.SetRoot(root)
		sc.Debug.SetSearching(true)
		defer sc.Debug.SetSearching(false)
	}

	startHash := pos.Hash()

	for !g.Stop() {
		if sc.Debug != nil {
			sc.Debug.Poll()
		}

		selected := Select(pos, root, sc.Config.CPuct)
		expanded := Expand(pos, selected)
		score := Rollout(pos, expanded)
		Backprop(expanded, score)

		if pos.Hash() != startHash {
			panic("mcts: position did not round-trip through select/expand/rollout/backprop")
		}

		nodes := g.IncrementNodes()
		if ShouldPollTime(nodes) {
			g.PollTimeStop()
		}
		sc.maybeEmitInfo(root, nodes)
	}

	if len(root.children) == 0 {
		return position.NullMove, false
	}
	best := root.children[root.MostVisitedChildIndex()]
	return best.move, true
}

func (sc *SearchController) maybeEmitInfo(root *Node, nodes int32) {
	if sc.Sink == nil {
		return
	}
	interval := sc.Config.InfoIntervalNodes
	if interval <= 0 || nodes%interval != 0 {
		return
	}
	g := sc.Globals
	now := time.Now()
	if now.Sub(g.lastInfoTime) < time.Duration(sc.Config.InfoIntervalMillis)*time.Millisecond {
		return
	}
	g.lastInfoTime = now
	pv := PrincipalVariation(root, sc.Config.PVLength)
	sc.Sink.Info(nodes, now.Sub(g.startTime), pv)
}
