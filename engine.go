// Package megumax wires the position adapter, evaluator and MCTS
// search core into the single object a UCI front end drives.
package megumax

import (
	"io"

	"github.com/cpirc/megumax/internal/eval"
	"github.com/cpirc/megumax/internal/mcts"
	"github.com/cpirc/megumax/internal/position"
)

// Engine owns one mutable position and the search machinery that
// operates on it: a SearchController, its shared Globals, and an
// optional DebugStepper. Grounded on the teacher's Agent (agent.go),
// which wrapped an *mcts.MCTS plus a player color and exposed Search
// to the Arena; the self-play/training surface that file also carried
// (SwitchToInference, the inferer channel pool) has no home under
// this spec's non-goals and is not carried forward.
type Engine struct {
	pos        *position.Position
	controller *mcts.SearchController
	globals    *mcts.Globals
	debug      *mcts.DebugStepper
}

// New creates an Engine at the standard starting position, reporting
// search progress through sink and printing its interactive debug
// stepper's prompts/output to debugOut. Operator input for debug mode
// arrives via the returned Engine's Debug().Feed, fed by the UCI front
// end from the same stdin it otherwise dispatches commands from.
func New(cfg mcts.Config, sink mcts.InfoSink, debugOut io.Writer) (*Engine, error) {
	pos, err := position.New("")
	if err != nil {
		return nil, err
	}
	globals := mcts.NewGlobals()
	debug := mcts.NewDebugStepper(debugOut)
	controller := mcts.NewSearchController(cfg, globals, debug, sink)
	return &Engine{pos: pos, controller: controller, globals: globals, debug: debug}, nil
}

// SetPosition replaces the engine's position, parsed from fen (or the
// startpos when fen is "startpos" or ""), then replays moves in order.
// The first illegal move fails the whole command, leaving the engine's
// previous position unchanged (spec.md §7's chosen propagation policy).
func (e *Engine) SetPosition(fen string, moves []string) error {
	next, err := position.New(fen)
	if err != nil {
		return err
	}
	for _, uci := range moves {
		m, ok := findLegalByUCI(next, uci)
		if !ok {
			return errIllegalMove(uci)
		}
		if err := next.MakeMove(m); err != nil {
			return err
		}
	}
	e.pos = next
	return nil
}

func findLegalByUCI(pos *position.Position, uci string) (position.Move, bool) {
	for _, m := range pos.LegalMoves() {
		if m.String() == uci {
			return m, true
		}
	}
	return position.Move{}, false
}

type errIllegalMove string

func (e errIllegalMove) Error() string { return "illegal move in position command: " + string(e) }

// Search runs a search against the engine's current position with the
// given go parameters, returning the chosen move. ok is false when the
// root has no legal moves (spec.md §7: the caller should then emit
// "bestmove 0000").
func (e *Engine) Search(params mcts.GoParams) (position.Move, bool) {
	e.globals.Reset(e.pos.SideToMove(), params)
	return e.controller.Search(e.pos)
}

// Stop sets the cooperative stop flag so an in-flight Search returns
// after completing its current iteration.
func (e *Engine) Stop() { e.globals.SetStop() }

// Eval returns the static evaluation of the current position in
// centipawns, from the side to move's perspective.
func (e *Engine) Eval() int { return eval.Evaluate(e.pos) }

// Display renders the current position for the UCI "d" command.
func (e *Engine) Display() { e.pos.Display() }

// Debug returns the engine's debug stepper, so the UCI front end's
// "debug" handler can toggle it and, if no search is active, spawn a
// helper search to drive it.
func (e *Engine) Debug() *mcts.DebugStepper { return e.debug }
