// Package uci implements a minimal line-oriented dispatcher for the
// subset of the UCI protocol spec.md §6 requires the core to register
// handlers for. The protocol itself is an external collaborator
// (spec.md §1); this package only parses one command per line and
// calls into megumax.Engine, in the dispatch-per-verb style of
// zurichess's uci.go.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/cpirc/megumax"
	"github.com/cpirc/megumax/internal/mcts"
	"github.com/cpirc/megumax/internal/position"
)

// Dispatcher owns the single scanner over the engine's input. When
// debug mode is active it forwards raw lines to the engine's
// DebugStepper instead of treating them as top-level UCI commands.
type Dispatcher struct {
	engine *megumax.Engine
	out    io.Writer
	scan   *bufio.Scanner

	// searchDone, when non-nil, is closed once the currently running
	// search — started by "go" or by a debug-mode helper — has
	// returned. Every command that touches engine state other than
	// "stop" joins it first, so at most one search ever runs against
	// the shared position and Globals.
	searchDone chan struct{}
}

// New creates a dispatcher reading commands from in and writing
// replies (id/uciok/bestmove/info/...) to out.
func New(in io.Reader, out io.Writer) (*Dispatcher, error) {
	d := &Dispatcher{out: out, scan: bufio.NewScanner(in)}
	engine, err := megumax.New(mcts.DefaultConfig(), d, out)
	if err != nil {
		return nil, errors.Wrap(err, "create engine")
	}
	d.engine = engine
	return d, nil
}

// Info implements mcts.InfoSink, formatting the periodic UCI info line
// spec.md §6 specifies: nodes, elapsed time, nps, and the PV.
func (d *Dispatcher) Info(nodes int32, elapsed time.Duration, pv []position.Move) {
	millis := elapsed.Milliseconds()
	if millis <= 0 {
		millis = 1
	}
	nps := int64(nodes) * 1000 / millis
	fmt.Fprintf(d.out, "info nodes %d time %d nps %d pv", nodes, millis, nps)
	for _, m := range pv {
		fmt.Fprintf(d.out, " %s", m)
	}
	fmt.Fprintln(d.out)
}

// Run reads and dispatches commands until stdin closes or "quit" is
// received.
func (d *Dispatcher) Run() {
	for d.scan.Scan() {
		line := strings.TrimSpace(d.scan.Text())
		if line == "" {
			continue
		}
		if d.engine.Debug().IsActive() {
			d.engine.Debug().Feed(line)
			continue
		}
		if !d.dispatch(line) {
			return
		}
	}
}

// dispatch handles one top-level command line, returning false when
// the front end should exit. "stop" bypasses joinSearch deliberately:
// it is the one command meant to reach the engine while a search is
// still in flight.
func (d *Dispatcher) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	if cmd == "stop" {
		d.engine.Stop()
		return true
	}
	if cmd == "quit" {
		// Stop unconditionally before joining: an operator quitting
		// out of an unbounded "go infinite" shouldn't have to send
		// "stop" first just to get the process to exit.
		d.engine.Stop()
		d.joinSearch()
		return false
	}

	d.joinSearch()

	switch cmd {
	case "uci":
		fmt.Fprintln(d.out, "id name megumax")
		fmt.Fprintln(d.out, "id author cpirc")
		fmt.Fprintln(d.out, "uciok")
	case "isready":
		fmt.Fprintln(d.out, "readyok")
	case "ucinewgame":
		if err := d.engine.SetPosition("startpos", nil); err != nil {
			d.reportError(err)
		}
	case "position":
		if err := d.handlePosition(args); err != nil {
			d.reportError(err)
		}
	case "go":
		d.handleGo(args)
	case "d":
		d.engine.Display()
	case "eval":
		fmt.Fprintf(d.out, "info string eval cp %d\n", d.engine.Eval())
	case "debug":
		d.handleDebug(args)
	default:
		// Unknown UCI subcommands are silently ignored, per spec.md §7.
	}
	return true
}

// joinSearch blocks until any search previously started by "go" or
// "debug on" has returned. Called before any command — besides
// "stop" — that reads or mutates engine state, so it never races a
// still-running search over the shared position and Globals.
func (d *Dispatcher) joinSearch() {
	if d.searchDone == nil {
		return
	}
	<-d.searchDone
	d.searchDone = nil
}

func (d *Dispatcher) reportError(err error) {
	fmt.Fprintf(d.out, "info string error %v\n", err)
}

func (d *Dispatcher) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.New("position: missing fen/startpos")
	}

	var fen string
	var rest []string
	switch args[0] {
	case "startpos":
		fen = "startpos"
		rest = args[1:]
	case "fen":
		if len(args) < 7 {
			return errors.New("position: truncated fen")
		}
		fen = strings.Join(args[1:7], " ")
		rest = args[7:]
	default:
		return errors.Errorf("position: unknown subcommand %q", args[0])
	}

	var moves []string
	if len(rest) > 0 {
		if rest[0] != "moves" {
			return errors.Errorf("position: unexpected token %q", rest[0])
		}
		moves = rest[1:]
	}

	if err := d.engine.SetPosition(fen, moves); err != nil {
		return errors.Wrap(err, "position")
	}
	return nil
}

// handleGo starts a search on its own goroutine rather than blocking
// Run's scanning loop, so a GUI's "stop" sent mid-search is read and
// applied immediately instead of queuing up behind bestmove.
func (d *Dispatcher) handleGo(args []string) {
	params, err := parseGoParams(args)
	if err != nil {
		d.reportError(err)
	}

	done := make(chan struct{})
	d.searchDone = done
	go func() {
		defer close(done)
		move, ok := d.engine.Search(params)
		if !ok {
			fmt.Fprintln(d.out, "bestmove 0000")
			return
		}
		fmt.Fprintf(d.out, "bestmove %s\n", move)
	}()
}

// parseGoParams consumes the wtime/btime/winc/binc/movestogo/movetime/
// infinite parameters the controller uses, per spec.md §6, aggregating
// any per-token parse failures with go-multierror so one malformed
// value doesn't hide a second.
func parseGoParams(args []string) (mcts.GoParams, error) {
	var params mcts.GoParams
	var errs *multierror.Error

	intValue := func(tok string) (int, error) {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return 0, errors.Wrapf(err, "parse %q", tok)
		}
		return v, nil
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime":
			key := args[i]
			if i+1 >= len(args) {
				errs = multierror.Append(errs, errors.Errorf("%s: missing value", key))
				continue
			}
			v, err := intValue(args[i+1])
			i++
			if err != nil {
				errs = multierror.Append(errs, errors.Wrap(err, key))
				continue
			}
			switch key {
			case "wtime":
				params.WTime = &v
			case "btime":
				params.BTime = &v
			case "winc":
				params.WInc = &v
			case "binc":
				params.BInc = &v
			case "movestogo":
				params.MovesToGo = &v
			case "movetime":
				params.MoveTime = &v
			}
		case "infinite":
			params.Infinite = true
		case "ponder", "depth", "nodes", "mate", "searchmoves":
			// Accepted but not consumed by this controller, per spec.md §6.
		}
	}

	return params, errs.ErrorOrNil()
}

// handleDebug implements the "debug" handler of spec.md §6: entering
// debug mode spawns an infinite search on a helper goroutine if none
// is active, with the search's onExit wired to stop it once the
// operator leaves debug mode. dispatch already joined any prior
// search before calling this, so starting a new one here never races
// the one it replaces. The spawner then joins this helper (§9) lazily,
// the next time a command needs exclusive access to the search state,
// rather than blocking here — this same goroutine also owns the input
// scanner, and blocking here would starve the debug stepper of the
// very lines the operator types next.
func (d *Dispatcher) handleDebug(args []string) {
	if len(args) == 0 || args[0] != "on" {
		return
	}

	stepper := d.engine.Debug()
	stepper.Enable()

	if stepper.IsSearching() {
		return
	}

	done := make(chan struct{})
	d.searchDone = done
	stepper.SetOnExit(d.engine.Stop)
	go func() {
		defer close(done)
		d.engine.Search(mcts.GoParams{Infinite: true})
	}()
}
