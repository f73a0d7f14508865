package mcts

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/awalterschulze/gographviz"
)

// DebugStepper is the interactive, thread-safe pause/step facility of
// spec.md §4.10: a mutex and condition variable guard a boolean debug
// flag and a searching flag, grounded on search_globals.h's
// debug_mutex/debug_cv/debug_ fields. A cursor node, independent of
// the search's own selection pointer, lets the operator walk the tree
// with "child"/"parent" while the search itself keeps iterating from
// root.
//
// The stepper does not own stdin directly: the UCI front end already
// runs one scanner over the process's input, so while debug mode is
// active the front end forwards each line to Feed instead of reading a
// second, competing scanner over the same stream.
type DebugStepper struct {
	mu   sync.Mutex
	cond *sync.Cond

	debug     bool
	searching bool
	steps     int

	root, cursor *Node

	lines  chan string
	out    io.Writer
	onExit func()
}

// NewDebugStepper wires an interactive command loop that prints to out
// and receives operator input via Feed.
func NewDebugStepper(out io.Writer) *DebugStepper {
	d := &DebugStepper{out: out, lines: make(chan string, 1)}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Feed delivers one line of operator input, read by the UCI front end,
// to whichever readLoop call is currently blocked waiting for it.
func (d *DebugStepper) Feed(line string) { d.lines <- line }

// SetOnExit registers a callback run when the operator leaves debug
// mode via ndebug/quit/stop. The UCI front end uses this to set the
// engine's stop flag so the helper search it spawned to drive debug
// mode returns; it joins that search before its next command.
func (d *DebugStepper) SetOnExit(f func()) {
	d.mu.Lock()
	d.onExit = f
	d.mu.Unlock()
}

// SetRoot installs the current search's root and resets the cursor to
// it. Called once by SearchController at the start of Search.
func (d *DebugStepper) SetRoot(root *Node) {
	d.mu.Lock()
	d.root = root
	d.cursor = root
	d.mu.Unlock()
}

// SetSearching records whether a search is currently iterating and
// notifies any waiter.
func (d *DebugStepper) SetSearching(v bool) {
	d.mu.Lock()
	d.searching = v
	d.cond.Broadcast()
	d.mu.Unlock()
}

// IsSearching reports whether a search is currently iterating.
func (d *DebugStepper) IsSearching() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.searching
}

// Enable turns on debug mode with a zero step budget, so the very next
// Poll blocks in the interactive loop.
func (d *DebugStepper) Enable() {
	d.mu.Lock()
	d.debug = true
	d.steps = 0
	d.cond.Broadcast()
	d.mu.Unlock()
}

// Disable clears the debug flag and notifies waiters, per the
// "ndebug"/"quit"/"stop" commands.
func (d *DebugStepper) Disable() {
	d.mu.Lock()
	d.debug = false
	d.cond.Broadcast()
	d.mu.Unlock()
}

// IsActive reports whether debug mode is on.
func (d *DebugStepper) IsActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.debug
}

// Poll runs at the top of every MCTS iteration. If debug is active and
// no step budget remains, it blocks in the interactive read loop until
// the operator steps or resumes.
func (d *DebugStepper) Poll() {
	d.mu.Lock()
	if !d.debug {
		d.mu.Unlock()
		return
	}
	if d.steps > 0 {
		d.steps--
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	d.readLoop()
}

func (d *DebugStepper) readLoop() {
	for {
		d.mu.Lock()
		cursor := d.cursor
		d.mu.Unlock()
		fmt.Fprintf(d.out, "debug %s> ", cursor.move)

		line, ok := <-d.lines
		if !ok {
			d.exit()
			return
		}
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "moves", "children", "ls":
			d.printChildren()
		case "child":
			if len(fields) < 2 {
				fmt.Fprintln(d.out, "usage: child <uci>")
				continue
			}
			d.descend(fields[1])
		case "parent":
			d.ascend()
		case "step", "s":
			d.resume(1)
			return
		case "steps":
			n := 1
			if len(fields) >= 2 {
				if v, err := strconv.Atoi(fields[1]); err == nil {
					n = v
				}
			}
			d.resume(n)
			return
		case "dot":
			fmt.Fprintln(d.out, d.renderDot())
		case "ndebug", "quit", "stop":
			d.exit()
			return
		default:
			fmt.Fprintf(d.out, "unknown command %q\n", fields[0])
		}
	}
}

// exit runs the registered onExit callback, if any, then clears the
// debug flag. Called for ndebug/quit/stop and when the line source
// closes.
func (d *DebugStepper) exit() {
	d.mu.Lock()
	onExit := d.onExit
	d.mu.Unlock()
	if onExit != nil {
		onExit()
	}
	d.Disable()
}

// resume lets n iterations run before Poll blocks again; the iteration
// that continues from this call is the first of them.
func (d *DebugStepper) resume(n int) {
	d.mu.Lock()
	d.steps = n - 1
	d.mu.Unlock()
}

func (d *DebugStepper) printChildren() {
	d.mu.Lock()
	cursor := d.cursor
	d.mu.Unlock()
	for i, c := range cursor.children {
		fmt.Fprintf(d.out, "%s visits=%d score=%.3f prior=%.4f\n", c.move, c.visits, c.score, cursor.priors[i])
	}
}

func (d *DebugStepper) descend(uci string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	child, ok := d.cursor.FindChild(uci)
	if !ok {
		fmt.Fprintf(d.out, "no such child %q\n", uci)
		return
	}
	d.cursor = child
}

func (d *DebugStepper) ascend() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cursor.parent == nil {
		fmt.Fprintln(d.out, "already at root")
		return
	}
	d.cursor = d.cursor.parent
}

// renderDot draws the cursor node and its immediate children as a
// Graphviz digraph. Supplemental to the text ls/children dump (see
// SPEC_FULL.md's DebugStepper module and DOMAIN STACK table).
func (d *DebugStepper) renderDot() string {
	d.mu.Lock()
	cursor := d.cursor
	d.mu.Unlock()

	g := gographviz.NewGraph()
	g.SetName("tree")
	g.SetDir(true)

	name := nodeDotName(cursor)
	g.AddNode("tree", name, map[string]string{
		"label": dotLabel(cursor),
	})
	for _, c := range cursor.children {
		cname := nodeDotName(c)
		g.AddNode("tree", cname, map[string]string{
			"label": dotLabel(c),
		})
		g.AddEdge(name, cname, true, nil)
	}
	return g.String()
}

func dotLabel(n *Node) string {
	return fmt.Sprintf("%q", fmt.Sprintf("%s v=%d s=%.2f", n.move, n.visits, n.score))
}

func nodeDotName(n *Node) string {
	return fmt.Sprintf("n%p", n)
}
