package mcts

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/cpirc/megumax/internal/position"
)

// infPUCT stands in for +infinity when a child has never been visited,
// guaranteeing it is picked over any visited sibling.
const infPUCT = 3e7

// Node is owned exclusively by its parent: the parent holds the only
// reference to its children slice, and each child carries a
// non-owning back-reference to its parent. The root's parent is nil.
// Unlike the teacher's Naughty-index arena, nodes here are ordinary
// heap pointers — the arena existed to let several goroutines mutate
// the tree concurrently and to let it survive across moves, neither
// of which this search does (one goroutine per search, tree discarded
// when it returns).
type Node struct {
	move   position.Move
	parent *Node

	children []*Node
	priors   []float32

	visits          int
	score           float32
	terminal        bool
	expansionCursor int
}

// NewRoot creates a parentless root node for a fresh search.
func NewRoot() *Node {
	return &Node{move: position.NullMove}
}

// Move returns the move that led from the parent to this node.
func (n *Node) Move() position.Move { return n.move }

// Parent returns the non-owning back-reference, nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children, empty until expanded.
func (n *Node) Children() []*Node { return n.children }

// Visits returns the node's visit count.
func (n *Node) Visits() int { return n.visits }

// Score returns the accumulated backpropagated score.
func (n *Node) Score() float32 { return n.score }

// Terminal reports whether this node's position has no legal moves or
// was declared terminal by the position library.
func (n *Node) Terminal() bool { return n.terminal }

// ExpansionCursor returns the count of children visited exactly once
// via the first-visit expansion path.
func (n *Node) ExpansionCursor() int { return n.expansionCursor }

// Prior returns the prior probability assigned to the i'th child.
func (n *Node) Prior(i int) float32 { return n.priors[i] }

func (n *Node) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "{move=%s visits=%d score=%.3f terminal=%v cursor=%d/%d}",
		n.move, n.visits, n.score, n.terminal, n.expansionCursor, len(n.children))
}

// Depth returns the number of parent hops to the root.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// priorRaw is the unnormalized MVV-LVA-like prior for the move leading
// into a would-be child, per spec.md §4.3. Piece-type ordinal order is
// position.Pawn=0 .. position.King=5.
func priorRaw(pos *position.Position, m position.Move) float32 {
	if m.IsEnPassant() {
		return float32((int(position.Pawn)+1)*10 - int(position.Pawn))
	}
	if !pos.IsCapture(m) {
		return 0
	}
	victim, ok := pos.PieceOn(m.To())
	if !ok {
		return 0
	}
	aggressor, ok := pos.PieceOn(m.From())
	if !ok {
		return 0
	}
	return float32((int(victim.Type)+1)*10 - int(aggressor.Type))
}

// CreateChildren appends one child per move in moves and computes each
// child's prior. Children are reserved to len(moves) capacity before
// any append, so no outstanding child pointer is ever invalidated by a
// later append within the same call (spec.md §5, §9).
func (n *Node) CreateChildren(pos *position.Position, moves []position.Move) {
	n.children = make([]*Node, 0, len(moves))
	n.priors = make([]float32, len(moves))

	raw := make([]float32, len(moves))
	var sum float32
	for i, m := range moves {
		raw[i] = priorRaw(pos, m)
		sum += raw[i]
	}

	for i, m := range moves {
		n.children = append(n.children, &Node{move: m, parent: n})
		if sum > 0 {
			n.priors[i] = raw[i] / sum
		} else {
			n.priors[i] = 1 / float32(len(moves))
		}
	}
}

// ChildPUCTScore is the selection score for the i'th child: +infinity
// if it has never been visited, otherwise Q + U with
// U = c_puct * prior * sqrt(parent.visits-1) / (child.visits+1).
func (n *Node) ChildPUCTScore(i int, cPuct float32) float32 {
	child := n.children[i]
	if child.visits == 0 {
		return infPUCT
	}
	q := child.score / float32(child.visits)
	parentVisits := n.visits - 1
	if parentVisits < 0 {
		parentVisits = 0
	}
	u := cPuct * n.priors[i] * math32.Sqrt(float32(parentVisits)) / float32(child.visits+1)
	return q + u
}

// BestChildIndex returns the index of the child with the highest
// ChildPUCTScore, ties broken by lowest index.
func (n *Node) BestChildIndex(cPuct float32) int {
	best := 0
	bestScore := n.ChildPUCTScore(0, cPuct)
	for i := 1; i < len(n.children); i++ {
		s := n.ChildPUCTScore(i, cPuct)
		if s > bestScore {
			bestScore = s
			best = i
		}
	}
	return best
}

// MostVisitedChildIndex returns the index of the most-visited child,
// ties broken by lowest index.
func (n *Node) MostVisitedChildIndex() int {
	best := 0
	for i := 1; i < len(n.children); i++ {
		if n.children[i].visits > n.children[best].visits {
			best = i
		}
	}
	return best
}

// FindChild returns the child whose move has the given UCI string, if
// any. Used by the DebugStepper's "child <uci>" command.
func (n *Node) FindChild(uci string) (*Node, bool) {
	for _, c := range n.children {
		if c.move.String() == uci {
			return c, true
		}
	}
	return nil, false
}
