package mcts

import (
	"github.com/cpirc/megumax/internal/eval"
	"github.com/cpirc/megumax/internal/position"
)

// Select descends from n, making moves on pos along the way, until it
// reaches a node whose children are empty or not yet fully
// first-visited. Grounded on the teacher's Node.Select (node.go),
// generalized from its single sqrt(parentVisits)/QSA+PUCT shape to
// spec.md §4.4's exact traversal rule.
func Select(pos *position.Position, n *Node, cPuct float32) *Node {
	for len(n.children) > 0 && n.expansionCursor >= len(n.children) {
		idx := n.BestChildIndex(cPuct)
		child := n.children[idx]
		if err := pos.MakeMove(child.move); err != nil {
			panic(err)
		}
		n = child
	}
	return n
}

// Expand advances the node Select returned: either it creates children
// for a never-expanded node, or it walks one step further via the
// expansion cursor. The returned node is where Rollout evaluates.
func Expand(pos *position.Position, n *Node) *Node {
	if len(n.children) == 0 {
		if n.terminal {
			return n
		}
		moves := pos.LegalMoves()
		if len(moves) == 0 {
			n.terminal = true
			return n
		}
		n.CreateChildren(pos, moves)
		return n
	}

	child := n.children[n.expansionCursor]
	n.expansionCursor++
	if err := pos.MakeMove(child.move); err != nil {
		panic(err)
	}
	return child
}

// Rollout computes a leaf score in [0,1] at the position Expand left
// pos in, then rewinds pos back to the root position by n.Depth()
// unmakes and returns the value from the parent's perspective
// (1 - score), per spec.md §4.6.
func Rollout(pos *position.Position, n *Node) float32 {
	var score float32
	switch pos.GameState() {
	case position.ThreefoldRepetition, position.FiftyMoves, position.Stalemate:
		score = 0.5
	case position.Checkmate:
		score = 0.0
	default:
		score = eval.Rollout1Ply(pos)
	}

	for i := 0; i < n.Depth(); i++ {
		pos.UnmakeMove()
	}
	return 1 - score
}

// Backprop propagates score upward from n through every ancestor,
// flipping perspective at each step, per spec.md §4.7.
func Backprop(n *Node, score float32) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.visits++
		cur.score += score
		score = 1 - score
	}
}

// PrincipalVariation walks the most-visited-child chain from root up
// to maxLen moves, stopping early when a node has no children.
func PrincipalVariation(root *Node, maxLen int) []position.Move {
	pv := make([]position.Move, 0, maxLen)
	n := root
	for i := 0; i < maxLen && len(n.children) > 0; i++ {
		n = n.children[n.MostVisitedChildIndex()]
		pv = append(pv, n.move)
	}
	return pv
}
