package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpirc/megumax/internal/position"
)

func TestCreateChildrenPriorsNormalize(t *testing.T) {
	pos, err := position.New("")
	require.NoError(t, err)

	root := NewRoot()
	moves := pos.LegalMoves()
	root.CreateChildren(pos, moves)

	require.Len(t, root.children, len(moves))
	require.Len(t, root.priors, len(moves))

	var sum float32
	for _, p := range root.priors {
		assert.GreaterOrEqual(t, p, float32(0))
		assert.LessOrEqual(t, p, float32(1))
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-3)
}

func TestCreateChildrenUniformWhenNoCaptures(t *testing.T) {
	// Startpos has no captures or en-passant moves, so every raw prior
	// is 0 and create_children must fall back to uniform priors.
	pos, err := position.New("")
	require.NoError(t, err)

	root := NewRoot()
	moves := pos.LegalMoves()
	root.CreateChildren(pos, moves)

	want := 1 / float32(len(moves))
	for _, p := range root.priors {
		assert.InDelta(t, want, p, 1e-6)
	}
}

func TestChildPUCTScoreInfiniteForUnvisited(t *testing.T) {
	pos, err := position.New("")
	require.NoError(t, err)

	root := NewRoot()
	root.CreateChildren(pos, pos.LegalMoves())
	root.visits = 1

	assert.Equal(t, float32(infPUCT), root.ChildPUCTScore(0, 4.0))
}

func TestChildPUCTScoreFavorsHigherQ(t *testing.T) {
	root := &Node{}
	root.children = []*Node{
		{visits: 10, score: 9},
		{visits: 10, score: 1},
	}
	root.priors = []float32{0.5, 0.5}
	root.visits = 20

	assert.Greater(t, root.ChildPUCTScore(0, 4.0), root.ChildPUCTScore(1, 4.0))
}

func TestMostVisitedChildIndexTiesToLowest(t *testing.T) {
	root := &Node{children: []*Node{
		{visits: 3},
		{visits: 5},
		{visits: 5},
	}}
	assert.Equal(t, 1, root.MostVisitedChildIndex())
}

func TestDepth(t *testing.T) {
	root := NewRoot()
	child := &Node{parent: root}
	grandchild := &Node{parent: child}

	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, 1, child.Depth())
	assert.Equal(t, 2, grandchild.Depth())
}
