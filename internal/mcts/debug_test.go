package mcts

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpirc/megumax/internal/position"
)

// waitUntil polls cond every few milliseconds until it's true or the
// deadline passes, returning whether cond became true in time.
func waitUntil(deadline time.Duration, cond func() bool) bool {
	start := time.Now()
	for time.Since(start) < deadline {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func TestDebugStepperStepsThenExits(t *testing.T) {
	pos, err := position.New("")
	require.NoError(t, err)

	g := NewGlobals()
	g.Reset(position.White, GoParams{Infinite: true})

	var out bytes.Buffer
	debug := NewDebugStepper(&out)
	debug.SetOnExit(g.SetStop)
	debug.Enable()

	sc := NewSearchController(DefaultConfig(), g, debug, nil)

	done := make(chan struct{})
	var move position.Move
	var ok bool
	go func() {
		defer close(done)
		move, ok = sc.Search(pos)
	}()

	require.True(t, waitUntil(time.Second, func() bool { return debug.IsSearching() }))

	debug.Feed("step")
	require.True(t, waitUntil(time.Second, func() bool {
		return debug.root != nil && debug.root.Visits() > 0
	}))

	debug.Feed("children")
	require.True(t, waitUntil(time.Second, func() bool {
		return bytes.Contains(out.Bytes(), []byte("visits="))
	}))

	debug.Feed("ndebug")
	require.True(t, waitUntil(time.Second, func() bool { return g.Stop() }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("search did not stop after ndebug")
	}

	assert.False(t, debug.IsActive())
	if ok {
		assert.NotEqual(t, position.NullMove, move)
	}
}

func TestDebugStepperDescendAndAscend(t *testing.T) {
	pos, err := position.New("")
	require.NoError(t, err)

	root := NewRoot()
	root.CreateChildren(pos, pos.LegalMoves())

	var out bytes.Buffer
	debug := NewDebugStepper(&out)
	debug.SetRoot(root)

	first := root.children[0]
	debug.descend(first.move.String())
	assert.Same(t, first, debug.cursor)

	debug.ascend()
	assert.Same(t, root, debug.cursor)
}
