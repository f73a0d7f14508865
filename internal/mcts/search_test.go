package mcts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpirc/megumax/internal/position"
)

func TestSearchFindsMateInOne(t *testing.T) {
	pos, err := position.New("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	g := NewGlobals()
	g.Reset(position.White, GoParams{MoveTime: intp(200)})
	sc := NewSearchController(DefaultConfig(), g, nil, nil)

	move, ok := sc.Search(pos)
	require.True(t, ok)
	assert.Equal(t, "a1a8", move.String())
}

func TestSearchStopsWhenAlreadyStopped(t *testing.T) {
	pos, err := position.New("")
	require.NoError(t, err)

	g := NewGlobals()
	g.Reset(position.White, GoParams{Infinite: true})
	g.SetStop()
	sc := NewSearchController(DefaultConfig(), g, nil, nil)

	move, ok := sc.Search(pos)
	assert.False(t, ok)
	assert.Equal(t, position.NullMove, move)
}

func TestSearchReturnsNoMoveOnStalemateRoot(t *testing.T) {
	pos, err := position.New("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)

	g := NewGlobals()
	g.Reset(position.Black, GoParams{MoveTime: intp(20)})
	sc := NewSearchController(DefaultConfig(), g, nil, nil)

	move, ok := sc.Search(pos)
	assert.False(t, ok)
	assert.Equal(t, position.NullMove, move)
}

type recordingSink struct {
	calls int
}

func (r *recordingSink) Info(nodes int32, elapsed time.Duration, pv []position.Move) {
	r.calls++
}

func TestSearchEmitsInfoPeriodically(t *testing.T) {
	pos, err := position.New("")
	require.NoError(t, err)

	g := NewGlobals()
	g.Reset(position.White, GoParams{MoveTime: intp(50)})
	cfg := DefaultConfig()
	cfg.InfoIntervalNodes = 1
	cfg.InfoIntervalMillis = 0
	sink := &recordingSink{}
	sc := NewSearchController(cfg, g, nil, sink)

	_, _ = sc.Search(pos)
	assert.Greater(t, sink.calls, 0)
}
