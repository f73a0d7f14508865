package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpirc/megumax/internal/position"
)

func TestAlphaBetaDepthOneScoresMaterialNotMate(t *testing.T) {
	// At depth 1 the recursive leaf (depth 0) is a bare static
	// evaluation, not a terminal check, so AlphaBeta never sees the
	// mate itself here — only the static score after each move, where
	// White is a rook up.
	pos, err := position.New("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	score := AlphaBeta(pos, -inf, inf, 1)
	assert.Greater(t, score, 0)
	assert.Less(t, score, MATE)
}

func TestAlphaBetaStalemateIsZero(t *testing.T) {
	pos, err := position.New("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, 0, AlphaBeta(pos, -inf, inf, 1))
}

func TestSigmoidIsBoundedAndMonotonic(t *testing.T) {
	low := Sigmoid(-1000)
	mid := Sigmoid(0)
	high := Sigmoid(1000)

	assert.InDelta(t, 0.5, float64(mid), 1e-6)
	assert.Less(t, low, mid)
	assert.Less(t, mid, high)
	assert.Greater(t, low, float32(0))
	assert.Less(t, high, float32(1))
}
