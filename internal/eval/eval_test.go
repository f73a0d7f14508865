package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpirc/megumax/internal/position"
)

func TestPhaseBoundaries(t *testing.T) {
	startpos, err := position.New("")
	require.NoError(t, err)
	assert.Equal(t, 0, Phase(startpos))

	endgame, err := position.New("8/8/8/4k3/4K3/8/8/8 w - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, 256, Phase(endgame))
}

func TestPassedPawnBonus(t *testing.T) {
	pos, err := position.New("8/8/8/8/8/4P3/8/8 w - - 0 1")
	require.NoError(t, err)

	mg, eg := passedPawns(pos, position.White)
	assert.Equal(t, 10, mg)
	assert.Equal(t, 20, eg)
}

func TestEvaluatorColorSymmetry(t *testing.T) {
	white, err := position.New("r3k2r/ppp2ppp/2n2n2/3pp3/3PP3/2N2N2/PPP2PPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	black, err := position.New("r3k2r/ppp2ppp/2n2n2/3pp3/3PP3/2N2N2/PPP2PPP/R3K2R b KQkq - 0 1")
	require.NoError(t, err)

	sum := Evaluate(white) + Evaluate(black)
	assert.LessOrEqual(t, abs(sum), 1)
}

func TestMaterialOnlyOnStartpos(t *testing.T) {
	pos, err := position.New("")
	require.NoError(t, err)
	// Material is symmetric at startpos; only PST/tempo differences
	// (there are none here, side to move is White) can move the score
	// away from zero, and both sides hold identical PST totals too.
	assert.Zero(t, Evaluate(pos))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
