package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartpos(t *testing.T) {
	pos, err := New("")
	require.NoError(t, err)
	assert.Equal(t, White, pos.SideToMove())
	assert.Len(t, pos.LegalMoves(), 20)
}

func TestMakeUnmakeHashRoundtrip(t *testing.T) {
	pos, err := New("")
	require.NoError(t, err)

	before := pos.Hash()
	moves := pos.LegalMoves()
	require.NotEmpty(t, moves)

	require.NoError(t, pos.MakeMove(moves[0]))
	assert.NotEqual(t, before, pos.Hash())

	pos.UnmakeMove()
	assert.Equal(t, before, pos.Hash())
}

func TestUnmakeWithoutMakePanics(t *testing.T) {
	pos, err := New("")
	require.NoError(t, err)
	assert.Panics(t, func() { pos.UnmakeMove() })
}

func TestIsCapture(t *testing.T) {
	pos, err := New("rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	require.NoError(t, err)

	var foundCapture bool
	for _, m := range pos.LegalMoves() {
		if pos.IsCapture(m) {
			foundCapture = true
			break
		}
	}
	assert.True(t, foundCapture, "expected a capture to be available")
}

func TestGameStateCheckmate(t *testing.T) {
	pos, err := New("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	var mate Move
	for _, m := range pos.LegalMoves() {
		if m.String() == "a1a8" {
			mate = m
			break
		}
	}
	require.NotEqual(t, Move{}, mate)
	require.NoError(t, pos.MakeMove(mate))
	assert.Equal(t, Checkmate, pos.GameState())
}

func TestFlipVertical(t *testing.T) {
	// a1 (0) mirrors to a8 (56); e4 (28) mirrors to e5 (36).
	assert.Equal(t, Square(56), Square(0).FlipVertical())
	assert.Equal(t, Square(36), Square(28).FlipVertical())
}

func TestBitboardPopcount(t *testing.T) {
	pos, err := New("")
	require.NoError(t, err)
	assert.Equal(t, 8, pos.PieceTypeBB(Pawn, White).Popcount())
	assert.Equal(t, 1, pos.PieceTypeBB(King, Black).Popcount())
}
