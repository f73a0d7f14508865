package eval

import (
	"github.com/chewxy/math32"
	"github.com/cpirc/megumax/internal/position"
)

// MATE is the magnitude returned for a checkmated side to move.
const MATE = 9_999_999

const inf = 1 << 30

// AlphaBeta is a 1-ply negamax with alpha-beta pruning over the legal
// moves at pos, used as the rollout's leaf value function. depth==0
// returns the static evaluation; a position with no legal moves
// returns -MATE if the side to move is in check, else 0 (stalemate).
func AlphaBeta(pos *position.Position, alpha, beta, depth int) int {
	if depth == 0 {
		return Evaluate(pos)
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			return -MATE
		}
		return 0
	}

	for _, m := range moves {
		if err := pos.MakeMove(m); err != nil {
			continue
		}
		score := -AlphaBeta(pos, -beta, -alpha, depth-1)
		pos.UnmakeMove()

		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}
	return alpha
}

// Rollout1Ply evaluates pos via a 1-ply alpha-beta search and squashes
// the result through the rollout logistic σ(x) = 1/(1+10^(-1.13x/400)),
// matching the value-network training target shape the legacy engine
// used for its heuristic rollout.
func Rollout1Ply(pos *position.Position) float32 {
	score := AlphaBeta(pos, -inf, inf, 1)
	return Sigmoid(0.1 * float32(score))
}

// Sigmoid computes σ(x) = 1 / (1 + 10^(-1.13*x/400)).
func Sigmoid(x float32) float32 {
	exponent := -1.13 * x / 400
	return 1 / (1 + math32.Pow(10, exponent))
}
