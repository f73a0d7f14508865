package eval

import "github.com/cpirc/megumax/internal/position"

// passedPawnMasks[c][sq] is the set of squares that must be empty of
// opposing pawns for a pawn of color c on sq to be passed: the union of
// the northward (White) files at sq-1, sq, sq+1, clipped at the board
// edges so the A-file excludes the west neighbor and the H-file
// excludes the east neighbor. Black's table is White's vertical mirror.
var passedPawnMasks [2][64]position.Bitboard

func init() {
	for sq := 0; sq < 64; sq++ {
		passedPawnMasks[position.White][sq] = buildPassedMask(position.Square(sq))
	}
	for sq := 0; sq < 64; sq++ {
		passedPawnMasks[position.Black][sq] = mirror(passedPawnMasks[position.White][position.Square(sq).FlipVertical()])
	}
}

func buildPassedMask(sq position.Square) position.Bitboard {
	file := sq.File()
	rank := sq.Rank()
	var mask position.Bitboard
	for _, f := range []int{file - 1, file, file + 1} {
		if f < 0 || f > 7 {
			continue
		}
		for r := rank + 1; r <= 7; r++ {
			mask |= squareBit(f, r)
		}
	}
	return mask
}

func squareBit(file, rank int) position.Bitboard {
	return position.Bitboard(1) << uint(rank*8+file)
}

func mirror(bb position.Bitboard) position.Bitboard {
	var out position.Bitboard
	for sq := 0; sq < 64; sq++ {
		if bb.HasSquare(position.Square(sq)) {
			out |= position.Bitboard(1) << uint(position.Square(sq).FlipVertical())
		}
	}
	return out
}

// isPassedPawn reports whether the pawn of color c on sq has no
// opposing pawn in its passed-pawn mask.
func isPassedPawn(pos *position.Position, sq position.Square, c position.Color) bool {
	mask := passedPawnMasks[c][sq]
	opp := pos.PieceTypeBB(position.Pawn, c.Opponent())
	return mask&opp == 0
}

// passedPawnMG and passedPawnEG are the mid-game and end-game bonus
// tables. Black's lookup reverses the rank mapping (rank 7-from-White
// becomes rank 0-from-Black) so both colors share one pair of tables.
//
// The end-game table is consulted one rank further advanced than the
// mid-game table: a pawn's passed-pawn value in the endgame tracks how
// close it is to queening more steeply than in the midgame, so the two
// tables are deliberately offset by one step rather than sharing a
// single index.
var passedPawnMG = [7]int{0, 5, 10, 20, 30, 50, 100}
var passedPawnEG = [7]int{0, 5, 10, 20, 40, 70, 120}

func passedPawnRankIndex(sq position.Square, c position.Color) int {
	r := sq.Rank()
	if c == position.Black {
		r = 7 - r
	}
	if r > 6 {
		r = 6
	}
	return r
}

func passedPawnBonus(sq position.Square, c position.Color) (mg, eg int) {
	idx := passedPawnRankIndex(sq, c)
	egIdx := idx + 1
	if egIdx > 6 {
		egIdx = 6
	}
	return passedPawnMG[idx], passedPawnEG[egIdx]
}
