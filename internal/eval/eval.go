package eval

import "github.com/cpirc/megumax/internal/position"

// Evaluate returns a centipawn score from the perspective of the side
// to move: positive favors the mover. It accumulates, per spec.md
// §4.1, material and tapered piece-square values for every (type,
// color) pair with a negate-between-colors convention, then layers in
// the passed-pawn bonus the same way, blends mg/eg by Phase, and
// finally negates for Black to move.
func Evaluate(pos *position.Position) int {
	mg, eg := 0, 0

	for pt := position.Pawn; pt <= position.King; pt++ {
		mg += materialAndPST(pos, pt, position.White, &mgPST)
		mg -= materialAndPST(pos, pt, position.Black, &mgPST)
		eg += materialAndPST(pos, pt, position.White, &egPST)
		eg -= materialAndPST(pos, pt, position.Black, &egPST)
	}

	pmg, peg := passedPawns(pos, position.White)
	mg += pmg
	eg += peg
	pmg, peg = passedPawns(pos, position.Black)
	mg -= pmg
	eg -= peg

	phase := Phase(pos)
	score := (mg*(256-phase) + eg*phase) / 256

	if pos.SideToMove() == position.Black {
		score = -score
	}
	return score
}

func materialAndPST(pos *position.Position, pt position.PieceType, c position.Color, table *[6][64]int) int {
	bb := pos.PieceTypeBB(pt, c)
	total := 0
	for sq := 0; sq < 64; sq++ {
		s := position.Square(sq)
		if !bb.HasSquare(s) {
			continue
		}
		total += PieceValues[pt] + pstValue(table, pt, s, c)
	}
	return total
}

func passedPawns(pos *position.Position, c position.Color) (mg, eg int) {
	bb := pos.PieceTypeBB(position.Pawn, c)
	for sq := 0; sq < 64; sq++ {
		s := position.Square(sq)
		if !bb.HasSquare(s) {
			continue
		}
		if !isPassedPawn(pos, s, c) {
			continue
		}
		m, e := passedPawnBonus(s, c)
		mg += m
		eg += e
	}
	return mg, eg
}
