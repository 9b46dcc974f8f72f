package engine

import (
	"golang.org/x/exp/constraints"

	"bitboard-engine/board"
)

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts x to the inclusive range [low, high].
func clamp[T constraints.Signed](x, low, high T) T {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}

// hasNonPawnMaterial reports whether side owns a knight, bishop, rook or queen.
func hasNonPawnMaterial(pos *board.Position, side board.Side) bool {
	return pos.Pieces(board.MakePiece(board.Knight, side))|
		pos.Pieces(board.MakePiece(board.Bishop, side))|
		pos.Pieces(board.MakePiece(board.Rook, side))|
		pos.Pieces(board.MakePiece(board.Queen, side)) != 0
}
