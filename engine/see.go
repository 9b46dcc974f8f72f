package engine

import "bitboard-engine/board"

var SeePieceValue = [7]int{
	board.Pawn:   100,
	board.Knight: 300,
	board.Bishop: 300,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   5000,
}

// SEE returns the material balance of the capture sequence on the
// destination square of m, with both sides always recapturing with their
// least valuable attacker and free to stop when behind. Sliders behind a
// capturer join in as it leaves.
func SEE(pos *board.Position, m board.Move) int {
	from, to := m.From(), m.To()
	side := pos.Turn()
	occ := pos.Occupied()
	attacker := pos.PieceAt(from).Type()

	var gain [32]int
	switch target := pos.PieceAt(to); {
	case target != board.NoPiece:
		gain[0] = SeePieceValue[target.Type()]
	case attacker == board.Pawn && to == pos.EnPassant():
		gain[0] = SeePieceValue[board.Pawn]
		occ &^= board.Bit(to - side.Forward())
	}
	if m.IsPromotion() {
		attacker = m.PromotionType()
		gain[0] += SeePieceValue[attacker] - SeePieceValue[board.Pawn]
	}

	depth := 0
	fromBB := board.Bit(from)
	for fromBB != 0 && depth < len(gain)-1 {
		depth++
		gain[depth] = SeePieceValue[attacker] - gain[depth-1]
		if max(-gain[depth-1], gain[depth]) < 0 {
			break
		}
		occ &^= fromBB
		side = side.Other()
		fromBB, attacker = leastValuableAttacker(pos, to, side, occ)
	}

	for depth--; depth > 0; depth-- {
		gain[depth-1] = -max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

// leastValuableAttacker finds the cheapest piece of side attacking sq through
// the occupancy occ. Pieces already traded off are absent from occ.
func leastValuableAttacker(pos *board.Position, sq board.Square, side board.Side, occ uint64) (uint64, board.PieceType) {
	for pt := board.Pawn; pt <= board.King; pt++ {
		var attacks uint64
		switch pt {
		case board.Pawn:
			attacks = board.PawnAttacks(side.Other(), sq)
		case board.Knight:
			attacks = board.KnightAttacks(sq)
		case board.Bishop:
			attacks = board.BishopAttacks(sq, occ)
		case board.Rook:
			attacks = board.RookAttacks(sq, occ)
		case board.Queen:
			attacks = board.QueenAttacks(sq, occ)
		case board.King:
			attacks = board.KingAttacks(sq)
		}
		if set := attacks & occ & pos.Pieces(board.MakePiece(pt, side)); set != 0 {
			return board.Bit(board.LSB(set)), pt
		}
	}
	return 0, board.NoPieceType
}
