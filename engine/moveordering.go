package engine

import (
	"cmp"

	"golang.org/x/exp/slices"

	"bitboard-engine/board"
)

type scoredMove struct {
	move  board.Move
	score int
}

// Window widening for the quiescence probe used to rank moves at higher depths.
const orderingMargin = 50

func byScoreDesc(a, b scoredMove) int { return cmp.Compare(b.score, a.score) }

// orderMoves sorts moves in place, most promising first.
//
// With deep set, the stored best move of this node goes first and every other
// move is ranked by a quiescence search (or the table score of the child, if
// present). Otherwise each move is ranked by the static evaluation after it,
// less the mover's value when it lands on a square the opponent attacks.
func (sc *SearchContext) orderMoves(moves []board.Move, alpha, beta int, deep bool) {
	if len(moves) < 2 {
		return
	}
	pos := sc.pos
	buf := sc.orderBuf(sc.ply)

	var ttMove board.Move
	var defended uint64
	var phase int
	if deep {
		if entry := sc.tt.Lookup(pos.Hash()); entry.Hash == pos.Hash() {
			ttMove = entry.Move
		}
	} else {
		defended = pos.AttackedSquares(pos.Turn().Other())
		phase = gamePhase(pos)
	}

	for _, m := range moves {
		var score int
		switch {
		case deep && m == ttMove:
			score = Infinity
		case deep:
			score = sc.probeImportance(m, alpha, beta)
		default:
			score = sc.staticImportance(m, defended, phase)
		}
		buf = append(buf, scoredMove{m, score})
	}

	slices.SortStableFunc(buf, byScoreDesc)
	for i := range buf {
		moves[i] = buf[i].move
	}
	sc.orderBufs[sc.ply] = buf
}

func (sc *SearchContext) staticImportance(m board.Move, defended uint64, phase int) int {
	pos := sc.pos
	mover := pos.PieceAt(m.From()).Type()
	pos.PlayMove(m)
	score := -sc.eval.Evaluate(pos)
	pos.UndoMove()
	if defended&board.Bit(m.To()) != 0 {
		score -= pieceValue(mover, phase)
	}
	return score
}

func (sc *SearchContext) probeImportance(m board.Move, alpha, beta int) int {
	sc.play(m)
	defer sc.undo()
	hash := sc.pos.Hash()
	if entry := sc.tt.Lookup(hash); entry.Hash == hash {
		return -scoreFromTT(int(entry.Score), sc.ply)
	}
	return -sc.quiescence(-beta-orderingMargin, -alpha+orderingMargin)
}

func (sc *SearchContext) orderBuf(ply int) []scoredMove {
	if sc.orderBufs[ply] == nil {
		sc.orderBufs[ply] = make([]scoredMove, 0, board.MaxMoves)
	}
	return sc.orderBufs[ply][:0]
}
