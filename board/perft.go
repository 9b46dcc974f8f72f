package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	pc := perftCtx{bufs: make([][]Move, depth+1)}
	return pc.perft(p, depth)
}

// perftCtx keeps one move buffer per depth so the walk does not allocate.
type perftCtx struct {
	bufs [][]Move
}

func (pc *perftCtx) bufFor(depth int) []Move {
	if pc.bufs[depth] == nil {
		pc.bufs[depth] = make([]Move, 0, MaxMoves)
	}
	return pc.bufs[depth][:0]
}

func (pc *perftCtx) perft(p *Position, depth int) uint64 {
	moves := p.GenerateLegalMovesInto(pc.bufFor(depth))
	pc.bufs[depth] = moves
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		p.PlayMove(m)
		nodes += pc.perft(p, depth-1)
		p.UndoMove()
	}
	return nodes
}

// PerftDivide returns the perft count below each root move.
func PerftDivide(p *Position, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range p.GenerateLegalMoves() {
		p.PlayMove(m)
		result[m] = Perft(p, depth-1)
		p.UndoMove()
	}
	return result
}
