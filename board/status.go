package board

// IsCheckmate reports whether side is to move, in check, and without a legal move.
func (p *Position) IsCheckmate(side Side) bool {
	return side == p.turn && p.IsInCheck(side) && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no legal move and is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDrawByInsufficientMaterial uses a fixed table rather than proving that no
// mate exists: lone minors and same-coloured bishop sets are draws, while any
// bishop+knight mix, three or more knights, or bishops on both colours for one
// side are treated as enough to play on.
func (p *Position) IsDrawByInsufficientMaterial() bool {
	kings := p.pieces[WhiteKing] | p.pieces[BlackKing]
	if p.all&^kings == 0 {
		return true
	}
	heavy := p.pieces[WhitePawn] | p.pieces[BlackPawn] |
		p.pieces[WhiteRook] | p.pieces[BlackRook] |
		p.pieces[WhiteQueen] | p.pieces[BlackQueen]
	if heavy != 0 {
		return false
	}
	for _, side := range [2]Side{White, Black} {
		knights := p.pieces[MakePiece(Knight, side)]
		bishops := p.pieces[MakePiece(Bishop, side)]
		if knights != 0 && bishops != 0 {
			return false
		}
		if Count(knights) >= 3 {
			return false
		}
		if bishops&LightSquares != 0 && bishops&^LightSquares != 0 {
			return false
		}
	}
	return true
}

// IsDrawByRepetition reports whether the current position already occurred.
// The scan walks back from the latest move and gives up at the first pawn
// move, capture or castling-rights change, since nothing before such a move
// can repeat.
func (p *Position) IsDrawByRepetition() bool {
	for i := len(p.history) - 1; i >= 0; i-- {
		rec := &p.history[i]
		if rec.Hash == p.hash {
			return true
		}
		if rec.Moved.Type() == Pawn || rec.Captured != NoPiece ||
			rec.WhiteCastling != p.castling[White] || rec.BlackCastling != p.castling[Black] {
			return false
		}
	}
	return false
}
