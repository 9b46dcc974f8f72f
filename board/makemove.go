package board

// PlayMove applies a legal move and pushes an UndoRecord. The hash is updated
// incrementally; UndoMove restores it from the record.
func (p *Position) PlayMove(m Move) {
	us := p.turn
	from, to := m.From(), m.To()
	moved := p.squares[from]
	captured := p.squares[to]
	pawnMove := moved.Type() == Pawn
	enPassant := pawnMove && p.ep != NoSquare && to == p.ep

	rec := UndoRecord{
		Move:          m,
		WhiteCastling: p.castling[White],
		BlackCastling: p.castling[Black],
		EnPassant:     p.ep,
		Moved:         moved,
		Captured:      captured,
		Hash:          p.hash,
		Halfmove:      p.halfmove,
	}
	if enPassant {
		rec.Captured = undoEnPassant
	}
	p.history = append(p.history, rec)

	placed := moved
	if m.IsPromotion() {
		placed = MakePiece(m.PromotionType(), us)
	}
	p.ReplacePiece(to, placed)
	if captured != NoPiece {
		p.hash ^= zobristPiece[to][captured]
	}
	p.hash ^= zobristPiece[to][placed]
	p.RemovePiece(from)
	p.hash ^= zobristPiece[from][moved]

	if enPassant {
		capSq := to - us.Forward()
		p.RemovePiece(capSq)
		p.hash ^= zobristPiece[capSq][moved.Flip()]
	}

	if p.ep != NoSquare {
		p.hash ^= zobristEnPassant[p.ep.File()]
		p.ep = NoSquare
	}
	if pawnMove && to-from == 2*us.Forward() {
		target := from + us.Forward()
		if p.enPassantCapturable(target, us.Other()) {
			p.ep = target
			p.hash ^= zobristEnPassant[target.File()]
		}
	}

	switch m.Flag() {
	case FlagCastleKingside:
		rook := MakePiece(Rook, us)
		p.RemovePiece(to + 1)
		p.SetPiece(to-1, rook)
		p.hash ^= zobristPiece[to+1][rook] ^ zobristPiece[to-1][rook]
	case FlagCastleQueenside:
		rook := MakePiece(Rook, us)
		p.RemovePiece(to - 2)
		p.SetPiece(to+1, rook)
		p.hash ^= zobristPiece[to-2][rook] ^ zobristPiece[to+1][rook]
	}

	before := p.castling
	p.castling[White] &^= rookSquareRights(from, A1, H1) | rookSquareRights(to, A1, H1)
	p.castling[Black] &^= rookSquareRights(from, A8, H8) | rookSquareRights(to, A8, H8)
	if moved.Type() == King {
		p.castling[us] = 0
	}
	p.hash ^= zobristWhiteCastle[before[White]^p.castling[White]]
	p.hash ^= zobristBlackCastle[before[Black]^p.castling[Black]]

	if pawnMove || captured != NoPiece {
		p.halfmove = 0
	} else {
		p.halfmove++
	}
	if us == Black {
		p.fullmove++
	}
	p.turn = us.Other()
	p.hash ^= zobristSide
}

// rookSquareRights returns the rights lost when sq, a move endpoint, is one of the rook homes.
func rookSquareRights(sq, queenRook, kingRook Square) uint8 {
	switch sq {
	case queenRook:
		return CastleQueenside
	case kingRook:
		return CastleKingside
	}
	return 0
}

// UndoMove reverses the last PlayMove. With no history it does nothing.
func (p *Position) UndoMove() {
	n := len(p.history)
	if n == 0 {
		return
	}
	rec := p.history[n-1]
	p.history = p.history[:n-1]

	us := rec.Moved.Side()
	from, to := rec.Move.From(), rec.Move.To()
	p.turn = us

	if rec.Captured == undoEnPassant {
		p.RemovePiece(to)
		p.SetPiece(to-us.Forward(), MakePiece(Pawn, us.Other()))
	} else {
		p.ReplacePiece(to, rec.Captured)
	}
	p.SetPiece(from, rec.Moved)

	switch rec.Move.Flag() {
	case FlagCastleKingside:
		p.RemovePiece(to - 1)
		p.SetPiece(to+1, MakePiece(Rook, us))
	case FlagCastleQueenside:
		p.RemovePiece(to + 1)
		p.SetPiece(to-2, MakePiece(Rook, us))
	}

	p.ep = rec.EnPassant
	p.castling[White] = rec.WhiteCastling
	p.castling[Black] = rec.BlackCastling
	p.halfmove = rec.Halfmove
	if us == Black {
		p.fullmove--
	}
	p.hash = rec.Hash
}

// PlayNull passes the turn and clears en passant. The returned square must be
// handed back to UndoNull.
func (p *Position) PlayNull() Square {
	saved := p.ep
	if saved != NoSquare {
		p.hash ^= zobristEnPassant[saved.File()]
	}
	p.ep = NoSquare
	p.turn = p.turn.Other()
	p.hash ^= zobristSide
	return saved
}

func (p *Position) UndoNull(ep Square) {
	p.turn = p.turn.Other()
	p.hash ^= zobristSide
	p.ep = ep
	if ep != NoSquare {
		p.hash ^= zobristEnPassant[ep.File()]
	}
}

// enPassantCapturable reports whether a pawn of capturer could take on target
// without the capture being pinned off along the rank. Squares that fail this
// are never recorded, so they cannot change the hash.
func (p *Position) enPassantCapturable(target Square, capturer Side) bool {
	pawns := pawnAttacks[capturer.Other()][target] & p.pieces[MakePiece(Pawn, capturer)]
	if pawns == 0 {
		return false
	}
	pushed := target + capturer.Other().Forward()
	king := p.pieces[MakePiece(King, capturer)]
	rank := Rank1 << uint(8*pushed.Rank())
	if king&rank == 0 {
		return true
	}
	kingSq := LSB(king)
	sliders := (p.pieces[MakePiece(Rook, capturer.Other())] | p.pieces[MakePiece(Queen, capturer.Other())]) & rank
	for set := pawns; set != 0; {
		from := PopLSB(&set)
		occ := p.all&^Bit(from)&^Bit(pushed) | Bit(target)
		if RookAttacks(kingSq, occ)&sliders == 0 {
			return true
		}
	}
	return false
}
