package board

// MaxMoves is the capacity every move buffer is allocated with.
const MaxMoves = 216

// attackersTo returns the pieces of side by that attack sq, given occupancy occ.
func (p *Position) attackersTo(sq Square, by Side, occ uint64) uint64 {
	diag := p.pieces[MakePiece(Bishop, by)] | p.pieces[MakePiece(Queen, by)]
	orth := p.pieces[MakePiece(Rook, by)] | p.pieces[MakePiece(Queen, by)]
	return pawnAttacks[by.Other()][sq]&p.pieces[MakePiece(Pawn, by)] |
		knightAttacks[sq]&p.pieces[MakePiece(Knight, by)] |
		kingAttacks[sq]&p.pieces[MakePiece(King, by)] |
		BishopAttacks(sq, occ)&diag |
		RookAttacks(sq, occ)&orth
}

// IsInCheck reports whether side's king is attacked.
func (p *Position) IsInCheck(side Side) bool {
	return p.attackersTo(p.KingSquare(side), side.Other(), p.all) != 0
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.IsInCheck(p.turn) }

// IsSquareAttacked reports whether any piece of by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Side) bool {
	return p.attackersTo(sq, by, p.all) != 0
}

// AttackedSquares returns every square attacked by side by, computed as if
// the other king were absent so sliders see through it.
func (p *Position) AttackedSquares(by Side) uint64 {
	occ := p.all &^ p.pieces[MakePiece(King, by.Other())]
	attacked := PawnAttacksSet(by, p.pieces[MakePiece(Pawn, by)])
	for set := p.pieces[MakePiece(Knight, by)]; set != 0; {
		attacked |= knightAttacks[PopLSB(&set)]
	}
	for set := p.pieces[MakePiece(Bishop, by)] | p.pieces[MakePiece(Queen, by)]; set != 0; {
		attacked |= BishopAttacks(PopLSB(&set), occ)
	}
	for set := p.pieces[MakePiece(Rook, by)] | p.pieces[MakePiece(Queen, by)]; set != 0; {
		attacked |= RookAttacks(PopLSB(&set), occ)
	}
	return attacked | kingAttacks[p.KingSquare(by)]
}

// pinnedPieces returns side's pieces that sit alone between their king and an enemy slider.
func (p *Position) pinnedPieces(side Side, kingSq Square) uint64 {
	them := side.Other()
	candidates := (RookAttacks(kingSq, p.all) | BishopAttacks(kingSq, p.all)) & p.colours[side]
	occ := p.all ^ candidates
	pinners := RookAttacks(kingSq, occ)&(p.pieces[MakePiece(Rook, them)]|p.pieces[MakePiece(Queen, them)]) |
		BishopAttacks(kingSq, occ)&(p.pieces[MakePiece(Bishop, them)]|p.pieces[MakePiece(Queen, them)])
	var pinned uint64
	for pinners != 0 {
		pinned |= between[kingSq][PopLSB(&pinners)]
	}
	return pinned & candidates
}

// GenerateLegalMoves returns every legal move for the side to move.
func (p *Position) GenerateLegalMoves() []Move {
	return p.GenerateLegalMovesInto(make([]Move, 0, MaxMoves))
}

// GenerateLegalMovesInto appends the legal moves to dst[:0].
func (p *Position) GenerateLegalMovesInto(dst []Move) []Move {
	return p.generate(dst[:0], false)
}

// GenerateTacticalMoves returns captures and promotions, or every evasion when in check.
func (p *Position) GenerateTacticalMoves() []Move {
	return p.GenerateTacticalMovesInto(make([]Move, 0, MaxMoves))
}

func (p *Position) GenerateTacticalMovesInto(dst []Move) []Move {
	return p.generate(dst[:0], true)
}

// IsLegalMove regenerates the legal set and checks membership.
func (p *Position) IsLegalMove(m Move) bool {
	if m == NullMove {
		return false
	}
	var buf [MaxMoves]Move
	for _, lm := range p.GenerateLegalMovesInto(buf[:0]) {
		if lm == m {
			return true
		}
	}
	return false
}

func (p *Position) HasLegalMoves() bool {
	var buf [MaxMoves]Move
	return len(p.GenerateLegalMovesInto(buf[:0])) > 0
}

func appendTargets(dst []Move, from Square, targets uint64) []Move {
	for targets != 0 {
		dst = append(dst, NewMove(from, PopLSB(&targets)))
	}
	return dst
}

func appendPromotions(dst []Move, from, to Square) []Move {
	return append(dst,
		NewPromotion(from, to, Queen),
		NewPromotion(from, to, Rook),
		NewPromotion(from, to, Knight),
		NewPromotion(from, to, Bishop))
}

func (p *Position) generate(dst []Move, tactical bool) []Move {
	us, them := p.turn, p.turn.Other()
	own, enemy := p.colours[us], p.colours[them]
	kingSq := p.KingSquare(us)
	attacked := p.AttackedSquares(them)
	checkers := p.attackersTo(kingSq, them, p.all)

	// Out of check, tactical generation keeps only captures and promotions.
	quiets := !tactical || checkers != 0

	kingTargets := kingAttacks[kingSq] &^ own &^ attacked
	if !quiets {
		kingTargets &= enemy
	}
	dst = appendTargets(dst, kingSq, kingTargets)

	if Count(checkers) > 1 {
		return dst
	}

	stop := ^uint64(0)
	if checkers != 0 {
		stop = between[kingSq][LSB(checkers)] | checkers
	}
	targets := stop &^ own
	if !quiets {
		targets &= enemy
	}
	pinned := p.pinnedPieces(us, kingSq)

	// A pinned knight can never stay on its pin line.
	for set := p.pieces[MakePiece(Knight, us)] &^ pinned; set != 0; {
		from := PopLSB(&set)
		dst = appendTargets(dst, from, knightAttacks[from]&targets)
	}
	for set := p.pieces[MakePiece(Bishop, us)] | p.pieces[MakePiece(Queen, us)]; set != 0; {
		from := PopLSB(&set)
		t := BishopAttacks(from, p.all) & targets
		if pinned&Bit(from) != 0 {
			t &= through[kingSq][from]
		}
		dst = appendTargets(dst, from, t)
	}
	for set := p.pieces[MakePiece(Rook, us)] | p.pieces[MakePiece(Queen, us)]; set != 0; {
		from := PopLSB(&set)
		t := RookAttacks(from, p.all) & targets
		if pinned&Bit(from) != 0 {
			t &= through[kingSq][from]
		}
		dst = appendTargets(dst, from, t)
	}

	dst = p.generatePawnMoves(dst, kingSq, stop, pinned, quiets)

	if !tactical && checkers == 0 {
		dst = p.generateCastling(dst, kingSq, attacked)
	}
	return dst
}

func (p *Position) generatePawnMoves(dst []Move, kingSq Square, stop, pinned uint64, quiets bool) []Move {
	us, them := p.turn, p.turn.Other()
	forward := us.Forward()
	empty := ^p.all
	enemy := p.colours[them]
	promoRank := us.PromotionRank()

	for set := p.pieces[MakePiece(Pawn, us)]; set != 0; {
		from := PopLSB(&set)
		line := ^uint64(0)
		if pinned&Bit(from) != 0 {
			line = through[kingSq][from]
		}

		one := from + forward
		if empty&Bit(one) != 0 {
			if Bit(one)&stop&line != 0 {
				if Bit(one)&promoRank != 0 {
					dst = appendPromotions(dst, from, one)
				} else if quiets {
					dst = append(dst, NewMove(from, one))
				}
			}
			two := one + forward
			if quiets && Bit(one)&us.DoublePushRank() != 0 && empty&Bit(two)&stop&line != 0 {
				dst = append(dst, NewMove(from, two))
			}
		}

		for caps := pawnAttacks[us][from] & enemy & stop & line; caps != 0; {
			to := PopLSB(&caps)
			if Bit(to)&promoRank != 0 {
				dst = appendPromotions(dst, from, to)
			} else {
				dst = append(dst, NewMove(from, to))
			}
		}

		if p.ep != NoSquare && pawnAttacks[us][from]&Bit(p.ep)&line != 0 {
			captured := p.ep - forward
			// The capture resolves a check either by blocking on the target
			// square or by removing the checking pawn.
			if (Bit(p.ep)|Bit(captured))&stop != 0 && p.enPassantLeavesKingSafe(from, captured, kingSq) {
				dst = append(dst, NewMove(from, p.ep))
			}
		}
	}
	return dst
}

// enPassantLeavesKingSafe replays the two vacated squares on the occupancy;
// this is what catches a rook pinning both pawns along the rank.
func (p *Position) enPassantLeavesKingSafe(from, captured, kingSq Square) bool {
	them := p.turn.Other()
	occ := p.all&^Bit(from)&^Bit(captured) | Bit(p.ep)
	orth := p.pieces[MakePiece(Rook, them)] | p.pieces[MakePiece(Queen, them)]
	diag := p.pieces[MakePiece(Bishop, them)] | p.pieces[MakePiece(Queen, them)]
	return RookAttacks(kingSq, occ)&orth == 0 && BishopAttacks(kingSq, occ)&diag == 0
}

func (p *Position) generateCastling(dst []Move, kingSq Square, attacked uint64) []Move {
	us := p.turn
	rights := p.castling[us]
	if rights == 0 {
		return dst
	}
	home := E1
	if us == Black {
		home = E8
	}
	if kingSq != home {
		return dst
	}
	rook := MakePiece(Rook, us)
	if rights&CastleKingside != 0 && p.squares[home+3] == rook {
		path := Bit(home+1) | Bit(home+2)
		if p.all&path == 0 && attacked&path == 0 {
			dst = append(dst, NewCastle(home, home+2, true))
		}
	}
	if rights&CastleQueenside != 0 && p.squares[home-4] == rook {
		empty := Bit(home-1) | Bit(home-2) | Bit(home-3)
		transit := Bit(home-1) | Bit(home-2)
		if p.all&empty == 0 && attacked&transit == 0 {
			dst = append(dst, NewCastle(home, home-2, false))
		}
	}
	return dst
}
