package board

import "math/rand"

var (
	zobristPiece     [64][16]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64

	// Castle keys are indexed by a rights delta; [3] is [1]^[2] so that
	// losing both rights at once matches losing them one at a time.
	zobristWhiteCastle [4]uint64
	zobristBlackCastle [4]uint64
)

func initZobrist() {
	r := rand.New(rand.NewSource(0xC0DE))
	for sq := 0; sq < 64; sq++ {
		for p := WhitePawn; p <= BlackKing; p++ {
			if p.Type() == NoPieceType || p.Type() > King {
				continue
			}
			zobristPiece[sq][p] = r.Uint64()
		}
	}
	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = r.Uint64()
	}
	zobristSide = r.Uint64()
	for _, keys := range []*[4]uint64{&zobristWhiteCastle, &zobristBlackCastle} {
		keys[CastleKingside] = r.Uint64()
		keys[CastleQueenside] = r.Uint64()
		keys[CastleBoth] = keys[CastleKingside] ^ keys[CastleQueenside]
	}
}

// ComputeHash recomputes the Zobrist key from scratch.
func (p *Position) ComputeHash() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if pc := p.squares[sq]; pc != NoPiece {
			key ^= zobristPiece[sq][pc]
		}
	}
	if p.turn == Black {
		key ^= zobristSide
	}
	key ^= zobristWhiteCastle[p.castling[White]]
	key ^= zobristBlackCastle[p.castling[Black]]
	if p.ep != NoSquare {
		key ^= zobristEnPassant[p.ep.File()]
	}
	return key
}
