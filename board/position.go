package board

import (
	"fmt"
	"strings"
)

// UndoRecord holds what PlayMove needs to reverse a move exactly.
type UndoRecord struct {
	Move          Move
	WhiteCastling uint8
	BlackCastling uint8
	EnPassant     Square
	Moved         Piece
	// Captured is NoPiece, the piece taken on Move.To(), or undoEnPassant.
	Captured Piece
	Hash     uint64
	Halfmove int
}

// Position is the mutable board. The piece boards, the side boards and the
// mailbox always describe the same placement.
type Position struct {
	pieces   [16]uint64 // indexed by Piece
	colours  [2]uint64
	all      uint64
	squares  [64]Piece
	castling [2]uint8
	ep       Square
	turn     Side
	hash     uint64

	halfmove int
	fullmove int

	history []UndoRecord
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

func newEmptyPosition() *Position {
	return &Position{fullmove: 1, history: make([]UndoRecord, 0, 256)}
}

func (p *Position) Turn() Side { return p.turn }
func (p *Position) Hash() uint64 { return p.hash }
func (p *Position) EnPassant() Square { return p.ep }
func (p *Position) Castling(s Side) uint8 { return p.castling[s] }
func (p *Position) Occupied() uint64 { return p.all }
func (p *Position) Pieces(pc Piece) uint64 { return p.pieces[pc] }
func (p *Position) Colour(s Side) uint64 { return p.colours[s] }
func (p *Position) PieceAt(sq Square) Piece { return p.squares[sq] }
func (p *Position) Ply() int { return len(p.history) }

// History exposes the undo stack, oldest first. Callers must not modify it.
func (p *Position) History() []UndoRecord { return p.history }

func (p *Position) KingSquare(s Side) Square { return LSB(p.pieces[MakePiece(King, s)]) }

// SetPiece puts pc on an empty square. Hashing is the caller's job.
func (p *Position) SetPiece(sq Square, pc Piece) {
	if pc == NoPiece {
		return
	}
	b := Bit(sq)
	p.squares[sq] = pc
	p.pieces[pc] |= b
	p.colours[pc.Side()] |= b
	p.all |= b
}

// RemovePiece empties sq, whatever was on it.
func (p *Position) RemovePiece(sq Square) {
	pc := p.squares[sq]
	if pc == NoPiece {
		return
	}
	b := Bit(sq)
	p.squares[sq] = NoPiece
	p.pieces[pc] &^= b
	p.colours[pc.Side()] &^= b
	p.all &^= b
}

// ReplacePiece swaps whatever is on sq for pc; pc may be NoPiece.
func (p *Position) ReplacePiece(sq Square, pc Piece) {
	p.RemovePiece(sq)
	p.SetPiece(sq, pc)
}

// Clone returns a deep copy, history included.
func (p *Position) Clone() *Position {
	c := *p
	c.history = make([]UndoRecord, len(p.history), cap(p.history))
	copy(c.history, p.history)
	return &c
}

// Validate checks the representation invariants and the incremental hash.
func (p *Position) Validate() error {
	var union, white, black uint64
	for pc := WhitePawn; pc <= BlackKing; pc++ {
		bb := p.pieces[pc]
		if pc.Type() == NoPieceType || pc.Type() > King {
			if bb != 0 {
				return fmt.Errorf("bitboard for invalid piece %d is non-empty", pc)
			}
			continue
		}
		if union&bb != 0 {
			return fmt.Errorf("square claimed by two pieces (piece %s)", pc)
		}
		union |= bb
		if pc.Side() == White {
			white |= bb
		} else {
			black |= bb
		}
		for set := bb; set != 0; {
			sq := PopLSB(&set)
			if p.squares[sq] != pc {
				return fmt.Errorf("mailbox says %s on %s, bitboard says %s", p.squares[sq], sq, pc)
			}
		}
	}
	if white != p.colours[White] || black != p.colours[Black] {
		return fmt.Errorf("side occupancy out of sync")
	}
	if union != p.all || white|black != p.all {
		return fmt.Errorf("total occupancy out of sync")
	}
	for sq := Square(0); sq < 64; sq++ {
		if p.squares[sq] != NoPiece && p.all&Bit(sq) == 0 {
			return fmt.Errorf("mailbox has %s on empty square %s", p.squares[sq], sq)
		}
	}
	if Count(p.pieces[WhiteKing]) != 1 || Count(p.pieces[BlackKing]) != 1 {
		return fmt.Errorf("each side needs exactly one king")
	}
	if h := p.ComputeHash(); h != p.hash {
		return fmt.Errorf("hash %016x does not match recomputed %016x", p.hash, h)
	}
	return nil
}

// String draws the board from White's side, followed by the FEN.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(p.squares[rank*8+file].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString(p.FEN())
	return sb.String()
}
