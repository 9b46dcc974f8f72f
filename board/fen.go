package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrInvalidFEN  = errors.New("invalid FEN")
	ErrInvalidMove = errors.New("invalid move")
	ErrIllegalMove = errors.New("illegal move")
)

func pieceFromChar(ch byte) Piece {
	if i := strings.IndexByte(pieceChars, ch); i > 0 && ch != ' ' {
		return Piece(i)
	}
	return NoPiece
}

// ParseFEN builds a position from position-exchange notation. The move
// counters are optional. An en passant square that no pawn could legally take
// is dropped, matching what PlayMove records.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: expected 4 to 6 fields, got %d", ErrInvalidFEN, len(fields))
	}
	p := newEmptyPosition()

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc := pieceFromChar(ch)
			if pc == NoPiece {
				return nil, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			if file >= 8 {
				return nil, fmt.Errorf("%w: rank %d is too long", ErrInvalidFEN, rank+1)
			}
			p.SetPiece(Square(rank*8+file), pc)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d does not have 8 files", ErrInvalidFEN, rank+1)
		}
	}
	if Count(p.pieces[WhiteKing]) != 1 || Count(p.pieces[BlackKing]) != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}
	if p.pieces[WhitePawn]&(Rank1|Rank8) != 0 || p.pieces[BlackPawn]&(Rank1|Rank8) != 0 {
		return nil, fmt.Errorf("%w: pawn on a back rank", ErrInvalidFEN)
	}

	switch fields[1] {
	case "w":
		p.turn = White
	case "b":
		p.turn = Black
	default:
		return nil, fmt.Errorf("%w: bad side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for j := 0; j < len(fields[2]); j++ {
			switch fields[2][j] {
			case 'K':
				p.castling[White] |= CastleKingside
			case 'Q':
				p.castling[White] |= CastleQueenside
			case 'k':
				p.castling[Black] |= CastleKingside
			case 'q':
				p.castling[Black] |= CastleQueenside
			default:
				return nil, fmt.Errorf("%w: bad castling field %q", ErrInvalidFEN, fields[2])
			}
		}
	}
	p.dropImpossibleCastling()

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
		}
		mover := p.turn.Other()
		if Bit(sq)&mover.DoublePushRank() == 0 {
			return nil, fmt.Errorf("%w: en passant square %s on the wrong rank", ErrInvalidFEN, sq)
		}
		pushed := sq + mover.Forward()
		if p.squares[sq] == NoPiece && p.squares[pushed] == MakePiece(Pawn, mover) &&
			p.enPassantCapturable(sq, p.turn) {
			p.ep = sq
		}
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad halfmove clock %q", ErrInvalidFEN, fields[4])
		}
		p.halfmove = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: bad fullmove number %q", ErrInvalidFEN, fields[5])
		}
		p.fullmove = n
	}

	if p.IsInCheck(p.turn.Other()) {
		return nil, fmt.Errorf("%w: side not to move is in check", ErrInvalidFEN)
	}
	p.hash = p.ComputeHash()
	return p, nil
}

// MustParseFEN is ParseFEN for constant inputs; it panics on error.
func MustParseFEN(fen string) *Position {
	p, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return p
}

// dropImpossibleCastling clears rights whose king or rook is not on its home square.
func (p *Position) dropImpossibleCastling() {
	for _, side := range [2]Side{White, Black} {
		home, kingRook, queenRook := E1, H1, A1
		if side == Black {
			home, kingRook, queenRook = E8, H8, A8
		}
		if p.squares[home] != MakePiece(King, side) {
			p.castling[side] = 0
			continue
		}
		rook := MakePiece(Rook, side)
		if p.squares[kingRook] != rook {
			p.castling[side] &^= CastleKingside
		}
		if p.squares[queenRook] != rook {
			p.castling[side] &^= CastleQueenside
		}
	}
}

// FEN formats the position in position-exchange notation.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.squares[rank*8+file]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(p.turn.String())
	sb.WriteByte(' ')

	castling := ""
	if p.castling[White]&CastleKingside != 0 {
		castling += "K"
	}
	if p.castling[White]&CastleQueenside != 0 {
		castling += "Q"
	}
	if p.castling[Black]&CastleKingside != 0 {
		castling += "k"
	}
	if p.castling[Black]&CastleQueenside != 0 {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)
	sb.WriteByte(' ')

	if p.ep != NoSquare {
		sb.WriteString(p.ep.String())
	} else {
		sb.WriteByte('-')
	}
	fmt.Fprintf(&sb, " %d %d", p.halfmove, p.fullmove)
	return sb.String()
}
