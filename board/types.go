package board

import "fmt"

// Piece encodes a type in bits 0-2 and the side in bit 3, so that
//   - p & 7 gives the type
//   - p ^ 8 gives the same type for the other side
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8

	// undoEnPassant marks an undo record whose capture happened en passant.
	undoEnPassant Piece = 15
)

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Side is meaningless for NoPiece.
func (p Piece) Side() Side { return Side(p >> 3) }

func (p Piece) Flip() Piece { return p ^ 8 }

// MakePiece combines a type and a side.
func MakePiece(pt PieceType, side Side) Piece { return Piece(pt) | Piece(side)<<3 }

const pieceChars = " PNBRQK  pnbrqk"

// String returns the FEN letter of the piece, or "." for an empty square.
func (p Piece) String() string {
	if p == NoPiece || int(p) >= len(pieceChars) || pieceChars[p] == ' ' {
		return "."
	}
	return string(pieceChars[p])
}

type Side uint8

const (
	White Side = 0
	Black Side = 1
)

func (s Side) Other() Side { return s ^ 1 }

// Forward is the square offset of a single pawn push.
func (s Side) Forward() Square {
	if s == White {
		return 8
	}
	return -8
}

// PromotionRank is the last rank for the side's pawns.
func (s Side) PromotionRank() uint64 {
	if s == White {
		return Rank8
	}
	return Rank1
}

// DoublePushRank is the rank a pawn lands on after a single push from its start square.
func (s Side) DoublePushRank() uint64 {
	if s == White {
		return Rank3
	}
	return Rank6
}

func (s Side) HomeRank() uint64 {
	if s == White {
		return Rank1
	}
	return Rank8
}

func (s Side) String() string {
	if s == White {
		return "w"
	}
	return "b"
}

// Castling rights bits, stored per side.
const (
	CastleKingside  uint8 = 1
	CastleQueenside uint8 = 2
	CastleBoth      uint8 = CastleKingside | CastleQueenside
)

// Square is a board index, a1 = 0 through h8 = 63, file varying fastest.
type Square int8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NoSquare doubles as "no en passant"; a1 can never be an en passant target.
const NoSquare Square = 0

func (sq Square) File() int { return int(sq) & 7 }
func (sq Square) Rank() int { return int(sq) >> 3 }

func (sq Square) String() string {
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("bad square %q", s)
	}
	return Square(int(s[1]-'1')*8 + int(s[0]-'a')), nil
}
