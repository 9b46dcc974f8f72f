package board

// Move is a packed 16-bit move:
//
//	bits  0-5   from square
//	bits  6-11  to square
//	bits 12-13  flag (FlagNormal, FlagCastleKingside, FlagCastleQueenside, FlagPromotion)
//	bits 14-15  promotion piece, knight=0 bishop=1 rook=2 queen=3
//
// The layout is a storage format and must not change.
type Move uint16

const (
	FlagNormal uint16 = iota
	FlagCastleKingside
	FlagCastleQueenside
	FlagPromotion
)

const (
	moveToShift    = 6
	moveFlagShift  = 12
	movePromoShift = 14
)

// NullMove is the zero move; it is never legal since from == to.
const NullMove Move = 0

func NewMove(from, to Square) Move {
	return Move(uint16(from) | uint16(to)<<moveToShift)
}

// NewPromotion builds a promotion to pt, which must be a knight, bishop, rook or queen.
func NewPromotion(from, to Square, pt PieceType) Move {
	return Move(uint16(from) | uint16(to)<<moveToShift | FlagPromotion<<moveFlagShift |
		uint16(pt-Knight)<<movePromoShift)
}

// NewCastle builds a castling move; from/to are the king's squares.
func NewCastle(from, to Square, kingside bool) Move {
	flag := FlagCastleQueenside
	if kingside {
		flag = FlagCastleKingside
	}
	return Move(uint16(from) | uint16(to)<<moveToShift | flag<<moveFlagShift)
}

func (m Move) From() Square { return Square(m & 63) }
func (m Move) To() Square { return Square((m >> moveToShift) & 63) }
func (m Move) Flag() uint16 { return uint16(m>>moveFlagShift) & 3 }

func (m Move) IsPromotion() bool { return m.Flag() == FlagPromotion }

func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == FlagCastleKingside || f == FlagCastleQueenside
}

// PromotionType is only meaningful when IsPromotion is true.
func (m Move) PromotionType() PieceType {
	return PieceType(m>>movePromoShift) + Knight
}

// String returns the long algebraic form used by the text protocol, e.g. "e7e8q".
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(pieceChars[MakePiece(m.PromotionType(), Black)])
	}
	return s
}
