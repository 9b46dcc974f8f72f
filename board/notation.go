package board

import (
	"fmt"
	"strings"
)

// ParseMove converts move text ("e2e4", "e7e8q", "e1g1") into a legal move of
// this position. Castling is written as the king's two-square move.
func (p *Position) ParseMove(text string) (Move, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) != 4 && len(text) != 5 {
		return NullMove, fmt.Errorf("%w: %q must be 4 or 5 characters", ErrInvalidMove, text)
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	if from == to {
		return NullMove, fmt.Errorf("%w: %q does not move", ErrInvalidMove, text)
	}

	var m Move
	switch {
	case len(text) == 5:
		var pt PieceType
		switch text[4] {
		case 'q':
			pt = Queen
		case 'r':
			pt = Rook
		case 'b':
			pt = Bishop
		case 'n':
			pt = Knight
		default:
			return NullMove, fmt.Errorf("%w: bad promotion piece %q", ErrInvalidMove, text[4])
		}
		m = NewPromotion(from, to, pt)
	case p.squares[from].Type() == King && (to-from == 2 || from-to == 2):
		m = NewCastle(from, to, to > from)
	default:
		m = NewMove(from, to)
	}

	if !p.IsLegalMove(m) {
		return NullMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, text, p.FEN())
	}
	return m, nil
}
