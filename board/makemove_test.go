package board_test

import (
	"math/rand"
	"testing"

	"bitboard-engine/board"
)

type snapshot struct {
	fen  string
	hash uint64
	ep   board.Square
	turn board.Side
	occ  uint64
	wc   uint8
	bc   uint8
}

func take(p *board.Position) snapshot {
	return snapshot{
		fen:  p.FEN(),
		hash: p.Hash(),
		ep:   p.EnPassant(),
		turn: p.Turn(),
		occ:  p.Occupied(),
		wc:   p.Castling(board.White),
		bc:   p.Castling(board.Black),
	}
}

func playText(t *testing.T, p *board.Position, text string) board.Move {
	t.Helper()
	m, err := p.ParseMove(text)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", text, err)
	}
	p.PlayMove(m)
	if err := p.Validate(); err != nil {
		t.Fatalf("invalid after %s: %v", text, err)
	}
	return m
}

func roundTrip(t *testing.T, fen, move string) *board.Position {
	t.Helper()
	p, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	before := take(p)
	playText(t, p, move)
	p.UndoMove()
	if err := p.Validate(); err != nil {
		t.Fatalf("invalid after undo of %s: %v", move, err)
	}
	if after := take(p); after != before {
		t.Fatalf("undo of %s did not restore state:\n got %+v\nwant %+v", move, after, before)
	}
	return p
}

func TestPlayUndo_NormalMove(t *testing.T) {
	roundTrip(t, board.StartFEN, "e2e4")
}

func TestPlayUndo_Capture(t *testing.T) {
	p := roundTrip(t, "k7/r7/8/8/8/8/8/R3K3 w - - 0 1", "a1a7")
	playText(t, p, "a1a7")
	if rec := p.History()[len(p.History())-1]; rec.Captured != board.BlackRook {
		t.Fatalf("a1a7 should capture the rook, got %v", rec.Captured)
	}
}

func TestPlayUndo_EnPassant(t *testing.T) {
	p := roundTrip(t, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", "e5d6")
	m := playText(t, p, "e5d6")
	if p.PieceAt(m.To()-8) != board.NoPiece {
		t.Fatalf("captured pawn still on d5")
	}
	if rec := p.History()[len(p.History())-1]; rec.Captured == board.NoPiece || rec.Captured == board.BlackPawn {
		t.Fatalf("en passant capture should use the dedicated marker, got %v", rec.Captured)
	}
}

func TestPlayUndo_Castling(t *testing.T) {
	p := roundTrip(t, "4k3/8/8/8/8/8/8/4K2R w K - 0 1", "e1g1")
	m := playText(t, p, "e1g1")
	if !m.IsCastle() || m.Flag() != board.FlagCastleKingside {
		t.Fatalf("e1g1 should parse as a kingside castle, flag=%d", m.Flag())
	}
	if got := p.PieceAt(board.F1); got != board.WhiteRook {
		t.Fatalf("expected rook on f1 after castling, got %v", got)
	}
	if p.Castling(board.White) != 0 {
		t.Fatalf("white castling rights should be gone")
	}

	p = roundTrip(t, "r3k3/8/8/8/8/8/8/4K3 b q - 0 1", "e8c8")
	playText(t, p, "e8c8")
	if got := p.PieceAt(board.D8); got != board.BlackRook {
		t.Fatalf("expected rook on d8 after castling, got %v", got)
	}
}

func TestPlayUndo_Promotion(t *testing.T) {
	p := roundTrip(t, "1n5k/P7/8/8/8/8/8/7K w - - 0 1", "a7b8n")
	playText(t, p, "a7a8q")
	if got := p.PieceAt(board.A8); got != board.WhiteQueen {
		t.Fatalf("expected queen on a8, got %v", got)
	}
}

func TestRookCaptureRevokesCastling(t *testing.T) {
	p, err := board.ParseFEN("r3k2r/8/8/8/8/8/6B1/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	playText(t, p, "g2a8")
	if p.Castling(board.Black) != board.CastleKingside {
		t.Fatalf("capturing a8 should only remove black queenside, got %d", p.Castling(board.Black))
	}
	if p.Castling(board.White) != board.CastleBoth {
		t.Fatalf("white rights should be untouched, got %d", p.Castling(board.White))
	}
}

func TestUndoOnEmptyHistoryIsNoop(t *testing.T) {
	p := board.NewPosition()
	before := take(p)
	p.UndoMove()
	if take(p) != before {
		t.Fatalf("UndoMove on a fresh position changed it")
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	p, err := board.ParseFEN("k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	if err != nil {
		t.Fatal(err)
	}
	before := take(p)
	ep := p.PlayNull()
	if p.Turn() != board.Black || p.EnPassant() != board.NoSquare {
		t.Fatalf("null move should flip the turn and clear en passant")
	}
	if p.Hash() != p.ComputeHash() {
		t.Fatalf("hash out of sync after null move")
	}
	p.UndoNull(ep)
	if take(p) != before {
		t.Fatalf("UndoNull did not restore state")
	}
}

// TestRandomWalkRoundTrip plays random games and undoes every legal move at
// every step, checking that state comes back bit for bit.
func TestRandomWalkRoundTrip(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	rng := rand.New(rand.NewSource(42))
	for _, fen := range fens {
		p := board.MustParseFEN(fen)
		for step := 0; step < 60; step++ {
			moves := p.GenerateLegalMoves()
			if len(moves) == 0 {
				break
			}
			before := take(p)
			for _, m := range moves {
				p.PlayMove(m)
				if err := p.Validate(); err != nil {
					t.Fatalf("%s after %s: %v", before.fen, m, err)
				}
				p.UndoMove()
				if after := take(p); after != before {
					t.Fatalf("%s: undo of %s gave %s", before.fen, m, after.fen)
				}
			}
			p.PlayMove(moves[rng.Intn(len(moves))])
		}
	}
}
