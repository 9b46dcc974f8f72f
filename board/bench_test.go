package board_test

import (
	"testing"

	"bitboard-engine/board"
)

func BenchmarkPerftStart4(b *testing.B) {
	p := board.NewPosition()
	for i := 0; i < b.N; i++ {
		board.Perft(p, 4)
	}
}

func BenchmarkGenerateLegalMoves(b *testing.B) {
	p := board.MustParseFEN(kiwipete)
	buf := make([]board.Move, 0, board.MaxMoves)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = p.GenerateLegalMovesInto(buf)
	}
}

func BenchmarkPlayUndo(b *testing.B) {
	p := board.MustParseFEN(kiwipete)
	moves := p.GenerateLegalMoves()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := moves[i%len(moves)]
		p.PlayMove(m)
		p.UndoMove()
	}
}

// Generating into a buffer with enough capacity must not allocate.
func TestGenerateLegalMovesInto_NoAlloc(t *testing.T) {
	p := board.MustParseFEN(kiwipete)
	buf := make([]board.Move, 0, board.MaxMoves)
	allocs := testing.AllocsPerRun(100, func() {
		buf = p.GenerateLegalMovesInto(buf[:0])
		if len(buf) != 48 {
			t.Fatalf("expected 48 moves, got %d", len(buf))
		}
	})
	if allocs != 0 {
		t.Fatalf("expected 0 allocs, got %f", allocs)
	}
}

func TestGenerateTacticalMovesInto_NoAlloc(t *testing.T) {
	p := board.MustParseFEN(kiwipete)
	buf := make([]board.Move, 0, board.MaxMoves)
	allocs := testing.AllocsPerRun(100, func() {
		buf = p.GenerateTacticalMovesInto(buf[:0])
	})
	if allocs != 0 {
		t.Fatalf("expected 0 allocs, got %f", allocs)
	}
}
