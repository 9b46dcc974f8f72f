package engine

import (
	"testing"

	"bitboard-engine/board"
)

func TestTranspositionSaveLookup(t *testing.T) {
	tt := NewTranspositionTable(1)
	if tt.Len() == 0 {
		t.Fatalf("expected a non-empty table")
	}
	m := board.NewMove(board.E2, board.E4)
	tt.Save(12345, -77, 6, m, BoundFailHigh)

	e := tt.Lookup(12345)
	if e.Hash != 12345 || e.Score != -77 || e.Depth != 6 || e.Move != m || e.Bound != BoundFailHigh {
		t.Fatalf("unexpected entry %+v", e)
	}

	// A colliding hash overwrites the slot.
	other := uint64(12345 + tt.Len())
	tt.Save(other, 5, 1, board.NullMove, BoundExact)
	if e := tt.Lookup(12345); e.Hash == 12345 {
		t.Fatalf("expected slot to be replaced, got %+v", e)
	}
	if tt.Filled() != 1 {
		t.Fatalf("replacing a slot must not count twice, filled=%d", tt.Filled())
	}
}

func TestTranspositionEntrySize(t *testing.T) {
	if entrySize != 16 {
		t.Fatalf("expected 16-byte entries, got %d", entrySize)
	}
}

func TestTranspositionZeroCapacity(t *testing.T) {
	tt := NewTranspositionTable(0)
	tt.Save(42, 10, 3, board.NewMove(board.G1, board.F3), BoundExact)
	if e := tt.Lookup(42); e != (TTEntry{}) {
		t.Fatalf("zero-size table returned %+v", e)
	}
	if tt.Hashfull() != 0 {
		t.Fatalf("zero-size table hashfull %d", tt.Hashfull())
	}
}

func TestTranspositionHashfullAndClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	n := tt.Len() / 4
	for i := 1; i <= n; i++ {
		tt.Save(uint64(i), i, 1, board.NullMove, BoundExact)
	}
	if tt.Filled() != n {
		t.Fatalf("filled=%d want %d", tt.Filled(), n)
	}
	if got := tt.Hashfull(); got != 250 {
		t.Fatalf("hashfull=%d want 250", got)
	}

	tt.Clear()
	if tt.Filled() != 0 || tt.Hashfull() != 0 {
		t.Fatalf("clear left filled=%d", tt.Filled())
	}
	if e := tt.Lookup(1); e.Hash != 0 {
		t.Fatalf("clear left entry %+v", e)
	}
}

func TestTranspositionDepthClamped(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Save(7, 0, 500, board.NullMove, BoundExact)
	if d := tt.Lookup(7).Depth; d != 127 {
		t.Fatalf("depth=%d want 127", d)
	}
}

func TestMateScoreAdjustment(t *testing.T) {
	cases := []struct {
		score, ply, stored int
	}{
		{MateScore - 5, 3, MateScore - 2},
		{MatedIn(5), 3, MatedIn(2)},
		{150, 9, 150},
		{-150, 9, -150},
	}
	for _, c := range cases {
		got := scoreToTT(c.score, c.ply)
		if got != c.stored {
			t.Fatalf("scoreToTT(%d, %d)=%d want %d", c.score, c.ply, got, c.stored)
		}
		if back := scoreFromTT(got, c.ply); back != c.score {
			t.Fatalf("scoreFromTT(%d, %d)=%d want %d", got, c.ply, back, c.score)
		}
	}
}
