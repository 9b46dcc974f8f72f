package engine

import (
	"testing"
	"time"

	"bitboard-engine/board"
)

func TestSearchTime(t *testing.T) {
	ms := time.Millisecond
	cases := []struct {
		name     string
		limits   Limits
		side     board.Side
		overhead time.Duration
		want     time.Duration
	}{
		{"movetime", Limits{MoveTime: 500 * ms}, board.White, 50 * ms, 500 * ms},
		{"movetime wins over clock", Limits{MoveTime: 300 * ms, WTime: time.Minute}, board.White, 0, 300 * ms},
		{"nothing given", Limits{}, board.White, 50 * ms, DefaultSearchTime},
		{"depth only", Limits{Depth: 6}, board.Black, 50 * ms, DefaultSearchTime},
		{"long clock", Limits{WTime: 60 * time.Second}, board.White, 50 * ms, 2947500 * time.Microsecond},
		{"short clock with increment", Limits{WTime: 5 * time.Second, WInc: time.Second}, board.White, 50 * ms, 1050 * ms},
		{"black uses its own clock", Limits{WTime: time.Second, BTime: 20 * time.Second}, board.Black, 0, time.Second},
		{"flagging", Limits{WTime: 30 * ms}, board.White, 50 * ms, ms},
		{"increment only", Limits{BInc: 2 * time.Second}, board.Black, 0, ms},
	}
	for _, c := range cases {
		if got := SearchTime(c.limits, c.side, c.overhead); got != c.want {
			t.Fatalf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestHasClock(t *testing.T) {
	if (Limits{MoveTime: time.Second, Depth: 3}).HasClock() {
		t.Fatalf("movetime is not a clock")
	}
	if !(Limits{BInc: time.Second}).HasClock() {
		t.Fatalf("increment counts as a clock")
	}
}
