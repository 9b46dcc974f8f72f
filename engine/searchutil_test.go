package engine

import (
	"testing"
	"time"

	"bitboard-engine/board"
)

func TestScoreString(t *testing.T) {
	cases := map[int]string{
		0:             "cp 0",
		-35:           "cp -35",
		MateScore - 1: "mate 1",
		MateScore - 3: "mate 2",
		MateScore - 4: "mate 2",
		MatedIn(2):    "mate -1",
		MatedIn(0):    "mate 0",
	}
	for score, want := range cases {
		if got := ScoreString(score); got != want {
			t.Fatalf("ScoreString(%d)=%q want %q", score, got, want)
		}
	}
}

func TestSearchInfoString(t *testing.T) {
	si := SearchInfo{
		Depth:    3,
		Score:    25,
		Nodes:    1200,
		Time:     40 * time.Millisecond,
		NPS:      30000,
		Hashfull: 7,
		PV:       []board.Move{board.NewMove(board.E2, board.E4), board.NewMove(board.E7, board.E5)},
	}
	want := "depth 3 score cp 25 nodes 1200 time 40 nps 30000 hashfull 7 pv e2e4 e7e5"
	if got := si.String(); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}
