package engine

import (
	"strings"
	"testing"

	"bitboard-engine/board"
)

// mirrorFEN swaps the colours of a position and flips it vertically.
func mirrorFEN(fen string) string {
	fields := strings.Fields(fen)
	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	fields[0] = swapCase(strings.Join(ranks, "/"))
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	if fields[2] != "-" {
		fields[2] = swapCase(fields[2])
	}
	if fields[3] != "-" {
		rank := '6'
		if fields[3][1] == '6' {
			rank = '3'
		}
		fields[3] = string(fields[3][0]) + string(rank)
	}
	return strings.Join(fields, " ")
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		}
		return r
	}, s)
}

func TestEvaluateStartPosition(t *testing.T) {
	var ev PSQTEvaluator
	if got := ev.Evaluate(board.NewPosition()); got != tempoBonus {
		t.Fatalf("start position: got %d want %d", got, tempoBonus)
	}
	black := board.MustParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if got := ev.Evaluate(black); got != tempoBonus {
		t.Fatalf("start position, black to move: got %d want %d", got, tempoBonus)
	}
}

func TestEvaluateColourSymmetry(t *testing.T) {
	var ev PSQTEvaluator
	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"6k1/5ppp/8/8/8/8/8/R5K1 b - - 0 1",
	}
	for _, fen := range fens {
		a := ev.Evaluate(board.MustParseFEN(fen))
		b := ev.Evaluate(board.MustParseFEN(mirrorFEN(fen)))
		if a != b {
			t.Fatalf("%s: %d, mirrored %d", fen, a, b)
		}
	}
}

func TestEvaluateMaterial(t *testing.T) {
	var ev PSQTEvaluator
	up := board.MustParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if got := ev.Evaluate(up); got < pieceValueEG[board.Queen]/2 {
		t.Fatalf("queen up scored %d", got)
	}
	down := board.MustParseFEN("4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	if got := ev.Evaluate(down); got > -pieceValueEG[board.Queen]/2 {
		t.Fatalf("queen down scored %d", got)
	}
}

func TestGamePhase(t *testing.T) {
	if got := gamePhase(board.NewPosition()); got != totalPhase {
		t.Fatalf("start phase %d", got)
	}
	if got := gamePhase(board.MustParseFEN("4k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 w - - 0 1")); got != 0 {
		t.Fatalf("pawn ending phase %d", got)
	}
	if got := taper(100, 200, totalPhase/2); got != 150 {
		t.Fatalf("taper midpoint %d", got)
	}
}

func TestMateScores(t *testing.T) {
	if !IsWin(MateScore-1) || !IsLoss(MatedIn(1)) || IsMateScore(2000) {
		t.Fatalf("mate classification broken")
	}
	if !IsWin(MateThreshold) || IsWin(MateThreshold-1) {
		t.Fatalf("threshold boundary broken")
	}
}
