package uci

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"bitboard-engine/config"
	"bitboard-engine/engine"
)

func newTestHandler() *Handler {
	cfg := config.Default()
	cfg.HashMB = 1
	return NewHandler(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func run(t *testing.T, h *Handler, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := h.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func mustContain(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(out, p) {
			t.Fatalf("output missing %q:\n%s", p, out)
		}
	}
}

func TestHandshake(t *testing.T) {
	out := run(t, newTestHandler(), "uci\nisready\n")
	mustContain(t, out,
		"id name "+EngineName,
		"option name Hash type spin default 1 min 0 max 4096",
		"option name Move Overhead type spin default 50",
		"uciok",
		"readyok")
}

func TestPositionWithMoves(t *testing.T) {
	out := run(t, newTestHandler(), "position startpos moves e2e4 e7e5 g1f3\nd\n")
	mustContain(t, out, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2")
}

func TestPositionFen(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	out := run(t, newTestHandler(), "position fen "+fen+" moves e1g1\nd\n")
	mustContain(t, out, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R4RK1 b kq - 1 1")
}

func TestBadPositionLeavesStateUnchanged(t *testing.T) {
	out := run(t, newTestHandler(),
		"position startpos moves e2e4\n"+
			"position startpos moves d2d4 e2e5\n"+
			"position fen 8/8/8/8 w - - 0 1\n"+
			"position sideways\n"+
			"d\n")
	mustContain(t, out,
		"info string illegal move",
		"info string invalid FEN",
		"info string Invalid position subcommand sideways",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
}

func TestGoFindsMate(t *testing.T) {
	out := run(t, newTestHandler(), "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 3\n")
	mustContain(t, out, "score mate 1", "pv a1a8", "bestmove a1a8")
}

func TestGoWithoutMoves(t *testing.T) {
	out := run(t, newTestHandler(), "position fen 7k/5Q2/6K1/8/8/8/8/8 b - - 0 1\ngo depth 2\n")
	mustContain(t, out, "bestmove 0000")
}

func TestGoReportsEachDepth(t *testing.T) {
	out := run(t, newTestHandler(), "position startpos\ngo depth 3\n")
	for _, d := range []string{"info depth 1 ", "info depth 2 ", "info depth 3 "} {
		mustContain(t, out, d)
	}
	if strings.Count(out, "bestmove ") != 1 {
		t.Fatalf("expected exactly one bestmove:\n%s", out)
	}
}

func TestStopInfiniteSearch(t *testing.T) {
	h := newTestHandler()
	pr, pw := io.Pipe()
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- h.Run(context.Background(), pr, &out) }()

	io.WriteString(pw, "position startpos\ngo infinite\n")
	time.Sleep(50 * time.Millisecond)
	io.WriteString(pw, "stop\nquit\n")
	pw.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("stop did not end the search")
	}
	mustContain(t, out.String(), "bestmove ")
}

func TestEndOfInputEndsInfiniteSearch(t *testing.T) {
	out := run(t, newTestHandler(), "go infinite\n")
	mustContain(t, out, "bestmove ")
}

func TestRunHonoursContext(t *testing.T) {
	h := newTestHandler()
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, pr, io.Discard) }()

	io.WriteString(pw, "go infinite\n")
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run ignored cancellation")
	}
}

func TestParseLimits(t *testing.T) {
	h := newTestHandler()
	ms := time.Millisecond
	cases := []struct {
		args string
		want engine.Limits
	}{
		{"", engine.Limits{MoveTime: defaultMoveTime}},
		{"depth 5", engine.Limits{Depth: 5}},
		{"movetime 250", engine.Limits{MoveTime: 250 * ms}},
		{"wtime 1000 btime 2000 winc 10 binc 20", engine.Limits{WTime: 1000 * ms, BTime: 2000 * ms, WInc: 10 * ms, BInc: 20 * ms}},
		{"wtime 5000 movestogo 30", engine.Limits{WTime: 5000 * ms}},
		{"infinite", engine.Limits{Infinite: true}},
		{"depth x", engine.Limits{MoveTime: defaultMoveTime}},
		{"wtime -20", engine.Limits{}},
	}
	for _, c := range cases {
		if got := h.parseLimits(strings.Fields(c.args)); got != c.want {
			t.Fatalf("go %s: got %+v want %+v", c.args, got, c.want)
		}
	}
}

func TestSetOption(t *testing.T) {
	h := newTestHandler()
	out := run(t, h, "setoption name Hash value 2\n"+
		"setoption name Move Overhead value 30\n"+
		"setoption name Contempt value 10\n"+
		"setoption name Hash value lots\n")
	if h.cfg.HashMB != 2 {
		t.Fatalf("hash %d", h.cfg.HashMB)
	}
	if h.cfg.MoveOverhead != 30*time.Millisecond {
		t.Fatalf("move overhead %v", h.cfg.MoveOverhead)
	}
	mustContain(t, out, "Unknown option contempt", "must be an integer")
}

func TestDebugCommands(t *testing.T) {
	out := run(t, newTestHandler(), "perft 2\nmoves\ntacticalmoves\neval\nplaymove e2e4\nplaymove undo\nplaymove e2e5\nd\nfrobnicate\n")
	mustContain(t, out,
		"e2e4: 20",
		"Nodes searched: 400",
		"info string static evaluation",
		"info string illegal move",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"info string Unknown command: frobnicate")

	var movesLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "g1f3") && !strings.Contains(line, ":") {
			movesLine = line
		}
	}
	if n := len(strings.Fields(movesLine)); n != 20 {
		t.Fatalf("moves listed %d entries: %q", n, movesLine)
	}
}

func TestCutStatsPrintedOnce(t *testing.T) {
	out := run(t, newTestHandler(), "cutstats\ngo depth 4\ngo depth 2\n")
	mustContain(t, out, "info string Cut statistics:", "info string   Beta cutoffs: ")
	if n := strings.Count(out, "Cut statistics"); n != 1 {
		t.Fatalf("statistics printed %d times", n)
	}
}

func TestSeeCommand(t *testing.T) {
	out := run(t, newTestHandler(), "position fen 4k3/8/4p3/3p4/8/8/8/3QK3 w - - 0 1\nsee d1d5\nsee d1d6\n")
	mustContain(t, out, "info string see d1d5 -800", "info string illegal move")
}

func TestNewGameResetsPosition(t *testing.T) {
	h := newTestHandler()
	before := h.gameID
	out := run(t, h, "position startpos moves e2e4\nucinewgame\nd\n")
	mustContain(t, out, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if h.gameID == before {
		t.Fatalf("ucinewgame kept game id %s", before)
	}
}

func TestMovesDuringInfiniteSearch(t *testing.T) {
	h := newTestHandler()
	done := make(chan string, 1)
	go func() {
		var out bytes.Buffer
		h.Run(context.Background(), strings.NewReader("go infinite\nmoves\nisready\n"), &out)
		done <- out.String()
	}()
	select {
	case out := <-done:
		mustContain(t, out, "bestmove ", "g1f3", "readyok")
	case <-time.After(5 * time.Second):
		t.Fatalf("moves blocked behind the running search")
	}
}

// endlessReader yields the same command forever.
type endlessReader struct{ line string }

func (r endlessReader) Read(p []byte) (int, error) {
	return copy(p, r.line), nil
}

func TestRunReturnsOnCancelWhileReading(t *testing.T) {
	for i := 0; i < 40; i++ {
		h := newTestHandler()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- h.Run(ctx, endlessReader{"isready\n"}, io.Discard) }()
		time.Sleep(2 * time.Millisecond)
		cancel()
		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("run %d: expected context.Canceled, got %v", i, err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("run %d: Run did not return after cancel", i)
		}
	}
}
