package main

import (
	"cmp"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"

	"bitboard-engine/board"
)

func main() {
	fen := flag.String("fen", board.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	oracle := flag.Bool("oracle", false, "With -divide, cross-check every root count against dragontoothmg")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	flag.Parse()

	log.SetFlags(0)
	if *depth <= 0 {
		log.Fatalf("-depth must be > 0")
	}

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatalf("parse FEN: %v", err)
	}

	if *divide {
		if !printDivide(pos, *fen, *depth, *oracle) {
			os.Exit(1)
		}
		return
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.Fatalf("creating cpuprofile: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("start cpu profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += board.Perft(pos, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Label Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)
}

// printDivide prints the count below each root move, sorted by move text.
// With oracle set it reports false if any count disagrees with dragontoothmg.
func printDivide(pos *board.Position, fen string, depth int, oracle bool) bool {
	div := board.PerftDivide(pos, depth)
	moves := make([]board.Move, 0, len(div))
	var sum uint64
	for m, n := range div {
		moves = append(moves, m)
		sum += n
	}
	slices.SortFunc(moves, func(a, b board.Move) int { return cmp.Compare(a.String(), b.String()) })

	var want map[string]uint64
	if oracle {
		want = oracleDivide(fen, depth)
	}
	ok := true
	for _, m := range moves {
		if !oracle {
			fmt.Printf("%s: %d\n", m, div[m])
			continue
		}
		n, found := want[m.String()]
		delete(want, m.String())
		if !found || n != div[m] {
			ok = false
			fmt.Printf("%s: %d (oracle %d) MISMATCH\n", m, div[m], n)
			continue
		}
		fmt.Printf("%s: %d\n", m, div[m])
	}
	for m, n := range want {
		ok = false
		fmt.Printf("%s: missing (oracle %d)\n", m, n)
	}
	fmt.Printf("Total: %d\n", sum)
	return ok
}

func oracleDivide(fen string, depth int) map[string]uint64 {
	b := dragontoothmg.ParseFen(fen)
	out := make(map[string]uint64)
	for _, m := range b.GenerateLegalMoves() {
		undo := b.Apply(m)
		out[m.String()] = oraclePerft(&b, depth-1)
		undo()
	}
	return out
}

func oraclePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var n uint64
	for _, m := range moves {
		undo := b.Apply(m)
		n += oraclePerft(b, depth-1)
		undo()
	}
	return n
}
