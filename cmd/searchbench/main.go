package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"bitboard-engine/board"
	"bitboard-engine/engine"
)

// suite is searched when no -fen is given.
var suite = []string{
	board.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
}

func main() {
	depthFlag := flag.Int("depth", 8, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of passes over the positions")
	fenFlag := flag.String("fen", "", "FEN to search (empty = built-in suite)")
	hashFlag := flag.Int("hash", 64, "transposition table size in MB")
	verbose := flag.Bool("v", false, "print per-iteration info lines")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fens := suite
	if *fenFlag != "" {
		fens = []string{*fenFlag}
	}
	positions := make([]*board.Position, len(fens))
	for i, fen := range fens {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			log.Fatalf("position %d: %v", i+1, err)
		}
		positions[i] = pos
	}

	opts := engine.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if *verbose {
		opts.Info = func(si engine.SearchInfo) { fmt.Println("info", si) }
	}
	e := engine.NewEngine(engine.NewTranspositionTable(*hashFlag), nil, opts)

	fmt.Printf("searchbench: positions=%d depth=%d repeat=%d\n", len(positions), *depthFlag, *repeatFlag)

	var totalNodes uint64
	startAll := time.Now()
	for r := 0; r < *repeatFlag; r++ {
		for i, pos := range positions {
			e.NewGame()
			res := e.FindBestMove(context.Background(), pos, engine.Limits{Depth: *depthFlag})
			totalNodes += res.Nodes
			fmt.Printf("position %d: bestmove %s score %s nodes %d time=%v\n",
				i+1, res.Move, engine.ScoreString(res.Score), res.Nodes, res.Time)
		}
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total nodes: %d time: %v nps: %.0f\n",
		totalNodes, totalElapsed, float64(totalNodes)/totalElapsed.Seconds())

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}
}
