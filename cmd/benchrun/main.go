package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// run executes a command and prints its combined output. Returns exit code.
func run(name string, args ...string) int {
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	fmt.Print(out.String())
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error running %s: %v\n", name, err)
	return 1
}

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

// Runs the package benchmarks, then perft and search throughput.
// Usage: go run ./cmd/benchrun [-perft 6] [-search 8]
func main() {
	perftDepth := flag.Int("perft", 5, "deepest start-position perft to time")
	searchDepth := flag.Int("search", 7, "searchbench depth (0 to skip)")
	flag.Parse()

	fmt.Println("Columns: BENCHMARK  N  ns/op  B/op  allocs/op")
	code := run("go", "test", "./board", "./engine", "-run", "^$", "-bench", ".", "-benchmem", "-benchtime=1s")
	if code != 0 {
		os.Exit(code)
	}

	fmt.Println("\nPerft Performance:")
	fmt.Println("TEST \t\tDepth \t\tNodes \t\tTime \tNPS")
	for d := 3; d <= *perftDepth; d++ {
		run("go", "run", "./cmd/perft", "-depth", strconv.Itoa(d), "-label", "Initial")
	}
	_ = run("go", "run", "./cmd/perft", "-fen", kiwipete, "-depth", "3", "-label", "Kiwipete")

	if *searchDepth > 0 {
		fmt.Println("\nSearch Performance:")
		_ = run("go", "run", "./cmd/searchbench", "-depth", strconv.Itoa(*searchDepth))
	}
	os.Exit(0)
}
