// Package uci speaks the Universal Chess Interface over any reader/writer
// pair, plus a handful of debugging commands.
package uci

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"bitboard-engine/board"
	"bitboard-engine/config"
	"bitboard-engine/engine"
)

const (
	EngineName   = "Bitboard Engine 1.0"
	EngineAuthor = "Bitboard Engine authors"

	maxHashMB       = 4096
	maxMoveOverhead = 5000

	// defaultMoveTime applies to a bare "go".
	defaultMoveTime = 1000 * time.Millisecond
)

// Handler owns one engine and one current position. Commands are read
// sequentially; searches run in the background so "stop" and "isready" are
// answered while thinking.
type Handler struct {
	engine *engine.Engine
	logger *slog.Logger
	cfg    config.Config

	pos    *board.Position
	gameID uuid.UUID

	outMu sync.Mutex
	out   io.Writer

	cancel   context.CancelFunc
	infinite bool
	search   sync.WaitGroup

	// printCuts dumps the cutoff counters after the next search.
	printCuts bool
}

func NewHandler(cfg config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger: logger,
		cfg:    cfg,
		pos:    board.NewPosition(),
		gameID: uuid.New(),
		out:    io.Discard,
	}
	h.engine = engine.NewEngine(engine.NewTranspositionTable(cfg.HashMB), nil, engine.Options{
		MoveOverhead: cfg.MoveOverhead,
		Logger:       logger,
		Info:         h.printInfo,
	})
	return h
}

// Run processes commands from r until "quit", end of input or ctx is done.
// A search still running at end of input is allowed to finish unless it is
// infinite.
func (h *Handler) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	h.out = w
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		defer func() { scanErr <- scanner.Err() }()
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.stopSearch()
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					h.stopSearch()
					return err
				}
				if h.infinite {
					h.stopSearch()
				}
				h.search.Wait()
				return <-scanErr
			}
			if !h.Execute(ctx, line) {
				h.stopSearch()
				return nil
			}
		}
	}
}

// Execute handles a single command line. It reports false on "quit".
func (h *Handler) Execute(ctx context.Context, line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return true
	}
	switch strings.ToLower(tokens[0]) {
	case "uci":
		h.println("id name " + EngineName)
		h.println("id author " + EngineAuthor)
		h.printf("option name Hash type spin default %d min 0 max %d", h.cfg.HashMB, maxHashMB)
		h.printf("option name Move Overhead type spin default %d min 0 max %d",
			h.cfg.MoveOverhead.Milliseconds(), maxMoveOverhead)
		h.println("uciok")
	case "isready":
		h.println("readyok")
	case "ucinewgame":
		h.stopSearch()
		h.engine.NewGame()
		h.pos = board.NewPosition()
		h.gameID = uuid.New()
		h.logger.Info("new game", slog.String("game", h.gameID.String()))
	case "position":
		h.stopSearch()
		h.position(tokens[1:])
	case "go":
		h.stopSearch()
		h.goSearch(ctx, tokens[1:])
	case "stop":
		h.stopSearch()
	case "quit":
		return false
	case "setoption":
		h.stopSearch()
		h.setOption(tokens[1:])
	case "d":
		h.println(h.pos.String())
		h.printf("Key: %016x", h.pos.Hash())
	case "eval":
		h.printf("info string static evaluation %d", engine.PSQTEvaluator{}.Evaluate(h.pos))
	case "moves":
		h.stopSearch()
		h.println(engine.MovesString(h.engine.OrderedMoves(h.pos)))
	case "tacticalmoves":
		h.println(engine.MovesString(h.pos.GenerateTacticalMoves()))
	case "perft":
		h.perft(tokens[1:])
	case "cutstats":
		h.printCuts = true
	case "see":
		h.see(tokens[1:])
	case "playmove":
		h.playMove(tokens[1:])
	default:
		h.println("info string Unknown command: " + line)
	}
	return true
}

// position replaces the current position only when the whole command parses.
func (h *Handler) position(args []string) {
	if len(args) == 0 {
		h.println("info string Malformed position command")
		return
	}
	var pos *board.Position
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		i := slices.IndexFunc(rest, func(s string) bool { return strings.ToLower(s) == "moves" })
		if i < 0 {
			i = len(rest)
		}
		var err error
		pos, err = board.ParseFEN(strings.Join(rest[:i], " "))
		if err != nil {
			h.println("info string " + err.Error())
			return
		}
		rest = rest[i:]
	default:
		h.println("info string Invalid position subcommand " + args[0])
		return
	}

	if len(rest) > 0 {
		if strings.ToLower(rest[0]) != "moves" {
			h.println("info string Unexpected token " + rest[0])
			return
		}
		for _, text := range rest[1:] {
			m, err := pos.ParseMove(text)
			if err != nil {
				h.println("info string " + err.Error())
				return
			}
			pos.PlayMove(m)
		}
	}
	h.pos = pos
}

// parseLimits reads the arguments of "go". Unknown or malformed options are
// reported and skipped.
func (h *Handler) parseLimits(args []string) engine.Limits {
	var limits engine.Limits
	given := false
	for i := 0; i < len(args); i++ {
		name := strings.ToLower(args[i])
		if name == "infinite" {
			limits.Infinite = true
			given = true
			continue
		}

		var dst *time.Duration
		switch name {
		case "depth":
		case "movetime":
			dst = &limits.MoveTime
		case "wtime":
			dst = &limits.WTime
		case "btime":
			dst = &limits.BTime
		case "winc":
			dst = &limits.WInc
		case "binc":
			dst = &limits.BInc
		case "movestogo", "nodes", "mate":
			i++
			continue
		default:
			h.println("info string Unknown go subcommand " + name)
			continue
		}

		if i+1 >= len(args) {
			h.println("info string Malformed go command option " + name)
			break
		}
		i++
		n, err := strconv.Atoi(args[i])
		if err != nil {
			h.println("info string Malformed go command option; could not convert " + name)
			continue
		}
		given = true
		if dst == nil {
			limits.Depth = n
		} else {
			*dst = time.Duration(max(n, 0)) * time.Millisecond
		}
	}
	if !given {
		limits.MoveTime = defaultMoveTime
	}
	return limits
}

func (h *Handler) goSearch(ctx context.Context, args []string) {
	limits := h.parseLimits(args)
	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.infinite = limits.Infinite
	pos := h.pos.Clone()
	printCuts := h.printCuts
	h.printCuts = false

	h.search.Add(1)
	go func() {
		defer h.search.Done()
		defer cancel()
		res := h.engine.FindBestMove(ctx, pos, limits)
		if printCuts {
			for _, line := range res.Cuts.Lines() {
				h.println(line)
			}
		}
		if res.Move == board.NullMove {
			h.println("bestmove 0000")
			return
		}
		h.println("bestmove " + res.Move.String())
	}()
}

// stopSearch ends the running search, if any, and waits for its bestmove.
func (h *Handler) stopSearch() {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.infinite = false
	h.search.Wait()
}

func (h *Handler) setOption(args []string) {
	// setoption name <words...> value <v>
	if len(args) < 2 || strings.ToLower(args[0]) != "name" {
		h.println("info string Malformed setoption command")
		return
	}
	args = args[1:]
	i := slices.IndexFunc(args, func(s string) bool { return strings.ToLower(s) == "value" })
	if i < 0 || i+1 >= len(args) {
		h.println("info string Missing value for option " + strings.Join(args, " "))
		return
	}
	name := strings.ToLower(strings.Join(args[:i], " "))
	n, err := strconv.Atoi(args[i+1])
	if err != nil {
		h.println("info string Option value must be an integer: " + args[i+1])
		return
	}

	switch name {
	case "hash":
		h.cfg.HashMB = clamp(n, 0, maxHashMB)
		h.engine.SetHashSize(h.cfg.HashMB)
	case "move overhead":
		h.cfg.MoveOverhead = time.Duration(clamp(n, 0, maxMoveOverhead)) * time.Millisecond
		h.engine.SetMoveOverhead(h.cfg.MoveOverhead)
	default:
		h.println("info string Unknown option " + name)
	}
}

func (h *Handler) perft(args []string) {
	if len(args) != 1 {
		h.println("info string Usage: perft <depth>")
		return
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		h.println("info string Invalid perft depth " + args[0])
		return
	}
	start := time.Now()
	divide := board.PerftDivide(h.pos.Clone(), depth)
	elapsed := time.Since(start)

	moves := make([]board.Move, 0, len(divide))
	var total uint64
	for m, n := range divide {
		moves = append(moves, m)
		total += n
	}
	slices.SortFunc(moves, func(a, b board.Move) int { return cmp.Compare(a.String(), b.String()) })
	for _, m := range moves {
		h.printf("%s: %d", m, divide[m])
	}
	h.printf("Nodes searched: %d", total)
	h.printf("info string perft %d took %v", depth, elapsed.Round(time.Millisecond))
}

func (h *Handler) see(args []string) {
	if len(args) != 1 {
		h.println("info string Usage: see <move>")
		return
	}
	m, err := h.pos.ParseMove(args[0])
	if err != nil {
		h.println("info string " + err.Error())
		return
	}
	h.printf("info string see %s %d", m, engine.SEE(h.pos, m))
}

func (h *Handler) playMove(args []string) {
	if len(args) != 1 {
		h.println("info string Usage: playmove <move>|undo")
		return
	}
	if strings.ToLower(args[0]) == "undo" {
		h.pos.UndoMove()
		return
	}
	m, err := h.pos.ParseMove(args[0])
	if err != nil {
		h.println("info string " + err.Error())
		return
	}
	h.pos.PlayMove(m)
}

func (h *Handler) printInfo(si engine.SearchInfo) {
	h.println("info " + si.String())
}

func (h *Handler) println(s string) {
	h.outMu.Lock()
	defer h.outMu.Unlock()
	if _, err := fmt.Fprintln(h.out, s); err != nil {
		h.logger.Error("write failed", slog.Any("error", err))
	}
}

func (h *Handler) printf(format string, args ...any) {
	h.println(fmt.Sprintf(format, args...))
}

func clamp(x, low, high int) int {
	return max(low, min(x, high))
}
