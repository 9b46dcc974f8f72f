package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slices"

	"bitboard-engine/board"
)

const (
	// MaxDepth is the iteration limit when no depth is requested.
	MaxDepth = 99

	nullMoveReduction = 3

	// Late move reductions: from the lmrMoves-th move on, quiet moves are
	// searched lmrReduction plies shallower, but never below lmrMinDepth.
	lmrMoves     = 5
	lmrReduction = 2
	lmrMinDepth  = 3

	// With a game clock, stop deepening once the best root move leads the
	// second best by more than earlyStopMargin past earlyStopDepth.
	earlyStopMargin = 500
	earlyStopDepth  = 8

	maxPVLength = 20
)

// Options configure an Engine.
type Options struct {
	// MoveOverhead is subtracted from clock-based budgets for transport delay.
	MoveOverhead time.Duration
	Logger       *slog.Logger
	// Info, if set, receives one report per completed iteration. It is
	// called from the searching goroutine.
	Info func(SearchInfo)
}

// SearchInfo is the progress report for one completed depth.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	NPS      uint64
	Hashfull int
	PV       []board.Move
}

// Result is the outcome of FindBestMove. Move is NullMove only when the
// position has no legal move.
type Result struct {
	Move  board.Move
	Score int
	Depth int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
	Cuts  CutStatistics
}

// Engine runs one search at a time against a shared transposition table.
type Engine struct {
	mu      sync.Mutex
	tt      *TranspositionTable
	eval    Evaluator
	opts    Options
	running atomic.Pointer[SearchContext]
}

// NewEngine builds an engine. A nil evaluator selects PSQTEvaluator.
func NewEngine(tt *TranspositionTable, eval Evaluator, opts Options) *Engine {
	if eval == nil {
		eval = PSQTEvaluator{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{tt: tt, eval: eval, opts: opts}
}

// NewGame forgets everything learned in previous searches.
func (e *Engine) NewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Clear()
}

// SetHashSize reallocates the transposition table to mb megabytes.
func (e *Engine) SetHashSize(mb int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Resize(mb)
	e.opts.Logger.Info("transposition table resized",
		slog.Int("mb", mb),
		slog.Int("entries", e.tt.Len()))
}

func (e *Engine) SetMoveOverhead(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.MoveOverhead = d
}

// Stop cancels the running search, if any. FindBestMove still returns a move.
func (e *Engine) Stop() {
	if sc := e.running.Load(); sc != nil {
		sc.stopped.Store(true)
	}
}

// OrderedMoves lists the legal moves of pos in the order the search would
// first try them at the root.
func (e *Engine) OrderedMoves(pos *board.Position) []board.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	sc := newSearchContext(pos.Clone(), e.tt, e.eval, nil)
	moves := sc.pos.GenerateLegalMoves()
	sc.orderMoves(moves, -Infinity, Infinity, true)
	return moves
}

// FindBestMove searches pos, which is left unchanged, until limits or ctx
// end the search.
func (e *Engine) FindBestMove(ctx context.Context, pos *board.Position, limits Limits) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	sc := newSearchContext(pos.Clone(), e.tt, e.eval, e.opts.Info)
	e.running.Store(sc)
	defer e.running.Store(nil)

	moves := sc.pos.GenerateLegalMoves()
	if len(moves) == 0 {
		return Result{}
	}
	if limits.HasClock() && len(moves) == 1 {
		return Result{Move: moves[0], PV: moves[:1]}
	}

	budget := SearchTime(limits, pos.Turn(), e.opts.MoveOverhead)
	sc.startTimer(ctx, budget, limits.Infinite)
	defer sc.finish()

	depth := MaxDepth
	if limits.Depth > 0 {
		depth = min(limits.Depth, MaxDepth)
	}
	e.opts.Logger.Debug("search started",
		slog.String("fen", pos.FEN()),
		slog.Int("depth", depth),
		slog.Duration("budget", budget),
		slog.Bool("infinite", limits.Infinite))

	res := sc.searchRoot(moves, depth, limits.HasClock())

	e.opts.Logger.Debug("search finished",
		slog.String("move", res.Move.String()),
		slog.Int("score", res.Score),
		slog.Int("depth", res.Depth),
		slog.Uint64("nodes", res.Nodes),
		slog.Duration("elapsed", res.Time),
		slog.Bool("stopped", sc.stopped.Load()),
		slog.Any("cuts", res.Cuts))
	return res
}

// SearchContext is the state of a single search. It is created by
// FindBestMove and threaded by pointer through the recursion.
type SearchContext struct {
	pos  *board.Position
	tt   *TranspositionTable
	eval Evaluator
	info func(SearchInfo)

	stopped atomic.Bool
	nodes   uint64
	cuts    CutStatistics
	ply     int
	// afterNull is set while the child of a null move is being entered.
	afterNull bool

	moveBufs  [][]board.Move
	orderBufs [][]scoredMove

	start time.Time
	timer *time.Timer
	done  chan struct{}
	wg    sync.WaitGroup
}

func newSearchContext(pos *board.Position, tt *TranspositionTable, eval Evaluator, info func(SearchInfo)) *SearchContext {
	return &SearchContext{
		pos:       pos,
		tt:        tt,
		eval:      eval,
		info:      info,
		moveBufs:  make([][]board.Move, MaxPly+1),
		orderBufs: make([][]scoredMove, MaxPly+1),
		start:     time.Now(),
		done:      make(chan struct{}),
	}
}

// startTimer raises the stop flag once budget has elapsed or ctx is done.
// An infinite search only stops through ctx or Engine.Stop.
func (sc *SearchContext) startTimer(ctx context.Context, budget time.Duration, infinite bool) {
	var timeout <-chan time.Time
	if !infinite {
		sc.timer = time.NewTimer(budget)
		timeout = sc.timer.C
	}
	sc.wg.Add(1)
	go func() {
		defer sc.wg.Done()
		select {
		case <-timeout:
		case <-ctx.Done():
		case <-sc.done:
			return
		}
		sc.stopped.Store(true)
	}()
}

// finish releases the timer goroutine and waits for it.
func (sc *SearchContext) finish() {
	close(sc.done)
	sc.wg.Wait()
	if sc.timer != nil {
		sc.timer.Stop()
	}
}

func (sc *SearchContext) play(m board.Move) {
	sc.pos.PlayMove(m)
	sc.ply++
}

func (sc *SearchContext) undo() {
	sc.pos.UndoMove()
	sc.ply--
}

func (sc *SearchContext) moveBuf(ply int) []board.Move {
	if sc.moveBufs[ply] == nil {
		sc.moveBufs[ply] = make([]board.Move, 0, board.MaxMoves)
	}
	return sc.moveBufs[ply][:0]
}

func lmrDepth(depth int) int {
	return max(min(lmrMinDepth, depth), depth-lmrReduction)
}

type rootMove struct {
	move        board.Move
	score       int
	raisedAlpha bool
}

// searchRoot runs iterative deepening over the legal root moves.
func (sc *SearchContext) searchRoot(moves []board.Move, maxDepth int, forGame bool) Result {
	pos := sc.pos
	sc.orderMoves(moves, -Infinity, Infinity, true)
	root := make([]rootMove, len(moves))
	for i, m := range moves {
		root[i].move = m
	}

	res := Result{Move: root[0].move, PV: []board.Move{root[0].move}}

	for depth := 1; depth <= maxDepth; depth++ {
		alpha, beta := -Infinity, Infinity
		iterBest := root[0].move

		for i := range root {
			m := root[i].move
			capture := pos.PieceAt(m.To()) != board.NoPiece

			sc.play(m)
			d := depth
			if i >= lmrMoves && !capture && !m.IsPromotion() && !pos.InCheck() {
				d = lmrDepth(depth)
			}
			score := sc.searchChild(i == 0, d, depth, alpha, beta)
			sc.undo()

			if sc.stopped.Load() {
				return sc.result(res)
			}
			if IsWin(score) {
				res.Move, res.Score, res.Depth = m, score, depth
				res.PV = sc.principalVariation(m)
				sc.report(res)
				return sc.result(res)
			}

			root[i].score = score
			root[i].raisedAlpha = score > alpha
			if score > alpha {
				alpha = score
				iterBest = m
			}
		}

		slices.SortStableFunc(root, func(a, b rootMove) int {
			if a.raisedAlpha != b.raisedAlpha {
				if a.raisedAlpha {
					return -1
				}
				return 1
			}
			return b.score - a.score
		})

		sc.tt.Save(pos.Hash(), scoreToTT(alpha, 0), depth, iterBest, BoundExact)
		res.Move, res.Score, res.Depth = iterBest, alpha, depth
		res.PV = sc.principalVariation(iterBest)
		sc.report(res)

		if forGame && depth > earlyStopDepth && len(root) > 1 &&
			root[0].score-earlyStopMargin > root[1].score {
			break
		}
	}
	return sc.result(res)
}

// searchChild searches the position after a move with principal variation
// search. The first move gets the full window; later moves get a null
// window at the (possibly reduced) depth d and are re-searched at full
// depth and then with the full window while they keep beating alpha.
func (sc *SearchContext) searchChild(first bool, d, depth, alpha, beta int) int {
	if first {
		return -sc.negamax(d-1, -beta, -alpha)
	}
	score := -sc.negamax(d-1, -alpha-1, -alpha)
	if score > alpha && d < depth {
		sc.cuts.LMRReSearches++
		score = -sc.negamax(depth-1, -alpha-1, -alpha)
	}
	if score > alpha && score < beta {
		sc.cuts.PVSReSearches++
		score = -sc.negamax(depth-1, -beta, -alpha)
	}
	return score
}

func (sc *SearchContext) result(res Result) Result {
	res.Nodes = sc.nodes
	res.Cuts = sc.cuts
	res.Time = time.Since(sc.start)
	return res
}

func (sc *SearchContext) report(res Result) {
	if sc.info == nil {
		return
	}
	elapsed := time.Since(sc.start)
	var nps uint64
	if elapsed > 0 {
		nps = uint64(float64(sc.nodes) / elapsed.Seconds())
	}
	sc.info(SearchInfo{
		Depth:    res.Depth,
		Score:    res.Score,
		Nodes:    sc.nodes,
		Time:     elapsed,
		NPS:      nps,
		Hashfull: sc.tt.Hashfull(),
		PV:       res.PV,
	})
}

func (sc *SearchContext) negamax(depth, alpha, beta int) int {
	afterNull := sc.afterNull
	sc.afterNull = false

	if sc.stopped.Load() {
		return 0
	}
	pos := sc.pos
	if pos.IsDrawByInsufficientMaterial() || pos.IsDrawByRepetition() {
		return DrawScore
	}
	if depth <= 0 {
		return sc.quiescence(alpha, beta)
	}
	sc.nodes++
	if sc.ply >= MaxPly {
		return sc.eval.Evaluate(pos)
	}

	moves := pos.GenerateLegalMovesInto(sc.moveBuf(sc.ply))
	sc.moveBufs[sc.ply] = moves
	hash := pos.Hash()

	if entry := sc.tt.Lookup(hash); entry.Hash == hash && int(entry.Depth) >= depth &&
		entry.Move != board.NullMove && slices.Contains(moves, entry.Move) {
		score := scoreFromTT(int(entry.Score), sc.ply)
		switch {
		case entry.Bound == BoundExact,
			entry.Bound == BoundFailLow && score <= alpha,
			entry.Bound == BoundFailHigh && score >= beta:
			sc.cuts.TTCutoffs++
			return score
		}
	}

	inCheck := pos.InCheck()
	if len(moves) == 0 {
		if inCheck {
			return MatedIn(sc.ply)
		}
		return DrawScore
	}

	if !inCheck && !afterNull && hasNonPawnMaterial(pos, pos.Turn()) {
		ep := pos.PlayNull()
		sc.ply++
		sc.afterNull = true
		score := -sc.negamax(depth-nullMoveReduction, -beta, -beta+1)
		sc.afterNull = false
		sc.ply--
		pos.UndoNull(ep)
		if sc.stopped.Load() {
			return 0
		}
		if score >= beta {
			sc.cuts.NullMoveCutoffs++
			if IsWin(score) {
				return beta
			}
			return score
		}
	}

	sc.orderMoves(moves, alpha, beta, depth > 3)

	startAlpha := alpha
	best := board.NullMove
	for i, m := range moves {
		capture := pos.PieceAt(m.To()) != board.NoPiece

		sc.play(m)
		d := depth
		if i >= lmrMoves && !inCheck && !capture && !m.IsPromotion() && !pos.InCheck() {
			d = lmrDepth(depth)
		}
		score := sc.searchChild(i == 0, d, depth, alpha, beta)
		sc.undo()

		if sc.stopped.Load() {
			return 0
		}
		if score > alpha {
			alpha = score
			best = m
		}
		if alpha >= beta {
			sc.cuts.BetaCutoffs++
			sc.tt.Save(hash, scoreToTT(alpha, sc.ply), depth, best, BoundFailHigh)
			return alpha
		}
	}

	if alpha > startAlpha {
		sc.tt.Save(hash, scoreToTT(alpha, sc.ply), depth, best, BoundExact)
	} else {
		sc.tt.Save(hash, scoreToTT(alpha, sc.ply), depth, moves[0], BoundFailLow)
	}
	return alpha
}

// quiescence resolves captures and promotions (or check evasions) until
// the position is quiet enough for the static evaluation.
func (sc *SearchContext) quiescence(alpha, beta int) int {
	if sc.stopped.Load() {
		return 0
	}
	sc.nodes++
	pos := sc.pos
	if pos.IsDrawByInsufficientMaterial() || pos.IsDrawByRepetition() {
		return DrawScore
	}
	if sc.ply >= MaxPly {
		return sc.eval.Evaluate(pos)
	}

	moves := pos.GenerateTacticalMovesInto(sc.moveBuf(sc.ply))
	sc.moveBufs[sc.ply] = moves
	if len(moves) == 0 && pos.InCheck() {
		return MatedIn(sc.ply)
	}

	standPat := sc.eval.Evaluate(pos)
	if standPat >= beta {
		sc.cuts.QStandPatCutoffs++
		return beta
	}
	alpha = max(alpha, standPat)

	sc.orderMoves(moves, alpha, beta, false)
	for i, m := range moves {
		sc.play(m)
		var score int
		if i == 0 {
			score = -sc.quiescence(-beta, -alpha)
		} else {
			score = -sc.quiescence(-alpha-1, -alpha)
			if score > alpha && score < beta {
				score = -sc.quiescence(-beta, -alpha)
			}
		}
		sc.undo()

		if sc.stopped.Load() {
			return 0
		}
		alpha = max(alpha, score)
		if alpha >= beta {
			sc.cuts.QBetaCutoffs++
			return beta
		}
	}
	return alpha
}

// principalVariation follows stored best moves from the root, starting with
// first, for as long as they are legal.
func (sc *SearchContext) principalVariation(first board.Move) []board.Move {
	pos := sc.pos
	pv := make([]board.Move, 0, maxPVLength)
	m := first
	for len(pv) < maxPVLength && pos.IsLegalMove(m) {
		pv = append(pv, m)
		pos.PlayMove(m)
		entry := sc.tt.Lookup(pos.Hash())
		if entry.Hash != pos.Hash() {
			break
		}
		m = entry.Move
	}
	for range pv {
		pos.UndoMove()
	}
	return pv
}
