package engine

import (
	"time"

	"bitboard-engine/board"
)

// Limits are the constraints a search runs under. Zero fields are unset.
type Limits struct {
	Depth    int
	MoveTime time.Duration
	WTime    time.Duration
	BTime    time.Duration
	WInc     time.Duration
	BInc     time.Duration
	Infinite bool
}

// HasClock reports whether any game clock value was given, i.e. the search
// is part of a timed game rather than an analysis request.
func (l Limits) HasClock() bool {
	return l.WTime != 0 || l.BTime != 0 || l.WInc != 0 || l.BInc != 0
}

const (
	// DefaultSearchTime applies when no time information is given at all.
	DefaultSearchTime = time.Hour

	lowClock     = 10 * time.Second
	lowClockMove = 100 * time.Millisecond
	clockDivisor = 20
)

// SearchTime returns how long side may think. overhead is the expected
// transport delay; it is taken off both the clock and the budget.
func SearchTime(limits Limits, side board.Side, overhead time.Duration) time.Duration {
	var t time.Duration
	switch {
	case limits.MoveTime > 0:
		t = limits.MoveTime
	case side == board.White:
		t = clockBudget(limits.WTime, limits.WInc, overhead)
	default:
		t = clockBudget(limits.BTime, limits.BInc, overhead)
	}
	if limits.HasClock() {
		t = max(t, time.Millisecond)
	}
	if t == 0 {
		return DefaultSearchTime
	}
	return t
}

func clockBudget(remaining, inc, overhead time.Duration) time.Duration {
	remaining -= overhead

	var t time.Duration
	if remaining < lowClock {
		t = inc + lowClockMove
	} else {
		t = inc + remaining/clockDivisor
	}

	t = min(remaining, t)
	t -= overhead
	return max(0, t)
}
