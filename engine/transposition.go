package engine

import (
	"unsafe"

	"bitboard-engine/board"
)

// Bound says how a stored score relates to the true value of the node.
type Bound uint8

const (
	BoundExact    Bound = iota
	BoundFailLow        // upper bound: nothing beat alpha
	BoundFailHigh       // lower bound: a move reached beta
)

// TTEntry is one 16-byte slot. A slot that was never written is all zero.
type TTEntry struct {
	Hash  uint64
	Score int32
	Move  board.Move
	Depth int8
	Bound Bound
}

var entrySize = uint64(unsafe.Sizeof(TTEntry{}))

// TranspositionTable is a fixed-size, always-replace table indexed by hash
// modulo its length. It is not safe for concurrent use.
type TranspositionTable struct {
	entries []TTEntry
	filled  int
}

// NewTranspositionTable allocates mb megabytes of slots. A size of 0 gives a
// table that stores nothing and never hits.
func NewTranspositionTable(mb int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(mb)
	return tt
}

// Resize reallocates the table, dropping every entry.
func (tt *TranspositionTable) Resize(mb int) {
	mb = max(mb, 0)
	tt.entries = make([]TTEntry, uint64(mb)*1024*1024/entrySize)
	tt.filled = 0
}

func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.filled = 0
}

// Len is the number of slots.
func (tt *TranspositionTable) Len() int { return len(tt.entries) }

// Filled is the number of slots written at least once since the last clear.
func (tt *TranspositionTable) Filled() int { return tt.filled }

// Hashfull reports usage in permille.
func (tt *TranspositionTable) Hashfull() int {
	if len(tt.entries) == 0 {
		return 0
	}
	return tt.filled * 1000 / len(tt.entries)
}

// Save overwrites the slot for hash.
func (tt *TranspositionTable) Save(hash uint64, score, depth int, move board.Move, bound Bound) {
	if len(tt.entries) == 0 {
		return
	}
	slot := &tt.entries[hash%uint64(len(tt.entries))]
	if *slot == (TTEntry{}) {
		tt.filled++
	}
	*slot = TTEntry{
		Hash:  hash,
		Score: int32(score),
		Move:  move,
		Depth: int8(clamp(depth, 0, 127)),
		Bound: bound,
	}
}

// Lookup returns the slot hash maps to. The caller must compare Hash.
func (tt *TranspositionTable) Lookup(hash uint64) TTEntry {
	if len(tt.entries) == 0 {
		return TTEntry{}
	}
	return tt.entries[hash%uint64(len(tt.entries))]
}

// scoreToTT makes a mate score relative to the node being stored.
func scoreToTT(score, ply int) int {
	switch {
	case IsWin(score):
		return score + ply
	case IsLoss(score):
		return score - ply
	}
	return score
}

// scoreFromTT turns a stored mate score back into a distance from the root.
func scoreFromTT(score, ply int) int {
	switch {
	case IsWin(score):
		return score - ply
	case IsLoss(score):
		return score + ply
	}
	return score
}
