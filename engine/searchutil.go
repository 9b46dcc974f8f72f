package engine

import (
	"fmt"
	"strings"

	"bitboard-engine/board"
)

// ScoreString formats a score for the protocol: "cp N", or "mate N" with N
// in moves, negative when the side to move is being mated.
func ScoreString(score int) string {
	if !IsMateScore(score) {
		return fmt.Sprintf("cp %d", score)
	}
	plies := MateScore - abs(score)
	moves := (plies + 1) / 2
	if score < 0 {
		moves = -moves
	}
	return fmt.Sprintf("mate %d", moves)
}

// MovesString joins moves with spaces.
func MovesString(moves []board.Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// String renders the report as a protocol info line without the leading "info".
func (si SearchInfo) String() string {
	s := fmt.Sprintf("depth %d score %s nodes %d time %d nps %d hashfull %d",
		si.Depth, ScoreString(si.Score), si.Nodes, si.Time.Milliseconds(), si.NPS, si.Hashfull)
	if len(si.PV) > 0 {
		s += " pv " + MovesString(si.PV)
	}
	return s
}
