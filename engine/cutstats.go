package engine

import (
	"fmt"
	"log/slog"
)

// CutStatistics counts how often each pruning or cutoff mechanism fired
// during one search.
type CutStatistics struct {
	TTCutoffs        uint64
	NullMoveCutoffs  uint64
	BetaCutoffs      uint64
	LMRReSearches    uint64
	PVSReSearches    uint64
	QStandPatCutoffs uint64
	QBetaCutoffs     uint64
}

func (cs CutStatistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tt", cs.TTCutoffs),
		slog.Uint64("null_move", cs.NullMoveCutoffs),
		slog.Uint64("beta", cs.BetaCutoffs),
		slog.Uint64("lmr_research", cs.LMRReSearches),
		slog.Uint64("pvs_research", cs.PVSReSearches),
		slog.Uint64("q_stand_pat", cs.QStandPatCutoffs),
		slog.Uint64("q_beta", cs.QBetaCutoffs),
	)
}

// Lines renders the counters as protocol diagnostics.
func (cs CutStatistics) Lines() []string {
	return []string{
		"info string Cut statistics:",
		fmt.Sprintf("info string   TT cutoffs: %d", cs.TTCutoffs),
		fmt.Sprintf("info string   Null-move cutoffs: %d", cs.NullMoveCutoffs),
		fmt.Sprintf("info string   Beta cutoffs: %d", cs.BetaCutoffs),
		fmt.Sprintf("info string   LMR re-searches: %d", cs.LMRReSearches),
		fmt.Sprintf("info string   PVS re-searches: %d", cs.PVSReSearches),
		fmt.Sprintf("info string   QStandPat cutoffs: %d", cs.QStandPatCutoffs),
		fmt.Sprintf("info string   QBeta cutoffs: %d", cs.QBetaCutoffs),
	}
}
