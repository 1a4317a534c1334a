package service

import (
	"time"

	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
)

// combineOutcome carries the raw material of one combine operation from the
// fetch phase to the aggregation phase.
type combineOutcome struct {
	items          []*model.PostFormatted
	searchTotal    int64
	filterTotal    int64
	combinedTotal  int64
	candidateTotal int64
}

// resultAggregator merges per-mode counts into a CombinedResult and detects
// transitions. It retains only the previous invocation's mode, result-set
// fingerprint and pagination mode; Clear drops that memory. The aggregator
// is owned by a coordinator instance, never shared.
type resultAggregator struct {
	prevMode    core.Mode
	prevKey     string
	prevPagMode core.PaginationMode
	primed      bool
}

// Combine builds the result for one operation. A pagination reset is
// required whenever the mode changed, the result-set identity changed, or
// the pagination strategy flipped between client and server, and always on
// the first operation after a Clear.
func (a *resultAggregator) Combine(mode core.Mode, out *combineOutcome, key string, pagMode core.PaginationMode, elapsed time.Duration) *core.CombinedResult {
	var total int64
	switch mode {
	case core.ModeNone:
		total = out.candidateTotal
	case core.ModeSearchOnly:
		total = out.searchTotal
	case core.ModeFilterOnly:
		total = out.filterTotal
	case core.ModeSearchAndFilter:
		total = out.combinedTotal
	}

	fromMode := core.ModeNone
	if a.primed {
		fromMode = a.prevMode
	}
	reset := !a.primed || mode != a.prevMode || key != a.prevKey || pagMode != a.prevPagMode

	a.prevMode = mode
	a.prevKey = key
	a.prevPagMode = pagMode
	a.primed = true

	return &core.CombinedResult{
		AppliedMode:  mode,
		TotalResults: total,
		ResultCount: core.ResultCount{
			SearchMatches:   out.searchTotal,
			FilterMatches:   out.filterTotal,
			CombinedMatches: out.combinedTotal,
		},
		PerformanceMetrics: core.PerformanceMetrics{
			TotalTime: elapsed.Milliseconds(),
		},
		StateTransition: core.StateTransition{
			FromMode:                fromMode,
			ToMode:                  mode,
			RequiresPaginationReset: reset,
		},
	}
}

func (a *resultAggregator) Clear() {
	*a = resultAggregator{}
}
