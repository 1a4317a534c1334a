package service

import (
	"testing"
	"time"

	"wavefeed-backend/internal/core"
)

func TestCombineTotalsFollowMode(t *testing.T) {
	for _, data := range []struct {
		mode   core.Mode
		out    *combineOutcome
		expect int64
	}{
		{core.ModeNone, &combineOutcome{candidateTotal: 7}, 7},
		{core.ModeSearchOnly, &combineOutcome{searchTotal: 12}, 12},
		{core.ModeFilterOnly, &combineOutcome{filterTotal: 5, candidateTotal: 7}, 5},
		{core.ModeSearchAndFilter, &combineOutcome{searchTotal: 10, filterTotal: 4, combinedTotal: 4}, 4},
	} {
		agg := &resultAggregator{}
		result := agg.Combine(data.mode, data.out, "k", core.PaginationClient, time.Millisecond)
		if result.TotalResults != data.expect {
			t.Errorf("mode %s: TotalResults want %d got %d", data.mode, data.expect, result.TotalResults)
		}
		if result.AppliedMode != data.mode {
			t.Errorf("mode %s: AppliedMode mismatch", data.mode)
		}
	}
}

func TestCombineIntersectionInvariant(t *testing.T) {
	agg := &resultAggregator{}
	out := &combineOutcome{searchTotal: 10, filterTotal: 4, combinedTotal: 4}
	result := agg.Combine(core.ModeSearchAndFilter, out, "k", core.PaginationClient, 0)
	c := result.ResultCount
	min := c.SearchMatches
	if c.FilterMatches < min {
		min = c.FilterMatches
	}
	if c.CombinedMatches > min {
		t.Fatalf("combined %d exceeds min(search %d, filter %d)", c.CombinedMatches, c.SearchMatches, c.FilterMatches)
	}
}

func TestCombineTransitions(t *testing.T) {
	agg := &resultAggregator{}

	first := agg.Combine(core.ModeSearchOnly, &combineOutcome{searchTotal: 3}, "q:a", core.PaginationServer, 0)
	if !first.StateTransition.RequiresPaginationReset {
		t.Errorf("first combine must reset pagination")
	}
	if first.StateTransition.FromMode != core.ModeNone {
		t.Errorf("first combine FromMode want none got %s", first.StateTransition.FromMode)
	}

	// identical resubmission, nothing changed
	second := agg.Combine(core.ModeSearchOnly, &combineOutcome{searchTotal: 3}, "q:a", core.PaginationServer, 0)
	if second.StateTransition.RequiresPaginationReset {
		t.Errorf("identical resubmission must not reset pagination")
	}
	if second.StateTransition.FromMode != core.ModeSearchOnly || second.StateTransition.ToMode != core.ModeSearchOnly {
		t.Errorf("unexpected transition %+v", second.StateTransition)
	}

	// same mode, different result-set identity
	third := agg.Combine(core.ModeSearchOnly, &combineOutcome{searchTotal: 9}, "q:b", core.PaginationServer, 0)
	if !third.StateTransition.RequiresPaginationReset {
		t.Errorf("changed fingerprint must reset pagination even with unchanged mode")
	}

	// mode change
	fourth := agg.Combine(core.ModeFilterOnly, &combineOutcome{filterTotal: 2}, "q:c", core.PaginationClient, 0)
	if !fourth.StateTransition.RequiresPaginationReset {
		t.Errorf("mode change must reset pagination")
	}
	if fourth.StateTransition.FromMode != core.ModeSearchOnly {
		t.Errorf("FromMode want search-only got %s", fourth.StateTransition.FromMode)
	}
}

func TestCombinePaginationModeFlipForcesReset(t *testing.T) {
	agg := &resultAggregator{}
	agg.Combine(core.ModeFilterOnly, &combineOutcome{filterTotal: 2}, "k", core.PaginationClient, 0)
	flipped := agg.Combine(core.ModeFilterOnly, &combineOutcome{filterTotal: 2}, "k", core.PaginationServer, 0)
	if !flipped.StateTransition.RequiresPaginationReset {
		t.Errorf("client/server flip must force a pagination reset")
	}
}

func TestCombineClearDropsMemory(t *testing.T) {
	agg := &resultAggregator{}
	agg.Combine(core.ModeSearchOnly, &combineOutcome{searchTotal: 1}, "k", core.PaginationServer, 0)
	agg.Clear()
	after := agg.Combine(core.ModeSearchOnly, &combineOutcome{searchTotal: 1}, "k", core.PaginationServer, 0)
	if !after.StateTransition.RequiresPaginationReset {
		t.Errorf("first combine after Clear must reset pagination")
	}
	if after.StateTransition.FromMode != core.ModeNone {
		t.Errorf("FromMode after Clear want none got %s", after.StateTransition.FromMode)
	}
}

func TestCombineMetrics(t *testing.T) {
	agg := &resultAggregator{}
	result := agg.Combine(core.ModeNone, &combineOutcome{candidateTotal: 1}, "k", core.PaginationClient, 1500*time.Millisecond)
	if result.PerformanceMetrics.TotalTime != 1500 {
		t.Errorf("TotalTime want 1500ms got %d", result.PerformanceMetrics.TotalTime)
	}
}
