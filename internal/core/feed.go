package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"wavefeed-backend/internal/model"
)

// Mode classifies the active query/filter combination. It is derived, never
// stored: every state-changing input goes through ResolveMode before any
// fetch is issued.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeSearchOnly
	ModeFilterOnly
	ModeSearchAndFilter
)

var modeNames = map[Mode]string{
	ModeNone:            "none",
	ModeSearchOnly:      "search-only",
	ModeFilterOnly:      "filter-only",
	ModeSearchAndFilter: "search-and-filter",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(m))
}

func (m Mode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

type TimeRange string

const (
	TimeRangeAll   TimeRange = "all"
	TimeRangeToday TimeRange = "today"
	TimeRangeWeek  TimeRange = "week"
	TimeRangeMonth TimeRange = "month"
)

func (t TimeRange) Valid() bool {
	switch t {
	case TimeRangeAll, TimeRangeToday, TimeRangeWeek, TimeRangeMonth, "":
		return true
	}
	return false
}

// Window reports the inclusive lower bound of [now-window, now] as a unix
// timestamp. constrained is false for "all" and for the unset value.
func (t TimeRange) Window(now time.Time) (start int64, constrained bool) {
	switch t {
	case TimeRangeToday:
		return now.Add(-24 * time.Hour).Unix(), true
	case TimeRangeWeek:
		return now.Add(-7 * 24 * time.Hour).Unix(), true
	case TimeRangeMonth:
		return now.Add(-30 * 24 * time.Hour).Unix(), true
	}
	return 0, false
}

type PaginationMode string

const (
	PaginationClient PaginationMode = "client"
	PaginationServer PaginationMode = "server"
)

// FilterSet is the facet mapping of one feed view. The zero value
// constrains nothing: absence of a facet means "no restriction".
type FilterSet struct {
	Following     bool
	ActivityTypes []model.ActivityType
	TimeRange     TimeRange
}

// Active reports whether any facet constrains results.
func (f FilterSet) Active() bool {
	if f.Following || len(f.ActivityTypes) > 0 {
		return true
	}
	return f.TimeRange != "" && f.TimeRange != TimeRangeAll && f.TimeRange.Valid()
}

// Normalized returns a canonical copy: unrecognized facet values are
// dropped (reported in ignored so callers can log InvalidFilterValue),
// activity types are deduplicated and sorted, and an unset time range
// becomes TimeRangeAll. Insertion order of activity types never matters,
// only membership.
func (f FilterSet) Normalized() (out FilterSet, ignored []string) {
	out.Following = f.Following
	out.TimeRange = f.TimeRange
	if out.TimeRange == "" {
		out.TimeRange = TimeRangeAll
	} else if !out.TimeRange.Valid() {
		ignored = append(ignored, fmt.Sprintf("time_range: %s", out.TimeRange))
		out.TimeRange = TimeRangeAll
	}

	seen := make(map[model.ActivityType]bool, len(f.ActivityTypes))
	for _, t := range f.ActivityTypes {
		if !t.Valid() {
			ignored = append(ignored, fmt.Sprintf("activity_type: %s", t))
			continue
		}
		if !seen[t] {
			seen[t] = true
			out.ActivityTypes = append(out.ActivityTypes, t)
		}
	}
	sort.Slice(out.ActivityTypes, func(i, j int) bool {
		return out.ActivityTypes[i] < out.ActivityTypes[j]
	})
	return out, ignored
}

// Fingerprint identifies the result set a (query, filters) pair produces.
// Two submissions with equal fingerprints hit the same ordered result set,
// so an unchanged fingerprint never forces a pagination reset. Callers must
// pass a normalized filter set.
func Fingerprint(query string, f FilterSet) string {
	var b strings.Builder
	b.WriteString("q:")
	b.WriteString(strings.TrimSpace(query))
	b.WriteString("|f:")
	if f.Following {
		b.WriteString("1")
	} else {
		b.WriteString("0")
	}
	b.WriteString("|t:")
	for i, t := range f.ActivityTypes {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(t.String())
	}
	b.WriteString("|r:")
	b.WriteString(string(f.TimeRange))
	return b.String()
}

// ResolveMode derives the mode from the pair. Pure and total: no side
// effects, always exactly one of the four variants.
func ResolveMode(query string, filters FilterSet) Mode {
	queryActive := len(strings.TrimSpace(query)) > 0
	filtersActive := filters.Active()
	switch {
	case queryActive && filtersActive:
		return ModeSearchAndFilter
	case queryActive:
		return ModeSearchOnly
	case filtersActive:
		return ModeFilterOnly
	}
	return ModeNone
}

type ResultCount struct {
	SearchMatches   int64 `json:"search_matches"`
	FilterMatches   int64 `json:"filter_matches"`
	CombinedMatches int64 `json:"combined_matches"`
}

type PerformanceMetrics struct {
	// TotalTime wall-clock duration of the combine operation, milliseconds
	TotalTime int64 `json:"total_time"`
}

type StateTransition struct {
	FromMode                Mode `json:"from_mode"`
	ToMode                  Mode `json:"to_mode"`
	RequiresPaginationReset bool `json:"requires_pagination_reset"`
}

// CombinedResult is the outcome of one combine operation. It is immutable
// once produced and replaced wholesale by the next operation.
type CombinedResult struct {
	AppliedMode        Mode               `json:"applied_mode"`
	TotalResults       int64              `json:"total_results"`
	ResultCount        ResultCount        `json:"result_count"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
	StateTransition    StateTransition    `json:"state_transition"`
}

// PaginationState is produced together with its CombinedResult as one unit.
// PaginatedPosts holds the current page only (client mode accumulates pages,
// server mode replaces them) and never exceeds the configured page size
// times the current page.
type PaginationState struct {
	CurrentPage    int                    `json:"current_page"`
	PaginatedPosts []*model.PostFormatted `json:"paginated_posts"`
	HasMorePosts   bool                   `json:"has_more_posts"`
	PaginationMode PaginationMode         `json:"pagination_mode"`
}

// FeedDataService supplies the full candidate pool before any narrowing.
type FeedDataService interface {
	FetchCandidates(ctx context.Context) ([]*model.PostFormatted, error)
}

// FollowingService resolves the set of author addresses a user follows.
type FollowingService interface {
	FollowingSet(ctx context.Context, address string) (map[string]struct{}, error)
}

// CachedFeedService fronts a FeedDataService with an invalidatable cache.
type CachedFeedService interface {
	FeedDataService
	InvalidateCandidates()
}
