package core

import (
	"testing"
	"time"

	"wavefeed-backend/internal/model"
)

func TestResolveMode(t *testing.T) {
	for _, data := range []struct {
		name    string
		query   string
		filters FilterSet
		expect  Mode
	}{
		{"both inactive", "", FilterSet{}, ModeNone},
		{"blank query inactive", "   ", FilterSet{}, ModeNone},
		{"time range all inactive", "", FilterSet{TimeRange: TimeRangeAll}, ModeNone},
		{"invalid time range inactive", "", FilterSet{TimeRange: "fortnight"}, ModeNone},
		{"query only", "synth", FilterSet{}, ModeSearchOnly},
		{"query with surrounding blanks", "  synth  ", FilterSet{}, ModeSearchOnly},
		{"following only", "", FilterSet{Following: true}, ModeFilterOnly},
		{"types only", "", FilterSet{ActivityTypes: []model.ActivityType{model.ActivityTrack}}, ModeFilterOnly},
		{"time range only", "", FilterSet{TimeRange: TimeRangeWeek}, ModeFilterOnly},
		{"both active", "synth", FilterSet{TimeRange: TimeRangeWeek}, ModeSearchAndFilter},
	} {
		if got := ResolveMode(data.query, data.filters); got != data.expect {
			t.Errorf("%s: ResolveMode(%q) want %s got %s", data.name, data.query, data.expect, got)
		}
	}
}

func TestResolveModeDeterministic(t *testing.T) {
	filters := FilterSet{Following: true, TimeRange: TimeRangeMonth}
	first := ResolveMode("beats", filters)
	for i := 0; i < 10; i++ {
		if got := ResolveMode("beats", filters); got != first {
			t.Fatalf("ResolveMode not deterministic: %s != %s", got, first)
		}
	}
}

func TestFilterSetNormalized(t *testing.T) {
	fs := FilterSet{
		TimeRange: "fortnight",
		ActivityTypes: []model.ActivityType{
			model.ActivityTrack,
			model.ActivityType(99),
			model.ActivityPost,
			model.ActivityTrack,
		},
	}
	out, ignored := fs.Normalized()
	if len(ignored) != 2 {
		t.Fatalf("want 2 ignored facet values got %d: %v", len(ignored), ignored)
	}
	if out.TimeRange != TimeRangeAll {
		t.Errorf("invalid time range should normalize to all, got %s", out.TimeRange)
	}
	if len(out.ActivityTypes) != 2 {
		t.Fatalf("want 2 deduplicated types got %d", len(out.ActivityTypes))
	}
	if out.ActivityTypes[0] != model.ActivityPost || out.ActivityTypes[1] != model.ActivityTrack {
		t.Errorf("types not sorted: %v", out.ActivityTypes)
	}
}

func TestFingerprintIgnoresTypeOrder(t *testing.T) {
	a := FilterSet{ActivityTypes: []model.ActivityType{model.ActivityTrack, model.ActivityPost}}
	b := FilterSet{ActivityTypes: []model.ActivityType{model.ActivityPost, model.ActivityTrack}}
	na, _ := a.Normalized()
	nb, _ := b.Normalized()
	if Fingerprint("q", na) != Fingerprint("q", nb) {
		t.Errorf("fingerprint should not depend on activity type insertion order")
	}
	if Fingerprint("q", na) == Fingerprint("q", FilterSet{TimeRange: TimeRangeAll}) {
		t.Errorf("fingerprint should reflect active facets")
	}
}

func TestTimeRangeWindow(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	for _, data := range []struct {
		r           TimeRange
		constrained bool
		start       int64
	}{
		{TimeRangeAll, false, 0},
		{"", false, 0},
		{TimeRangeToday, true, now.Add(-24 * time.Hour).Unix()},
		{TimeRangeWeek, true, now.Add(-7 * 24 * time.Hour).Unix()},
		{TimeRangeMonth, true, now.Add(-30 * 24 * time.Hour).Unix()},
	} {
		start, constrained := data.r.Window(now)
		if constrained != data.constrained || start != data.start {
			t.Errorf("Window(%q) want (%d,%t) got (%d,%t)", data.r, data.start, data.constrained, start, constrained)
		}
	}
}
