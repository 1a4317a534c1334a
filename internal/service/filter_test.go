package service

import (
	"testing"
	"time"

	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func makePost(address string, t model.ActivityType, age time.Duration) *model.PostFormatted {
	return &model.PostFormatted{
		ID:        primitive.NewObjectID(),
		Address:   address,
		Type:      t,
		CreatedOn: testNow.Add(-age).Unix(),
	}
}

func TestEvaluateNoActiveFacets(t *testing.T) {
	e := newFilterEvaluator(fixedClock)
	candidates := []*model.PostFormatted{
		makePost("alice", model.ActivityPost, time.Hour),
		makePost("bob", model.ActivityTrack, 40*24*time.Hour),
	}
	fs, _ := core.FilterSet{}.Normalized()
	resp := e.Evaluate(candidates, fs, nil)
	if resp.Total != 2 || len(resp.Items) != 2 {
		t.Fatalf("empty filter set must not constrain, got total %d", resp.Total)
	}
}

func TestEvaluateConjunctive(t *testing.T) {
	e := newFilterEvaluator(fixedClock)
	candidates := []*model.PostFormatted{
		makePost("alice", model.ActivityTrack, time.Hour),            // passes all
		makePost("alice", model.ActivityPost, time.Hour),             // wrong type
		makePost("carol", model.ActivityTrack, time.Hour),            // not followed
		makePost("alice", model.ActivityTrack, 10*24*time.Hour),      // outside week
	}
	fs, _ := core.FilterSet{
		Following:     true,
		ActivityTypes: []model.ActivityType{model.ActivityTrack},
		TimeRange:     core.TimeRangeWeek,
	}.Normalized()
	following := map[string]struct{}{"alice": {}}

	resp := e.Evaluate(candidates, fs, following)
	if resp.Total != 1 {
		t.Fatalf("want 1 item surviving all facets, got %d", resp.Total)
	}
	if resp.Items[0] != candidates[0] {
		t.Errorf("wrong survivor")
	}
}

func TestEvaluateTypesOrWithinFacet(t *testing.T) {
	e := newFilterEvaluator(fixedClock)
	candidates := []*model.PostFormatted{
		makePost("a", model.ActivityPost, time.Hour),
		makePost("b", model.ActivityTrack, time.Hour),
		makePost("c", model.ActivityPlaylist, time.Hour),
	}
	fs, _ := core.FilterSet{
		ActivityTypes: []model.ActivityType{model.ActivityPost, model.ActivityPlaylist},
	}.Normalized()

	resp := e.Evaluate(candidates, fs, nil)
	if resp.Total != 2 {
		t.Fatalf("multiple selected types OR together, want 2 got %d", resp.Total)
	}
}

func TestEvaluateOrderPreservingAndIdempotent(t *testing.T) {
	e := newFilterEvaluator(fixedClock)
	candidates := []*model.PostFormatted{
		makePost("a", model.ActivityTrack, time.Hour),
		makePost("b", model.ActivityPost, time.Hour),
		makePost("c", model.ActivityTrack, 2*time.Hour),
		makePost("d", model.ActivityTrack, 3*time.Hour),
	}
	fs, _ := core.FilterSet{
		ActivityTypes: []model.ActivityType{model.ActivityTrack},
	}.Normalized()

	first := e.Evaluate(candidates, fs, nil)
	if len(first.Items) != 3 {
		t.Fatalf("want 3 tracks got %d", len(first.Items))
	}
	for i, addr := range []string{"a", "c", "d"} {
		if first.Items[i].Address != addr {
			t.Fatalf("order not preserved at %d: got %s", i, first.Items[i].Address)
		}
	}

	second := e.Evaluate(first.Items, fs, nil)
	if second.Total != first.Total {
		t.Errorf("evaluation not idempotent: %d != %d", second.Total, first.Total)
	}
	for i := range second.Items {
		if second.Items[i] != first.Items[i] {
			t.Fatalf("idempotent pass changed item at %d", i)
		}
	}
}

func TestEvaluateWeekWindow(t *testing.T) {
	e := newFilterEvaluator(fixedClock)
	var candidates []*model.PostFormatted
	for i := 0; i < 10; i++ {
		age := time.Duration(i*2*24) * time.Hour // 0,2,4,...,18 days old
		candidates = append(candidates, makePost("a", model.ActivityPost, age))
	}
	fs, _ := core.FilterSet{TimeRange: core.TimeRangeWeek}.Normalized()

	resp := e.Evaluate(candidates, fs, nil)
	if resp.Total != 4 {
		t.Fatalf("want 4 posts within the week window got %d", resp.Total)
	}
}
