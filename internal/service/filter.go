package service

import (
	"time"

	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
)

// filterEvaluator applies facet predicates to a candidate list. Facets
// combine with AND semantics; multiple activity types OR together inside
// their facet. Evaluation is idempotent and keeps the surviving items in
// their incoming order.
type filterEvaluator struct {
	now func() time.Time
}

func newFilterEvaluator(now func() time.Time) *filterEvaluator {
	if now == nil {
		now = time.Now
	}
	return &filterEvaluator{now: now}
}

// Evaluate expects a normalized filter set. following is the caller-supplied
// followed-author set; it is only consulted when the following facet is on.
func (e *filterEvaluator) Evaluate(candidates []*model.PostFormatted, fs core.FilterSet, following map[string]struct{}) *core.QueryResp {
	start, constrained := fs.TimeRange.Window(e.now())

	var types map[model.ActivityType]bool
	if len(fs.ActivityTypes) > 0 {
		types = make(map[model.ActivityType]bool, len(fs.ActivityTypes))
		for _, t := range fs.ActivityTypes {
			types[t] = true
		}
	}

	items := make([]*model.PostFormatted, 0, len(candidates))
	for _, item := range candidates {
		if fs.Following {
			if _, ok := following[item.Address]; !ok {
				continue
			}
		}
		if types != nil && !types[item.Type] {
			continue
		}
		if constrained && item.CreatedOn < start {
			continue
		}
		items = append(items, item)
	}

	return &core.QueryResp{
		Items: items,
		Total: int64(len(items)),
	}
}
