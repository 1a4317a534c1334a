package search

import (
	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
)

// filterResp drops hits the index should not have served: non-public items
// and items whose type falls outside the requested set. The index is
// eventually consistent with the post store, so stale entries do show up.
// Compaction keeps the provider ordering intact.
func filterResp(resp *core.QueryResp, q *core.QueryReq) {
	var types map[model.ActivityType]bool
	if len(q.Types) > 0 {
		types = make(map[model.ActivityType]bool, len(q.Types))
		for _, t := range q.Types {
			types[t] = true
		}
	}

	items := resp.Items[:0]
	for _, item := range resp.Items {
		if item.Visibility != model.PostVisitPublic {
			resp.Total--
			continue
		}
		if types != nil && !types[item.Type] {
			resp.Total--
			continue
		}
		items = append(items, item)
	}
	resp.Items = items
}
