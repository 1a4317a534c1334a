package service

import (
	"context"

	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/dao"
	"wavefeed-backend/pkg/errcode"
	"wavefeed-backend/pkg/json"
	"wavefeed-backend/pkg/types"
	"github.com/sirupsen/logrus"
)

// SyncSearchIndex pushes the current candidate pool into the search index.
// Documents go through the bridge servant, so this returns as soon as the
// batch is queued; the workers apply it in the background.
func SyncSearchIndex(ctx context.Context) (int, error) {
	// bypass any cached pool so the index gets current data
	dao.CachedFeedService().InvalidateCandidates()

	items, err := ds.FetchCandidates(ctx)
	if err != nil {
		return 0, errcode.SyncIndexFailed.WithDetails(err.Error())
	}

	docs := make(core.DocItems, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			logrus.Errorf("service.SyncSearchIndex marshal post %s err: %v", item.ID.Hex(), err)
			continue
		}
		var doc types.AnyMap
		if err = json.Unmarshal(raw, &doc); err != nil {
			logrus.Errorf("service.SyncSearchIndex unmarshal post %s err: %v", item.ID.Hex(), err)
			continue
		}
		docs = append(docs, doc)
	}

	if _, err = ts.AddDocuments(docs, "id"); err != nil {
		return 0, errcode.SyncIndexFailed.WithDetails(err.Error())
	}

	return len(docs), nil
}
