package service

import (
	"context"

	"wavefeed-backend/internal/model"
	"wavefeed-backend/pkg/errcode"
)

// FeedPosts returns one page of the raw candidate pool for views that want
// the plain feed without any narrowing.
func FeedPosts(ctx context.Context, offset, limit int) ([]*model.PostFormatted, int64, error) {
	items, err := ds.FetchCandidates(ctx)
	if err != nil {
		return nil, 0, errcode.GetFeedFailed.WithDetails(err.Error())
	}
	total := int64(len(items))
	if offset > len(items) {
		offset = len(items)
	}
	if upto := offset + limit; upto < len(items) {
		items = items[offset:upto]
	} else {
		items = items[offset:]
	}
	return items, total, nil
}
