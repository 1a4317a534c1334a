package core

import (
	"wavefeed-backend/internal/model"
	"wavefeed-backend/pkg/types"
)

type (
	QueryReq struct {
		Query string
		Types []model.ActivityType
	}

	QueryResp struct {
		Items []*model.PostFormatted
		Total int64
	}
)

type DocItems []types.AnyMap

// FeedSearchService normalizes heterogeneous search-provider responses into
// an ordered item list plus a match count. Provider failures surface as
// errcode.SearchUnavailable, never as provider-specific errors.
type FeedSearchService interface {
	IndexName() string
	AddDocuments(documents DocItems, primaryKey ...string) (bool, error)
	DeleteDocuments(identifiers []string) error
	Search(q *QueryReq, offset, limit int) (*QueryResp, error)
}
