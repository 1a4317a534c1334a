package search

import (
	"fmt"

	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
	"wavefeed-backend/pkg/errcode"
	"wavefeed-backend/pkg/json"
	"github.com/Masterminds/semver/v3"
	"github.com/meilisearch/meilisearch-go"
	"github.com/sirupsen/logrus"
)

var (
	_ core.FeedSearchService = (*meiliFeedSearchServant)(nil)
	_ core.VersionInfo       = (*meiliFeedSearchServant)(nil)
)

type meiliFeedSearchServant struct {
	client       *meilisearch.Client
	index        *meilisearch.Index
	publicFilter string
}

func (s *meiliFeedSearchServant) Name() string {
	return "Meili"
}

func (s *meiliFeedSearchServant) Version() *semver.Version {
	return semver.MustParse("v0.1.0")
}

func (s *meiliFeedSearchServant) IndexName() string {
	return s.index.UID
}

func (s *meiliFeedSearchServant) AddDocuments(data core.DocItems, primaryKey ...string) (bool, error) {
	if len(data) == 0 {
		return true, nil
	}
	if _, err := s.index.AddDocuments(data, primaryKey...); err != nil {
		logrus.Errorf("meiliFeedSearchServant.AddDocuments error: %s", err)
		return false, err
	}
	return true, nil
}

func (s *meiliFeedSearchServant) DeleteDocuments(identifiers []string) error {
	task, err := s.index.DeleteDocuments(identifiers)
	if err != nil {
		logrus.Errorf("meiliFeedSearchServant.DeleteDocuments error: %s", err)
		return err
	}
	logrus.Debugf("meiliFeedSearchServant.DeleteDocuments task: (taskUID:%d, indexUID:%s, status:%s)", task.TaskUID, task.IndexUID, task.Status)
	return nil
}

// Search delegates text matching to meilisearch and normalizes the response
// into an ordered item list plus a total. Provider failures always come
// back as errcode.SearchUnavailable.
func (s *meiliFeedSearchServant) Search(q *core.QueryReq, offset, limit int) (resp *core.QueryResp, err error) {
	request := &meilisearch.SearchRequest{
		Offset: int64(offset),
		Limit:  int64(limit),
		Sort:   []string{"is_top:desc", "latest_replied_on:desc"},
		Filter: s.filterExpr(q),
	}

	raw, err := s.index.Search(q.Query, request)
	if err != nil {
		logrus.Errorf("meiliFeedSearchServant.Search query:%s error:%v", q.Query, err)
		return nil, errcode.SearchUnavailable.WithDetails(err.Error())
	}

	if resp, err = s.postsFrom(raw); err != nil {
		logrus.Errorf("meiliFeedSearchServant.Search decode hits query:%s error:%v", q.Query, err)
		return nil, errcode.SearchUnavailable.WithDetails(err.Error())
	}

	logrus.Debugf("meiliFeedSearchServant.Search query:%s resp Hits:%d Total:%d offset:%d limit:%d", q.Query, len(resp.Items), resp.Total, offset, limit)
	filterResp(resp, q)
	return resp, nil
}

func (s *meiliFeedSearchServant) filterExpr(q *core.QueryReq) interface{} {
	if len(q.Types) == 0 {
		return s.publicFilter
	}
	typeFilter := make([]string, 0, len(q.Types))
	for _, t := range q.Types {
		typeFilter = append(typeFilter, fmt.Sprintf("type=%d", t))
	}
	return [][]string{typeFilter, {s.publicFilter}}
}

func (s *meiliFeedSearchServant) postsFrom(resp *meilisearch.SearchResponse) (*core.QueryResp, error) {
	posts := make([]*model.PostFormatted, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		item := &model.PostFormatted{}
		raw, err := json.Marshal(hit)
		if err != nil {
			return nil, err
		}
		if err = json.Unmarshal(raw, item); err != nil {
			return nil, err
		}
		posts = append(posts, item)
	}

	return &core.QueryResp{
		Items: posts,
		Total: resp.TotalHits,
	}, nil
}
