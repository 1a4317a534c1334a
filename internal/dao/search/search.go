package search

import (
	"fmt"

	"wavefeed-backend/internal/conf"
	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/sirupsen/logrus"
)

func NewMeiliFeedSearchService() (core.FeedSearchService, core.VersionInfo) {
	s := conf.MeiliSetting
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   s.Endpoint(),
		APIKey: s.ApiKey,
	})

	if _, err := client.Index(s.Index).FetchInfo(); err != nil {
		logrus.Debugf("create index because fetch index info error: %v", err)
		client.CreateIndex(&meilisearch.IndexConfig{
			Uid:        s.Index,
			PrimaryKey: "id",
		})
		searchableAttributes := []string{"title", "content", "tags"}
		sortableAttributes := []string{"is_top", "latest_replied_on"}
		filterableAttributes := []string{"type", "address", "visibility"}

		index := client.Index(s.Index)
		index.UpdateSearchableAttributes(&searchableAttributes)
		index.UpdateSortableAttributes(&sortableAttributes)
		index.UpdateFilterableAttributes(&filterableAttributes)
	}

	mfs := &meiliFeedSearchServant{
		client:       client,
		index:        client.Index(s.Index),
		publicFilter: fmt.Sprintf("visibility=%d", model.PostVisitPublic),
	}
	return mfs, mfs
}

func NewBridgeFeedSearchService(ts core.FeedSearchService) core.FeedSearchService {
	capacity := conf.FeedSearchSetting.MaxUpdateQPS
	if capacity < 10 {
		capacity = 10
	} else if capacity > 10000 {
		capacity = 10000
	}
	bfs := &bridgeFeedSearchServant{
		ts:               ts,
		updateDocsCh:     make(chan *documents, capacity),
		updateDocsTempCh: make(chan *documents, 100),
	}

	numWorker := conf.FeedSearchSetting.MinWorker
	if numWorker < 5 {
		numWorker = 5
	} else if numWorker > 1000 {
		numWorker = 1000
	}
	logrus.Debugf("use %d backend worker to update documents to search engine", numWorker)
	for ; numWorker > 0; numWorker-- {
		go bfs.startUpdateDocs()
	}

	return bfs
}
