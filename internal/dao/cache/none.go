package cache

import (
	"context"

	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
	"github.com/Masterminds/semver/v3"
)

var (
	_ core.CachedFeedService = (*noneCacheFeedServant)(nil)
	_ core.VersionInfo       = (*noneCacheFeedServant)(nil)
)

type noneCacheFeedServant struct {
	ds core.FeedDataService
}

func NewNoneCacheFeedService(ds core.FeedDataService) (core.CachedFeedService, core.VersionInfo) {
	s := &noneCacheFeedServant{ds: ds}
	return s, s
}

func (s *noneCacheFeedServant) Name() string {
	return "NoneCacheFeed"
}

func (s *noneCacheFeedServant) Version() *semver.Version {
	return semver.MustParse("v0.1.0")
}

func (s *noneCacheFeedServant) FetchCandidates(ctx context.Context) ([]*model.PostFormatted, error) {
	return s.ds.FetchCandidates(ctx)
}

func (s *noneCacheFeedServant) InvalidateCandidates() {}
