package dao

import (
	"sync"

	"wavefeed-backend/internal/conf"
	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/dao/cache"
	"wavefeed-backend/internal/dao/monogo"
	"wavefeed-backend/internal/dao/search"
	"github.com/sirupsen/logrus"
)

var (
	ts  core.FeedSearchService
	ds  core.DataService
	cfs core.CachedFeedService

	onceTs, onceDs sync.Once
)

type cachedDataService struct {
	core.CachedFeedService
	core.FollowingService
}

func DataService() core.DataService {
	onceDs.Do(func() {
		var v core.VersionInfo
		inner, iv := monogo.NewDataService(conf.MustMongoDB(), conf.Redis)
		logrus.Infof("use %s as data service with version %s", iv.Name(), iv.Version())

		if conf.CfgIf("BigCacheIndex") {
			cfs, v = cache.NewBigCacheFeedService(inner)
		} else {
			cfs, v = cache.NewNoneCacheFeedService(inner)
		}
		logrus.Infof("use %s as candidates cache with version %s", v.Name(), v.Version())

		ds = &cachedDataService{
			CachedFeedService: cfs,
			FollowingService:  inner,
		}
	})
	return ds
}

// CachedFeedService exposes the candidates cache for invalidation after
// index actions. DataService must be called first.
func CachedFeedService() core.CachedFeedService {
	DataService()
	return cfs
}

func FeedSearchService() core.FeedSearchService {
	onceTs.Do(func() {
		var v core.VersionInfo
		ts, v = search.NewMeiliFeedSearchService()
		logrus.Infof("use %s as feed search service by version %s", v.Name(), v.Version())

		ts = search.NewBridgeFeedSearchService(ts)
	})
	return ts
}
