package service

import (
	"context"
	"sync"
	"time"

	"wavefeed-backend/internal/conf"
	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/dao"
	"wavefeed-backend/internal/model"
	"wavefeed-backend/pkg/errcode"
	"wavefeed-backend/pkg/psub"
	"github.com/sirupsen/logrus"
)

var (
	ds     core.DataService
	ts     core.FeedSearchService
	pubsub *psub.Service

	coordinators   map[string]*CombinedFeedCoordinator
	coordinatorsMu sync.Mutex
)

func Initialize() {
	ds = dao.DataService()
	ts = dao.FeedSearchService()
	pubsub = psub.New()
	coordinators = make(map[string]*CombinedFeedCoordinator)
}

// coordinatorFor returns the feed coordinator bound to one client view,
// creating it on first use. Independent views never share mode memory or
// pagination state.
func coordinatorFor(sessionKey string) *CombinedFeedCoordinator {
	coordinatorsMu.Lock()
	defer coordinatorsMu.Unlock()
	if c, ok := coordinators[sessionKey]; ok {
		return c
	}
	c := NewCombinedFeedCoordinator(ts, ds, CombinedFeedOptions{
		PageSize:       conf.AppSetting.DefaultPageSize,
		MaxSearchFetch: conf.CombinedFeedSetting.MaxSearchFetch,
		CombineTimeout: conf.CombinedFeedSetting.CombineTimeout * time.Second,
		DebounceDelay:  conf.CombinedFeedSetting.DebounceDelay * time.Millisecond,
		Notify:         pubsub,
		NotifyKey:      "feed:combined:" + sessionKey,
	})
	coordinators[sessionKey] = c
	return c
}

func CombinedFeed(ctx context.Context, sessionKey, address, query string, filters core.FilterSet) (*FeedSnapshot, error) {
	return coordinatorFor(sessionKey).Submit(ctx, address, query, filters)
}

// CombinedFeedReq is the body of a scheduled combine submission.
type CombinedFeedReq struct {
	Query         string   `json:"query" form:"query"`
	Following     bool     `json:"following" form:"following"`
	ActivityTypes []string `json:"activity_types" form:"activity_types"`
	TimeRange     string   `json:"time_range" form:"time_range"`
}

// CombinedFeedDebounced schedules a combine instead of running it; rapid
// calls for the same view coalesce into the last one. The resulting
// snapshot arrives through CombinedFeedUpdates.
func CombinedFeedDebounced(sessionKey, address string, req CombinedFeedReq) {
	filters := core.FilterSet{
		Following: req.Following,
		TimeRange: core.TimeRange(req.TimeRange),
	}
	for _, raw := range req.ActivityTypes {
		t, err := model.ParseActivityType(raw)
		if err != nil {
			logrus.Warnf("service.CombinedFeedDebounced %s: %v", errcode.InvalidFilterValue.Msg(), err)
			continue
		}
		filters.ActivityTypes = append(filters.ActivityTypes, t)
	}
	coordinatorFor(sessionKey).SubmitDebounced(address, req.Query, filters)
}

func CombinedFeedMore(ctx context.Context, sessionKey string) (*FeedSnapshot, error) {
	return coordinatorFor(sessionKey).LoadMore(ctx)
}

func CombinedFeedRetry(ctx context.Context, sessionKey string) (*FeedSnapshot, error) {
	return coordinatorFor(sessionKey).Retry(ctx)
}

func ClearCombinedFeed(sessionKey string) {
	coordinatorFor(sessionKey).Clear()
}

// CombinedFeedUpdates subscribes to snapshot replacements for one view.
func CombinedFeedUpdates(sessionKey string) (*psub.Subscription, error) {
	return pubsub.NewSubscribe("feed:combined:" + sessionKey)
}
