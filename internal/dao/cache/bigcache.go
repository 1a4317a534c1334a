package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"time"

	"wavefeed-backend/internal/conf"
	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
	"github.com/Masterminds/semver/v3"
	"github.com/allegro/bigcache/v3"
	"github.com/sirupsen/logrus"
)

const candidatesKey = "feed:candidates"

var (
	_ core.CachedFeedService = (*bigCacheFeedServant)(nil)
	_ core.VersionInfo       = (*bigCacheFeedServant)(nil)
)

type candidatesEntry struct {
	key   string
	items []*model.PostFormatted
}

// bigCacheFeedServant caches the full candidate pool in front of the feed
// data service. Cache fills go through a channel so concurrent combines
// never serialize each other on the encode step.
type bigCacheFeedServant struct {
	ds core.FeedDataService

	cacheItemsCh chan *candidatesEntry
	cache        *bigcache.BigCache
}

func NewBigCacheFeedService(ds core.FeedDataService) (core.CachedFeedService, core.VersionInfo) {
	s := conf.BigCacheIndexSetting
	config := bigcache.DefaultConfig(s.ExpireInSecond * time.Second)
	config.Verbose = s.Verbose
	if s.MaxIndexSizeMB > 0 {
		config.HardMaxCacheSize = s.MaxIndexSizeMB
	}
	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		logrus.Fatalf("initial bigCacheFeedServant failed: %s", err)
	}

	servant := &bigCacheFeedServant{
		ds:           ds,
		cacheItemsCh: make(chan *candidatesEntry, 10),
		cache:        cache,
	}
	go servant.startCacheItems()

	return servant, servant
}

func (s *bigCacheFeedServant) Name() string {
	return "BigCacheFeed"
}

func (s *bigCacheFeedServant) Version() *semver.Version {
	return semver.MustParse("v0.1.0")
}

func (s *bigCacheFeedServant) FetchCandidates(ctx context.Context) ([]*model.PostFormatted, error) {
	items, err := s.getItems(candidatesKey)
	if err == nil {
		logrus.Debugf("bigCacheFeedServant.FetchCandidates get candidates from cache by key: %s", candidatesKey)
		return items, nil
	}

	if items, err = s.ds.FetchCandidates(ctx); err != nil {
		return nil, err
	}
	logrus.Debugf("bigCacheFeedServant.FetchCandidates get candidates from data service by key: %s", candidatesKey)
	s.cacheItems(candidatesKey, items)
	return items, nil
}

// InvalidateCandidates drops the cached pool after index actions (post
// created, deleted, visibility changed) so the next combine refetches.
func (s *bigCacheFeedServant) InvalidateCandidates() {
	if err := s.cache.Delete(candidatesKey); err != nil {
		logrus.Debugf("bigCacheFeedServant.InvalidateCandidates delete key: %s err: %v", candidatesKey, err)
	}
}

func (s *bigCacheFeedServant) getItems(key string) ([]*model.PostFormatted, error) {
	data, err := s.cache.Get(key)
	if err != nil {
		logrus.Debugf("bigCacheFeedServant.getItems get items by key: %s from cache err: %v", key, err)
		return nil, err
	}
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	var items []*model.PostFormatted
	if err := dec.Decode(&items); err != nil {
		logrus.Debugf("bigCacheFeedServant.getItems get items from cache in decode err: %v", err)
		return nil, err
	}
	return items, nil
}

func (s *bigCacheFeedServant) cacheItems(key string, items []*model.PostFormatted) {
	entry := &candidatesEntry{key: key, items: items}
	select {
	case s.cacheItemsCh <- entry:
		logrus.Debugf("bigCacheFeedServant.cacheItems cacheItems by chan of key: %s", key)
	default:
		go func(ch chan<- *candidatesEntry, entry *candidatesEntry) {
			logrus.Debugf("bigCacheFeedServant.cacheItems cacheItems by goroutine of key: %s", key)
			ch <- entry
		}(s.cacheItemsCh, entry)
	}
}

func (s *bigCacheFeedServant) setItems(entry *candidatesEntry) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(entry.items); err != nil {
		logrus.Debugf("bigCacheFeedServant.setItems encode candidates entry err: %v", err)
		return
	}
	if err := s.cache.Set(entry.key, buf.Bytes()); err != nil {
		logrus.Debugf("bigCacheFeedServant.setItems set cache err: %v", err)
		return
	}
	logrus.Debugf("bigCacheFeedServant.setItems set cache by key: %s", entry.key)
}

func (s *bigCacheFeedServant) startCacheItems() {
	for entry := range s.cacheItemsCh {
		s.setItems(entry)
	}
}
