package monogo

import (
	"context"
	"time"

	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	prefixRedisKeyFollowing = "feed:following:"
	followingCacheTTL       = 10 * time.Minute
)

var (
	_ core.FollowingService = (*followingServant)(nil)
)

// redisClient is the subset of redis.Client the following cache needs.
type redisClient interface {
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type followingServant struct {
	db  *mongo.Database
	red redisClient
}

// FollowingSet resolves the addresses followed by address, serving from
// redis when a warm set exists. A cache miss falls through to mongo and
// repopulates the set with a TTL.
func (s *followingServant) FollowingSet(ctx context.Context, address string) (map[string]struct{}, error) {
	key := prefixRedisKeyFollowing + address
	if s.red != nil {
		if members, err := s.red.SMembers(ctx, key).Result(); err == nil && len(members) > 0 {
			logrus.Debugf("followingServant.FollowingSet hit cache for %s (%d members)", address, len(members))
			return setFrom(members), nil
		}
	}

	cur, err := s.db.Collection((&model.Following{}).Table()).Find(ctx, bson.M{"address": address})
	if err != nil {
		logrus.Errorf("followingServant.FollowingSet find error: %v", err)
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []*model.Following
	if err = cur.All(ctx, &rows); err != nil {
		logrus.Errorf("followingServant.FollowingSet decode error: %v", err)
		return nil, err
	}

	members := make([]string, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.FollowAddress)
	}

	if s.red != nil && len(members) > 0 {
		args := make([]interface{}, 0, len(members))
		for _, m := range members {
			args = append(args, m)
		}
		if err := s.red.SAdd(ctx, key, args...).Err(); err != nil {
			logrus.Debugf("followingServant.FollowingSet cache fill error: %v", err)
		} else {
			s.red.Expire(ctx, key, followingCacheTTL)
		}
	}

	return setFrom(members), nil
}

func setFrom(members []string) map[string]struct{} {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return set
}
