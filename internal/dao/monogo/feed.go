package monogo

import (
	"context"

	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	_ core.FeedDataService = (*feedDataServant)(nil)
)

type feedDataServant struct {
	db *mongo.Database
}

type dataServant struct {
	*feedDataServant
	*followingServant
}

func (s *dataServant) Name() string {
	return "Mongo"
}

func (s *dataServant) Version() *semver.Version {
	return semver.MustParse("v0.1.0")
}

func NewDataService(db *mongo.Database, red redisClient) (core.DataService, core.VersionInfo) {
	ds := &dataServant{
		feedDataServant: &feedDataServant{
			db: db,
		},
		followingServant: &followingServant{
			db:  db,
			red: red,
		},
	}
	return ds, ds
}

// FetchCandidates returns the full public candidate pool, feed-ordered:
// pinned first, then most recently replied.
func (s *feedDataServant) FetchCandidates(ctx context.Context) ([]*model.PostFormatted, error) {
	finds := options.Find().SetSort(bson.D{
		{Key: "is_top", Value: -1},
		{Key: "latest_replied_on", Value: -1},
	})
	cur, err := s.db.Collection((&model.Post{}).Table()).Find(ctx, bson.M{
		"visibility": model.PostVisitPublic,
		"is_del":     0,
	}, finds)
	if err != nil {
		logrus.Errorf("feedDataServant.FetchCandidates find error: %v", err)
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []*model.Post
	if err = cur.All(ctx, &posts); err != nil {
		logrus.Errorf("feedDataServant.FetchCandidates decode error: %v", err)
		return nil, err
	}

	formatted := make([]*model.PostFormatted, 0, len(posts))
	for _, post := range posts {
		formatted = append(formatted, post.Format())
	}
	return formatted, nil
}
