package core

import (
	"github.com/Masterminds/semver/v3"
)

// DataService aggregates the collaborator interfaces the combined feed
// coordinator consumes. Everything behind it is out-of-process state
// (mongo, redis); the coordinator itself owns no persistence.
type DataService interface {
	FeedDataService
	FollowingService
}

type VersionInfo interface {
	Name() string
	Version() *semver.Version
}
