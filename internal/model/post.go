package model

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostVisibleT Accessible type, 0 draft, 1 public, 2 private
type PostVisibleT uint8

const (
	PostVisitDraft PostVisibleT = iota
	PostVisitPublic
	PostVisitPrivate
)

// ActivityType content item kind in the feed
type ActivityType uint8

const (
	ActivityPost ActivityType = iota + 1
	ActivityTrack
	ActivityPlaylist
	ActivityRepost
)

var activityTypeNames = map[ActivityType]string{
	ActivityPost:     "post",
	ActivityTrack:    "track",
	ActivityPlaylist: "playlist",
	ActivityRepost:   "repost",
}

func (t ActivityType) String() string {
	if name, ok := activityTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

func (t ActivityType) Valid() bool {
	_, ok := activityTypeNames[t]
	return ok
}

// ParseActivityType maps a facet value to its ActivityType. Unrecognized
// values report an error so callers can drop the facet value instead of
// failing the whole operation.
func ParseActivityType(s string) (ActivityType, error) {
	for t, name := range activityTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unrecognized activity type: %s", s)
}

type Post struct {
	ID              primitive.ObjectID `json:"id"                bson:"_id,omitempty"`
	CreatedOn       int64              `json:"created_on"        bson:"created_on"`
	ModifiedOn      int64              `json:"modified_on"       bson:"modified_on"`
	DeletedOn       int64              `json:"deleted_on"        bson:"deleted_on"`
	IsDel           int                `json:"is_del"            bson:"is_del"`
	LatestRepliedOn int64              `json:"latest_replied_on" bson:"latest_replied_on"`
	Address         string             `json:"address"           bson:"address"`
	Title           string             `json:"title"             bson:"title"`
	Content         string             `json:"content"           bson:"content"`
	AudioURL        string             `json:"audio_url"         bson:"audio_url"`
	Duration        int64              `json:"duration"          bson:"duration"`
	PlayCount       int64              `json:"play_count"        bson:"play_count"`
	CollectionCount int64              `json:"collection_count"  bson:"collection_count"`
	UpvoteCount     int64              `json:"upvote_count"      bson:"upvote_count"`
	CommentCount    int64              `json:"comment_count"     bson:"comment_count"`
	Visibility      PostVisibleT       `json:"visibility"        bson:"visibility"`
	IsTop           int                `json:"is_top"            bson:"is_top"`
	Tags            string             `json:"tags"              bson:"tags"`
	Type            ActivityType       `json:"type"              bson:"type"`
	RefId           primitive.ObjectID `json:"ref_id"            bson:"ref_id,omitempty"`
}

type PostFormatted struct {
	ID              primitive.ObjectID `json:"id"`
	CreatedOn       int64              `json:"created_on"`
	ModifiedOn      int64              `json:"modified_on"`
	LatestRepliedOn int64              `json:"latest_replied_on"`
	Address         string             `json:"address"`
	Title           string             `json:"title"`
	Content         string             `json:"content"`
	AudioURL        string             `json:"audio_url"`
	Duration        int64              `json:"duration"`
	PlayCount       int64              `json:"play_count"`
	CollectionCount int64              `json:"collection_count"`
	UpvoteCount     int64              `json:"upvote_count"`
	CommentCount    int64              `json:"comment_count"`
	Visibility      PostVisibleT       `json:"visibility"`
	IsTop           int                `json:"is_top"`
	Tags            map[string]int8    `json:"tags"`
	Type            ActivityType       `json:"type"`
	RefId           primitive.ObjectID `json:"ref_id"`
}

func (p *Post) Table() string {
	return "post"
}

func (p *Post) Format() *PostFormatted {
	tagsMap := map[string]int8{}
	for _, tag := range strings.Split(p.Tags, ",") {
		if tag = strings.TrimSpace(tag); len(tag) > 0 {
			tagsMap[tag] = 1
		}
	}
	return &PostFormatted{
		ID:              p.ID,
		CreatedOn:       p.CreatedOn,
		ModifiedOn:      p.ModifiedOn,
		LatestRepliedOn: p.LatestRepliedOn,
		Address:         p.Address,
		Title:           p.Title,
		Content:         p.Content,
		AudioURL:        p.AudioURL,
		Duration:        p.Duration,
		PlayCount:       p.PlayCount,
		CollectionCount: p.CollectionCount,
		UpvoteCount:     p.UpvoteCount,
		CommentCount:    p.CommentCount,
		Visibility:      p.Visibility,
		IsTop:           p.IsTop,
		Tags:            tagsMap,
		Type:            p.Type,
		RefId:           p.RefId,
	}
}
