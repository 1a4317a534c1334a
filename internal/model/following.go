package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Following records that Address follows FollowAddress.
type Following struct {
	ID            primitive.ObjectID `json:"id"             bson:"_id,omitempty"`
	CreatedOn     int64              `json:"created_on"     bson:"created_on"`
	Address       string             `json:"address"        bson:"address"`
	FollowAddress string             `json:"follow_address" bson:"follow_address"`
}

func (f *Following) Table() string {
	return "following"
}
