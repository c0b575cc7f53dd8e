package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Cctv struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FloorID   bson.ObjectID `bson:"floorId" json:"floorId"`
	Name      string        `bson:"name" json:"name"`
	Code      string        `bson:"code" json:"code"`
	StreamURL string        `bson:"streamUrl" json:"streamUrl"`
	IsActive  bool          `bson:"isActive" json:"isActive"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}
