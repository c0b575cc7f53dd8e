package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleOperatorCCTV Role = "operator_cctv"
)

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Username     string        `bson:"username" json:"username"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // never expose
	// DeviceToken is nil while the account is not bound to any device.
	// A partial unique index on this field is the authoritative guard for
	// the one-device-per-account rule.
	DeviceToken *string   `bson:"deviceToken,omitempty" json:"deviceToken,omitempty"`
	Role        Role      `bson:"role" json:"role"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
