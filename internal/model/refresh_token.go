package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RefreshToken is the single live refresh-token slot for a user. A new login
// or refresh overwrites the slot rather than appending, so at most one
// refresh token per user is ever trusted server-side.
type RefreshToken struct {
	ID       bson.ObjectID `bson:"_id,omitempty"`
	UserID   bson.ObjectID `bson:"user_id"`
	Token    string        `bson:"token"`
	IssuedAt time.Time     `bson:"issued_at"`
}
