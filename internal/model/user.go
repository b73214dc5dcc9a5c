package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RegisteredVia records how an account was created, which in turn governs how
// it may authenticate: local accounts hold a password hash, federated ones
// delegate to the OAuth provider and keep an empty hash.
const (
	RegisteredViaLocal  = "local"
	RegisteredViaGoogle = "google"
)

// TwoFactorState tags the 2FA challenge lifecycle. Transitions happen only
// through the two OTP operations: issuing a challenge moves to pending,
// verifying one moves to verified. A disabled state means 2FA is off for the
// account.
type TwoFactorState string

const (
	TwoFactorDisabled TwoFactorState = "disabled"
	TwoFactorPending  TwoFactorState = "pending"
	TwoFactorVerified TwoFactorState = "verified"
)

// TwoFactorChallenge is the live OTP challenge owned by the user aggregate.
// Attempts is reset only when a fresh code is issued, never on success.
type TwoFactorChallenge struct {
	State     TwoFactorState `bson:"state"                json:"state"`
	Code      string         `bson:"code,omitempty"       json:"-"`
	ExpiresAt time.Time      `bson:"expires_at,omitempty" json:"-"`
	Attempts  int            `bson:"attempts"             json:"-"`
}

// Enabled reports whether two-factor authentication is on for the account.
func (c TwoFactorChallenge) Enabled() bool {
	return c.State != TwoFactorDisabled && c.State != ""
}

// HasPendingCode reports whether a code is currently outstanding.
func (c TwoFactorChallenge) HasPendingCode() bool {
	return c.State == TwoFactorPending && c.Code != ""
}

// User represents an identity in the authentication system. An empty
// PasswordHash is a meaningful state: the account was created via federation
// and has no local password.
type User struct {
	ID            bson.ObjectID      `bson:"_id,omitempty"  json:"id"`
	FirstName     string             `bson:"first_name"     json:"firstName"`
	LastName      string             `bson:"last_name"      json:"lastName"`
	Username      string             `bson:"username"       json:"username"`
	Email         string             `bson:"email"          json:"email"`
	PasswordHash  string             `bson:"password_hash"  json:"-"`
	Role          string             `bson:"role"           json:"role"`
	RegisteredVia string             `bson:"registered_via" json:"registeredVia"`
	Verified      bool               `bson:"verified"       json:"isVerified"`
	Blocked       bool               `bson:"blocked"        json:"isBlocked"`
	AvatarURL     string             `bson:"avatar_url"     json:"avatarURL,omitempty"`
	TwoFactor     TwoFactorChallenge `bson:"two_factor"     json:"twoFactor"`
	CreatedAt     time.Time          `bson:"created_at"     json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at"     json:"updatedAt"`
}

// HasLocalPassword reports whether the account can authenticate with a
// password at all.
func (u *User) HasLocalPassword() bool {
	return u.PasswordHash != ""
}
