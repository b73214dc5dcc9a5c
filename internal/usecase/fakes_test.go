package usecase

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teerapatc/storefront-auth/internal/config"
	"github.com/teerapatc/storefront-auth/internal/model"
	"github.com/teerapatc/storefront-auth/internal/repository"
)

func testTokenConfig() config.TokenConfig {
	return config.TokenConfig{
		Issuer:                      "storefront-auth",
		AccessTokenSecret:           "access-secret",
		AccessTokenExpiresIn:        time.Hour,
		RefreshTokenSecret:          "refresh-secret",
		RefreshTokenExpiresIn:       7 * 24 * time.Hour,
		PasswordResetTokenSecret:    "reset-secret",
		PasswordResetTokenExpiresIn: 30 * time.Minute,
		VerificationTokenSecret:     "verification-secret",
		VerificationTokenExpiresIn:  24 * time.Hour,
	}
}

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

// fakeUserRepo is an in-memory repository.UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, duplicateKeyError()
		}
	}

	user.ID = bson.NewObjectID()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	r.users[user.ID.Hex()] = &clone

	return user, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) GetUserByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			clone := *user
			return &clone, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.Verified != nil {
		user.Verified = *params.Verified
	}
	user.UpdatedAt = time.Now()

	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) SetTwoFactorChallenge(
	_ context.Context,
	id string,
	challenge model.TwoFactorChallenge,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}

	user.TwoFactor = challenge
	return nil
}

func (r *fakeUserRepo) CompleteTwoFactorChallenge(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}

	user.TwoFactor.State = model.TwoFactorVerified
	return nil
}

func (r *fakeUserRepo) IncrementTwoFactorAttempts(_ context.Context, id string, limit int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return 0, mongo.ErrNoDocuments
	}

	if user.TwoFactor.Attempts >= limit {
		return limit, repository.ErrTwoFactorAttemptsExhausted
	}

	user.TwoFactor.Attempts++
	return user.TwoFactor.Attempts, nil
}

// seed inserts a user directly, bypassing the usecases.
func (r *fakeUserRepo) seed(user *model.User) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}

	clone := *user
	r.users[user.ID.Hex()] = &clone

	return user
}

// fakeRefreshTokenRepo is an in-memory repository.RefreshTokenRepository.
type fakeRefreshTokenRepo struct {
	mu    sync.Mutex
	slots map[string]*model.RefreshToken
}

var _ repository.RefreshTokenRepository = (*fakeRefreshTokenRepo)(nil)

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{slots: map[string]*model.RefreshToken{}}
}

func (r *fakeRefreshTokenRepo) Upsert(_ context.Context, userID bson.ObjectID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[userID.Hex()] = &model.RefreshToken{
		UserID:   userID,
		Token:    token,
		IssuedAt: time.Now(),
	}

	return nil
}

func (r *fakeRefreshTokenRepo) GetByUserID(_ context.Context, userID bson.ObjectID) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[userID.Hex()]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	clone := *slot
	return &clone, nil
}

func (r *fakeRefreshTokenRepo) DeleteByToken(_ context.Context, token string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, slot := range r.slots {
		if slot.Token == token {
			delete(r.slots, key)
			return 1, nil
		}
	}

	return 0, nil
}

func (r *fakeRefreshTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.slots)
}

// recordingNotifier captures lifecycle mail instead of sending it.
type recordingNotifier struct {
	mu sync.Mutex

	welcomes           []string
	verificationTokens []string
	otpCodes           []string
	resetTokens        []string
	loginAlerts        []LoginMetadata
}

var _ Notifier = (*recordingNotifier)(nil)

func (n *recordingNotifier) SendWelcome(user *model.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomes = append(n.welcomes, user.Email)
}

func (n *recordingNotifier) SendVerification(_ *model.User, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verificationTokens = append(n.verificationTokens, token)
}

func (n *recordingNotifier) SendOTP(_ *model.User, code string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.otpCodes = append(n.otpCodes, code)
}

func (n *recordingNotifier) SendPasswordReset(_ *model.User, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetTokens = append(n.resetTokens, token)
}

func (n *recordingNotifier) SendLoginAlert(_ *model.User, meta LoginMetadata) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loginAlerts = append(n.loginAlerts, meta)
}
