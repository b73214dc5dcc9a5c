package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/teerapatc/storefront-auth/internal/model"
)

// RefreshTokenRepository defines the interface for the per-user refresh-token
// slot.
type RefreshTokenRepository interface {
	// Upsert writes the user's refresh-token slot, replacing whatever token
	// was there before. Write-wins under concurrent logins.
	Upsert(ctx context.Context, userID bson.ObjectID, token string) error

	// GetByUserID returns the user's current slot.
	GetByUserID(ctx context.Context, userID bson.ObjectID) (*model.RefreshToken, error)

	// DeleteByToken removes the slot holding the exact token value and
	// returns how many records were deleted. A stale token deletes nothing.
	DeleteByToken(ctx context.Context, token string) (int64, error)
}

const refreshTokenCollection = "refresh_tokens"

type refreshTokenMongoRepository struct {
	db *mongo.Database
}

// NewRefreshTokenMongoRepository creates a MongoDB-backed
// RefreshTokenRepository and ensures the one-slot-per-user index.
func NewRefreshTokenMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) RefreshTokenRepository {
	collection := db.Collection(refreshTokenCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "token", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create refresh token indexes")
	}

	return &refreshTokenMongoRepository{db: db}
}

func (r *refreshTokenMongoRepository) Upsert(ctx context.Context, userID bson.ObjectID, token string) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": bson.M{
		"token":     token,
		"issued_at": time.Now(),
	}}

	_, err := r.db.Collection(refreshTokenCollection).UpdateOne(
		ctx,
		filter,
		update,
		options.UpdateOne().SetUpsert(true),
	)

	return err
}

func (r *refreshTokenMongoRepository) GetByUserID(
	ctx context.Context,
	userID bson.ObjectID,
) (*model.RefreshToken, error) {
	result := r.db.Collection(refreshTokenCollection).FindOne(ctx, bson.M{"user_id": userID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var token model.RefreshToken
	if err := result.Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func (r *refreshTokenMongoRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	result, err := r.db.Collection(refreshTokenCollection).DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}
