package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teerapatc/storefront-auth/internal/config"
	"github.com/teerapatc/storefront-auth/internal/model"
	"github.com/teerapatc/storefront-auth/internal/repository"
	"github.com/teerapatc/storefront-auth/shared/apperror"
	"github.com/teerapatc/storefront-auth/shared/auth"
)

// VerificationUsecase covers email-based account verification.
type VerificationUsecase interface {
	// VerifyAccount validates the token and marks the live account verified.
	// The token carries only the user id; the record is always re-fetched.
	VerifyAccount(ctx context.Context, token string) (*model.User, error)

	// ResendVerification re-sends the verification mail with a fresh token,
	// unless the supplied token is still valid. Returns whether a new mail
	// was sent.
	ResendVerification(ctx context.Context, userID, token string) (bool, error)
}

type verificationUsecase struct {
	users    repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
	notifier Notifier
	tokenCfg config.TokenConfig
	logger   *zerolog.Logger
}

// NewVerificationUsecase creates a new instance of VerificationUsecase.
func NewVerificationUsecase(
	users repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	notifier Notifier,
	tokenCfg config.TokenConfig,
	logger *zerolog.Logger,
) VerificationUsecase {
	return &verificationUsecase{
		users:    users,
		jwtAuth:  jwtAuth,
		notifier: notifier,
		tokenCfg: tokenCfg,
		logger:   logger,
	}
}

func (u *verificationUsecase) VerifyAccount(ctx context.Context, token string) (*model.User, error) {
	claims, err := u.jwtAuth.VerifyUserToken(token, u.tokenCfg.VerificationTokenSecret)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired token!")
	}

	verified := true
	user, err := u.users.UpdateUser(ctx, claims.UserID, repository.UpdateUserParams{
		Verified: &verified,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("User not found!")
		}
		return nil, err
	}

	return user, nil
}

func (u *verificationUsecase) ResendVerification(ctx context.Context, userID, token string) (bool, error) {
	user, err := u.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, apperror.NotFound("User not found!")
		}
		return false, err
	}

	if claims, err := u.jwtAuth.VerifyUserToken(token, u.tokenCfg.VerificationTokenSecret); err == nil &&
		claims.UserID == userID {
		// Still usable; no new token is minted.
		return false, nil
	}

	freshToken, err := u.jwtAuth.SignUserToken(
		userID,
		u.tokenCfg.VerificationTokenSecret,
		u.tokenCfg.VerificationTokenExpiresIn,
	)
	if err != nil {
		return false, err
	}

	u.notifier.SendVerification(user, freshToken)

	return true, nil
}
