package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teerapatc/storefront-auth/internal/config"
	"github.com/teerapatc/storefront-auth/internal/model"
	"github.com/teerapatc/storefront-auth/internal/repository"
	"github.com/teerapatc/storefront-auth/shared/apperror"
	"github.com/teerapatc/storefront-auth/shared/auth"
	"github.com/teerapatc/storefront-auth/shared/provider"
)

// IdentityProvider exchanges an OAuth authorization code for a verified
// external identity claim.
type IdentityProvider interface {
	ExchangeCode(ctx context.Context, code string) (*provider.ExternalIdentity, error)
}

// OAuthUsecase handles federated login.
type OAuthUsecase interface {
	// LoginWithGoogle exchanges the authorization code and either logs the
	// matching account in or creates a federated one. The boolean reports
	// whether a new account was created.
	LoginWithGoogle(ctx context.Context, code string, meta LoginMetadata) (*Session, bool, error)
}

type oauthUsecase struct {
	sessionIssuer

	users    repository.UserRepository
	provider IdentityProvider
	notifier Notifier
	logger   *zerolog.Logger
}

// NewOAuthUsecase creates a new instance of OAuthUsecase.
func NewOAuthUsecase(
	users repository.UserRepository,
	refreshTokens repository.RefreshTokenRepository,
	identityProvider IdentityProvider,
	jwtAuth auth.JWTAuthenticator,
	notifier Notifier,
	tokenCfg config.TokenConfig,
	logger *zerolog.Logger,
) OAuthUsecase {
	return &oauthUsecase{
		sessionIssuer: sessionIssuer{
			refreshTokens: refreshTokens,
			jwtAuth:       jwtAuth,
			tokenCfg:      tokenCfg,
		},
		users:    users,
		provider: identityProvider,
		notifier: notifier,
		logger:   logger,
	}
}

func (u *oauthUsecase) LoginWithGoogle(
	ctx context.Context,
	code string,
	meta LoginMetadata,
) (*Session, bool, error) {
	claim, err := u.provider.ExchangeCode(ctx, code)
	if err != nil {
		u.logger.Error().Err(err).Msg("google code exchange failed")
		return nil, false, apperror.Unauthorized("Failed to authenticate with Google!")
	}

	user, err := u.users.GetUserByEmail(ctx, claim.Email)
	if err == nil {
		// Federation is trusted as already-authenticated: no verification or
		// 2FA gates on this path.
		session, err := u.issueSession(ctx, user)
		if err != nil {
			return nil, false, err
		}

		u.notifier.SendLoginAlert(user, meta)

		return session, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	user, err = u.createFederatedUser(ctx, claim)
	if err != nil {
		return nil, false, err
	}

	session, err := u.issueSession(ctx, user)
	if err != nil {
		return nil, false, err
	}

	u.notifier.SendWelcome(user)

	return session, true, nil
}

func (u *oauthUsecase) createFederatedUser(
	ctx context.Context,
	claim *provider.ExternalIdentity,
) (*model.User, error) {
	newUser := func(username string) *model.User {
		return &model.User{
			FirstName:     claim.GivenName,
			LastName:      claim.FamilyName,
			Username:      username,
			Email:         claim.Email,
			PasswordHash:  "",
			Role:          "buyer",
			RegisteredVia: model.RegisteredViaGoogle,
			Verified:      claim.EmailVerified,
			AvatarURL:     claim.Picture,
			TwoFactor:     model.TwoFactorChallenge{State: model.TwoFactorDisabled},
		}
	}

	username := usernameFromEmail(claim.Email)

	user, err := u.users.CreateUser(ctx, newUser(username))
	if err == nil {
		return user, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, err
	}

	// Derived username taken; retry once with a random suffix.
	username = username + "-" + uuid.NewString()[:8]

	user, err = u.users.CreateUser(ctx, newUser(username))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.Conflict("Username or email already exists!")
		}
		return nil, err
	}

	return user, nil
}

// usernameFromEmail derives a username from the email local-part.
func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
