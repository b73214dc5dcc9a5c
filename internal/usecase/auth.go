package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teerapatc/storefront-auth/internal/config"
	"github.com/teerapatc/storefront-auth/internal/model"
	"github.com/teerapatc/storefront-auth/internal/repository"
	"github.com/teerapatc/storefront-auth/shared/apperror"
	"github.com/teerapatc/storefront-auth/shared/auth"
	"github.com/teerapatc/storefront-auth/shared/security"
)

// AuthUsecase defines the core authentication flows.
type AuthUsecase interface {
	// Register creates a local account and logs it in. The returned extra
	// string is the signed account-verification token.
	Register(ctx context.Context, params RegisterParams) (*Session, string, error)

	// Login authenticates with username-or-email plus password. When 2FA is
	// enabled the result carries no session: a challenge has been issued and
	// the flow completes through the OTP verification call.
	Login(ctx context.Context, params LoginParams, meta LoginMetadata) (*LoginResult, error)

	// Refresh rotates the token pair held in the refresh cookie.
	Refresh(ctx context.Context, refreshToken string) (*Session, error)

	// Logout revokes the refresh-token slot matching the given token value.
	// A stale token deletes nothing, which is still a successful logout.
	Logout(ctx context.Context, refreshToken string) error
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Role      string
}

// LoginParams defines the parameters for local login.
type LoginParams struct {
	Identifier string
	Password   string
}

// LoginResult is the outcome of a local login. Exactly one of Session or
// TwoFactorPending is meaningful: with 2FA enabled no credentials leave the
// plain login call.
type LoginResult struct {
	Session          *Session
	TwoFactorPending bool
	UserID           string
}

// ChallengeIssuer is the slice of the 2FA generator the login flow needs.
// Challenge state transitions stay owned by the OTP operations.
type ChallengeIssuer interface {
	GenerateChallenge(ctx context.Context, userID string) error
}

type authUsecase struct {
	sessionIssuer

	users      repository.UserRepository
	challenges ChallengeIssuer
	notifier   Notifier
	logger     *zerolog.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	users repository.UserRepository,
	refreshTokens repository.RefreshTokenRepository,
	challenges ChallengeIssuer,
	jwtAuth auth.JWTAuthenticator,
	notifier Notifier,
	tokenCfg config.TokenConfig,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		sessionIssuer: sessionIssuer{
			refreshTokens: refreshTokens,
			jwtAuth:       jwtAuth,
			tokenCfg:      tokenCfg,
		},
		users:      users,
		challenges: challenges,
		notifier:   notifier,
		logger:     logger,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*Session, string, error) {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, "", err
	}

	user, err := u.users.CreateUser(ctx, &model.User{
		FirstName:     params.FirstName,
		LastName:      params.LastName,
		Username:      params.Username,
		Email:         params.Email,
		PasswordHash:  passwordHash,
		Role:          params.Role,
		RegisteredVia: model.RegisteredViaLocal,
		Verified:      false,
		TwoFactor:     model.TwoFactorChallenge{State: model.TwoFactorDisabled},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", apperror.Conflict("Username or email already exists!")
		}
		return nil, "", err
	}

	session, err := u.issueSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	verificationToken, err := u.jwtAuth.SignUserToken(
		user.ID.Hex(),
		u.tokenCfg.VerificationTokenSecret,
		u.tokenCfg.VerificationTokenExpiresIn,
	)
	if err != nil {
		return nil, "", err
	}

	u.notifier.SendWelcome(user)
	u.notifier.SendVerification(user, verificationToken)

	return session, verificationToken, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams, meta LoginMetadata) (*LoginResult, error) {
	user, err := u.users.GetUserByIdentifier(ctx, params.Identifier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("User not found!")
		}
		return nil, err
	}

	if user.Blocked {
		return nil, apperror.Forbidden("Your account has been blocked!")
	}

	if user.RegisteredVia == model.RegisteredViaGoogle && !user.HasLocalPassword() {
		return nil, apperror.Forbidden("Please login with Google!")
	}

	if params.Password == "" || user.PasswordHash == "" {
		return nil, apperror.BadRequest("Password is missing!")
	}

	ok, err := security.VerifyPassword(params.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Unauthorized("Invalid password!")
	}

	// Verification is checked after the password on purpose: a wrong password
	// yields "invalid password" even for unverified accounts.
	if !user.Verified {
		return nil, apperror.Forbidden("Please verify your email to login!")
	}

	if user.TwoFactor.Enabled() {
		if err := u.challenges.GenerateChallenge(ctx, user.ID.Hex()); err != nil {
			return nil, err
		}

		return &LoginResult{
			TwoFactorPending: true,
			UserID:           user.ID.Hex(),
		}, nil
	}

	session, err := u.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	u.notifier.SendLoginAlert(user, meta)

	return &LoginResult{Session: session, UserID: user.ID.Hex()}, nil
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := u.jwtAuth.VerifyUserToken(refreshToken, u.tokenCfg.RefreshTokenSecret)
	if err != nil {
		return nil, apperror.Unauthorized("Could not refresh access token!")
	}

	userID, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperror.Unauthorized("Could not refresh access token!")
	}

	accessToken, newRefreshToken, err := u.signPair(claims.UserID)
	if err != nil {
		return nil, err
	}

	// Rotation on every refresh: the slot is overwritten before the profile
	// lookup, matching the issuance order of the other flows.
	if err := u.refreshTokens.Upsert(ctx, userID, newRefreshToken); err != nil {
		return nil, err
	}

	user, err := u.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("User not found!")
		}
		return nil, err
	}

	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	deleted, err := u.refreshTokens.DeleteByToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	if deleted == 0 {
		// Already rotated or never stored; the client is logged out either way.
		u.logger.Debug().Msg("logout with unknown refresh token")
	}

	return nil
}
