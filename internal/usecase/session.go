package usecase

import (
	"context"

	"github.com/teerapatc/storefront-auth/internal/config"
	"github.com/teerapatc/storefront-auth/internal/model"
	"github.com/teerapatc/storefront-auth/internal/repository"
	"github.com/teerapatc/storefront-auth/shared/auth"
)

// Session is an issued access/refresh pair plus the authenticated user. The
// HTTP boundary turns the tokens into cookies.
type Session struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// LoginMetadata carries request metadata forwarded into login notifications.
type LoginMetadata struct {
	IPAddress string
	UserAgent string
}

// Notifier sends account-lifecycle email. Implementations are fire-and-forget:
// they never block the caller and swallow delivery failures after logging
// them, so none of the methods return an error.
type Notifier interface {
	SendWelcome(user *model.User)
	SendVerification(user *model.User, token string)
	SendOTP(user *model.User, code string)
	SendPasswordReset(user *model.User, token string)
	SendLoginAlert(user *model.User, meta LoginMetadata)
}

// sessionIssuer is the token-issuance tail shared by every flow that
// completes authentication: sign a fresh access/refresh pair and overwrite
// the user's refresh-token slot.
type sessionIssuer struct {
	refreshTokens repository.RefreshTokenRepository
	jwtAuth       auth.JWTAuthenticator
	tokenCfg      config.TokenConfig
}

func (s *sessionIssuer) signPair(userID string) (accessToken, refreshToken string, err error) {
	accessToken, err = s.jwtAuth.SignUserToken(
		userID,
		s.tokenCfg.AccessTokenSecret,
		s.tokenCfg.AccessTokenExpiresIn,
	)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.jwtAuth.SignUserToken(
		userID,
		s.tokenCfg.RefreshTokenSecret,
		s.tokenCfg.RefreshTokenExpiresIn,
	)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *sessionIssuer) issueSession(ctx context.Context, user *model.User) (*Session, error) {
	accessToken, refreshToken, err := s.signPair(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokens.Upsert(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
