package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teerapatc/storefront-auth/internal/config"
	"github.com/teerapatc/storefront-auth/internal/model"
	"github.com/teerapatc/storefront-auth/internal/repository"
	"github.com/teerapatc/storefront-auth/shared/apperror"
	"github.com/teerapatc/storefront-auth/shared/auth"
)

const (
	// otpLifetime bounds how long an issued code stays valid.
	otpLifetime = 30 * time.Minute

	// otpAttemptLimit is the hard lockout threshold; reaching it requires a
	// fresh challenge before any further verification.
	otpAttemptLimit = 4
)

// TwoFactorUsecase owns the OTP challenge state machine. The challenge moves
// disabled -> pending (GenerateChallenge) -> verified (VerifyChallenge); no
// other code path mutates it.
type TwoFactorUsecase interface {
	ChallengeIssuer

	// VerifyChallenge checks a submitted code and, on success, completes the
	// login that the 2FA gate interrupted.
	VerifyChallenge(ctx context.Context, userID, code string, meta LoginMetadata) (*Session, error)
}

type twoFactorUsecase struct {
	sessionIssuer

	users    repository.UserRepository
	notifier Notifier
	logger   *zerolog.Logger
}

// NewTwoFactorUsecase creates a new instance of TwoFactorUsecase.
func NewTwoFactorUsecase(
	users repository.UserRepository,
	refreshTokens repository.RefreshTokenRepository,
	jwtAuth auth.JWTAuthenticator,
	notifier Notifier,
	tokenCfg config.TokenConfig,
	logger *zerolog.Logger,
) TwoFactorUsecase {
	return &twoFactorUsecase{
		sessionIssuer: sessionIssuer{
			refreshTokens: refreshTokens,
			jwtAuth:       jwtAuth,
			tokenCfg:      tokenCfg,
		},
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

func (u *twoFactorUsecase) GenerateChallenge(ctx context.Context, userID string) error {
	user, err := u.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("User not found!")
		}
		return err
	}

	if !user.TwoFactor.Enabled() {
		return apperror.BadRequest("Two-factor authentication is not enabled!")
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}

	// Overwrite, not append: issuing a challenge invalidates any previously
	// outstanding code and zeroes the attempt counter.
	challenge := model.TwoFactorChallenge{
		State:     model.TwoFactorPending,
		Code:      code,
		ExpiresAt: time.Now().Add(otpLifetime),
		Attempts:  0,
	}

	if err := u.users.SetTwoFactorChallenge(ctx, userID, challenge); err != nil {
		return err
	}

	u.notifier.SendOTP(user, code)

	return nil
}

func (u *twoFactorUsecase) VerifyChallenge(
	ctx context.Context,
	userID, code string,
	meta LoginMetadata,
) (*Session, error) {
	user, err := u.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("User not found!")
		}
		return nil, err
	}

	if !user.TwoFactor.HasPendingCode() {
		return nil, apperror.BadRequest("No two-factor code found. Please request a new one!")
	}

	// Lockout is checked before the submitted code is even looked at.
	if user.TwoFactor.Attempts >= otpAttemptLimit {
		return nil, apperror.TooManyRequests("Too many failed attempts. Please request a new code!")
	}

	if time.Now().After(user.TwoFactor.ExpiresAt) {
		u.recordFailedAttempt(ctx, userID)
		return nil, apperror.BadRequest("Two-factor code has expired. Please request a new one!")
	}

	if code != user.TwoFactor.Code {
		u.recordFailedAttempt(ctx, userID)
		return nil, apperror.BadRequest("Invalid two-factor code!")
	}

	if err := u.users.CompleteTwoFactorChallenge(ctx, userID); err != nil {
		return nil, err
	}

	session, err := u.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	u.notifier.SendLoginAlert(user, meta)

	return session, nil
}

// recordFailedAttempt bumps the attempt counter with a store-level
// conditional increment so racing verifications cannot under-count.
func (u *twoFactorUsecase) recordFailedAttempt(ctx context.Context, userID string) {
	_, err := u.users.IncrementTwoFactorAttempts(ctx, userID, otpAttemptLimit)
	if err != nil && !errors.Is(err, repository.ErrTwoFactorAttemptsExhausted) {
		u.logger.Error().Err(err).Str("user_id", userID).Msg("failed to record two-factor attempt")
	}
}

// generateOTP returns a 6-digit code uniform over 100000-999999.
// crypto/rand.Int rejection-samples internally, so there is no modulo bias at
// the range boundary.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
