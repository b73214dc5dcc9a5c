package handler

import (
	"encoding/json"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/teerapatc/storefront-auth/internal/config"
	"github.com/teerapatc/storefront-auth/internal/repository"
	"github.com/teerapatc/storefront-auth/internal/usecase"
	"github.com/teerapatc/storefront-auth/shared/apperror"
	"github.com/teerapatc/storefront-auth/shared/auth"
)

// AuthHandler is the HTTP boundary: it decodes and validates requests, hands
// them to the usecases, and turns sessions into cookies.
type AuthHandler struct {
	auth         usecase.AuthUsecase
	oauth        usecase.OAuthUsecase
	twoFactor    usecase.TwoFactorUsecase
	password     usecase.PasswordUsecase
	verification usecase.VerificationUsecase

	users    repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
	cfg      *config.Config
	validate *validator.Validate
	trans    ut.Translator
	logger   *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	oauthUsecase usecase.OAuthUsecase,
	twoFactorUsecase usecase.TwoFactorUsecase,
	passwordUsecase usecase.PasswordUsecase,
	verificationUsecase usecase.VerificationUsecase,
	users repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	cfg *config.Config,
	logger *zerolog.Logger,
) *AuthHandler {
	validate, trans := newValidator()

	return &AuthHandler{
		auth:         authUsecase,
		oauth:        oauthUsecase,
		twoFactor:    twoFactorUsecase,
		password:     passwordUsecase,
		verification: verificationUsecase,
		users:        users,
		jwtAuth:      jwtAuth,
		cfg:          cfg,
		validate:     validate,
		trans:        trans,
		logger:       logger,
	}
}

// decodeAndValidate parses the JSON body into dst and runs the validator.
func (h *AuthHandler) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.BadRequest("Invalid request body!")
	}

	return h.validate.Struct(dst)
}

func (h *AuthHandler) loginMetadata(r *http.Request) usecase.LoginMetadata {
	return usecase.LoginMetadata{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
