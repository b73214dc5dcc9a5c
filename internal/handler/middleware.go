package handler

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teerapatc/storefront-auth/internal/model"
	"github.com/teerapatc/storefront-auth/shared/apperror"
)

type contextKey struct{}

var userContextKey = contextKey{}

// Authenticated verifies the access-token cookie, loads the account and
// attaches it to the request context. Requests carrying neither cookie are
// rejected outright.
func (h *AuthHandler) Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access, accessErr := r.Cookie(accessTokenCookie)
		_, refreshErr := r.Cookie(refreshTokenCookie)

		if accessErr != nil && refreshErr != nil {
			respondError(w, h.logger, h.trans, apperror.Unauthorized("You are not logged in!"))
			return
		}

		if accessErr != nil {
			respondError(w, h.logger, h.trans, apperror.Unauthorized("Invalid or expired access token!"))
			return
		}

		claims, err := h.jwtAuth.VerifyUserToken(access.Value, h.cfg.Token.AccessTokenSecret)
		if err != nil {
			respondError(w, h.logger, h.trans, apperror.Unauthorized("Invalid or expired access token!"))
			return
		}

		user, err := h.users.GetUser(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				respondError(w, h.logger, h.trans, apperror.Unauthorized("User no longer exists!"))
				return
			}
			respondError(w, h.logger, h.trans, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the account the middleware attached.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}
