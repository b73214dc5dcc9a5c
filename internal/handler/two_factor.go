package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GenerateTwoFactor handles POST /2fa/generate/{id}.
func (h *AuthHandler) GenerateTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if err := h.twoFactor.GenerateChallenge(r.Context(), userID); err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "OTP sent to your email!",
		UserID:  userID,
	})
}

// VerifyTwoFactor handles POST /2fa/verify/{id}.
func (h *AuthHandler) VerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req twoFactorVerifyRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	session, err := h.twoFactor.VerifyChallenge(r.Context(), userID, req.Code, h.loginMetadata(r))
	if err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	h.setAuthCookies(w, session.AccessToken, session.RefreshToken)
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Logged in successfully!",
		User:    session.User,
		Auth:    boolPtr(true),
	})
}
