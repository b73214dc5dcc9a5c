package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// VerifyAccount handles POST /account/verify/{token}.
func (h *AuthHandler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	user, err := h.verification.VerifyAccount(r.Context(), token)
	if err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Email verified successfully!",
		User:    user,
	})
}

// ResendVerification handles POST /account/reverify/{userId}/{token}.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	token := chi.URLParam(r, "token")

	resent, err := h.verification.ResendVerification(r.Context(), userID, token)
	if err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	message := "Verification email sent!"
	if !resent {
		message = "Verification token is still valid!"
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: message,
		UserID:  userID,
	})
}
