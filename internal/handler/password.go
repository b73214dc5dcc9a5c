package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RequestPasswordReset handles POST /reset-password-email.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordEmailRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	if err := h.password.RequestReset(r.Context(), req.Identifier); err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	// Delivery is fire-and-forget; this success says the request was taken,
	// not that the mail arrived.
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Password reset email sent!",
	})
}

// ResetPassword handles POST /reset-password/{token}.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req resetPasswordRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	if err := h.password.ResetPassword(r.Context(), token, req.Password, req.ConfirmPassword); err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Password reset successfully!",
	})
}

// ChangePassword handles PUT /change-password/{id}.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req changePasswordRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	err := h.password.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Password changed successfully!",
	})
}

// HasNoPassword handles GET /hasnopassword/{id}.
func (h *AuthHandler) HasNoPassword(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	hasNone, err := h.password.HasNoPassword(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success:       true,
		Message:       "OK",
		HasNoPassword: &hasNone,
	})
}
