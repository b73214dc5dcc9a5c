package handler

import (
	"net/http"

	"github.com/teerapatc/storefront-auth/internal/usecase"
	"github.com/teerapatc/storefront-auth/shared/apperror"
)

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	session, _, err := h.auth.Register(r.Context(), usecase.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.UserType,
	})
	if err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	h.setAuthCookies(w, session.AccessToken, session.RefreshToken)
	writeJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "User registered successfully!",
		User:    session.User,
		Auth:    boolPtr(true),
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	result, err := h.auth.Login(r.Context(), usecase.LoginParams{
		Identifier: req.Identifier,
		Password:   req.Password,
	}, h.loginMetadata(r))
	if err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	// 2FA gate: the login is incomplete and no credentials leave this call.
	if result.TwoFactorPending {
		writeJSON(w, http.StatusOK, response{
			Success: true,
			Message: "OTP sent to your email!",
			Auth:    boolPtr(false),
			UserID:  result.UserID,
		})
		return
	}

	h.setAuthCookies(w, result.Session.AccessToken, result.Session.RefreshToken)
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Logged in successfully!",
		User:    result.Session.User,
		Auth:    boolPtr(true),
	})
}

// GoogleLogin handles POST /auth/google.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	session, created, err := h.oauth.LoginWithGoogle(r.Context(), req.Code, h.loginMetadata(r))
	if err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	status := http.StatusOK
	message := "Logged in successfully!"
	if created {
		status = http.StatusCreated
		message = "User registered successfully!"
	}

	h.setAuthCookies(w, session.AccessToken, session.RefreshToken)
	writeJSON(w, status, response{
		Success: true,
		Message: message,
		User:    session.User,
		Auth:    boolPtr(true),
	})
}

// Refresh handles GET /refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		respondError(w, h.logger, h.trans, apperror.BadRequest("Refresh token is missing!"))
		return
	}

	session, err := h.auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	h.setAuthCookies(w, session.AccessToken, session.RefreshToken)
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Token refreshed successfully!",
		User:    session.User,
		Auth:    boolPtr(true),
	})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		respondError(w, h.logger, h.trans, apperror.BadRequest("Refresh token is missing!"))
		return
	}

	if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
		respondError(w, h.logger, h.trans, err)
		return
	}

	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Logged out successfully!",
	})
}
