package handler

import (
	"net/http"
	"time"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// setAuthCookies attaches the freshly issued token pair. In production the
// cookies are cross-site (SameSite=None + Secure) so a separately hosted
// storefront can send them; in development they stay Lax.
func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	h.setCookie(w, accessTokenCookie, accessToken, h.cfg.Token.AccessTokenExpiresIn)
	h.setCookie(w, refreshTokenCookie, refreshToken, h.cfg.Token.RefreshTokenExpiresIn)
}

// clearAuthCookies expires both cookies unconditionally.
func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	h.setCookie(w, accessTokenCookie, "", -time.Hour)
	h.setCookie(w, refreshTokenCookie, "", -time.Hour)
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if h.cfg.IsProduction() {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}
