package controllers

import (
	"net/http"
	"time"

	"github.com/wfjournal/wfj-backend/api/middleware"
	"github.com/wfjournal/wfj-backend/api/responses"
	"github.com/wfjournal/wfj-backend/api/validators"
	"github.com/wfjournal/wfj-backend/internal/auth"
	"github.com/wfjournal/wfj-backend/pkg/config"
	"github.com/wfjournal/wfj-backend/pkg/logger"
)

func AuthRegister(service auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := service.Register(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// AuthLogin returns the token in the body and also sets it as an HTTP-only
// cookie so the browser client never has to store it itself.
func AuthLogin(service auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := service.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setAuthCookie(w, jwtCfg, resp.Token, resp.ExpiresAt)
		responses.WriteSuccess(w, resp)
	}
}

func AuthLogout(service auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := service.Logout(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearAuthCookie(w, jwtCfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged out"})
	}
}

func setAuthCookie(w http.ResponseWriter, jwtCfg config.JWTConfig, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwtCfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   jwtCfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearAuthCookie(w http.ResponseWriter, jwtCfg config.JWTConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwtCfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   jwtCfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
