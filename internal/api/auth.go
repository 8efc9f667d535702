package api

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/erazemk/vozicek/internal/auth"
	"github.com/erazemk/vozicek/internal/store"
)

// AuthHandler handles the shared-password login and logout.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
	Gate      *auth.PasswordGate
	Now       func() time.Time
}

type loginRequest struct {
	Password string `json:"password"`
	Operator string `json:"operator"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == "" {
		jsonError(w, http.StatusBadRequest, "password required")
		return
	}

	log := zerolog.Ctx(r.Context())
	if err := h.Gate.Check(req.Password); err != nil {
		log.Warn().Str("remote", r.RemoteAddr).Msg("login failed")
		jsonError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	now := h.Now()
	operator := strings.TrimSpace(req.Operator)
	token, err := auth.GenerateToken(h.JWTSecret, operator, now)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	log.Info().Str("operator", operator).Msg("logged in")
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: now.Add(auth.TokenExpiry)})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	expiresAt := h.Now().Add(auth.TokenExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, expiresAt); err != nil {
		storeError(w, r, err, "failed to log out")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}
