package handlers

import (
	"encoding/json"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/kim-yukonthorn/bible-tracker/internal/security"
	"github.com/kim-yukonthorn/bible-tracker/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	lineLoginConfig      *oauth2.Config
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, lineLoginConfig *oauth2.Config, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		lineLoginConfig:      lineLoginConfig,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

type loginRequest struct {
	IDToken string `json:"idToken"`
}

type profileResponse struct {
	UserID            string `json:"userId"`
	DisplayName       string `json:"displayName"`
	AvatarURL         string `json:"avatarUrl,omitempty"`
	Score             int    `json:"score"`
	HasSeenOnboarding bool   `json:"hasSeenOnboarding"`
}

// Login exchanges a LIFF id_token for a server session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.IDToken == "" {
		respondWithError(w, http.StatusBadRequest, "idToken is required", "", nil)
		return
	}

	session, profile, err := h.authService.LoginWithIDToken(req.IDToken)
	if err != nil {
		if err == service.ErrInvalidIDToken {
			respondWithError(w, http.StatusUnauthorized, "Invalid LINE token", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Login failed", "login failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": session.ID,
		"expiresAt": session.ExpiresAt,
		"profile": profileResponse{
			UserID:            profile.ID,
			DisplayName:       profile.DisplayName,
			AvatarURL:         profile.AvatarURL,
			Score:             profile.Score,
			HasSeenOnboarding: profile.HasSeenOnboarding,
		},
	})
}

// Logout invalidates the current session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := sessionIDFromRequest(r); sessionID != "" {
		_ = h.authService.Logout(sessionID)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, "session_id"))
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me returns the caller's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	seen, err := h.authService.HasSeenOnboarding(r.Context(), profile.ID)
	if err != nil {
		// The profile row is authoritative; a cache miss path failure
		// should not fail the request
		seen = profile.HasSeenOnboarding
	}

	respondWithJSON(w, http.StatusOK, profileResponse{
		UserID:            profile.ID,
		DisplayName:       profile.DisplayName,
		AvatarURL:         profile.AvatarURL,
		Score:             profile.Score,
		HasSeenOnboarding: seen,
	})
}

// CompleteOnboarding marks the walkthrough as seen for the caller
func (h *AuthHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	if err := h.authService.CompleteOnboarding(r.Context(), profile.ID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to complete onboarding", "onboarding update failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
