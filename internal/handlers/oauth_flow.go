package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/kim-yukonthorn/bible-tracker/internal/security"
)

const lineProfileURL = "https://api.line.me/v2/profile"

// LineLoginEndpoint is the LINE Login v2.1 OAuth endpoint
var LineLoginEndpoint = oauth2.Endpoint{
	AuthURL:  "https://access.line.me/oauth2/v2.1/authorize",
	TokenURL: "https://api.line.me/oauth2/v2.1/token",
}

type lineProfile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

// StartLineLogin initiates the LINE Login browser flow, for clients
// running outside the LINE app
func (h *AuthHandler) StartLineLogin(w http.ResponseWriter, r *http.Request) {
	if h.lineLoginConfig == nil || h.lineLoginConfig.ClientID == "" || h.lineLoginConfig.ClientSecret == "" {
		respondWithError(w, http.StatusBadRequest, "LINE Login not configured", "", nil)
		return
	}

	state := security.GenerateSessionID()
	h.setTempCookie(w, r, "oauth_state", state, 10*time.Minute)

	config := *h.lineLoginConfig
	config.RedirectURL = h.oauthRedirectURL(r)

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// LineLoginCallback handles the LINE Login redirect, exchanges the
// code, fetches the LINE profile and issues a session
func (h *AuthHandler) LineLoginCallback(w http.ResponseWriter, r *http.Request) {
	if h.lineLoginConfig == nil || h.lineLoginConfig.ClientID == "" || h.lineLoginConfig.ClientSecret == "" {
		respondWithError(w, http.StatusBadRequest, "LINE Login not configured", "", nil)
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", "", nil)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state", "", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *h.lineLoginConfig
	config.RedirectURL = h.oauthRedirectURL(r)

	token, err := config.Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to exchange OAuth code", "LINE token exchange failed", err)
		return
	}

	lineUser, err := fetchLineProfile(ctx, token)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to fetch LINE profile", "", err)
		return
	}

	h.clearTempCookie(w, r, "oauth_state")

	session, _, err := h.authService.LoginWithProfile(lineUser.UserID, lineUser.DisplayName, lineUser.PictureURL)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Login failed", "LINE login failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func fetchLineProfile(ctx context.Context, token *oauth2.Token) (lineProfile, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(lineProfileURL)
	if err != nil {
		return lineProfile{}, fmt.Errorf("failed to fetch LINE profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return lineProfile{}, fmt.Errorf("failed to fetch LINE profile: status %d", resp.StatusCode)
	}

	var payload lineProfile
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return lineProfile{}, fmt.Errorf("failed to parse LINE profile: %w", err)
	}
	if payload.UserID == "" {
		return lineProfile{}, fmt.Errorf("LINE profile missing userId")
	}

	return payload, nil
}

func (h *AuthHandler) oauthRedirectURL(r *http.Request) string {
	baseURL := strings.TrimSpace(h.oauthRedirectBaseURL)
	if baseURL == "" {
		scheme := "http"
		if security.IsSecureRequest(r) {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return strings.TrimRight(baseURL, "/") + "/auth/line/callback"
}

func (h *AuthHandler) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *AuthHandler) clearTempCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
