package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kim-yukonthorn/bible-tracker/internal/cache"
)

const (
	testChannelID     = "1234567890"
	testChannelSecret = "test-channel-secret"
)

func newTestAuthService(t *testing.T) (*AuthService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	auth := NewAuthService(env.profileRepo, cache.New("", ""), testChannelID, testChannelSecret, time.Hour)
	return auth, env
}

func signTestToken(t *testing.T, secret string, claims lineTokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}

func validTestClaims() lineTokenClaims {
	return lineTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://access.line.me",
			Audience:  jwt.ClaimStrings{testChannelID},
			Subject:   "U1234",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Name:    "Alice",
		Picture: "https://example.com/alice.jpg",
	}
}

func TestLoginWithIDToken(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	auth, env := newTestAuthService(t)

	idToken := signTestToken(t, testChannelSecret, validTestClaims())
	session, profile, err := auth.LoginWithIDToken(idToken)
	if err != nil {
		t.Fatalf("LoginWithIDToken() error: %v", err)
	}

	if profile.ID != "U1234" || profile.DisplayName != "Alice" {
		t.Errorf("profile = %+v, want U1234/Alice", profile)
	}
	if session.UserID != "U1234" {
		t.Errorf("session.UserID = %s, want U1234", session.UserID)
	}
	if session.IsExpired() {
		t.Error("fresh session is already expired")
	}

	// Second login overwrites identity fields but keeps the score
	if err := env.profileRepo.UpdateScore("U1234", 5); err != nil {
		t.Fatalf("UpdateScore() error: %v", err)
	}
	claims := validTestClaims()
	claims.Name = "Alice Renamed"
	if _, profile, err = auth.LoginWithIDToken(signTestToken(t, testChannelSecret, claims)); err != nil {
		t.Fatalf("LoginWithIDToken() error: %v", err)
	}
	if profile.DisplayName != "Alice Renamed" {
		t.Errorf("DisplayName = %s, want Alice Renamed", profile.DisplayName)
	}
	if profile.Score != 5 {
		t.Errorf("Score after re-login = %d, want 5", profile.Score)
	}
}

func TestLoginWithIDTokenRejectsBadTokens(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	auth, _ := newTestAuthService(t)

	wrongIssuer := validTestClaims()
	wrongIssuer.Issuer = "https://evil.example.com"

	wrongAudience := validTestClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"9999999999"}

	expired := validTestClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noSubject := validTestClaims()
	noSubject.Subject = ""

	tests := []struct {
		name    string
		idToken string
	}{
		{name: "garbage", idToken: "not-a-jwt"},
		{name: "wrong secret", idToken: signTestToken(t, "other-secret", validTestClaims())},
		{name: "wrong issuer", idToken: signTestToken(t, testChannelSecret, wrongIssuer)},
		{name: "wrong audience", idToken: signTestToken(t, testChannelSecret, wrongAudience)},
		{name: "expired", idToken: signTestToken(t, testChannelSecret, expired)},
		{name: "missing subject", idToken: signTestToken(t, testChannelSecret, noSubject)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := auth.LoginWithIDToken(tt.idToken); !errors.Is(err, ErrInvalidIDToken) {
				t.Errorf("LoginWithIDToken() error = %v, want ErrInvalidIDToken", err)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	auth, _ := newTestAuthService(t)

	session, _, err := auth.LoginWithProfile("U1234", "Alice", "")
	if err != nil {
		t.Fatalf("LoginWithProfile() error: %v", err)
	}

	profile, err := auth.ValidateSession(session.ID)
	if err != nil {
		t.Fatalf("ValidateSession() error: %v", err)
	}
	if profile.ID != "U1234" {
		t.Errorf("ValidateSession() profile = %s, want U1234", profile.ID)
	}

	if _, err := auth.ValidateSession("no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ValidateSession(unknown) error = %v, want ErrSessionNotFound", err)
	}

	if err := auth.Logout(session.ID); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if _, err := auth.ValidateSession(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ValidateSession(after logout) error = %v, want ErrSessionNotFound", err)
	}
}

func TestExpiredSessionRejectedAndCleaned(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	auth, env := newTestAuthService(t)
	env.createProfile(t, "U1234", "Alice")

	if _, err := env.profileRepo.CreateSession("expired-session", "U1234", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("CreateSession() error: %v", err)
	}

	if _, err := auth.ValidateSession("expired-session"); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("ValidateSession(expired) error = %v, want ErrSessionExpired", err)
	}

	// The expired session was removed on rejection
	session, err := env.profileRepo.GetSession("expired-session")
	if err != nil {
		t.Fatalf("GetSession() error: %v", err)
	}
	if session != nil {
		t.Error("expired session still present after rejection")
	}
}

func TestCompleteOnboarding(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	auth, env := newTestAuthService(t)
	env.createProfile(t, "U1234", "Alice")
	ctx := context.Background()

	seen, err := auth.HasSeenOnboarding(ctx, "U1234")
	if err != nil {
		t.Fatalf("HasSeenOnboarding() error: %v", err)
	}
	if seen {
		t.Error("HasSeenOnboarding() = true for a new profile")
	}

	if err := auth.CompleteOnboarding(ctx, "U1234"); err != nil {
		t.Fatalf("CompleteOnboarding() error: %v", err)
	}
	// Completing twice is a no-op
	if err := auth.CompleteOnboarding(ctx, "U1234"); err != nil {
		t.Fatalf("CompleteOnboarding() second call error: %v", err)
	}

	seen, err = auth.HasSeenOnboarding(ctx, "U1234")
	if err != nil {
		t.Fatalf("HasSeenOnboarding() error: %v", err)
	}
	if !seen {
		t.Error("HasSeenOnboarding() = false after completion")
	}
}
