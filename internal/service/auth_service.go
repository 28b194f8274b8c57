package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kim-yukonthorn/bible-tracker/internal/cache"
	"github.com/kim-yukonthorn/bible-tracker/internal/models"
	"github.com/kim-yukonthorn/bible-tracker/internal/repository"
	"github.com/kim-yukonthorn/bible-tracker/internal/security"
	"github.com/kim-yukonthorn/bible-tracker/internal/validation"
)

const lineIssuer = "https://access.line.me"

var (
	ErrInvalidIDToken  = errors.New("invalid LINE id token")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// AuthService verifies LINE identities, keeps the profile's identity
// fields in sync and manages server sessions. There is no local
// credential; identity is fully delegated to LINE
type AuthService struct {
	profileRepo     *repository.ProfileRepository
	cache           *cache.Cache
	channelID       string
	channelSecret   string
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(profileRepo *repository.ProfileRepository, c *cache.Cache, channelID, channelSecret string, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		profileRepo:     profileRepo,
		cache:           c,
		channelID:       channelID,
		channelSecret:   channelSecret,
		sessionDuration: sessionDuration,
	}
}

// lineTokenClaims are the id_token claims the tracker uses
type lineTokenClaims struct {
	jwt.RegisteredClaims
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// LoginWithIDToken verifies a LIFF id_token, upserts the profile's
// identity fields (create-or-overwrite, every session start) and
// issues a session
func (s *AuthService) LoginWithIDToken(idToken string) (*models.Session, *models.Profile, error) {
	claims, err := s.verifyIDToken(idToken)
	if err != nil {
		return nil, nil, err
	}

	displayName := claims.Name
	if validation.ValidateDisplayName(displayName) != nil {
		displayName = claims.Subject
	}

	return s.login(claims.Subject, displayName, claims.Picture)
}

// LoginWithProfile issues a session for an identity already resolved
// by the LINE Login browser flow
func (s *AuthService) LoginWithProfile(userID, displayName, avatarURL string) (*models.Session, *models.Profile, error) {
	if userID == "" {
		return nil, nil, ErrInvalidIDToken
	}
	if validation.ValidateDisplayName(displayName) != nil {
		displayName = userID
	}
	return s.login(userID, displayName, avatarURL)
}

func (s *AuthService) login(userID, displayName, avatarURL string) (*models.Session, *models.Profile, error) {
	if err := s.profileRepo.Upsert(userID, displayName, avatarURL); err != nil {
		return nil, nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	profile, err := s.profileRepo.GetByID(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profile: %w", err)
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.profileRepo.CreateSession(sessionID, userID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, profile, nil
}

// verifyIDToken checks the token signature against the channel secret
// and validates issuer, audience and subject. LIFF id_tokens for a
// channel configured with a client secret are HS256-signed
func (s *AuthService) verifyIDToken(idToken string) (*lineTokenClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	claims := &lineTokenClaims{}

	parsedToken, err := parser.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.channelSecret), nil
	})
	if err != nil || !parsedToken.Valid {
		return nil, ErrInvalidIDToken
	}

	if claims.Issuer != lineIssuer {
		return nil, ErrInvalidIDToken
	}
	if !audienceContains(claims.Audience, s.channelID) {
		return nil, ErrInvalidIDToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidIDToken
	}

	return claims, nil
}

func audienceContains(audience jwt.ClaimStrings, value string) bool {
	for _, entry := range audience {
		if entry == value {
			return true
		}
	}
	return false
}

// ValidateSession checks if a session is valid and returns the profile
func (s *AuthService) ValidateSession(sessionID string) (*models.Profile, error) {
	session, err := s.profileRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		// Clean up expired session
		_ = s.profileRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	profile, err := s.profileRepo.GetByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, ErrSessionNotFound
	}

	return profile, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.profileRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.profileRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// CompleteOnboarding marks the one-time walkthrough as seen, in the
// database and in the cache mirror. Completing it twice is a no-op
func (s *AuthService) CompleteOnboarding(ctx context.Context, userID string) error {
	if err := s.profileRepo.MarkOnboardingSeen(userID); err != nil {
		return fmt.Errorf("failed to mark onboarding: %w", err)
	}
	s.cache.MarkOnboardingSeen(ctx, userID)
	return nil
}

// HasSeenOnboarding reads the flag through the cache mirror, falling
// back to the database and backfilling the mirror on a hit
func (s *AuthService) HasSeenOnboarding(ctx context.Context, userID string) (bool, error) {
	if seen, known := s.cache.HasSeenOnboarding(ctx, userID); known {
		return seen, nil
	}

	profile, err := s.profileRepo.GetByID(userID)
	if err != nil {
		return false, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return false, nil
	}

	if profile.HasSeenOnboarding {
		s.cache.MarkOnboardingSeen(ctx, userID)
	}
	return profile.HasSeenOnboarding, nil
}
