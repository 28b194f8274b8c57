package repository

import (
	"database/sql"
	"time"

	"github.com/kim-yukonthorn/bible-tracker/internal/database"
	"github.com/kim-yukonthorn/bible-tracker/internal/models"
)

// ProfileRepository handles profile and session database operations
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert creates the profile or overwrites its identity fields
// (display name, avatar) if it already exists. Score and the
// onboarding flag are never touched by this path; they belong to the
// reading service and the onboarding endpoint respectively
func (r *ProfileRepository) Upsert(id, displayName, avatarURL string) error {
	_, err := r.db.Exec(r.db.Dialect.UpsertProfileQuery(), id, displayName, avatarURL)
	return err
}

// GetByID retrieves a profile by its LINE user ID, or nil if absent
func (r *ProfileRepository) GetByID(id string) (*models.Profile, error) {
	query := `
		SELECT id, display_name, avatar_url, score, has_seen_onboarding, created_at, updated_at
		FROM profiles
		WHERE id = ?
	`

	profile := &models.Profile{}
	err := r.db.QueryRow(query, id).Scan(
		&profile.ID,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.Score,
		&profile.HasSeenOnboarding,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateScore overwrites the stored score with an exact value. Callers
// always pass a freshly counted value, never an incremented one
func (r *ProfileRepository) UpdateScore(id string, score int) error {
	query := "UPDATE profiles SET score = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, score, id)
	return err
}

// MarkOnboardingSeen flags the profile as having completed the intro
// walkthrough. Setting it again is a harmless no-op
func (r *ProfileRepository) MarkOnboardingSeen(id string) error {
	query := "UPDATE profiles SET has_seen_onboarding = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, true, id)
	return err
}

// TopByScore returns up to limit profiles ranked by score descending.
// Display name and id break ties so equal scores keep a stable order
// between reads
func (r *ProfileRepository) TopByScore(limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT id, display_name, avatar_url, score
		FROM profiles
		ORDER BY score DESC, display_name ASC, id ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	rank := 0
	for rows.Next() {
		rank++
		entry := models.LeaderboardEntry{Rank: rank}
		if err := rows.Scan(&entry.UserID, &entry.DisplayName, &entry.AvatarURL, &entry.Score); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CreateSession stores a new session
func (r *ProfileRepository) CreateSession(sessionID, userID string, expiresAt time.Time) (*models.Session, error) {
	query := "INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, sessionID, userID, expiresAt); err != nil {
		return nil, err
	}
	return r.GetSession(sessionID)
}

// GetSession retrieves a session by ID, or nil if absent
func (r *ProfileRepository) GetSession(sessionID string) (*models.Session, error) {
	query := "SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?"

	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session
func (r *ProfileRepository) DeleteSession(sessionID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	return err
}

// DeleteExpiredSessions removes all sessions past their expiry
func (r *ProfileRepository) DeleteExpiredSessions() error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	return err
}
