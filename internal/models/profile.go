package models

import "time"

// Profile represents a user identity sourced from LINE, plus the
// tracker's own score and onboarding state. The identity fields are
// overwritten on every login; Score is only ever written by the
// count-based resync in the reading service
type Profile struct {
	ID                string    `json:"id"`
	DisplayName       string    `json:"displayName"`
	AvatarURL         string    `json:"avatarUrl"`
	Score             int       `json:"score"`
	HasSeenOnboarding bool      `json:"hasSeenOnboarding"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// LeaderboardEntry is one row of the score ranking
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Score       int    `json:"score"`
}
