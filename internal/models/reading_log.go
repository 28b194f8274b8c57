package models

import "time"

// ReadingLog is a persisted fact that a user finished one chapter of one
// book. At most one row exists per (UserID, BookName, Chapter); the
// store enforces this. Rows are created and deleted, never updated
type ReadingLog struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	BookName  string    `json:"bookName"`
	Chapter   int       `json:"chapter"`
	CreatedAt time.Time `json:"createdAt"`
}
