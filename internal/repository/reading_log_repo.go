package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kim-yukonthorn/bible-tracker/internal/database"
	"github.com/kim-yukonthorn/bible-tracker/internal/models"
)

// ReadingLogRepository handles reading log database operations
type ReadingLogRepository struct {
	db *database.DB
}

// NewReadingLogRepository creates a new reading log repository
func NewReadingLogRepository(db *database.DB) *ReadingLogRepository {
	return &ReadingLogRepository{db: db}
}

// ListByUser returns all of a user's logs, most recent first
func (r *ReadingLogRepository) ListByUser(userID string) ([]models.ReadingLog, error) {
	query := `
		SELECT id, user_id, book_name, chapter, created_at
		FROM reading_logs
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLogs(rows)
}

// ListBookChapters returns the set of chapters the user has recorded
// for one book
func (r *ReadingLogRepository) ListBookChapters(userID, bookName string) (map[int]bool, error) {
	query := "SELECT chapter FROM reading_logs WHERE user_id = ? AND book_name = ?"

	rows, err := r.db.Query(query, userID, bookName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chapters := make(map[int]bool)
	for rows.Next() {
		var chapter int
		if err := rows.Scan(&chapter); err != nil {
			return nil, err
		}
		chapters[chapter] = true
	}
	return chapters, rows.Err()
}

// InsertIgnoreDuplicates writes one log per chapter inside a single
// transaction, using the dialect's conflict-ignoring INSERT so a row
// that collides with the (user_id, book_name, chapter) uniqueness
// constraint is skipped without failing the batch. Returns how many
// rows were actually created. On error the transaction is rolled back
// and nothing is committed
func (r *ReadingLogRepository) InsertIgnoreDuplicates(userID, bookName string, chapters []int, createdAt time.Time) (int, error) {
	if len(chapters) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.db.Dialect.InsertReadingLogQuery()

	inserted := 0
	for _, chapter := range chapters {
		result, err := tx.Exec(query, userID, bookName, chapter, createdAt)
		if err != nil {
			return 0, fmt.Errorf("failed to insert log for chapter %d: %w", chapter, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit logs: %w", err)
	}
	return inserted, nil
}

// CountByUser returns the exact number of logs the user owns. The
// reading service overwrites the profile score with this value after
// every insert or delete
func (r *ReadingLogRepository) CountByUser(userID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM reading_logs WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

// GetByID retrieves a single log, or nil if absent
func (r *ReadingLogRepository) GetByID(id int64) (*models.ReadingLog, error) {
	query := "SELECT id, user_id, book_name, chapter, created_at FROM reading_logs WHERE id = ?"

	log := &models.ReadingLog{}
	err := r.db.QueryRow(query, id).Scan(&log.ID, &log.UserID, &log.BookName, &log.Chapter, &log.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return log, nil
}

// Delete removes a single log
func (r *ReadingLogRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM reading_logs WHERE id = ?", id)
	return err
}

func scanLogs(rows *sql.Rows) ([]models.ReadingLog, error) {
	var logs []models.ReadingLog
	for rows.Next() {
		var log models.ReadingLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.BookName, &log.Chapter, &log.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
