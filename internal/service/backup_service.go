package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kim-yukonthorn/bible-tracker/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version     string             `json:"version"`
	ExportedAt  time.Time          `json:"exported_at"`
	Profiles    []ProfileBackup    `json:"profiles"`
	ReadingLogs []ReadingLogBackup `json:"reading_logs"`
}

// ProfileBackup represents a profile record for backup
type ProfileBackup struct {
	ID                string    `json:"id"`
	DisplayName       string    `json:"display_name"`
	AvatarURL         string    `json:"avatar_url"`
	Score             int       `json:"score"`
	HasSeenOnboarding bool      `json:"has_seen_onboarding"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ReadingLogBackup represents a reading log record for backup
type ReadingLogBackup struct {
	UserID    string    `json:"user_id"`
	BookName  string    `json:"book_name"`
	Chapter   int       `json:"chapter"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupSummary reports what an export produced
type BackupSummary struct {
	Profiles    int
	ReadingLogs int
	ExportedAt  time.Time
	File        string
}

// BackupService handles database backup and restore operations.
// Sessions are deliberately excluded: they are short-lived and
// recreated on the next login
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) (*BackupSummary, error) {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportProfiles(backup); err != nil {
		return nil, fmt.Errorf("failed to export profiles: %w", err)
	}

	if err := s.exportReadingLogs(backup); err != nil {
		return nil, fmt.Errorf("failed to export reading logs: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d profiles, %d reading logs", len(backup.Profiles), len(backup.ReadingLogs))

	return &BackupSummary{
		Profiles:    len(backup.Profiles),
		ReadingLogs: len(backup.ReadingLogs),
		ExportedAt:  backup.ExportedAt,
		File:        outputPath,
	}, nil
}

// Import restores a database from a backup file. Rows already present
// are skipped, and every imported profile's score is recomputed from
// its logs afterwards, so importing into a non-empty database is safe
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var backup BackupData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	if err := s.importProfiles(backup.Profiles); err != nil {
		return fmt.Errorf("failed to import profiles: %w", err)
	}

	if err := s.importReadingLogs(backup.ReadingLogs); err != nil {
		return fmt.Errorf("failed to import reading logs: %w", err)
	}

	if err := s.resyncScores(backup.Profiles); err != nil {
		return fmt.Errorf("failed to resync scores: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportProfiles(backup *BackupData) error {
	query := "SELECT id, display_name, COALESCE(avatar_url, ''), score, has_seen_onboarding, created_at, updated_at FROM profiles ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ProfileBackup
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.AvatarURL, &p.Score, &p.HasSeenOnboarding, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		backup.Profiles = append(backup.Profiles, p)
	}
	return rows.Err()
}

func (s *BackupService) exportReadingLogs(backup *BackupData) error {
	query := "SELECT user_id, book_name, chapter, created_at FROM reading_logs ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l ReadingLogBackup
		if err := rows.Scan(&l.UserID, &l.BookName, &l.Chapter, &l.CreatedAt); err != nil {
			return err
		}
		backup.ReadingLogs = append(backup.ReadingLogs, l)
	}
	return rows.Err()
}

func (s *BackupService) importProfiles(profiles []ProfileBackup) error {
	log.Printf("Importing %d profiles...", len(profiles))
	for _, p := range profiles {
		if _, err := s.db.Exec(s.db.Dialect.UpsertProfileQuery(), p.ID, p.DisplayName, p.AvatarURL); err != nil {
			return fmt.Errorf("failed to import profile %s: %w", p.ID, err)
		}
		query := "UPDATE profiles SET has_seen_onboarding = ?, created_at = ? WHERE id = ?"
		if _, err := s.db.Exec(query, p.HasSeenOnboarding, p.CreatedAt, p.ID); err != nil {
			return fmt.Errorf("failed to restore profile %s: %w", p.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importReadingLogs(logs []ReadingLogBackup) error {
	log.Printf("Importing %d reading logs...", len(logs))
	query := s.db.Dialect.InsertReadingLogQuery()
	for _, l := range logs {
		if _, err := s.db.Exec(query, l.UserID, l.BookName, l.Chapter, l.CreatedAt); err != nil {
			return fmt.Errorf("failed to import reading log %s %s %d: %w", l.UserID, l.BookName, l.Chapter, err)
		}
	}
	return nil
}

// resyncScores overwrites each imported profile's score with its exact
// log count
func (s *BackupService) resyncScores(profiles []ProfileBackup) error {
	for _, p := range profiles {
		var count int
		row := s.db.QueryRow("SELECT COUNT(*) FROM reading_logs WHERE user_id = ?", p.ID)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("failed to count logs for %s: %w", p.ID, err)
		}
		if _, err := s.db.Exec("UPDATE profiles SET score = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", count, p.ID); err != nil {
			return fmt.Errorf("failed to update score for %s: %w", p.ID, err)
		}
	}
	return nil
}
