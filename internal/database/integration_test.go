package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_integration.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	// Test that tables were created by migrations
	tables := []string{"profiles", "sessions", "reading_logs"}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		err := db.QueryRowContext(ctx, query, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

// TestConflictIgnoringInsert verifies duplicate reading log rows are
// skipped instead of failing, and that skips report zero rows affected
func TestConflictIgnoringInsert(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_conflict.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	if _, err := db.Exec(db.Dialect.UpsertProfileQuery(), "u1", "Alice", ""); err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}

	query := db.Dialect.InsertReadingLogQuery()
	now := time.Now()

	result, err := db.Exec(query, "u1", "Jonah", 1, now)
	if err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if n, _ := result.RowsAffected(); n != 1 {
		t.Errorf("first insert RowsAffected = %d, want 1", n)
	}

	result, err = db.Exec(query, "u1", "Jonah", 1, now)
	if err != nil {
		t.Fatalf("Duplicate insert failed: %v", err)
	}
	if n, _ := result.RowsAffected(); n != 0 {
		t.Errorf("duplicate insert RowsAffected = %d, want 0", n)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM reading_logs WHERE user_id = ?", "u1").Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("reading_logs count = %d, want 1", count)
	}
}

// TestProfileUpsert verifies identity fields overwrite while score and
// the onboarding flag survive
func TestProfileUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_upsert.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	upsert := db.Dialect.UpsertProfileQuery()
	if _, err := db.Exec(upsert, "u1", "Alice", ""); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	if _, err := db.Exec("UPDATE profiles SET score = 7, has_seen_onboarding = 1 WHERE id = ?", "u1"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := db.Exec(upsert, "u1", "Alice Renamed", "https://example.com/a.jpg"); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	var displayName string
	var score int
	var seen bool
	row := db.QueryRow("SELECT display_name, score, has_seen_onboarding FROM profiles WHERE id = ?", "u1")
	if err := row.Scan(&displayName, &score, &seen); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if displayName != "Alice Renamed" {
		t.Errorf("display_name = %s, want Alice Renamed", displayName)
	}
	if score != 7 {
		t.Errorf("score = %d, want 7", score)
	}
	if !seen {
		t.Error("has_seen_onboarding reset by upsert")
	}
}
