package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kim-yukonthorn/bible-tracker/internal/cache"
	"github.com/kim-yukonthorn/bible-tracker/internal/catalog"
	"github.com/kim-yukonthorn/bible-tracker/internal/models"
	"github.com/kim-yukonthorn/bible-tracker/internal/progress"
	"github.com/kim-yukonthorn/bible-tracker/internal/repository"
	"github.com/kim-yukonthorn/bible-tracker/internal/validation"
)

var (
	ErrUnknownBook = errors.New("unknown book")
	ErrLogNotFound = errors.New("reading log not found")
)

// ReadingService owns the reading history and the score derived from
// it. The score is never incremented in place: after every write it is
// recomputed as the exact row count, so a retried or concurrent
// submission can never drift it
type ReadingService struct {
	logRepo          *repository.ReadingLogRepository
	profileRepo      *repository.ProfileRepository
	catalog          *catalog.Catalog
	cache            *cache.Cache
	leaderboardLimit int
}

// NewReadingService creates a new reading service
func NewReadingService(logRepo *repository.ReadingLogRepository, profileRepo *repository.ProfileRepository, cat *catalog.Catalog, c *cache.Cache, leaderboardLimit int) *ReadingService {
	return &ReadingService{
		logRepo:          logRepo,
		profileRepo:      profileRepo,
		catalog:          cat,
		cache:            c,
		leaderboardLimit: leaderboardLimit,
	}
}

// SubmitResult reports what a submission actually changed
type SubmitResult struct {
	NewlyRecorded int `json:"newlyRecorded"`
	Score         int `json:"score"`
}

// BookStatus is a catalog book with the caller's progress in it
type BookStatus struct {
	Name      string  `json:"name"`
	Chapters  int     `json:"chapters"`
	ReadCount int     `json:"readCount"`
	Completed bool    `json:"completed"`
	Ratio     float64 `json:"ratio"`
}

// SubmitReading records a batch of chapters for one book. Chapters the
// user already has on record are silently skipped; only genuinely new
// rows count toward the result and the score
func (s *ReadingService) SubmitReading(ctx context.Context, userID, bookName string, chapters []int) (*SubmitResult, error) {
	book, ok := s.catalog.Lookup(bookName)
	if !ok {
		return nil, ErrUnknownBook
	}
	if err := validation.ValidateChapters(chapters, book.Chapters); err != nil {
		return nil, err
	}

	already, err := s.logRepo.ListBookChapters(userID, book.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load recorded chapters: %w", err)
	}

	toInsert := newChapters(chapters, already)
	if len(toInsert) == 0 {
		// Nothing new: succeed without writing, but still report the
		// real count so a stale client resyncs
		score, err := s.logRepo.CountByUser(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count readings: %w", err)
		}
		return &SubmitResult{NewlyRecorded: 0, Score: score}, nil
	}

	inserted, err := s.logRepo.InsertIgnoreDuplicates(userID, book.Name, toInsert, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to record readings: %w", err)
	}

	score, err := s.resyncScore(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{NewlyRecorded: inserted, Score: score}, nil
}

// newChapters returns the deduplicated, sorted chapters not already on
// record
func newChapters(chapters []int, already map[int]bool) []int {
	seen := make(map[int]bool, len(chapters))
	var result []int
	for _, ch := range chapters {
		if already[ch] || seen[ch] {
			continue
		}
		seen[ch] = true
		result = append(result, ch)
	}
	sort.Ints(result)
	return result
}

// DeleteReading removes one of the caller's log entries and resyncs the
// score. Entries owned by other users look like missing entries
func (s *ReadingService) DeleteReading(ctx context.Context, userID string, logID int64) (int, error) {
	log, err := s.logRepo.GetByID(logID)
	if err != nil {
		return 0, fmt.Errorf("failed to load reading log: %w", err)
	}
	if log == nil || log.UserID != userID {
		return 0, ErrLogNotFound
	}

	if err := s.logRepo.Delete(logID); err != nil {
		return 0, fmt.Errorf("failed to delete reading log: %w", err)
	}

	return s.resyncScore(ctx, userID)
}

// resyncScore overwrites the stored score with the exact log count and
// drops the cached leaderboard
func (s *ReadingService) resyncScore(ctx context.Context, userID string) (int, error) {
	count, err := s.logRepo.CountByUser(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	if err := s.profileRepo.UpdateScore(userID, count); err != nil {
		return 0, fmt.Errorf("failed to update score: %w", err)
	}
	s.cache.InvalidateLeaderboard(ctx)
	return count, nil
}

// History returns the caller's full reading log, most recent first
func (s *ReadingService) History(userID string) ([]models.ReadingLog, error) {
	logs, err := s.logRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reading history: %w", err)
	}
	return logs, nil
}

// LogsForDay returns the caller's entries for one local calendar day,
// in catalog order rather than submission order
func (s *ReadingService) LogsForDay(userID string, day time.Time, loc *time.Location) ([]models.ReadingLog, error) {
	logs, err := s.logRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reading history: %w", err)
	}

	grouped := progress.GroupByDay(logs, loc)
	dayLogs := grouped[progress.DayKey(day, loc)]
	progress.SortLogs(dayLogs, s.catalog)
	return dayLogs, nil
}

// Calendar returns the day-by-day status of one month for the caller
func (s *ReadingService) Calendar(userID string, year int, month time.Month, loc *time.Location, now time.Time) ([]progress.DayEntry, error) {
	logs, err := s.logRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reading history: %w", err)
	}
	return progress.MonthCalendar(logs, year, month, loc, now), nil
}

// BookList returns every catalog book with the caller's progress
func (s *ReadingService) BookList(userID string) ([]BookStatus, error) {
	logs, err := s.logRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reading history: %w", err)
	}

	statuses := make([]BookStatus, 0, s.catalog.Len())
	for _, book := range s.catalog.Books() {
		p := progress.ForBook(logs, book)
		statuses = append(statuses, BookStatus{
			Name:      book.Name,
			Chapters:  book.Chapters,
			ReadCount: p.ReadCount,
			Completed: p.IsComplete,
			Ratio:     p.Ratio,
		})
	}
	return statuses, nil
}

// CompletedChapters returns the sorted chapters the caller has on
// record for one book
func (s *ReadingService) CompletedChapters(userID, bookName string) ([]int, error) {
	book, ok := s.catalog.Lookup(bookName)
	if !ok {
		return nil, ErrUnknownBook
	}

	read, err := s.logRepo.ListBookChapters(userID, book.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load recorded chapters: %w", err)
	}

	chapters := make([]int, 0, len(read))
	for ch := range read {
		chapters = append(chapters, ch)
	}
	sort.Ints(chapters)
	return chapters, nil
}

// Leaderboard returns the top profiles by score, read through the cache
func (s *ReadingService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if entries, ok := s.cache.GetLeaderboard(ctx); ok {
		return entries, nil
	}

	entries, err := s.profileRepo.TopByScore(s.leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	s.cache.SetLeaderboard(ctx, entries)
	return entries, nil
}
