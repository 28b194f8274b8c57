// Package progress derives read-state views from raw reading logs: the
// completed-chapter set and completion ratio per book, and the per-day
// read status behind the history calendar. Everything here is pure; the
// reference "now" and timezone are always passed in.
package progress

import (
	"sort"
	"time"

	"github.com/kim-yukonthorn/bible-tracker/internal/catalog"
	"github.com/kim-yukonthorn/bible-tracker/internal/models"
)

// BookProgress summarizes one book's completion state for a user
type BookProgress struct {
	ReadCount  int     `json:"readCount"`
	IsComplete bool    `json:"isComplete"`
	Ratio      float64 `json:"ratio"`
}

// CompletedChapters returns the set of chapter numbers the logs record
// for the given book
func CompletedChapters(logs []models.ReadingLog, bookName string) map[int]bool {
	chapters := make(map[int]bool)
	for _, l := range logs {
		if l.BookName == bookName {
			chapters[l.Chapter] = true
		}
	}
	return chapters
}

// ForBook derives the read count, completion flag and ratio for one
// catalog book. Catalog chapter counts are always >= 1
func ForBook(logs []models.ReadingLog, book catalog.Book) BookProgress {
	readCount := len(CompletedChapters(logs, book.Name))
	return BookProgress{
		ReadCount:  readCount,
		IsComplete: readCount == book.Chapters,
		Ratio:      float64(readCount) / float64(book.Chapters),
	}
}

// SortLogs orders logs by catalog position ascending, then chapter
// ascending. Books missing from the catalog sort after every catalog
// book, among themselves by name then chapter. The sort is stable
func SortLogs(logs []models.ReadingLog, cat *catalog.Catalog) {
	sort.SliceStable(logs, func(i, j int) bool {
		pi, iKnown := cat.Position(logs[i].BookName)
		pj, jKnown := cat.Position(logs[j].BookName)

		switch {
		case iKnown && jKnown:
			if pi != pj {
				return pi < pj
			}
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			if logs[i].BookName != logs[j].BookName {
				return logs[i].BookName < logs[j].BookName
			}
		}
		return logs[i].Chapter < logs[j].Chapter
	})
}

// DayKey converts a timestamp to its calendar-day key in the given
// zone. A record created at 23:50 local time belongs to that local day
// even though its stored timestamp may already be past midnight UTC
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// GroupByDay buckets logs by their local calendar day in loc
func GroupByDay(logs []models.ReadingLog, loc *time.Location) map[string][]models.ReadingLog {
	grouped := make(map[string][]models.ReadingLog)
	for _, l := range logs {
		key := DayKey(l.CreatedAt, loc)
		grouped[key] = append(grouped[key], l)
	}
	return grouped
}
