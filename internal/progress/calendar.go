package progress

import (
	"time"

	"github.com/kim-yukonthorn/bible-tracker/internal/models"
)

// DayStatus is the derived read state of one calendar day
type DayStatus string

const (
	StatusRead   DayStatus = "read"
	StatusUnread DayStatus = "unread"
	StatusFuture DayStatus = "future"
)

// DayEntry is one day of the month calendar view
type DayEntry struct {
	Date   string    `json:"date"`
	Status DayStatus `json:"status"`
	Count  int       `json:"count"`
}

// StatusForDay derives the status of a single day. Future takes
// precedence for any date strictly after today, compared at day
// granularity in the day's own zone; time of day never matters
func StatusForDay(day time.Time, grouped map[string][]models.ReadingLog, today time.Time) DayStatus {
	loc := day.Location()
	dayStart := truncateToDay(day)
	todayStart := truncateToDay(today.In(loc))

	if dayStart.After(todayStart) {
		return StatusFuture
	}
	if len(grouped[DayKey(day, loc)]) > 0 {
		return StatusRead
	}
	return StatusUnread
}

// MonthCalendar derives one DayEntry per day of the given month, in
// order. Logs are bucketed into loc's calendar days; today decides
// which days are still in the future
func MonthCalendar(logs []models.ReadingLog, year int, month time.Month, loc *time.Location, today time.Time) []DayEntry {
	grouped := GroupByDay(logs, loc)

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	entries := make([]DayEntry, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, loc)
		key := DayKey(day, loc)
		entries = append(entries, DayEntry{
			Date:   key,
			Status: StatusForDay(day, grouped, today),
			Count:  len(grouped[key]),
		})
	}
	return entries
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
