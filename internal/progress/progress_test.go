package progress

import (
	"reflect"
	"testing"
	"time"

	"github.com/kim-yukonthorn/bible-tracker/internal/catalog"
	"github.com/kim-yukonthorn/bible-tracker/internal/models"
)

func TestCompletedChapters(t *testing.T) {
	logs := []models.ReadingLog{
		{BookName: "Jonah", Chapter: 1},
		{BookName: "Jonah", Chapter: 3},
		{BookName: "Jonah", Chapter: 3},
		{BookName: "Ruth", Chapter: 1},
	}

	chapters := CompletedChapters(logs, "Jonah")
	want := map[int]bool{1: true, 3: true}
	if !reflect.DeepEqual(chapters, want) {
		t.Errorf("CompletedChapters() = %v, want %v", chapters, want)
	}

	if got := CompletedChapters(logs, "Esther"); len(got) != 0 {
		t.Errorf("CompletedChapters() for unread book = %v, want empty", got)
	}
}

func TestForBook(t *testing.T) {
	book := catalog.Book{Name: "Jonah", Chapters: 4}

	tests := []struct {
		name string
		logs []models.ReadingLog
		want BookProgress
	}{
		{
			name: "no readings",
			logs: nil,
			want: BookProgress{ReadCount: 0, IsComplete: false, Ratio: 0},
		},
		{
			name: "partial",
			logs: []models.ReadingLog{
				{BookName: "Jonah", Chapter: 1},
				{BookName: "Jonah", Chapter: 2},
			},
			want: BookProgress{ReadCount: 2, IsComplete: false, Ratio: 0.5},
		},
		{
			name: "duplicates count once",
			logs: []models.ReadingLog{
				{BookName: "Jonah", Chapter: 1},
				{BookName: "Jonah", Chapter: 1},
			},
			want: BookProgress{ReadCount: 1, IsComplete: false, Ratio: 0.25},
		},
		{
			name: "complete",
			logs: []models.ReadingLog{
				{BookName: "Jonah", Chapter: 1},
				{BookName: "Jonah", Chapter: 2},
				{BookName: "Jonah", Chapter: 3},
				{BookName: "Jonah", Chapter: 4},
			},
			want: BookProgress{ReadCount: 4, IsComplete: true, Ratio: 1},
		},
		{
			name: "other books ignored",
			logs: []models.ReadingLog{
				{BookName: "Ruth", Chapter: 1},
			},
			want: BookProgress{ReadCount: 0, IsComplete: false, Ratio: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForBook(tt.logs, book)
			if got != tt.want {
				t.Errorf("ForBook() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSortLogs(t *testing.T) {
	cat := catalog.New([]catalog.Book{
		{Name: "Genesis", Chapters: 50},
		{Name: "Exodus", Chapters: 40},
		{Name: "Psalms", Chapters: 150},
	})

	logs := []models.ReadingLog{
		{BookName: "Psalms", Chapter: 23},
		{BookName: "Apocrypha", Chapter: 2},
		{BookName: "Genesis", Chapter: 3},
		{BookName: "Genesis", Chapter: 1},
		{BookName: "Apocrypha", Chapter: 1},
		{BookName: "Exodus", Chapter: 20},
	}

	SortLogs(logs, cat)

	want := []models.ReadingLog{
		{BookName: "Genesis", Chapter: 1},
		{BookName: "Genesis", Chapter: 3},
		{BookName: "Exodus", Chapter: 20},
		{BookName: "Psalms", Chapter: 23},
		{BookName: "Apocrypha", Chapter: 1},
		{BookName: "Apocrypha", Chapter: 2},
	}
	if !reflect.DeepEqual(logs, want) {
		t.Errorf("SortLogs() = %v, want %v", logs, want)
	}
}

func TestDayKey(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)

	tests := []struct {
		name string
		at   time.Time
		loc  *time.Location
		want string
	}{
		{
			name: "UTC timestamp stays on its UTC day",
			at:   time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: "2024-03-15",
		},
		{
			name: "late evening local is still the local day",
			at:   time.Date(2024, 3, 15, 16, 50, 0, 0, time.UTC), // 23:50 ICT
			loc:  bangkok,
			want: "2024-03-15",
		},
		{
			name: "UTC evening rolls into the next local day",
			at:   time.Date(2024, 3, 15, 17, 10, 0, 0, time.UTC), // 00:10 ICT next day
			loc:  bangkok,
			want: "2024-03-16",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayKey(tt.at, tt.loc); got != tt.want {
				t.Errorf("DayKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupByDay(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)

	logs := []models.ReadingLog{
		{ID: 1, CreatedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
		{ID: 2, CreatedAt: time.Date(2024, 3, 15, 16, 50, 0, 0, time.UTC)},
		{ID: 3, CreatedAt: time.Date(2024, 3, 15, 17, 10, 0, 0, time.UTC)},
	}

	grouped := GroupByDay(logs, bangkok)

	if len(grouped["2024-03-15"]) != 2 {
		t.Errorf("day 2024-03-15 has %d logs, want 2", len(grouped["2024-03-15"]))
	}
	if len(grouped["2024-03-16"]) != 1 {
		t.Errorf("day 2024-03-16 has %d logs, want 1", len(grouped["2024-03-16"]))
	}
}
