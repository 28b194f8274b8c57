package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kim-yukonthorn/bible-tracker/internal/models"
	"github.com/kim-yukonthorn/bible-tracker/internal/service"
	"github.com/kim-yukonthorn/bible-tracker/internal/validation"
)

// ReadingHandler handles reading-log HTTP requests
type ReadingHandler struct {
	readingService *service.ReadingService
	defaultZone    *time.Location
}

// NewReadingHandler creates a new reading handler
func NewReadingHandler(readingService *service.ReadingService, defaultZone *time.Location) *ReadingHandler {
	return &ReadingHandler{
		readingService: readingService,
		defaultZone:    defaultZone,
	}
}

type submitReadingRequest struct {
	Book     string `json:"book"`
	Chapters []int  `json:"chapters"`
}

type readingLogResponse struct {
	ID        int64     `json:"id"`
	Book      string    `json:"book"`
	Chapter   int       `json:"chapter"`
	CreatedAt time.Time `json:"createdAt"`
}

// Submit records a batch of chapters for one book
func (h *ReadingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	var req submitReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	result, err := h.readingService.SubmitReading(r.Context(), profile.ID, req.Book, req.Chapters)
	if err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.Is(err, service.ErrUnknownBook):
			respondWithError(w, http.StatusBadRequest, "Unknown book", "", nil)
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Message, "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to record readings", "reading submission failed", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// History returns the caller's reading log, most recent first
func (h *ReadingHandler) History(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	logs, err := h.readingService.History(profile.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load history", "history load failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, logResponses(logs))
}

// Day returns the caller's entries for one local calendar day in
// catalog order
func (h *ReadingHandler) Day(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	loc := h.location(r)
	day, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), loc)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", "", nil)
		return
	}

	logs, err := h.readingService.LogsForDay(profile.ID, day, loc)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load readings", "day load failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, logResponses(logs))
}

// Delete removes one of the caller's log entries
func (h *ReadingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	logID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid reading log ID", "", nil)
		return
	}

	score, err := h.readingService.DeleteReading(r.Context(), profile.ID, logID)
	if err != nil {
		if errors.Is(err, service.ErrLogNotFound) {
			respondWithError(w, http.StatusNotFound, "Reading log not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete reading log", "reading delete failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"score": score})
}

// Books returns every catalog book with the caller's progress
func (h *ReadingHandler) Books(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	books, err := h.readingService.BookList(profile.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load books", "book list failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, books)
}

// BookChapters returns the chapters the caller has on record for one
// book
func (h *ReadingHandler) BookChapters(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	chapters, err := h.readingService.CompletedChapters(profile.ID, r.PathValue("book"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownBook) {
			respondWithError(w, http.StatusNotFound, "Unknown book", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load chapters", "chapter load failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"book":     r.PathValue("book"),
		"chapters": chapters,
	})
}

// Calendar returns the day-by-day status of one month
func (h *ReadingHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		respondWithError(w, http.StatusBadRequest, "year is required", "", nil)
		return
	}
	monthNum, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		respondWithError(w, http.StatusBadRequest, "month must be 1..12", "", nil)
		return
	}

	loc := h.location(r)
	entries, err := h.readingService.Calendar(profile.ID, year, time.Month(monthNum), loc, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load calendar", "calendar load failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

// Leaderboard returns the top profiles by score
func (h *ReadingHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.readingService.Leaderboard(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load leaderboard", "leaderboard load failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

// location resolves the display timezone, honoring a ?tz= override
func (h *ReadingHandler) location(r *http.Request) *time.Location {
	if tz := r.URL.Query().Get("tz"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return h.defaultZone
}

func logResponses(logs []models.ReadingLog) []readingLogResponse {
	responses := make([]readingLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, readingLogResponse{
			ID:        l.ID,
			Book:      l.BookName,
			Chapter:   l.Chapter,
			CreatedAt: l.CreatedAt,
		})
	}
	return responses
}
