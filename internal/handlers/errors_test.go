package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		userMsg    string
		err        error
		wantStatus int
	}{
		{
			name:       "client error",
			status:     http.StatusBadRequest,
			userMsg:    "Invalid request body",
			err:        nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "server error with cause",
			status:     http.StatusInternalServerError,
			userMsg:    "Failed to record readings",
			err:        errors.New("db closed"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWithError(rec, tt.status, tt.userMsg, "", tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body["error"] != tt.userMsg {
				t.Errorf("error message = %q, want %q", body["error"], tt.userMsg)
			}
		})
	}
}

func TestSessionIDFromRequest(t *testing.T) {
	t.Run("cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		r.AddCookie(&http.Cookie{Name: "session_id", Value: "abc"})
		if got := sessionIDFromRequest(r); got != "abc" {
			t.Errorf("sessionIDFromRequest() = %q, want abc", got)
		}
	})

	t.Run("bearer token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		r.Header.Set("Authorization", "Bearer xyz")
		if got := sessionIDFromRequest(r); got != "xyz" {
			t.Errorf("sessionIDFromRequest() = %q, want xyz", got)
		}
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		r.AddCookie(&http.Cookie{Name: "session_id", Value: "abc"})
		r.Header.Set("Authorization", "Bearer xyz")
		if got := sessionIDFromRequest(r); got != "abc" {
			t.Errorf("sessionIDFromRequest() = %q, want abc", got)
		}
	})

	t.Run("none", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		if got := sessionIDFromRequest(r); got != "" {
			t.Errorf("sessionIDFromRequest() = %q, want empty", got)
		}
	})
}
