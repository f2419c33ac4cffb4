package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListRounds(t *testing.T) {
	service, _ := newTestService()
	router := NewRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rounds", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var rounds []struct {
		ID    int  `json:"id"`
		Ready bool `json:"ready"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rounds); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rounds) != 1 || rounds[0].ID != 1 || !rounds[0].Ready {
		t.Fatalf("unexpected rounds %+v", rounds)
	}
}

func TestGetQuestion(t *testing.T) {
	service, _ := newTestService()
	router := NewRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rounds/1/questions/2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var q questionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.Text != "Position for enema?" || len(q.Choices) != 5 || q.Choices[3] != "Left Sims" {
		t.Fatalf("unexpected question %+v", q)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rounds/1/questions/3", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing content, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !q.Missing || q.Text != "Question 3" {
		t.Fatalf("expected placeholder, got %+v", q)
	}
}

func TestHealthz(t *testing.T) {
	service, _ := newTestService()
	rec := httptest.NewRecorder()
	NewRouter(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}
