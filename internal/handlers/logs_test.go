package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"toonbridge/internal/models"
)

func TestGetLogs(t *testing.T) {
	logs := &mockEventLog{events: []models.ThermostatEvent{
		{EventID: "a", Type: "SETPOINT", Description: "target temperature set to 19.5"},
		{EventID: "b", Type: "SETPOINT", Description: "target temperature set to 21"},
	}}
	router := newTestRouter(&mockClimate{}, &mockMonitoring{state: testState()}, logs)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs?type=setpoint", nil)
	req.Header.Set(authHeader())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200; body=%s", w.Code, w.Body)
	}
	if logs.filter.Type != "SETPOINT" {
		t.Errorf("type filter=%q, want SETPOINT", logs.filter.Type)
	}

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got["count"] != float64(2) {
		t.Errorf("count=%v, want 2", got["count"])
	}
}

func TestGetLogs_DateOnlyToIsInclusive(t *testing.T) {
	logs := &mockEventLog{}
	router := newTestRouter(&mockClimate{}, &mockMonitoring{state: testState()}, logs)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs?from=2026-02-14&to=2026-02-14", nil)
	req.Header.Set(authHeader())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200; body=%s", w.Code, w.Body)
	}

	wantFrom := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	if !logs.filter.From.Equal(wantFrom) {
		t.Errorf("from=%v, want %v", logs.filter.From, wantFrom)
	}
	// end-of-day, not midnight
	if logs.filter.To.Before(time.Date(2026, 2, 14, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("to=%v, want end of day", logs.filter.To)
	}
}

func TestGetLogs_BadTime(t *testing.T) {
	router := newTestRouter(&mockClimate{}, &mockMonitoring{state: testState()}, &mockEventLog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs?from=yesterday", nil)
	req.Header.Set(authHeader())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400; body=%s", w.Code, w.Body)
	}
}

func TestGetLogs_FromAfterTo(t *testing.T) {
	router := newTestRouter(&mockClimate{}, &mockMonitoring{state: testState()}, &mockEventLog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs?from=2026-02-15&to=2026-02-14", nil)
	req.Header.Set(authHeader())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400; body=%s", w.Code, w.Body)
	}
}
