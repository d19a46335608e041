package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/strideplan/internal/export"
	"github.com/claude/strideplan/internal/models"
)

func testServer(enc *export.Encoder) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(nil, enc, "test-key", log)
}

// TestCompileWorkout compiles an interval description through the stateless
// endpoint and checks the structured result.
func TestCompileWorkout(t *testing.T) {
	srv := testServer(export.New())

	body, _ := json.Marshal(models.WorkoutDescription{
		Type:      "intervals",
		Intervals: []models.Interval{{Reps: 6, DistanceM: 800, TargetPace: "3:30", Recovery: "90s"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts/compile?date=2025-05-14", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp compileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Structured == nil {
		t.Fatal("structured workout missing from response")
	}
	if resp.Structured.Name != "05/14 Intervals" {
		t.Errorf("name = %q, want %q", resp.Structured.Name, "05/14 Intervals")
	}
	if len(resp.Structured.Steps) != 3 {
		t.Fatalf("len(steps) = %d, want 3", len(resp.Structured.Steps))
	}
	repeat := resp.Structured.Steps[1]
	if repeat.Type != models.StepRepeat || repeat.RepeatCount != 6 {
		t.Errorf("middle step = %+v, want repeat x6", repeat)
	}
}

// TestCompileWorkoutMalformedPace verifies an unparseable pace degrades to an
// open target rather than failing the request.
func TestCompileWorkoutMalformedPace(t *testing.T) {
	srv := testServer(export.New())

	body, _ := json.Marshal(models.WorkoutDescription{
		Type:      "intervals",
		Intervals: []models.Interval{{Reps: 4, DistanceM: 400, TargetPace: "fast-ish"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts/compile", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp compileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	work := resp.Structured.Steps[1].RepeatSteps[0]
	if work.TargetType != models.TargetOpen {
		t.Errorf("work target = %q, want %q", work.TargetType, models.TargetOpen)
	}
}

func TestCompileWorkoutBadJSON(t *testing.T) {
	srv := testServer(export.New())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts/compile", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCompileWorkoutBadDate(t *testing.T) {
	srv := testServer(export.New())

	body, _ := json.Marshal(models.WorkoutDescription{Type: "easy run"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts/compile?date=14-05-2025", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestExportDisabled verifies a server built without an encoder answers 501
// before touching storage.
func TestExportDisabled(t *testing.T) {
	srv := testServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/6b1e2a34-9f1d-4a5b-8c2e-1d3f4a5b6c7d/export/fit", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotImplemented)
	}
	if !strings.Contains(rec.Body.String(), "not available") {
		t.Errorf("body = %q, want export-unavailable message", rec.Body.String())
	}
}

func TestExportInvalidSessionID(t *testing.T) {
	srv := testServer(export.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/not-a-uuid/export/fit", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
