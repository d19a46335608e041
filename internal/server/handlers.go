package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/strideplan/internal/export"
	"github.com/claude/strideplan/internal/models"
	"github.com/claude/strideplan/internal/storage"
	"github.com/claude/strideplan/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// createSessionRequest is the POST /sessions payload.
type createSessionRequest struct {
	Date        string                     `json:"session_date"`
	Planned     *models.WorkoutDescription `json:"planned_workout,omitempty"`
	Recommended *models.WorkoutDescription `json:"recommendation_workout,omitempty"`
	Notes       string                     `json:"notes,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_date must be YYYY-MM-DD"})
		return
	}

	session := &models.TrainingSession{
		ID:          uuid.New(),
		UserID:      userID(r),
		Date:        day,
		Planned:     req.Planned,
		Recommended: req.Recommended,
		Notes:       req.Notes,
	}
	if err := s.db.InsertSession(r.Context(), session); err != nil {
		s.log.Error("insert session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	session, err := s.db.GetSession(r.Context(), userID(r), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "training session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleQuerySessions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sessions, err := s.db.QuerySessions(r.Context(), userID(r), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleSetFinalWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var desc models.WorkoutDescription
	if err := json.NewDecoder(r.Body).Decode(&desc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	err := s.db.UpdateFinalWorkout(r.Context(), userID(r), id, &desc)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "training session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleExportSession compiles a session's workout and streams it back as a
// FIT file. The workout variant is picked final > planned > recommended.
func (s *Server) handleExportSession(w http.ResponseWriter, r *http.Request) {
	if s.enc == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "FIT export is not available"})
		return
	}
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	session, err := s.db.GetSession(r.Context(), userID(r), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "training session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	desc := session.ExportWorkout()
	if desc == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no workout data available for export"})
		return
	}

	structured, err := workout.Compile(*desc, session.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	prefs, err := s.db.GetPreferences(r.Context(), session.UserID)
	if err != nil {
		s.log.Warn("preferences lookup failed, using defaults", "error", err)
		prefs = models.Preferences{}.WithDefaults()
	}

	data, err := s.enc.Encode(structured, prefs)
	if errors.Is(err, export.ErrUnavailable) {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "FIT export is not available"})
		return
	}
	if err != nil {
		s.log.Error("fit encode", "session", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create FIT file"})
		return
	}

	filename := export.Filename(desc.Type, session.Date)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// compileResponse pairs the source description with its compiled form.
type compileResponse struct {
	Workout    models.WorkoutDescription `json:"workout"`
	Structured *models.StructuredWorkout `json:"structured"`
}

func (s *Server) handleCompileWorkout(w http.ResponseWriter, r *http.Request) {
	var desc models.WorkoutDescription
	if err := json.NewDecoder(r.Body).Decode(&desc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	day := time.Now()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse(dateLayout, d)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	structured, err := workout.Compile(desc, day)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, compileResponse{Workout: desc, Structured: structured})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.db.GetPreferences(r.Context(), userID(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.db.UpsertPreferences(r.Context(), userID(r), prefs); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, prefs.WithDefaults())
}

// userID resolves the acting user. Single-tenant deployments run as user 1;
// a user_id query parameter allows multi-user callers behind the API key.
func userID(r *http.Request) int {
	if v := r.URL.Query().Get("user_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			return id
		}
	}
	return 1
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseDateRange(r *http.Request) (start, end time.Time, err error) {
	q := r.URL.Query()
	end = time.Now()
	start = end.AddDate(0, 0, -7)
	if v := q.Get("start"); v != "" {
		if start, err = time.Parse(dateLayout, v); err != nil {
			return start, end, errors.New("start must be YYYY-MM-DD")
		}
	}
	if v := q.Get("end"); v != "" {
		if end, err = time.Parse(dateLayout, v); err != nil {
			return start, end, errors.New("end must be YYYY-MM-DD")
		}
	}
	return start, end, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
