package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/strideplan/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertSession inserts a training session. Workout variants are stored as
// JSON documents since their shape is owned by the compiler, not the schema.
func (db *DB) InsertSession(ctx context.Context, s *models.TrainingSession) error {
	planned, err := marshalWorkout(s.Planned)
	if err != nil {
		return fmt.Errorf("encoding planned workout: %w", err)
	}
	recommended, err := marshalWorkout(s.Recommended)
	if err != nil {
		return fmt.Errorf("encoding recommended workout: %w", err)
	}
	final, err := marshalWorkout(s.Final)
	if err != nil {
		return fmt.Errorf("encoding final workout: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO training_sessions
		 (id, user_id, session_date, planned_workout, recommendation_workout, final_workout, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.UserID, s.Date, planned, recommended, final, s.Notes)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// GetSession fetches one session by ID, scoped to the user. Returns
// ErrNotFound when no such session exists.
func (db *DB) GetSession(ctx context.Context, userID int, id uuid.UUID) (*models.TrainingSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, session_date, planned_workout, recommendation_workout, final_workout,
		        notes, created_at, updated_at
		 FROM training_sessions WHERE id = $1 AND user_id = $2`,
		id, userID)
	s, err := scanSession(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching session: %w", err)
	}
	return s, nil
}

// QuerySessions lists a user's sessions whose date falls in [start, end],
// ordered by date.
func (db *DB) QuerySessions(ctx context.Context, userID int, start, end time.Time) ([]*models.TrainingSession, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, session_date, planned_workout, recommendation_workout, final_workout,
		        notes, created_at, updated_at
		 FROM training_sessions
		 WHERE user_id = $1 AND session_date >= $2 AND session_date <= $3
		 ORDER BY session_date`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.TrainingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UpdateFinalWorkout stores the athlete's final (hand-edited) workout for a
// session. Returns ErrNotFound when the session does not exist.
func (db *DB) UpdateFinalWorkout(ctx context.Context, userID int, id uuid.UUID, w *models.WorkoutDescription) error {
	final, err := marshalWorkout(w)
	if err != nil {
		return fmt.Errorf("encoding final workout: %w", err)
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE training_sessions SET final_workout = $1, updated_at = now()
		 WHERE id = $2 AND user_id = $3`,
		final, id, userID)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalWorkout(w *models.WorkoutDescription) ([]byte, error) {
	if w == nil {
		return nil, nil
	}
	return json.Marshal(w)
}

func unmarshalWorkout(data []byte) (*models.WorkoutDescription, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var w models.WorkoutDescription
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func scanSession(row pgx.Row) (*models.TrainingSession, error) {
	var (
		s                           models.TrainingSession
		planned, recommended, final []byte
	)
	err := row.Scan(&s.ID, &s.UserID, &s.Date, &planned, &recommended, &final,
		&s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if s.Planned, err = unmarshalWorkout(planned); err != nil {
		return nil, fmt.Errorf("decoding planned workout: %w", err)
	}
	if s.Recommended, err = unmarshalWorkout(recommended); err != nil {
		return nil, fmt.Errorf("decoding recommended workout: %w", err)
	}
	if s.Final, err = unmarshalWorkout(final); err != nil {
		return nil, fmt.Errorf("decoding final workout: %w", err)
	}
	return &s, nil
}
