package models

import (
	"time"

	"github.com/google/uuid"
)

// TrainingSession is one calendar day's planned training. A session may
// carry up to three workout variants: the plan the athlete committed to,
// the AI recommendation, and the final (possibly hand-edited) version.
type TrainingSession struct {
	ID     uuid.UUID `json:"id"`
	UserID int       `json:"user_id"`
	Date   time.Time `json:"session_date"`

	Planned     *WorkoutDescription `json:"planned_workout,omitempty"`
	Recommended *WorkoutDescription `json:"recommendation_workout,omitempty"`
	Final       *WorkoutDescription `json:"final_workout,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExportWorkout picks the workout variant to export: final wins over
// planned, planned over recommended. Returns nil when the session has no
// workout data at all.
func (s *TrainingSession) ExportWorkout() *WorkoutDescription {
	switch {
	case s.Final != nil:
		return s.Final
	case s.Planned != nil:
		return s.Planned
	default:
		return s.Recommended
	}
}
