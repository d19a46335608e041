package models

import (
	"errors"
	"fmt"
)

// StepType classifies a workout step. Repeat is a container for interval
// repetitions and is never itself timed or targeted.
type StepType string

const (
	StepWarmup   StepType = "warmup"
	StepActive   StepType = "active"
	StepRecovery StepType = "recovery"
	StepRest     StepType = "rest"
	StepCooldown StepType = "cooldown"
	StepRepeat   StepType = "repeat"
)

// DurationType says how a step's duration is measured.
type DurationType string

const (
	DurationTime      DurationType = "time"       // DurationValue in seconds
	DurationDistance  DurationType = "distance"   // DurationValue in meters
	DurationManualLap DurationType = "manual_lap" // until the athlete presses lap
	DurationOpen      DurationType = "open"       // until the athlete advances
)

// TargetType says what physiological band a device should hold during a step.
type TargetType string

const (
	TargetOpen          TargetType = "open"
	TargetPace          TargetType = "pace"       // bounds in seconds per km
	TargetHeartRate     TargetType = "heart_rate" // bounds in bpm
	TargetHeartRateZone TargetType = "heart_rate_zone"
	TargetCadence       TargetType = "cadence"
)

// Validation errors for structurally impossible workouts. These are
// distinguishable with errors.Is so callers can report them as bad input
// rather than internal failures.
var (
	ErrNestedRepeat     = errors.New("repeat step may not contain another repeat step")
	ErrEmptyRepeat      = errors.New("repeat step has no child steps")
	ErrBadRepeatCount   = errors.New("repeat step requires a positive repeat count")
	ErrStrayRepeatField = errors.New("non-repeat step carries repeat fields")
	ErrStrayTargetZone  = errors.New("target zone set without heart_rate_zone target")
	ErrMissingDuration  = errors.New("time or distance step requires a positive duration value")
)

// WorkoutStep is a single instruction within a structured workout.
type WorkoutStep struct {
	Type StepType `json:"step_type"`
	Name string   `json:"name,omitempty"`

	DurationType  DurationType `json:"duration_type,omitempty"`
	DurationValue float64      `json:"duration_value,omitempty"` // seconds or meters per DurationType

	TargetType      TargetType `json:"target_type,omitempty"`
	TargetValueLow  float64    `json:"target_value_low,omitempty"`
	TargetValueHigh float64    `json:"target_value_high,omitempty"`
	TargetZone      int        `json:"target_zone,omitempty"` // 1-5, heart_rate_zone only

	// Repeat container fields. One level of nesting only: children must not
	// themselves be repeat steps.
	RepeatCount int           `json:"repeat_count,omitempty"`
	RepeatSteps []WorkoutStep `json:"repeat_steps,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// Validate checks the step's structural invariants.
func (s WorkoutStep) Validate() error {
	if s.Type == StepRepeat {
		if s.RepeatCount < 1 {
			return ErrBadRepeatCount
		}
		if len(s.RepeatSteps) == 0 {
			return ErrEmptyRepeat
		}
		for i, child := range s.RepeatSteps {
			if child.Type == StepRepeat {
				return ErrNestedRepeat
			}
			if err := child.Validate(); err != nil {
				return fmt.Errorf("repeat child %d: %w", i, err)
			}
		}
		return nil
	}

	if s.RepeatCount != 0 || len(s.RepeatSteps) > 0 {
		return ErrStrayRepeatField
	}
	if s.TargetZone != 0 && s.TargetType != TargetHeartRateZone {
		return ErrStrayTargetZone
	}
	switch s.DurationType {
	case DurationTime, DurationDistance:
		if s.DurationValue <= 0 {
			return ErrMissingDuration
		}
	}
	return nil
}

// StructuredWorkout is a whole session as an ordered step list, ready for
// device export. Name is kept at full length here; the encoder truncates it
// to the device limit. EstimatedDurationMin and EstimatedDistanceKm are
// display hints copied from the source description, not recomputed from the
// steps.
type StructuredWorkout struct {
	Name        string        `json:"name"`
	Sport       string        `json:"sport"`
	Description string        `json:"description,omitempty"`
	Steps       []WorkoutStep `json:"steps"`

	EstimatedDurationMin int     `json:"estimated_duration_min,omitempty"`
	EstimatedDistanceKm  float64 `json:"estimated_distance_km,omitempty"`
}

// Validate checks every step's structural invariants.
func (w *StructuredWorkout) Validate() error {
	for i, s := range w.Steps {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// WorkoutDescription is the loosely-structured workout dictionary produced
// by the recommendation and document-parsing collaborators. Everything
// except Type and Description is optional.
type WorkoutDescription struct {
	Type        string     `json:"type"` // easy, tempo, interval, long_run, ...
	Sport       string     `json:"sport,omitempty"`
	Description string     `json:"description"`
	DistanceKm  float64    `json:"distance_km,omitempty"`
	DurationMin int        `json:"duration_min,omitempty"`
	Intensity   string     `json:"intensity,omitempty"`
	HRZone      string     `json:"hr_zone,omitempty"`    // "zone1".."zone5"
	PaceRange   string     `json:"pace_range,omitempty"` // e.g. "5:00-5:30" or "5:00-5:30/km"
	Intervals   []Interval `json:"intervals,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// Interval is one entry of an interval session: N repetitions of a work
// effort followed by a recovery.
type Interval struct {
	Reps        int     `json:"reps"`
	DistanceM   float64 `json:"distance_m,omitempty"`
	DurationSec float64 `json:"duration_sec,omitempty"`
	TargetPace  string  `json:"target_pace,omitempty"` // "M:SS" per km
	Recovery    string  `json:"recovery,omitempty"`    // e.g. "90s", "2min"
}

// Default heart-rate settings used when a user has no stored preferences.
const (
	DefaultMaxHR     = 190
	DefaultRestingHR = 50
)

// Preferences holds the user settings that drive heart-rate zone conversion.
type Preferences struct {
	MaxHR     int `json:"max_hr"`
	RestingHR int `json:"resting_hr"`
}

// WithDefaults returns a copy with unset fields replaced by defaults.
func (p Preferences) WithDefaults() Preferences {
	if p.MaxHR <= 0 {
		p.MaxHR = DefaultMaxHR
	}
	if p.RestingHR <= 0 {
		p.RestingHR = DefaultRestingHR
	}
	return p
}
