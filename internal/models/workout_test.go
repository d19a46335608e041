package models

import (
	"errors"
	"testing"
)

func timeStep(sec float64) WorkoutStep {
	return WorkoutStep{
		Type:          StepActive,
		DurationType:  DurationTime,
		DurationValue: sec,
		TargetType:    TargetOpen,
	}
}

// TestValidateSimpleStep verifies that well-formed non-repeat steps pass
// validation for each duration type.
func TestValidateSimpleStep(t *testing.T) {
	steps := []WorkoutStep{
		{Type: StepWarmup, DurationType: DurationTime, DurationValue: 600, TargetType: TargetOpen},
		{Type: StepActive, DurationType: DurationDistance, DurationValue: 8000, TargetType: TargetPace, TargetValueLow: 300, TargetValueHigh: 330},
		{Type: StepCooldown, DurationType: DurationOpen, TargetType: TargetOpen},
		{Type: StepRest, DurationType: DurationManualLap, TargetType: TargetOpen},
	}
	for i, s := range steps {
		if err := s.Validate(); err != nil {
			t.Errorf("step %d: unexpected error: %v", i, err)
		}
	}
}

// TestValidateNestedRepeat verifies that a repeat step containing another
// repeat step is rejected with ErrNestedRepeat. One level of nesting is an
// explicit design limit, not an accident of the call sites.
func TestValidateNestedRepeat(t *testing.T) {
	inner := WorkoutStep{
		Type:        StepRepeat,
		RepeatCount: 2,
		RepeatSteps: []WorkoutStep{timeStep(60)},
	}
	outer := WorkoutStep{
		Type:        StepRepeat,
		RepeatCount: 3,
		RepeatSteps: []WorkoutStep{inner},
	}
	if err := outer.Validate(); !errors.Is(err, ErrNestedRepeat) {
		t.Fatalf("error = %v, want ErrNestedRepeat", err)
	}
}

// TestValidateRepeatCount verifies that repeat containers need a positive
// count and at least one child.
func TestValidateRepeatCount(t *testing.T) {
	noCount := WorkoutStep{Type: StepRepeat, RepeatSteps: []WorkoutStep{timeStep(60)}}
	if err := noCount.Validate(); !errors.Is(err, ErrBadRepeatCount) {
		t.Errorf("no count: error = %v, want ErrBadRepeatCount", err)
	}

	noChildren := WorkoutStep{Type: StepRepeat, RepeatCount: 4}
	if err := noChildren.Validate(); !errors.Is(err, ErrEmptyRepeat) {
		t.Errorf("no children: error = %v, want ErrEmptyRepeat", err)
	}
}

// TestValidateStrayFields verifies that repeat fields on a non-repeat step
// and a target zone without a heart_rate_zone target are rejected.
func TestValidateStrayFields(t *testing.T) {
	s := timeStep(60)
	s.RepeatCount = 2
	if err := s.Validate(); !errors.Is(err, ErrStrayRepeatField) {
		t.Errorf("repeat count on active step: error = %v, want ErrStrayRepeatField", err)
	}

	z := timeStep(60)
	z.TargetZone = 3
	if err := z.Validate(); !errors.Is(err, ErrStrayTargetZone) {
		t.Errorf("zone on open-target step: error = %v, want ErrStrayTargetZone", err)
	}

	ok := timeStep(60)
	ok.TargetType = TargetHeartRateZone
	ok.TargetZone = 3
	if err := ok.Validate(); err != nil {
		t.Errorf("zone with heart_rate_zone target: unexpected error: %v", err)
	}
}

// TestValidateMissingDuration verifies that time and distance steps require
// a positive duration value.
func TestValidateMissingDuration(t *testing.T) {
	s := WorkoutStep{Type: StepActive, DurationType: DurationTime, TargetType: TargetOpen}
	if err := s.Validate(); !errors.Is(err, ErrMissingDuration) {
		t.Fatalf("error = %v, want ErrMissingDuration", err)
	}
}

// TestStructuredWorkoutValidate verifies that step errors surface with the
// offending step's index.
func TestStructuredWorkoutValidate(t *testing.T) {
	w := &StructuredWorkout{
		Name:  "05/01 Easy Run",
		Sport: "running",
		Steps: []WorkoutStep{
			timeStep(600),
			{Type: StepRepeat, RepeatCount: 0, RepeatSteps: []WorkoutStep{timeStep(60)}},
		},
	}
	err := w.Validate()
	if !errors.Is(err, ErrBadRepeatCount) {
		t.Fatalf("error = %v, want ErrBadRepeatCount", err)
	}
}

// TestPreferencesWithDefaults verifies zero and partial preferences fill in
// the 190/50 defaults.
func TestPreferencesWithDefaults(t *testing.T) {
	p := Preferences{}.WithDefaults()
	if p.MaxHR != DefaultMaxHR || p.RestingHR != DefaultRestingHR {
		t.Fatalf("defaults = %d/%d, want %d/%d", p.MaxHR, p.RestingHR, DefaultMaxHR, DefaultRestingHR)
	}

	p = Preferences{MaxHR: 185}.WithDefaults()
	if p.MaxHR != 185 {
		t.Errorf("max_hr = %d, want 185", p.MaxHR)
	}
	if p.RestingHR != DefaultRestingHR {
		t.Errorf("resting_hr = %d, want %d", p.RestingHR, DefaultRestingHR)
	}
}

// TestExportWorkoutPriority verifies the final > planned > recommended
// selection order.
func TestExportWorkoutPriority(t *testing.T) {
	planned := &WorkoutDescription{Type: "easy", Description: "planned"}
	recommended := &WorkoutDescription{Type: "tempo", Description: "recommended"}
	final := &WorkoutDescription{Type: "interval", Description: "final"}

	s := &TrainingSession{Planned: planned, Recommended: recommended, Final: final}
	if got := s.ExportWorkout(); got != final {
		t.Errorf("with final: got %v", got)
	}

	s.Final = nil
	if got := s.ExportWorkout(); got != planned {
		t.Errorf("without final: got %v", got)
	}

	s.Planned = nil
	if got := s.ExportWorkout(); got != recommended {
		t.Errorf("recommended only: got %v", got)
	}

	s.Recommended = nil
	if got := s.ExportWorkout(); got != nil {
		t.Errorf("empty session: got %v, want nil", got)
	}
}
