// Package export encodes structured workouts into Garmin FIT workout files.
// The encoder is a single linear pass over the step list; the only state is
// the monotonically increasing message index that repeat containers use to
// back-reference their first child.
package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/strideplan/internal/models"
	"github.com/claude/strideplan/internal/workout"
	"github.com/tormoder/fit"
)

// ErrUnavailable reports that FIT encoding is not available in this
// deployment. Callers should surface it as "feature unavailable", not as an
// internal error.
var ErrUnavailable = errors.New("fit export is not available")

// Device-visible limits and placeholders.
const (
	maxNameLen        = 20 // Garmin truncates workout names past this
	serialPlaceholder = 12345
)

// Encoder turns a StructuredWorkout into FIT workout file bytes. An Encoder
// holds no per-encode state and is safe for concurrent use.
type Encoder struct {
	now func() time.Time
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithClock overrides the source of the file creation timestamp. Tests use
// a fixed clock to make encoding byte-for-byte reproducible.
func WithClock(now func() time.Time) Option {
	return func(e *Encoder) { e.now = now }
}

// New creates an Encoder.
func New(opts ...Option) *Encoder {
	e := &Encoder{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode builds the FIT workout file for w. It returns either a complete
// file or an error — never truncated bytes. A nil Encoder reports
// ErrUnavailable so a deployment without export configured degrades to a
// distinguishable condition.
func (e *Encoder) Encode(w *models.StructuredWorkout, prefs models.Preferences) ([]byte, error) {
	if e == nil {
		return nil, ErrUnavailable
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workout: %w", err)
	}
	prefs = prefs.WithDefaults()

	file, err := fit.NewFile(fit.FileTypeWorkout, fit.NewHeader(fit.V20, true))
	if err != nil {
		return nil, fmt.Errorf("creating fit file: %w", err)
	}
	file.FileId = fit.FileIdMsg{
		Type:         fit.FileTypeWorkout,
		Manufacturer: fit.ManufacturerDevelopment,
		Product:      0,
		SerialNumber: serialPlaceholder,
		TimeCreated:  e.now().UTC().Truncate(time.Second),
	}

	wf, err := file.Workout()
	if err != nil {
		return nil, fmt.Errorf("accessing workout file: %w", err)
	}

	wf.Workout = fit.NewWorkoutMsg()
	wf.Workout.WktName = truncateName(w.Name)
	wf.Workout.Sport = fitSport(w.Sport)
	wf.Workout.NumValidSteps = uint16(countSteps(w.Steps))

	msgs, err := buildSteps(w.Steps, prefs)
	if err != nil {
		return nil, err
	}
	wf.WorkoutSteps = msgs

	var buf bytes.Buffer
	if err := fit.Encode(&buf, file, binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("encoding fit file: %w", err)
	}
	return buf.Bytes(), nil
}

// countSteps counts the step messages the encoder will emit: one per
// top-level step plus one per repeat child (each repeat container is itself
// one message).
func countSteps(steps []models.WorkoutStep) int {
	n := 0
	for _, s := range steps {
		n++
		if s.Type == models.StepRepeat {
			n += len(s.RepeatSteps)
		}
	}
	return n
}

// buildSteps walks the top-level steps in order, assigning message indices.
// For a repeat block the children are emitted first, then the container,
// whose target value back-references the first child's index. Devices read
// that integer to find the loop start, so the ordering here is the
// structural invariant the whole encoder upholds.
func buildSteps(steps []models.WorkoutStep, prefs models.Preferences) ([]*fit.WorkoutStepMsg, error) {
	var msgs []*fit.WorkoutStepMsg
	idx := 0
	for _, step := range steps {
		if step.Type == models.StepRepeat {
			firstChild := idx
			for _, child := range step.RepeatSteps {
				msgs = append(msgs, stepMessage(child, idx, prefs))
				idx++
			}
			if idx == firstChild {
				// Unreachable after Validate; a container emitted with no
				// children would loop forever on-device.
				return nil, fmt.Errorf("internal: repeat container %q emitted without children", step.Name)
			}
			msgs = append(msgs, repeatMessage(step, idx, firstChild))
			idx++
			continue
		}
		msgs = append(msgs, stepMessage(step, idx, prefs))
		idx++
	}
	return msgs, nil
}

// stepMessage converts one non-repeat step: time to milliseconds, distance
// to centimeters, pace bands to mm/s speed bounds, heart-rate zones to bpm
// via Karvonen.
func stepMessage(step models.WorkoutStep, idx int, prefs models.Preferences) *fit.WorkoutStepMsg {
	msg := fit.NewWorkoutStepMsg()
	msg.MessageIndex = fit.MessageIndex(idx)
	msg.WktStepName = truncateName(step.Name)
	msg.Intensity = fitIntensity(step.Type)

	switch step.DurationType {
	case models.DurationTime:
		msg.DurationType = fit.WktStepDurationTime
		msg.DurationValue = uint32(step.DurationValue * 1000)
	case models.DurationDistance:
		msg.DurationType = fit.WktStepDurationDistance
		msg.DurationValue = uint32(step.DurationValue * 100)
	default:
		msg.DurationType = fit.WktStepDurationOpen
	}

	switch step.TargetType {
	case models.TargetPace:
		msg.TargetType = fit.WktStepTargetSpeed
		if step.TargetValueLow > 0 && step.TargetValueHigh > 0 {
			lowMS, highMS := workout.SpeedBounds(step.TargetValueLow, step.TargetValueHigh)
			msg.CustomTargetValueLow = uint32(lowMS * 1000)
			msg.CustomTargetValueHigh = uint32(highMS * 1000)
		}
	case models.TargetHeartRate:
		msg.TargetType = fit.WktStepTargetHeartRate
		msg.CustomTargetValueLow = uint32(step.TargetValueLow)
		msg.CustomTargetValueHigh = uint32(step.TargetValueHigh)
	case models.TargetHeartRateZone:
		msg.TargetType = fit.WktStepTargetHeartRate
		low, high := workout.ZoneBPMRange(step.TargetZone, prefs.MaxHR, prefs.RestingHR)
		msg.CustomTargetValueLow = uint32(low)
		msg.CustomTargetValueHigh = uint32(high)
	case models.TargetCadence:
		msg.TargetType = fit.WktStepTargetCadence
		msg.CustomTargetValueLow = uint32(step.TargetValueLow)
		msg.CustomTargetValueHigh = uint32(step.TargetValueHigh)
	default:
		msg.TargetType = fit.WktStepTargetOpen
	}
	return msg
}

// repeatMessage converts a repeat container: "repeat until N completions"
// with the first child's index as the back-reference.
func repeatMessage(step models.WorkoutStep, idx, firstChild int) *fit.WorkoutStepMsg {
	msg := fit.NewWorkoutStepMsg()
	msg.MessageIndex = fit.MessageIndex(idx)
	msg.WktStepName = truncateName(step.Name)
	msg.Intensity = fit.IntensityActive
	msg.DurationType = fit.WktStepDurationRepeatUntilStepsCmplt
	msg.DurationValue = uint32(step.RepeatCount)
	msg.TargetType = fit.WktStepTargetOpen
	msg.TargetValue = uint32(firstChild)
	return msg
}

func fitIntensity(t models.StepType) fit.Intensity {
	switch t {
	case models.StepWarmup:
		return fit.IntensityWarmup
	case models.StepRecovery:
		return fit.IntensityRecovery
	case models.StepRest:
		return fit.IntensityRest
	case models.StepCooldown:
		return fit.IntensityCooldown
	default:
		return fit.IntensityActive
	}
}

func fitSport(sport string) fit.Sport {
	switch sport {
	case "running":
		return fit.SportRunning
	case "cycling":
		return fit.SportCycling
	case "swimming":
		return fit.SportSwimming
	case "hiking":
		return fit.SportHiking
	case "rowing":
		return fit.SportRowing
	case "strength":
		return fit.SportTraining
	default:
		return fit.SportGeneric
	}
}

func truncateName(name string) string {
	if len(name) > maxNameLen {
		return name[:maxNameLen]
	}
	return name
}

// Filename returns the suggested download filename for a workout exported
// on the given day, e.g. "20260514_long-run.fit".
func Filename(workoutType string, day time.Time) string {
	t := strings.TrimSpace(workoutType)
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "-")
	if t == "" {
		t = "workout"
	}
	return day.Format("20060102") + "_" + t + ".fit"
}
