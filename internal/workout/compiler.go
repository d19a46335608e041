package workout

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/claude/strideplan/internal/models"
)

// Step skeleton defaults. Durations in seconds, distances in meters.
const (
	defaultWarmupSec     = 600
	defaultSessionMin    = 45
	defaultWorkDistanceM = 400
	paceBandSecPerKm     = 5
	reserveDistanceM     = 2000 // held back from the main set for warmup/cooldown
	minMainDistanceM     = 1000
)

// Compile builds a StructuredWorkout from a workout description. Both the
// recommendation path and the document-parsing path feed through here; the
// two sources produce the same description shape, so one compiler serves
// both. The returned workout always passes Validate.
func Compile(desc models.WorkoutDescription, day time.Time) (*models.StructuredWorkout, error) {
	var steps []models.WorkoutStep
	if len(desc.Intervals) > 0 {
		var err error
		steps, err = intervalSteps(desc.Intervals)
		if err != nil {
			return nil, err
		}
	} else {
		steps = simpleSteps(desc)
	}

	sport := desc.Sport
	if sport == "" {
		sport = "running"
	}

	w := &models.StructuredWorkout{
		Name:                 day.Format("01/02") + " " + titleCase(desc.Type),
		Sport:                sport,
		Description:          desc.Description,
		Steps:                steps,
		EstimatedDurationMin: desc.DurationMin,
		EstimatedDistanceKm:  desc.DistanceKm,
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("compiled workout invalid: %w", err)
	}
	return w, nil
}

// intervalSteps emits warmup, one repeat block per interval entry, cooldown.
// Each repeat holds exactly two children: the work effort and its recovery.
func intervalSteps(intervals []models.Interval) ([]models.WorkoutStep, error) {
	steps := []models.WorkoutStep{openTimeStep(models.StepWarmup, "Warm Up", defaultWarmupSec)}

	for i, iv := range intervals {
		if iv.Reps < 0 {
			return nil, fmt.Errorf("interval %d: reps must be positive, got %d", i, iv.Reps)
		}
		reps := iv.Reps
		if reps == 0 {
			reps = 1
		}

		work := models.WorkoutStep{
			Type:       models.StepActive,
			Name:       "Work",
			TargetType: models.TargetOpen,
		}
		if iv.DurationSec > 0 {
			work.DurationType = models.DurationTime
			work.DurationValue = iv.DurationSec
		} else {
			work.DurationType = models.DurationDistance
			work.DurationValue = iv.DistanceM
			if work.DurationValue <= 0 {
				work.DurationValue = defaultWorkDistanceM
			}
		}
		if pace, ok := ParsePace(strings.TrimSuffix(strings.TrimSpace(iv.TargetPace), "/km")); ok {
			work.TargetType = models.TargetPace
			work.TargetValueLow = pace - paceBandSecPerKm
			work.TargetValueHigh = pace + paceBandSecPerKm
		}

		recovery := models.WorkoutStep{
			Type:          models.StepRecovery,
			Name:          "Recovery",
			DurationType:  models.DurationTime,
			DurationValue: float64(ParseRecoveryDuration(iv.Recovery)),
			TargetType:    models.TargetOpen,
		}

		steps = append(steps, models.WorkoutStep{
			Type:        models.StepRepeat,
			Name:        repeatName(reps, work),
			RepeatCount: reps,
			RepeatSteps: []models.WorkoutStep{work, recovery},
		})
	}

	steps = append(steps, openTimeStep(models.StepCooldown, "Cool Down", defaultWarmupSec))
	return steps, nil
}

// simpleSteps emits warmup, one main set, cooldown. The main set is
// distance-typed when the description carries a distance, otherwise
// time-typed from the remaining duration.
func simpleSteps(desc models.WorkoutDescription) []models.WorkoutStep {
	durationMin := desc.DurationMin
	if durationMin <= 0 {
		durationMin = defaultSessionMin
	}
	totalSec := durationMin * 60
	totalDistanceM := desc.DistanceKm * 1000

	warmupSec := min(defaultWarmupSec, totalSec/6)
	cooldownSec := warmupSec
	mainSec := totalSec - warmupSec - cooldownSec

	main := models.WorkoutStep{
		Type: models.StepActive,
		Name: titleCase(desc.Type),
	}
	if totalDistanceM > 0 {
		main.DurationType = models.DurationDistance
		main.DurationValue = max(totalDistanceM-reserveDistanceM, minMainDistanceM)
	} else {
		main.DurationType = models.DurationTime
		main.DurationValue = float64(mainSec)
	}

	// Target priority: pace range, then HR zone, then open.
	if low, high, ok := parsePaceRange(desc.PaceRange); ok {
		main.TargetType = models.TargetPace
		main.TargetValueLow = low
		main.TargetValueHigh = high
	} else if zone := parseZone(desc.HRZone); zone > 0 {
		main.TargetType = models.TargetHeartRateZone
		main.TargetZone = zone
	} else {
		main.TargetType = models.TargetOpen
	}

	return []models.WorkoutStep{
		openTimeStep(models.StepWarmup, "Warm Up", warmupSec),
		main,
		openTimeStep(models.StepCooldown, "Cool Down", cooldownSec),
	}
}

// parsePaceRange parses "M:SS-M:SS" (optionally suffixed "/km") into a pace
// band in seconds per km. Both halves must parse.
func parsePaceRange(s string) (low, high float64, ok bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "/km")
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	low, okLow := ParsePace(parts[0])
	high, okHigh := ParsePace(parts[1])
	if !okLow || !okHigh {
		return 0, 0, false
	}
	return low, high, true
}

// parseZone parses "zone3" (or a bare "3") into a zone number. Returns 0
// when the text does not name a zone.
func parseZone(s string) int {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "zone")
	if len(s) != 1 || s[0] < '1' || s[0] > '5' {
		return 0
	}
	return int(s[0] - '0')
}

func openTimeStep(t models.StepType, name string, sec int) models.WorkoutStep {
	return models.WorkoutStep{
		Type:          t,
		Name:          name,
		DurationType:  models.DurationTime,
		DurationValue: float64(sec),
		TargetType:    models.TargetOpen,
	}
}

func repeatName(reps int, work models.WorkoutStep) string {
	if work.DurationType == models.DurationDistance {
		return fmt.Sprintf("%dx%.0fm", reps, work.DurationValue)
	}
	return fmt.Sprintf("%dx%.0fs", reps, work.DurationValue)
}

// titleCase renders a workout type like "long_run" as "Long Run".
func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
