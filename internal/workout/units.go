// Package workout compiles loosely-structured workout descriptions into
// device-exportable structured workouts and holds the unit conversions the
// compiler and encoder share. All conversion functions are pure and total:
// malformed input degrades to a neutral default instead of an error, since a
// workout with a slightly off target beats a failed export.
package workout

import (
	"regexp"
	"strconv"
	"strings"
)

// zonePercents maps heart-rate zones 1-5 to Karvonen heart-rate-reserve
// percentage bands.
var zonePercents = map[int][2]float64{
	1: {0.50, 0.60}, // recovery
	2: {0.60, 0.70}, // aerobic
	3: {0.70, 0.80}, // tempo
	4: {0.80, 0.90}, // threshold
	5: {0.90, 1.00}, // VO2max
}

// DefaultRecoverySec is the recovery duration assumed when the free-text
// recovery field cannot be parsed.
const DefaultRecoverySec = 90

// ParsePace parses an "M:SS" pace string into seconds per kilometer.
// Returns ok=false on any malformation; it never panics.
func ParsePace(s string) (secPerKm float64, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || m < 0 {
		return 0, false
	}
	sec, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || sec < 0 {
		return 0, false
	}
	total := m*60 + sec
	if total <= 0 {
		return 0, false
	}
	return float64(total), true
}

// SpeedBounds converts a pace band (seconds per km) into a speed band (m/s).
// A numerically smaller pace is a faster effort, so the bounds swap: the low
// pace becomes the high speed and vice versa.
func SpeedBounds(lowPaceSecKm, highPaceSecKm float64) (lowMS, highMS float64) {
	if highPaceSecKm > 0 {
		lowMS = 1000.0 / highPaceSecKm
	}
	if lowPaceSecKm > 0 {
		highMS = 1000.0 / lowPaceSecKm
	}
	return lowMS, highMS
}

// ZoneBPMRange converts a heart-rate zone to a bpm band using the Karvonen
// heart-rate-reserve model: bpm = resting + (max - resting) * percent.
// Unknown zone numbers fall back to zone 1's percentages.
func ZoneBPMRange(zone, maxHR, restingHR int) (lowBPM, highBPM int) {
	pct, known := zonePercents[zone]
	if !known {
		pct = zonePercents[1]
	}
	reserve := float64(maxHR - restingHR)
	lowBPM = restingHR + int(reserve*pct[0])
	highBPM = restingHR + int(reserve*pct[1])
	return lowBPM, highBPM
}

var (
	recoveryMinRe = regexp.MustCompile(`^(\d+)\s*min(?:s|utes?)?$`)
	recoverySecRe = regexp.MustCompile(`^(\d+)\s*s(?:ecs?|econds?)?$`)
)

// ParseRecoveryDuration parses free-text recovery like "90s", "2min" or
// "2 minutes" into seconds. Anchored patterns keep "min" inside an unrelated
// token from being misread as a unit. Unparseable input defaults to
// DefaultRecoverySec.
func ParseRecoveryDuration(s string) int {
	text := strings.ToLower(strings.TrimSpace(s))
	if m := recoveryMinRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n * 60
		}
	}
	if m := recoverySecRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return DefaultRecoverySec
}
