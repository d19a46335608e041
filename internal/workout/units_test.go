package workout

import "testing"

// TestParsePace covers well-formed and malformed "M:SS" pace strings.
// Malformed input must return ok=false, never panic.
func TestParsePace(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"5:00", 300, true},
		{"3:30", 210, true},
		{" 4:45 ", 285, true},
		{"0:45", 45, true},
		{"10:00", 600, true},
		{"0:00", 0, false},
		{"not-a-pace", 0, false},
		{"500", 0, false},
		{"5:00:00", 0, false},
		{"5:xx", 0, false},
		{"-5:00", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePace(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParsePace(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

// TestSpeedBoundsInversion checks the inversion law over a sweep of pace
// bands: for low pace < high pace (low = faster), the speed bounds must
// swap, with speed_high = 1000/low_pace and speed_low = 1000/high_pace and
// speed_low < speed_high throughout.
func TestSpeedBoundsInversion(t *testing.T) {
	for lowPace := 150.0; lowPace < 600; lowPace += 7 {
		for highPace := lowPace + 1; highPace < lowPace+120; highPace += 11 {
			lowMS, highMS := SpeedBounds(lowPace, highPace)
			if lowMS >= highMS {
				t.Fatalf("SpeedBounds(%v, %v): low %v >= high %v", lowPace, highPace, lowMS, highMS)
			}
			if want := 1000.0 / lowPace; highMS != want {
				t.Fatalf("SpeedBounds(%v, %v): high = %v, want %v", lowPace, highPace, highMS, want)
			}
			if want := 1000.0 / highPace; lowMS != want {
				t.Fatalf("SpeedBounds(%v, %v): low = %v, want %v", lowPace, highPace, lowMS, want)
			}
		}
	}
}

// TestSpeedBoundsZeroPace verifies that a zero pace bound degrades to a zero
// speed instead of dividing by zero.
func TestSpeedBoundsZeroPace(t *testing.T) {
	low, high := SpeedBounds(0, 0)
	if low != 0 || high != 0 {
		t.Fatalf("SpeedBounds(0, 0) = (%v, %v), want (0, 0)", low, high)
	}
}

// TestZoneBPMRange verifies the Karvonen conversion for the documented zone
// table with the default 190/50 settings.
func TestZoneBPMRange(t *testing.T) {
	tests := []struct {
		zone     int
		low, high int
	}{
		{1, 120, 134},
		{2, 134, 148},
		{3, 148, 162},
		{4, 162, 176},
		{5, 176, 190},
	}
	for _, tt := range tests {
		low, high := ZoneBPMRange(tt.zone, 190, 50)
		if low != tt.low || high != tt.high {
			t.Errorf("zone %d = (%d, %d), want (%d, %d)", tt.zone, low, high, tt.low, tt.high)
		}
	}
}

// TestZoneBPMRangeProperties checks, across a range of HR settings, that
// every zone yields low < high <= max_hr and that zone lows increase
// monotonically with the zone number.
func TestZoneBPMRangeProperties(t *testing.T) {
	for maxHR := 160; maxHR <= 210; maxHR += 5 {
		for restingHR := 38; restingHR < maxHR-40; restingHR += 7 {
			prevLow := -1
			for zone := 1; zone <= 5; zone++ {
				low, high := ZoneBPMRange(zone, maxHR, restingHR)
				if low >= high {
					t.Fatalf("zone %d (%d/%d): low %d >= high %d", zone, maxHR, restingHR, low, high)
				}
				if high > maxHR {
					t.Fatalf("zone %d (%d/%d): high %d > max %d", zone, maxHR, restingHR, high, maxHR)
				}
				if low < prevLow {
					t.Fatalf("zone %d (%d/%d): low %d < previous zone's low %d", zone, maxHR, restingHR, low, prevLow)
				}
				prevLow = low
			}
		}
	}
}

// TestZoneBPMRangeUnknownZone verifies unknown zones fall back to zone 1
// rather than erroring.
func TestZoneBPMRangeUnknownZone(t *testing.T) {
	wantLow, wantHigh := ZoneBPMRange(1, 190, 50)
	for _, zone := range []int{0, 6, -1, 99} {
		low, high := ZoneBPMRange(zone, 190, 50)
		if low != wantLow || high != wantHigh {
			t.Errorf("zone %d = (%d, %d), want zone 1's (%d, %d)", zone, low, high, wantLow, wantHigh)
		}
	}
}

// TestParseRecoveryDuration covers minute, second, and unparseable recovery
// text, including "min" buried inside another token.
func TestParseRecoveryDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"90s", 90},
		{"45 sec", 45},
		{"120 seconds", 120},
		{"2min", 120},
		{"2 min", 120},
		{"3 minutes", 180},
		{"1 mins", 60},
		{"", DefaultRecoverySec},
		{"jog it out", DefaultRecoverySec},
		{"5 minimum", DefaultRecoverySec}, // "min" inside a longer token is not a unit
		{"administered", DefaultRecoverySec},
		{"s", DefaultRecoverySec},
	}
	for _, tt := range tests {
		if got := ParseRecoveryDuration(tt.in); got != tt.want {
			t.Errorf("ParseRecoveryDuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
