package mcp

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// TestParseArgs verifies workout JSON and date decoding for the compile and
// export tools.
func TestParseArgs(t *testing.T) {
	req := request(map[string]any{
		"workout": `{"type":"intervals","intervals":[{"reps":6,"distance_m":800,"target_pace":"3:30"}]}`,
		"date":    "2025-05-14",
	})
	desc, day, err := parseArgs(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.Type != "intervals" || len(desc.Intervals) != 1 || desc.Intervals[0].Reps != 6 {
		t.Errorf("desc = %+v, want intervals with 6 reps", desc)
	}
	if day.Year() != 2025 || day.Month() != 5 || day.Day() != 14 {
		t.Errorf("day = %v, want 2025-05-14", day)
	}
}

func TestParseArgsInvalid(t *testing.T) {
	if _, _, err := parseArgs(request(map[string]any{})); err == nil {
		t.Error("expected error for missing workout")
	}
	if _, _, err := parseArgs(request(map[string]any{"workout": "not json"})); err == nil {
		t.Error("expected error for malformed workout JSON")
	}
	if _, _, err := parseArgs(request(map[string]any{
		"workout": `{"type":"easy run"}`,
		"date":    "14/05/2025",
	})); err == nil {
		t.Error("expected error for malformed date")
	}
}

// TestPrefsFromRequest verifies heart rate parameters fall back to the
// standard 190/50 profile when omitted.
func TestPrefsFromRequest(t *testing.T) {
	prefs := prefsFromRequest(request(map[string]any{}))
	if prefs.MaxHR != 190 || prefs.RestingHR != 50 {
		t.Errorf("defaults = %d/%d, want 190/50", prefs.MaxHR, prefs.RestingHR)
	}

	prefs = prefsFromRequest(request(map[string]any{"max_hr": 185.0, "resting_hr": 42.0}))
	if prefs.MaxHR != 185 || prefs.RestingHR != 42 {
		t.Errorf("prefs = %d/%d, want 185/42", prefs.MaxHR, prefs.RestingHR)
	}
}
