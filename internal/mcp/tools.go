package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/strideplan/internal/export"
	"github.com/claude/strideplan/internal/models"
	"github.com/claude/strideplan/internal/workout"
)

// parseArgs decodes the workout and date parameters shared by the compile
// and export tools.
func parseArgs(req mcp.CallToolRequest) (models.WorkoutDescription, time.Time, error) {
	raw, err := req.RequireString("workout")
	if err != nil {
		return models.WorkoutDescription{}, time.Time{}, fmt.Errorf("workout parameter is required")
	}

	var desc models.WorkoutDescription
	if err := json.Unmarshal([]byte(raw), &desc); err != nil {
		return models.WorkoutDescription{}, time.Time{}, fmt.Errorf("workout must be a JSON object: %w", err)
	}

	day := time.Now()
	if d := req.GetString("date", ""); d != "" {
		day, err = time.Parse("2006-01-02", d)
		if err != nil {
			return models.WorkoutDescription{}, time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
		}
	}
	return desc, day, nil
}

func prefsFromRequest(req mcp.CallToolRequest) models.Preferences {
	return models.Preferences{
		MaxHR:     int(req.GetFloat("max_hr", 0)),
		RestingHR: int(req.GetFloat("resting_hr", 0)),
	}.WithDefaults()
}

// --- Tool definitions ---

var toolCompileWorkout = mcp.NewTool("compile_workout",
	mcp.WithDescription("Compile a workout description into structured steps (warmup, work, recovery, cooldown, repeats) with pace and heart rate targets. Returns the structured workout as JSON."),
	mcp.WithString("workout", mcp.Required(), mcp.Description(`Workout description as a JSON object, e.g. {"type":"intervals","intervals":[{"reps":6,"distance_m":800,"target_pace":"3:30","recovery":"90s"}]}`)),
	mcp.WithString("date", mcp.Description("Scheduled date (YYYY-MM-DD), used for the workout name. Defaults to today.")),
)

var toolExportWorkoutFIT = mcp.NewTool("export_workout_fit",
	mcp.WithDescription("Compile a workout description and encode it as a Garmin FIT workout file. Returns the filename and the file contents as base64."),
	mcp.WithString("workout", mcp.Required(), mcp.Description("Workout description as a JSON object (same format as compile_workout)")),
	mcp.WithString("date", mcp.Description("Scheduled date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithNumber("max_hr", mcp.Description("Maximum heart rate for zone targets. Defaults to 190.")),
	mcp.WithNumber("resting_hr", mcp.Description("Resting heart rate for zone targets. Defaults to 50.")),
)

var toolGetZoneTable = mcp.NewTool("get_zone_table",
	mcp.WithDescription("Compute the five Karvonen heart rate zones for a given max and resting heart rate."),
	mcp.WithNumber("max_hr", mcp.Description("Maximum heart rate. Defaults to 190.")),
	mcp.WithNumber("resting_hr", mcp.Description("Resting heart rate. Defaults to 50.")),
)

// --- Tool handlers ---

func (h *handlers) compileWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	desc, day, err := parseArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	structured, err := workout.Compile(desc, day)
	if err != nil {
		return mcp.NewToolResultError("compile failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(structured)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) exportWorkoutFIT(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.enc == nil {
		return mcp.NewToolResultError("FIT export is not available on this server"), nil
	}

	desc, day, err := parseArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	structured, err := workout.Compile(desc, day)
	if err != nil {
		return mcp.NewToolResultError("compile failed: " + err.Error()), nil
	}

	data, err := h.enc.Encode(structured, prefsFromRequest(req))
	if err != nil {
		h.log.Error("fit encode", "error", err)
		return mcp.NewToolResultError("encode failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"filename":    export.Filename(desc.Type, day),
		"size_bytes":  len(data),
		"data_base64": base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getZoneTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefs := prefsFromRequest(req)

	type zone struct {
		Zone    int `json:"zone"`
		LowBPM  int `json:"low_bpm"`
		HighBPM int `json:"high_bpm"`
	}
	zones := make([]zone, 0, 5)
	for z := 1; z <= 5; z++ {
		low, high := workout.ZoneBPMRange(z, prefs.MaxHR, prefs.RestingHR)
		zones = append(zones, zone{Zone: z, LowBPM: low, HighBPM: high})
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"max_hr":     prefs.MaxHR,
		"resting_hr": prefs.RestingHR,
		"zones":      zones,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
