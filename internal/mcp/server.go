// Package mcp exposes the workout compiler and FIT encoder as MCP tools so
// an LLM client can turn plain workout descriptions into Garmin-ready files.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/strideplan/internal/export"
)

// New creates an MCP server with all tools registered. A nil encoder
// disables the export tool's output and reports the degraded mode to
// callers instead of failing silently.
func New(enc *export.Encoder, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("StridePlan", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("StridePlan workout compiler. Turn plain-language running workout descriptions into structured steps and Garmin FIT workout files."),
	)

	h := &handlers{enc: enc, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolCompileWorkout, Handler: h.compileWorkout},
		server.ServerTool{Tool: toolExportWorkoutFIT, Handler: h.exportWorkoutFIT},
		server.ServerTool{Tool: toolGetZoneTable, Handler: h.getZoneTable},
	)

	return s
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	enc *export.Encoder
	log *slog.Logger
}
