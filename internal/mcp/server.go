package mcp

import (
	"log/slog"

	"github.com/ReedRawlings/fitnotes-sub003/internal/workout"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, svc *workout.Service, weightUnit, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitNotes", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Single-user workout tracking server. Query the exercise library, logged sessions, training volume, and progressive-overload recommendations."),
	)

	h := &handlers{ds: ds, svc: svc, unit: weightUnit, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolGetLastSession, Handler: h.getLastSession},
		server.ServerTool{Tool: toolGetProgressionStatus, Handler: h.getProgressionStatus},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetTrainingSummary, Handler: h.getTrainingSummary},
	)

	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds   DataSource
	svc  *workout.Service
	unit string
	log  *slog.Logger
}
