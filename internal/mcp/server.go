// Package mcp exposes the project workflow as MCP tools. Transport details
// (stdio, SSE) belong to the mcp-go server; this package only wires tool
// schemas to workflow operations and renders results.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"route-optimizer-mcp/internal/services"
)

// Tool names, one per workflow operation.
const (
	toolStartProject  = "start_project"
	toolListProjects  = "list_projects"
	toolProjectStatus = "project_status"
	toolDeleteProject = "delete_project"
	toolLoadData      = "load_data"
	toolConfigure     = "configure_optimization"
	toolOptimize      = "run_optimization"
	toolAnalyze       = "analyze_results"
	toolRefine        = "refine_solution"
	toolExport        = "export_results"
)

// Server wraps the mcp-go server with the workflow service.
type Server struct {
	server   *server.MCPServer
	workflow *services.Workflow
}

// NewServer creates the MCP server and registers all workflow tools.
func NewServer(name, version string, workflow *services.Workflow) *Server {
	s := &Server{
		server: server.NewMCPServer(
			name,
			version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
		workflow: workflow,
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on the stdio transport (blocking).
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.server)
}

// ServeSSE starts the server on the HTTP/SSE transport (blocking).
func (s *Server) ServeSSE(addr string) error {
	sse := server.NewSSEServer(s.server,
		server.WithBaseURL("http://"+addr),
		server.WithStaticBasePath("/mcp"),
	)
	return sse.Start(addr)
}

func (s *Server) registerTools() {
	session := mcp.WithString("session_id",
		mcp.Description("Project session id (defaults to the active session)"),
	)

	s.server.AddTool(mcp.NewTool(toolStartProject,
		mcp.WithDescription("Start a new route optimization project and make it the active session"),
		mcp.WithString("name",
			mcp.Description("Project name"),
		),
	), s.handleStartProject)

	s.server.AddTool(mcp.NewTool(toolListProjects,
		mcp.WithDescription("List all project sessions"),
	), s.handleListProjects)

	s.server.AddTool(mcp.NewTool(toolProjectStatus,
		mcp.WithDescription("Show a project's workflow progress and last result summary"),
		session,
	), s.handleProjectStatus)

	s.server.AddTool(mcp.NewTool(toolDeleteProject,
		mcp.WithDescription("Delete a project session (sessions are never deleted automatically)"),
		session,
	), s.handleDeleteProject)

	s.server.AddTool(mcp.NewTool(toolLoadData,
		mcp.WithDescription("Load and validate driver/order/depot CSV files for the project"),
		mcp.WithString("drivers_file",
			mcp.Required(),
			mcp.Description("Path to the drivers CSV file"),
		),
		mcp.WithString("orders_file",
			mcp.Required(),
			mcp.Description("Path to the orders CSV file"),
		),
		mcp.WithString("depots_file",
			mcp.Description("Path to the depots CSV file (optional)"),
		),
		session,
	), s.handleLoadData)

	s.server.AddTool(mcp.NewTool(toolConfigure,
		mcp.WithDescription("Set explicit optimization choices; unset fields stay auto-detected"),
		mcp.WithBoolean("capacity_constraint",
			mcp.Description("Force the capacity constraint on or off"),
		),
		mcp.WithBoolean("time_window_constraint",
			mcp.Description("Force the time-window constraint on or off"),
		),
		mcp.WithString("objective",
			mcp.Description(`Objective type: "minsum" or "minmax"`),
		),
		mcp.WithString("distance_type",
			mcp.Description(`Distance metric: "euclidean", "manhattan" or "osrm"`),
		),
		mcp.WithNumber("time_limit",
			mcp.Description("Solver time limit in seconds"),
		),
		mcp.WithBoolean("allow_unassigned",
			mcp.Description("Allow the solver to leave visits unassigned"),
		),
		session,
	), s.handleConfigure)

	s.server.AddTool(mcp.NewTool(toolOptimize,
		mcp.WithDescription("Classify the problem, build the solver request and run the optimization"),
		session,
	), s.handleOptimize)

	s.server.AddTool(mcp.NewTool(toolAnalyze,
		mcp.WithDescription("Summarize the last optimization result"),
		session,
	), s.handleAnalyze)

	s.server.AddTool(mcp.NewTool(toolRefine,
		mcp.WithDescription("Adjust the configuration from free-form feedback and re-optimize"),
		mcp.WithString("feedback",
			mcp.Required(),
			mcp.Description("What should improve, e.g. \"balance the routes better\""),
		),
		session,
	), s.handleRefine)

	s.server.AddTool(mcp.NewTool(toolExport,
		mcp.WithDescription("Produce a plain-text report of the last result"),
		session,
	), s.handleExport)
}
