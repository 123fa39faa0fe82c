package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"route-optimizer-mcp/internal/domain"
	"route-optimizer-mcp/internal/platform/obs"
)

func (s *Server) handleStartProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = obs.WithTool(ctx, toolStartProject)

	session, err := s.workflow.StartProject(ctx, request.GetString("name", ""))
	if err != nil {
		return renderError(err), nil
	}
	return renderJSON(map[string]any{
		"message": fmt.Sprintf("project %q started; next step: %s", session.Name, session.NextStep()),
		"session": sessionPayload(session),
	}), nil
}

func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = obs.WithTool(ctx, toolListProjects)

	sessions, err := s.workflow.ListProjects(ctx)
	if err != nil {
		return renderError(err), nil
	}
	payload := make([]map[string]any, 0, len(sessions))
	for _, session := range sessions {
		payload = append(payload, sessionPayload(session))
	}
	return renderJSON(map[string]any{"projects": payload}), nil
}

func (s *Server) handleProjectStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = obs.WithTool(ctx, toolProjectStatus)

	session, err := s.workflow.Status(ctx, request.GetString("session_id", ""))
	if err != nil {
		return renderError(err), nil
	}
	payload := map[string]any{"session": sessionPayload(session)}
	if session.LastClassification != nil {
		payload["classification"] = session.LastClassification
	}
	if session.LastResult != nil {
		payload["last_result"] = resultPayload(session.LastResult)
	}
	return renderJSON(payload), nil
}

func (s *Server) handleDeleteProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = obs.WithTool(ctx, toolDeleteProject)

	id := request.GetString("session_id", "")
	if err := s.workflow.DeleteProject(ctx, id); err != nil {
		return renderError(err), nil
	}
	return mcp.NewToolResultText("project deleted"), nil
}

func (s *Server) handleLoadData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = obs.WithTool(ctx, toolLoadData)

	driversFile, err := request.RequireString("drivers_file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ordersFile, err := request.RequireString("orders_file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, session, err := s.workflow.LoadData(ctx,
		request.GetString("session_id", ""),
		driversFile,
		ordersFile,
		request.GetString("depots_file", ""),
	)
	if err != nil {
		return renderError(err), nil
	}

	return renderJSON(map[string]any{
		"message": fmt.Sprintf("loaded %d drivers, %d orders, %d depots (%d row errors)",
			len(ds.Drivers), len(ds.Orders), len(ds.Depots), len(ds.Errors)),
		"row_errors": ds.Errors,
		"session":    sessionPayload(session),
	}), nil
}

func (s *Server) handleConfigure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = obs.WithTool(ctx, toolConfigure)

	cfg := domain.ProjectConfig{
		Objective:    request.GetString("objective", ""),
		DistanceType: request.GetString("distance_type", ""),
		TimeLimit:    request.GetInt("time_limit", 0),
	}

	// Tri-state booleans: only set the override when the argument is
	// actually present, so an omitted flag keeps auto-detection.
	args := request.GetArguments()
	if _, ok := args["capacity_constraint"]; ok {
		v := request.GetBool("capacity_constraint", false)
		cfg.Constraints.Capacity = &v
	}
	if _, ok := args["time_window_constraint"]; ok {
		v := request.GetBool("time_window_constraint", false)
		cfg.Constraints.TimeWindows = &v
	}
	if _, ok := args["allow_unassigned"]; ok {
		v := request.GetBool("allow_unassigned", false)
		cfg.AllowUnassigned = &v
	}

	session, cls, err := s.workflow.Configure(ctx, request.GetString("session_id", ""), cfg)
	if err != nil {
		return renderError(err), nil
	}

	payload := map[string]any{
		"message": "configuration saved",
		"session": sessionPayload(session),
	}
	if cls.Variant != "" {
		payload["message"] = fmt.Sprintf("configuration saved; detected variant: %s", cls.Variant)
		payload["classification"] = cls
	}
	return renderJSON(payload), nil
}

func (s *Server) handleOptimize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = obs.WithTool(ctx, toolOptimize)

	result, session, err := s.workflow.Optimize(ctx, request.GetString("session_id", ""))
	if err != nil {
		return renderError(err), nil
	}
	return renderJSON(map[string]any{
		"message": fmt.Sprintf("optimization finished with status %q", result.Status),
		"result":  resultPayload(result),
		"session": sessionPayload(session),
	}), nil
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = obs.WithTool(ctx, toolAnalyze)

	result, session, err := s.workflow.Analyze(ctx, request.GetString("session_id", ""))
	if err != nil {
		return renderError(err), nil
	}
	return renderJSON(map[string]any{
		"message": fmt.Sprintf("%d routes, %d unassigned visits, total cost %.1f",
			len(result.Routes), len(result.UnassignedVisits), result.TotalCost),
		"result":  resultPayload(result),
		"session": sessionPayload(session),
	}), nil
}

func (s *Server) handleRefine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = obs.WithTool(ctx, toolRefine)

	feedback, err := request.RequireString("feedback")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	intent, result, session, err := s.workflow.Refine(ctx, request.GetString("session_id", ""), feedback)
	if err != nil {
		return renderError(err), nil
	}
	return renderJSON(map[string]any{
		"message": fmt.Sprintf("refined with objective %q; new status %q", intent, result.Status),
		"intent":  intent,
		"result":  resultPayload(result),
		"session": sessionPayload(session),
	}), nil
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = obs.WithTool(ctx, toolExport)

	report, _, err := s.workflow.Export(ctx, request.GetString("session_id", ""))
	if err != nil {
		return renderError(err), nil
	}
	return mcp.NewToolResultText(report), nil
}
