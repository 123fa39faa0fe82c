package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"route-optimizer-mcp/internal/domain"
)

// renderError converts a core error into a tool result. Structured errors
// render their message plus remediation suggestions; nothing propagates to
// the hosting protocol unformatted.
func renderError(err error) *mcp.CallToolResult {
	de, ok := domain.AsError(err)
	if !ok {
		return mcp.NewToolResultError(err.Error())
	}

	var b strings.Builder
	b.WriteString(de.Message)
	if len(de.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range de.Suggestions {
			b.WriteString("\n- " + s)
		}
	}
	return mcp.NewToolResultError(b.String())
}

// renderJSON marshals a payload into a text tool result.
func renderJSON(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultText(string(raw))
}

// sessionPayload is the session summary embedded in tool responses.
func sessionPayload(s *domain.Session) map[string]any {
	return map[string]any{
		"session_id":      s.ID,
		"name":            s.Name,
		"current_step":    s.CurrentStep,
		"next_step":       s.NextStep(),
		"completed_steps": s.CompletedSteps,
		"data_loaded":     s.DataLoaded,
	}
}

// resultPayload is the normalized result summary embedded in tool
// responses.
func resultPayload(r *domain.OptimizeResult) map[string]any {
	routes := make([]map[string]any, 0, len(r.Routes))
	for _, route := range r.Routes {
		routes = append(routes, map[string]any{
			"vehicle":  route.VehicleName,
			"visits":   route.Visits,
			"distance": route.Distance,
			"duration": route.Duration,
			"cost":     route.Cost,
		})
	}
	return map[string]any{
		"status":            r.Status,
		"routes":            routes,
		"unassigned_visits": r.UnassignedVisits,
		"total_distance":    r.TotalDistance,
		"total_duration":    r.TotalDuration,
		"total_cost":        r.TotalCost,
	}
}
