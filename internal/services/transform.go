package services

import (
	"route-optimizer-mcp/internal/domain"
	"route-optimizer-mcp/internal/ports"
)

// TransformResponse normalizes a raw solver response: depot entries are
// stripped from both ends of each route's visit sequence, per-route and
// solution-level costs are pulled from the cost breakdown fields, and the
// unassigned-visit names pass through unchanged. Pure function; calling it
// twice on the same response yields identical output.
func TransformResponse(resp *ports.SolverResponse, depotName string) *domain.OptimizeResult {
	out := &domain.OptimizeResult{
		Status:           domain.SolveStatus(resp.Status),
		Routes:           []domain.VehicleRoute{},
		UnassignedVisits: []string{},
	}

	result := resp.RoutingEngineResult
	if result == nil {
		return out
	}

	for _, r := range result.Routes {
		out.Routes = append(out.Routes, domain.VehicleRoute{
			VehicleName: r.VehicleName,
			Visits:      stripDepot(r.RouteName, depotName),
			Distance:    r.RouteCostDetails.DistanceCost,
			Duration:    r.RouteCostDetails.DurationCost,
			Cost:        r.RouteCostDetails.ObjectiveCost,
		})
	}

	out.UnassignedVisits = append(out.UnassignedVisits, result.UnassignedVisitNames...)
	out.TotalCost = result.SolutionCostDetails.TotalObjectiveCost
	out.TotalDistance = result.SolutionCostDetails.TotalDistanceCost
	out.TotalDuration = result.SolutionCostDetails.TotalDurationCost

	return out
}

// stripDepot removes the depot name from both ends of a route sequence
// without mutating the input slice.
func stripDepot(names []string, depotName string) []string {
	start, end := 0, len(names)
	if end > 0 && names[0] == depotName {
		start++
	}
	if end > start && names[end-1] == depotName {
		end--
	}
	visits := make([]string, end-start)
	copy(visits, names[start:end])
	return visits
}
