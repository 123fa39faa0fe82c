package services

import (
	"reflect"
	"testing"

	"route-optimizer-mcp/internal/domain"
	"route-optimizer-mcp/internal/ports"
)

func sampleResponse() *ports.SolverResponse {
	return &ports.SolverResponse{
		Status: string(domain.StatusOptimal),
		RoutingEngineResult: &ports.RoutingEngineResult{
			Routes: []ports.SolverRoute{
				{
					VehicleName: "d1",
					RouteName:   []string{"hub", "o1", "o2", "hub"},
					RouteCostDetails: ports.RouteCostDetails{
						ObjectiveCost: 42.5,
						DistanceCost:  12.3,
						DurationCost:  30.2,
					},
				},
				{
					VehicleName: "d2",
					RouteName:   []string{"hub", "o3", "hub"},
					RouteCostDetails: ports.RouteCostDetails{
						ObjectiveCost: 10,
						DistanceCost:  4,
						DurationCost:  6,
					},
				},
			},
			UnassignedVisitNames: []string{"o4"},
			SolutionCostDetails: ports.SolutionCostDetails{
				TotalObjectiveCost: 52.5,
				TotalDistanceCost:  16.3,
				TotalDurationCost:  36.2,
			},
		},
	}
}

func TestTransformResponseStripsDepot(t *testing.T) {
	got := TransformResponse(sampleResponse(), "hub")

	if got.Status != domain.StatusOptimal {
		t.Fatalf("status = %s, want optimal", got.Status)
	}
	if len(got.Routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(got.Routes))
	}
	if !reflect.DeepEqual(got.Routes[0].Visits, []string{"o1", "o2"}) {
		t.Fatalf("route visits = %v, want depot stripped", got.Routes[0].Visits)
	}
	if got.Routes[0].Cost != 42.5 || got.Routes[0].Distance != 12.3 {
		t.Fatalf("route costs = %+v", got.Routes[0])
	}
	if !reflect.DeepEqual(got.UnassignedVisits, []string{"o4"}) {
		t.Fatalf("unassigned = %v", got.UnassignedVisits)
	}
	if got.TotalCost != 52.5 || got.TotalDistance != 16.3 || got.TotalDuration != 36.2 {
		t.Fatalf("totals = %+v", got)
	}
}

func TestTransformResponseIdempotent(t *testing.T) {
	resp := sampleResponse()
	first := TransformResponse(resp, "hub")
	second := TransformResponse(resp, "hub")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeat transform diverged:\n%+v\n%+v", first, second)
	}
	// The raw response is left untouched.
	if !reflect.DeepEqual(resp.RoutingEngineResult.Routes[0].RouteName, []string{"hub", "o1", "o2", "hub"}) {
		t.Fatalf("input mutated: %v", resp.RoutingEngineResult.Routes[0].RouteName)
	}
}

func TestTransformResponseNilResult(t *testing.T) {
	got := TransformResponse(&ports.SolverResponse{Status: "feasible"}, "hub")

	if got.Status != domain.StatusFeasible {
		t.Fatalf("status = %s", got.Status)
	}
	if len(got.Routes) != 0 || len(got.UnassignedVisits) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestStripDepot(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{"hub", "a", "b", "hub"}, []string{"a", "b"}},
		{[]string{"a", "b"}, []string{"a", "b"}},
		{[]string{"hub", "a"}, []string{"a"}},
		{[]string{"a", "hub"}, []string{"a"}},
		{[]string{"hub"}, []string{}},
		{[]string{}, []string{}},
	}
	for _, tc := range cases {
		if got := stripDepot(tc.in, "hub"); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("stripDepot(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
