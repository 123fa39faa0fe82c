package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"route-optimizer-mcp/internal/domain"
)

func capDrivers(n int, capweight float64) []domain.Driver {
	drivers := make([]domain.Driver, 0, n)
	for i := 0; i < n; i++ {
		drivers = append(drivers, domain.Driver{
			ID:             fmt.Sprintf("d%d", i),
			Start:          coord(37.5, 127.0),
			CapacityWeight: capweight,
		})
	}
	return drivers
}

func codeOf(t *testing.T, err error) domain.ErrorCode {
	t.Helper()
	var derr *domain.Error
	if !errors.As(err, &derr) {
		t.Fatalf("error %v is not a *domain.Error", err)
	}
	return derr.Code
}

func TestBuildRequestFullAssembly(t *testing.T) {
	drivers := capDrivers(2, 100)
	orders := []domain.Order{
		{ID: "o1", Delivery: coord(37.6, 127.1), Weight: 30},
		{ID: "o2", Delivery: coord(37.7, 127.2), Weight: 40},
	}
	depots := []domain.Depot{{ID: "hub", Location: coord(37.5, 127.0)}}

	req, cls, err := BuildRequest(drivers, orders, depots, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if cls.Variant != domain.VariantCVRP {
		t.Fatalf("variant = %s, want CVRP", cls.Variant)
	}
	if req.Depot.Name != "hub" {
		t.Fatalf("depot = %q, want hub", req.Depot.Name)
	}
	if len(req.Visits) != 2 || len(req.Vehicles) != 2 {
		t.Fatalf("got %d visits, %d vehicles", len(req.Visits), len(req.Vehicles))
	}
	if req.Visits[0].Weight == nil || *req.Visits[0].Weight != 30 {
		t.Fatalf("visit weight = %v, want 30", req.Visits[0].Weight)
	}
	if req.Option.Timelimit != 10 || req.Option.ObjectiveType != "minsum" {
		t.Fatalf("unexpected option: %+v", req.Option)
	}
}

func TestBuildRequestSynthesizesDepotFromDriver(t *testing.T) {
	drivers := []domain.Driver{{ID: "alpha", Start: coord(37.5, 127.0)}}
	orders := []domain.Order{{ID: "o1", Delivery: coord(37.6, 127.1)}}

	req, _, err := BuildRequest(drivers, orders, nil, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if req.Depot.Name != "depot-alpha" {
		t.Fatalf("depot = %q, want depot-alpha", req.Depot.Name)
	}
	if req.Depot.Coordinate.Lat != 37.5 || req.Depot.Coordinate.Lng != 127.0 {
		t.Fatalf("depot coordinate = %+v", req.Depot.Coordinate)
	}
}

func TestBuildRequestNoDepotNoDrivers(t *testing.T) {
	_, _, err := BuildRequest(nil, simpleOrders(1), nil, BuildOptions{})
	if codeOf(t, err) != domain.ErrInsufficientData {
		t.Fatalf("code = %s, want insufficient data", codeOf(t, err))
	}
}

func TestBuildRequestRejectsBadCoordinates(t *testing.T) {
	drivers := []domain.Driver{{ID: "d1", Start: coord(37.5, 127.0)}}
	orders := []domain.Order{{ID: "bad", Delivery: coord(95.0, 127.1)}}

	_, _, err := BuildRequest(drivers, orders, nil, BuildOptions{})
	if codeOf(t, err) != domain.ErrInvalidCoordinates {
		t.Fatalf("code = %s, want invalid coordinates", codeOf(t, err))
	}

	drivers[0].Start = coord(37.5, 200.0)
	orders[0].Delivery = coord(37.6, 127.1)
	_, _, err = BuildRequest(drivers, orders, nil, BuildOptions{})
	if codeOf(t, err) != domain.ErrInvalidCoordinates {
		t.Fatalf("code = %s, want invalid coordinates for driver start", codeOf(t, err))
	}
}

func TestBuildVisitsPenalties(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("tsp gets none", func(t *testing.T) {
		cls := domain.Classification{Variant: domain.VariantTSP}
		visits, err := buildVisits(simpleOrders(1), cls, now)
		if err != nil {
			t.Fatal(err)
		}
		if visits[0].UnassignedPenalty != nil {
			t.Fatalf("penalty = %d, want none for TSP", *visits[0].UnassignedPenalty)
		}
	})

	t.Run("default for other variants", func(t *testing.T) {
		cls := domain.Classification{Variant: domain.VariantCVRP}
		visits, err := buildVisits(simpleOrders(1), cls, now)
		if err != nil {
			t.Fatal(err)
		}
		if visits[0].UnassignedPenalty == nil || *visits[0].UnassignedPenalty != 100 {
			t.Fatalf("penalty = %v, want 100", visits[0].UnassignedPenalty)
		}
	})

	t.Run("priority weighted with preferences", func(t *testing.T) {
		cls := domain.Classification{Variant: domain.VariantPreferences, HasPreferences: true}
		orders := []domain.Order{
			{ID: "p1", Delivery: coord(37.6, 127.1), Priority: 1},
			{ID: "p3", Delivery: coord(37.6, 127.1), Priority: 3},
			{ID: "p0", Delivery: coord(37.6, 127.1)},
		}
		visits, err := buildVisits(orders, cls, now)
		if err != nil {
			t.Fatal(err)
		}
		if *visits[0].UnassignedPenalty != 1000 {
			t.Fatalf("priority 1 penalty = %d, want 1000", *visits[0].UnassignedPenalty)
		}
		if *visits[1].UnassignedPenalty != 333 {
			t.Fatalf("priority 3 penalty = %d, want 333", *visits[1].UnassignedPenalty)
		}
		// No priority falls back to the flat default.
		if *visits[2].UnassignedPenalty != 100 {
			t.Fatalf("no-priority penalty = %d, want 100", *visits[2].UnassignedPenalty)
		}
	})
}

func TestBuildVisitsTimeWindows(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	cls := domain.Classification{Variant: domain.VariantCVRPTW, HasCapacity: true, HasTimeWindows: true}

	orders := []domain.Order{
		{ID: "tw", Delivery: coord(37.6, 127.1), Weight: -5, TimeWindowStart: "09:00", TimeWindowEnd: "12:00"},
		{ID: "svc", Delivery: coord(37.6, 127.1), TimeWindowStart: "09:00", TimeWindowEnd: "12:00", ServiceTime: 25},
		{ID: "plain", Delivery: coord(37.6, 127.1)},
	}
	visits, err := buildVisits(orders, cls, now)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"2026-03-14T09:00:00Z", "2026-03-14T12:00:00Z"}
	if visits[0].TimeWindow[0] != want[0] || visits[0].TimeWindow[1] != want[1] {
		t.Fatalf("time window = %v, want %v", visits[0].TimeWindow, want)
	}
	if visits[0].ServiceTime != 10 {
		t.Fatalf("service time = %d, want default 10", visits[0].ServiceTime)
	}
	if *visits[0].Weight != 0 {
		t.Fatalf("negative weight should clamp to 0, got %v", *visits[0].Weight)
	}
	if visits[1].ServiceTime != 25 {
		t.Fatalf("explicit service time = %d, want 25", visits[1].ServiceTime)
	}
	if visits[2].TimeWindow != nil {
		t.Fatalf("order without window got %v", visits[2].TimeWindow)
	}
}

func TestBuildVehiclesCapacityAndCosts(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("volume defaults to weight with floor", func(t *testing.T) {
		cls := domain.Classification{Variant: domain.VariantCVRP, HasCapacity: true}
		drivers := []domain.Driver{
			{ID: "big", Start: coord(37.5, 127.0), CapacityWeight: 500},
			{ID: "none", Start: coord(37.5, 127.0)},
		}
		vehicles, err := buildVehicles(drivers, cls, now)
		if err != nil {
			t.Fatal(err)
		}
		if *vehicles[0].VolumeCapacity != 500 {
			t.Fatalf("volume = %v, want weight value 500", *vehicles[0].VolumeCapacity)
		}
		if *vehicles[1].VolumeCapacity != 1 {
			t.Fatalf("volume = %v, want floor of 1", *vehicles[1].VolumeCapacity)
		}
		if vehicles[1].VehicleType != "car" {
			t.Fatalf("vehicle type = %q, want car default", vehicles[1].VehicleType)
		}
	})

	t.Run("legacy per-km rate", func(t *testing.T) {
		cls := domain.Classification{Variant: domain.VariantCVRP}
		drivers := []domain.Driver{
			{ID: "d1", Start: coord(37.5, 127.0), CostPerKm: 3.5},
			{ID: "d2", Start: coord(37.5, 127.0)},
		}
		vehicles, err := buildVehicles(drivers, cls, now)
		if err != nil {
			t.Fatal(err)
		}
		if vehicles[0].UnitDistanceCost != 3.5 {
			t.Fatalf("distance cost = %v, want 3.5", vehicles[0].UnitDistanceCost)
		}
		if vehicles[1].UnitDistanceCost != 1 {
			t.Fatalf("distance cost = %v, want default 1", vehicles[1].UnitDistanceCost)
		}
	})

	t.Run("multi objective costs", func(t *testing.T) {
		cls := domain.Classification{Variant: domain.VariantMultiObjective, HasMultiObjective: true}
		drivers := []domain.Driver{
			{ID: "d1", Start: coord(37.5, 127.0), FixedCost: 5000, UnitDurationCost: 2, CostPerKm: 3.5},
		}
		vehicles, err := buildVehicles(drivers, cls, now)
		if err != nil {
			t.Fatal(err)
		}
		v := vehicles[0]
		if v.FixedCost != 5000 || v.UnitDurationCost != 2 {
			t.Fatalf("costs = %+v", v)
		}
		// Per-km rate fills in when no explicit distance cost is set.
		if v.UnitDistanceCost != 3.5 {
			t.Fatalf("distance cost = %v, want per-km fallback 3.5", v.UnitDistanceCost)
		}
	})

	t.Run("working hours and preferences", func(t *testing.T) {
		cls := domain.Classification{
			Variant:         domain.VariantDriverShifts,
			HasWorkingHours: true,
			HasPreferences:  true,
		}
		drivers := []domain.Driver{
			{ID: "d1", Start: coord(37.5, 127.0), WorkStart: "08:00", WorkEnd: "18:00", Preferences: []string{"o1", "o2"}},
		}
		vehicles, err := buildVehicles(drivers, cls, now)
		if err != nil {
			t.Fatal(err)
		}
		if vehicles[0].WorkStartTime != "2026-03-14T08:00:00Z" {
			t.Fatalf("work start = %q", vehicles[0].WorkStartTime)
		}
		if len(vehicles[0].VisitPreference) != 2 {
			t.Fatalf("preferences = %v", vehicles[0].VisitPreference)
		}
	})
}

func TestBuildOptionDefaults(t *testing.T) {
	small := buildOption(domain.Classification{Variant: domain.VariantCVRP}, 10, 3, BuildOptions{})
	if small.AllowUnassignedVisits || small.UseLargeSizeOptimizationAlgorithm {
		t.Fatalf("small problem flagged large: %+v", small)
	}
	if !small.IncludeDepartureCostFromDepot || !small.IncludeReturnCostToDepot {
		t.Fatalf("depot legs should be costed: %+v", small)
	}

	large := buildOption(domain.Classification{Variant: domain.VariantCVRP}, 100, 3, BuildOptions{})
	if !large.AllowUnassignedVisits || !large.UseLargeSizeOptimizationAlgorithm {
		t.Fatalf("100 visits should flag large: %+v", large)
	}

	manyVehicles := buildOption(domain.Classification{Variant: domain.VariantCVRP}, 10, 20, BuildOptions{})
	if !manyVehicles.UseLargeSizeOptimizationAlgorithm {
		t.Fatalf("20 vehicles should flag large: %+v", manyVehicles)
	}

	split := buildOption(domain.Classification{Variant: domain.VariantTSP}, 10, 3, BuildOptions{})
	if split.ObjectiveType != "minmax" {
		t.Fatalf("multi-vehicle tour objective = %q, want minmax", split.ObjectiveType)
	}

	off := false
	overridden := buildOption(domain.Classification{Variant: domain.VariantCVRP}, 100, 3, BuildOptions{
		Objective:       "minsum",
		DistanceType:    "osrm",
		TimeLimit:       45,
		AllowUnassigned: &off,
	})
	if overridden.Timelimit != 45 || overridden.DistanceType != "osrm" {
		t.Fatalf("overrides not applied: %+v", overridden)
	}
	if overridden.AllowUnassignedVisits {
		t.Fatal("explicit allow-unassigned override should win over the size default")
	}
}

func TestDefaultTimeLimitTable(t *testing.T) {
	cases := []struct {
		variant domain.ProblemVariant
		want    int
	}{
		{domain.VariantTSP, 10},
		{domain.VariantCVRP, 10},
		{domain.VariantPreferences, 15},
		{domain.VariantDriverShifts, 20},
		{domain.VariantMultiObjective, 20},
		{domain.VariantCVRPTW, 30},
	}
	for _, tc := range cases {
		got := defaultTimeLimit(domain.Classification{Variant: tc.variant})
		if got != tc.want {
			t.Errorf("defaultTimeLimit(%s) = %d, want %d", tc.variant, got, tc.want)
		}
	}

	if got := defaultTimeLimit(domain.Classification{IsLargeProblem: true}); got != 300 {
		t.Errorf("large fallback = %d, want 300", got)
	}
	if got := defaultTimeLimit(domain.Classification{HasTimeWindows: true}); got != 30 {
		t.Errorf("time-window fallback = %d, want 30", got)
	}
}

func TestNormalizeTimeBound(t *testing.T) {
	day := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		in, want string
	}{
		{"09:00", "2026-03-14T09:00:00Z"},
		{"09:00:30", "2026-03-14T09:00:30Z"},
		{" 09:00 ", "2026-03-14T09:00:00Z"},
		{"2026-04-01T09:00:00Z", "2026-04-01T09:00:00Z"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeTimeBound(tc.in, day); got != tc.want {
			t.Errorf("normalizeTimeBound(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateRequestTimeWindowOrder(t *testing.T) {
	drivers := capDrivers(1, 100)
	orders := []domain.Order{
		{ID: "o1", Delivery: coord(37.6, 127.1), Weight: 10, TimeWindowStart: "12:00", TimeWindowEnd: "09:00"},
	}

	_, _, err := BuildRequest(drivers, orders, nil, BuildOptions{})
	if codeOf(t, err) != domain.ErrInvalidTimeWindow {
		t.Fatalf("code = %s, want invalid time window", codeOf(t, err))
	}
}

func TestValidateRequestEmptyInputs(t *testing.T) {
	_, _, err := BuildRequest(capDrivers(1, 100), nil, nil, BuildOptions{})
	if codeOf(t, err) != domain.ErrEmptyVisitsOrVehicles {
		t.Fatalf("code = %s, want empty visits/vehicles", codeOf(t, err))
	}
}

func TestValidateRequestCapacitySoftCheck(t *testing.T) {
	// Demand below capacity succeeds without warnings.
	drivers := capDrivers(3, 1000)
	orders := []domain.Order{
		{ID: "o1", Delivery: coord(37.6, 127.1), Weight: 2000},
	}
	if _, _, err := BuildRequest(drivers, orders, nil, BuildOptions{}); err != nil {
		t.Fatalf("demand within capacity should pass: %v", err)
	}

	// Excess demand warns but still builds a valid request.
	orders[0].Weight = 4000
	req, _, err := BuildRequest(drivers, orders, nil, BuildOptions{})
	if err != nil {
		t.Fatalf("excess demand must not fail the build: %v", err)
	}
	if req == nil || len(req.Visits) != 1 {
		t.Fatalf("unexpected request: %+v", req)
	}
}
