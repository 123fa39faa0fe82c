package services

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"route-optimizer-mcp/internal/domain"
	"route-optimizer-mcp/internal/ports"
)

const (
	defaultUnassignedPenalty = 100
	defaultServiceTime       = 10
	defaultUnitDistanceCost  = 1
	minVolumeCapacity        = 1
)

// BuildOptions carries the explicit user choices that override
// auto-detection when assembling a solver request.
type BuildOptions struct {
	Constraints     domain.ConstraintOverrides
	Objective       string
	DistanceType    string
	TimeLimit       int
	AllowUnassigned *bool
}

// BuildRequest assembles the full solver request from validated records.
// Each stage is a pure function producing an immutable piece (depot, visit
// list, vehicle list, option bag) combined here; classification is re-run
// with the resolved constraint overrides folded in, so an explicit capacity
// override can change the detected variant.
func BuildRequest(
	drivers []domain.Driver,
	orders []domain.Order,
	depots []domain.Depot,
	opts BuildOptions,
) (*ports.SolverRequest, domain.Classification, error) {
	cls := Classify(drivers, orders, opts.Constraints)

	depot, err := selectDepot(depots, drivers)
	if err != nil {
		return nil, cls, err
	}

	visits, err := buildVisits(orders, cls, time.Now())
	if err != nil {
		return nil, cls, err
	}

	vehicles, err := buildVehicles(drivers, cls, time.Now())
	if err != nil {
		return nil, cls, err
	}

	req := &ports.SolverRequest{
		Depot:    depot,
		Visits:   visits,
		Vehicles: vehicles,
		Option:   buildOption(cls, len(visits), len(vehicles), opts),
	}

	if err := validateRequest(req, cls); err != nil {
		return nil, cls, err
	}
	return req, cls, nil
}

// selectDepot picks the authoritative depot: an explicit depot record when
// supplied, else one synthesized from the first driver's start location.
func selectDepot(depots []domain.Depot, drivers []domain.Driver) (ports.Depot, error) {
	if len(depots) > 0 {
		d := depots[0]
		if !d.Location.Valid() {
			return ports.Depot{}, domain.NewError(domain.ErrInvalidCoordinates,
				fmt.Sprintf("depot %q has out-of-range coordinates", d.ID),
				"check the depot latitude/longitude values",
			).WithDetail("depot_id", d.ID)
		}
		return ports.Depot{
			Name:       d.ID,
			Coordinate: ports.Coordinate{Lng: d.Location.Lng, Lat: d.Location.Lat},
		}, nil
	}

	if len(drivers) > 0 {
		d := drivers[0]
		if !d.Start.Valid() {
			return ports.Depot{}, domain.NewError(domain.ErrInvalidCoordinates,
				fmt.Sprintf("driver %q has out-of-range start coordinates", d.ID),
				"check the driver start latitude/longitude values",
			).WithDetail("driver_id", d.ID)
		}
		return ports.Depot{
			Name:       "depot-" + d.ID,
			Coordinate: ports.Coordinate{Lng: d.Start.Lng, Lat: d.Start.Lat},
		}, nil
	}

	return ports.Depot{}, domain.NewError(domain.ErrInsufficientData,
		"no depot or driver available to anchor the request",
		"load a depot file or at least one driver record",
	)
}

// buildVisits maps orders to wire visits. Demand fields are attached only
// when the capacity constraint is active; unassigned penalties apply to
// every non-TSP variant, with priority-derived weighting when preferences
// are in play.
func buildVisits(orders []domain.Order, cls domain.Classification, now time.Time) ([]ports.Visit, error) {
	visits := make([]ports.Visit, 0, len(orders))

	for _, o := range orders {
		if !o.Delivery.Valid() {
			return nil, domain.NewError(domain.ErrInvalidCoordinates,
				fmt.Sprintf("order %q has out-of-range delivery coordinates", o.ID),
				"check the delivery latitude/longitude values",
			).WithDetail("order_id", o.ID)
		}

		v := ports.Visit{
			Name:       o.ID,
			Coordinate: ports.Coordinate{Lng: o.Delivery.Lng, Lat: o.Delivery.Lat},
		}

		if cls.HasCapacity {
			w := math.Max(0, o.Weight)
			vol := math.Max(0, o.Volume)
			v.Weight = &w
			v.Volume = &vol
		}

		// Priority-weighted penalty only when preferences are active; the
		// plain default applies to every non-TSP variant.
		if cls.HasPreferences && o.Priority > 0 {
			penalty := int(math.Round(1000 / float64(o.Priority)))
			v.UnassignedPenalty = &penalty
		} else if cls.Variant != domain.VariantTSP {
			penalty := defaultUnassignedPenalty
			v.UnassignedPenalty = &penalty
		}

		if cls.HasTimeWindows && o.HasTimeWindow() {
			v.TimeWindow = []string{
				normalizeTimeBound(o.TimeWindowStart, now),
				normalizeTimeBound(o.TimeWindowEnd, now),
			}
			v.ServiceTime = o.ServiceTime
			if v.ServiceTime == 0 {
				v.ServiceTime = defaultServiceTime
			}
		}

		visits = append(visits, v)
	}

	return visits, nil
}

// buildVehicles maps drivers to wire vehicles. Capacity fields attach only
// when the capacity constraint is active; the cost model switches between
// the multi-objective fields and the legacy per-km rate.
func buildVehicles(drivers []domain.Driver, cls domain.Classification, now time.Time) ([]ports.Vehicle, error) {
	vehicles := make([]ports.Vehicle, 0, len(drivers))

	for _, d := range drivers {
		if !d.Start.Valid() {
			return nil, domain.NewError(domain.ErrInvalidCoordinates,
				fmt.Sprintf("driver %q has out-of-range start coordinates", d.ID),
				"check the driver start latitude/longitude values",
			).WithDetail("driver_id", d.ID)
		}

		v := ports.Vehicle{
			Name:          d.ID,
			VehicleType:   d.VehicleType,
			ReturnToDepot: true,
		}
		if v.VehicleType == "" {
			v.VehicleType = "car"
		}

		if cls.HasCapacity {
			w := math.Max(0, d.CapacityWeight)
			vol := d.CapacityVolume
			if vol <= 0 {
				vol = w
			}
			// The solver rejects zero-capacity vehicles outright.
			if vol < minVolumeCapacity {
				vol = minVolumeCapacity
			}
			v.WeightCapacity = &w
			v.VolumeCapacity = &vol
		}

		if cls.HasMultiObjective {
			v.FixedCost = d.FixedCost
			v.UnitDistanceCost = d.UnitDistanceCost
			if v.UnitDistanceCost == 0 {
				v.UnitDistanceCost = d.CostPerKm
			}
			v.UnitDurationCost = d.UnitDurationCost
		} else {
			v.UnitDistanceCost = d.CostPerKm
			if v.UnitDistanceCost == 0 {
				v.UnitDistanceCost = defaultUnitDistanceCost
			}
		}

		if cls.HasWorkingHours && d.HasWorkingHours() {
			v.WorkStartTime = normalizeTimeBound(d.WorkStart, now)
			v.WorkEndTime = normalizeTimeBound(d.WorkEnd, now)
		}

		if cls.HasPreferences && len(d.Preferences) > 0 {
			v.VisitPreference = d.Preferences
		}

		vehicles = append(vehicles, v)
	}

	return vehicles, nil
}

// buildOption assembles the solver option bag. The large-problem flag and
// the unassigned-visit default share the endpoint-size thresholds.
func buildOption(cls domain.Classification, visitCount, vehicleCount int, opts BuildOptions) ports.Option {
	large := visitCount >= asyncVisitThreshold || vehicleCount >= asyncVehicleThreshold

	opt := ports.Option{
		Timelimit:                         defaultTimeLimit(cls),
		ObjectiveType:                     "minsum",
		DistanceType:                      "euclidean",
		AllowUnassignedVisits:             large,
		UseLargeSizeOptimizationAlgorithm: large,
		IncludeDepartureCostFromDepot:     true,
		IncludeReturnCostToDepot:          true,
	}

	if opts.TimeLimit > 0 {
		opt.Timelimit = opts.TimeLimit
	}
	if opts.Objective != "" {
		opt.ObjectiveType = opts.Objective
	} else if cls.Variant == domain.VariantTSP && vehicleCount > 1 {
		// Fairness objective for a multi-vehicle tour split.
		opt.ObjectiveType = "minmax"
	}
	if opts.DistanceType != "" {
		opt.DistanceType = opts.DistanceType
	}
	if opts.AllowUnassigned != nil {
		opt.AllowUnassignedVisits = *opts.AllowUnassigned
	}

	return opt
}

// defaultTimeLimit returns the per-variant solver time budget.
func defaultTimeLimit(cls domain.Classification) int {
	switch cls.Variant {
	case domain.VariantTSP, domain.VariantCVRP:
		return 10
	case domain.VariantPreferences:
		return 15
	case domain.VariantDriverShifts, domain.VariantMultiObjective:
		return 20
	case domain.VariantCVRPTW:
		return 30
	default:
		if cls.IsLargeProblem {
			return 300
		}
		if cls.HasTimeWindows {
			return 30
		}
		return 10
	}
}

// normalizeTimeBound turns a clock time into a full timestamp anchored on
// day's calendar date with a UTC designator. Already date-qualified values
// pass through unchanged.
func normalizeTimeBound(value string, day time.Time) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.Contains(value, "T") {
		return value
	}
	if len(value) == len("15:04") {
		value += ":00"
	}
	return day.UTC().Format("2006-01-02") + "T" + value + "Z"
}

// validateRequest runs the final preconditions: nonzero entity counts, a
// demand-vs-capacity soft check (warn only), and strict time-window order.
func validateRequest(req *ports.SolverRequest, cls domain.Classification) error {
	if len(req.Visits) == 0 || len(req.Vehicles) == 0 {
		return domain.NewError(domain.ErrEmptyVisitsOrVehicles,
			fmt.Sprintf("request needs at least one visit and one vehicle (visits=%d vehicles=%d)",
				len(req.Visits), len(req.Vehicles)),
			"load order and driver data before optimizing",
		)
	}

	if cls.HasCapacity {
		var demand, capacity float64
		for _, v := range req.Visits {
			if v.Weight != nil {
				demand += *v.Weight
			}
		}
		for _, v := range req.Vehicles {
			if v.WeightCapacity != nil {
				capacity += *v.WeightCapacity
			}
		}
		if demand > capacity {
			log.Printf("request builder: total demand exceeds capacity demand=%.1f capacity=%.1f", demand, capacity)
		}
	}

	if cls.HasTimeWindows {
		for _, v := range req.Visits {
			if len(v.TimeWindow) != 2 {
				continue
			}
			start, errS := time.Parse(time.RFC3339, v.TimeWindow[0])
			end, errE := time.Parse(time.RFC3339, v.TimeWindow[1])
			if errS != nil || errE != nil || !start.Before(end) {
				return domain.NewError(domain.ErrInvalidTimeWindow,
					fmt.Sprintf("visit %q time window start must precede end (%s .. %s)",
						v.Name, v.TimeWindow[0], v.TimeWindow[1]),
					"fix the order's time_window_start/time_window_end values",
				).WithDetail("visit", v.Name)
			}
		}
	}

	return nil
}
