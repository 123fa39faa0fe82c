package domain

// Driver describes one vehicle/driver available for an optimization run.
// Cost fields come in two generations: CostPerKm is the legacy single-rate
// field, while FixedCost/UnitDistanceCost/UnitDurationCost form the
// multi-objective cost model. Both may be populated; the request builder
// decides which set reaches the solver.
type Driver struct {
	ID               string       `json:"id"`
	Start            Coordinates  `json:"start"`
	End              *Coordinates `json:"end,omitempty"`
	CapacityWeight   float64      `json:"capacity_weight,omitempty"`
	CapacityVolume   float64      `json:"capacity_volume,omitempty"`
	WorkStart        string       `json:"work_start,omitempty"`
	WorkEnd          string       `json:"work_end,omitempty"`
	CostPerKm        float64      `json:"cost_per_km,omitempty"`
	VehicleType      string       `json:"vehicle_type,omitempty"`
	FixedCost        float64      `json:"fixed_cost,omitempty"`
	UnitDistanceCost float64      `json:"unit_distance_cost,omitempty"`
	UnitDurationCost float64      `json:"unit_duration_cost,omitempty"`
	Preferences      []string     `json:"preferences,omitempty"`
}

// HasWorkingHours reports whether either working-hour bound is set.
func (d Driver) HasWorkingHours() bool {
	return d.WorkStart != "" || d.WorkEnd != ""
}

// HasMultiObjectiveCosts reports whether any of the distinct cost fields
// (as opposed to the legacy per-km rate) is nonzero.
func (d Driver) HasMultiObjectiveCosts() bool {
	return d.FixedCost != 0 || d.UnitDistanceCost != 0 || d.UnitDurationCost != 0
}
