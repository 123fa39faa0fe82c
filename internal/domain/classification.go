package domain

// ProblemVariant tags the VRP flavor detected from the data shape.
type ProblemVariant string

const (
	VariantTSP            ProblemVariant = "TSP"
	VariantCVRP           ProblemVariant = "CVRP"
	VariantCVRPTW         ProblemVariant = "CVRPTW"
	VariantDriverShifts   ProblemVariant = "CVRP_Driver_Shifts"
	VariantPreferences    ProblemVariant = "CVRP_Preferences"
	VariantMultiObjective ProblemVariant = "Multi_Objective_CVRP"
)

// Classification is derived fresh from driver/order data on every
// optimization request and never persisted as a source of truth: a saved
// config's explicit constraint overrides always win over auto-detection.
type Classification struct {
	Variant                ProblemVariant `json:"variant"`
	HasCapacity            bool           `json:"has_capacity"`
	HasTimeWindows         bool           `json:"has_time_windows"`
	HasWorkingHours        bool           `json:"has_working_hours"`
	HasPreferences         bool           `json:"has_preferences"`
	HasMultiObjective      bool           `json:"has_multi_objective"`
	HasDiverseVehicleTypes bool           `json:"has_diverse_vehicle_types"`
	IsLargeProblem         bool           `json:"is_large_problem"`
}

// ConstraintOverrides carries explicit user decisions that beat
// auto-detection. A nil field means "detect from data".
type ConstraintOverrides struct {
	Capacity    *bool `json:"capacity,omitempty"`
	TimeWindows *bool `json:"time_windows,omitempty"`
}
