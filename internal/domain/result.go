package domain

// SolveStatus is the normalized outcome of a solver run.
type SolveStatus string

const (
	StatusOptimal            SolveStatus = "optimal"
	StatusFeasible           SolveStatus = "feasible"
	StatusInfeasible         SolveStatus = "infeasible"
	StatusFeasibleUnassigned SolveStatus = "feasible_with_unassigned_visits"
	StatusTimeLimitExceeded  SolveStatus = "time_limit_exceeded"
)

// VehicleRoute is one vehicle's planned route with depot entries already
// stripped from both ends of the visit sequence.
type VehicleRoute struct {
	VehicleName string   `json:"vehicle_name"`
	Visits      []string `json:"visits"`
	Distance    float64  `json:"distance"`
	Duration    float64  `json:"duration"`
	Cost        float64  `json:"cost"`
}

// OptimizeResult is the normalized solver outcome stored on the session.
// It is immutable reporting data and is overwritten by re-optimization.
type OptimizeResult struct {
	Status           SolveStatus    `json:"status"`
	Routes           []VehicleRoute `json:"routes"`
	UnassignedVisits []string       `json:"unassigned_visits"`
	TotalDistance    float64        `json:"total_distance"`
	TotalDuration    float64        `json:"total_duration"`
	TotalCost        float64        `json:"total_cost"`
}
