package ports

// Wire types for the Omelet routing-engine API. Field names and JSON tags
// follow the remote schema exactly; pointer fields are omitted entirely when
// the matching constraint is inactive.

// Coordinate is the remote API's {lng, lat} pair.
type Coordinate struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Depot is the single route anchor sent with every request.
type Depot struct {
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
}

// Visit is one delivery point in the request payload.
type Visit struct {
	Name              string     `json:"name"`
	Coordinate        Coordinate `json:"coordinate"`
	Weight            *float64   `json:"weight,omitempty"`
	Volume            *float64   `json:"volume,omitempty"`
	UnassignedPenalty *int       `json:"unassigned_penalty,omitempty"`
	// TimeWindow holds [start, end] timestamps when time constraints apply.
	TimeWindow  []string `json:"time_window,omitempty"`
	ServiceTime int      `json:"service_time,omitempty"`
}

// Vehicle is one vehicle entry in the request payload.
type Vehicle struct {
	Name             string   `json:"name"`
	VehicleType      string   `json:"vehicle_type"`
	WeightCapacity   *float64 `json:"weight_capacity,omitempty"`
	VolumeCapacity   *float64 `json:"volume_capacity,omitempty"`
	FixedCost        float64  `json:"fixed_cost"`
	UnitDistanceCost float64  `json:"unit_distance_cost"`
	UnitDurationCost float64  `json:"unit_duration_cost"`
	WorkStartTime    string   `json:"work_start_time,omitempty"`
	WorkEndTime      string   `json:"work_end_time,omitempty"`
	VisitPreference  []string `json:"visit_preference,omitempty"`
	ReturnToDepot    bool     `json:"return_to_depot"`
}

// Option is the solver option bag.
type Option struct {
	Timelimit                         int    `json:"timelimit"`
	ObjectiveType                     string `json:"objective_type"`
	DistanceType                      string `json:"distance_type"`
	AllowUnassignedVisits             bool   `json:"allow_unassigned_visits"`
	UseLargeSizeOptimizationAlgorithm bool   `json:"use_large_size_optimization_algorithm"`
	IncludeDepartureCostFromDepot     bool   `json:"include_departure_cost_from_depot"`
	IncludeReturnCostToDepot          bool   `json:"include_return_cost_to_depot"`
}

// SolverRequest is the full optimization request payload.
type SolverRequest struct {
	Depot             Depot     `json:"depot"`
	Visits            []Visit   `json:"visits"`
	Vehicles          []Vehicle `json:"vehicles"`
	Option            Option    `json:"option"`
	DeliveryStartTime string    `json:"delivery_start_time,omitempty"`
}

// RouteCostDetails is the per-route cost breakdown returned by the solver.
type RouteCostDetails struct {
	ObjectiveCost float64 `json:"objective_cost"`
	DistanceCost  float64 `json:"distance_cost"`
	DurationCost  float64 `json:"duration_cost"`
	FixedCost     float64 `json:"fixed_cost"`
}

// SolverRoute is one vehicle's route in the raw response. RouteName is the
// ordered visit-name list bracketed by the depot at both ends.
type SolverRoute struct {
	VehicleName      string           `json:"vehicle_name"`
	RouteName        []string         `json:"route_name"`
	RouteCostDetails RouteCostDetails `json:"route_cost_details"`
}

// SolutionCostDetails aggregates solution-level costs.
type SolutionCostDetails struct {
	TotalObjectiveCost float64 `json:"total_objective_cost"`
	TotalDistanceCost  float64 `json:"total_distance_cost"`
	TotalDurationCost  float64 `json:"total_duration_cost"`
}

// RoutingEngineResult is the solution body of a solver response.
type RoutingEngineResult struct {
	Routes               []SolverRoute       `json:"routes"`
	UnassignedVisitNames []string            `json:"unassigned_visit_names"`
	SolutionCostDetails  SolutionCostDetails `json:"solution_cost_details"`
}

// SolverResponse is the synchronous-endpoint response (also nested inside a
// completed asynchronous job).
type SolverResponse struct {
	Status              string               `json:"status"`
	Detail              string               `json:"detail"`
	JobID               string               `json:"job_id"`
	RoutingEngineResult *RoutingEngineResult `json:"routing_engine_result"`
}

// JobSubmission is the asynchronous-endpoint submission response.
type JobSubmission struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// Asynchronous job states reported by the polling endpoint.
const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// JobStatus is one polling response for a submitted job.
type JobStatus struct {
	Status  string          `json:"status"`
	Result  *SolverResponse `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}
