package domain

// Depot is a candidate common start/end location for all routes.
// At most one depot anchors an optimization run; the request builder picks
// the first valid record, or synthesizes one from a driver start location.
type Depot struct {
	ID        string      `json:"id"`
	Location  Coordinates `json:"location"`
	Capacity  float64     `json:"capacity,omitempty"`
	OpenTime  string      `json:"open_time,omitempty"`
	CloseTime string      `json:"close_time,omitempty"`
}
