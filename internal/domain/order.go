package domain

// Order is a single delivery (or pickup+delivery) request to be served.
// Time-window bounds are kept as raw strings ("HH:MM" or a full timestamp);
// normalization to solver timestamps happens in the request builder.
type Order struct {
	ID              string       `json:"id"`
	Pickup          *Coordinates `json:"pickup,omitempty"`
	Delivery        Coordinates  `json:"delivery"`
	Weight          float64      `json:"weight,omitempty"`
	Volume          float64      `json:"volume,omitempty"`
	TimeWindowStart string       `json:"time_window_start,omitempty"`
	TimeWindowEnd   string       `json:"time_window_end,omitempty"`
	// Priority 1 is most urgent; 0 means unset. Used to derive an
	// unassigned-visit penalty inversely proportional to priority.
	Priority    int `json:"priority,omitempty"`
	ServiceTime int `json:"service_time,omitempty"`
}

// HasTimeWindow reports whether both time-window bounds are set.
func (o Order) HasTimeWindow() bool {
	return o.TimeWindowStart != "" && o.TimeWindowEnd != ""
}
