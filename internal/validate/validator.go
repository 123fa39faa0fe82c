// Package validate turns raw tabular rows into typed driver/order/depot
// records. A row failing any field check is excluded from the valid set but
// never aborts processing of the remaining rows; every failure is collected
// as a RowError with a fix hint.
package validate

import (
	"strconv"
	"strings"
	"time"

	"route-optimizer-mcp/internal/domain"
)

// RowError describes one field violation in a source file. Row is 1-based
// and offset by the header line, so the first data row is row 2.
type RowError struct {
	File  string `json:"file"`
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value"`
	Hint  string `json:"hint"`
}

// DriversResult carries valid driver records plus collected row errors.
type DriversResult struct {
	Drivers []domain.Driver
	Errors  []RowError
}

// OrdersResult carries valid order records plus collected row errors.
type OrdersResult struct {
	Orders []domain.Order
	Errors []RowError
}

// DepotsResult carries valid depot records plus collected row errors.
type DepotsResult struct {
	Depots []domain.Depot
	Errors []RowError
}

// hintFor maps a field name to a human-readable fix suggestion.
func hintFor(field string) string {
	switch {
	case field == "id":
		return "id must not be empty"
	case strings.Contains(field, "lat"), strings.Contains(field, "lng"):
		return "coordinates must be decimal degrees: latitude in [-90, 90], longitude in [-180, 180]"
	case strings.Contains(field, "capacity"), field == "weight", field == "volume":
		return "must be a non-negative number"
	case field == "priority", field == "service_time":
		return "must be a positive integer"
	case strings.Contains(field, "time"), strings.HasPrefix(field, "work_"), strings.HasSuffix(field, "_start"), strings.HasSuffix(field, "_end"):
		return `use "HH:MM" or a full timestamp like 2024-01-01T09:00:00Z`
	default:
		return "check the value format"
	}
}

type rowParser struct {
	file   string
	row    int
	values map[string]string
	errs   *[]RowError
	failed bool
}

func (p *rowParser) fail(field, value string) {
	*p.errs = append(*p.errs, RowError{
		File:  p.file,
		Row:   p.row,
		Field: field,
		Value: value,
		Hint:  hintFor(field),
	})
	p.failed = true
}

func (p *rowParser) get(field string) string {
	return strings.TrimSpace(p.values[field])
}

func (p *rowParser) requireID(field string) string {
	v := p.get(field)
	if v == "" {
		p.fail(field, v)
	}
	return v
}

// coordinate parses a lat/lng pair, requiring both when required is true and
// both-or-neither otherwise.
func (p *rowParser) coordinate(latField, lngField string, required bool) (domain.Coordinates, bool) {
	latRaw, lngRaw := p.get(latField), p.get(lngField)
	if latRaw == "" && lngRaw == "" {
		if required {
			p.fail(latField, latRaw)
		}
		return domain.Coordinates{}, false
	}

	lat, errLat := strconv.ParseFloat(latRaw, 64)
	lng, errLng := strconv.ParseFloat(lngRaw, 64)
	if errLat != nil {
		p.fail(latField, latRaw)
		return domain.Coordinates{}, false
	}
	if errLng != nil {
		p.fail(lngField, lngRaw)
		return domain.Coordinates{}, false
	}

	c := domain.Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		if lat < -90 || lat > 90 {
			p.fail(latField, latRaw)
		} else {
			p.fail(lngField, lngRaw)
		}
		return domain.Coordinates{}, false
	}
	return c, true
}

func (p *rowParser) nonNegativeFloat(field string) float64 {
	v := p.get(field)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		p.fail(field, v)
		return 0
	}
	return f
}

func (p *rowParser) anyFloat(field string) float64 {
	v := p.get(field)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(field, v)
		return 0
	}
	return f
}

func (p *rowParser) positiveInt(field string) int {
	v := p.get(field)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		p.fail(field, v)
		return 0
	}
	return n
}

// timeBound validates a clock time ("HH:MM", "HH:MM:SS") or a full RFC 3339
// timestamp and returns it unmodified; normalization happens later in the
// request builder.
func (p *rowParser) timeBound(field string) string {
	v := p.get(field)
	if v == "" {
		return ""
	}
	for _, layout := range []string{"15:04", "15:04:05", time.RFC3339} {
		if _, err := time.Parse(layout, v); err == nil {
			return v
		}
	}
	p.fail(field, v)
	return ""
}

// ParseDrivers validates driver rows. file is used only for error reporting.
func ParseDrivers(file string, rows []map[string]string) DriversResult {
	res := DriversResult{Drivers: []domain.Driver{}, Errors: []RowError{}}

	for i, values := range rows {
		p := &rowParser{file: file, row: i + 2, values: values, errs: &res.Errors}

		d := domain.Driver{ID: p.requireID("id")}
		d.Start, _ = p.coordinate("start_lat", "start_lng", true)
		if end, ok := p.coordinate("end_lat", "end_lng", false); ok {
			d.End = &end
		}
		d.CapacityWeight = p.nonNegativeFloat("capacity_weight")
		d.CapacityVolume = p.nonNegativeFloat("capacity_volume")
		d.WorkStart = p.timeBound("work_start")
		d.WorkEnd = p.timeBound("work_end")
		d.CostPerKm = p.nonNegativeFloat("cost_per_km")
		d.VehicleType = p.get("vehicle_type")
		d.FixedCost = p.anyFloat("fixed_cost")
		d.UnitDistanceCost = p.anyFloat("unit_distance_cost")
		d.UnitDurationCost = p.anyFloat("unit_duration_cost")
		if prefs := p.get("preferences"); prefs != "" {
			for _, pref := range strings.Split(prefs, ";") {
				if pref = strings.TrimSpace(pref); pref != "" {
					d.Preferences = append(d.Preferences, pref)
				}
			}
		}

		if !p.failed {
			res.Drivers = append(res.Drivers, d)
		}
	}

	return res
}

// ParseOrders validates order rows.
func ParseOrders(file string, rows []map[string]string) OrdersResult {
	res := OrdersResult{Orders: []domain.Order{}, Errors: []RowError{}}

	for i, values := range rows {
		p := &rowParser{file: file, row: i + 2, values: values, errs: &res.Errors}

		o := domain.Order{ID: p.requireID("id")}
		if pickup, ok := p.coordinate("pickup_lat", "pickup_lng", false); ok {
			o.Pickup = &pickup
		}
		o.Delivery, _ = p.coordinate("delivery_lat", "delivery_lng", true)
		o.Weight = p.nonNegativeFloat("weight")
		o.Volume = p.nonNegativeFloat("volume")
		o.TimeWindowStart = p.timeBound("time_window_start")
		o.TimeWindowEnd = p.timeBound("time_window_end")
		o.Priority = p.positiveInt("priority")
		o.ServiceTime = p.positiveInt("service_time")

		if !p.failed {
			res.Orders = append(res.Orders, o)
		}
	}

	return res
}

// ParseDepots validates depot rows.
func ParseDepots(file string, rows []map[string]string) DepotsResult {
	res := DepotsResult{Depots: []domain.Depot{}, Errors: []RowError{}}

	for i, values := range rows {
		p := &rowParser{file: file, row: i + 2, values: values, errs: &res.Errors}

		d := domain.Depot{ID: p.requireID("id")}
		d.Location, _ = p.coordinate("lat", "lng", true)
		d.Capacity = p.nonNegativeFloat("capacity")
		d.OpenTime = p.timeBound("open_time")
		d.CloseTime = p.timeBound("close_time")

		if !p.failed {
			res.Depots = append(res.Depots, d)
		}
	}

	return res
}
