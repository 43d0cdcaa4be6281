package planner

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// StationCriteria holds optional station predicates. Zero-valued fields are
// ignored, so the zero value matches every station.
type StationCriteria struct {
	Network       Network
	ConnectorType ConnectorType
	MinPowerKw    float64
	MaxDistanceKm float64
	MaxCostPerKwh float64
	AvailableOnly bool
	OpenAt        time.Time
}

// IsZero reports whether no predicate is set.
func (c StationCriteria) IsZero() bool {
	return c.Network == "" && c.ConnectorType == "" && c.MinPowerKw <= 0 &&
		c.MaxDistanceKm <= 0 && c.MaxCostPerKwh <= 0 && !c.AvailableOnly && c.OpenAt.IsZero()
}

// Matches applies every set predicate to s. The distance predicate is only
// evaluated when ref is non-nil.
func (c StationCriteria) Matches(s ChargingStation, ref *Point) bool {
	if c.Network != "" && s.Network != c.Network {
		return false
	}
	if c.ConnectorType != "" && !s.HasConnector(c.ConnectorType) {
		return false
	}
	if c.MinPowerKw > 0 && !anyConnector(s, func(conn Connector) bool { return conn.MaxPowerKw >= c.MinPowerKw }) {
		return false
	}
	if c.MaxDistanceKm > 0 && ref != nil && ref.DistanceTo(s.Location) > c.MaxDistanceKm {
		return false
	}
	if c.MaxCostPerKwh > 0 && s.Pricing.CostPerKwh > c.MaxCostPerKwh {
		return false
	}
	if c.AvailableOnly && s.AvailableConnectors() == 0 {
		return false
	}
	if !c.OpenAt.IsZero() && !s.OpenAt(c.OpenAt) {
		return false
	}
	return true
}

func anyConnector(s ChargingStation, fn func(Connector) bool) bool {
	for _, c := range s.Connectors {
		if fn(c) {
			return true
		}
	}
	return false
}

// FilterStations returns the stations matching all set criteria, in input
// order. An empty result is a valid result.
func FilterStations(stations []ChargingStation, criteria StationCriteria, ref *Point) []ChargingStation {
	if criteria.IsZero() {
		return slices.Clone(stations)
	}
	filtered := make([]ChargingStation, 0, len(stations))
	for _, s := range stations {
		if criteria.Matches(s, ref) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// SortByDistance orders stations by distance from ref, nearest first.
func SortByDistance(stations []ChargingStation, ref Point) []ChargingStation {
	sorted := slices.Clone(stations)
	slices.SortStableFunc(sorted, func(a, b ChargingStation) int {
		return cmp.Compare(ref.DistanceTo(a.Location), ref.DistanceTo(b.Location))
	})
	return sorted
}

// VehicleCriteria holds optional vehicle predicates; the zero value matches all.
type VehicleCriteria struct {
	Search        string
	Make          string
	Year          int
	MinRangeKm    float64
	MaxPriceAED   float64
	ConnectorType ConnectorType
	PopularOnly   bool
}

func (c VehicleCriteria) Matches(v Vehicle) bool {
	if c.Search != "" && !strings.Contains(strings.ToLower(v.Name()), strings.ToLower(c.Search)) {
		return false
	}
	if c.Make != "" && v.Make != c.Make {
		return false
	}
	if c.Year != 0 && v.Year != c.Year {
		return false
	}
	if c.MinRangeKm > 0 && FullRangeKm(v) < c.MinRangeKm {
		return false
	}
	if c.MaxPriceAED > 0 && v.MsrpAED > c.MaxPriceAED {
		return false
	}
	if c.ConnectorType != "" && !v.SupportsConnector(c.ConnectorType) {
		return false
	}
	if c.PopularOnly && !v.PopularInUAE {
		return false
	}
	return true
}

// FilterVehicles returns the vehicles matching all set criteria, in input order.
func FilterVehicles(vehicles []Vehicle, criteria VehicleCriteria) []Vehicle {
	filtered := make([]Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if criteria.Matches(v) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
