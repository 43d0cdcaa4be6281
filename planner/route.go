package planner

import (
	"time"

	"github.com/google/uuid"
)

// Mock route figures. They do not depend on the requested origin and
// destination: no path-finding is performed.
const (
	MockDistanceKm           = 145.0
	MockDurationMinutes      = 95.0
	MockChargingStops        = 1
	MockFinalSoc             = 45.0
	MockEnergyUsedKwh        = 24.5
	MockWeatherImpactPercent = 2.0
)

var (
	mockOrigin      = Point{Lat: 25.2048, Lng: 55.2708} // Dubai
	mockDestination = Point{Lat: 24.4539, Lng: 54.3773} // Abu Dhabi
)

// Location is an addressed point.
type Location struct {
	Address string `yaml:"address" json:"address"`
	Point   `yaml:",inline"`
}

// RoutePlan is a route summary created fresh for every planning request.
type RoutePlan struct {
	ID                   string    `json:"id"`
	Origin               Location  `json:"origin"`
	Destination          Location  `json:"destination"`
	Vehicle              Vehicle   `json:"vehicle"`
	InitialSoc           float64   `json:"initialSOC"`
	TotalDistanceKm      float64   `json:"totalDistance"`
	TotalDurationMinutes float64   `json:"totalDuration"`
	TotalEnergyUsedKwh   float64   `json:"totalEnergyUsed"`
	FinalSoc             float64   `json:"finalSOC"`
	ChargingStops        int       `json:"chargingStops"`
	WeatherImpactPercent float64   `json:"weatherImpact"`
	CreatedAt            time.Time `json:"createdAt"`
}

// RemainingRangeKm is the vehicle's range at the plan's initial SOC.
func (p RoutePlan) RemainingRangeKm() float64 {
	return RemainingRangeKm(p.Vehicle, p.InitialSoc)
}

// ConsumptionPer100Km is the plan's average consumption in kWh/100km.
func (p RoutePlan) ConsumptionPer100Km() float64 {
	return ConsumptionPer100Km(p.TotalEnergyUsedKwh, p.TotalDistanceKm)
}

// SynthesizeMockRoute fabricates a route plan with placeholder figures.
//
// This is a stub: distance, duration, energy, final SOC and stop count are
// fixed demo values, not derived from origin and destination. Locations
// without coordinates get the demo Dubai / Abu Dhabi coordinates.
func SynthesizeMockRoute(v Vehicle, origin, destination Location, initialSoc float64) RoutePlan {
	if origin.IsZero() {
		origin.Point = mockOrigin
	}
	if destination.IsZero() {
		destination.Point = mockDestination
	}

	return RoutePlan{
		ID:                   uuid.NewString(),
		Origin:               origin,
		Destination:          destination,
		Vehicle:              v.Clone(),
		InitialSoc:           initialSoc,
		TotalDistanceKm:      MockDistanceKm,
		TotalDurationMinutes: MockDurationMinutes,
		TotalEnergyUsedKwh:   MockEnergyUsedKwh,
		FinalSoc:             MockFinalSoc,
		ChargingStops:        MockChargingStops,
		WeatherImpactPercent: MockWeatherImpactPercent,
		CreatedAt:            time.Now(),
	}
}
