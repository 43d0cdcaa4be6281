package planner

import (
	"fmt"
	"math"
	"net/url"
	"strings"
)

// Stop charging window used for simulated stops.
const (
	StopMinArrivalSoc = 20.0
	StopDepartureSoc  = 80.0
)

// ChargingStop is a simulated stop at a station along a mock route.
type ChargingStop struct {
	Station         ChargingStation `json:"station"`
	ArrivalSoc      float64         `json:"arrivalSOC"`
	DepartureSoc    float64         `json:"departureSOC"`
	PowerKw         float64         `json:"power"`
	ChargingMinutes float64         `json:"chargingTime"`
	EnergyAddedKwh  float64         `json:"energyAdded"`
	CostAED         float64         `json:"cost"`
}

// PlanSummary aggregates a plan with its simulated stops.
type PlanSummary struct {
	DrivingMinutes      float64
	ChargingMinutes     float64
	TotalMinutes        float64
	EnergyAddedKwh      float64
	ChargingCostAED     float64
	ConsumptionPer100Km float64
	RemainingRangeKm    float64
}

// PlanStops simulates charging at the best stations for the plan: each stop
// charges from max(final SOC, 20 %) to 80 % at the effective power the
// vehicle can draw there.
func PlanStops(plan RoutePlan, stations []ChargingStation, priority []Network) []ChargingStop {
	selected := SelectChargingStops(stations, plan.Vehicle, plan.ChargingStops, priority)
	stops := make([]ChargingStop, 0, len(selected))
	arrival := math.Max(plan.FinalSoc, StopMinArrivalSoc)
	for _, s := range selected {
		power := EffectiveChargingPowerKw(plan.Vehicle, s)
		energy := EnergyToAddKwh(plan.Vehicle.BatteryCapacityKwh, arrival, StopDepartureSoc)
		stops = append(stops, ChargingStop{
			Station:         s,
			ArrivalSoc:      arrival,
			DepartureSoc:    StopDepartureSoc,
			PowerKw:         power,
			ChargingMinutes: EstimateChargingTimeMinutes(plan.Vehicle.BatteryCapacityKwh, arrival, StopDepartureSoc, power),
			EnergyAddedKwh:  energy,
			CostAED:         ChargingCost(energy, s.Pricing),
		})
	}
	return stops
}

// Summarize totals driving and charging figures for the plan.
func Summarize(plan RoutePlan, stops []ChargingStop) PlanSummary {
	summary := PlanSummary{
		DrivingMinutes:      plan.TotalDurationMinutes,
		ConsumptionPer100Km: plan.ConsumptionPer100Km(),
		RemainingRangeKm:    plan.RemainingRangeKm(),
	}
	for _, s := range stops {
		summary.ChargingMinutes += s.ChargingMinutes
		summary.EnergyAddedKwh += s.EnergyAddedKwh
		summary.ChargingCostAED += s.CostAED
	}
	summary.TotalMinutes = summary.DrivingMinutes + summary.ChargingMinutes
	return summary
}

// NavigationURL builds a Google Maps directions link with the stops as waypoints.
func NavigationURL(plan RoutePlan, stops []ChargingStop) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", locationQuery(plan.Origin))
	q.Set("destination", locationQuery(plan.Destination))
	q.Set("travelmode", "driving")
	if len(stops) > 0 {
		waypoints := make([]string, len(stops))
		for i, s := range stops {
			waypoints[i] = fmt.Sprintf("%v,%v", s.Station.Location.Lat, s.Station.Location.Lng)
		}
		q.Set("waypoints", strings.Join(waypoints, "|"))
	}
	return "https://www.google.com/maps/dir/?" + q.Encode()
}

func locationQuery(l Location) string {
	if l.Address != "" {
		return l.Address
	}
	return fmt.Sprintf("%v,%v", l.Lat, l.Lng)
}

// FormatMinutes renders minutes as "1h 35m".
func FormatMinutes(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
