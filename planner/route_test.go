package planner

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func model3() Vehicle {
	return Vehicle{
		ID: "tesla-model-3", Make: "Tesla", Model: "Model 3", Year: 2024,
		BatteryCapacityKwh: 75, EfficiencyWhPerKm: 150, MaxChargingSpeedKw: 250,
		ChargingPorts: []ChargingPort{
			{Type: ConnectorTesla, MaxPowerKw: 250, VoltageV: 400},
			{Type: ConnectorCCS2, MaxPowerKw: 170, VoltageV: 400},
		},
	}
}

func TestSynthesizeMockRoute(t *testing.T) {
	origin := Location{Address: "Dubai Marina", Point: Point{Lat: 25.08, Lng: 55.14}}
	destination := Location{Address: "Al Ain", Point: Point{Lat: 24.21, Lng: 55.74}}

	plan := SynthesizeMockRoute(model3(), origin, destination, 75)

	_, err := uuid.Parse(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, origin, plan.Origin)
	assert.Equal(t, destination, plan.Destination)
	assert.Equal(t, "tesla-model-3", plan.Vehicle.ID)
	assert.Equal(t, 75.0, plan.InitialSoc)
	assert.Equal(t, MockDistanceKm, plan.TotalDistanceKm)
	assert.Equal(t, MockDurationMinutes, plan.TotalDurationMinutes)
	assert.Equal(t, MockEnergyUsedKwh, plan.TotalEnergyUsedKwh)
	assert.Equal(t, MockFinalSoc, plan.FinalSoc)
	assert.Equal(t, MockChargingStops, plan.ChargingStops)
	assert.Equal(t, MockWeatherImpactPercent, plan.WeatherImpactPercent)
	assert.False(t, plan.CreatedAt.IsZero())
}

func TestSynthesizeMockRoute_IgnoresCoordinatesForFigures(t *testing.T) {
	near := SynthesizeMockRoute(model3(), Location{Point: Point{Lat: 25.1, Lng: 55.1}}, Location{Point: Point{Lat: 25.1001, Lng: 55.1001}}, 50)
	far := SynthesizeMockRoute(model3(), Location{Point: Point{Lat: 25.1, Lng: 55.1}}, Location{Point: Point{Lat: 26.1, Lng: 56.3}}, 50)
	assert.Equal(t, near.TotalDistanceKm, far.TotalDistanceKm)
	assert.Equal(t, near.ChargingStops, far.ChargingStops)
	assert.NotEqual(t, near.ID, far.ID)
}

func TestSynthesizeMockRoute_DefaultsMissingCoordinates(t *testing.T) {
	plan := SynthesizeMockRoute(model3(), Location{Address: "Downtown Dubai"}, Location{Address: "Abu Dhabi"}, 60)
	assert.Equal(t, "Downtown Dubai", plan.Origin.Address)
	assert.Equal(t, Point{Lat: 25.2048, Lng: 55.2708}, plan.Origin.Point)
	assert.Equal(t, Point{Lat: 24.4539, Lng: 54.3773}, plan.Destination.Point)
}

func TestSynthesizeMockRoute_DoesNotAliasVehicle(t *testing.T) {
	v := model3()
	plan := SynthesizeMockRoute(v, Location{}, Location{}, 50)
	plan.Vehicle.ChargingPorts[0].MaxPowerKw = 1
	assert.Equal(t, 250.0, v.ChargingPorts[0].MaxPowerKw)
}

func TestRoutePlan_DerivedFields(t *testing.T) {
	plan := SynthesizeMockRoute(Vehicle{BatteryCapacityKwh: 75, EfficiencyWhPerKm: 150}, Location{}, Location{}, 75)
	assert.InDelta(t, 375.0, plan.RemainingRangeKm(), 1e-9)
	assert.InDelta(t, 24.5/145*100, plan.ConsumptionPer100Km(), 1e-9)
}

func TestPlanStops(t *testing.T) {
	plan := SynthesizeMockRoute(model3(), Location{}, Location{}, 75)
	stations := []ChargingStation{
		{
			ID: "addc", Network: NetworkADDC,
			Connectors: []Connector{{Type: ConnectorCCS2, MaxPowerKw: 180, Available: true}},
			Pricing:    Pricing{CostPerKwh: 0.27},
		},
		{
			ID: "dewa", Network: NetworkDEWA, Location: Point{Lat: 25.1172, Lng: 55.2001},
			Connectors: []Connector{{Type: ConnectorCCS2, MaxPowerKw: 150, Available: true}},
			Pricing:    Pricing{CostPerKwh: 0.29, SessionFee: 1},
		},
	}

	stops := PlanStops(plan, stations, nil)
	require.Len(t, stops, 1)
	stop := stops[0]
	assert.Equal(t, "dewa", stop.Station.ID)
	assert.Equal(t, 45.0, stop.ArrivalSoc)
	assert.Equal(t, 80.0, stop.DepartureSoc)
	assert.Equal(t, 150.0, stop.PowerKw)
	assert.InDelta(t, 26.25, stop.EnergyAddedKwh, 1e-9)
	assert.InDelta(t, 10.5, stop.ChargingMinutes, 1e-9)
	assert.InDelta(t, 26.25*0.29+1, stop.CostAED, 1e-9)

	summary := Summarize(plan, stops)
	assert.InDelta(t, 105.5, summary.TotalMinutes, 1e-9)
	assert.InDelta(t, 10.5, summary.ChargingMinutes, 1e-9)
	assert.InDelta(t, 375.0, summary.RemainingRangeKm, 1e-9)
}

func TestPlanStops_ArrivalFloor(t *testing.T) {
	plan := SynthesizeMockRoute(model3(), Location{}, Location{}, 75)
	plan.FinalSoc = 5
	stations := []ChargingStation{{
		ID: "dewa", Network: NetworkDEWA,
		Connectors: []Connector{{Type: ConnectorCCS2, MaxPowerKw: 150, Available: true}},
	}}
	stops := PlanStops(plan, stations, nil)
	require.Len(t, stops, 1)
	assert.Equal(t, StopMinArrivalSoc, stops[0].ArrivalSoc)
}

func TestPlanStops_NoCompatibleStations(t *testing.T) {
	plan := SynthesizeMockRoute(model3(), Location{}, Location{}, 75)
	stops := PlanStops(plan, []ChargingStation{{ID: "chademo", Connectors: []Connector{{Type: ConnectorCHAdeMO, Available: true}}}}, nil)
	assert.Empty(t, stops)
	summary := Summarize(plan, stops)
	assert.Equal(t, plan.TotalDurationMinutes, summary.TotalMinutes)
}

func TestNavigationURL(t *testing.T) {
	plan := SynthesizeMockRoute(model3(), Location{Address: "Dubai Mall"}, Location{Address: "Yas Mall"}, 75)
	stops := []ChargingStop{{Station: ChargingStation{Location: Point{Lat: 25.1172, Lng: 55.2001}}}}

	raw := NavigationURL(plan, stops)
	require.True(t, strings.HasPrefix(raw, "https://www.google.com/maps/dir/?"))
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "1", q.Get("api"))
	assert.Equal(t, "Dubai Mall", q.Get("origin"))
	assert.Equal(t, "Yas Mall", q.Get("destination"))
	assert.Equal(t, "driving", q.Get("travelmode"))
	assert.Equal(t, "25.1172,55.2001", q.Get("waypoints"))
}

func TestNavigationURL_NoStopsUsesCoordinates(t *testing.T) {
	plan := SynthesizeMockRoute(model3(), Location{Point: Point{Lat: 25.5, Lng: 55.5}}, Location{}, 75)
	u, err := url.Parse(NavigationURL(plan, nil))
	require.NoError(t, err)
	assert.Equal(t, "25.5,55.5", u.Query().Get("origin"))
	assert.False(t, u.Query().Has("waypoints"))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "1h 35m", FormatMinutes(95))
	assert.Equal(t, "2h 0m", FormatMinutes(119.6))
}
