package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStations() []ChargingStation {
	return []ChargingStation{
		{
			ID: "dewa-mall-emirates", Network: NetworkDEWA,
			Location: Point{Lat: 25.1172, Lng: 55.2001},
			Connectors: []Connector{
				{ID: "1", Type: ConnectorCCS2, MaxPowerKw: 150, Available: true},
				{ID: "2", Type: ConnectorCHAdeMO, MaxPowerKw: 50, Available: true},
			},
			Pricing: Pricing{CostPerKwh: 0.29},
		},
		{
			ID: "tesla-supercharger-jbr", Network: NetworkTesla,
			Location: Point{Lat: 25.0657, Lng: 55.1398},
			Connectors: []Connector{
				{ID: "1", Type: ConnectorTesla, MaxPowerKw: 250},
				{ID: "2", Type: ConnectorCCS2, MaxPowerKw: 250},
			},
			Pricing: Pricing{CostPerKwh: 0.35},
		},
		{
			ID: "addc-yas-island", Network: NetworkADDC,
			Location: Point{Lat: 24.4888, Lng: 54.6094},
			Connectors: []Connector{
				{ID: "1", Type: ConnectorCCS2, MaxPowerKw: 180, Available: true},
				{ID: "2", Type: ConnectorType2, MaxPowerKw: 22, Available: false},
			},
			Pricing: Pricing{CostPerKwh: 0.27},
		},
		{
			ID: "dewa-business-bay", Network: NetworkDEWA,
			Location: Point{Lat: 25.1868, Lng: 55.2650},
			Connectors: []Connector{
				{ID: "1", Type: ConnectorType2, MaxPowerKw: 22, Available: true},
			},
			Pricing:        Pricing{CostPerKwh: 0.29},
			OperatingHours: []TimeRange{{StartHour: 6, EndHour: 23}},
		},
	}
}

func stationIDs(stations []ChargingStation) []string {
	ids := make([]string, len(stations))
	for i, s := range stations {
		ids[i] = s.ID
	}
	return ids
}

func TestFilterStations_EmptyCriteriaReturnsInput(t *testing.T) {
	stations := testStations()
	got := FilterStations(stations, StationCriteria{}, nil)
	assert.Equal(t, stations, got)

	ref := Point{Lat: 25.2, Lng: 55.27}
	assert.Equal(t, stations, FilterStations(stations, StationCriteria{}, &ref))
}

func TestFilterStations(t *testing.T) {
	downtown := Point{Lat: 25.1972, Lng: 55.2744}
	tests := []struct {
		name     string
		criteria StationCriteria
		ref      *Point
		expected []string
	}{
		{
			name:     "network",
			criteria: StationCriteria{Network: NetworkTesla},
			expected: []string{"tesla-supercharger-jbr"},
		},
		{
			name:     "network DEWA keeps order",
			criteria: StationCriteria{Network: NetworkDEWA},
			expected: []string{"dewa-mall-emirates", "dewa-business-bay"},
		},
		{
			name:     "connector type",
			criteria: StationCriteria{ConnectorType: ConnectorType2},
			expected: []string{"addc-yas-island", "dewa-business-bay"},
		},
		{
			name:     "minimum power",
			criteria: StationCriteria{MinPowerKw: 180},
			expected: []string{"tesla-supercharger-jbr", "addc-yas-island"},
		},
		{
			name:     "price ceiling",
			criteria: StationCriteria{MaxCostPerKwh: 0.29},
			expected: []string{"dewa-mall-emirates", "addc-yas-island", "dewa-business-bay"},
		},
		{
			name:     "available only",
			criteria: StationCriteria{AvailableOnly: true},
			expected: []string{"dewa-mall-emirates", "addc-yas-island", "dewa-business-bay"},
		},
		{
			name:     "distance radius",
			criteria: StationCriteria{MaxDistanceKm: 25},
			ref:      &downtown,
			expected: []string{"dewa-mall-emirates", "tesla-supercharger-jbr", "dewa-business-bay"},
		},
		{
			name:     "distance without reference point is ignored",
			criteria: StationCriteria{MaxDistanceKm: 1},
			expected: []string{"dewa-mall-emirates", "tesla-supercharger-jbr", "addc-yas-island", "dewa-business-bay"},
		},
		{
			name:     "combined",
			criteria: StationCriteria{ConnectorType: ConnectorCCS2, MinPowerKw: 100, AvailableOnly: true, MaxDistanceKm: 50},
			ref:      &downtown,
			expected: []string{"dewa-mall-emirates"},
		},
		{
			name:     "no match",
			criteria: StationCriteria{Network: NetworkSEWA},
			expected: []string{},
		},
		{
			name:     "open at night",
			criteria: StationCriteria{OpenAt: time.Date(2025, 1, 13, 23, 30, 0, 0, time.UTC)},
			expected: []string{"dewa-mall-emirates", "tesla-supercharger-jbr", "addc-yas-island"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterStations(testStations(), tt.criteria, tt.ref)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, stationIDs(got))
		})
	}
}

func TestFilterStations_NetworkOnlyReturnsThatNetwork(t *testing.T) {
	for _, s := range FilterStations(testStations(), StationCriteria{Network: NetworkDEWA}, nil) {
		assert.Equal(t, NetworkDEWA, s.Network)
	}
}

func TestSortByDistance(t *testing.T) {
	jbr := Point{Lat: 25.0657, Lng: 55.1398}
	got := SortByDistance(testStations(), jbr)
	assert.Equal(t, []string{"tesla-supercharger-jbr", "dewa-mall-emirates", "dewa-business-bay", "addc-yas-island"}, stationIDs(got))
}

func testVehicles() []Vehicle {
	return []Vehicle{
		{
			ID: "tesla-model-3", Make: "Tesla", Model: "Model 3", Year: 2024,
			BatteryCapacityKwh: 75, EfficiencyWhPerKm: 150, MsrpAED: 175000, PopularInUAE: true,
			ChargingPorts: []ChargingPort{{Type: ConnectorTesla, MaxPowerKw: 250}, {Type: ConnectorCCS2, MaxPowerKw: 170}},
		},
		{
			ID: "bmw-i4", Make: "BMW", Model: "i4 M50", Year: 2024,
			BatteryCapacityKwh: 83.9, EfficiencyWhPerKm: 180, MsrpAED: 300000, PopularInUAE: true,
			ChargingPorts: []ChargingPort{{Type: ConnectorCCS2, MaxPowerKw: 205}},
		},
		{
			ID: "genesis-gv60", Make: "Genesis", Model: "GV60", Year: 2023,
			BatteryCapacityKwh: 77.4, EfficiencyWhPerKm: 185, MsrpAED: 230000,
			ChargingPorts: []ChargingPort{{Type: ConnectorCCS2, MaxPowerKw: 235}},
		},
	}
}

func TestFilterVehicles(t *testing.T) {
	tests := []struct {
		name     string
		criteria VehicleCriteria
		expected []string
	}{
		{name: "empty", criteria: VehicleCriteria{}, expected: []string{"tesla-model-3", "bmw-i4", "genesis-gv60"}},
		{name: "search is case insensitive", criteria: VehicleCriteria{Search: "model 3"}, expected: []string{"tesla-model-3"}},
		{name: "search spans make and model", criteria: VehicleCriteria{Search: "bmw i4"}, expected: []string{"bmw-i4"}},
		{name: "make", criteria: VehicleCriteria{Make: "Genesis"}, expected: []string{"genesis-gv60"}},
		{name: "year", criteria: VehicleCriteria{Year: 2024}, expected: []string{"tesla-model-3", "bmw-i4"}},
		{name: "min range", criteria: VehicleCriteria{MinRangeKm: 450}, expected: []string{"tesla-model-3", "bmw-i4"}},
		{name: "max price", criteria: VehicleCriteria{MaxPriceAED: 250000}, expected: []string{"tesla-model-3", "genesis-gv60"}},
		{name: "connector", criteria: VehicleCriteria{ConnectorType: ConnectorTesla}, expected: []string{"tesla-model-3"}},
		{name: "popular", criteria: VehicleCriteria{PopularOnly: true}, expected: []string{"tesla-model-3", "bmw-i4"}},
		{name: "none", criteria: VehicleCriteria{Make: "Lucid"}, expected: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterVehicles(testVehicles(), tt.criteria)
			ids := make([]string, len(got))
			for i, v := range got {
				ids[i] = v.ID
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}
