package stations

import (
	"context"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denysvitali/plusfind/config"
	"github.com/denysvitali/plusfind/network"
	"github.com/denysvitali/plusfind/planner"
)

func TestStationRows(t *testing.T) {
	station := planner.ChargingStation{
		ID:       "dewa-dubai-mall",
		Name:     "DEWA Dubai Mall",
		Network:  planner.NetworkDEWA,
		Location: planner.Point{Lat: 25.1972, Lng: 55.2744},
		Connectors: []planner.Connector{
			{ID: "1", Type: planner.ConnectorCCS2, MaxPowerKw: 150, Available: true},
			{ID: "2", Type: planner.ConnectorCCS2, MaxPowerKw: 150},
			{ID: "3", Type: planner.ConnectorType2, MaxPowerKw: 22, Available: true},
		},
		Pricing: planner.Pricing{CostPerKwh: 0.29},
	}

	tests := []struct {
		name     string
		ref      *planner.Point
		distance string
	}{
		{name: "no reference", ref: nil, distance: "-"},
		{name: "same point", ref: &planner.Point{Lat: 25.1972, Lng: 55.2744}, distance: "0.0 km"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := stationRows([]planner.ChargingStation{station}, tt.ref)
			require.Len(t, rows, 1)
			assert.Equal(t, []string{
				"dewa-dubai-mall", "DEWA Dubai Mall", "DEWA", "CCS2, Type2", "150 kW", "2/3", "0.29", tt.distance,
			}, rows[0])
		})
	}
}

func TestFetchStations(t *testing.T) {
	ref := &planner.Point{Lat: 25.2048, Lng: 55.2708}
	fallback := []planner.ChargingStation{{ID: "catalog-only"}}

	tests := []struct {
		name     string
		criteria planner.StationCriteria
		ref      *planner.Point
		setup    func()
		ids      []string
	}{
		{
			name: "reference point without radius lists all stations",
			ref:  ref,
			setup: func() {
				gock.New(network.DefaultBaseURL).
					Get("/charging/stations").
					Reply(200).
					File("../../resources/stations.json")
			},
			ids: []string{"dewa-al-barsha", "tesla-supercharger-dubai-hills"},
		},
		{
			name:     "radius queries nearby stations",
			criteria: planner.StationCriteria{MaxDistanceKm: 10},
			ref:      ref,
			setup: func() {
				gock.New(network.DefaultBaseURL).
					Get("/charging/stations/nearby").
					MatchParams(map[string]string{"lat": "25.2048", "lng": "55.2708", "radius": "10"}).
					Reply(200).
					File("../../resources/stations.json")
			},
			ids: []string{"dewa-al-barsha", "tesla-supercharger-dubai-hills"},
		},
		{
			name:     "radius without reference point lists all stations",
			criteria: planner.StationCriteria{MaxDistanceKm: 10},
			setup: func() {
				gock.New(network.DefaultBaseURL).
					Get("/charging/stations").
					Reply(200).
					File("../../resources/stations.json")
			},
			ids: []string{"dewa-al-barsha", "tesla-supercharger-dubai-hills"},
		},
		{
			name:     "backend failure uses fallback",
			criteria: planner.StationCriteria{MaxDistanceKm: 10},
			ref:      ref,
			setup: func() {
				gock.New(network.DefaultBaseURL).
					Get("/charging/stations/nearby").
					Reply(500)
			},
			ids: []string{"catalog-only"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer gock.Off()
			tt.setup()

			client := network.New(config.NetworkConfig{APIKey: "foo"})
			stations := fetchStations(context.Background(), client, tt.criteria, tt.ref, fallback)
			var ids []string
			for _, s := range stations {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.ids, ids)
			assert.True(t, gock.IsDone())
		})
	}
}
