package telemetry

import (
	"time"

	"github.com/denysvitali/plusfind/planner"
)

type BatteryDetails struct {
	BatteryLevel       int     `json:"battery_level"`
	UsableBatteryLevel int     `json:"usable_battery_level"`
	EstBatteryRange    float64 `json:"est_battery_range"`
	RatedBatteryRange  float64 `json:"rated_battery_range"`
}

type ChargingDetails struct {
	PluggedIn         bool    `json:"plugged_in"`
	ChargeLimitSoc    float64 `json:"charge_limit_soc"`
	ChargerPower      float64 `json:"charger_power"`
	ChargeEnergyAdded float64 `json:"charge_energy_added"`
	TimeToFullCharge  float64 `json:"time_to_full_charge"`
}

type GeoData struct {
	Geofence  string  `json:"geofence"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CarStatus struct {
	DisplayName     string          `json:"display_name"`
	State           string          `json:"state"`
	StateSince      time.Time       `json:"state_since"`
	Odometer        float64         `json:"odometer"`
	BatteryDetails  BatteryDetails  `json:"battery_details"`
	ChargingDetails ChargingDetails `json:"charging_details"`
	CarGeodata      GeoData         `json:"car_geodata"`
}

type Car struct {
	CarID   int    `json:"car_id"`
	CarName string `json:"car_name"`
}

type CarStatusResponse struct {
	Car    Car       `json:"car"`
	Status CarStatus `json:"status"`
}

type genericResponse[T any] struct {
	Data T `json:"data"`
}

// Soc is the usable state of charge in percent, falling back to the
// displayed battery level when the usable level is not reported.
func (s CarStatusResponse) Soc() float64 {
	if s.Status.BatteryDetails.UsableBatteryLevel > 0 {
		return float64(s.Status.BatteryDetails.UsableBatteryLevel)
	}
	return float64(s.Status.BatteryDetails.BatteryLevel)
}

// Location is where the car was last seen. Geofence names become the address.
func (s CarStatusResponse) Location() planner.Location {
	return planner.Location{
		Address: s.Status.CarGeodata.Geofence,
		Point:   planner.Point{Lat: s.Status.CarGeodata.Latitude, Lng: s.Status.CarGeodata.Longitude},
	}
}

func (s CarStatusResponse) Charging() bool {
	return s.Status.State == "charging"
}
