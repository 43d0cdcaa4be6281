package planner

import "strings"

// ConnectorType is a standardized charging interface.
type ConnectorType string

const (
	ConnectorCCS2    ConnectorType = "CCS2"
	ConnectorCHAdeMO ConnectorType = "CHAdeMO"
	ConnectorTesla   ConnectorType = "Tesla"
	ConnectorType2   ConnectorType = "Type2"
	ConnectorGBT     ConnectorType = "GBT"
	ConnectorType1   ConnectorType = "Type1"
)

// Network is the operator/brand managing a charging station.
type Network string

const (
	NetworkDEWA  Network = "DEWA"
	NetworkADDC  Network = "ADDC"
	NetworkSEWA  Network = "SEWA"
	NetworkTesla Network = "Tesla"
	NetworkOther Network = "Other"
)

// DefaultPriorityNetworks are the fast/major networks preferred for charging stops.
var DefaultPriorityNetworks = []Network{NetworkTesla, NetworkDEWA}

// ChargingPort is a charging interface on a vehicle.
type ChargingPort struct {
	Type       ConnectorType `yaml:"type" json:"type"`
	MaxPowerKw float64       `yaml:"max_power_kw" json:"maxPower"`
	VoltageV   float64       `yaml:"voltage_v" json:"voltage"`
}

// Vehicle is immutable reference data loaded from a catalog.
type Vehicle struct {
	ID                 string         `yaml:"id" json:"id"`
	Make               string         `yaml:"make" json:"make"`
	Model              string         `yaml:"model" json:"model"`
	Year               int            `yaml:"year" json:"year"`
	BatteryCapacityKwh float64        `yaml:"battery_capacity_kwh" json:"batteryCapacity"`
	EfficiencyWhPerKm  float64        `yaml:"efficiency_wh_per_km" json:"efficiency"`
	MassKg             float64        `yaml:"mass_kg" json:"mass"`
	DragCoefficient    float64        `yaml:"drag_coefficient" json:"dragCoefficient"`
	FrontalAreaM2      float64        `yaml:"frontal_area_m2" json:"frontalArea"`
	ChargingPorts      []ChargingPort `yaml:"charging_ports" json:"chargingPorts"`
	MaxChargingSpeedKw float64        `yaml:"max_charging_speed_kw" json:"maxChargingSpeed"`
	MaxVoltageV        float64        `yaml:"max_voltage_v" json:"maxVoltage"`
	MsrpAED            float64        `yaml:"msrp_aed" json:"msrpAED"`
	PopularInUAE       bool           `yaml:"popular_in_uae" json:"isPopularInUAE"`
}

// Name returns "make model".
func (v Vehicle) Name() string {
	return strings.TrimSpace(v.Make + " " + v.Model)
}

// SupportsConnector reports whether any of the vehicle's ports has type t.
func (v Vehicle) SupportsConnector(t ConnectorType) bool {
	for _, p := range v.ChargingPorts {
		if p.Type == t {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with v.
func (v Vehicle) Clone() Vehicle {
	c := v
	c.ChargingPorts = append([]ChargingPort(nil), v.ChargingPorts...)
	return c
}

// Connector is a charging interface on a station. Available and Status are
// the only fields changed by status feed events.
type Connector struct {
	ID         string        `yaml:"id" json:"id"`
	Type       ConnectorType `yaml:"type" json:"type"`
	MaxPowerKw float64       `yaml:"max_power_kw" json:"maxPower"`
	VoltageV   float64       `yaml:"voltage_v" json:"maxVoltage"`
	Available  bool          `yaml:"available" json:"isAvailable"`
	Status     string        `yaml:"status,omitempty" json:"status,omitempty"`
}

// Pricing of a charging session, in AED.
type Pricing struct {
	CostPerKwh float64 `yaml:"cost_per_kwh" json:"costPerKwh"`
	SessionFee float64 `yaml:"session_fee" json:"sessionFee"`
}

type ChargingStation struct {
	ID             string      `yaml:"id" json:"id"`
	Name           string      `yaml:"name" json:"name"`
	Address        string      `yaml:"address" json:"address"`
	Emirate        string      `yaml:"emirate,omitempty" json:"emirate,omitempty"`
	Location       Point       `yaml:"location" json:"location"`
	Network        Network     `yaml:"network" json:"network"`
	Connectors     []Connector `yaml:"connectors" json:"connectors"`
	Pricing        Pricing     `yaml:"pricing" json:"pricing"`
	Amenities      []string    `yaml:"amenities,omitempty" json:"amenities,omitempty"`
	OperatingHours []TimeRange `yaml:"operating_hours,omitempty" json:"operatingHours,omitempty"`
}

// MaxPowerKw returns the highest connector power of the station.
func (s ChargingStation) MaxPowerKw() float64 {
	var maxPower float64
	for _, c := range s.Connectors {
		if c.MaxPowerKw > maxPower {
			maxPower = c.MaxPowerKw
		}
	}
	return maxPower
}

// AvailableConnectors counts connectors currently flagged available.
func (s ChargingStation) AvailableConnectors() int {
	n := 0
	for _, c := range s.Connectors {
		if c.Available {
			n++
		}
	}
	return n
}

func (s ChargingStation) HasConnector(t ConnectorType) bool {
	for _, c := range s.Connectors {
		if c.Type == t {
			return true
		}
	}
	return false
}

// ConnectorTypes returns the distinct connector types in declaration order.
func (s ChargingStation) ConnectorTypes() []ConnectorType {
	var types []ConnectorType
	seen := make(map[ConnectorType]bool)
	for _, c := range s.Connectors {
		if !seen[c.Type] {
			seen[c.Type] = true
			types = append(types, c.Type)
		}
	}
	return types
}

// Clone returns a deep copy of the station.
func (s ChargingStation) Clone() ChargingStation {
	c := s
	c.Connectors = append([]Connector(nil), s.Connectors...)
	c.Amenities = append([]string(nil), s.Amenities...)
	c.OperatingHours = make([]TimeRange, len(s.OperatingHours))
	for i, tr := range s.OperatingHours {
		c.OperatingHours[i] = tr.clone()
	}
	if s.OperatingHours == nil {
		c.OperatingHours = nil
	}
	return c
}

// CloneStations deep-copies a station collection.
func CloneStations(stations []ChargingStation) []ChargingStation {
	if stations == nil {
		return nil
	}
	out := make([]ChargingStation, len(stations))
	for i, s := range stations {
		out[i] = s.Clone()
	}
	return out
}
