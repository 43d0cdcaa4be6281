package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/denysvitali/plusfind/planner"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found in catalog")
	ErrStationNotFound = errors.New("charging station not found in catalog")
)

var log = logrus.StandardLogger()

//go:embed catalog.yaml
var builtinCatalog []byte

// Catalog is read-only reference data: every accessor returns copies.
type Catalog struct {
	vehicles []planner.Vehicle
	stations []planner.ChargingStation
}

type document struct {
	Vehicles []planner.Vehicle         `yaml:"vehicles"`
	Stations []planner.ChargingStation `yaml:"stations"`
}

var builtin = mustParse(builtinCatalog)

func mustParse(data []byte) *Catalog {
	c, err := parse(data)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in catalog: %v", err))
	}
	return c
}

func parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

func fromDocument(doc document) (*Catalog, error) {
	seenVehicles := make(map[string]bool, len(doc.Vehicles))
	for _, v := range doc.Vehicles {
		if v.ID == "" {
			return nil, fmt.Errorf("vehicle %q has no id", v.Name())
		}
		if seenVehicles[v.ID] {
			return nil, fmt.Errorf("duplicate vehicle id %q", v.ID)
		}
		if v.BatteryCapacityKwh <= 0 || v.EfficiencyWhPerKm <= 0 {
			return nil, fmt.Errorf("vehicle %q: battery capacity and efficiency must be positive", v.ID)
		}
		seenVehicles[v.ID] = true
	}

	seenStations := make(map[string]bool, len(doc.Stations))
	for _, s := range doc.Stations {
		if s.ID == "" {
			return nil, fmt.Errorf("station %q has no id", s.Name)
		}
		if seenStations[s.ID] {
			return nil, fmt.Errorf("duplicate station id %q", s.ID)
		}
		seenStations[s.ID] = true
	}

	return &Catalog{vehicles: doc.Vehicles, stations: doc.Stations}, nil
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	return builtin
}

// Load reads a catalog with the same layout as the built-in one.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("unable to decode catalog: %w", err)
	}
	return fromDocument(doc)
}

// LoadFile reads a catalog from path. An empty path yields the built-in catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	log.Debugf("loading catalog from %s", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Catalog) Vehicles() []planner.Vehicle {
	out := make([]planner.Vehicle, len(c.vehicles))
	for i, v := range c.vehicles {
		out[i] = v.Clone()
	}
	return out
}

func (c *Catalog) VehicleByID(id string) (planner.Vehicle, error) {
	for _, v := range c.vehicles {
		if v.ID == id {
			return v.Clone(), nil
		}
	}
	return planner.Vehicle{}, fmt.Errorf("%w: %s", ErrVehicleNotFound, id)
}

func (c *Catalog) PopularVehicles() []planner.Vehicle {
	return planner.FilterVehicles(c.Vehicles(), planner.VehicleCriteria{PopularOnly: true})
}

func (c *Catalog) Stations() []planner.ChargingStation {
	return planner.CloneStations(c.stations)
}

func (c *Catalog) StationByID(id string) (planner.ChargingStation, error) {
	for _, s := range c.stations {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return planner.ChargingStation{}, fmt.Errorf("%w: %s", ErrStationNotFound, id)
}

func (c *Catalog) StationsByNetwork(network planner.Network) []planner.ChargingStation {
	return planner.FilterStations(c.Stations(), planner.StationCriteria{Network: network}, nil)
}
