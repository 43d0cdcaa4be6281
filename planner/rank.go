package planner

import (
	"cmp"
	"slices"
)

// MaxSuggestedStops caps the number of stops suggested for a single trip.
const MaxSuggestedStops = 2

// RankChargingStops orders candidates with stations of a priority network
// first and, within a tier, by descending maximum connector power. Ties keep
// their input order. The top count stations are returned. A nil priority
// uses DefaultPriorityNetworks.
func RankChargingStops(candidates []ChargingStation, count int, priority []Network) []ChargingStation {
	if count <= 0 || len(candidates) == 0 {
		return []ChargingStation{}
	}
	if priority == nil {
		priority = DefaultPriorityNetworks
	}

	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b ChargingStation) int {
		aPriority := slices.Contains(priority, a.Network)
		bPriority := slices.Contains(priority, b.Network)
		if aPriority != bPriority {
			if aPriority {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.MaxPowerKw(), a.MaxPowerKw())
	})

	if count < len(ranked) {
		ranked = ranked[:count]
	}
	return ranked
}

// CompatibleStations returns the available stations sharing at least one
// connector type with the vehicle, in input order.
func CompatibleStations(stations []ChargingStation, v Vehicle) []ChargingStation {
	compatible := make([]ChargingStation, 0, len(stations))
	for _, s := range stations {
		if s.AvailableConnectors() == 0 {
			continue
		}
		if anyConnector(s, func(c Connector) bool { return v.SupportsConnector(c.Type) }) {
			compatible = append(compatible, s)
		}
	}
	return compatible
}

// SelectChargingStops picks the best compatible stations for a trip that
// needs stopsRequired stops, suggesting at most MaxSuggestedStops.
func SelectChargingStops(stations []ChargingStation, v Vehicle, stopsRequired int, priority []Network) []ChargingStation {
	if stopsRequired <= 0 {
		return []ChargingStation{}
	}
	return RankChargingStops(CompatibleStations(stations, v), min(stopsRequired, MaxSuggestedStops), priority)
}
