package planner

import "math"

// EstimateChargingTimeMinutes returns the minutes needed to charge a battery
// from initialSocPercent to targetSocPercent at a constant chargingPowerKw.
//
// The estimate is linear and ignores the tapering of the charging curve at
// high state of charge. A non-positive power or a target not above the
// initial state of charge yields 0. SOC values are not clamped here.
func EstimateChargingTimeMinutes(batteryCapacityKwh, initialSocPercent, targetSocPercent, chargingPowerKw float64) float64 {
	if chargingPowerKw <= 0 || targetSocPercent <= initialSocPercent {
		return 0
	}
	energyToAddKwh := batteryCapacityKwh * (targetSocPercent - initialSocPercent) / 100
	return (energyToAddKwh / chargingPowerKw) * 60
}

// EnergyToAddKwh is the energy needed to go from initialSoc to targetSoc.
func EnergyToAddKwh(batteryCapacityKwh, initialSocPercent, targetSocPercent float64) float64 {
	if targetSocPercent <= initialSocPercent {
		return 0
	}
	return batteryCapacityKwh * (targetSocPercent - initialSocPercent) / 100
}

// RemainingRangeKm is the distance the vehicle can drive on socPercent of its battery.
func RemainingRangeKm(v Vehicle, socPercent float64) float64 {
	if v.EfficiencyWhPerKm <= 0 {
		return 0
	}
	return (v.BatteryCapacityKwh * 1000 * socPercent / 100) / v.EfficiencyWhPerKm
}

// FullRangeKm is the range on a full battery.
func FullRangeKm(v Vehicle) float64 {
	return RemainingRangeKm(v, 100)
}

// ConsumptionPer100Km returns kWh/100km, or 0 for a non-positive distance.
func ConsumptionPer100Km(totalEnergyKwh, totalDistanceKm float64) float64 {
	if totalDistanceKm <= 0 {
		return 0
	}
	return totalEnergyKwh / totalDistanceKm * 100
}

// ChargingCost returns the AED cost of adding energyKwh at the given pricing.
func ChargingCost(energyKwh float64, p Pricing) float64 {
	if energyKwh <= 0 {
		return 0
	}
	return energyKwh*p.CostPerKwh + p.SessionFee
}

// EffectiveChargingPowerKw is the best power the vehicle can draw at the
// station: the fastest connector shared with the vehicle, limited by both the
// port rating and the vehicle's maximum charging speed. It is 0 when the
// station has no compatible connector.
func EffectiveChargingPowerKw(v Vehicle, s ChargingStation) float64 {
	var best float64
	for _, c := range s.Connectors {
		for _, p := range v.ChargingPorts {
			if c.Type != p.Type {
				continue
			}
			power := c.MaxPowerKw
			if p.MaxPowerKw > 0 {
				power = math.Min(power, p.MaxPowerKw)
			}
			if power > best {
				best = power
			}
		}
	}
	if v.MaxChargingSpeedKw > 0 && best > v.MaxChargingSpeedKw {
		best = v.MaxChargingSpeedKw
	}
	return best
}

// ClampSoc bounds a state of charge to [0, 100].
func ClampSoc(socPercent float64) float64 {
	return math.Max(0, math.Min(100, socPercent))
}
