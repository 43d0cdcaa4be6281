package plan

import (
	"fmt"

	"github.com/denysvitali/plusfind/cmd/root"
	"github.com/denysvitali/plusfind/planner"
)

func placeName(l planner.Location) string {
	if l.Address != "" {
		return l.Address
	}
	return l.Point.String()
}

func printTrip(trip *Trip) {
	p := trip.Plan
	s := trip.Summary

	fmt.Println(root.TitleStyle.Render("ROUTE PLAN"))
	fmt.Println(root.NewKeyValueTable([][]string{
		{"Vehicle", p.Vehicle.Name()},
		{"From", placeName(p.Origin)},
		{"To", placeName(p.Destination)},
		{"Distance", fmt.Sprintf("%.0f km", p.TotalDistanceKm)},
		{"Driving time", planner.FormatMinutes(p.TotalDurationMinutes)},
		{"Charging stops", fmt.Sprintf("%d", p.ChargingStops)},
		{"Energy used", fmt.Sprintf("%.1f kWh (%.1f kWh/100km)", p.TotalEnergyUsedKwh, s.ConsumptionPer100Km)},
		{"State of charge", fmt.Sprintf("%.0f%% → %.0f%%", p.InitialSoc, p.FinalSoc)},
		{"Range at start", fmt.Sprintf("%.0f km", s.RemainingRangeKm)},
		{"Weather impact", fmt.Sprintf("-%.0f%% efficiency", p.WeatherImpactPercent)},
	}))
	fmt.Println(root.DimStyle.Render("Route figures are simulated."))

	if len(trip.Stops) > 0 {
		fmt.Println()
		fmt.Println(root.TitleStyle.Render("CHARGING STOPS"))
		rows := make([][]string, 0, len(trip.Stops))
		for i, stop := range trip.Stops {
			rows = append(rows, []string{
				fmt.Sprintf("%d", i+1),
				stop.Station.Name,
				string(stop.Station.Network),
				fmt.Sprintf("%.0f kW", stop.PowerKw),
				fmt.Sprintf("%.0f%% → %.0f%%", stop.ArrivalSoc, stop.DepartureSoc),
				planner.FormatMinutes(stop.ChargingMinutes),
				fmt.Sprintf("%.1f kWh", stop.EnergyAddedKwh),
				fmt.Sprintf("%.2f AED", stop.CostAED),
			})
		}
		fmt.Println(root.NewTable(
			[]string{"#", "STATION", "NETWORK", "POWER", "SOC", "TIME", "ENERGY", "COST"},
			rows,
			0,
		))
	} else if p.ChargingStops > 0 {
		fmt.Println(root.WarningStyle.Render("No compatible charging station is available for this trip."))
	}

	fmt.Println()
	fmt.Println(root.NewKeyValueTable([][]string{
		{"Total time", fmt.Sprintf("%s (%s driving, %s charging)",
			planner.FormatMinutes(s.TotalMinutes), planner.FormatMinutes(s.DrivingMinutes), planner.FormatMinutes(s.ChargingMinutes))},
		{"Charging cost", fmt.Sprintf("%.2f AED", s.ChargingCostAED)},
	}))

	if r := trip.RoadRoute; r != nil {
		source := "OpenRouteService"
		if r.Mock {
			source = "straight line estimate"
		}
		fmt.Println(root.DimStyle.Render(fmt.Sprintf("Road route (%s): %.1f km, %s",
			source, r.DistanceKm, planner.FormatMinutes(r.DurationMinutes))))
	}
	if w := trip.Weather; w != nil {
		suffix := ""
		if w.Mock {
			suffix = " (sample data)"
		}
		fmt.Println(root.DimStyle.Render("Weather at destination: " + w.String() + suffix))
	}

	fmt.Println()
	fmt.Println("Navigate: " + trip.Navigation)
}
