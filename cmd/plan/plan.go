package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/denysvitali/plusfind/cmd/root"
	"github.com/denysvitali/plusfind/planner"
	"github.com/denysvitali/plusfind/routing"
	"github.com/denysvitali/plusfind/telemetry"
	"github.com/denysvitali/plusfind/weather"
)

var (
	vehicleID       string
	initialSoc      float64
	fromAddress     string
	toAddress       string
	fromCoords      string
	toCoords        string
	geocode         bool
	liveRoute       bool
	showWeather     bool
	remote          bool
	teslaMateAPIURL string
	carID           int
	jsonOutput      bool
)

var PlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a trip with simulated charging stops",
	Long: `Plan a trip between two places and suggest charging stops along the way.

The route figures are a simulation: distance, duration, energy use and the number of
charging stops are demo values and do not depend on the requested places. Charging
stops are picked among the compatible stations, priority networks first.`,
	Example: `  # Plan a trip from Dubai to Abu Dhabi in a Tesla Model 3 starting at 80%
  plusfind plan --vehicle tesla-model-3 --from "Dubai Mall" --to "Yas Mall" --soc 80

  # Use the current charge level and position reported by TeslaMate
  plusfind plan --vehicle tesla-model-3 --to "Yas Mall" --teslamate-api-url http://teslamate:4000 --car-id 1

  # Include the real road route and the weather at the destination
  plusfind plan --vehicle bmw-i4 --from-coords 25.2048,55.2708 --to-coords 24.4539,54.3773 --live-route --weather`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if vehicleID == "" {
			return fmt.Errorf("--vehicle is required")
		}
		if carID == 0 {
			if err := root.ValidateSoc("--soc", initialSoc); err != nil {
				return err
			}
		}

		trip, err := planTrip(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(trip)
		}
		printTrip(trip)
		return nil
	},
}

func init() {
	PlanCmd.Flags().StringVarP(&vehicleID, "vehicle", "v", "", "Vehicle ID from the catalog (required)")
	PlanCmd.Flags().Float64Var(&initialSoc, "soc", 80, "Initial state of charge in %")
	PlanCmd.Flags().StringVar(&fromAddress, "from", "", "Origin address")
	PlanCmd.Flags().StringVar(&toAddress, "to", "", "Destination address")
	PlanCmd.Flags().StringVar(&fromCoords, "from-coords", "", "Origin as lat,lng")
	PlanCmd.Flags().StringVar(&toCoords, "to-coords", "", "Destination as lat,lng")
	PlanCmd.Flags().BoolVar(&geocode, "geocode", false, "Look up addresses without coordinates with Nominatim")
	PlanCmd.Flags().BoolVar(&liveRoute, "live-route", false, "Also fetch the road route from OpenRouteService")
	PlanCmd.Flags().BoolVar(&showWeather, "weather", false, "Show the current weather at the destination")
	PlanCmd.Flags().BoolVar(&remote, "remote", false, "Pick stops among the live charging network stations")
	PlanCmd.Flags().StringVar(&teslaMateAPIURL, "teslamate-api-url", "", "TeslaMate API URL to read the current charge level and position from")
	PlanCmd.Flags().IntVar(&carID, "car-id", 0, "TeslaMate car ID")
	PlanCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the plan as JSON")

	PlanCmd.MarkFlagsRequiredTogether("teslamate-api-url", "car-id")

	root.RootCmd.AddCommand(PlanCmd)
}

// Trip is a mock route plan together with everything computed around it.
type Trip struct {
	Plan       planner.RoutePlan      `json:"plan"`
	Stops      []planner.ChargingStop `json:"stops"`
	Summary    planner.PlanSummary    `json:"summary"`
	Navigation string                 `json:"navigationUrl"`
	RoadRoute  *routing.Route         `json:"roadRoute,omitempty"`
	Weather    *weather.Weather       `json:"weather,omitempty"`
}

func planTrip(ctx context.Context) (*Trip, error) {
	cfg := root.GetConfig()
	cat := root.GetCatalog()

	v, err := cat.VehicleByID(vehicleID)
	if err != nil {
		return nil, err
	}

	origin, err := location(fromAddress, fromCoords)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}
	destination, err := location(toAddress, toCoords)
	if err != nil {
		return nil, fmt.Errorf("invalid destination: %w", err)
	}

	soc := initialSoc
	if teslaMateAPIURL != "" {
		status, err := carStatus(ctx)
		if err != nil {
			return nil, err
		}
		soc = status.Soc()
		if origin.IsZero() && fromAddress == "" {
			origin = status.Location()
		}
		root.GetLogger().Infof("%s is at %.0f%%", status.Car.CarName, soc)
	}

	routes := routing.New(cfg.OpenRouteAPIKey)
	if geocode {
		origin = resolve(ctx, routes, origin)
		destination = resolve(ctx, routes, destination)
	}

	stations := cat.Stations()
	if remote {
		client, err := root.NewNetworkClient()
		if err != nil {
			return nil, err
		}
		stations = client.StationsOrFallback(ctx, stations)
	}

	plan := planner.SynthesizeMockRoute(v, origin, destination, soc)
	stops := planner.PlanStops(plan, stations, cfg.Priority())
	trip := &Trip{
		Plan:       plan,
		Stops:      stops,
		Summary:    planner.Summarize(plan, stops),
		Navigation: planner.NavigationURL(plan, stops),
	}

	if liveRoute {
		route := routes.GetRoute(ctx, plan.Origin.Point, plan.Destination.Point, routing.DefaultProfile)
		trip.RoadRoute = &route
	}
	if showWeather {
		w := weather.New(cfg.WeatherAPIKey).GetCurrentWeather(ctx, plan.Destination.Lat, plan.Destination.Lng)
		trip.Weather = &w
	}
	return trip, nil
}

func location(address, coords string) (planner.Location, error) {
	l := planner.Location{Address: address}
	if coords == "" {
		return l, nil
	}
	p, err := planner.ParsePoint(coords)
	if err != nil {
		return l, err
	}
	l.Point = p
	return l, nil
}

func resolve(ctx context.Context, routes *routing.Client, l planner.Location) planner.Location {
	if l.Address == "" || !l.IsZero() {
		return l
	}
	results := routes.Geocode(ctx, l.Address)
	if len(results) == 0 {
		return l
	}
	root.GetLogger().Debugf("%q resolved to %s (%s)", l.Address, results[0].DisplayName, results[0].Point)
	l.Point = results[0].Point
	return l
}

func carStatus(ctx context.Context) (*telemetry.CarStatusResponse, error) {
	client, err := telemetry.New(teslaMateAPIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create TeslaMate API client: %w", err)
	}
	status, err := client.GetCarStatus(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to get car status: %w", err)
	}
	return status, nil
}
