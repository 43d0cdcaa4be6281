package stations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/denysvitali/plusfind/cmd/root"
	"github.com/denysvitali/plusfind/network"
	"github.com/denysvitali/plusfind/planner"
)

var (
	networkName   string
	connectorType string
	minPower      float64
	maxDistance   float64
	maxCost       float64
	availableOnly bool
	openNow       bool
	near          string
	rank          int
	remote        bool
	vehicleID     string
)

var StationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List and filter charging stations",
	Long: `List the charging stations of the UAE networks, filtered by network, connector,
power, price, availability and distance.

With --rank, the best stations are listed first: priority networks (Tesla, DEWA
by default) before the others, faster stations before slower ones.`,
	Example: `  # List all stations
  plusfind stations

  # Available CCS2 stations of at least 150 kW within 25 km of Dubai Mall
  plusfind stations --connector CCS2 --min-power 150 --available --near 25.1972,55.2744 --max-distance 25

  # Best three stations for a Tesla Model 3, from the live network
  plusfind stations --vehicle tesla-model-3 --rank 3 --remote`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := referencePoint()
		if err != nil {
			return err
		}
		if maxDistance > 0 && ref == nil {
			return fmt.Errorf("--max-distance needs --near or home coordinates in the config")
		}

		criteria := planner.StationCriteria{
			Network:       planner.Network(networkName),
			ConnectorType: planner.ConnectorType(connectorType),
			MinPowerKw:    minPower,
			MaxDistanceKm: maxDistance,
			MaxCostPerKwh: maxCost,
			AvailableOnly: availableOnly,
		}
		if openNow {
			criteria.OpenAt = time.Now()
		}

		stations, err := loadStations(cmd.Context(), criteria, ref)
		if err != nil {
			return err
		}

		stations = planner.FilterStations(stations, criteria, ref)
		if vehicleID != "" {
			v, err := root.GetCatalog().VehicleByID(vehicleID)
			if err != nil {
				return err
			}
			stations = planner.CompatibleStations(stations, v)
		}
		if rank > 0 {
			stations = planner.RankChargingStops(stations, rank, root.GetConfig().Priority())
		} else if ref != nil {
			stations = planner.SortByDistance(stations, *ref)
		}

		if len(stations) == 0 {
			fmt.Println("No charging stations match the given criteria.")
			return nil
		}

		printStations(stations, ref)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <station-id>",
	Short: "Show the connectors, pricing and opening hours of a station",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		station, err := root.GetCatalog().StationByID(args[0])
		if remote {
			client, cerr := root.NewNetworkClient()
			if cerr != nil {
				return cerr
			}
			res := client.GetStationStatus(cmd.Context(), args[0])
			if res.Success {
				station, err = res.Data, nil
			} else {
				root.GetLogger().Warnf("live status unavailable, showing catalog data: %v", res.Err())
			}
		}
		if err != nil {
			return err
		}

		printStation(station)
		return nil
	},
}

func init() {
	StationsCmd.Flags().StringVar(&networkName, "network", "", "Charging network (DEWA, ADDC, SEWA, Tesla, Other)")
	StationsCmd.Flags().StringVar(&connectorType, "connector", "", "Connector type (CCS2, CHAdeMO, Tesla, Type2, GBT)")
	StationsCmd.Flags().Float64Var(&minPower, "min-power", 0, "Minimum connector power in kW")
	StationsCmd.Flags().Float64Var(&maxDistance, "max-distance", 0, "Maximum distance in km from --near")
	StationsCmd.Flags().Float64Var(&maxCost, "max-cost", 0, "Maximum price in AED per kWh")
	StationsCmd.Flags().BoolVar(&availableOnly, "available", false, "Only stations with an available connector")
	StationsCmd.Flags().BoolVar(&openNow, "open-now", false, "Only stations open right now")
	StationsCmd.Flags().StringVar(&near, "near", "", "Reference point as lat,lng (default is the home location)")
	StationsCmd.Flags().IntVar(&rank, "rank", 0, "Rank stations and show the best N")
	StationsCmd.Flags().StringVar(&vehicleID, "vehicle", "", "Only stations compatible with this vehicle")
	StationsCmd.PersistentFlags().BoolVar(&remote, "remote", false, "Query the live charging network, falling back to the catalog")

	StationsCmd.AddCommand(showCmd)
	root.RootCmd.AddCommand(StationsCmd)
}

func referencePoint() (*planner.Point, error) {
	if near == "" {
		return root.GetConfig().HomePoint(), nil
	}
	p, err := planner.ParsePoint(near)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func loadStations(ctx context.Context, criteria planner.StationCriteria, ref *planner.Point) ([]planner.ChargingStation, error) {
	fallback := root.GetCatalog().Stations()
	if !remote {
		return fallback, nil
	}

	client, err := root.NewNetworkClient()
	if err != nil {
		return nil, err
	}
	return fetchStations(ctx, client, criteria, ref, fallback), nil
}

// fetchStations asks the charging network for stations, using the nearby
// endpoint only when both a reference point and a radius are given.
func fetchStations(ctx context.Context, client *network.Client, criteria planner.StationCriteria, ref *planner.Point, fallback []planner.ChargingStation) []planner.ChargingStation {
	if ref == nil || criteria.MaxDistanceKm <= 0 {
		return client.StationsOrFallback(ctx, fallback)
	}

	res := client.GetStationsNearby(ctx, ref.Lat, ref.Lng, criteria.MaxDistanceKm, network.NearbyFilters{
		Network:       criteria.Network,
		ConnectorType: criteria.ConnectorType,
		MinPowerKw:    criteria.MinPowerKw,
		AvailableOnly: criteria.AvailableOnly,
	})
	if err := res.Err(); err != nil {
		root.GetLogger().Warnf("using catalog stations, charging network unavailable: %v", err)
		return fallback
	}
	return res.Data
}

func connectorSummary(s planner.ChargingStation) string {
	types := s.ConnectorTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func stationRows(stations []planner.ChargingStation, ref *planner.Point) [][]string {
	rows := make([][]string, 0, len(stations))
	for _, s := range stations {
		distance := "-"
		if ref != nil {
			distance = fmt.Sprintf("%.1f km", ref.DistanceTo(s.Location))
		}
		rows = append(rows, []string{
			s.ID,
			s.Name,
			string(s.Network),
			connectorSummary(s),
			fmt.Sprintf("%.0f kW", s.MaxPowerKw()),
			fmt.Sprintf("%d/%d", s.AvailableConnectors(), len(s.Connectors)),
			fmt.Sprintf("%.2f", s.Pricing.CostPerKwh),
			distance,
		})
	}
	return rows
}

func printStations(stations []planner.ChargingStation, ref *planner.Point) {
	t := root.NewTable(
		[]string{"ID", "NAME", "NETWORK", "CONNECTORS", "MAX POWER", "AVAILABLE", "AED/kWh", "DISTANCE"},
		stationRows(stations, ref),
		5,
	)
	fmt.Println(t)

	prices := make([]float64, len(stations))
	powers := make([]float64, len(stations))
	for i, s := range stations {
		prices[i] = s.Pricing.CostPerKwh
		powers[i] = s.MaxPowerKw()
	}
	fmt.Println(root.DimStyle.Render(fmt.Sprintf(
		"%d stations  Avg price: %.2f AED/kWh  Avg max power: %.0f kW",
		len(stations), stat.Mean(prices, nil), stat.Mean(powers, nil),
	)))
}

func connectorStatus(c planner.Connector) string {
	if c.Available {
		return root.AvailableStyle.Render("✓ Available")
	}
	switch strings.ToLower(c.Status) {
	case "occupied", "charging":
		return root.WarningStyle.Render("⏸ Occupied")
	case "":
		return root.ErrorStyle.Render("✗ Unavailable")
	default:
		return root.ErrorStyle.Render("✗ " + c.Status)
	}
}

func printStation(s planner.ChargingStation) {
	fmt.Println(root.TitleStyle.Render(s.Name))

	hours := "24/7"
	if len(s.OperatingHours) > 0 {
		ranges := make([]string, len(s.OperatingHours))
		for i, tr := range s.OperatingHours {
			ranges[i] = tr.String()
		}
		hours = strings.Join(ranges, "; ")
	}
	fmt.Println(root.NewKeyValueTable([][]string{
		{"Open", openStatus(s, time.Now())},
		{"Network", string(s.Network)},
		{"Address", s.Address},
		{"Location", s.Location.String()},
		{"Pricing", fmt.Sprintf("%.2f AED/kWh + %.2f AED session fee", s.Pricing.CostPerKwh, s.Pricing.SessionFee)},
		{"Hours", hours},
		{"Amenities", strings.Join(s.Amenities, ", ")},
	}))

	rows := make([][]string, 0, len(s.Connectors))
	for _, c := range s.Connectors {
		rows = append(rows, []string{c.ID, string(c.Type), fmt.Sprintf("%.0f kW", c.MaxPowerKw), connectorStatus(c)})
	}
	fmt.Println(root.NewTable([]string{"CONN", "TYPE", "POWER", "STATUS"}, rows, 0, 3))
}

func openStatus(s planner.ChargingStation, now time.Time) string {
	if s.OpenAt(now) {
		return root.AvailableStyle.Render("Open now")
	}
	next, ok := s.NextOpening(now)
	if !ok {
		return root.ErrorStyle.Render("Closed")
	}
	return root.WarningStyle.Render("Closed, opens " + next.Format("Mon 15:04"))
}
