package vehicles

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/denysvitali/plusfind/cmd/root"
	"github.com/denysvitali/plusfind/planner"
)

var (
	search      string
	vehicleMake string
	year        int
	minRange    float64
	maxPrice    float64
	connector   string
	popularOnly bool
)

var VehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "List electric vehicles available in the UAE",
	Long: `List the electric vehicles in the catalog, optionally filtered by make, year,
range, price and charging connector.`,
	Example: `  # List all vehicles
  plusfind vehicles

  # Tesla vehicles with at least 450 km of range
  plusfind vehicles --make Tesla --min-range 450

  # Popular vehicles with a CCS2 port under 250,000 AED
  plusfind vehicles --popular --connector CCS2 --max-price 250000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria := planner.VehicleCriteria{
			Search:        search,
			Make:          vehicleMake,
			Year:          year,
			MinRangeKm:    minRange,
			MaxPriceAED:   maxPrice,
			ConnectorType: planner.ConnectorType(connector),
			PopularOnly:   popularOnly,
		}

		vehicles := planner.FilterVehicles(root.GetCatalog().Vehicles(), criteria)
		if len(vehicles) == 0 {
			fmt.Println("No vehicles match the given criteria.")
			return nil
		}

		printVehicles(vehicles)
		return nil
	},
}

func init() {
	VehiclesCmd.Flags().StringVarP(&search, "search", "s", "", "Search make and model")
	VehiclesCmd.Flags().StringVar(&vehicleMake, "make", "", "Vehicle make")
	VehiclesCmd.Flags().IntVar(&year, "year", 0, "Model year")
	VehiclesCmd.Flags().Float64Var(&minRange, "min-range", 0, "Minimum range in km")
	VehiclesCmd.Flags().Float64Var(&maxPrice, "max-price", 0, "Maximum price in AED")
	VehiclesCmd.Flags().StringVar(&connector, "connector", "", "Charging connector type (CCS2, CHAdeMO, Tesla, Type2, GBT)")
	VehiclesCmd.Flags().BoolVar(&popularOnly, "popular", false, "Only vehicles popular in the UAE")

	root.RootCmd.AddCommand(VehiclesCmd)
}

func vehicleRows(vehicles []planner.Vehicle) [][]string {
	rows := make([][]string, 0, len(vehicles))
	for _, v := range vehicles {
		ports := make([]string, len(v.ChargingPorts))
		for i, p := range v.ChargingPorts {
			ports[i] = string(p.Type)
		}
		popular := ""
		if v.PopularInUAE {
			popular = "★"
		}
		rows = append(rows, []string{
			v.ID,
			v.Name(),
			fmt.Sprintf("%d", v.Year),
			fmt.Sprintf("%.0f kWh", v.BatteryCapacityKwh),
			fmt.Sprintf("%.0f km", planner.FullRangeKm(v)),
			fmt.Sprintf("%.0f kW", v.MaxChargingSpeedKw),
			strings.Join(ports, ", "),
			fmt.Sprintf("%.0f", v.MsrpAED),
			popular,
		})
	}
	return rows
}

func printVehicles(vehicles []planner.Vehicle) {
	t := root.NewTable(
		[]string{"ID", "VEHICLE", "YEAR", "BATTERY", "RANGE", "MAX DC", "PORTS", "PRICE (AED)", "UAE"},
		vehicleRows(vehicles),
		2, 8,
	)
	fmt.Println(t)

	ranges := make([]float64, len(vehicles))
	prices := make([]float64, len(vehicles))
	for i, v := range vehicles {
		ranges[i] = planner.FullRangeKm(v)
		prices[i] = v.MsrpAED
	}
	fmt.Println(root.DimStyle.Render(fmt.Sprintf(
		"%d vehicles  Avg range: %.0f km  Avg price: %.0f AED",
		len(vehicles), stat.Mean(ranges, nil), stat.Mean(prices, nil),
	)))
}
