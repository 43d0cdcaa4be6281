package chargetime

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/plusfind/cmd/root"
	"github.com/denysvitali/plusfind/planner"
)

var (
	vehicleID string
	stationID string
	capacity  float64
	fromSoc   float64
	toSoc     float64
	power     float64
)

var ChargeTimeCmd = &cobra.Command{
	Use:   "charge-time",
	Short: "Estimate how long a charging session takes",
	Long: `Estimate the charging time, energy and cost of a session with a linear model.
The charging curve tapering at high state of charge is not taken into account.

The power defaults to the best the vehicle can draw at --station, or to the
vehicle's maximum charging speed.`,
	Example: `  # 20% to 80% on a 75 kWh battery at 250 kW
  plusfind charge-time --capacity 75 --from 20 --to 80 --power 250

  # Tesla Model 3 at the DEWA Dubai Mall station
  plusfind charge-time --vehicle tesla-model-3 --station dewa-mall-emirates --from 10 --to 90`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := root.ValidateSoc("--from", fromSoc); err != nil {
			return err
		}
		if err := root.ValidateSoc("--to", toSoc); err != nil {
			return err
		}

		est, err := estimate()
		if err != nil {
			return err
		}
		printEstimate(est)
		return nil
	},
}

func init() {
	ChargeTimeCmd.Flags().StringVar(&vehicleID, "vehicle", "", "Vehicle ID from the catalog")
	ChargeTimeCmd.Flags().StringVar(&stationID, "station", "", "Charging station ID from the catalog")
	ChargeTimeCmd.Flags().Float64Var(&capacity, "capacity", 0, "Battery capacity in kWh (overrides the vehicle)")
	ChargeTimeCmd.Flags().Float64Var(&fromSoc, "from", 20, "Initial state of charge in %")
	ChargeTimeCmd.Flags().Float64Var(&toSoc, "to", 80, "Target state of charge in %")
	ChargeTimeCmd.Flags().Float64Var(&power, "power", 0, "Charging power in kW (overrides vehicle and station)")

	root.RootCmd.AddCommand(ChargeTimeCmd)
}

type estimation struct {
	label       string
	capacityKwh float64
	powerKw     float64
	minutes     float64
	energyKwh   float64
	station     *planner.ChargingStation
	costAED     float64
}

func estimate() (estimation, error) {
	est := estimation{capacityKwh: capacity, powerKw: power}

	cat := root.GetCatalog()
	if vehicleID != "" {
		v, err := cat.VehicleByID(vehicleID)
		if err != nil {
			return est, err
		}
		est.label = v.Name()
		if est.capacityKwh == 0 {
			est.capacityKwh = v.BatteryCapacityKwh
		}
		if stationID != "" {
			s, err := cat.StationByID(stationID)
			if err != nil {
				return est, err
			}
			est.station = &s
			if est.powerKw == 0 {
				est.powerKw = planner.EffectiveChargingPowerKw(v, s)
				if est.powerKw == 0 {
					return est, fmt.Errorf("%s has no connector compatible with %s", s.Name, v.Name())
				}
			}
		}
		if est.powerKw == 0 {
			est.powerKw = v.MaxChargingSpeedKw
		}
	}

	if est.capacityKwh <= 0 {
		return est, fmt.Errorf("a battery capacity is required (use --capacity or --vehicle)")
	}
	if est.powerKw <= 0 {
		return est, fmt.Errorf("a charging power is required (use --power or --vehicle)")
	}

	est.minutes = planner.EstimateChargingTimeMinutes(est.capacityKwh, fromSoc, toSoc, est.powerKw)
	est.energyKwh = planner.EnergyToAddKwh(est.capacityKwh, fromSoc, toSoc)
	if est.station != nil {
		est.costAED = planner.ChargingCost(est.energyKwh, est.station.Pricing)
	}
	return est, nil
}

func printEstimate(est estimation) {
	fmt.Println(root.TitleStyle.Render("CHARGING ESTIMATE"))

	rows := [][]string{}
	if est.label != "" {
		rows = append(rows, []string{"Vehicle", est.label})
	}
	rows = append(rows,
		[]string{"Battery", fmt.Sprintf("%.1f kWh", est.capacityKwh)},
		[]string{"State of charge", fmt.Sprintf("%.0f%% → %.0f%%", fromSoc, toSoc)},
		[]string{"Power", fmt.Sprintf("%.0f kW", est.powerKw)},
		[]string{"Energy", fmt.Sprintf("%.2f kWh", est.energyKwh)},
		[]string{"Time", fmt.Sprintf("%s (%.1f min)", planner.FormatMinutes(est.minutes), est.minutes)},
	)
	if est.station != nil {
		rows = append(rows,
			[]string{"Station", est.station.Name},
			[]string{"Cost", fmt.Sprintf("%.2f AED", est.costAED)},
		)
	}
	fmt.Println(root.NewKeyValueTable(rows))
}
