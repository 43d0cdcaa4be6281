package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/denysvitali/plusfind/cmd/root"
	"github.com/denysvitali/plusfind/feed"
	"github.com/denysvitali/plusfind/planner"
)

const (
	maxHistorySize = 30 // Number of data points to keep for sparkline
)

var (
	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			MarginTop(1)
)

// Sparkline characters (from lowest to highest)
var sparklineChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

type historyPoint struct {
	available float64
	time      time.Time
}

type view struct {
	network planner.Network
	history []historyPoint
}

func newView(network planner.Network) *view {
	return &view{network: network}
}

func (v *view) stations(snap feed.Snapshot) []planner.ChargingStation {
	return planner.FilterStations(snap.Stations, planner.StationCriteria{Network: v.network}, nil)
}

func (v *view) record(stations []planner.ChargingStation, at time.Time) {
	total := 0
	for _, s := range stations {
		total += s.AvailableConnectors()
	}
	v.history = append(v.history, historyPoint{available: float64(total), time: at})

	// Keep only the last N points
	if len(v.history) > maxHistorySize {
		v.history = v.history[1:]
	}
}

func (v *view) render(snap feed.Snapshot, state string, last *feed.Update) {
	stations := v.stations(snap)
	v.record(stations, time.Now())

	if !once {
		fmt.Print("\033[H\033[2J")
	}

	fmt.Println(root.TitleStyle.Render("LIVE STATION STATUS"))

	rows := make([][]string, 0, len(stations))
	for _, s := range stations {
		rows = append(rows, []string{
			s.Name,
			string(s.Network),
			availability(s),
			fmt.Sprintf("%.0f kW", s.MaxPowerKw()),
		})
	}
	fmt.Println(root.NewTable([]string{"STATION", "NETWORK", "AVAILABLE", "MAX POWER"}, rows, 2))

	updated := "-"
	if !snap.UpdatedAt.IsZero() {
		updated = snap.UpdatedAt.Format("15:04:05")
	}
	info := [][]string{
		{"Feed", state},
		{"Snapshot", fmt.Sprintf("v%d at %s", snap.Version, updated)},
	}
	if last != nil {
		info = append(info, []string{"Last event", fmt.Sprintf("%s %s at %s", last.Type, last.StationID, last.Timestamp.Format("15:04:05"))})
	}
	fmt.Println(root.NewKeyValueTable(info))

	if len(v.history) > 1 && !once {
		fmt.Println()
		v.printTrend()
	}

	if !once {
		fmt.Println(hintStyle.Render("Press Ctrl+C to exit"))
	}
}

func availability(s planner.ChargingStation) string {
	text := fmt.Sprintf("%d/%d", s.AvailableConnectors(), len(s.Connectors))
	switch {
	case s.AvailableConnectors() == 0:
		return root.ErrorStyle.Render(text)
	case s.AvailableConnectors()*2 < len(s.Connectors):
		return root.WarningStyle.Render(text)
	default:
		return root.AvailableStyle.Render(text)
	}
}

func (v *view) printTrend() {
	values := make([]float64, len(v.history))
	for i, h := range v.history {
		values[i] = h.available
	}

	duration := v.history[len(v.history)-1].time.Sub(v.history[0].time)

	fmt.Println(root.DimStyle.Render("Available connectors"))
	fmt.Println(sparklineStyle.Render(generateSparkline(values)))
	fmt.Println(root.DimStyle.Render(fmt.Sprintf(
		"Min: %.0f  Max: %.0f  Avg: %.1f  (%s)",
		floats.Min(values), floats.Max(values), stat.Mean(values, nil), formatDuration(duration),
	)))
}

func generateSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	minVal, maxVal := floats.Min(values), floats.Max(values)

	// Handle case where all values are the same
	valueRange := maxVal - minVal
	if valueRange == 0 {
		valueRange = 1
	}

	var sb strings.Builder
	for _, v := range values {
		// Normalize to 0-7 range for sparkline characters
		normalized := (v - minVal) / valueRange
		index := int(normalized * float64(len(sparklineChars)-1))
		index = max(0, min(index, len(sparklineChars)-1))
		sb.WriteRune(sparklineChars[index])
	}

	return sb.String()
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
