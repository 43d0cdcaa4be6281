package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/denysvitali/plusfind/cmd/root"
	"github.com/denysvitali/plusfind/feed"
	"github.com/denysvitali/plusfind/planner"
)

var (
	networkName     string
	refreshInterval time.Duration
	metricsAddr     string
	once            bool
	noFeed          bool
)

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch live charging station availability",
	Long: `Watch the availability of the charging stations. Status changes are received from the
real-time feed and the full station list is refreshed periodically from the
charging network.

Shows a sparkline of the available connectors over time.`,
	Example: `  # Watch all stations
  plusfind watch

  # Watch DEWA stations and expose Prometheus metrics
  plusfind watch --network DEWA --metrics-addr :9090

  # Print the current availability once and exit
  plusfind watch --once`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx)
	},
}

func init() {
	WatchCmd.Flags().StringVar(&networkName, "network", "", "Only show stations of this network")
	WatchCmd.Flags().DurationVar(&refreshInterval, "refresh", 5*time.Minute, "Full station list refresh interval")
	WatchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	WatchCmd.Flags().BoolVar(&once, "once", false, "Print the current availability and exit")
	WatchCmd.Flags().BoolVar(&noFeed, "no-feed", false, "Do not connect to the real-time feed, only refresh periodically")

	root.RootCmd.AddCommand(WatchCmd)
}

func watch(ctx context.Context) error {
	log := root.GetLogger()
	cfg := root.GetConfig()

	reg := prometheus.NewRegistry()
	metrics, err := feed.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("unable to register metrics: %w", err)
	}

	netClient, err := root.NewNetworkClient()
	if err != nil {
		return err
	}
	stations := netClient.StationsOrFallback(ctx, root.GetCatalog().Stations())

	store := feed.NewStore(stations, metrics)
	defer store.Close()

	view := newView(planner.Network(networkName))
	if once {
		view.render(store.Snapshot(), "-", nil)
		return nil
	}

	snapshots := store.Subscribe()

	refresher, err := feed.NewRefresher(netClient, store, refreshInterval, metrics)
	if err != nil {
		return err
	}
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := refresher.Stop(); err != nil {
			log.Warnf("unable to stop refresher: %v", err)
		}
	}()

	if metricsAddr != "" {
		go func() {
			if err := feed.ServeMetrics(ctx, metricsAddr, reg); err != nil {
				log.Errorf("metrics server failed: %v", err)
			}
		}()
	}

	state := func() string { return "disabled" }
	var updates <-chan feed.Update
	if !noFeed {
		client, err := feed.NewClient(cfg.Network.FeedURL, cfg.Network.APIKey, store, feed.WithMetrics(metrics))
		if err != nil {
			return err
		}
		updates = client.Updates()
		state = client.State
		go func() {
			if err := client.Run(ctx); err != nil {
				log.Errorf("real-time feed stopped: %v", err)
			}
		}()
	}

	var last *feed.Update
	view.render(store.Snapshot(), state(), last)
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped watching.")
			return nil
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			view.render(snap, state(), last)
		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			log.Debugf("%s update for %s (%s)", u.Type, u.StationID, u.Priority)
			last = &u
		}
	}
}
