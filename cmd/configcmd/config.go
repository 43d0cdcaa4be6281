package configcmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/denysvitali/plusfind/cmd/root"
	"github.com/denysvitali/plusfind/config"
	"github.com/denysvitali/plusfind/planner"
)

var (
	openRouteKey string
	weatherKey   string
	networkKey   string
	networkURL   string
	feedURL      string
	home         string
	priority     []string
	catalogFile  string
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change the configuration",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with API keys masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(root.DimStyle.Render("# " + root.GetConfigPath()))
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(masked(*root.GetConfig()))
	},
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Save API keys and preferences to the config file",
	Example: `  # Save the free API keys
  plusfind config set --openroute-key 5b3ce... --weather-key 9f1a...

  # Set the home location used by "stations"
  plusfind config set --home 25.0805,55.1403`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := root.GetConfig()
		if err := apply(cmd, cfg); err != nil {
			return err
		}
		if err := config.SaveConfig(cfg, root.GetConfigPath()); err != nil {
			return fmt.Errorf("unable to save config: %w", err)
		}
		fmt.Printf("Configuration saved to %s\n", root.GetConfigPath())
		return nil
	},
}

var clearKeysCmd = &cobra.Command{
	Use:   "clear-keys",
	Short: "Remove the free API keys, going back to sample data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := root.GetConfig()
		cfg.ClearAPIKeys()
		if err := config.SaveConfig(cfg, root.GetConfigPath()); err != nil {
			return fmt.Errorf("unable to save config: %w", err)
		}
		fmt.Println("API keys cleared, routing and weather will use sample data.")
		return nil
	},
}

func init() {
	setCmd.Flags().StringVar(&openRouteKey, "openroute-key", "", "OpenRouteService API key")
	setCmd.Flags().StringVar(&weatherKey, "weather-key", "", "OpenWeatherMap API key")
	setCmd.Flags().StringVar(&networkKey, "network-key", "", "Charging network API key")
	setCmd.Flags().StringVar(&networkURL, "network-url", "", "Charging network API base URL")
	setCmd.Flags().StringVar(&feedURL, "feed-url", "", "Real-time feed URL")
	setCmd.Flags().StringVar(&home, "home", "", "Home location as lat,lng")
	setCmd.Flags().StringSliceVar(&priority, "priority", nil, "Priority charging networks, best first")
	setCmd.Flags().StringVar(&catalogFile, "catalog", "", "Custom vehicle and station catalog file")

	ConfigCmd.AddCommand(showCmd)
	ConfigCmd.AddCommand(setCmd)
	ConfigCmd.AddCommand(clearKeysCmd)
	root.RootCmd.AddCommand(ConfigCmd)
}

// apply copies the flags that were explicitly set onto cfg.
func apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("openroute-key") {
		cfg.OpenRouteAPIKey = openRouteKey
	}
	if flags.Changed("weather-key") {
		cfg.WeatherAPIKey = weatherKey
	}
	if flags.Changed("network-key") {
		cfg.Network.APIKey = networkKey
	}
	if flags.Changed("network-url") {
		cfg.Network.BaseURL = networkURL
	}
	if flags.Changed("feed-url") {
		cfg.Network.FeedURL = feedURL
	}
	if flags.Changed("home") {
		p, err := planner.ParsePoint(home)
		if err != nil {
			return err
		}
		cfg.Home = config.HomeConfig{Latitude: p.Lat, Longitude: p.Lng}
	}
	if flags.Changed("priority") {
		cfg.PriorityNetworks = nil
		for _, n := range priority {
			cfg.PriorityNetworks = append(cfg.PriorityNetworks, planner.Network(n))
		}
	}
	if flags.Changed("catalog") {
		cfg.CatalogFile = catalogFile
	}
	return nil
}

func maskKey(key string) string {
	if config.IsDemoKey(key) || len(key) <= 4 {
		return key
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}

func masked(cfg config.Config) config.Config {
	cfg.OpenRouteAPIKey = maskKey(cfg.OpenRouteAPIKey)
	cfg.WeatherAPIKey = maskKey(cfg.WeatherAPIKey)
	cfg.Network.APIKey = maskKey(cfg.Network.APIKey)
	return cfg
}
