package root

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/denysvitali/plusfind/catalog"
	"github.com/denysvitali/plusfind/config"
	"github.com/denysvitali/plusfind/network"
	"github.com/denysvitali/plusfind/planner"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	cat      *catalog.Catalog
	log      = logrus.StandardLogger()
)

var RootCmd = &cobra.Command{
	Use:   "plusfind",
	Short: "plusfind - plan EV trips and find charging stations in the UAE",
	Long: `plusfind is a command line tool to browse UAE electric vehicles and charging stations,
estimate charging times and plan trips with simulated charging stops.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setLogLevel(); err != nil {
			return err
		}

		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		if err := loadDotEnv(); err != nil {
			return err
		}

		if err := initConfig(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		var err error
		cat, err = catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return fmt.Errorf("unable to load catalog: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/plusfind/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	viper.BindPFlag("config", RootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", RootCmd.PersistentFlags().Lookup("log-level"))

	// PLUSFIND_NETWORK_API_KEY overrides network.api_key
	viper.SetEnvPrefix("PLUSFIND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		log.Debug("Loaded environment from .env")
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("unable to load .env: %w", err)
}

func initConfig() error {
	configPath := ""

	if cfgFile != "" {
		configPath = cfgFile
		viper.SetConfigFile(cfgFile)
	} else {
		configPath = config.DefaultConfigFilePath

		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, "plusfind"))
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug("No config file found, using defaults and environment variables")
	} else {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
		configPath = viper.ConfigFileUsed()
	}

	var err error
	cfg, err = config.GetConfigFromFile(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log.Debug("Config file not found, creating empty config")
		cfg = &config.Config{}
	}

	applyOverrides(cfg)
	return nil
}

// applyOverrides copies values set through the environment or a viper-read
// config file onto cfg.
func applyOverrides(c *config.Config) {
	if viper.IsSet("openroute_api_key") {
		c.OpenRouteAPIKey = viper.GetString("openroute_api_key")
	}
	if viper.IsSet("weather_api_key") {
		c.WeatherAPIKey = viper.GetString("weather_api_key")
	}
	if viper.IsSet("network.base_url") {
		c.Network.BaseURL = viper.GetString("network.base_url")
	}
	if viper.IsSet("network.api_key") {
		c.Network.APIKey = viper.GetString("network.api_key")
	}
	if viper.IsSet("network.feed_url") {
		c.Network.FeedURL = viper.GetString("network.feed_url")
	}
	if viper.IsSet("home.latitude") {
		c.Home.Latitude = viper.GetFloat64("home.latitude")
	}
	if viper.IsSet("home.longitude") {
		c.Home.Longitude = viper.GetFloat64("home.longitude")
	}
	if viper.IsSet("catalog_file") {
		c.CatalogFile = viper.GetString("catalog_file")
	}
	if viper.IsSet("priority_networks") {
		var networks []planner.Network
		for _, n := range viper.GetStringSlice("priority_networks") {
			networks = append(networks, planner.Network(n))
		}
		c.PriorityNetworks = networks
	}
}

func setLogLevel() error {
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", logLevel)
	}
	log.SetLevel(lvl)
	return nil
}

func Execute() error {
	return RootCmd.Execute()
}

// GetConfig returns the loaded config, or an empty one before PersistentPreRunE ran.
func GetConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

func GetCatalog() *catalog.Catalog {
	if cat == nil {
		return catalog.Default()
	}
	return cat
}

func GetLogger() *logrus.Logger {
	return log
}

// NewNetworkClient returns a charging network client built from the loaded config.
func NewNetworkClient() (*network.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return network.New(cfg.Network), nil
}

// GetConfigPath returns the file config changes are saved to.
func GetConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}
	return config.DefaultConfigFilePath
}

// ValidateSoc rejects state of charge values outside 0..100.
func ValidateSoc(name string, soc float64) error {
	if soc < 0 || soc > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %v", name, soc)
	}
	return nil
}
