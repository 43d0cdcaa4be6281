package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/denysvitali/plusfind/planner"
)

// DemoAPIKey makes the free API clients answer with mock data.
const DemoAPIKey = "demo"

type NetworkConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	FeedURL string `yaml:"feed_url"`
}

type HomeConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type Config struct {
	OpenRouteAPIKey string `yaml:"openroute_api_key"`
	WeatherAPIKey   string `yaml:"weather_api_key"`

	Network          NetworkConfig     `yaml:"network"`
	PriorityNetworks []planner.Network `yaml:"priority_networks,omitempty"`
	Home             HomeConfig        `yaml:"home"`
	CatalogFile      string            `yaml:"catalog_file,omitempty"`
}

var DefaultConfigFilePath = filepath.Join(xdg.ConfigHome, "plusfind", "config.yaml")

func GetConfigFromFile(inputConfigFile string) (*Config, error) {
	if inputConfigFile == "" {
		inputConfigFile = DefaultConfigFilePath
	}
	f, err := os.Open(inputConfigFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	err = yaml.NewDecoder(f).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", inputConfigFile, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config, configFile string) error {
	if configFile == "" {
		configFile = DefaultConfigFilePath
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(configFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return yaml.NewEncoder(f).Encode(cfg)
}

// ClearAPIKeys forgets the free API keys, putting the clients back in demo mode.
func (c *Config) ClearAPIKeys() {
	c.OpenRouteAPIKey = ""
	c.WeatherAPIKey = ""
}

// Priority returns the configured priority networks, or the planner default.
func (c *Config) Priority() []planner.Network {
	if len(c.PriorityNetworks) == 0 {
		return planner.DefaultPriorityNetworks
	}
	return c.PriorityNetworks
}

// HomePoint returns the home coordinates, or nil when none are configured.
func (c *Config) HomePoint() *planner.Point {
	p := planner.Point{Lat: c.Home.Latitude, Lng: c.Home.Longitude}
	if p.IsZero() {
		return nil
	}
	return &p
}

// IsDemoKey reports whether key makes a free API client use mock data.
func IsDemoKey(key string) bool {
	return key == "" || key == DemoAPIKey
}
