package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denysvitali/plusfind/config"
	"github.com/denysvitali/plusfind/planner"
)

const (
	DefaultBaseURL  = "https://api.evjourney.ae"
	DefaultRadiusKm = 50.0
	requestTimeout  = 15 * time.Second
)

var log = logrus.StandardLogger()

type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NearbyFilters are forwarded to the backend as query parameters. Zero
// values are omitted.
type NearbyFilters struct {
	Network       planner.Network
	ConnectorType planner.ConnectorType
	MinPowerKw    float64
	AvailableOnly bool
}

type stationsPayload struct {
	Stations       []planner.ChargingStation `json:"stations"`
	RequestID      string                    `json:"requestId"`
	ProcessingTime float64                   `json:"processingTime"`
}

type stationPayload struct {
	Station        planner.ChargingStation `json:"station"`
	RequestID      string                  `json:"requestId"`
	ProcessingTime float64                 `json:"processingTime"`
}

func New(cfg config.NetworkConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: bearerRoundTripper{apiKey: cfg.APIKey},
		},
		baseURL: baseURL,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	log.Debugf("GET %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", res.Status)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("unable to decode response: %w", err)
	}
	return nil
}

// GetAllStations lists every station known to the backend.
func (c *Client) GetAllStations(ctx context.Context) Response[[]planner.ChargingStation] {
	var payload stationsPayload
	if err := c.get(ctx, "/charging/stations", nil, &payload); err != nil {
		return failure[[]planner.ChargingStation](err)
	}
	return success(payload.Stations, payload.RequestID, payload.ProcessingTime)
}

// GetStationsNearby lists the stations within radiusKm of (lat, lng). A
// non-positive radius uses DefaultRadiusKm.
func (c *Client) GetStationsNearby(ctx context.Context, lat, lng, radiusKm float64, filters NearbyFilters) Response[[]planner.ChargingStation] {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	query := url.Values{}
	query.Set("lat", formatFloat(lat))
	query.Set("lng", formatFloat(lng))
	query.Set("radius", formatFloat(radiusKm))
	if filters.Network != "" {
		query.Set("network", string(filters.Network))
	}
	if filters.ConnectorType != "" {
		query.Set("connectorType", string(filters.ConnectorType))
	}
	if filters.MinPowerKw > 0 {
		query.Set("minPower", formatFloat(filters.MinPowerKw))
	}
	if filters.AvailableOnly {
		query.Set("availableOnly", "true")
	}

	var payload stationsPayload
	if err := c.get(ctx, "/charging/stations/nearby", query, &payload); err != nil {
		return failure[[]planner.ChargingStation](err)
	}
	return success(payload.Stations, payload.RequestID, payload.ProcessingTime)
}

// GetStationStatus fetches the live state of a single station.
func (c *Client) GetStationStatus(ctx context.Context, stationID string) Response[planner.ChargingStation] {
	var payload stationPayload
	if err := c.get(ctx, "/charging/stations/"+url.PathEscape(stationID)+"/status", nil, &payload); err != nil {
		return failure[planner.ChargingStation](err)
	}
	return success(payload.Station, payload.RequestID, payload.ProcessingTime)
}

// StationsOrFallback returns the backend's stations, or fallback when the
// backend cannot be reached.
func (c *Client) StationsOrFallback(ctx context.Context, fallback []planner.ChargingStation) []planner.ChargingStation {
	res := c.GetAllStations(ctx)
	if err := res.Err(); err != nil {
		log.Warnf("using catalog stations, charging network unavailable: %v", err)
		return fallback
	}
	return res.Data
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
