package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denysvitali/plusfind/config"
	"github.com/denysvitali/plusfind/planner"
)

const (
	DefaultBaseURL      = "https://api.openrouteservice.org/v2"
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultProfile      = "driving-car"
	userAgent           = "plusfind"
	requestTimeout      = 15 * time.Second
)

var log = logrus.StandardLogger()

// Route is a driving route between two points. Mock routes are straight
// lines driven at 1 km per minute.
type Route struct {
	DistanceKm      float64
	DurationMinutes float64
	Geometry        []planner.Point
	Mock            bool
}

type GeocodingResult struct {
	DisplayName string
	Point       planner.Point
	Mock        bool
}

var fallbackPlaces = []GeocodingResult{
	{DisplayName: "Dubai Mall, Dubai", Point: planner.Point{Lat: 25.1972, Lng: 55.2744}, Mock: true},
	{DisplayName: "Abu Dhabi Mall, Abu Dhabi", Point: planner.Point{Lat: 24.4888, Lng: 54.6094}, Mock: true},
}

type Client struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	nominatimURL string
}

func New(apiKey string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		nominatimURL: DefaultNominatimURL,
	}
}

type directionsRequest struct {
	Coordinates  [][2]float64 `json:"coordinates"`
	Format       string       `json:"format"`
	Instructions bool         `json:"instructions"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// GetRoute asks OpenRouteService for a route. Without a usable API key, or
// on any failure, a mock route is returned instead.
func (c *Client) GetRoute(ctx context.Context, start, end planner.Point, profile string) Route {
	if config.IsDemoKey(c.apiKey) {
		return MockRoute(start, end)
	}
	if profile == "" {
		profile = DefaultProfile
	}

	route, err := c.directions(ctx, start, end, profile)
	if err != nil {
		log.Warnf("routing API failed, using mock route: %v", err)
		return MockRoute(start, end)
	}
	return route
}

func (c *Client) directions(ctx context.Context, start, end planner.Point, profile string) (Route, error) {
	body, err := json.Marshal(directionsRequest{
		Coordinates: [][2]float64{{start.Lng, start.Lat}, {end.Lng, end.Lat}},
		Format:      "geojson",
	})
	if err != nil {
		return Route{}, err
	}

	u := c.baseURL + "/directions/" + url.PathEscape(profile)
	log.Debugf("POST %s", u)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return Route{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Route{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("unexpected status %s", res.Status)
	}

	var response directionsResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return Route{}, fmt.Errorf("unable to decode directions: %w", err)
	}
	if len(response.Features) == 0 {
		return Route{}, errors.New("no route found")
	}

	feature := response.Features[0]
	route := Route{
		DistanceKm:      feature.Properties.Summary.Distance / 1000,
		DurationMinutes: feature.Properties.Summary.Duration / 60,
	}
	for _, coord := range feature.Geometry.Coordinates {
		if len(coord) < 2 {
			continue
		}
		route.Geometry = append(route.Geometry, planner.Point{Lat: coord[1], Lng: coord[0]})
	}
	return route, nil
}

// MockRoute is the straight line from start to end.
func MockRoute(start, end planner.Point) Route {
	distance := start.DistanceTo(end)
	return Route{
		DistanceKm:      distance,
		DurationMinutes: distance,
		Geometry:        []planner.Point{start, end},
		Mock:            true,
	}
}

type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Geocode looks up places in the UAE with Nominatim. On failure it returns
// a fixed pair of well-known places.
func (c *Client) Geocode(ctx context.Context, query string) []GeocodingResult {
	results, err := c.search(ctx, query)
	if err != nil {
		log.Warnf("geocoding failed, using fallback places: %v", err)
		return append([]GeocodingResult(nil), fallbackPlaces...)
	}
	return results
}

func (c *Client) search(ctx context.Context, query string) ([]GeocodingResult, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "5")
	params.Set("countrycodes", "ae")
	u := c.nominatimURL + "/search?" + params.Encode()
	log.Debugf("GET %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding failed: %s", res.Status)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(res.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("unable to decode places: %w", err)
	}

	results := make([]GeocodingResult, 0, len(places))
	for _, p := range places {
		lat, err := strconv.ParseFloat(p.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q: %w", p.Lat, err)
		}
		lng, err := strconv.ParseFloat(p.Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q: %w", p.Lon, err)
		}
		results = append(results, GeocodingResult{DisplayName: p.DisplayName, Point: planner.Point{Lat: lat, Lng: lng}})
	}
	return results, nil
}
