package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denysvitali/plusfind/config"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	requestTimeout = 10 * time.Second
)

var log = logrus.StandardLogger()

type Weather struct {
	TemperatureC  float64 `json:"temperature"`
	Humidity      int     `json:"humidity"`
	WindSpeedKmh  float64 `json:"windSpeed"`
	WindDirection int     `json:"windDirection"`
	Condition     string  `json:"condition"`
	Description   string  `json:"description"`
	Icon          string  `json:"icon"`
	Mock          bool    `json:"-"`
}

// Mock is returned whenever live weather is unavailable.
var Mock = Weather{
	TemperatureC:  28,
	Humidity:      65,
	WindSpeedKmh:  12,
	WindDirection: 180,
	Condition:     "Clear",
	Description:   "clear sky",
	Icon:          "01d",
	Mock:          true,
}

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func New(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
	}
}

type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// GetCurrentWeather returns the current conditions at (lat, lng) in metric
// units, or Mock when no API key is configured or the request fails.
func (c *Client) GetCurrentWeather(ctx context.Context, lat, lng float64) Weather {
	if config.IsDemoKey(c.apiKey) {
		return Mock
	}
	w, err := c.current(ctx, lat, lng)
	if err != nil {
		log.Warnf("weather API failed, using mock data: %v", err)
		return Mock
	}
	return w
}

func (c *Client) current(ctx context.Context, lat, lng float64) (Weather, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return Weather{}, err
	}
	log.Debugf("GET %s/weather lat=%v lon=%v", c.baseURL, lat, lng)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Weather{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return Weather{}, fmt.Errorf("unexpected status %s", res.Status)
	}

	var data currentResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return Weather{}, fmt.Errorf("unable to decode weather: %w", err)
	}

	w := Weather{
		TemperatureC:  math.Round(data.Main.Temp),
		Humidity:      data.Main.Humidity,
		WindSpeedKmh:  math.Round(data.Wind.Speed * 3.6),
		WindDirection: data.Wind.Deg,
	}
	if len(data.Weather) > 0 {
		w.Condition = data.Weather[0].Main
		w.Description = data.Weather[0].Description
		w.Icon = data.Weather[0].Icon
	}
	return w, nil
}

func (w Weather) String() string {
	return fmt.Sprintf("%s (%s), %.0f°C, humidity %d%%, wind %.0f km/h", w.Condition, w.Description, w.TemperatureC, w.Humidity, w.WindSpeedKmh)
}
