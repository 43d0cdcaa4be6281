package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

// Client reads live car status from a TeslaMate API instance.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func New(addr string) (*Client, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid TeslaMate API URL %q", addr)
	}

	return &Client{
		endpoint:   strings.TrimSuffix(addr, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *Client) GetCarStatus(ctx context.Context, carID int) (*CarStatusResponse, error) {
	u := fmt.Sprintf("%s/api/v1/cars/%d/status", c.endpoint, carID)
	log.Debugf("GET %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}

	var response genericResponse[CarStatusResponse]
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("unable to decode car status: %w", err)
	}
	return &response.Data, nil
}
