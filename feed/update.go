package feed

import (
	"encoding/json"
	"fmt"
	"time"
)

type UpdateType string

const (
	UpdateStationStatus UpdateType = "Station Status"
	UpdateTraffic       UpdateType = "Traffic"
	UpdateWeather       UpdateType = "Weather"
	UpdateRouteChange   UpdateType = "Route Change"
)

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Update is a real-time event pushed by the feed. Data is decoded lazily
// since its shape depends on Type.
type Update struct {
	Type      UpdateType      `json:"type"`
	StationID string          `json:"stationId,omitempty"`
	RouteID   string          `json:"routeId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Priority  Priority        `json:"priority"`
}

type ConnectorStatus struct {
	ID        string `json:"id"`
	Available bool   `json:"isAvailable"`
	Status    string `json:"status,omitempty"`
}

// StationStatus is the payload of a "Station Status" update. Available,
// when set, applies to every connector not listed in Connectors.
type StationStatus struct {
	Available  *bool             `json:"isAvailable,omitempty"`
	Connectors []ConnectorStatus `json:"connectors,omitempty"`
}

func (u Update) StationStatus() (StationStatus, error) {
	var status StationStatus
	if u.Type != UpdateStationStatus {
		return status, fmt.Errorf("update of type %q carries no station status", u.Type)
	}
	if len(u.Data) == 0 {
		return status, nil
	}
	if err := json.Unmarshal(u.Data, &status); err != nil {
		return status, fmt.Errorf("unable to decode station status: %w", err)
	}
	return status, nil
}
