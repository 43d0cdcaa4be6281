package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    TimeRange
		expectError bool
	}{
		{
			name:     "basic time range",
			input:    "7:00-20:00",
			expected: TimeRange{StartHour: 7, EndHour: 20},
		},
		{
			name:  "time range with weekdays",
			input: "6:00-23:00:Sat,Sun",
			expected: TimeRange{
				StartHour: 6,
				EndHour:   23,
				Weekdays:  []time.Weekday{time.Saturday, time.Sunday},
			},
		},
		{
			name:     "time range with minutes",
			input:    "9:30-21:45",
			expected: TimeRange{StartHour: 9, StartMinute: 30, EndHour: 21, EndMinute: 45},
		},
		{
			name:     "around the clock",
			input:    "00:00-24:00",
			expected: TimeRange{EndHour: 24},
		},
		{name: "invalid format", input: "invalid", expectError: true},
		{name: "missing end", input: "7:00-", expectError: true},
		{name: "hour out of range", input: "7:00-25:00", expectError: true},
		{name: "minute out of range", input: "7:60-20:00", expectError: true},
		{name: "invalid weekday", input: "7:00-20:00:Someday", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseTimeRange(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTimeRange_Contains(t *testing.T) {
	monday := func(hour, minute int) time.Time {
		return time.Date(2025, 1, 13, hour, minute, 0, 0, time.UTC)
	}
	saturday := time.Date(2025, 1, 18, 12, 0, 0, 0, time.UTC)

	daytime := TimeRange{StartHour: 7, EndHour: 20}
	assert.True(t, daytime.Contains(monday(7, 0)))
	assert.True(t, daytime.Contains(monday(19, 59)))
	assert.False(t, daytime.Contains(monday(20, 0)))
	assert.False(t, daytime.Contains(monday(6, 59)))

	overnight := TimeRange{StartHour: 22, EndHour: 6}
	assert.True(t, overnight.Contains(monday(23, 0)))
	assert.True(t, overnight.Contains(monday(5, 30)))
	assert.False(t, overnight.Contains(monday(12, 0)))

	weekend := TimeRange{StartHour: 0, EndHour: 24, Weekdays: []time.Weekday{time.Saturday, time.Sunday}}
	assert.True(t, weekend.Contains(saturday))
	assert.False(t, weekend.Contains(monday(12, 0)))

	// 2025-01-17 is a Friday
	friday := func(day, hour int) time.Time {
		return time.Date(2025, 1, 17+day, hour, 0, 0, 0, time.UTC)
	}
	fridayNight := TimeRange{StartHour: 22, EndHour: 2, Weekdays: []time.Weekday{time.Friday}}
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{name: "friday evening", t: friday(0, 23), want: true},
		{name: "saturday early morning", t: friday(1, 1), want: true},
		{name: "friday early morning", t: friday(0, 1), want: false},
		{name: "saturday evening", t: friday(1, 23), want: false},
		{name: "saturday after close", t: friday(1, 2), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fridayNight.Contains(tt.t))
		})
	}
}

func TestTimeRange_String(t *testing.T) {
	assert.Equal(t, "07:00-20:00", TimeRange{StartHour: 7, EndHour: 20}.String())
	assert.Equal(t, "06:30-23:00:Fri,Sat", TimeRange{
		StartHour: 6, StartMinute: 30, EndHour: 23,
		Weekdays: []time.Weekday{time.Friday, time.Saturday},
	}.String())
}

func TestTimeRange_YAML(t *testing.T) {
	var station struct {
		Hours []TimeRange `yaml:"operating_hours"`
	}
	err := yaml.Unmarshal([]byte("operating_hours:\n  - \"06:00-23:00\"\n  - \"08:00-12:00:Fri\"\n"), &station)
	require.NoError(t, err)
	require.Len(t, station.Hours, 2)
	assert.Equal(t, TimeRange{StartHour: 6, EndHour: 23}, station.Hours[0])
	assert.Equal(t, []time.Weekday{time.Friday}, station.Hours[1].Weekdays)

	out, err := yaml.Marshal(station)
	require.NoError(t, err)
	assert.Contains(t, string(out), "06:00-23:00")
	assert.Contains(t, string(out), "08:00-12:00:Fri")

	err = yaml.Unmarshal([]byte("operating_hours:\n  - \"late\"\n"), &station)
	assert.Error(t, err)
}

func TestChargingStation_OpenAt(t *testing.T) {
	night := time.Date(2025, 1, 13, 2, 0, 0, 0, time.UTC)
	assert.True(t, ChargingStation{}.OpenAt(night))

	s := ChargingStation{OperatingHours: []TimeRange{
		{StartHour: 6, EndHour: 12},
		{StartHour: 14, EndHour: 23},
	}}
	assert.False(t, s.OpenAt(night))
	assert.True(t, s.OpenAt(night.Add(5*time.Hour)))
	assert.False(t, s.OpenAt(night.Add(11*time.Hour)))
	assert.True(t, s.OpenAt(night.Add(13*time.Hour)))
}

func TestChargingStation_NextOpening(t *testing.T) {
	monday := time.Date(2025, 1, 13, 2, 0, 30, 0, time.UTC)
	s := ChargingStation{OperatingHours: []TimeRange{
		{StartHour: 6, EndHour: 12, Weekdays: []time.Weekday{time.Monday}},
		{StartHour: 14, EndHour: 23},
	}}

	tests := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{name: "already open", at: monday.Add(5 * time.Hour), want: monday.Add(5 * time.Hour)},
		{name: "before morning window", at: monday, want: time.Date(2025, 1, 13, 6, 0, 0, 0, time.UTC)},
		{name: "lunch break", at: monday.Add(10*time.Hour + 30*time.Minute), want: time.Date(2025, 1, 13, 14, 0, 0, 0, time.UTC)},
		{name: "tuesday morning", at: monday.Add(26 * time.Hour), want: time.Date(2025, 1, 14, 14, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := s.NextOpening(tt.at)
			assert.True(t, ok)
			assert.Equal(t, tt.want, next)
		})
	}

	never := ChargingStation{OperatingHours: []TimeRange{{StartHour: 8, EndHour: 8}}}
	_, ok := never.NextOpening(monday)
	assert.False(t, ok)
}
