package planner

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// TimeRange is a daily opening window, optionally restricted to weekdays.
// Its text form is "HH:MM-HH:MM" or "HH:MM-HH:MM:Mon,Tue,...".
type TimeRange struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
	Weekdays    []time.Weekday // empty means all weekdays
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseTimeRange parses "7:00-20:00" or "7:00-20:00:Mon,Tue,Wed".
func ParseTimeRange(s string) (TimeRange, error) {
	var tr TimeRange

	colonParts := strings.Split(s, ":")
	var timeRangePart, weekdaysPart string
	switch {
	case len(colonParts) >= 4:
		timeRangePart = strings.Join(colonParts[:len(colonParts)-1], ":")
		weekdaysPart = colonParts[len(colonParts)-1]
	case len(colonParts) == 3:
		timeRangePart = s
	default:
		return tr, fmt.Errorf("invalid time range format: %s", s)
	}

	timeParts := strings.Split(timeRangePart, "-")
	if len(timeParts) != 2 {
		return tr, fmt.Errorf("invalid time range format: %s", timeRangePart)
	}

	var err error
	tr.StartHour, tr.StartMinute, err = parseClock(timeParts[0])
	if err != nil {
		return tr, fmt.Errorf("invalid start time: %w", err)
	}
	tr.EndHour, tr.EndMinute, err = parseClock(timeParts[1])
	if err != nil {
		return tr, fmt.Errorf("invalid end time: %w", err)
	}

	if weekdaysPart != "" {
		for _, name := range strings.Split(weekdaysPart, ",") {
			wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return tr, fmt.Errorf("invalid weekday: %s", name)
			}
			tr.Weekdays = append(tr.Weekdays, wd)
		}
	}

	return tr, nil
}

func parseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock format: %s", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 24 {
		return 0, 0, fmt.Errorf("invalid hour: %s", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute: %s", parts[1])
	}
	return hour, minute, nil
}

// Contains reports whether t falls within the range. Ranges whose end is
// before their start wrap past midnight.
// Weekdays refer to the day a range starts on.
func (tr TimeRange) Contains(t time.Time) bool {
	current := t.Hour()*60 + t.Minute()
	start := tr.StartHour*60 + tr.StartMinute
	end := tr.EndHour*60 + tr.EndMinute

	day := t.Weekday()
	var in bool
	switch {
	case end >= start:
		in = current >= start && current < end
	case current >= start:
		in = true
	case current < end:
		in = true
		day = t.AddDate(0, 0, -1).Weekday()
	}
	if !in {
		return false
	}
	if len(tr.Weekdays) == 0 {
		return true
	}
	return slices.Contains(tr.Weekdays, day)
}

func (tr TimeRange) String() string {
	s := fmt.Sprintf("%02d:%02d-%02d:%02d", tr.StartHour, tr.StartMinute, tr.EndHour, tr.EndMinute)
	if len(tr.Weekdays) == 0 {
		return s
	}
	days := make([]string, len(tr.Weekdays))
	for i, wd := range tr.Weekdays {
		days[i] = wd.String()[:3]
	}
	return s + ":" + strings.Join(days, ",")
}

func (tr TimeRange) MarshalText() ([]byte, error) {
	return []byte(tr.String()), nil
}

func (tr *TimeRange) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeRange(string(text))
	if err != nil {
		return err
	}
	*tr = parsed
	return nil
}

func (tr TimeRange) clone() TimeRange {
	c := tr
	c.Weekdays = append([]time.Weekday(nil), tr.Weekdays...)
	return c
}

// OpenAt reports whether the station is open at t. A station without
// operating hours is open around the clock.
func (s ChargingStation) OpenAt(t time.Time) bool {
	if len(s.OperatingHours) == 0 {
		return true
	}
	for _, tr := range s.OperatingHours {
		if tr.Contains(t) {
			return true
		}
	}
	return false
}

// NextOpening returns the first minute at or after t when the station is
// open. The search covers one week; ok is false when the station never opens.
func (s ChargingStation) NextOpening(t time.Time) (next time.Time, ok bool) {
	if s.OpenAt(t) {
		return t, true
	}
	start := t.Truncate(time.Minute)
	for i := 1; i <= 7*24*60; i++ {
		future := start.Add(time.Duration(i) * time.Minute)
		if s.OpenAt(future) {
			return future, true
		}
	}
	return time.Time{}, false
}
