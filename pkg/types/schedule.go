// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// Schedule is the weekly trigger the external scheduler uses. The pipeline only
// reports it; installing the trigger happens elsewhere.
type Schedule struct {
	Weekday time.Weekday `json:"weekday" yaml:"weekday"`
	Hour    int          `json:"hour" yaml:"hour"`
}

// ParseWeekday accepts full or three-letter English day names, case-insensitive.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

// Validate checks the hour range.
func (s Schedule) Validate() error {
	if s.Hour < 0 || s.Hour > 23 {
		return fmt.Errorf("schedule hour %d out of range 0-23", s.Hour)
	}
	return nil
}

// Next returns the first trigger strictly after now, in now's location.
func (s Schedule) Next(now time.Time) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), s.Hour, 0, 0, 0, now.Location())
	days := (int(s.Weekday) - int(now.Weekday()) + 7) % 7
	candidate = candidate.AddDate(0, 0, days)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// String renders e.g. "every Monday at 08:00".
func (s Schedule) String() string {
	return fmt.Sprintf("every %s at %02d:00", s.Weekday, s.Hour)
}
