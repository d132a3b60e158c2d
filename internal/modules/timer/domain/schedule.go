package domain

import (
	"fmt"
	"regexp"
	"time"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Schedule is an optional work-hours window consulted by the focus-start
// guard. Start and End are local "HH:MM" strings; when End < Start the
// window wraps past midnight.
type Schedule struct {
	Enabled bool
	Start   string
	End     string
}

func (s Schedule) Validate() error {
	if !s.Enabled {
		return nil
	}
	if !hhmmPattern.MatchString(s.Start) {
		return fmt.Errorf("schedule start must be HH:MM, got %q", s.Start)
	}
	if !hhmmPattern.MatchString(s.End) {
		return fmt.Errorf("schedule end must be HH:MM, got %q", s.End)
	}
	return nil
}

// Contains reports whether t falls inside the window. Comparison is done
// on same-timezone HH:MM strings, which sort lexicographically.
func (s Schedule) Contains(t time.Time) bool {
	if !s.Enabled {
		return true
	}
	now := t.Format("15:04")
	if s.Start <= s.End {
		return now >= s.Start && now <= s.End
	}
	// Overnight window, e.g. 22:00 - 06:00.
	return now >= s.Start || now <= s.End
}
