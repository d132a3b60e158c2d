package domain

import (
	"testing"
	"time"
)

func TestScheduleValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		schedule Schedule
		wantErr  bool
	}{
		{"disabled ignores bounds", Schedule{Enabled: false, Start: "oops", End: ""}, false},
		{"valid window", Schedule{Enabled: true, Start: "09:00", End: "17:30"}, false},
		{"overnight window", Schedule{Enabled: true, Start: "22:00", End: "06:00"}, false},
		{"bad start", Schedule{Enabled: true, Start: "9:00", End: "17:00"}, true},
		{"bad end", Schedule{Enabled: true, Start: "09:00", End: "24:00"}, true},
		{"minutes out of range", Schedule{Enabled: true, Start: "09:61", End: "17:00"}, true},
	}
	for _, tc := range cases {
		err := tc.schedule.Validate()
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestScheduleContains(t *testing.T) {
	t.Parallel()
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 2, hour, minute, 0, 0, time.Local)
	}
	day := Schedule{Enabled: true, Start: "09:00", End: "17:00"}
	night := Schedule{Enabled: true, Start: "22:00", End: "06:00"}
	off := Schedule{Enabled: false}

	cases := []struct {
		name     string
		schedule Schedule
		t        time.Time
		want     bool
	}{
		{"disabled always contains", off, at(3, 0), true},
		{"inside day window", day, at(12, 0), true},
		{"start boundary", day, at(9, 0), true},
		{"end boundary", day, at(17, 0), true},
		{"before window", day, at(8, 59), false},
		{"after window", day, at(17, 1), false},
		{"overnight late evening", night, at(23, 30), true},
		{"overnight early morning", night, at(5, 0), true},
		{"overnight midday excluded", night, at(12, 0), false},
	}
	for _, tc := range cases {
		if got := tc.schedule.Contains(tc.t); got != tc.want {
			t.Fatalf("%s: got %t, want %t", tc.name, got, tc.want)
		}
	}
}
