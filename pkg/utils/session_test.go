package utils

import (
	"testing"
	"time"
)

func at(wd time.Weekday, hour, minute int) time.Time {
	// 2026-08-30 is a Sunday; offset to the wanted weekday.
	base := time.Date(2026, 8, 30, hour, minute, 0, 0, EasternLocation)
	return base.AddDate(0, 0, int(wd-time.Sunday))
}

func TestSessionStatusAt(t *testing.T) {
	cases := []struct {
		name string
		when time.Time
		want SessionStatus
	}{
		{"saturday", at(time.Saturday, 12, 0), SessionClosed},
		{"sunday before open", at(time.Sunday, 17, 59), SessionClosed},
		{"sunday open", at(time.Sunday, 18, 0), SessionOpen},
		{"monday overnight", at(time.Monday, 3, 0), SessionOpen},
		{"monday rth", at(time.Monday, 10, 30), SessionRTH},
		{"monday after rth", at(time.Monday, 16, 30), SessionOpen},
		{"monday maintenance", at(time.Monday, 17, 30), SessionMaintenance},
		{"friday after close", at(time.Friday, 17, 0), SessionClosed},
		{"friday rth", at(time.Friday, 14, 0), SessionRTH},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sessionStatusAt(tc.when); got != tc.want {
				t.Errorf("sessionStatusAt(%s %s) = %s, want %s",
					tc.when.Weekday(), tc.when.Format("15:04"), got, tc.want)
			}
		})
	}
}
