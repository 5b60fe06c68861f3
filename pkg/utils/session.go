package utils

import (
	"time"
)

// SessionStatus classifies where we are in the CME Globex week.
type SessionStatus string

const (
	SessionOpen        SessionStatus = "OPEN"     // electronic session trading
	SessionRTH         SessionStatus = "RTH"      // regular US equity hours inside the session
	SessionMaintenance SessionStatus = "BREAK"    // daily 17:00-18:00 ET halt
	SessionClosed      SessionStatus = "CLOSED"   // weekend
)

// EasternLocation is the reference timezone for session times; CME
// equity index futures hours are quoted in US Eastern time.
var EasternLocation *time.Location

func init() {
	var err error
	EasternLocation, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback to UTC-5
		EasternLocation = time.FixedZone("ET", -5*60*60)
	}
}

// GetSessionStatus returns the Globex session status for equity index
// futures: Sunday 18:00 ET through Friday 17:00 ET, with a daily
// maintenance break 17:00-18:00 ET.
func GetSessionStatus() SessionStatus {
	return sessionStatusAt(time.Now().In(EasternLocation))
}

func sessionStatusAt(now time.Time) SessionStatus {
	wd := now.Weekday()
	timeMinutes := now.Hour()*60 + now.Minute()

	// Weekend: Friday 17:00 through Sunday 18:00
	if wd == time.Saturday {
		return SessionClosed
	}
	if wd == time.Sunday && timeMinutes < 18*60 {
		return SessionClosed
	}
	if wd == time.Friday && timeMinutes >= 17*60 {
		return SessionClosed
	}

	// Daily maintenance break 17:00-18:00
	if wd != time.Sunday && timeMinutes >= 17*60 && timeMinutes < 18*60 {
		return SessionMaintenance
	}

	// Regular US hours 9:30-16:00
	if wd != time.Sunday && timeMinutes >= 9*60+30 && timeMinutes < 16*60 {
		return SessionRTH
	}

	return SessionOpen
}

// IsSessionOpen returns true if the contract is currently tradeable.
func IsSessionOpen() bool {
	status := GetSessionStatus()
	return status == SessionOpen || status == SessionRTH
}

// NextSessionOpen returns the next Globex open.
func NextSessionOpen() time.Time {
	now := time.Now().In(EasternLocation)

	next := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, EasternLocation)
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	// The only opens are Sunday through Friday evenings; a Saturday
	// candidate rolls to Sunday 18:00.
	for next.Weekday() == time.Saturday {
		next = next.AddDate(0, 0, 1)
	}
	if next.Weekday() == time.Sunday {
		// fine: Sunday 18:00 is the weekly open
		return next
	}
	if next.Weekday() == time.Friday {
		// Friday 18:00 never opens; roll to Sunday
		next = next.AddDate(0, 0, 2)
	}

	return next
}

// RTHOpen returns today's regular-hours open (9:30 ET).
func RTHOpen() time.Time {
	now := time.Now().In(EasternLocation)
	return time.Date(now.Year(), now.Month(), now.Day(), 9, 30, 0, 0, EasternLocation)
}

// RTHClose returns today's regular-hours close (16:00 ET).
func RTHClose() time.Time {
	now := time.Now().In(EasternLocation)
	return time.Date(now.Year(), now.Month(), now.Day(), 16, 0, 0, 0, EasternLocation)
}

// TimeUntilRTHClose returns the duration until the regular-hours close.
func TimeUntilRTHClose() time.Duration {
	return time.Until(RTHClose())
}
