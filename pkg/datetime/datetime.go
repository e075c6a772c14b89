// Package datetime provides time differences and caller-timezone rendering
// for experiment timestamps.
//
// Nothing here reads the process-wide clock or locale implicitly:
// the clock and the server location are carried by Env.
package datetime

import (
	"time"
)

// Layout of LocalizedString. It is what the dashboard shows in its tables
// (MM/DD/YYYY hh:mm:ss a).
const Layout = "01/02/2006 03:04:05 pm"

// InvalidDate is rendered for timestamps which cannot be parsed.
const InvalidDate = "Invalid date"

// Env is the clock and the location of the server.
type Env struct {
	// Now returns current time.
	Now func() time.Time

	// Location is the timezone of the server.
	//
	// It is used only to determine the default timezone offset of searches.
	Location *time.Location
}

// System returns Env with the wall clock.
//
// When loc is nil, time.Local is used.
func System(loc *time.Location) Env {
	if loc == nil {
		loc = time.Local
	}
	return Env{Now: time.Now, Location: loc}
}

// Fixed returns Env which always says now is `now`.
func Fixed(now time.Time, loc *time.Location) Env {
	if loc == nil {
		loc = time.UTC
	}
	return Env{Now: func() time.Time { return now }, Location: loc}
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) location() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

// OffsetMinutes returns the current timezone offset of the server in minutes,
// in the sign convention of the browser's Date.getTimezoneOffset (UTC - local).
//
// For example, it is -120 for UTC+02:00 and 300 for UTC-05:00.
func (e Env) OffsetMinutes() int {
	_, offset := e.now().In(e.location()).Zone()
	return -offset / 60
}

// NowMillis returns current time as unix epoch milliseconds.
func (e Env) NowMillis() int64 {
	return e.now().UnixMilli()
}

// Parse parses RFC3339 timestamp, as kubernetes writes.
//
// ok is false when s is empty or malformed.
func Parse(s string) (t time.Time, ok bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DifferenceMillis returns end - start in milliseconds.
//
//   - If start is absent, it is 0.
//   - If end is absent, it is the duration from start until now (running duration).
//
// The result is not clamped: inverted pair gives a negative number.
func DifferenceMillis(env Env, start string, end string) int64 {
	s, ok := Parse(start)
	if !ok {
		return 0
	}
	e, ok := Parse(end)
	if !ok {
		e = env.now()
	}
	return e.Sub(s).Milliseconds()
}

// LocalizedString renders timestamp iso as the wall-clock time of the caller,
// whose timezone offset is callerOffsetMinutes (Date.getTimezoneOffset convention).
//
// The result does not depend on the timezone of the server.
func LocalizedString(iso string, callerOffsetMinutes int) string {
	t, ok := Parse(iso)
	if !ok {
		return InvalidDate
	}
	zone := time.FixedZone("", -callerOffsetMinutes*60)
	return t.In(zone).Format(Layout)
}
