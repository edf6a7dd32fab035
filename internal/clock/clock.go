// Package clock provides the time source used to stamp notes.
package clock

import "time"

// Layouts used in session files.
const (
	StampLayout = "03:04 PM"
	DateLayout  = "01-02-2006"
)

// Clock returns the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// System is the real clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Func adapts a function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }

// Stamp formats t to minute precision, e.g. "09:05 AM".
func Stamp(t time.Time) string {
	return t.Format(StampLayout)
}

// Date formats t as MM-DD-YYYY.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}
