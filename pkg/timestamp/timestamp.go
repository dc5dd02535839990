// Package timestamp converts between the external timestamp representations
// accepted at the tool's boundary and the kernel's two-field time value.
package timestamp

import (
	"fmt"
	"time"

	"dateadded/pkg/attrlist"
)

// DisplayLayout is the seconds-precision ISO-8601 form used for output.
const DisplayLayout = "2006-01-02T15:04:05"

// layouts are the ISO-8601 shapes accepted for text input. Layouts without a
// zone are interpreted in local time. Fractional seconds are accepted and
// floored away.
var layouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Value is a timestamp in one of the accepted external forms. Resolution to a
// time.Time happens once at the boundary; the rest of the system only sees
// the canonical form.
type Value interface {
	Time() (time.Time, error)
}

// Text is an ISO-8601 timestamp string, e.g. "2024-01-15T21:20:37".
type Text string

// Epoch is a Unix timestamp in whole seconds.
type Epoch int64

// Calendar is an already-structured timestamp.
type Calendar time.Time

// Time parses the text against the accepted layouts. Malformed text fails
// with an error naming the input.
func (v Text) Time() (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, string(v), time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: expected ISO-8601, e.g. %s", string(v), DisplayLayout)
}

// Time converts the epoch seconds value.
func (v Epoch) Time() (time.Time, error) {
	return time.Unix(int64(v), 0), nil
}

// Time returns the calendar value unchanged.
func (v Calendar) Time() (time.Time, error) {
	return time.Time(v), nil
}

// ToTimeSpec resolves a Value into the kernel representation. Sub-second
// precision is floored away and nanoseconds are always written as 0.
func ToTimeSpec(v Value) (attrlist.TimeSpec, error) {
	t, err := v.Time()
	if err != nil {
		return attrlist.TimeSpec{}, err
	}
	return attrlist.TimeSpec{Sec: t.Unix()}, nil
}

// FromSeconds converts a kernel seconds value into a local-time timestamp.
func FromSeconds(sec int64) time.Time {
	return time.Unix(sec, 0)
}

// Format renders a timestamp for display: local time, seconds precision.
func Format(t time.Time) string {
	return t.Local().Format(DisplayLayout)
}
