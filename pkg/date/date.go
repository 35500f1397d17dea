package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// Format is the wire representation of dates, ISO-8601 day precision.
const Format = "2006-01-02"

// Date represents a calendar day with no time-of-day component. Budget
// windows and transaction dates are exchanged with the service in this form.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Of truncates a time.Time to its calendar day.
func Of(t time.Time) Date {
	return New(t.Date())
}

// Parse parses a Date from its ISO-8601 string form.
func Parse(str string) (Date, error) {
	t, err := time.Parse(Format, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %q: %w", str, Format, err)
	}
	return New(t.Date()), nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// literals.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int        { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int         { return d.d }

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Before reports whether d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Within reports whether d lies in the inclusive window [start, end].
func (d Date) Within(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

// AddDays returns a new Date the given number of days later.
func (d Date) AddDays(days int) Date { return New(d.y, d.m, d.d+days) }

// String formats the date in its standard form.
func (d Date) String() string { return d.time().Format(Format) }

// MarshalJSON encodes the date as an ISO-8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes an ISO-8601 string into the date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
