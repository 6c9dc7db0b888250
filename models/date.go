package models

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire and display format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date stored in a DATE column and exchanged as YYYY-MM-DD.
type Date struct {
	datatypes.Date
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))}
}

func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", value, err)
	}
	return Date{datatypes.Date(t)}, nil
}

// MustParseDate is ParseDate for literals; it panics on malformed input.
func MustParseDate(value string) Date {
	d, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Time() time.Time {
	return time.Time(d.Date)
}

func (d Date) IsZero() bool {
	return d.Time().IsZero()
}

// Before compares calendar days only.
func (d Date) Before(other Date) bool {
	return d.String() < other.String()
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	raw := string(data)
	// "" is malformed like any other non-date; absent end dates are null
	if raw == "null" {
		*d = Date{}
		return nil
	}
	value, err := strconv.Unquote(raw)
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", raw, err)
	}
	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan accepts textual dates as well, since some drivers hand DATE columns
// back as strings ("2018-09-01" or "2018-09-01 00:00:00+00:00").
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	}
	return d.Date.Scan(value)
}

func (d *Date) scanText(value string) error {
	if len(value) < len(DateLayout) {
		return fmt.Errorf("cannot scan %q into Date", value)
	}
	parsed, err := ParseDate(value[:len(DateLayout)])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
