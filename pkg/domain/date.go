package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// NewDate returns the calendar date for y-m-d in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Accepted input layouts. Month and day may have one or two digits.
var (
	fullYearLayouts = []string{"2006-1-2", "2006/1/2"}
	shortYearLayout = "06/1/2"
)

// ParseDate accepts year-first dates separated by "-" or "/", with a four or
// two digit year. Two-digit years below 50 map to 20xx, the rest to 19xx.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if strings.ContainsRune(raw, '+') || strings.HasPrefix(raw, "-") {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	for _, layout := range fullYearLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Date{Time: t}, nil
		}
	}
	t, err := time.Parse(shortYearLayout, raw)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	year := t.Year() % 100
	if year < 50 {
		year += 2000
	} else {
		year += 1900
	}
	return NewDate(year, t.Month(), t.Day()), nil
}

// String formats the date as YYYY-MM-DD; a nil date is empty.
func (d *Date) String() string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
