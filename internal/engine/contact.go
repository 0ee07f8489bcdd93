package engine

import (
	"errors"
	"time"

	"github.com/tartampluch/contact-birthday/internal/config"
)

// ContactSnapshot is the record delivered by a RecordSource.
// It is never modified after delivery; a refetch replaces it wholesale.
type ContactSnapshot struct {
	// RecordID is the identifier the snapshot was fetched with.
	RecordID string

	FirstName string
	Birthdate CalendarDate
}

// CalendarDate is a date without time of day, interpreted in UTC.
// Year is zero when the source only carried a month and a day (vCard --MM-DD).
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// YearKnown reports whether the date carries a birth year.
func (d CalendarDate) YearKnown() bool {
	return d.Year != 0
}

// Valid reports whether month and day form a real calendar day.
// February 29 is always accepted since the year may be unknown.
func (d CalendarDate) Valid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	year := d.Year
	if year == 0 {
		year = config.DefaultLeapYear
	}
	t := time.Date(year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return t.Month() == d.Month && t.Day() == d.Day
}

// In returns the date stamped onto the given year at 00:00 UTC.
// Feb 29 normalizes to March 1 in non-leap years.
func (d CalendarDate) In(year int) time.Time {
	return time.Date(year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// ParseCalendarDate handles the date layouts found in vCard BDAY fields.
func ParseCalendarDate(value string) (CalendarDate, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			t = t.UTC()
			return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
		}
	}

	// Truncated dates: parse against a leap year so --02-29 survives.
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return CalendarDate{Month: t.Month(), Day: t.Day()}, nil
		}
	}

	return CalendarDate{}, errors.New(config.ErrDateParse)
}
