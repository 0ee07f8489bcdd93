package engine

import (
	"fmt"
	"time"

	"github.com/tartampluch/contact-birthday/internal/config"
)

// monthNames is the only localized table the widget carries.
var monthNames = [12]string{
	"January",
	"February",
	"March",
	"April",
	"May",
	"June",
	"July",
	"August",
	"September",
	"October",
	"November",
	"December",
}

// MonthName returns the English name of m.
func MonthName(m time.Month) string {
	return monthNames[m-1]
}

// FormatBirthday renders the birthday as "March 10", or "March 10, 2025" when
// includeYear is set. The year is always the UTC year of referenceNow, never the
// birth year.
func FormatBirthday(date CalendarDate, includeYear bool, referenceNow time.Time) string {
	s := fmt.Sprintf(config.FormatBirthday, MonthName(date.Month), date.Day)
	if includeYear {
		s = fmt.Sprintf(config.FormatBirthdayWithYear, s, referenceNow.UTC().Year())
	}
	return s
}

// IsUpcoming reports whether the birthday falls in the window (0, withinDays]
// days after referenceNow.
//
// The candidate occurrence is the birthday stamped onto the current UTC year at
// midnight UTC, and the difference is fractional. A birthday today is therefore
// never upcoming. The candidate is not rolled over to next year: a January
// birthday evaluated in late December yields a negative difference and is not
// upcoming.
func IsUpcoming(date CalendarDate, withinDays int, referenceNow time.Time) bool {
	candidate := date.In(referenceNow.UTC().Year())
	diff := candidate.Sub(referenceNow).Hours() / config.HoursPerDay
	return diff > 0 && diff <= float64(withinDays)
}

// NextOccurrence returns the next date on which the birthday is celebrated,
// counting today. Unlike IsUpcoming it rolls over to the next year.
func NextOccurrence(date CalendarDate, referenceNow time.Time) time.Time {
	now := referenceNow.UTC()
	candidate := date.In(now.Year())
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(todayStart) {
		candidate = date.In(now.Year() + 1)
	}
	return candidate
}
