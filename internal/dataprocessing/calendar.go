package dataprocessing

import (
	"fmt"
	"time"

	apperrors "ridership/internal/errors"
)

// DaysInMonth returns the number of days in the month containing t
func DaysInMonth(t time.Time) (int, error) {
	if t.IsZero() {
		return 0, apperrors.NewInvalidDateError(t.Format(DateLayout), fmt.Errorf("zero time"))
	}
	return DaysInMonthOf(t.Year(), t.Month())
}

// DaysInMonthOf returns the number of days in month of year under the Gregorian leap rule
func DaysInMonthOf(year int, month time.Month) (int, error) {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29, nil
		}
		return 28, nil
	case time.April, time.June, time.September, time.November:
		return 30, nil
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31, nil
	default:
		return 0, apperrors.NewInvalidDateError(fmt.Sprintf("%04d-%02d", year, int(month)),
			fmt.Errorf("month %d out of range", int(month)))
	}
}

// IsLeapYear reports whether year has a February 29th
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// MonthEnd returns the last calendar day of t's month at midnight UTC
func MonthEnd(t time.Time) (time.Time, error) {
	days, err := DaysInMonth(t)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), days, 0, 0, 0, 0, time.UTC), nil
}
