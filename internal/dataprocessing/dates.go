package dataprocessing

import (
	"fmt"
	"strings"
	"time"

	apperrors "ridership/internal/errors"
)

// dateLayouts are tried in order; month-only layouts resolve to the first of the month
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006", "01/02/2006",
	"2006/01/02",
	"Jan 2, 2006", "January 2, 2006",
	"January 2006", "Jan 2006",
	"2006-01", "1/2006", "01/2006",
}

// ParseDate interprets value as a calendar date. The result is at midnight UTC.
func ParseDate(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, apperrors.NewInvalidDateError(value, fmt.Errorf("empty value"))
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, apperrors.NewInvalidDateError(value, fmt.Errorf("no known layout matches"))
}
