package dataprocessing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the cleaned ridership table
const (
	ColRoute           = "route"
	ColDate            = "date"
	ColDateEnd         = "date_end"
	ColRidership       = "ridership"
	ColNumDaysInMonth  = "num_days_in_month"
	ColRidershipPerDay = "ridership_per_day"
)

// DateLayout is the output format of date and date_end
const DateLayout = "2006-01-02"

// DefaultPerDayPrecision is the number of decimal places kept in ridership_per_day
const DefaultPerDayPrecision int32 = 2

// RequiredColumns must be present, after normalization, for Transform to run
var RequiredColumns = []string{ColRoute, ColDate, ColRidership}

// OutputColumns is the exact column order of Transform's result
var OutputColumns = []string{
	ColRoute,
	ColDate,
	ColDateEnd,
	ColRidership,
	ColNumDaysInMonth,
	ColRidershipPerDay,
}

// RidershipRecord is one month of ridership for one route
type RidershipRecord struct {
	Route           string          `csv:"route" validate:"required"`
	Date            time.Time       `csv:"date" validate:"required"`
	DateEnd         time.Time       `csv:"date_end" validate:"required,gtefield=Date"`
	Ridership       int64           `csv:"ridership" validate:"gte=0"`
	NumDaysInMonth  int             `csv:"num_days_in_month" validate:"min=28,max=31"`
	RidershipPerDay decimal.Decimal `csv:"ridership_per_day"`
}

// Row renders the record in OutputColumns order
func (r RidershipRecord) Row() []string {
	return []string{
		r.Route,
		r.Date.Format(DateLayout),
		r.DateEnd.Format(DateLayout),
		formatInt(r.Ridership),
		formatInt(int64(r.NumDaysInMonth)),
		r.RidershipPerDay.String(),
	}
}
