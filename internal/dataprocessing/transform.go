package dataprocessing

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"

	apperrors "ridership/internal/errors"
	"ridership/internal/validation"
)

// Transform derives the cleaned ridership table from a raw one using the default
// per-day precision. See Transformer.Transform.
func Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	return NewTransformer(DefaultPerDayPrecision, nil).Transform(df)
}

// Transformer turns raw ridership rows into RidershipRecords
type Transformer struct {
	precision int32
	logger    *slog.Logger
}

// NewTransformer creates a transformer that rounds ridership_per_day half away from
// zero to precision decimal places
func NewTransformer(precision int32, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	if precision < 0 {
		precision = 0
	}
	return &Transformer{
		precision: precision,
		logger:    logger,
	}
}

// Transform normalizes df's columns and returns a table with exactly OutputColumns,
// one row per input row in input order. Columns other than route, date and ridership
// are dropped.
func (t *Transformer) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	records, err := t.TransformRecords(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return RecordsToDataFrame(records), nil
}

// TransformRecords is Transform returning typed records instead of a table.
// A missing required column or a bad ridership value yields a SCHEMA error; an
// unparseable date yields an INVALID_DATE error. The first bad row aborts the call.
func (t *Transformer) TransformRecords(df dataframe.DataFrame) ([]RidershipRecord, error) {
	if df.Err != nil {
		return nil, apperrors.NewSchemaError("input table is invalid", df.Err)
	}

	df = CleanColumnNames(df)
	if df.Err != nil {
		return nil, df.Err
	}
	if missing := missingColumns(df.Names()); len(missing) > 0 {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("missing", missing).
			WithContext("columns", df.Names())
	}

	routes := df.Col(ColRoute)
	dates := df.Col(ColDate)
	riders := df.Col(ColRidership)

	records := make([]RidershipRecord, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		record, err := t.buildRecord(routes.Elem(i), dates.Elem(i), riders.Elem(i))
		if err != nil {
			var appErr *apperrors.AppError
			if stderrors.As(err, &appErr) {
				appErr.WithContext("row", i+1)
			}
			return nil, err
		}
		records = append(records, record)
	}

	t.logger.Info("Transformed ridership table",
		slog.Int("rows", len(records)),
		slog.Int("dropped_columns", df.Ncol()-len(RequiredColumns)))

	return records, nil
}

func (t *Transformer) buildRecord(route, date, ridership series.Element) (RidershipRecord, error) {
	if date.IsNA() {
		return RidershipRecord{}, apperrors.NewInvalidDateError("", fmt.Errorf("missing value"))
	}
	start, err := ParseDate(date.String())
	if err != nil {
		return RidershipRecord{}, err
	}

	end, err := MonthEnd(start)
	if err != nil {
		return RidershipRecord{}, err
	}
	days := end.Day()

	if ridership.IsNA() {
		return RidershipRecord{}, apperrors.NewSchemaError("missing ridership value", nil)
	}
	riders, err := parseRidership(ridership.String())
	if err != nil {
		return RidershipRecord{}, err
	}

	routeName := ""
	if !route.IsNA() {
		routeName = ProcessRoutes(route.String())
	}

	record := RidershipRecord{
		Route:           routeName,
		Date:            start,
		DateEnd:         end,
		Ridership:       riders,
		NumDaysInMonth:  days,
		RidershipPerDay: PerDay(riders, days, t.precision),
	}

	if err := validation.Struct(record); err != nil {
		return RidershipRecord{}, apperrors.NewSchemaError("invalid ridership record", err)
	}

	return record, nil
}

// PerDay divides ridership by days, rounding half away from zero to precision places
func PerDay(ridership int64, days int, precision int32) decimal.Decimal {
	return decimal.NewFromInt(ridership).DivRound(decimal.NewFromInt(int64(days)), precision)
}

// parseRidership accepts integers with optional thousands separators, and floats
// with no fractional part
func parseRidership(value string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if s == "" {
		return 0, apperrors.NewSchemaError("missing ridership value", nil)
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, apperrors.NewSchemaError(fmt.Sprintf("ridership %q is not an integer", value), err).
			WithContext("value", value)
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, apperrors.NewSchemaError(fmt.Sprintf("ridership %q is out of range", value), nil).
			WithContext("value", value)
	}
	return int64(f), nil
}

func missingColumns(names []string) []string {
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}

	var missing []string
	for _, required := range RequiredColumns {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	return missing
}

// RecordsToDataFrame builds the cleaned table in OutputColumns order
func RecordsToDataFrame(records []RidershipRecord) dataframe.DataFrame {
	n := len(records)
	routes := make([]string, n)
	dates := make([]string, n)
	ends := make([]string, n)
	riders := make([]int, n)
	days := make([]int, n)
	perDay := make([]string, n)

	for i, r := range records {
		routes[i] = r.Route
		dates[i] = r.Date.Format(DateLayout)
		ends[i] = r.DateEnd.Format(DateLayout)
		riders[i] = int(r.Ridership)
		days[i] = r.NumDaysInMonth
		perDay[i] = r.RidershipPerDay.String()
	}

	return dataframe.New(
		series.New(routes, series.String, ColRoute),
		series.New(dates, series.String, ColDate),
		series.New(ends, series.String, ColDateEnd),
		series.New(riders, series.Int, ColRidership),
		series.New(days, series.Int, ColNumDaysInMonth),
		series.New(perDay, series.String, ColRidershipPerDay),
	)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
