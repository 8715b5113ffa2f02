// Package dataprocessing turns raw monthly ridership tables into the cleaned
// per-route, per-month table written by the pipeline.
//
// # Architecture
//
// The package is organized into small components that the Transformer composes:
//
// 1. Loader: reads a CSV (or .xlsx) file into a gota DataFrame as found
// 2. Normalizer: CleanColumnNames trims headers and string cells and snake-cases headers
// 3. Route canonicalizer: ProcessRoutes title-cases route lists idempotently
// 4. Calendar: DaysInMonth and MonthEnd under the Gregorian leap rule
// 5. Transformer: derives date_end, num_days_in_month and ridership_per_day
//
// # Usage
//
//	raw, err := dataprocessing.LoadData("data/raw/ridership.csv")
//	if err != nil {
//	    return err
//	}
//	cleaned, err := dataprocessing.NewTransformer(2, logger).Transform(raw)
//
// # Data Flow
//
//	CSV file → LoadData → DataFrame → CleanColumnNames → TransformRecords → []RidershipRecord → DataFrame
//
// # Output Columns
//
//	route, date, date_end, ridership, num_days_in_month, ridership_per_day
//
// Dates are written as YYYY-MM-DD. ridership_per_day is an exact decimal rounded to the
// configured precision and printed without trailing zeros, so 300000 riders over 30 days
// prints as 10000.
//
// # Error Handling
//
// Errors are errors.AppError values: FILE_NOT_FOUND for a missing input, SCHEMA for
// missing columns or non-integer ridership, INVALID_DATE for dates no layout accepts.
// Row-level errors carry the 1-based data row in their context.
package dataprocessing
