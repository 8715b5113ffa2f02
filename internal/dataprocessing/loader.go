package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	apperrors "ridership/internal/errors"
	"ridership/internal/validation"
)

// LoadData reads the table at path. CSV files go through gota with type detection;
// .xlsx workbooks are read from their first sheet. Columns and rows are returned as
// found, and a header without data rows gives an empty table of string columns.
// A missing path yields a FILE_NOT_FOUND error, any extension other than .csv or
// .xlsx a SCHEMA error.
func LoadData(path string) (dataframe.DataFrame, error) {
	return NewLoader(nil).Load(path)
}

// Loader reads raw ridership tables
type Loader struct {
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewLoader creates a loader that logs to logger, or slog.Default when nil
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}
}

// Load reads the table at path
func (l *Loader) Load(path string) (dataframe.DataFrame, error) {
	if err := l.validator.ValidateTableFile(path); err != nil {
		return dataframe.DataFrame{}, err
	}

	var df dataframe.DataFrame
	var err error
	if validation.IsExcel(path) {
		df, err = l.loadExcel(path)
	} else {
		df, err = l.loadCSV(path)
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	l.logger.Info("Loaded table",
		slog.String("file", path),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))

	return df, nil
}

func (l *Loader) loadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewFilesystemError("open "+path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewSchemaError(fmt.Sprintf("failed to parse %s", path), err).
			WithContext("path", path)
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, apperrors.NewSchemaError(fmt.Sprintf("%s is empty", path), nil).
			WithContext("path", path)
	}

	return fromRecords(path, records)
}

func (l *Loader) loadExcel(path string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewSchemaError(fmt.Sprintf("failed to open workbook %s", path), err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataframe.DataFrame{}, apperrors.NewSchemaError(fmt.Sprintf("workbook %s has no sheets", path), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewSchemaError(fmt.Sprintf("failed to read sheet %s", sheets[0]), err).
			WithContext("path", path)
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, apperrors.NewSchemaError(fmt.Sprintf("sheet %s is empty", sheets[0]), nil).
			WithContext("path", path)
	}

	l.logger.Debug("Read workbook sheet",
		slog.String("file", path),
		slog.String("sheet_name", sheets[0]),
		slog.Int("total_rows", len(rows)))

	return fromRecords(path, padRows(rows))
}

// fromRecords builds a frame from a header row and data rows. gota refuses a header
// alone, so that case becomes zero-length string columns.
func fromRecords(path string, records [][]string) (dataframe.DataFrame, error) {
	header := records[0]
	if dups := DuplicateColumns(header); len(dups) > 0 {
		return dataframe.DataFrame{}, duplicateColumnsError(dups).WithContext("path", path)
	}

	if len(records) == 1 {
		cols := make([]series.Series, len(header))
		for i, name := range header {
			cols[i] = series.New([]string{}, series.String, name)
		}
		return dataframe.New(cols...), nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewSchemaError(fmt.Sprintf("failed to parse %s", path), df.Err).
			WithContext("path", path)
	}
	return df, nil
}

func duplicateColumnsError(dups []string) *apperrors.AppError {
	return apperrors.NewSchemaError("duplicate columns: "+strings.Join(dups, ", "), nil).
		WithContext("duplicates", dups)
}

// padRows extends every row to the header width; excelize drops trailing empty cells
func padRows(rows [][]string) [][]string {
	width := len(rows[0])
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}
