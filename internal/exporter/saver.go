package exporter

import (
	"log/slog"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	apperrors "ridership/internal/errors"
	"ridership/internal/validation"
)

// SaveData writes df to path as CSV with a header row, or as a workbook when path
// ends in .xlsx. An existing file is overwritten and the parent directory is created.
func SaveData(df dataframe.DataFrame, path string) error {
	return NewSaver(nil).Save(df, path)
}

// Saver persists cleaned tables
type Saver struct {
	csv       *CSVWriter
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewSaver creates a saver that logs to logger, or slog.Default when nil
func NewSaver(logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Saver{
		csv:       NewCSVWriter(logger),
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}
}

// Save writes df to path
func (s *Saver) Save(df dataframe.DataFrame, path string) error {
	if df.Err != nil {
		return apperrors.NewSchemaError("cannot save an invalid table", df.Err)
	}

	if err := s.validator.ValidateOutputDirectory(filepath.Dir(path)); err != nil {
		return err
	}

	records := df.Records()
	headers, rows := records[0], records[1:]

	var err error
	if validation.IsExcel(path) {
		err = writeExcel(path, headers, rows)
	} else {
		err = s.csv.WriteCSV(path, WriteOptions{
			Headers: headers,
			Records: rows,
		})
	}
	if err != nil {
		return err
	}

	s.logger.Info("Saved table",
		slog.String("file", path),
		slog.Int("rows", len(rows)),
		slog.Int("columns", len(headers)))

	return nil
}
