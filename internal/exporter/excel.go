package exporter

import (
	"strconv"

	"github.com/xuri/excelize/v2"

	apperrors "ridership/internal/errors"
)

// writeExcel stores headers and rows on the first sheet of a new workbook. Integer
// cells are written as numbers so spreadsheet formulas work on them.
func writeExcel(path string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	if err := setRow(f, sheet, 1, headers, false); err != nil {
		return apperrors.NewFilesystemError("write headers to "+path, err)
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row, true); err != nil {
			return apperrors.NewFilesystemError("write row to "+path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewFilesystemError("save "+path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string, numeric bool) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
		if numeric {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				row[i] = n
			}
		}
	}
	return f.SetSheetRow(sheet, cell, &row)
}
