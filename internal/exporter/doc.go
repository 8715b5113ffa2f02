// Package exporter writes ridership tables to disk.
//
// Saver / SaveData: persists a cleaned gota DataFrame as CSV (header row first, dates
// already formatted as YYYY-MM-DD) or as an .xlsx workbook, overwriting any existing file.
//
// CSVWriter: whole-file CSV writes for the Saver, and a StreamWriter that the scraper
// flushes page by page so partial downloads survive an abort.
//
// Example usage:
//
//	if err := exporter.SaveData(cleaned, "data/processed/ridership_cleaned.csv"); err != nil {
//	    return err
//	}
//
//	stream, err := exporter.NewCSVWriter(logger).CreateStreamWriter("data/raw/ridership.csv", nil)
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
package exporter
