package scraper

import "strings"

// NoDataText marks an empty cell in the ridership table
const NoDataText = "No Data"

// FormatCell trims surrounding whitespace, escapes embedded newlines as a literal \n
// and blanks "No Data" cells.
func FormatCell(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	text = strings.ReplaceAll(text, "\n", `\n`)
	if text == NoDataText {
		return ""
	}
	return text
}

// TableRows formats every cell of a scraped table. The first row is the header and
// is dropped unless includeHeader is set.
func TableRows(table [][]string, includeHeader bool) [][]string {
	rows := make([][]string, 0, len(table))
	for i, cells := range table {
		if i == 0 && !includeHeader {
			continue
		}
		row := make([]string, len(cells))
		for j, cell := range cells {
			row[j] = FormatCell(cell)
		}
		rows = append(rows, row)
	}
	return rows
}

// FilterOptions drops blank and repeated <select> option values, keeping order
func FilterOptions(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
