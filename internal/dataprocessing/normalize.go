package dataprocessing

import (
	"regexp"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanColumnName trims name, replaces each internal whitespace run with a single
// underscore and lowercases the result: "A 1" becomes "a_1", " B " becomes "b".
func CleanColumnName(name string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_"))
}

// DuplicateColumns returns the cleaned names that more than one header maps to, in
// order of first appearance. "Route" and "route " collide on "route". Blank headers
// are left to gota, which names them by position.
func DuplicateColumns(headers []string) []string {
	seen := make(map[string]int, len(headers))
	var dups []string
	for _, h := range headers {
		name := CleanColumnName(h)
		if name == "" {
			continue
		}
		seen[name]++
		if seen[name] == 2 {
			dups = append(dups, name)
		}
	}
	return dups
}

// CleanColumnNames returns a copy of df with every header passed through
// CleanColumnName and every string cell trimmed. Column count and order are kept.
// A DataFrame carrying an error is returned unchanged. Headers that clean to the
// same name give a frame whose Err is a SCHEMA error naming them.
func CleanColumnNames(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Err != nil {
		return df
	}

	names := df.Names()
	if dups := DuplicateColumns(names); len(dups) > 0 {
		return dataframe.DataFrame{Err: duplicateColumnsError(dups)}
	}
	cols := make([]series.Series, 0, len(names))
	for _, name := range names {
		col := df.Col(name)
		if col.Type() == series.String {
			col = trimStrings(col)
		}
		col.Name = CleanColumnName(name)
		cols = append(cols, col)
	}

	return dataframe.New(cols...)
}

// trimStrings returns a string series with surrounding whitespace removed from each cell
func trimStrings(s series.Series) series.Series {
	values := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		elem := s.Elem(i)
		if elem.IsNA() {
			values[i] = "NaN"
			continue
		}
		values[i] = strings.TrimSpace(elem.String())
	}
	return series.New(values, series.String, s.Name)
}
