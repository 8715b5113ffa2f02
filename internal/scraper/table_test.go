package scraper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  80  ", "80"},
		{"No Data", ""},
		{" No Data ", ""},
		{"Express\nLink", `Express\nLink`},
		{"Express\r\nLink", `Express\nLink`},
		{"\nTrailing\n", "Trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCell(tt.in), "FormatCell(%q)", tt.in)
	}
}

func TestTableRows(t *testing.T) {
	table := [][]string{
		{"Route", "Ridership"},
		{"80", "No Data"},
		{"CityLink BLUE ", "300000"},
	}

	withHeader := TableRows(table, true)
	if diff := cmp.Diff([][]string{
		{"Route", "Ridership"},
		{"80", ""},
		{"CityLink BLUE", "300000"},
	}, withHeader); diff != "" {
		t.Errorf("TableRows with header mismatch (-want +got):\n%s", diff)
	}

	withoutHeader := TableRows(table, false)
	if diff := cmp.Diff(withHeader[1:], withoutHeader); diff != "" {
		t.Errorf("TableRows without header mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, TableRows(nil, true))
	assert.Empty(t, TableRows([][]string{{"Route"}}, false))
}

func TestFilterOptions(t *testing.T) {
	got := FilterOptions([]string{"", "2024", " 2023 ", "2024", "  "})
	assert.Equal(t, []string{"2024", "2023"}, got)
	assert.Empty(t, FilterOptions(nil))
}
