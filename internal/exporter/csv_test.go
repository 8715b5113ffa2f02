package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ridership/internal/errors"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name     string
		options  WriteOptions
		expected [][]string
	}{
		{
			name: "headers and records",
			options: WriteOptions{
				Headers: []string{"route", "ridership"},
				Records: [][]string{{"80", "29000"}, {"CityLink Blue", "300000"}},
			},
			expected: [][]string{{"route", "ridership"}, {"80", "29000"}, {"CityLink Blue", "300000"}},
		},
		{
			name: "cells needing quotes",
			options: WriteOptions{
				Headers: []string{"route"},
				Records: [][]string{{"CityLink Blue, CityLink Gold"}, {"say \"hi\""}},
			},
			expected: [][]string{{"route"}, {"CityLink Blue, CityLink Gold"}, {"say \"hi\""}},
		},
		{
			name:     "header only",
			options:  WriteOptions{Headers: []string{"route", "ridership"}},
			expected: [][]string{{"route", "ridership"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "out.csv")

			require.NoError(t, NewCSVWriter(nil).WriteCSV(path, tt.options))
			assert.Equal(t, tt.expected, readCSV(t, path))
		})
	}
}

func TestCSVWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := NewCSVWriter(nil)

	require.NoError(t, w.WriteCSV(path, WriteOptions{Headers: []string{"a"}, Records: [][]string{{"1"}, {"2"}, {"3"}}}))
	require.NoError(t, w.WriteCSV(path, WriteOptions{Headers: []string{"b"}, Records: [][]string{{"9"}}}))

	assert.Equal(t, [][]string{{"b"}, {"9"}}, readCSV(t, path))
}

func TestCSVWriter_DirectoryBlocked(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := NewCSVWriter(nil).WriteCSV(filepath.Join(blocker, "out.csv"), WriteOptions{Headers: []string{"a"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFilesystem))
}

func TestStreamWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw", "stream.csv")

	stream, err := NewCSVWriter(nil).CreateStreamWriter(path, []string{"Route", "Ridership"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"80", "29000"}))
	require.NoError(t, stream.Flush())

	// Flushed rows are visible before Close.
	assert.Equal(t, [][]string{{"Route", "Ridership"}, {"80", "29000"}}, readCSV(t, path))

	require.NoError(t, stream.WriteRecord([]string{"CityLink Blue", "300000"}))
	assert.Equal(t, 2, stream.Rows())
	require.NoError(t, stream.Close())

	records := readCSV(t, path)
	assert.Len(t, records, 3)
	assert.Equal(t, []string{"CityLink Blue", "300000"}, records[2])
}

func TestStreamWriter_NoHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.csv")

	stream, err := NewCSVWriter(nil).CreateStreamWriter(path, nil)
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"a", "b"}))
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b", strings.TrimSpace(string(content)))
}
