package exporter

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ridership/internal/dataprocessing"
	apperrors "ridership/internal/errors"
)

func cleanedFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"CityLink Blue", "80", "80"}, series.String, "route"),
		series.New([]string{"2023-04-01", "2020-02-01", "2020-03-01"}, series.String, "date"),
		series.New([]string{"2023-04-30", "2020-02-29", "2020-03-31"}, series.String, "date_end"),
		series.New([]int{300000, 29000, 31000}, series.Int, "ridership"),
		series.New([]int{30, 29, 31}, series.Int, "num_days_in_month"),
		series.New([]string{"10000", "1000", "1000"}, series.String, "ridership_per_day"),
	)
}

func TestSaveData_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "ridership_cleaned.csv")

	require.NoError(t, SaveData(cleanedFrame(), path))

	assert.Equal(t, [][]string{
		{"route", "date", "date_end", "ridership", "num_days_in_month", "ridership_per_day"},
		{"CityLink Blue", "2023-04-01", "2023-04-30", "300000", "30", "10000"},
		{"80", "2020-02-01", "2020-02-29", "29000", "29", "1000"},
		{"80", "2020-03-01", "2020-03-31", "31000", "31", "1000"},
	}, readCSV(t, path))
}

func TestSaveData_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "round.csv")
	original := cleanedFrame()

	require.NoError(t, SaveData(original, path))

	loaded, err := dataprocessing.LoadData(path)
	require.NoError(t, err)

	assert.Equal(t, original.Names(), loaded.Names())
	assert.Equal(t, original.Nrow(), loaded.Nrow())
	// Values survive modulo type detection on reload.
	assert.Equal(t, original.Records(), loaded.Records())
}

func TestSaveData_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale,content\n1,2\n3,4\n5,6\n7,8\n"), 0644))

	require.NoError(t, SaveData(cleanedFrame(), path))

	records := readCSV(t, path)
	assert.Len(t, records, 4)
	assert.Equal(t, "route", records[0][0])
}

func TestSaveData_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ridership.xlsx")

	require.NoError(t, SaveData(cleanedFrame(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"route", "date", "date_end", "ridership", "num_days_in_month", "ridership_per_day"}, rows[0])
	assert.Equal(t, []string{"CityLink Blue", "2023-04-01", "2023-04-30", "300000", "30", "10000"}, rows[1])

	loaded, err := dataprocessing.LoadData(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Nrow())
}

func TestSaveData_InvalidFrame(t *testing.T) {
	err := SaveData(dataframe.DataFrame{Err: assert.AnError}, filepath.Join(t.TempDir(), "out.csv"))

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
}

func TestSaveData_UnwritableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	err := SaveData(cleanedFrame(), filepath.Join(dir, "out.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFilesystem))
}
