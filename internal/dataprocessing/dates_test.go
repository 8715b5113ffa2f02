package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ridership/internal/errors"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-04-01", date(2023, time.April, 1)},
		{" 2020-02-01 ", date(2020, time.February, 1)},
		{"2020-02-01 00:00:00", date(2020, time.February, 1)},
		{"2/1/2020", date(2020, time.February, 1)},
		{"02/01/2020", date(2020, time.February, 1)},
		{"2020/03/01", date(2020, time.March, 1)},
		{"April 2023", date(2023, time.April, 1)},
		{"Feb 2024", date(2024, time.February, 1)},
		{"2020-03", date(2020, time.March, 1)},
		{"Jan 15, 2021", date(2021, time.January, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-date", "2020-13-01", "2021-02-30"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDate(in)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidDate))
		})
	}
}
