package csv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreationDate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{name: "date and time", input: "01/03/2024 10:30", expected: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "date only", input: "15/01/2024", expected: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "single digit components", input: "1/3/2024", expected: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "leap day", input: "29/02/2024 08:00", expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "ISO layout rejected", input: "2024-03-01", expectError: true},
		{name: "month out of range", input: "01/13/2024", expectError: true},
		{name: "day out of range for month", input: "31/02/2024", expectError: true},
		{name: "non-numeric", input: "fecha mala", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCreationDate(tt.input, time.UTC)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
		})
	}
}

func TestParseCreationDateLocation(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	got, err := ParseCreationDate("01/03/2024 23:59", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 0, got.Hour())
}
