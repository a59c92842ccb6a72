package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuarter(t *testing.T) {
	q, err := ParseQuarter("q2")
	require.NoError(t, err)
	assert.Equal(t, Q2, q)

	q, err = ParseQuarter(" Q4 ")
	require.NoError(t, err)
	assert.Equal(t, Q4, q)

	_, err = ParseQuarter("q5")
	assert.Error(t, err)
	_, err = ParseQuarter("")
	assert.Error(t, err)
}

func TestQuarterOfMonth(t *testing.T) {
	tests := []struct {
		month    string
		fiscal   bool
		expected Quarter
	}{
		{"Jan", false, Q1},
		{"Mar", false, Q1},
		{"Apr", false, Q2},
		{"Jul", false, Q3},
		{"Dec", false, Q4},
		{"Jul", true, Q1},
		{"Oct", true, Q2},
		{"Jan", true, Q3},
		{"Apr", true, Q4},
	}
	for _, tt := range tests {
		q, ok := QuarterOfMonth(tt.month, tt.fiscal)
		require.True(t, ok, tt.month)
		assert.Equal(t, tt.expected, q, "%s fiscal=%v", tt.month, tt.fiscal)
	}

	_, ok := QuarterOfMonth("Foo", false)
	assert.False(t, ok)
}

func TestQuarterOfFilename(t *testing.T) {
	assert.Equal(t, Q2, QuarterOfFilename("2021-Apr-15-MSFT.txt", false))
	assert.Equal(t, Q3, QuarterOfFilename("2021-Jul-20-AAPL.txt", false))
	assert.Equal(t, Q1, QuarterOfFilename("2021-Jul-20-AAPL.txt", true))
	assert.Equal(t, Quarter(""), QuarterOfFilename("notes.txt", false))
}

func TestQueryFilterComplete(t *testing.T) {
	assert.True(t, QueryFilter{Company: "MSFT", Year: "2021", Quarter: Q2}.Complete())
	assert.False(t, QueryFilter{Company: "MSFT", Year: "2021"}.Complete())
	assert.False(t, QueryFilter{Year: "2021", Quarter: Q2}.Complete())
	assert.False(t, QueryFilter{}.Complete())
}
