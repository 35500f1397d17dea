package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 29, d.Day())
	assert.Equal(t, "2024-02-29", d.String())

	_, err = Parse("29/02/2024")
	assert.ErrorContains(t, err, "invalid date")
}

func TestWithin(t *testing.T) {
	start := MustParse("2024-01-01")
	end := MustParse("2024-01-31")

	tests := []struct {
		name string
		day  Date
		want bool
	}{
		{"first day counts", MustParse("2024-01-01"), true},
		{"last day counts", MustParse("2024-01-31"), true},
		{"middle of the window", MustParse("2024-01-15"), true},
		{"day before the window", MustParse("2023-12-31"), false},
		{"day after the window", MustParse("2024-02-01"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.day.Within(start, end))
		})
	}
}

func TestAddDaysNormalizes(t *testing.T) {
	d := MustParse("2024-01-31").AddDays(1)
	assert.Equal(t, "2024-02-01", d.String())

	d = MustParse("2024-12-31").AddDays(1)
	assert.Equal(t, "2025-01-01", d.String())
}

func TestOfDropsTimeOfDay(t *testing.T) {
	d := Of(time.Date(2024, time.March, 5, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, MustParse("2024-03-05"), d)
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	encoded, err := json.Marshal(payload{Date: MustParse("2024-01-10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-10"}`, string(encoded))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-02"}`), &decoded))
	assert.Equal(t, MustParse("2024-06-02"), decoded.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"June 2"}`), &decoded))
}

func TestIsZero(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.False(t, MustParse("2024-01-01").IsZero())
}
