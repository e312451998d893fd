package testutil

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// NaN marks a missing value in expected vectors.
var NaN = math.NaN()

// AssertFloats asserts that actual matches expected elementwise within delta, treating a NaN cell as
// equal to NaN.
func AssertFloats(t *testing.T, expected, actual []float64, delta float64) {
	t.Helper()
	if !assert.Equal(t, len(expected), len(actual), "length mismatch") {
		return
	}
	for i := range expected {
		if math.IsNaN(expected[i]) {
			assert.True(t, math.IsNaN(actual[i]), "expected NaN at position %d, got %v", i, actual[i])
		} else {
			assert.InDelta(t, expected[i], actual[i], delta, "at position %d", i)
		}
	}
}

// Seq returns the values 0 through n-1.
func Seq(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)
	}
	return values
}

// Repeat returns n copies of v.
func Repeat(v float64, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return values
}

// Scaled returns values multiplied elementwise by factor.
func Scaled(values []float64, factor float64) []float64 {
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v * factor
	}
	return scaled
}

// Days returns n consecutive daily timestamps starting at the given date, in UTC.
func Days(year int, month time.Month, day, n int) []time.Time {
	times := make([]time.Time, n)
	for i := range times {
		times[i] = time.Date(year, month, day+i, 0, 0, 0, 0, time.UTC)
	}
	return times
}

// BusinessDays rewinds a number of business days, skipping Saturdays and Sundays.
type BusinessDays int

func (b BusinessDays) Back(t time.Time) time.Time {
	for i := 0; i < int(b); i++ {
		t = t.AddDate(0, 0, -1)
		for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}
