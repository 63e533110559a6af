package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	loc := time.FixedZone("CAT", 2*60*60)
	planted := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 10, 16, 23, 30, 0, 0, loc)
	require.Equal(t, 45, DaysBetween(planted, now))
	require.Equal(t, -45, DaysBetween(now, planted))
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2024, 3, 2, 15, 4, 5, 6, time.UTC)
	require.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
}
