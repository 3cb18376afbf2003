package kline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalShort(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		in  Interval
		out string
	}{
		{OneMin, "1m"},
		{FifteenMin, "15m"},
		{OneHour, "1h"},
		{OneDay, "24h"},
		{Interval(90 * time.Second), "1m30s"},
	} {
		assert.Equal(t, tc.out, tc.in.Short())
	}
}

func TestExchangeCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1h", OneHour.ExchangeCode())
	assert.Equal(t, "1d", OneDay.ExchangeCode())
	assert.Empty(t, Interval(time.Second).ExchangeCode())
}

func TestParseInterval(t *testing.T) {
	t.Parallel()
	i, err := ParseInterval("15m")
	require.NoError(t, err)
	assert.Equal(t, FifteenMin, i)

	i, err = ParseInterval("1M")
	require.NoError(t, err)
	assert.Equal(t, OneMonth, i)

	i, err = ParseInterval("90m")
	require.NoError(t, err)
	assert.Equal(t, Interval(90*time.Minute), i)

	_, err = ParseInterval("fortnight")
	assert.ErrorIs(t, err, ErrUnsupportedInterval)

	_, err = ParseInterval("-5m")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestMultiple(t *testing.T) {
	t.Parallel()
	m, err := OneHour.Multiple(OneMin)
	require.NoError(t, err)
	assert.Equal(t, int64(60), m)

	_, err = FiveMin.Multiple(ThreeMin)
	assert.ErrorIs(t, err, ErrNotMultiple)

	_, err = OneMin.Multiple(0)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, OneMin.Validate())
	assert.ErrorIs(t, Interval(0).Validate(), ErrInvalidInterval)
}

func TestTotalCandlesPerInterval(t *testing.T) {
	t.Parallel()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(60), TotalCandlesPerInterval(start, start.Add(time.Hour), OneMin))
	assert.Zero(t, TotalCandlesPerInterval(start, start.Add(time.Hour), 0))
}
