package convert

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalFromString(t *testing.T) {
	t.Parallel()
	d, err := DecimalFromString("1.41421356")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1.41421356")))

	_, err = DecimalFromString("   something unconvertible  ")
	assert.Error(t, err)
}

func TestInt64FromString(t *testing.T) {
	t.Parallel()
	n, err := Int64FromString("1337")
	require.NoError(t, err)
	assert.Equal(t, int64(1337), n)

	_, err = Int64FromString("13.37")
	assert.Error(t, err)
}

func TestTimeFromUnixMillisString(t *testing.T) {
	t.Parallel()
	tm, err := TimeFromUnixMillisString("1544207520000")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 12, 7, 18, 32, 0, 0, time.UTC), tm)

	_, err = TimeFromUnixMillisString("nope")
	assert.Error(t, err)
}

func TestBoolPtr(t *testing.T) {
	t.Parallel()
	y := BoolPtr(true)
	assert.True(t, *y)
	n := BoolPtr(false)
	assert.False(t, *n)
}
