package convert

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DecimalFromString parses a string into a decimal, returning a descriptive
// error on failure
func DecimalFromString(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not convert value: %s Error: %w", raw, err)
	}
	return d, nil
}

// Int64FromString format
func Int64FromString(raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse as int64: %s %w", raw, err)
	}
	return n, nil
}

// TimeFromUnixMillis converts a millisecond unix timestamp to a UTC time
func TimeFromUnixMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// TimeFromUnixMillisString parses a millisecond unix timestamp string
func TimeFromUnixMillisString(raw string) (time.Time, error) {
	ms, err := Int64FromString(raw)
	if err != nil {
		return time.Time{}, err
	}
	return TimeFromUnixMillis(ms), nil
}

// BoolPtr takes in boolen condition and returns pointer version of it
func BoolPtr(condition bool) *bool {
	b := condition
	return &b
}
