package chart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbo/newton/common"
	"github.com/turbo/newton/exchanges/kline"
)

var testStart = time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

func candleAt(i int, closePrice float64) Candle {
	open := testStart.Add(time.Duration(i) * time.Minute)
	p := decimal.NewFromFloat(closePrice)
	return Candle{
		OpenTime:            open,
		CloseTime:           open.Add(time.Minute),
		Open:                p,
		High:                p.Add(decimal.NewFromInt(1)),
		Low:                 p.Sub(decimal.NewFromInt(1)),
		Close:               p,
		Volume:              decimal.NewFromInt(int64(i + 1)),
		QuoteVolume:         decimal.NewFromInt(int64(i + 1)).Mul(p),
		Trades:              int64(i + 1),
		TakerBuyBaseVolume:  decimal.NewFromInt(1),
		TakerBuyQuoteVolume: p,
	}
}

func ramp(n int, from, step float64) []Candle {
	resp := make([]Candle, n)
	for i := range resp {
		resp[i] = candleAt(i, from+float64(i)*step)
	}
	return resp
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(0, nil)
	assert.ErrorIs(t, err, kline.ErrInvalidInterval)

	candles := ramp(5, 10, 1)
	shuffled := []Candle{candles[3], candles[0], candles[4], candles[1], candles[2]}
	c, err := New(kline.OneMin, shuffled)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
	for i := range candles {
		got, err := c.At(i)
		require.NoError(t, err)
		assert.True(t, got.OpenTime.Equal(candles[i].OpenTime))
	}

	_, err = New(kline.OneMin, []Candle{candles[0], candles[2]})
	assert.ErrorIs(t, err, ErrOutOfOrderCandle)
}

func TestAppend(t *testing.T) {
	t.Parallel()
	var nilChart *Chart
	assert.ErrorIs(t, nilChart.Append(candleAt(0, 1)), common.ErrNilPointer)

	c, err := New(kline.OneMin, nil)
	require.NoError(t, err)
	require.NoError(t, c.Append(candleAt(0, 10)), "empty chart must accept any candle")
	require.NoError(t, c.Append(candleAt(1, 11)))
	assert.Equal(t, 2, c.Len())

	replacement := candleAt(1, 12)
	require.NoError(t, c.Append(replacement), "same open time must replace")
	assert.Equal(t, 2, c.Len())
	last, err := c.Last()
	require.NoError(t, err)
	assert.True(t, last.Close.Equal(decimal.NewFromInt(12)))

	before := c.Candles()
	err = c.Append(candleAt(5, 99))
	assert.ErrorIs(t, err, ErrOutOfOrderCandle, "gap must be rejected")
	err = c.Append(candleAt(0, 99))
	assert.ErrorIs(t, err, ErrOutOfOrderCandle, "older candle must be rejected")
	assert.Equal(t, before, c.Candles(), "rejected appends must not alter the chart")

	bad := candleAt(2, 1)
	bad.CloseTime = bad.OpenTime
	assert.ErrorIs(t, c.Append(bad), ErrInvalidCandle)
}

func TestAt(t *testing.T) {
	t.Parallel()
	c, err := New(kline.OneMin, ramp(3, 1, 1))
	require.NoError(t, err)
	_, err = c.At(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = c.At(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	empty, err := New(kline.OneMin, nil)
	require.NoError(t, err)
	_, err = empty.Last()
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestCandlesIsCopy(t *testing.T) {
	t.Parallel()
	c, err := New(kline.OneMin, ramp(3, 1, 1))
	require.NoError(t, err)
	cp := c.Candles()
	cp[0].Close = decimal.NewFromInt(1000)
	first, err := c.At(0)
	require.NoError(t, err)
	assert.True(t, first.Close.Equal(decimal.NewFromInt(1)))
}

func TestMerge(t *testing.T) {
	t.Parallel()
	_, err := Merge()
	assert.ErrorIs(t, err, ErrEmptyRange)

	candles := []Candle{candleAt(0, 10), candleAt(1, 20), candleAt(2, 5)}
	m, err := Merge(candles...)
	require.NoError(t, err)
	assert.True(t, m.Open.Equal(decimal.NewFromInt(10)))
	assert.True(t, m.Close.Equal(decimal.NewFromInt(5)))
	assert.True(t, m.High.Equal(decimal.NewFromInt(21)))
	assert.True(t, m.Low.Equal(decimal.NewFromInt(4)))
	assert.True(t, m.Volume.Equal(decimal.NewFromInt(6)))
	assert.True(t, m.TakerBuyBaseVolume.Equal(decimal.NewFromInt(3)))
	assert.True(t, m.TakerBuyQuoteVolume.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, int64(6), m.Trades)
	assert.True(t, m.OpenTime.Equal(candles[0].OpenTime))
	assert.True(t, m.CloseTime.Equal(candles[2].CloseTime))

	_, err = Merge(candleAt(0, 1), candleAt(2, 1))
	assert.ErrorIs(t, err, ErrNonContiguous)
}

func TestMergeAssociative(t *testing.T) {
	t.Parallel()
	candles := []Candle{candleAt(0, 10), candleAt(1, 7), candleAt(2, 15), candleAt(3, 12), candleAt(4, 3)}
	for split := 1; split < len(candles)-1; split++ {
		for split2 := split + 1; split2 < len(candles); split2++ {
			a, b, c := candles[:split], candles[split:split2], candles[split2:]

			ab, err := Merge(a...)
			require.NoError(t, err)
			bm, err := Merge(b...)
			require.NoError(t, err)
			left, err := Merge(ab, bm)
			require.NoError(t, err)
			cm, err := Merge(c...)
			require.NoError(t, err)
			left, err = Merge(left, cm)
			require.NoError(t, err)

			bc, err := Merge(append(append([]Candle{}, b...), c...)...)
			require.NoError(t, err)
			am, err := Merge(a...)
			require.NoError(t, err)
			right, err := Merge(am, bc)
			require.NoError(t, err)

			assert.True(t, left.High.Equal(right.High))
			assert.True(t, left.Low.Equal(right.Low))
			assert.True(t, left.Volume.Equal(right.Volume))
			assert.Equal(t, left.Trades, right.Trades)
			assert.True(t, left.Open.Equal(right.Open))
			assert.True(t, left.Close.Equal(right.Close))
		}
	}
}

func TestMergeRange(t *testing.T) {
	t.Parallel()
	c, err := New(kline.OneMin, ramp(10, 1, 1))
	require.NoError(t, err)
	m, err := c.MergeRange(2, 5)
	require.NoError(t, err)
	assert.True(t, m.Open.Equal(decimal.NewFromInt(3)))
	assert.True(t, m.Close.Equal(decimal.NewFromInt(5)))

	_, err = c.MergeRange(3, 3)
	assert.ErrorIs(t, err, ErrEmptyRange)
	_, err = c.MergeRange(5, 11)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestAggregate(t *testing.T) {
	t.Parallel()
	c, err := New(kline.OneMin, ramp(60, 1, 1))
	require.NoError(t, err)

	agg, err := c.Aggregate(kline.FifteenMin, c.Len(), 4)
	require.NoError(t, err)
	require.Equal(t, 4, agg.Len())
	assert.Equal(t, kline.FifteenMin, agg.Interval())
	first, err := agg.At(0)
	require.NoError(t, err)
	assert.True(t, first.Open.Equal(decimal.NewFromInt(1)))
	assert.True(t, first.Close.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, time.Duration(kline.FifteenMin), first.CloseTime.Sub(first.OpenTime))

	agg, err = c.Aggregate(kline.FifteenMin, 50, 2)
	require.NoError(t, err)
	require.Equal(t, 2, agg.Len())
	first, err = agg.At(0)
	require.NoError(t, err)
	assert.True(t, first.Open.Equal(decimal.NewFromInt(21)), "window must end right before endExclusive")
	last, err := agg.Last()
	require.NoError(t, err)
	assert.True(t, last.Close.Equal(decimal.NewFromInt(50)))

	// three output bars consume 45 base candles
	agg, err = c.Aggregate(kline.FifteenMin, c.Len(), 3)
	require.NoError(t, err)
	require.Equal(t, 3, agg.Len(), "window size counts output bars")
	first, err = agg.At(0)
	require.NoError(t, err)
	assert.True(t, first.Open.Equal(decimal.NewFromInt(16)))

	// only 20 candles exist before index 20, one full bar and a dropped remainder
	agg, err = c.Aggregate(kline.FifteenMin, 20, 10)
	require.NoError(t, err)
	require.Equal(t, 1, agg.Len())
	first, err = agg.At(0)
	require.NoError(t, err)
	assert.True(t, first.Close.Equal(decimal.NewFromInt(15)))

	_, err = c.Aggregate(kline.Interval(90*time.Second), c.Len(), 1)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	_, err = c.Aggregate(kline.FifteenMin, 61, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = c.Aggregate(kline.FifteenMin, 60, -1)
	assert.ErrorIs(t, err, ErrInvalidBarCount)
}

func TestAggregateByBaseIsIdentity(t *testing.T) {
	t.Parallel()
	c, err := New(kline.OneMin, ramp(30, 5, 0.5))
	require.NoError(t, err)
	agg, err := c.Aggregate(kline.OneMin, c.Len(), c.Len())
	require.NoError(t, err)
	assert.Equal(t, c.Interval(), agg.Interval())
	assert.Equal(t, c.Candles(), agg.Candles())
}

func TestResample(t *testing.T) {
	t.Parallel()
	c, err := New(kline.OneMin, ramp(125, 1, 1))
	require.NoError(t, err)
	hourly, err := c.Resample(kline.OneHour)
	require.NoError(t, err)
	require.Equal(t, 2, hourly.Len())
	last, err := hourly.Last()
	require.NoError(t, err)
	assert.True(t, last.Close.Equal(decimal.NewFromInt(120)))
}

func TestFillGaps(t *testing.T) {
	t.Parallel()
	_, err := FillGaps(0, nil)
	assert.ErrorIs(t, err, kline.ErrInvalidInterval)

	resp, err := FillGaps(kline.OneMin, nil)
	require.NoError(t, err)
	assert.Empty(t, resp)

	resp, err = FillGaps(kline.OneMin, []Candle{candleAt(4, 40), candleAt(0, 10), candleAt(1, 11)})
	require.NoError(t, err)
	require.Len(t, resp, 5)
	for i := 2; i < 4; i++ {
		assert.True(t, resp[i].OpenTime.Equal(testStart.Add(time.Duration(i)*time.Minute)))
		assert.True(t, resp[i].Close.Equal(decimal.NewFromInt(11)))
		assert.True(t, resp[i].Volume.IsZero())
	}
	_, err = New(kline.OneMin, resp)
	assert.NoError(t, err, "filled candles must form a valid chart")
}
