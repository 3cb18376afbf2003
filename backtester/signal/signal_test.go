package signal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTrendSignal(t *testing.T) {
	t.Parallel()
	low, high := decimal.NewFromInt(30), decimal.NewFromInt(70)
	assert.Equal(t, Bearish, TrendSignal(decimal.NewFromInt(10), low, high))
	assert.Equal(t, Neutral, TrendSignal(decimal.NewFromInt(30), low, high))
	assert.Equal(t, Neutral, TrendSignal(decimal.NewFromInt(50), low, high))
	assert.Equal(t, Neutral, TrendSignal(decimal.NewFromInt(70), low, high))
	assert.Equal(t, Bullish, TrendSignal(decimal.NewFromInt(100), low, high))

	single := decimal.NewFromInt(50)
	assert.Equal(t, Bearish, TrendSignal(decimal.NewFromInt(49), single, single))
	assert.Equal(t, Neutral, TrendSignal(single, single, single))
	assert.Equal(t, Bullish, TrendSignal(decimal.NewFromInt(51), single, single))
}

func TestMapToPositionExtremes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Position{10, 0}, MapToPosition(Triple{Bullish, Bullish, Bullish}))
	assert.Equal(t, Position{0, 10}, MapToPosition(Triple{Bearish, Bearish, Bearish}))
	assert.Equal(t, Position{5, 5}, MapToPosition(Triple{Neutral, Bullish, Bearish}))
	assert.Equal(t, Position{8, 2}, MapToPosition(Triple{Bullish, Neutral, Bearish}))
	assert.Equal(t, Position{4, 6}, MapToPosition(Triple{Bearish, Bullish, Neutral}))
}

func TestMapToPositionTotal(t *testing.T) {
	t.Parallel()
	trends := []Trend{Bearish, Neutral, Bullish}
	for _, s := range trends {
		for _, m := range trends {
			for _, l := range trends {
				p := MapToPosition(Triple{s, m, l})
				assert.Equal(t, int64(10), p.Base+p.Quote, "triple %s", Triple{s, m, l})
				assert.GreaterOrEqual(t, p.Base, int64(0))
			}
		}
	}
}

func TestMapToPositionMonotone(t *testing.T) {
	t.Parallel()
	trends := []Trend{Bearish, Neutral, Bullish}
	for _, l := range trends {
		for i := 1; i < len(trends); i++ {
			for _, m := range trends {
				lower := MapToPosition(Triple{trends[i-1], m, l})
				higher := MapToPosition(Triple{trends[i], m, l})
				assert.LessOrEqual(t, lower.Base, higher.Base)
			}
			for _, s := range trends {
				lower := MapToPosition(Triple{s, trends[i-1], l})
				higher := MapToPosition(Triple{s, trends[i], l})
				assert.LessOrEqual(t, lower.Base, higher.Base)
			}
		}
	}
}

func TestMapToPositionPanics(t *testing.T) {
	t.Parallel()
	assert.PanicsWithError(t, "unmapped signal triple: trend(2)/neutral/neutral", func() {
		MapToPosition(Triple{Short: 2})
	})
}

func TestStrings(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "bullish/neutral/bearish", Triple{Bullish, Neutral, Bearish}.String())
	assert.Equal(t, "6/4", Position{6, 4}.String())
}
