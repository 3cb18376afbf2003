package chart

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/turbo/newton/exchanges/kline"
)

func isFlat(err error) bool {
	return errors.Is(err, ErrFlatWindow)
}

// FillGaps returns the candles sorted by open time with every missing interval
// padded by a flat, zero volume candle at the previous close price
func FillGaps(interval kline.Interval, candles []Candle) ([]Candle, error) {
	if err := interval.Validate(); err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, nil
	}
	sorted := slices.Clone(candles)
	slices.SortStableFunc(sorted, func(a, b Candle) int {
		return a.OpenTime.Compare(b.OpenTime)
	})
	step := interval.Duration()
	resp := make([]Candle, 0, len(sorted))
	resp = append(resp, sorted[0])
	for i := 1; i < len(sorted); i++ {
		prev := resp[len(resp)-1]
		for t := prev.CloseTime; t.Add(step).Compare(sorted[i].OpenTime) <= 0; t = t.Add(step) {
			resp = append(resp, Candle{
				OpenTime:            t,
				CloseTime:           t.Add(step),
				Open:                prev.Close,
				High:                prev.Close,
				Low:                 prev.Close,
				Close:               prev.Close,
				Volume:              decimal.Zero,
				QuoteVolume:         decimal.Zero,
				TakerBuyBaseVolume:  decimal.Zero,
				TakerBuyQuoteVolume: decimal.Zero,
			})
		}
		resp = append(resp, sorted[i])
	}
	return resp, nil
}
