package math

import (
	"math"
)

// CalculatePercentageGainOrLoss returns the percentage rise over a certain
// period
func CalculatePercentageGainOrLoss(priceNow, priceThen float64) float64 {
	return (priceNow - priceThen) / priceThen * 100
}

// SampleStandardDeviation standard deviation is a statistic that
// measures the dispersion of a dataset relative to its mean and
// is calculated as the square root of the variance
func SampleStandardDeviation(vals []float64) float64 {
	if len(vals) <= 1 {
		return 0
	}
	mean := ArithmeticAverage(vals)
	var combined float64
	for i := range vals {
		combined += math.Pow(vals[i]-mean, 2)
	}
	avg := combined / (float64(len(vals)) - 1)
	return math.Sqrt(avg)
}

// ArithmeticAverage is the basic form of calculating an average.
// Divide the sum of all values by the length of values
func ArithmeticAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumOfValues float64
	for x := range values {
		sumOfValues += values[x]
	}
	return sumOfValues / float64(len(values))
}

// CalculateSharpeRatio returns sharpe ratio of backtest compared to risk-free
func CalculateSharpeRatio(movementPerCandle []float64, riskFreeRate, average float64) float64 {
	if len(movementPerCandle) <= 1 {
		return 0
	}
	excessReturns := make([]float64, len(movementPerCandle))
	for i := range movementPerCandle {
		excessReturns[i] = movementPerCandle[i] - riskFreeRate
	}
	standardDeviation := SampleStandardDeviation(excessReturns)
	if standardDeviation == 0 {
		return 0
	}
	return (average - riskFreeRate) / standardDeviation
}

// MaxDrawdown returns the largest peak to trough decline of a value series
// as a fraction of the peak. Non-positive peaks are ignored
func MaxDrawdown(values []float64) float64 {
	var peak, drawdown float64
	for i := range values {
		if values[i] > peak {
			peak = values[i]
			continue
		}
		if peak <= 0 {
			continue
		}
		if d := (peak - values[i]) / peak; d > drawdown {
			drawdown = d
		}
	}
	return drawdown
}
