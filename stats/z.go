package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZVal returns the two-tailed Z-value for a confidence level given in
// percent, e.g. 95.
func ZVal(confidence float64) float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1}
	return dist.Quantile((1 + confidence/100) / 2)
}

// WinRate returns the observed rate wins/games and the half-width of its
// normal-approximation interval at the given confidence. Draws count as
// half a win.
func WinRate(wins, draws, games int, confidence float64) (rate, margin float64) {
	if games == 0 {
		return 0, 0
	}
	n := float64(games)
	rate = (float64(wins) + float64(draws)/2) / n
	margin = ZVal(confidence) * math.Sqrt(rate*(1-rate)/n)
	return rate, margin
}
