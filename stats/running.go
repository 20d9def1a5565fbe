// Package stats has the small amount of statistics the self-play runner
// reports: a running mean and confidence intervals for win rates.
package stats

import "math"

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Running keeps a mean and variance over a stream of values (Welford).
type Running struct {
	n    int
	mean float64
	m2   float64
}

func (r *Running) Push(v float64) {
	r.n++
	delta := v - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (v - r.mean)
}

func (r *Running) N() int {
	return r.n
}

func (r *Running) Mean() float64 {
	return r.mean
}

// Variance is the sample variance; 0 until two values are pushed.
func (r *Running) Variance() float64 {
	if r.n < 2 {
		return 0
	}
	return r.m2 / float64(r.n-1)
}

func (r *Running) Stdev() float64 {
	return math.Sqrt(r.Variance())
}

// StandardError is the standard error of the mean.
func (r *Running) StandardError() float64 {
	if r.n == 0 {
		return 0
	}
	return math.Sqrt(r.Variance() / float64(r.n))
}
