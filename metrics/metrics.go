/*
Copyright © 2023 the DSSATEval authors.
This file is part of DSSATEval.

DSSATEval is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

DSSATEval is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with DSSATEval.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package metrics scores simulated against measured values: NRMSE, mean
// percentage error, R² to the 1:1 line, and regression gain, grouped by
// variable, calibration, and treatment.
package metrics

import (
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/cropsci/dssateval"
)

// A Key identifies one metric group.
type Key struct {
	Variable   string
	Method     string
	ShortLabel string
	LongLabel  string
	Treatment  string
}

// A Score is the value of one metric for one group. Value is NaN when
// the group has too few valid pairs or the metric's denominator is zero.
type Score struct {
	Key
	N     int
	Value float64
}

// Normalization selects the denominator for NRMSE.
type Normalization int

const (
	// NormMean normalizes RMSE by the mean of the measured values.
	NormMean Normalization = iota
	// NormRange normalizes by max(measured) - min(measured).
	NormRange
	// NormStdDev normalizes by the standard deviation of the measured
	// values.
	NormStdDev
)

// pairs is the simulated/measured value pairs of one group, in input
// order. Pairs where either value is NaN are never added.
type pairs struct {
	key       Key
	sim, meas []float64
}

// collect groups observations, preserving first-seen group order and
// skipping pairs with missing values.
func collect(obs []dssateval.OverviewObs) []*pairs {
	byKey := make(map[Key]*pairs)
	var order []*pairs
	for _, o := range obs {
		if math.IsNaN(o.Simulated) || math.IsNaN(o.Measured) {
			continue
		}
		k := Key{o.Variable, o.Method, o.ShortLabel, o.LongLabel, o.Treatment}
		p, ok := byKey[k]
		if !ok {
			p = &pairs{key: k}
			byKey[k] = p
			order = append(order, p)
		}
		p.sim = append(p.sim, o.Simulated)
		p.meas = append(p.meas, o.Measured)
	}
	return order
}

// NRMSE computes the normalized root-mean-square error of each group.
func NRMSE(obs []dssateval.OverviewObs, norm Normalization) []Score {
	return score(obs, func(p *pairs) float64 {
		var sq float64
		for i := range p.sim {
			d := p.sim[i] - p.meas[i]
			sq += d * d
		}
		rmse := math.Sqrt(sq / float64(len(p.sim)))
		var denom float64
		switch norm {
		case NormMean:
			denom = mean(p.meas)
		case NormRange:
			min, max := p.meas[0], p.meas[0]
			for _, v := range p.meas {
				min = math.Min(min, v)
				max = math.Max(max, v)
			}
			denom = max - min
		case NormStdDev:
			denom = stddev(p.meas)
		}
		if denom == 0 {
			return math.NaN()
		}
		return rmse / denom
	})
}

// MPE computes the mean percentage error of each group. Pairs with a
// zero measured value are skipped.
func MPE(obs []dssateval.OverviewObs) []Score {
	return score(obs, func(p *pairs) float64 {
		var sum float64
		n := 0
		for i := range p.sim {
			if p.meas[i] == 0 {
				continue
			}
			sum += (p.sim[i] - p.meas[i]) / p.meas[i] * 100
			n++
		}
		if n == 0 {
			return math.NaN()
		}
		return sum / float64(n)
	})
}

// R2OneToOne computes the coefficient of determination of each group
// against the 1:1 line: 1 - Σ(sim-meas)² / Σ(meas-mean(meas))².
func R2OneToOne(obs []dssateval.OverviewObs) []Score {
	return score(obs, func(p *pairs) float64 {
		m := mean(p.meas)
		var ssRes, ssTot float64
		for i := range p.sim {
			d := p.sim[i] - p.meas[i]
			ssRes += d * d
			t := p.meas[i] - m
			ssTot += t * t
		}
		if ssTot == 0 {
			return math.NaN()
		}
		return 1 - ssRes/ssTot
	})
}

// Gain computes the slope of the least-squares fit of simulated on
// measured values for each group; 1.0 is a perfect gain.
func Gain(obs []dssateval.OverviewObs) []Score {
	return score(obs, func(p *pairs) float64 {
		slope, _, _, _, _, _ := stats.LinearRegression(p.meas, p.sim)
		return slope
	})
}

// score applies f to each group of obs. Groups with fewer than 2 valid
// pairs score NaN.
func score(obs []dssateval.OverviewObs, f func(*pairs) float64) []Score {
	groups := collect(obs)
	out := make([]Score, len(groups))
	for i, p := range groups {
		v := math.NaN()
		if len(p.sim) >= 2 {
			v = f(p)
		}
		out[i] = Score{Key: p.key, N: len(p.sim), Value: v}
	}
	return out
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sq float64
	for _, x := range xs {
		d := x - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)-1))
}
