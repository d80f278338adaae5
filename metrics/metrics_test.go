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

package metrics

import (
	"math"
	"testing"

	"github.com/cropsci/dssateval"
)

// testObs builds one group of observations with simulated values
// [3, 3, 7] against measured values [2, 4, 6].
func testObs() []dssateval.OverviewObs {
	sim := []float64{3, 3, 7}
	meas := []float64{2, 4, 6}
	obs := make([]dssateval.OverviewObs, len(sim))
	for i := range sim {
		obs[i] = dssateval.OverviewObs{
			Variable:   "Grain yield (kg/ha)",
			Method:     "per-DAP",
			ShortLabel: "cal-A",
			Treatment:  "WW-23",
			Simulated:  sim[i],
			Measured:   meas[i],
		}
	}
	return obs
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNRMSE(t *testing.T) {
	// Errors are (1, -1, 1): RMSE = 1. Mean and range of the measured
	// values are 4; their standard deviation is 2.
	tests := []struct {
		name string
		norm Normalization
		want float64
	}{
		{name: "mean", norm: NormMean, want: 0.25},
		{name: "range", norm: NormRange, want: 0.25},
		{name: "stddev", norm: NormStdDev, want: 0.5},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			scores := NRMSE(testObs(), test.norm)
			if len(scores) != 1 {
				t.Fatalf("got %d scores, want 1", len(scores))
			}
			s := scores[0]
			if s.N != 3 || s.Variable != "Grain yield (kg/ha)" || s.Treatment != "WW-23" {
				t.Errorf("score key: got %+v", s)
			}
			if !near(s.Value, test.want) {
				t.Errorf("got %g, want %g", s.Value, test.want)
			}
		})
	}
}

func TestMPE(t *testing.T) {
	scores := MPE(testObs())
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1", len(scores))
	}
	// mean(100*(1/2 - 1/4 + 1/6)) = 500/36.
	if want := 500.0 / 36.0; !near(scores[0].Value, want) {
		t.Errorf("got %g, want %g", scores[0].Value, want)
	}
}

func TestMPESkipsZeroMeasured(t *testing.T) {
	obs := testObs()
	obs = append(obs, dssateval.OverviewObs{
		Variable:   "Grain yield (kg/ha)",
		Method:     "per-DAP",
		ShortLabel: "cal-A",
		Treatment:  "WW-23",
		Simulated:  5,
		Measured:   0,
	})
	scores := MPE(obs)
	if want := 500.0 / 36.0; !near(scores[0].Value, want) {
		t.Errorf("got %g, want %g", scores[0].Value, want)
	}
	if scores[0].N != 4 {
		t.Errorf("N: got %d, want 4", scores[0].N)
	}
}

func TestR2OneToOne(t *testing.T) {
	scores := R2OneToOne(testObs())
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1", len(scores))
	}
	// 1 - 3/8.
	if !near(scores[0].Value, 0.625) {
		t.Errorf("got %g, want 0.625", scores[0].Value)
	}
}

func TestGain(t *testing.T) {
	scores := Gain(testObs())
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1", len(scores))
	}
	if !near(scores[0].Value, 1.0) {
		t.Errorf("got %g, want 1", scores[0].Value)
	}
}

func TestGrouping(t *testing.T) {
	obs := testObs()
	obs = append(obs, dssateval.OverviewObs{
		Variable:   "Anthesis (dap)",
		Method:     "per-DAP",
		ShortLabel: "cal-A",
		Treatment:  "WW-23",
		Simulated:  150,
		Measured:   152,
	})
	// Pairs with a missing value never join a group.
	obs = append(obs, dssateval.OverviewObs{
		Variable:   "Anthesis (dap)",
		Method:     "per-DAP",
		ShortLabel: "cal-A",
		Treatment:  "WW-23",
		Simulated:  math.NaN(),
		Measured:   140,
	})

	scores := NRMSE(obs, NormMean)
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(scores))
	}
	if scores[0].Variable != "Grain yield (kg/ha)" || scores[1].Variable != "Anthesis (dap)" {
		t.Errorf("group order: got %q, %q", scores[0].Variable, scores[1].Variable)
	}
	if scores[1].N != 1 {
		t.Errorf("anthesis group size: got %d, want 1", scores[1].N)
	}
}

func TestNRMSEZeroDenominator(t *testing.T) {
	obs := []dssateval.OverviewObs{
		{Variable: "v", Simulated: 1, Measured: 0},
		{Variable: "v", Simulated: 2, Measured: 0},
	}
	scores := NRMSE(obs, NormMean)
	if !math.IsNaN(scores[0].Value) {
		t.Errorf("got %g, want NaN", scores[0].Value)
	}
}

func TestTooFewPairs(t *testing.T) {
	obs := []dssateval.OverviewObs{{Variable: "v", Simulated: 1, Measured: 2}}
	scored := map[string][]Score{
		"nrmse": NRMSE(obs, NormMean),
		"mpe":   MPE(obs),
		"r2":    R2OneToOne(obs),
		"gain":  Gain(obs),
	}
	for name, scores := range scored {
		if scores[0].N != 1 {
			t.Errorf("%s: N: got %d, want 1", name, scores[0].N)
		}
		if !math.IsNaN(scores[0].Value) {
			t.Errorf("%s: single-pair group: got %g, want NaN", name, scores[0].Value)
		}
	}
}
