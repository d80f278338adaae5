/*
Copyright © 2024 the DSSATEval authors.
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

package figures

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cropsci/dssateval"
	"github.com/cropsci/dssateval/metrics"
)

func testTable() *metrics.Table {
	return &metrics.Table{
		RowLabels: []string{"Grain yield (kg/ha)", "Anthesis (dap)"},
		ColLabels: []string{"cal-A", "cal-B"},
		Data: [][]float64{
			{0.25, 0.40},
			{0.10, math.NaN()},
		},
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// checkPNG fails unless path holds a non-empty PNG file.
func checkPNG(t *testing.T, path string) {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) < 8 || string(b[1:4]) != "PNG" {
		t.Errorf("%s is not a PNG file", path)
	}
}

func TestMetricHeatmaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heatmap.png")
	err := MetricHeatmaps(testTable(), testTable(), testTable(), testTable(),
		HeatmapOptions{Treatment: "WW-23", XLabel: "Calibration", Path: path})
	if err != nil {
		t.Fatal(err)
	}
	checkPNG(t, path)
}

func TestMetricHeatmapsNoPath(t *testing.T) {
	if err := MetricHeatmaps(testTable(), testTable(), testTable(), testTable(),
		HeatmapOptions{}); err == nil {
		t.Fatal("expected error for missing output path")
	}
}

func TestNRMSEGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.png")
	tables := map[string]*metrics.Table{
		"WW-23": testTable(),
		"DR-22": testTable(),
	}
	limits := metrics.Limits{NRMSEMin: 0.10, NRMSEMax: 0.40}
	err := NRMSEGrid(tables, limits, GridOptions{
		Treatments: []string{"WW-23", "DR-22"},
		XLabel:     "Calibration",
		Path:       path,
	})
	if err != nil {
		t.Fatal(err)
	}
	checkPNG(t, path)
}

func TestNRMSEGridMissingTreatment(t *testing.T) {
	err := NRMSEGrid(map[string]*metrics.Table{}, metrics.Limits{}, GridOptions{
		Treatments: []string{"WW-23"},
		Path:       filepath.Join(t.TempDir(), "grid.png"),
	})
	if err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestParameterBarplot(t *testing.T) {
	summaries := []dssateval.ChangeSummary{
		{Step: "s1", Ecotype: "CI0001", Parameter: "P1V", Mean: 5, StdErr: 1, N: 2},
		{Step: "s1", Ecotype: "CI0001", Parameter: "G1", Mean: -3, StdErr: 0.5, N: 2},
		{Step: "s1", Ecotype: "subset_C", Parameter: "P1V", Mean: 12, N: 1},
		{Step: "s2", Ecotype: "CI0001", Parameter: "P1V", Mean: 8, StdErr: 2, N: 3},
	}
	path := filepath.Join(t.TempDir(), "barplot.png")
	err := ParameterBarplot(summaries, BarplotOptions{
		Steps:      []string{"s1", "s2"},
		StepTitles: map[string]string{"s1": "Step one"},
		Ecotypes:   []string{"CI0001", "subset_C"},
		Parameters: []string{"P1V", "G1"},
		YLabel:     "Change (%)",
		Path:       path,
	})
	if err != nil {
		t.Fatal(err)
	}
	checkPNG(t, path)
}

func TestParameterBarplotEmpty(t *testing.T) {
	err := ParameterBarplot(nil, BarplotOptions{
		Path: filepath.Join(t.TempDir(), "barplot.png"),
	})
	if err == nil {
		t.Fatal("expected error for empty options")
	}
}

func testGrowthSeries() []GrowthSeries {
	sim := []dssateval.GrowthRecord{
		{DAP: 0, Genotype: "G-1", Value: 0},
		{DAP: 10, Genotype: "G-1", Value: 1.2},
		{DAP: 10, Genotype: "G-2", Value: 1.0},
		{DAP: 20, Genotype: "G-1", Value: 2.5},
		{DAP: 20, Genotype: "G-2", Value: math.NaN()},
	}
	meas := []dssateval.Measurement{
		{DAP: 10, Genotype: "G-1", Value: 1.1},
		{DAP: 10, Genotype: "G-2", Value: 0.9},
		{DAP: 20, Genotype: "G-1", Value: 2.2},
	}
	return []GrowthSeries{{Label: "cal-A", Sim: sim, Meas: meas}}
}

func TestGrowthPanels(t *testing.T) {
	data := map[GrowthKey][]GrowthSeries{
		{"LAID", "WW23"}: testGrowthSeries(),
		{"LAID", "DR22"}: testGrowthSeries(),
		{"CWAD", "WW23"}: testGrowthSeries(),
		{"CWAD", "DR22"}: testGrowthSeries(),
	}
	path := filepath.Join(t.TempDir(), "growth.png")
	err := GrowthPanels(data, GrowthOptions{
		Variables:       []string{"LAID", "CWAD"},
		VariableTitles:  map[string]string{"LAID": "Leaf area index"},
		Treatments:      []string{"WW23", "DR22"},
		TreatmentLabels: map[string]string{"WW23": "WW-23", "DR22": "DR-22"},
		Cultivars:       []string{"G-1", "G-2"},
		Path:            path,
	})
	if err != nil {
		t.Fatal(err)
	}
	checkPNG(t, path)
}

func TestGrowthPanelsMissingCell(t *testing.T) {
	data := map[GrowthKey][]GrowthSeries{
		{"LAID", "WW23"}: testGrowthSeries(),
	}
	err := GrowthPanels(data, GrowthOptions{
		Variables:  []string{"LAID"},
		Treatments: []string{"WW23", "DR22"},
		Path:       filepath.Join(t.TempDir(), "growth.png"),
	})
	if err == nil {
		t.Fatal("expected error for a treatment without series")
	}
}

func TestSimCurveCultivarFilter(t *testing.T) {
	sim := testGrowthSeries()[0].Sim

	cv := simCurve(sim, nil)
	if !near(cv.mean[1], 1.1) {
		t.Errorf("unfiltered mean at DAP 10: got %g, want 1.1", cv.mean[1])
	}

	cv = simCurve(sim, genotypeSet([]string{"G-1"}))
	if !near(cv.mean[1], 1.2) {
		t.Errorf("filtered mean at DAP 10: got %g, want 1.2", cv.mean[1])
	}

	mv := measCurve(testGrowthSeries()[0].Meas, genotypeSet([]string{"G-2"}))
	if len(mv.dap) != 1 || !near(mv.mean[0], 0.9) {
		t.Errorf("filtered measurements: got %v, %v", mv.dap, mv.mean)
	}
}

func TestBarLayout(t *testing.T) {
	width, offsets := barLayout(2)
	if !near(width, 0.34) {
		t.Errorf("width: got %g, want 0.34", width)
	}
	if !near(offsets[0], -0.18) || !near(offsets[1], 0.18) {
		t.Errorf("offsets: got %v, want [-0.18 0.18]", offsets)
	}
	// The outer bar edges span the full group width.
	if !near(offsets[1]+width/2, totalBarWidth/2) {
		t.Errorf("outer edge: got %g, want %g", offsets[1]+width/2, totalBarWidth/2)
	}

	width, offsets = barLayout(1)
	if !near(width, totalBarWidth) || !near(offsets[0], 0) {
		t.Errorf("single bar: got width %g, offsets %v", width, offsets)
	}
}

func TestAggregateByDAP(t *testing.T) {
	cv := aggregateByDAP([]int{20, 10, 20, 10}, []float64{3, 1, 5, math.NaN()})
	if len(cv.dap) != 2 || cv.dap[0] != 10 || cv.dap[1] != 20 {
		t.Fatalf("days: got %v", cv.dap)
	}
	if cv.mean[0] != 1 || cv.mean[1] != 4 {
		t.Errorf("means: got %v", cv.mean)
	}
	if cv.sd[0] != 0 {
		t.Errorf("single-value deviation: got %g, want 0", cv.sd[0])
	}
	if math.Abs(cv.sd[1]-math.Sqrt2) > 1e-9 {
		t.Errorf("deviation: got %g, want sqrt(2)", cv.sd[1])
	}
}

func TestPrettyVariableName(t *testing.T) {
	tests := []struct{ in, want string }{
		{in: "Grain yield (kg/ha)", want: "Grain yield (kg ha⁻¹)"},
		{in: "Growth rate (kg/ha/day)", want: "Growth rate (kg ha⁻¹ day⁻¹)"},
		{in: "Grain number (no/m2)", want: "Grain number (no/m⁻²)"},
		{in: "RUE (g/MJ)", want: "RUE (g MJ⁻¹)"},
		{in: "Anthesis (dap)", want: "Anthesis (dap)"},
	}
	for _, test := range tests {
		if got := PrettyVariableName(test.in); got != test.want {
			t.Errorf("%q: got %q, want %q", test.in, got, test.want)
		}
	}
}
