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

package dssateval

import (
	"reflect"
	"testing"
)

func TestReadCalibConfig(t *testing.T) {
	cfg, err := ReadCalibConfig("testdata/calibrations/C1/config.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.ShortLabel.First(); got != "cal-A" {
		t.Errorf("short label: got %q, want cal-A", got)
	}
	if got := cfg.LongLabel.Join(); got != "Calibration A, anthesis and yield" {
		t.Errorf("long label: got %q", got)
	}
	if got := cfg.CalibrationMethod.Join(); got != "per-DAP" {
		t.Errorf("method: got %q, want per-DAP", got)
	}
	want := stringList{"LAID", "CWAD"}
	if !reflect.DeepEqual(cfg.PlantGroVariables, want) {
		t.Errorf("plantgro variables: got %v, want %v", cfg.PlantGroVariables, want)
	}
}

func TestLoadOverviews(t *testing.T) {
	obs, err := LoadOverviews("testdata/calibrations", []string{"C1"},
		map[string]string{"WW23": "WW-23"},
		map[string]string{"Anthesis day (dap)": "Anthesis (dap)"})
	if err != nil {
		t.Fatal(err)
	}

	// 7 parsed records minus the one without a measured value.
	if len(obs) != 6 {
		t.Fatalf("got %d observations, want 6", len(obs))
	}

	want := OverviewObs{
		Calibration:  "C1",
		Method:       "per-DAP",
		ShortLabel:   "cal-A",
		LongLabel:    "Calibration A, anthesis and yield",
		Treatment:    "WW-23",
		Variable:     "Anthesis (dap)",
		SimulationID: "WW23_G-1",
		Cultivar:     "G-1",
		Simulated:    152,
		Measured:     150,
	}
	if !reflect.DeepEqual(obs[0], want) {
		t.Errorf("first observation: got %+v, want %+v", obs[0], want)
	}

	// Names absent from the variable map pass through unchanged.
	var foundCanopy bool
	for _, o := range obs {
		if o.Variable == "Canopy (tops) wt (kg dm/ha)" {
			foundCanopy = true
		}
	}
	if !foundCanopy {
		t.Error("unmapped variable name did not pass through")
	}
}

func TestLoadOverviewsMissingCode(t *testing.T) {
	_, err := LoadOverviews("testdata/calibrations", []string{"C9"}, nil, nil)
	if err == nil {
		t.Fatal("expected error for unknown calibration code")
	}
}
