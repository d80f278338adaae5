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

package dssateval

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadTimeSeries(t *testing.T) {
	ts, err := LoadTimeSeries("testdata/calibrations", "testdata/wheat", "C1", "CWAD", "WW23")
	if err != nil {
		t.Fatal(err)
	}

	if len(ts.Sim) != 6 {
		t.Fatalf("got %d simulated records, want 6", len(ts.Sim))
	}
	wantSim := GrowthRecord{
		Date:         "2023060",
		DAS:          1,
		DAP:          0,
		Treatment:    "WW23",
		Genotype:     "G-1",
		SimulationID: "WW23_G-1",
		TreatmentNum: 1,
		ExperimentID: "KSAS8101",
		ShortLabel:   "cal-A",
		Value:        0,
	}
	if !reflect.DeepEqual(ts.Sim[0], wantSim) {
		t.Errorf("first simulated record: got %+v, want %+v", ts.Sim[0], wantSim)
	}

	wantMeas := []Measurement{
		{
			TRNO: 1, Date: "2023061", ExperimentID: "KSAS8101",
			SimulationID: "WW23_G-1", Treatment: "WW23", Genotype: "G-1",
			ShortLabel: "cal-A", DAS: 2, DAP: 1, Value: 12, SamplingID: 1,
		},
		{
			// No simulated day matches this date, so DAS stays unset and
			// DAP is derived from the planting reference date.
			TRNO: 1, Date: "2023070", ExperimentID: "KSAS8101",
			SimulationID: "WW23_G-1", Treatment: "WW23", Genotype: "G-1",
			ShortLabel: "cal-A", DAS: -1, DAP: 10, Value: 95, SamplingID: 2,
		},
		{
			TRNO: 2, Date: "2023061", ExperimentID: "KSAS8101",
			SimulationID: "WW23_G-2", Treatment: "WW23", Genotype: "G-2",
			ShortLabel: "cal-A", DAS: 2, DAP: 1, Value: 11, SamplingID: 1,
		},
	}
	if !reflect.DeepEqual(ts.Meas, wantMeas) {
		t.Errorf("measurements: got %+v, want %+v", ts.Meas, wantMeas)
	}
}

func TestLoadTimeSeriesDropsMissing(t *testing.T) {
	// The LAID observation on 2023070 is -99 and must be dropped.
	ts, err := LoadTimeSeries("testdata/calibrations", "testdata/wheat", "C1", "LAID", "WW23")
	if err != nil {
		t.Fatal(err)
	}
	if len(ts.Meas) != 2 {
		t.Fatalf("got %d measurements, want 2", len(ts.Meas))
	}
	if ts.Meas[0].Value != 0.12 || ts.Meas[1].Value != 0.11 {
		t.Errorf("got values %g, %g, want 0.12, 0.11", ts.Meas[0].Value, ts.Meas[1].Value)
	}
	// With the unmatched date gone, each genotype has one sampling.
	for _, m := range ts.Meas {
		if m.SamplingID != 1 {
			t.Errorf("%s: sampling ID %d, want 1", m.Genotype, m.SamplingID)
		}
	}
}

func TestLoadTimeSeriesUnknownTreatment(t *testing.T) {
	_, err := LoadTimeSeries("testdata/calibrations", "testdata/wheat", "C1", "CWAD", "HT22")
	if err == nil {
		t.Fatal("expected error for treatment with no simulations")
	}
}

func TestLoadTimeSeriesNoPlantingDate(t *testing.T) {
	base := t.TempDir()
	calib := filepath.Join(base, "CX")
	if err := os.Mkdir(calib, 0755); err != nil {
		t.Fatal(err)
	}
	write := func(path, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(calib, "config.yaml"), "short_label: cal-X\n")
	// The simulation starts mid-season, so no row carries DAP 0.
	write(filepath.Join(calib, "PlantGro.OUT"),
		`*DSSAT Cropping System Model Ver. 4.8.2.0  -develop  AUG 01, 2023  10:15:32

*RUN   1        : WW23_G-1                 CSCER048 WHEAT          1

 MODEL           : CSCER048 - WHEAT
 EXPERIMENT      : KSAS8101 WH KANSAS FIELD TRIAL
 TREATMENT  1    : WW23_G-1                 WHEAT

@YEAR DOY   DAS   DAP  LAID   CWAD
 2023  65     6     5  0.50     50
`)
	whtDir := t.TempDir()
	// The measurement date matches no simulated day, so its DAP would
	// need the missing planting date.
	write(filepath.Join(whtDir, "KSAS8101.WHT"),
		`*EXP. DATA (A): KSAS8101 WH KANSAS FIELD TRIAL

@TRNO    DATE  LAID  CWAD
    1 2023070  0.12    95
`)
	if _, err := LoadTimeSeries(base, whtDir, "CX", "CWAD", "WW23"); err == nil {
		t.Fatal("expected error for a measurement with no planting reference")
	}
}

func TestAssignSamplingIDs(t *testing.T) {
	meas := []Measurement{
		{Genotype: "G-1", DAP: 30},
		{Genotype: "G-1", DAP: 10},
		{Genotype: "G-1", DAP: 30},
		{Genotype: "G-2", DAP: 50},
	}
	assignSamplingIDs(meas)
	want := []int{2, 1, 2, 1}
	for i, m := range meas {
		if m.SamplingID != want[i] {
			t.Errorf("measurement %d: sampling ID %d, want %d", i, m.SamplingID, want[i])
		}
	}
}
