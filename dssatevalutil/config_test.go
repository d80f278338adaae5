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

package dssatevalutil

import (
	"reflect"
	"testing"

	"github.com/cropsci/dssateval/metrics"
	"github.com/lnashier/viper"
)

func TestGetStringMapString(t *testing.T) {
	want := map[string]string{"WW23": "WW-23", "DR22": "DR-22"}

	t.Run("map", func(t *testing.T) {
		cfg := viper.New()
		cfg.Set("Treatments", want)
		if got := GetStringMapString("Treatments", cfg); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	// Command-line flags deliver maps as JSON strings.
	t.Run("json", func(t *testing.T) {
		cfg := viper.New()
		cfg.Set("Treatments", `{"WW23":"WW-23","DR22":"DR-22"}`)
		if got := GetStringMapString("Treatments", cfg); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestCheckNorm(t *testing.T) {
	tests := []struct {
		in      string
		want    metrics.Normalization
		wantErr bool
	}{
		{in: "mean", want: metrics.NormMean},
		{in: "range", want: metrics.NormRange},
		{in: "stddev", want: metrics.NormStdDev},
		{in: "median", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, test := range tests {
		got, err := checkNorm(test.in)
		if test.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", test.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
		} else if got != test.want {
			t.Errorf("%q: got %v, want %v", test.in, got, test.want)
		}
	}
}

func TestCheckOutputDir(t *testing.T) {
	if _, err := checkOutputDir(""); err == nil {
		t.Error("expected error for empty directory")
	}
	if _, err := checkOutputDir("no/such/directory"); err == nil {
		t.Error("expected error for missing directory")
	}
	dir := t.TempDir()
	got, err := checkOutputDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("got %q, want %q", got, dir)
	}
}

func TestCheckCalibrationCodes(t *testing.T) {
	cfg := viper.New()
	cfg.Set("CalibrationCodes", []string{})
	if _, err := checkCalibrationCodes(cfg); err == nil {
		t.Error("expected error for no calibration codes")
	}
	cfg.Set("CalibrationCodes", []string{"C1"})
	codes, err := checkCalibrationCodes(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"C1"}; !reflect.DeepEqual(codes, want) {
		t.Errorf("got %v, want %v", codes, want)
	}
}

func TestRootCommands(t *testing.T) {
	want := map[string]bool{
		"version": true, "heatmap": true, "nrmsegrid": true,
		"barplot": true, "growth": true,
	}
	for _, cmd := range Root.Commands() {
		delete(want, cmd.Name())
	}
	for name := range want {
		t.Errorf("command %q is not registered", name)
	}
}
