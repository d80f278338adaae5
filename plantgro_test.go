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
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParsePlantGro(t *testing.T) {
	tables, err := ParsePlantGro("testdata/calibrations/C1/PlantGro.OUT")
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}

	first := tables[0]
	if first.SimulationID != "WW23_G-1" || first.TreatmentNum != 1 {
		t.Errorf("first block: got %q treatment %d", first.SimulationID, first.TreatmentNum)
	}
	wantCols := []string{"YEAR", "DOY", "DAS", "DAP", "LAID", "CWAD"}
	if !reflect.DeepEqual(first.Columns, wantCols) {
		t.Errorf("columns: got %v, want %v", first.Columns, wantCols)
	}

	laid, ok := first.Column("LAID")
	if !ok {
		t.Fatal("no LAID column")
	}
	if want := []float64{0, 0.10, 0.50}; !reflect.DeepEqual(laid, want) {
		t.Errorf("LAID: got %v, want %v", laid, want)
	}

	if _, ok := first.Column("GWAD"); ok {
		t.Error("unexpected GWAD column")
	}
}

func TestParsePlantGroBadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PlantGro.OUT")
	contents := `*DSSAT Cropping System Model
 TREATMENT  1    : WW23_G-1                 WHEAT
@YEAR DOY   DAS
 2023  60
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParsePlantGro(path); err == nil {
		t.Fatal("expected error for short row")
	}
}
