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
	"fmt"
	"strings"
)

// A MeasurementTable is the contents of a DSSAT Wheat .WHT field
// measurement file: a column header plus rows of observation values.
// Missing observations (-99) are NaN.
type MeasurementTable struct {
	Columns []string
	Rows    [][]float64
}

// Column returns the values of the named column.
func (t *MeasurementTable) Column(name string) ([]float64, bool) {
	for i, c := range t.Columns {
		if c != name {
			continue
		}
		out := make([]float64, len(t.Rows))
		for j, row := range t.Rows {
			out[j] = row[i]
		}
		return out, true
	}
	return nil, false
}

// ParseWHT reads a .WHT measurement file. The header is the first line
// starting with '@'; data rows are all non-blank lines not starting with
// '*', '!', or '@'. Every data row must match the header width.
func ParseWHT(path string) (*MeasurementTable, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var columns []string
	for _, line := range lines {
		if strings.HasPrefix(line, "@") {
			columns = strings.Fields(strings.TrimPrefix(line, "@"))
			break
		}
	}
	if columns == nil {
		return nil, fmt.Errorf("dssateval: %s: no header line starting with '@'", path)
	}

	t := &MeasurementTable{Columns: columns}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(line, "*") ||
			strings.HasPrefix(line, "!") || strings.HasPrefix(line, "@") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) != len(columns) {
			return nil, fmt.Errorf("dssateval: %s: row %d has %d values, header has %d columns",
				path, i+1, len(fields), len(columns))
		}
		row := make([]float64, len(fields))
		for j, f := range fields {
			row[j] = parseValue(f)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
