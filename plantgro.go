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

// A GrowthTable is the daily growth time series for one simulation block
// of a PlantGro.OUT file. Rows are indexed [row][column] and column order
// matches the file's '@' header with the leading '@' stripped from the
// first name (so "@YEAR" becomes "YEAR").
type GrowthTable struct {
	Block
	Columns []string
	Rows    [][]float64
}

// Column returns the values of the named column.
func (t *GrowthTable) Column(name string) ([]float64, bool) {
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

// ParsePlantGro reads the growth time series for every simulation block
// in a PlantGro.OUT file. The header is the first line in a block
// starting with '@'; every following line in the block is a data row.
func ParsePlantGro(path string) ([]GrowthTable, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var tables []GrowthTable
	for _, b := range ScanBlocks(lines) {
		table := GrowthTable{Block: b}
		header := -1
		for i := b.Start; i < b.End; i++ {
			if strings.HasPrefix(lines[i], "@") {
				header = i
				break
			}
		}
		if header < 0 {
			return nil, fmt.Errorf("dssateval: %s: no '@' header line in block for %s",
				path, b.SimulationID)
		}
		table.Columns = strings.Fields(strings.TrimPrefix(lines[header], "@"))

		for i := header + 1; i < b.End; i++ {
			fields := strings.Fields(lines[i])
			if len(fields) == 0 || strings.HasPrefix(lines[i], "*") {
				continue
			}
			if len(fields) != len(table.Columns) {
				return nil, fmt.Errorf("dssateval: %s: row %d has %d values, header has %d columns",
					path, i+1, len(fields), len(table.Columns))
			}
			row := make([]float64, len(fields))
			for j, f := range fields {
				row[j] = parseValue(f)
			}
			table.Rows = append(table.Rows, row)
		}
		tables = append(tables, table)
	}
	return tables, nil
}
