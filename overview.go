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
	"math"
	"strconv"
	"strings"
)

// An OverviewRecord is one simulated-vs-measured row from the
// end-of-season summary tables in OVERVIEW.OUT. Missing values
// (the DSSAT -99 convention, or unparseable tokens) are NaN.
type OverviewRecord struct {
	SimulationID string
	Cultivar     string
	Variable     string
	Simulated    float64
	Measured     float64

	// Experiment is the free-text experiment description.
	Experiment string

	// Position is the 1-based row position within the block's summary
	// table, counting separator rows. It preserves the file's variable
	// ordering through later grouping.
	Position int
}

// ParseOverview extracts the simulated-vs-measured summary records for
// every simulation block in an OVERVIEW.OUT file. Within a block, every
// '@'-header table is scanned; each data row tokenizes as
// "<variable name...> <simulated> <measured>". Separator rows ("------")
// are dropped but still consume a position.
func ParseOverview(path string) ([]OverviewRecord, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var records []OverviewRecord
	for _, b := range ScanBlocks(lines) {
		for i := b.Start; i < b.End; i++ {
			if !strings.HasPrefix(strings.TrimSpace(lines[i]), "@") {
				continue
			}
			pos := 0
			for j := i + 1; j < b.End; j++ {
				row := lines[j]
				if strings.TrimSpace(row) == "" || strings.HasPrefix(row, "*") {
					break
				}
				pos++
				fields := strings.Fields(row)
				if len(fields) < 3 || containsSeparator(fields) {
					continue
				}
				records = append(records, OverviewRecord{
					SimulationID: b.SimulationID,
					Cultivar:     b.Cultivar,
					Variable:     strings.Join(fields[:len(fields)-2], " "),
					Simulated:    parseValue(fields[len(fields)-2]),
					Measured:     parseValue(fields[len(fields)-1]),
					Experiment:   b.ExperimentDesc,
					Position:     pos,
				})
			}
		}
	}
	return records, nil
}

// containsSeparator reports whether any token is a table separator row
// marker such as "--------".
func containsSeparator(fields []string) bool {
	for _, f := range fields {
		if strings.Contains(f, "--------") {
			return true
		}
	}
	return false
}

// parseValue converts a DSSAT value token to a float64. Tokens beginning
// with -99 mark missing data and unparseable tokens are coerced, both to
// NaN.
func parseValue(tok string) float64 {
	if strings.HasPrefix(tok, "-99") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
