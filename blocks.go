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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// A Block is one simulation block in a DSSAT output file. Blocks start at
// a line containing the '*DSSAT' banner and run to the next banner or the
// end of the file. The line range is [Start, End) into the file's lines.
type Block struct {
	// SimulationID identifies the simulation within a calibration run,
	// in the form <treatment code>_<genotype>, e.g. "WW23_G-1". It comes
	// from the TREATMENT line with the trailing crop name removed.
	SimulationID string

	// TreatmentNum is the DSSAT treatment number, used to match
	// measurement rows (TRNO) in .WHT files.
	TreatmentNum int

	// Experiment is the experiment code (e.g. "KSAS8101") and
	// ExperimentDesc the full text after the colon on the EXPERIMENT line.
	Experiment     string
	ExperimentDesc string

	// Cultivar is the cultivar name from the CROP line, when present.
	Cultivar string

	Start, End int
}

// readLines reads path into memory as a slice of lines. A missing file
// yields an error naming the file and the directory it was expected in.
func readLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("dssateval: the file path must be non-empty")
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("dssateval: the file %q does not exist at: %s",
				filepath.Base(path), filepath.Dir(path))
		}
		return nil, fmt.Errorf("dssateval: opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dssateval: reading %s: %w", path, err)
	}
	return lines, nil
}

// ScanBlocks locates the simulation blocks in a DSSAT output file
// (OVERVIEW.OUT or PlantGro.OUT) that was read into lines. Blocks without
// a TREATMENT line are skipped. Blocks are returned in file order.
func ScanBlocks(lines []string) []Block {
	var starts []int
	for i, line := range lines {
		if strings.Contains(line, "*DSSAT") {
			starts = append(starts, i)
		}
	}

	var blocks []Block
	for i, start := range starts {
		end := len(lines)
		if i < len(starts)-1 {
			end = starts[i+1]
		}
		b := Block{Start: start, End: end, TreatmentNum: -1}
		for j := start; j < end; j++ {
			line := strings.TrimSpace(lines[j])
			switch {
			case strings.HasPrefix(line, "TREATMENT") && b.SimulationID == "":
				id, num, err := parseTreatmentLine(line)
				if err != nil {
					continue
				}
				b.SimulationID = id
				b.TreatmentNum = num
			case strings.HasPrefix(line, "EXPERIMENT") && b.Experiment == "":
				desc := afterColon(line)
				b.ExperimentDesc = desc
				if fields := strings.Fields(desc); len(fields) > 0 {
					b.Experiment = fields[0]
				}
			case strings.HasPrefix(line, "CROP") && strings.Contains(line, "CULTIVAR :"):
				b.Cultivar = parseCultivar(line)
			}
		}
		if b.SimulationID != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// parseTreatmentLine extracts the simulation ID and treatment number from
// a line like " TREATMENT  1     : WW23_G-1                  WHEAT".
// The trailing crop name token is dropped from the ID.
func parseTreatmentLine(line string) (string, int, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", 0, fmt.Errorf("dssateval: malformed TREATMENT line %q", line)
	}
	num, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, fmt.Errorf("dssateval: treatment number in %q: %w", line, err)
	}
	name := strings.Fields(afterColon(line))
	if len(name) < 2 {
		return "", 0, fmt.Errorf("dssateval: TREATMENT line %q has no simulation name", line)
	}
	return strings.Join(name[:len(name)-1], " "), num, nil
}

// parseCultivar extracts the cultivar name between 'CULTIVAR :' and
// 'ECOTYPE' on a CROP line.
func parseCultivar(line string) string {
	parts := strings.SplitN(line, "CULTIVAR :", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(strings.SplitN(parts[1], "ECOTYPE", 2)[0])
}

// afterColon returns the trimmed text after the first colon on a line, or
// "" if the line has no colon.
func afterColon(line string) string {
	i := strings.Index(line, ":")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(line[i+1:])
}

// SplitSimulationID splits a simulation ID of the form
// <treatment>_<genotype> into its two parts.
func SplitSimulationID(id string) (treatment, genotype string, err error) {
	parts := strings.SplitN(id, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("dssateval: simulation ID %q is not of the form TREATMENT_GENOTYPE", id)
	}
	return parts[0], parts[1], nil
}
