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
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// A ParameterRow is one calibrated cultivar parameter set from the
// cultivar parameter CSV table.
type ParameterRow struct {
	Step     string
	Cultivar string
	Ecotype  string
	Values   map[string]float64
}

// A ParameterTable holds cultivar parameter sets across calibration
// steps, restricted to the parameters of interest.
type ParameterTable struct {
	Parameters []string
	Rows       []ParameterRow
}

// LoadParameterTable reads a cultivar parameter CSV file. The file must
// have step, cultivar, and ecotype columns plus one column per requested
// parameter.
func LoadParameterTable(path string, parameters []string) (*ParameterTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dssateval: opening parameter table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dssateval: reading %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dssateval: %s: no data rows", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, required := range []string{"step", "cultivar", "ecotype"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("dssateval: %s: missing column %q", path, required)
		}
	}
	for _, p := range parameters {
		if _, ok := col[p]; !ok {
			return nil, fmt.Errorf("dssateval: %s: missing parameter column %q", path, p)
		}
	}

	t := &ParameterTable{Parameters: parameters}
	for i, rec := range records[1:] {
		row := ParameterRow{
			Step:     rec[col["step"]],
			Cultivar: rec[col["cultivar"]],
			Ecotype:  rec[col["ecotype"]],
			Values:   make(map[string]float64, len(parameters)),
		}
		for _, p := range parameters {
			v, err := strconv.ParseFloat(rec[col[p]], 64)
			if err != nil {
				return nil, fmt.Errorf("dssateval: %s row %d: parameter %s: %w", path, i+2, p, err)
			}
			row.Values[p] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// A ParameterChange is the percent change of one parameter in one row
// relative to the baseline parameter set.
type ParameterChange struct {
	Step      string
	Ecotype   string
	Parameter string
	Percent   float64
}

// PercentChanges computes per-row percent parameter changes against the
// baseline row identified by (step, cultivar, ecotype). The baseline row
// itself is excluded from the result.
func (t *ParameterTable) PercentChanges(baseStep, baseCultivar, baseEcotype string) ([]ParameterChange, error) {
	var baseline map[string]float64
	for _, row := range t.Rows {
		if row.Step == baseStep && row.Cultivar == baseCultivar && row.Ecotype == baseEcotype {
			baseline = row.Values
			break
		}
	}
	if baseline == nil {
		return nil, fmt.Errorf("dssateval: no baseline row for step=%q cultivar=%q ecotype=%q",
			baseStep, baseCultivar, baseEcotype)
	}

	var changes []ParameterChange
	for _, row := range t.Rows {
		if row.Step == baseStep && row.Cultivar == baseCultivar && row.Ecotype == baseEcotype {
			continue
		}
		for _, p := range t.Parameters {
			base := baseline[p]
			if base == 0 {
				return nil, fmt.Errorf("dssateval: baseline value for %s is zero", p)
			}
			changes = append(changes, ParameterChange{
				Step:      row.Step,
				Ecotype:   row.Ecotype,
				Parameter: p,
				Percent:   (row.Values[p] - base) / base * 100,
			})
		}
	}
	return changes, nil
}

// ReplicateStep copies the changes of one ecotype in fromStep into each
// of toSteps, so a reference parameter set can be compared against later
// calibration stages.
func ReplicateStep(changes []ParameterChange, fromStep, ecotype string, toSteps []string) []ParameterChange {
	out := changes
	for _, c := range changes {
		if c.Step != fromStep || c.Ecotype != ecotype {
			continue
		}
		for _, step := range toSteps {
			cc := c
			cc.Step = step
			out = append(out, cc)
		}
	}
	return out
}

// ScaleChanges multiplies the percent change of one (step, parameter)
// combination by factor, in place.
func ScaleChanges(changes []ParameterChange, step, parameter string, factor float64) {
	for i := range changes {
		if changes[i].Step == step && changes[i].Parameter == parameter {
			changes[i].Percent *= factor
		}
	}
}

// A ChangeSummary is the mean ± standard error of the percent change of
// one parameter for one ecotype within one calibration step.
type ChangeSummary struct {
	Step      string
	Ecotype   string
	Parameter string
	Mean      float64
	StdErr    float64
	N         int
}

// SummarizeChanges aggregates percent changes per (step, ecotype,
// parameter), preserving first-seen order.
func SummarizeChanges(changes []ParameterChange) []ChangeSummary {
	type key struct{ step, ecotype, parameter string }
	byKey := make(map[key][]float64)
	var order []key
	for _, c := range changes {
		k := key{c.Step, c.Ecotype, c.Parameter}
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], c.Percent)
	}

	summaries := make([]ChangeSummary, len(order))
	for i, k := range order {
		vals := byKey[k]
		s := ChangeSummary{
			Step:      k.step,
			Ecotype:   k.ecotype,
			Parameter: k.parameter,
			Mean:      stat.Mean(vals, nil),
			N:         len(vals),
		}
		if len(vals) > 1 {
			s.StdErr = stat.StdDev(vals, nil) / math.Sqrt(float64(len(vals)))
		}
		summaries[i] = s
	}
	return summaries
}
