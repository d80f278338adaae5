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

package metrics

import (
	"math"
	"sort"
)

// Decimals is the number of decimals NRMSE values are rounded to before
// ordering and display.
const Decimals = 2

// A Table is a metric pivoted into variables (rows) × calibration short
// labels (columns). Cells without a score are NaN.
type Table struct {
	RowLabels []string
	ColLabels []string
	Data      [][]float64 // Data[row][col]
}

// Value returns the cell at (row, col).
func (t *Table) Value(row, col int) float64 { return t.Data[row][col] }

// Pivot builds a variable × short-label table of scores for one
// treatment. Rows and columns appear in the order given by variables and
// labels; cells with no matching score are NaN.
func Pivot(scores []Score, treatment string, variables, labels []string) *Table {
	t := &Table{
		RowLabels: append([]string(nil), variables...),
		ColLabels: append([]string(nil), labels...),
	}
	colIdx := make(map[string]int, len(labels))
	for i, l := range labels {
		colIdx[l] = i
	}
	rowIdx := make(map[string]int, len(variables))
	for i, v := range variables {
		rowIdx[v] = i
	}

	t.Data = make([][]float64, len(variables))
	for i := range t.Data {
		t.Data[i] = make([]float64, len(labels))
		for j := range t.Data[i] {
			t.Data[i][j] = math.NaN()
		}
	}
	for _, s := range scores {
		if s.Treatment != treatment {
			continue
		}
		r, okr := rowIdx[s.Variable]
		c, okc := colIdx[s.ShortLabel]
		if okr && okc {
			t.Data[r][c] = s.Value
		}
	}
	return t
}

// Round rounds every cell to the given number of decimals.
func (t *Table) Round(decimals int) {
	pow := math.Pow(10, float64(decimals))
	for _, row := range t.Data {
		for j, v := range row {
			if !math.IsNaN(v) {
				row[j] = math.Round(v*pow) / pow
			}
		}
	}
}

// rowMeans and colMeans skip NaN cells, like a dataframe mean would.
func (t *Table) rowMeans() []float64 {
	means := make([]float64, len(t.RowLabels))
	for i, row := range t.Data {
		means[i] = nanMean(row)
	}
	return means
}

func (t *Table) colMeans() []float64 {
	means := make([]float64, len(t.ColLabels))
	for j := range t.ColLabels {
		col := make([]float64, len(t.Data))
		for i := range t.Data {
			col[i] = t.Data[i][j]
		}
		means[j] = nanMean(col)
	}
	return means
}

// Reindex returns a copy of t with rows and columns in the given label
// orders. Labels absent from t become all-NaN rows or columns.
func (t *Table) Reindex(rows, cols []string) *Table {
	rowIdx := make(map[string]int, len(t.RowLabels))
	for i, l := range t.RowLabels {
		rowIdx[l] = i
	}
	colIdx := make(map[string]int, len(t.ColLabels))
	for i, l := range t.ColLabels {
		colIdx[l] = i
	}

	out := &Table{
		RowLabels: append([]string(nil), rows...),
		ColLabels: append([]string(nil), cols...),
		Data:      make([][]float64, len(rows)),
	}
	for i, rl := range rows {
		out.Data[i] = make([]float64, len(cols))
		ri, haveRow := rowIdx[rl]
		for j, cl := range cols {
			ci, haveCol := colIdx[cl]
			if haveRow && haveCol {
				out.Data[i][j] = t.Data[ri][ci]
			} else {
				out.Data[i][j] = math.NaN()
			}
		}
	}
	return out
}

// orderByMean returns t's row and column labels sorted by ascending mean
// cell value (NaN-skipping, stable).
func (t *Table) orderByMean() (rows, cols []string) {
	rows = sortedByValue(t.RowLabels, t.rowMeans())
	cols = sortedByValue(t.ColLabels, t.colMeans())
	return rows, cols
}

func sortedByValue(labels []string, values []float64) []string {
	idx := make([]int, len(labels))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := values[idx[a]], values[idx[b]]
		switch {
		case math.IsNaN(va):
			return false
		case math.IsNaN(vb):
			return true
		default:
			return va < vb
		}
	})
	out := make([]string, len(labels))
	for i, j := range idx {
		out[i] = labels[j]
	}
	return out
}

// PrepareTreatment pivots all four metrics for one treatment. The NRMSE
// table is rounded and then ordered by ascending row and column means;
// the MPE, R², and gain tables are reindexed to the same ordering so the
// four heatmap panels stay comparable.
func PrepareTreatment(nrmse, mpe, r2, gain []Score, treatment string,
	variables, labels []string) (n, m, r, g *Table) {

	n = Pivot(nrmse, treatment, variables, labels)
	n.Round(Decimals)
	rows, cols := n.orderByMean()
	n = n.Reindex(rows, cols)
	m = Pivot(mpe, treatment, variables, labels).Reindex(rows, cols)
	r = Pivot(r2, treatment, variables, labels).Reindex(rows, cols)
	g = Pivot(gain, treatment, variables, labels).Reindex(rows, cols)
	return n, m, r, g
}

// Limits are the global extremes of each metric across treatments, used
// to share color scales between heatmap panels.
type Limits struct {
	NRMSEMin, NRMSEMax float64
	MPEMin, MPEMax     float64
	R2Min, R2Max       float64
	GainMin, GainMax   float64
}

// GlobalLimits scans all four metrics, restricted to the selected
// variables and short labels, for their global minima and maxima.
func GlobalLimits(nrmse, mpe, r2, gain []Score, variables, labels []string) Limits {
	l := Limits{
		NRMSEMin: math.NaN(), NRMSEMax: math.NaN(),
		MPEMin: math.NaN(), MPEMax: math.NaN(),
		R2Min: math.NaN(), R2Max: math.NaN(),
		GainMin: math.NaN(), GainMax: math.NaN(),
	}
	l.NRMSEMin, l.NRMSEMax = minMax(nrmse, variables, labels)
	l.MPEMin, l.MPEMax = minMax(mpe, variables, labels)
	l.R2Min, l.R2Max = minMax(r2, variables, labels)
	l.GainMin, l.GainMax = minMax(gain, variables, labels)
	return l
}

func minMax(scores []Score, variables, labels []string) (min, max float64) {
	wantVar := make(map[string]bool, len(variables))
	for _, v := range variables {
		wantVar[v] = true
	}
	wantLabel := make(map[string]bool, len(labels))
	for _, l := range labels {
		wantLabel[l] = true
	}
	min, max = math.NaN(), math.NaN()
	for _, s := range scores {
		if !wantVar[s.Variable] || !wantLabel[s.ShortLabel] || math.IsNaN(s.Value) {
			continue
		}
		if math.IsNaN(min) || s.Value < min {
			min = s.Value
		}
		if math.IsNaN(max) || s.Value > max {
			max = s.Value
		}
	}
	return min, max
}

// ShortLabels returns the distinct calibration short labels in scores,
// in first-seen order.
func ShortLabels(scores []Score) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range scores {
		if !seen[s.ShortLabel] {
			seen[s.ShortLabel] = true
			out = append(out, s.ShortLabel)
		}
	}
	return out
}

func nanMean(xs []float64) float64 {
	var sum float64
	n := 0
	for _, x := range xs {
		if !math.IsNaN(x) {
			sum += x
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
