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

package figures

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/cropsci/dssateval"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// A GrowthSeries is one calibration's simulated growth curves plus the
// reconciled field measurements, for one trait and treatment.
type GrowthSeries struct {
	Label string
	Sim   []dssateval.GrowthRecord
	Meas  []dssateval.Measurement
}

// A GrowthKey addresses the series of one panel: a trait row and a
// treatment column.
type GrowthKey struct {
	Variable  string
	Treatment string // treatment code, e.g. "WW23"
}

// GrowthOptions configures the growth comparison panel figure.
type GrowthOptions struct {
	// Variables are the traits drawn, one panel row each.
	Variables []string
	// VariableTitles maps a trait to its y-axis label. Traits without an
	// entry use the trait name.
	VariableTitles map[string]string
	// Treatments are the treatment codes drawn, one panel column each.
	Treatments []string
	// TreatmentLabels maps a treatment code to its panel title. Codes
	// without an entry use the code itself.
	TreatmentLabels map[string]string
	// Cultivars restricts the curve aggregation to these genotypes.
	// Empty aggregates every genotype present.
	Cultivars []string
	Path      string
}

// genotypeSet builds the cultivar filter; nil keeps every genotype.
func genotypeSet(cultivars []string) map[string]bool {
	if len(cultivars) == 0 {
		return nil
	}
	set := make(map[string]bool, len(cultivars))
	for _, c := range cultivars {
		set[c] = true
	}
	return set
}

// curve is an aggregated mean ± standard deviation trajectory over
// days after planting.
type curve struct {
	dap      []int
	mean, sd []float64
}

// aggregateByDAP averages values sharing a days-after-planting offset.
// Values of NaN are dropped; a single value has zero deviation.
func aggregateByDAP(daps []int, values []float64) curve {
	byDAP := make(map[int][]float64)
	for i, d := range daps {
		if math.IsNaN(values[i]) {
			continue
		}
		byDAP[d] = append(byDAP[d], values[i])
	}
	var cv curve
	for d := range byDAP {
		cv.dap = append(cv.dap, d)
	}
	sort.Ints(cv.dap)
	cv.mean = make([]float64, len(cv.dap))
	cv.sd = make([]float64, len(cv.dap))
	for i, d := range cv.dap {
		vals := byDAP[d]
		cv.mean[i] = stat.Mean(vals, nil)
		if len(vals) > 1 {
			cv.sd[i] = stat.StdDev(vals, nil)
		}
	}
	return cv
}

func simCurve(recs []dssateval.GrowthRecord, keep map[string]bool) curve {
	var daps []int
	var vals []float64
	for _, r := range recs {
		if keep != nil && !keep[r.Genotype] {
			continue
		}
		daps = append(daps, r.DAP)
		vals = append(vals, r.Value)
	}
	return aggregateByDAP(daps, vals)
}

func measCurve(meas []dssateval.Measurement, keep map[string]bool) curve {
	var daps []int
	var vals []float64
	for _, m := range meas {
		if keep != nil && !keep[m.Genotype] {
			continue
		}
		daps = append(daps, m.DAP)
		vals = append(vals, m.Value)
	}
	return aggregateByDAP(daps, vals)
}

// meanLine returns the mean trajectory as plot points.
func (cv curve) meanLine() plotter.XYs {
	xys := make(plotter.XYs, len(cv.dap))
	for i, d := range cv.dap {
		xys[i] = plotter.XY{X: float64(d), Y: cv.mean[i]}
	}
	return xys
}

// bandPolygon fills the mean ± standard deviation envelope.
func (cv curve) bandPolygon(c color.Color) (*plotter.Polygon, error) {
	xys := make(plotter.XYs, 0, 2*len(cv.dap))
	for i, d := range cv.dap {
		xys = append(xys, plotter.XY{X: float64(d), Y: cv.mean[i] + cv.sd[i]})
	}
	for i := len(cv.dap) - 1; i >= 0; i-- {
		xys = append(xys, plotter.XY{X: float64(cv.dap[i]), Y: cv.mean[i] - cv.sd[i]})
	}
	poly, err := plotter.NewPolygon(xys)
	if err != nil {
		return nil, err
	}
	poly.Color = withAlpha(c, bandAlpha)
	poly.LineStyle.Width = 0
	poly.LineStyle.Color = withAlpha(c, 0)
	return poly, nil
}

// growthPanel builds one comparison panel: per-calibration mean lines
// with deviation bands, and the measured band with mean markers.
func growthPanel(series []GrowthSeries, opt GrowthOptions, variable, treatment string,
	keep map[string]bool, bottomRow, firstCol, withLegend bool) (*plot.Plot, error) {

	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	title := opt.TreatmentLabels[treatment]
	if title == "" {
		title = treatment
	}
	p.Title.Text = title
	p.Title.Font.Size = labelSize
	if firstCol {
		label := opt.VariableTitles[variable]
		if label == "" {
			label = variable
		}
		p.Y.Label.Text = PrettyVariableName(label)
		p.Y.Label.Font.Size = labelSize
	}
	if bottomRow {
		p.X.Label.Text = "Days after planting"
		p.X.Label.Font.Size = labelSize
	}
	p.X.Tick.Label.Font.Size = tickSize
	p.Y.Tick.Label.Font.Size = tickSize
	p.Legend.Font.Size = legendSize
	p.Legend.Top = true
	p.Legend.Left = true

	for i, s := range series {
		cv := simCurve(s.Sim, keep)
		if len(cv.dap) == 0 {
			continue
		}
		band, err := cv.bandPolygon(seriesColor(i))
		if err != nil {
			return nil, err
		}
		p.Add(band)

		line, err := plotter.NewLine(cv.meanLine())
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = lineWidth
		line.LineStyle.Color = seriesColor(i)
		line.LineStyle.Dashes = seriesDashes(i)
		p.Add(line)
		if withLegend {
			p.Legend.Add(s.Label, line)
		}
	}

	if len(series) > 0 {
		mv := measCurve(series[0].Meas, keep)
		if len(mv.dap) > 0 {
			band, err := mv.bandPolygon(measurementColor)
			if err != nil {
				return nil, err
			}
			p.Add(band)

			pts, err := plotter.NewScatter(mv.meanLine())
			if err != nil {
				return nil, err
			}
			pts.GlyphStyle.Color = measurementColor
			pts.GlyphStyle.Radius = vg.Points(2.5)
			p.Add(pts)
			if withLegend {
				p.Legend.Add("Measured", pts)
			}
		}
	}
	return p, nil
}

// GrowthPanels renders the growth comparison figure: one panel row per
// trait and one column per treatment, with a legend in the first panel.
// data maps each (trait, treatment) cell to its calibration series.
func GrowthPanels(data map[GrowthKey][]GrowthSeries, opt GrowthOptions) error {
	if opt.Path == "" {
		return fmt.Errorf("figures: no output path for growth figure")
	}
	rows, cols := len(opt.Variables), len(opt.Treatments)
	if rows == 0 || cols == 0 {
		return fmt.Errorf("figures: growth figure needs traits and treatments")
	}
	keep := genotypeSet(opt.Cultivars)

	const (
		panelWidth  = 5 * vg.Inch
		panelHeight = 3.5 * vg.Inch
	)
	img := vgimg.NewWith(
		vgimg.UseWH(panelWidth*vg.Length(cols), panelHeight*vg.Length(rows)),
		vgimg.UseDPI(dpi),
	)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: 2 * vg.Millimeter, PadY: 2 * vg.Millimeter,
	}

	for r, variable := range opt.Variables {
		for c, treatment := range opt.Treatments {
			series, ok := data[GrowthKey{variable, treatment}]
			if !ok {
				return fmt.Errorf("figures: no series for trait %q under treatment %q",
					variable, treatment)
			}
			p, err := growthPanel(series, opt, variable, treatment, keep,
				r == rows-1, c == 0, r == 0 && c == 0)
			if err != nil {
				return err
			}
			p.Draw(tiles.At(dc, c, r))
		}
	}
	return savePNG(img, opt.Path)
}
