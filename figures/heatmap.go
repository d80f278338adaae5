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
	"math"
	"strconv"

	"github.com/cropsci/dssateval/metrics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// HeatmapOptions configures the four-metric heatmap figure.
type HeatmapOptions struct {
	Treatment string
	XLabel    string
	YLabel    string
	Path      string
}

// metricGrid adapts a metrics.Table to plotter.GridXYZ. Table row 0 is
// drawn at the top. NaN cells are clamped to min so the palette lookup
// stays defined; annotations for them are suppressed separately.
type metricGrid struct {
	t        *metrics.Table
	min, max float64
}

func (g metricGrid) Dims() (c, r int) { return len(g.t.ColLabels), len(g.t.RowLabels) }
func (g metricGrid) X(c int) float64  { return float64(c) }
func (g metricGrid) Y(r int) float64  { return float64(len(g.t.RowLabels) - 1 - r) }

func (g metricGrid) Z(c, r int) float64 {
	v := g.t.Value(r, c)
	if math.IsNaN(v) {
		return g.min
	}
	if v < g.min {
		return g.min
	}
	if v > g.max {
		return g.max
	}
	return v
}

// tableRange returns the extremes of the non-NaN cells.
func tableRange(t *metrics.Table) (min, max float64) {
	min, max = math.NaN(), math.NaN()
	for _, row := range t.Data {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(min) || v < min {
				min = v
			}
			if math.IsNaN(max) || v > max {
				max = v
			}
		}
	}
	if math.IsNaN(min) {
		min, max = 0, 1
	}
	if min == max {
		max = min + 1
	}
	return min, max
}

// heatPanel builds one annotated heatmap plot of a metric table.
func heatPanel(t *metrics.Table, cm palette.ColorMap, min, max float64,
	xlabel, ylabel string, showYTicks bool) (*plot.Plot, error) {

	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	cm.SetMin(min)
	cm.SetMax(max)
	hm := plotter.NewHeatMap(metricGrid{t: t, min: min, max: max}, cm.Palette(255))
	hm.Min = min
	hm.Max = max
	p.Add(hm)

	xticks := make([]plot.Tick, len(t.ColLabels))
	for i, l := range t.ColLabels {
		xticks[i] = plot.Tick{Value: float64(i), Label: l}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xticks)
	if showYTicks {
		yticks := make([]plot.Tick, len(t.RowLabels))
		for i, l := range t.RowLabels {
			yticks[i] = plot.Tick{
				Value: float64(len(t.RowLabels) - 1 - i),
				Label: PrettyVariableName(l),
			}
		}
		p.Y.Tick.Marker = plot.ConstantTicks(yticks)
	} else {
		p.Y.Tick.Marker = plot.ConstantTicks(nil)
	}
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.X.Tick.Label.Font.Size = tickSize
	p.Y.Tick.Label.Font.Size = tickSize
	p.X.Label.Font.Size = labelSize
	p.Y.Label.Font.Size = labelSize

	if err := annotateCells(p, t); err != nil {
		return nil, err
	}
	return p, nil
}

// annotateCells overlays each non-NaN cell value, rounded to the shared
// decimal count, at the cell center.
func annotateCells(p *plot.Plot, t *metrics.Table) error {
	var xy plotter.XYs
	var labels []string
	for r, row := range t.Data {
		for c, v := range row {
			if math.IsNaN(v) {
				continue
			}
			xy = append(xy, plotter.XY{X: float64(c), Y: float64(len(t.Data) - 1 - r)})
			labels = append(labels, strconv.FormatFloat(v, 'f', metrics.Decimals, 64))
		}
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xy, Labels: labels})
	if err != nil {
		return err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Font.Size = annotSize
		l.TextStyle[i].XAlign = draw.XCenter
		l.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(l)
	return nil
}

// colorBarPanel builds a horizontal colorbar plot titled with the metric
// name.
func colorBarPanel(cm palette.ColorMap, min, max float64, title string) (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	cm.SetMin(min)
	cm.SetMax(max)
	p.Add(&plotter.ColorBar{ColorMap: cm})
	p.HideY()
	p.Title.Text = title
	p.Title.Font.Size = labelSize
	p.X.Tick.Label.Font.Size = tickSize
	return p, nil
}

// MetricHeatmaps renders the four-panel heatmap figure (NRMSE, MPE, R²,
// Gain) for one treatment: a strip of metric colorbars above four
// annotated heatmaps that share the variable axis.
func MetricHeatmaps(nrmse, mpe, r2, gain *metrics.Table, opt HeatmapOptions) error {
	if opt.Path == "" {
		return fmt.Errorf("figures: no output path for heatmap figure")
	}

	nMin, nMax := tableRange(nrmse)
	mMin, mMax := tableRange(mpe)
	rMin, rMax := tableRange(r2)

	// MPE diverges around zero; Gain around one, clamped to [0.5, 1.5].
	mAbs := math.Max(math.Abs(mMin), math.Abs(mMax))
	if mAbs == 0 {
		mAbs = 1
	}

	type panel struct {
		table    *metrics.Table
		cm       palette.ColorMap
		min, max float64
		title    string
	}
	panels := []panel{
		{nrmse, moreland.ExtendedKindlmann(), nMin, nMax, "NRMSE"},
		{mpe, moreland.SmoothBlueRed(), -mAbs, mAbs, "MPE"},
		{r2, moreland.Kindlmann(), rMin, rMax, "R²"},
		{gain, moreland.SmoothBlueRed(), 0.5, 1.5, "Gain"},
	}

	const (
		width     = 16 * vg.Inch
		height    = 7 * vg.Inch
		barHeight = 1.2 * vg.Inch
	)
	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	dc := draw.New(img)

	barRow := draw.Crop(dc, 0, 0, height-barHeight, 0)
	heatRow := draw.Crop(dc, 0, 0, 0, -barHeight)
	tiles := draw.Tiles{Rows: 1, Cols: len(panels), PadX: 2 * vg.Millimeter}

	for i, pn := range panels {
		hp, err := heatPanel(pn.table, pn.cm, pn.min, pn.max, opt.XLabel, pickYLabel(i, opt.YLabel), i == 0)
		if err != nil {
			return err
		}
		hp.Draw(tiles.At(heatRow, i, 0))

		cb, err := colorBarPanel(pn.cm, pn.min, pn.max, pn.title)
		if err != nil {
			return err
		}
		cb.Draw(tiles.At(barRow, i, 0))
	}

	return savePNG(img, opt.Path)
}

// pickYLabel labels only the leftmost panel.
func pickYLabel(col int, label string) string {
	if col == 0 {
		return label
	}
	return ""
}

// GridOptions configures the multi-treatment NRMSE grid figure.
type GridOptions struct {
	Treatments []string
	XLabel     string
	YLabel     string
	Path       string
}

// NRMSEGrid renders one NRMSE heatmap column per treatment with a shared
// color scale taken from the global limits, plus a single colorbar.
func NRMSEGrid(tables map[string]*metrics.Table, limits metrics.Limits, opt GridOptions) error {
	if opt.Path == "" {
		return fmt.Errorf("figures: no output path for NRMSE grid figure")
	}
	if len(opt.Treatments) == 0 {
		return fmt.Errorf("figures: no treatments for NRMSE grid figure")
	}

	const (
		width     = 16 * vg.Inch
		height    = 6 * vg.Inch
		barHeight = 1.2 * vg.Inch
	)
	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	dc := draw.New(img)

	barRow := draw.Crop(dc, 0, 0, height-barHeight, 0)
	heatRow := draw.Crop(dc, 0, 0, 0, -barHeight)
	tiles := draw.Tiles{Rows: 1, Cols: len(opt.Treatments), PadX: 2 * vg.Millimeter}

	cm := moreland.ExtendedKindlmann()
	for i, treatment := range opt.Treatments {
		t, ok := tables[treatment]
		if !ok {
			return fmt.Errorf("figures: no NRMSE table for treatment %q", treatment)
		}
		hp, err := heatPanel(t, moreland.ExtendedKindlmann(), limits.NRMSEMin, limits.NRMSEMax,
			opt.XLabel, pickYLabel(i, opt.YLabel), i == 0)
		if err != nil {
			return err
		}
		hp.Title.Text = treatment
		hp.Title.Font.Size = labelSize
		hp.Draw(tiles.At(heatRow, i, 0))
	}

	cb, err := colorBarPanel(cm, limits.NRMSEMin, limits.NRMSEMax, "NRMSE")
	if err != nil {
		return err
	}
	barTiles := draw.Tiles{Rows: 1, Cols: 3}
	cb.Draw(barTiles.At(barRow, 1, 0))

	return savePNG(img, opt.Path)
}
