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

	"github.com/cropsci/dssateval"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// BarplotOptions configures the parameter-change barplot figure.
type BarplotOptions struct {
	// Steps are drawn as vertically stacked panels, in order.
	Steps []string
	// StepTitles maps a step to its panel title. Steps without an entry
	// use the step name itself.
	StepTitles map[string]string
	// Ecotypes fixes the bar order within each parameter group.
	Ecotypes []string
	// Parameters fixes the category order along the x axis.
	Parameters []string
	YLabel     string
	Path       string
}

// barLayout returns the width of one bar and the center offset of each
// of n bars relative to the category position, with barGap between
// neighboring bars.
func barLayout(n int) (width float64, offsets []float64) {
	width = (totalBarWidth - float64(n-1)*barGap) / float64(n)
	offsets = make([]float64, n)
	base := -0.5 * float64(n-1) * (width + barGap)
	for j := range offsets {
		offsets[j] = base + float64(j)*(width+barGap)
	}
	return width, offsets
}

// swatch is a filled rectangle legend thumbnail for one ecotype.
type swatch struct{ color.Color }

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.Color, c.ClipPolygonY(pts))
}

// barErrors feeds YErrorBars from per-bar standard errors.
type barErrors struct {
	xys  plotter.XYs
	errs []float64
}

func (b barErrors) Len() int                    { return len(b.xys) }
func (b barErrors) XY(i int) (float64, float64) { return b.xys[i].X, b.xys[i].Y }
func (b barErrors) YError(i int) (float64, float64) {
	return b.errs[i], b.errs[i]
}

// barPolygon builds one filled bar spanning [x-w/2, x+w/2] from zero to
// height, in data space.
func barPolygon(x, w, height float64, c color.Color) (*plotter.Polygon, error) {
	poly, err := plotter.NewPolygon(plotter.XYs{
		{X: x - w/2, Y: 0},
		{X: x + w/2, Y: 0},
		{X: x + w/2, Y: height},
		{X: x - w/2, Y: height},
	})
	if err != nil {
		return nil, err
	}
	poly.Color = c
	poly.LineStyle.Color = color.Black
	poly.LineStyle.Width = vg.Points(0.5)
	return poly, nil
}

// stepPanel builds one step's grouped bar panel with error bars and a
// zero reference line.
func stepPanel(summaries []dssateval.ChangeSummary, opt BarplotOptions,
	step string, showXTicks bool) (*plot.Plot, error) {

	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	title := opt.StepTitles[step]
	if title == "" {
		title = step
	}
	p.Title.Text = title
	p.Title.Font.Size = labelSize
	p.Y.Label.Text = opt.YLabel
	p.Y.Label.Font.Size = labelSize
	p.Y.Tick.Label.Font.Size = tickSize
	p.X.Tick.Label.Font.Size = tickSize
	p.Legend.Font.Size = legendSize
	p.Legend.Top = true

	byKey := make(map[[2]string]dssateval.ChangeSummary)
	for _, s := range summaries {
		if s.Step == step {
			byKey[[2]string{s.Ecotype, s.Parameter}] = s
		}
	}

	barWidth, offsets := barLayout(len(opt.Ecotypes))
	var errXYs plotter.XYs
	var errVals []float64
	for j, ecotype := range opt.Ecotypes {
		drawn := false
		for i, param := range opt.Parameters {
			s, ok := byKey[[2]string{ecotype, param}]
			if !ok || math.IsNaN(s.Mean) {
				continue
			}
			x := float64(i) + offsets[j]
			bar, err := barPolygon(x, barWidth, s.Mean, seriesColor(j))
			if err != nil {
				return nil, err
			}
			p.Add(bar)
			drawn = true
			if s.StdErr > 0 {
				errXYs = append(errXYs, plotter.XY{X: x, Y: s.Mean})
				errVals = append(errVals, s.StdErr)
			}
		}
		if drawn {
			p.Legend.Add(ecotype, swatch{seriesColor(j)})
		}
	}

	if len(errXYs) > 0 {
		eb, err := plotter.NewYErrorBars(barErrors{xys: errXYs, errs: errVals})
		if err != nil {
			return nil, err
		}
		eb.LineStyle.Width = vg.Points(1)
		p.Add(eb)
	}

	zero, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: 0},
		{X: float64(len(opt.Parameters)) - 0.5, Y: 0},
	})
	if err != nil {
		return nil, err
	}
	zero.LineStyle.Width = vg.Points(0.5)
	zero.LineStyle.Color = color.Black
	p.Add(zero)

	p.X.Min = -0.5
	p.X.Max = float64(len(opt.Parameters)) - 0.5
	if showXTicks {
		ticks := make([]plot.Tick, len(opt.Parameters))
		for i, param := range opt.Parameters {
			ticks[i] = plot.Tick{Value: float64(i), Label: param}
		}
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	} else {
		p.X.Tick.Marker = plot.ConstantTicks(nil)
	}
	return p, nil
}

// ParameterBarplot renders per-step panels of mean ± standard error
// percent parameter changes, grouped by ecotype within each parameter.
func ParameterBarplot(summaries []dssateval.ChangeSummary, opt BarplotOptions) error {
	if opt.Path == "" {
		return fmt.Errorf("figures: no output path for barplot figure")
	}
	if len(opt.Steps) == 0 || len(opt.Ecotypes) == 0 || len(opt.Parameters) == 0 {
		return fmt.Errorf("figures: barplot needs steps, ecotypes, and parameters")
	}

	const (
		width       = 8 * vg.Inch
		panelHeight = 3 * vg.Inch
	)
	height := panelHeight * vg.Length(len(opt.Steps))
	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: len(opt.Steps), Cols: 1, PadY: 2 * vg.Millimeter}

	for i, step := range opt.Steps {
		p, err := stepPanel(summaries, opt, step, i == len(opt.Steps)-1)
		if err != nil {
			return err
		}
		p.Draw(tiles.At(dc, 0, i))
	}
	return savePNG(img, opt.Path)
}
