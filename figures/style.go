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

// Package figures renders the calibration-evaluation figures: metric
// heatmaps, parameter barplots, and growth time-series panels. All
// figures are static PNG files.
package figures

import (
	"image/color"
	"os"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
)

func init() {
	plot.DefaultFont = "Helvetica"
}

// Calibration series colors, cycled by calibration index.
var calibrationColors = []color.Color{
	color.NRGBA{0x1f, 0x77, 0xb4, 0xff},
	color.NRGBA{0xd6, 0x27, 0x28, 0xff},
	color.NRGBA{0x2c, 0xa0, 0x2c, 0xff},
	color.NRGBA{0xff, 0x7f, 0x0e, 0xff},
	color.NRGBA{0x94, 0x67, 0xbd, 0xff},
	color.NRGBA{0x17, 0xbe, 0xcf, 0xff},
	color.NRGBA{0x8c, 0x56, 0x4b, 0xff},
	color.NRGBA{0xe3, 0x77, 0xc2, 0xff},
	color.NRGBA{0x7f, 0x7f, 0x7f, 0xff},
	color.NRGBA{0xbc, 0xbd, 0x22, 0xff},
}

// Dash patterns, cycled alongside the colors so series stay
// distinguishable in grayscale.
var calibrationDashes = [][]vg.Length{
	nil,
	{vg.Points(4), vg.Points(2)},
	{vg.Points(2), vg.Points(2), vg.Points(8), vg.Points(2)},
	{vg.Points(1), vg.Points(1)},
	{vg.Points(6), vg.Points(3)},
	{vg.Points(3), vg.Points(1), vg.Points(1), vg.Points(1)},
}

// measurementColor is used for the measured-data band overlays.
var measurementColor = color.NRGBA{0xd6, 0x27, 0x28, 0xff}

var (
	lineWidth  = vg.Points(2)
	labelSize  = vg.Points(11)
	tickSize   = vg.Points(9)
	annotSize  = vg.Points(8)
	legendSize = vg.Points(9)
)

const (
	dpi       = 300
	bandAlpha = 0x33
)

// Bar layout of the grouped barplots, in category units: one group
// covers totalBarWidth of its slot, with barGap between adjacent bars.
const (
	totalBarWidth = 0.7
	barGap        = 0.02
)

// seriesColor and seriesDashes cycle the shared style tables.
func seriesColor(i int) color.Color { return calibrationColors[i%len(calibrationColors)] }

func seriesDashes(i int) []vg.Length { return calibrationDashes[i%len(calibrationDashes)] }

// withAlpha copies c with the given alpha.
func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), a}
}

// PrettyVariableName rewrites unit suffixes in a variable name with
// superscript notation for axis labels, e.g. "kg/ha" to "kg ha⁻¹".
func PrettyVariableName(name string) string {
	replacements := []struct{ old, new string }{
		{"kg/ha/day", "kg ha⁻¹ day⁻¹"},
		{"g/m2", "g m⁻²"},
		{"kg/ha", "kg ha⁻¹"},
		{"g/MJ", "g MJ⁻¹"},
		{"m2", "m⁻²"},
	}
	for _, r := range replacements {
		name = strings.Replace(name, r.old, r.new, -1)
	}
	return name
}

// savePNG writes a finished canvas to path.
func savePNG(c *vgimg.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
