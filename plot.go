// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eem

import (
	"fmt"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Plot draws the provided excitation-emission matrix on the provided canvas:
// the total intensity per excitation scan on top, the full matrix as a
// heatmap below. Axes are expected in increasing order (see Matrix.Sorted).
func Plot(dc draw.Canvas, m Matrix) error {
	var err error

	err = topPlot(dc, m)
	if err != nil {
		return err
	}

	err = bottomPlot(dc, m)
	if err != nil {
		return err
	}

	return nil
}

func topPlot(dc draw.Canvas, m Matrix) error {
	var (
		pt     = dc.Size()
		height = pt.Y
		width  = pt.X
	)

	top := draw.Canvas{
		Canvas: dc,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: 0, Y: 0.6 * height},
			Max: vg.Point{X: width, Y: height},
		},
	}

	p := hplot.New()
	p.Title.Text = fmt.Sprintf("%s -- %dx%d", m.Name, len(m.Emission), len(m.Excitation))
	p.X.Label.Text = AxisExcitation
	p.Y.Label.Text = "total " + QuantityIntensity

	line, err := hplot.NewLine(hplot.ZipXY(m.Excitation, m.scanTotals()))
	if err != nil {
		return errors.Wrap(err, "eem: could not create new-line")
	}
	line.LineStyle.Color = color.RGBA{R: 255, A: 255}

	p.Add(line, hplot.NewGrid())
	p.Draw(top)

	return nil
}

func bottomPlot(dc draw.Canvas, m Matrix) error {
	var (
		pt     = dc.Size()
		height = pt.Y
		width  = pt.X
	)

	bottom := draw.Canvas{
		Canvas: dc,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: 0, Y: 0},
			Max: vg.Point{X: width, Y: 0.6 * height},
		},
	}

	p := hplot.New()
	p.X.Label.Text = AxisExcitation
	p.Y.Label.Text = AxisEmission
	pal := palette.Rainbow(255, 0, 1, 1, 1, 1)
	hmap := plotter.NewHeatMap(m, pal)
	hmap.NaN = color.Black
	p.Add(hmap)
	p.Draw(bottom)

	return nil
}

// scanTotals sums the intensity of each excitation scan, skipping NaN cells
// so that a few missing measurements do not blank a whole column.
func (m Matrix) scanTotals() []float64 {
	totals := make([]float64, len(m.Excitation))
	for j := range totals {
		col := make([]float64, 0, len(m.Emission))
		for i := range m.Emission {
			v := m.Intensity[i][j]
			if !math.IsNaN(v) {
				col = append(col, v)
			}
		}
		totals[j] = floats.Sum(col)
	}
	return totals
}

var (
	_ plotter.GridXYZ = (*Matrix)(nil)
	_ plotter.XYer    = (*Spectrum)(nil)
)
