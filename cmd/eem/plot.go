// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image/color"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"

	"github.com/aqualab/eem"
)

func plotSpectrum(oname string, s eem.Spectrum) error {
	p := hplot.New()
	p.Title.Text = s.Name
	p.X.Label.Text = s.Axis
	p.Y.Label.Text = s.Quantity

	line, err := hplot.NewLine(s)
	if err != nil {
		return errors.Wrap(err, "could not create new-line")
	}
	line.LineStyle.Color = color.RGBA{R: 255, A: 255}
	p.Add(line, hplot.NewGrid())

	err = p.Save(20*vg.Centimeter, 15*vg.Centimeter, oname)
	if err != nil {
		return errors.Wrapf(err, "could not save plot file %q", oname)
	}
	return nil
}
