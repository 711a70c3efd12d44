// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eem provides typed representations of fluorescence
// excitation-emission data and helpers to reduce, export and plot them.
package eem

import (
	"gonum.org/v1/gonum/floats"
)

// Normalized axis and quantity labels used across decoded structures.
const (
	AxisEmission   = "emission_wavelength"
	AxisExcitation = "excitation_wavelength"

	QuantityAbsorbance = "absorbance"
	QuantityIntensity  = "intensity"
)

// Matrix is an excitation-emission matrix: fluorescence intensity as a
// function of emission wavelength (rows) and excitation wavelength (columns).
// Missing measurements are NaN, never zero.
type Matrix struct {
	Name string // provenance, usually the input file name

	Emission   []float64   // emission wavelengths (nm), one per row
	Excitation []float64   // excitation wavelengths (nm), one per column
	Intensity  [][]float64 // Intensity[i][j] at (Emission[i], Excitation[j])
}

func (m Matrix) Dims() (c, r int)   { return len(m.Excitation), len(m.Emission) }
func (m Matrix) Z(c, r int) float64 { return m.Intensity[r][c] }
func (m Matrix) X(c int) float64    { return m.Excitation[c] }
func (m Matrix) Y(r int) float64    { return m.Emission[r] }

// Sorted returns a copy of m with both wavelength axes in increasing order
// and the intensity grid permuted accordingly. The decoder keeps axes in
// file order; consumers needing monotonic axes (heatmaps, interpolation)
// reorder through this.
func (m Matrix) Sorted() Matrix {
	var (
		em    = append([]float64(nil), m.Emission...)
		ex    = append([]float64(nil), m.Excitation...)
		emIdx = make([]int, len(em))
		exIdx = make([]int, len(ex))
	)
	floats.Argsort(em, emIdx)
	floats.Argsort(ex, exIdx)

	grid := make([][]float64, len(em))
	for i, ei := range emIdx {
		row := make([]float64, len(ex))
		for j, ej := range exIdx {
			row[j] = m.Intensity[ei][ej]
		}
		grid[i] = row
	}

	return Matrix{
		Name:       m.Name,
		Emission:   em,
		Excitation: ex,
		Intensity:  grid,
	}
}

// RegionalIntegration reduces an excitation-emission matrix to a single
// scalar by summing every intensity over the full spectral region.
// NaN cells propagate into the result.
func RegionalIntegration(m Matrix) float64 {
	sum := 0.0
	for _, row := range m.Intensity {
		sum += floats.Sum(row)
	}
	return sum
}

// Spectrum is a single-axis spectrum: one wavelength axis and one measured
// quantity, such as an absorbance scan or a water Raman scan.
type Spectrum struct {
	Name     string
	Axis     string // axis label, e.g. AxisExcitation
	Quantity string // value label, e.g. QuantityAbsorbance

	Wavelengths []float64
	Values      []float64
}

func (s Spectrum) Len() int                { return len(s.Wavelengths) }
func (s Spectrum) XY(i int) (x, y float64) { return s.Wavelengths[i], s.Values[i] }
