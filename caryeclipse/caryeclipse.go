// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package caryeclipse decodes the CSV exports written by the Agilent Cary
// Eclipse fluorescence spectrophotometer: 3D excitation-emission scans,
// absorbance scans and water Raman scans. The decoder only reconstructs a
// structurally valid, axis-labeled view of what the instrument wrote; it
// applies no physical corrections to the data.
package caryeclipse

import (
	"io"
	"os"
	"path/filepath"

	"github.com/aqualab/eem"
	"gonum.org/v1/gonum/floats"
)

// Instrument identity.
const (
	Manufacturer = "Agilent"
	Name         = "cary_eclipse"
)

// SupportedModels lists the instrument models this decoder was written
// against.
var SupportedModels = []string{"Cary Eclipse"}

// Instrument identifies one physical unit.
type Instrument struct {
	Model string
	SN    string
}

// Column labels the instrument writes in single-spectrum exports.
const (
	hdrWavelength = "Wavelength (nm)"
	hdrAbsorbance = "Abs"
	hdrIntensity  = "Intensity (a.u.)"
)

// A Decoder decodes Cary Eclipse exports. The zero value matches the
// instrument software's own assumptions and is ready to use; every decode
// is a pure function of its input stream.
type Decoder struct {
	// ValidateAxes verifies that every excitation scan of a 3D export
	// shares the first scan's emission axis instead of assuming it.
	// Off by default: the raw format repeats the axis per scan and the
	// copies are normally identical.
	ValidateAxes bool
}

// EEM decodes a 3D export: the header names the scans on line 0, line 1
// repeats per-pair "Wavelength (nm)"/"Intensity (a.u.)" labels and is
// skipped, and trailing all-blank rows and columns are pruned before the
// paired columns are reshaped into a matrix.
func (d Decoder) EEM(r io.Reader) (eem.Matrix, error) {
	tbl, err := readTable(r, 0, []int{1}, true)
	if err != nil {
		return eem.Matrix{}, err
	}
	if len(tbl.Cols) == 0 {
		return eem.Matrix{}, &LoadError{Err: io.ErrUnexpectedEOF}
	}
	return reshape(tbl, tbl.Cols[0].Name, d.ValidateAxes)
}

// Absorbance decodes an absorbance export: header on line 1, columns
// "Wavelength (nm)" and "Abs", data cut at the end-of-data gap and sorted
// ascending by wavelength.
func (d Decoder) Absorbance(r io.Reader) (eem.Spectrum, error) {
	return d.spectrum(r, hdrAbsorbance, eem.Spectrum{
		Axis:     eem.AxisExcitation,
		Quantity: eem.QuantityAbsorbance,
	}, true)
}

// WaterRaman decodes a water Raman export: header on line 1, columns
// "Wavelength (nm)" and "Intensity (a.u.)", data cut at the end-of-data
// gap, file order preserved.
func (d Decoder) WaterRaman(r io.Reader) (eem.Spectrum, error) {
	return d.spectrum(r, hdrIntensity, eem.Spectrum{
		Axis:     eem.AxisEmission,
		Quantity: eem.QuantityIntensity,
	}, false)
}

func (d Decoder) spectrum(r io.Reader, valueCol string, s eem.Spectrum, sortAxis bool) (eem.Spectrum, error) {
	tbl, err := readTable(r, 1, nil, false)
	if err != nil {
		return s, err
	}

	wlCol, ok := tbl.column(hdrWavelength)
	if !ok {
		return s, formatErrf("no %q column", hdrWavelength)
	}
	valCol, ok := tbl.column(valueCol)
	if !ok {
		return s, formatErrf("no %q column", valueCol)
	}

	var (
		wl   = coerce(wlCol.Cells)
		vals = coerce(valCol.Cells)
		n    = validPrefix(vals)
	)
	wl, vals = wl[:n], vals[:n]

	if sortAxis {
		inds := make([]int, len(wl))
		floats.Argsort(wl, inds)
		sorted := make([]float64, len(vals))
		for i, j := range inds {
			sorted[i] = vals[j]
		}
		vals = sorted
	}

	s.Wavelengths = wl
	s.Values = vals
	return s, nil
}

// ParseEEM decodes a 3D export from r with the default decoder.
func ParseEEM(r io.Reader) (eem.Matrix, error) {
	return Decoder{}.EEM(r)
}

// ParseAbsorbance decodes an absorbance export from r.
func ParseAbsorbance(r io.Reader) (eem.Spectrum, error) {
	return Decoder{}.Absorbance(r)
}

// ParseWaterRaman decodes a water Raman export from r.
func ParseWaterRaman(r io.Reader) (eem.Spectrum, error) {
	return Decoder{}.WaterRaman(r)
}

// LoadEEM decodes the 3D export file at fname.
func (d Decoder) LoadEEM(fname string) (eem.Matrix, error) {
	var m eem.Matrix
	err := loadFile(fname, func(f *os.File) error {
		var err error
		m, err = d.EEM(f)
		return err
	})
	if err != nil {
		return m, err
	}
	m.Name = filepath.Base(fname)
	return m, nil
}

// LoadAbsorbance decodes the absorbance export file at fname.
func (d Decoder) LoadAbsorbance(fname string) (eem.Spectrum, error) {
	return loadSpectrum(fname, d.Absorbance)
}

// LoadWaterRaman decodes the water Raman export file at fname.
func (d Decoder) LoadWaterRaman(fname string) (eem.Spectrum, error) {
	return loadSpectrum(fname, d.WaterRaman)
}

// LoadEEM decodes the 3D export file at fname with the default decoder.
func LoadEEM(fname string) (eem.Matrix, error) {
	return Decoder{}.LoadEEM(fname)
}

// LoadAbsorbance decodes the absorbance export file at fname.
func LoadAbsorbance(fname string) (eem.Spectrum, error) {
	return Decoder{}.LoadAbsorbance(fname)
}

// LoadWaterRaman decodes the water Raman export file at fname.
func LoadWaterRaman(fname string) (eem.Spectrum, error) {
	return Decoder{}.LoadWaterRaman(fname)
}

// LoadSpectralCorrections should load the instrument's spectral correction
// factors. It is not implemented and always fails with ErrNotSupported;
// callers must not depend on it.
func LoadSpectralCorrections() error {
	return ErrNotSupported
}

func loadSpectrum(fname string, parse func(io.Reader) (eem.Spectrum, error)) (eem.Spectrum, error) {
	var s eem.Spectrum
	err := loadFile(fname, func(f *os.File) error {
		var err error
		s, err = parse(f)
		return err
	})
	if err != nil {
		return s, err
	}
	s.Name = filepath.Base(fname)
	return s, nil
}

func loadFile(fname string, decode func(*os.File) error) error {
	f, err := os.Open(fname)
	if err != nil {
		return &LoadError{Path: fname, Err: err}
	}
	defer f.Close()
	return decode(f)
}
