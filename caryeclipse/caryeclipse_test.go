// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caryeclipse

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqualab/eem"
)

func TestLoadEEM(t *testing.T) {
	m, err := LoadEEM(filepath.Join("testdata", "sample_eem.csv"))
	require.NoError(t, err)

	assert.Equal(t, "sample_eem.csv", m.Name)
	assert.Equal(t, []float64{300, 305, 310, 315}, m.Emission)
	assert.Equal(t, []float64{240, 245, 250}, m.Excitation)

	require.Len(t, m.Intensity, len(m.Emission))
	for _, row := range m.Intensity {
		require.Len(t, row, len(m.Excitation))
	}

	assert.Equal(t, 1.1, m.Intensity[0][0])
	assert.Equal(t, 3.4, m.Intensity[3][2])
	assert.True(t, math.IsNaN(m.Intensity[2][1]), "overflow marker decodes to NaN")
}

func TestLoadEEMDeterministic(t *testing.T) {
	fname := filepath.Join("testdata", "sample_eem.csv")

	a, err := LoadEEM(fname)
	require.NoError(t, err)
	b, err := LoadEEM(fname)
	require.NoError(t, err)

	assert.Equal(t, a.Emission, b.Emission)
	assert.Equal(t, a.Excitation, b.Excitation)
	require.Len(t, b.Intensity, len(a.Intensity))
	for i := range a.Intensity {
		for j := range a.Intensity[i] {
			va, vb := a.Intensity[i][j], b.Intensity[i][j]
			if math.IsNaN(va) {
				assert.True(t, math.IsNaN(vb))
				continue
			}
			assert.Equal(t, va, vb)
		}
	}
}

func TestLoadEEMValidated(t *testing.T) {
	dec := Decoder{ValidateAxes: true}
	_, err := dec.LoadEEM(filepath.Join("testdata", "sample_eem.csv"))
	require.NoError(t, err, "axis copies in the export are identical")
}

func TestParseEEMMalformed(t *testing.T) {
	const raw = "a,b\n" +
		"Wavelength (nm),Intensity (a.u.)\n" +
		"x,y\n" +
		"u,v\n"

	_, err := ParseEEM(strings.NewReader(raw))
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr, "non-numeric axis column must not decode to an empty matrix")
}

func TestLoadAbsorbance(t *testing.T) {
	s, err := LoadAbsorbance(filepath.Join("testdata", "sample_absorbance.csv"))
	require.NoError(t, err)

	assert.Equal(t, "sample_absorbance.csv", s.Name)
	assert.Equal(t, eem.AxisExcitation, s.Axis)
	assert.Equal(t, eem.QuantityAbsorbance, s.Quantity)

	// Truncated at the end-of-data gap (one buffer row dropped too),
	// then sorted ascending by wavelength.
	assert.Equal(t, []float64{585, 590, 595, 600}, s.Wavelengths)
	assert.Equal(t, []float64{0.033, 0.028, 0.024, 0.021}, s.Values)
}

func TestLoadWaterRaman(t *testing.T) {
	s, err := LoadWaterRaman(filepath.Join("testdata", "sample_water_raman.csv"))
	require.NoError(t, err)

	assert.Equal(t, eem.AxisEmission, s.Axis)
	assert.Equal(t, eem.QuantityIntensity, s.Quantity)

	// File order is preserved for Raman scans.
	assert.Equal(t, []float64{365, 366, 367, 368}, s.Wavelengths)
	assert.Equal(t, []float64{12.5, 13.1, 14.0, 14.8}, s.Values)
}

func TestSpectrumMissingColumn(t *testing.T) {
	const raw = "title,\n" +
		"Wavelength (nm),Emission\n" +
		"600,0.1\n"

	_, err := ParseAbsorbance(strings.NewReader(raw))
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadEEM(filepath.Join("testdata", "no-such-file.csv"))
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Contains(t, lerr.Path, "no-such-file.csv")
}

func TestLoadSpectralCorrections(t *testing.T) {
	err := LoadSpectralCorrections()
	require.ErrorIs(t, err, ErrNotSupported)
}
