// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caryeclipse

import (
	"math"
	"strconv"
	"strings"

	"github.com/aqualab/eem"
)

// The 3D export has no explicit row-type marker: scan parameters are
// printed inline between data rows, distinguishable only by their leading
// cell not being a wavelength. dataRowMask classifies every row by whether
// its cell in the leading axis column parses as a number, and reports how
// many rows are data rows.
func dataRowMask(axis []float64) (mask []bool, n int) {
	mask = make([]bool, len(axis))
	for i, v := range axis {
		if !math.IsNaN(v) {
			mask[i] = true
			n++
		}
	}
	return mask, n
}

// excitationWavelength extracts the excitation wavelength from a decorated
// scan label such as "Sample1_EX_350.0": the numeric token after the final
// underscore. A label without underscores must be numeric in full.
func excitationWavelength(label string) (float64, error) {
	tok := label
	if i := strings.LastIndex(label, "_"); i >= 0 {
		tok = label[i+1:]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
	if err != nil {
		return 0, formatErrf("cannot extract excitation wavelength from column label %q", label)
	}
	return v, nil
}

// reshape turns a paired-column table into an excitation-emission matrix.
//
// The raw layout alternates axis and value columns: (axis_1, value_1),
// (axis_2, value_2), ... with one pair per excitation scan. The first axis
// column, named firstAxis, is authoritative for the shared emission axis;
// the later axis columns are redundant copies and are discarded. Pairing is
// strictly positional: header names repeat across pairs and must not drive
// it. Each value column's decorated name carries the scan's excitation
// wavelength.
//
// With validateAxes set, the discarded axis columns are first checked
// against the shared emission axis and any deviation fails loudly instead
// of being silently misaligned.
func reshape(t *Table, firstAxis string, validateAxes bool) (eem.Matrix, error) {
	var m eem.Matrix

	first := -1
	for i, col := range t.Cols {
		if col.Name == firstAxis {
			first = i
			break
		}
	}
	if first < 0 {
		return m, formatErrf("no %q axis column", firstAxis)
	}

	mask, n := dataRowMask(coerce(t.Cols[first].Cells))
	if n == 0 {
		return m, formatErrf("axis column %q holds no numeric rows", firstAxis)
	}

	pick := func(cells []string) []float64 {
		vals := make([]float64, 0, n)
		for i, cell := range cells {
			if mask[i] {
				vals = append(vals, coerceCell(cell))
			}
		}
		return vals
	}

	emission := pick(t.Cols[first].Cells)

	var (
		excitation []float64
		blocks     [][]float64
	)
	for i := first; i+1 < len(t.Cols); i += 2 {
		axis, value := t.Cols[i], t.Cols[i+1]

		if validateAxes && i > first {
			vals := pick(axis.Cells)
			for r, v := range vals {
				if v != emission[r] {
					return m, formatErrf("scan %d: emission axis deviates from the first scan at row %d (%v != %v)",
						len(blocks), r, v, emission[r])
				}
			}
		}

		wl, err := excitationWavelength(value.Name)
		if err != nil {
			return m, err
		}
		excitation = append(excitation, wl)
		blocks = append(blocks, pick(value.Cells))
	}
	if len(blocks) == 0 {
		return m, formatErrf("no intensity columns after %q", firstAxis)
	}

	intensity := make([][]float64, n)
	for r := range intensity {
		row := make([]float64, len(blocks))
		for c, block := range blocks {
			row[c] = block[r]
		}
		intensity[r] = row
	}

	m.Emission = emission
	m.Excitation = excitation
	m.Intensity = intensity
	return m, nil
}
