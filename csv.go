// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eem

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/csvutil"
)

// WriteMatrix writes m to fname as a tidy CSV table: one header row with the
// emission axis label followed by the excitation wavelengths, then one row
// per emission wavelength.
func WriteMatrix(fname string, m Matrix) error {
	tbl, err := csvutil.Create(fname)
	if err != nil {
		return errors.Wrapf(err, "eem: could not create output file %q", fname)
	}
	defer tbl.Close()

	tbl.Writer.Comma = ','

	hdr := make([]interface{}, 0, len(m.Excitation)+1)
	hdr = append(hdr, AxisEmission)
	for _, ex := range m.Excitation {
		hdr = append(hdr, fmt.Sprintf("%g", ex))
	}
	err = tbl.WriteRow(hdr...)
	if err != nil {
		return errors.Wrapf(err, "eem: could not write header for %q", fname)
	}

	for i, row := range m.Intensity {
		args := make([]interface{}, 0, len(row)+1)
		args = append(args, m.Emission[i])
		for _, v := range row {
			args = append(args, v)
		}
		err = tbl.WriteRow(args...)
		if err != nil {
			return errors.Wrapf(err, "eem: could not write row %d for %q", i, fname)
		}
	}

	err = tbl.Close()
	if err != nil {
		return errors.Wrapf(err, "eem: could not close output file %q", fname)
	}

	return nil
}

// WriteSpectrum writes s to fname as a two-column CSV table with a header
// row carrying the axis and quantity labels.
func WriteSpectrum(fname string, s Spectrum) error {
	tbl, err := csvutil.Create(fname)
	if err != nil {
		return errors.Wrapf(err, "eem: could not create output file %q", fname)
	}
	defer tbl.Close()

	tbl.Writer.Comma = ','

	err = tbl.WriteRow(s.Axis, s.Quantity)
	if err != nil {
		return errors.Wrapf(err, "eem: could not write header for %q", fname)
	}

	for i := range s.Wavelengths {
		err = tbl.WriteRow(s.Wavelengths[i], s.Values[i])
		if err != nil {
			return errors.Wrapf(err, "eem: could not write row %d for %q", i, fname)
		}
	}

	err = tbl.Close()
	if err != nil {
		return errors.Wrapf(err, "eem: could not close output file %q", fname)
	}

	return nil
}

// LoadXY reads a two-column CSV table of the shape WriteSpectrum produces.
// The first row is assumed to be a header and is skipped.
func LoadXY(r io.Reader) (xs, ys []float64, err error) {
	tbl := &csvutil.Table{
		Reader: csv.NewReader(bufio.NewReader(r)),
	}
	defer tbl.Close()

	rows, err := tbl.ReadRows(1, -1)
	if err != nil {
		return nil, nil, errors.Wrap(err, "eem: could not read rows")
	}
	defer rows.Close()

	id := 0
	for rows.Next() {
		var (
			x float64
			y float64
		)
		err = rows.Scan(&x, &y)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "eem: could not scan row %d", id)
		}
		xs = append(xs, x)
		ys = append(ys, y)
		id++
	}

	if err := rows.Err(); err != nil {
		if err != io.EOF {
			return nil, nil, errors.Wrap(err, "eem: error while processing rows")
		}
	}

	return xs, ys, nil
}
