// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caryeclipse

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Column is one named column of raw cells, in file order. Header names are
// not unique in this format: repeated scan blocks reuse the same label, so
// columns must always be addressed positionally once pairing starts.
type Column struct {
	Name  string
	Cells []string
}

// Table is the untyped view of one export file: ordered columns of raw
// cells below a header row.
type Table struct {
	Cols []Column
}

func (t *Table) rows() int {
	if len(t.Cols) == 0 {
		return 0
	}
	return len(t.Cols[0].Cells)
}

// column returns the first column carrying the given header name.
func (t *Table) column(name string) (Column, bool) {
	for _, col := range t.Cols {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// readTable reads a delimited export into an untyped table. The header is
// taken from file line headerLine; lines before it are ignored and the file
// lines listed in skipLines are dropped (the instrument repeats a
// "Wavelength (nm)"/"Intensity (a.u.)" sub-header right below the real
// header of a 3D export). Records are padded or cut to the header width.
// With dropBlank set, rows and columns whose every cell is blank are
// removed: trailing padding the instrument appends for no reason.
func readTable(r io.Reader, headerLine int, skipLines []int, dropBlank bool) (*Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1

	recs, err := cr.ReadAll()
	if err != nil {
		return nil, &LoadError{Err: errors.Wrap(err, "could not read records")}
	}
	if headerLine >= len(recs) {
		return nil, &LoadError{Err: errors.Errorf("no header row at line %d", headerLine)}
	}

	hdr := recs[headerLine]
	if len(hdr) == 0 {
		return nil, &LoadError{Err: errors.New("header row yields zero columns")}
	}

	skip := make(map[int]struct{}, len(skipLines))
	for _, i := range skipLines {
		skip[i] = struct{}{}
	}

	cols := make([]Column, len(hdr))
	for i, name := range hdr {
		cols[i].Name = strings.TrimSpace(name)
	}
	for i := headerLine + 1; i < len(recs); i++ {
		if _, ok := skip[i]; ok {
			continue
		}
		rec := recs[i]
		for j := range cols {
			cell := ""
			if j < len(rec) {
				cell = strings.TrimSpace(rec[j])
			}
			cols[j].Cells = append(cols[j].Cells, cell)
		}
	}

	tbl := &Table{Cols: cols}
	if dropBlank {
		tbl.dropBlankRows()
		tbl.dropBlankCols()
	}
	return tbl, nil
}

func (t *Table) dropBlankRows() {
	n := t.rows()
	keep := make([]bool, n)
	for i := 0; i < n; i++ {
		for _, col := range t.Cols {
			if col.Cells[i] != "" {
				keep[i] = true
				break
			}
		}
	}
	for ci := range t.Cols {
		cells := t.Cols[ci].Cells[:0]
		for i, cell := range t.Cols[ci].Cells {
			if keep[i] {
				cells = append(cells, cell)
			}
		}
		t.Cols[ci].Cells = cells
	}
}

func (t *Table) dropBlankCols() {
	if t.rows() == 0 {
		return
	}
	cols := t.Cols[:0]
	for _, col := range t.Cols {
		blank := true
		for _, cell := range col.Cells {
			if cell != "" {
				blank = false
				break
			}
		}
		if !blank {
			cols = append(cols, col)
		}
	}
	t.Cols = cols
}

// coerce maps a column of raw cells to floats, degrading anything
// non-numeric (blank cells, stray annotation text, "######" overflow
// markers) to NaN. Coercion never fails: rejecting a whole file over a few
// unparseable cells would be worse than a missing value.
func coerce(cells []string) []float64 {
	vals := make([]float64, len(cells))
	for i, cell := range cells {
		vals[i] = coerceCell(cell)
	}
	return vals
}

func coerceCell(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
