// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caryeclipse

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceCell(t *testing.T) {
	for _, tc := range []struct {
		cell string
		want float64
	}{
		{"1.5", 1.5},
		{" 2.0 ", 2.0},
		{"-3e2", -300},
		{"", math.NaN()},
		{"######", math.NaN()},
		{"Ex. Slit (nm)", math.NaN()},
	} {
		got := coerceCell(tc.cell)
		if math.IsNaN(tc.want) {
			assert.True(t, math.IsNaN(got), "coerce(%q)", tc.cell)
			continue
		}
		assert.Equal(t, tc.want, got, "coerce(%q)", tc.cell)
	}
}

func TestReadTable(t *testing.T) {
	const raw = "title,\n" +
		"a,b\n" +
		"skip,me\n" +
		"1,2\n" +
		"3\n" +
		"4,5,6\n"

	tbl, err := readTable(strings.NewReader(raw), 1, []int{2}, false)
	require.NoError(t, err)

	require.Len(t, tbl.Cols, 2)
	assert.Equal(t, "a", tbl.Cols[0].Name)
	assert.Equal(t, "b", tbl.Cols[1].Name)
	// Ragged records are padded or cut to the header width.
	assert.Equal(t, []string{"1", "3", "4"}, tbl.Cols[0].Cells)
	assert.Equal(t, []string{"2", "", "5"}, tbl.Cols[1].Cells)
}

func TestReadTableDropBlank(t *testing.T) {
	const raw = "a,b,\n" +
		"1,2,\n" +
		",,\n" +
		"3,4,\n"

	tbl, err := readTable(strings.NewReader(raw), 0, nil, true)
	require.NoError(t, err)

	require.Len(t, tbl.Cols, 2, "trailing all-blank column is pruned")
	assert.Equal(t, []string{"1", "3"}, tbl.Cols[0].Cells, "all-blank row is pruned")
	assert.Equal(t, []string{"2", "4"}, tbl.Cols[1].Cells)
}

func TestReadTableErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := readTable(strings.NewReader(""), 0, nil, false)
		var lerr *LoadError
		require.ErrorAs(t, err, &lerr)
	})

	t.Run("header-past-eof", func(t *testing.T) {
		_, err := readTable(strings.NewReader("only,one,line\n"), 1, nil, false)
		var lerr *LoadError
		require.ErrorAs(t, err, &lerr)
	})
}
