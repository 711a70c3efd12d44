// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caryeclipse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcitationWavelength(t *testing.T) {
	for _, tc := range []struct {
		label string
		want  float64
	}{
		{"Sample1_EX_350.0", 350},
		{"EX_400", 400},
		{"400", 400},
		{"a_b_272.5", 272.5},
	} {
		t.Run(tc.label, func(t *testing.T) {
			got, err := excitationWavelength(tc.label)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, label := range []string{"", "Sample1_EX_foo", "EX_", "Intensity (a.u.)"} {
		t.Run("bad-"+label, func(t *testing.T) {
			_, err := excitationWavelength(label)
			var ferr *FormatError
			require.ErrorAs(t, err, &ferr)
		})
	}
}

func TestReshape(t *testing.T) {
	tbl := &Table{Cols: []Column{
		{Name: "EmWL", Cells: []string{"300", "Params:", "310"}},
		{Name: "EX_400", Cells: []string{"1.0", "x", "2.0"}},
		{Name: "EmWL", Cells: []string{"300", "", "310"}},
		{Name: "EX_450", Cells: []string{"3.0", "", "4.0"}},
	}}

	m, err := reshape(tbl, "EmWL", false)
	require.NoError(t, err)

	// The metadata row is dropped from every column uniformly.
	assert.Equal(t, []float64{300, 310}, m.Emission)
	assert.Equal(t, []float64{400, 450}, m.Excitation)
	require.Len(t, m.Intensity, 2)
	assert.Equal(t, []float64{1, 3}, m.Intensity[0])
	assert.Equal(t, []float64{2, 4}, m.Intensity[1])
}

func TestReshapeDuplicateValueNames(t *testing.T) {
	// Pairing is positional: repeated labels must not collapse blocks.
	tbl := &Table{Cols: []Column{
		{Name: "EmWL", Cells: []string{"300", "310"}},
		{Name: "S_EX_400", Cells: []string{"1", "2"}},
		{Name: "EmWL", Cells: []string{"300", "310"}},
		{Name: "S_EX_400", Cells: []string{"3", "4"}},
	}}

	m, err := reshape(tbl, "EmWL", false)
	require.NoError(t, err)
	assert.Equal(t, []float64{400, 400}, m.Excitation)
	assert.Equal(t, []float64{1, 3}, m.Intensity[0])
	assert.Equal(t, []float64{2, 4}, m.Intensity[1])
}

func TestReshapeAxisValidation(t *testing.T) {
	tbl := &Table{Cols: []Column{
		{Name: "EmWL", Cells: []string{"300", "310"}},
		{Name: "EX_400", Cells: []string{"1", "2"}},
		{Name: "EmWL", Cells: []string{"300", "311"}},
		{Name: "EX_450", Cells: []string{"3", "4"}},
	}}

	_, err := reshape(tbl, "EmWL", false)
	require.NoError(t, err, "drifted axis copies pass without validation")

	_, err = reshape(tbl, "EmWL", true)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Reason, "deviates")
}

func TestReshapeErrors(t *testing.T) {
	t.Run("non-numeric-axis", func(t *testing.T) {
		tbl := &Table{Cols: []Column{
			{Name: "EmWL", Cells: []string{"a", "b"}},
			{Name: "EX_400", Cells: []string{"1", "2"}},
		}}
		_, err := reshape(tbl, "EmWL", false)
		var ferr *FormatError
		require.ErrorAs(t, err, &ferr)
	})

	t.Run("no-value-columns", func(t *testing.T) {
		tbl := &Table{Cols: []Column{
			{Name: "EmWL", Cells: []string{"300", "310"}},
		}}
		_, err := reshape(tbl, "EmWL", false)
		var ferr *FormatError
		require.ErrorAs(t, err, &ferr)
	})

	t.Run("unknown-axis-name", func(t *testing.T) {
		tbl := &Table{Cols: []Column{
			{Name: "EmWL", Cells: []string{"300"}},
			{Name: "EX_400", Cells: []string{"1"}},
		}}
		_, err := reshape(tbl, "nope", false)
		var ferr *FormatError
		require.ErrorAs(t, err, &ferr)
	})
}
