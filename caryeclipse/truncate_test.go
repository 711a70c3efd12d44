// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caryeclipse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPrefix(t *testing.T) {
	nan := math.NaN()

	for _, tc := range []struct {
		name string
		vals []float64
		want int
	}{
		{
			name: "gap-with-buffer-row",
			vals: []float64{1.0, 2.0, nan, nan, 3.0},
			want: 1,
		},
		{
			name: "no-missing",
			vals: []float64{1, 2, 3, 4, 5},
			want: 5,
		},
		{
			name: "missing-first",
			vals: []float64{nan, 1, 2},
			want: 0,
		},
		{
			name: "missing-second",
			vals: []float64{1, nan, 2},
			want: 0,
		},
		{
			name: "empty",
			vals: nil,
			want: 0,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, validPrefix(tc.vals))
		})
	}
}
