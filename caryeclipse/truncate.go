// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caryeclipse

import "math"

// validPrefix returns the number of leading rows of a single-spectrum value
// column that hold real measurements. The instrument writes one blank
// buffer row before the end-of-data gap, so the row right before the first
// missing cell is dropped as well: with the first NaN at index i the prefix
// is [0, i-1). A column without missing cells is valid in full.
//
// The scan assumes the column has no legitimate internal gaps; a missing
// measurement mid-spectrum reads as end-of-data.
func validPrefix(vals []float64) int {
	for i, v := range vals {
		if math.IsNaN(v) {
			if i < 1 {
				return 0
			}
			return i - 1
		}
	}
	return len(vals)
}
