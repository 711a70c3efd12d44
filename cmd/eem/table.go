// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var summaryHeaders = []string{"file", "kind", "rows", "cols", "min", "max", "mean", "total"}

func renderSummary(rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	hdr := make(table.Row, len(summaryHeaders))
	for i, h := range summaryHeaders {
		hdr[i] = h
	}
	tw.AppendHeader(hdr)

	for _, row := range rows {
		r := make(table.Row, len(summaryHeaders))
		for i := range summaryHeaders {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(summaryHeaders))
	for i := range summaryHeaders {
		align := text.AlignLeft
		if i >= 2 {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
