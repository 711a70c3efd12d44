// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command eem decodes Cary Eclipse spectrophotometer exports into tidy CSV
// tables and preview plots, and prints a summary of every decoded file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/aqualab/eem"
	"github.com/aqualab/eem/caryeclipse"
)

func main() {
	log.SetPrefix("eem: ")
	log.SetFlags(0)

	var (
		kind   = flag.String("kind", "auto", "export kind: auto, eem, absorbance, raman")
		check  = flag.Bool("check", false, "verify every excitation scan shares the first scan's emission axis")
		noPlot = flag.Bool("no-plot", false, "skip the PNG preview plot")
		outDir = flag.String("o", "", "output directory (default: next to each input file)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: eem [options] file.csv [file.csv...]

ex:

 $> eem -kind eem sample_3D.csv
 $> eem -check -o out scans/*.csv

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatal("missing input file(s)")
	}

	var (
		grp  errgroup.Group
		mu   sync.Mutex
		rows = make([][]string, flag.NArg())
	)
	for i, fname := range flag.Args() {
		i, fname := i, fname
		grp.Go(func() error {
			row, err := process(fname, *kind, *check, !*noPlot, *outDir)
			if err != nil {
				return errors.Wrapf(err, "could not process %q", fname)
			}
			mu.Lock()
			rows[i] = row
			mu.Unlock()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		log.Fatal(err)
	}

	fmt.Println(renderSummary(rows))
}

func process(fname, kind string, check, plot bool, outDir string) ([]string, error) {
	if kind == "auto" {
		var err error
		kind, err = sniff(fname)
		if err != nil {
			return nil, err
		}
	}

	var (
		dec  = caryeclipse.Decoder{ValidateAxes: check}
		base = strings.TrimSuffix(filepath.Base(fname), filepath.Ext(fname))
		dir  = outDir
	)
	if dir == "" {
		dir = filepath.Dir(fname)
	}
	oname := func(suffix string) string { return filepath.Join(dir, base+suffix) }

	switch kind {
	case "eem":
		m, err := dec.LoadEEM(fname)
		if err != nil {
			return nil, err
		}
		err = eem.WriteMatrix(oname(".tidy.csv"), m)
		if err != nil {
			return nil, err
		}
		if plot {
			err = plotMatrix(oname(".png"), m.Sorted())
			if err != nil {
				return nil, err
			}
		}
		vals := make([]float64, 0, len(m.Emission)*len(m.Excitation))
		for _, row := range m.Intensity {
			vals = append(vals, row...)
		}
		return summaryRow(fname, kind, len(m.Emission), len(m.Excitation), vals, eem.RegionalIntegration(m)), nil

	case "absorbance", "raman":
		var (
			s   eem.Spectrum
			err error
		)
		switch kind {
		case "absorbance":
			s, err = dec.LoadAbsorbance(fname)
		default:
			s, err = dec.LoadWaterRaman(fname)
		}
		if err != nil {
			return nil, err
		}
		err = eem.WriteSpectrum(oname(".tidy.csv"), s)
		if err != nil {
			return nil, err
		}
		if plot {
			err = plotSpectrum(oname(".png"), s)
			if err != nil {
				return nil, err
			}
		}
		return summaryRow(fname, kind, s.Len(), 1, s.Values, floats.Sum(s.Values)), nil
	}

	return nil, errors.Errorf("unknown export kind %q", kind)
}

// sniff guesses the export kind from the first two lines: 3D exports
// decorate their header with scan labels, single spectra name their value
// column on the second line.
func sniff(fname string) (string, error) {
	f, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for len(lines) < 2 && sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return "", errors.Wrapf(err, "could not read head of %q", fname)
	}

	switch {
	case len(lines) > 0 && strings.Contains(lines[0], "_EX_"):
		return "eem", nil
	case len(lines) > 1 && hasField(lines[1], "Abs"):
		return "absorbance", nil
	case len(lines) > 1 && hasField(lines[1], "Intensity (a.u.)"):
		return "raman", nil
	}
	return "", errors.Errorf("could not determine export kind of %q", fname)
}

func hasField(line, name string) bool {
	for _, f := range strings.Split(line, ",") {
		if strings.TrimSpace(f) == name {
			return true
		}
	}
	return false
}

func plotMatrix(oname string, m eem.Matrix) error {
	const (
		width  = 20 * vg.Centimeter
		height = 30 * vg.Centimeter
	)

	c := vgimg.PngCanvas{Canvas: vgimg.New(width, height)}
	err := eem.Plot(draw.New(c), m)
	if err != nil {
		return errors.Wrap(err, "could not plot matrix")
	}

	o, err := os.Create(oname)
	if err != nil {
		return errors.Wrapf(err, "could not create plot file %q", oname)
	}
	defer o.Close()
	_, err = c.WriteTo(o)
	if err != nil {
		return errors.Wrapf(err, "could not write plot file %q", oname)
	}
	return o.Close()
}

func summaryRow(fname, kind string, rows, cols int, vals []float64, total float64) []string {
	fin := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			fin = append(fin, v)
		}
	}

	nan := math.NaN()
	min, max, mean := nan, nan, nan
	if len(fin) > 0 {
		min = floats.Min(fin)
		max = floats.Max(fin)
		mean = stat.Mean(fin, nil)
	}

	return []string{
		filepath.Base(fname),
		kind,
		fmt.Sprintf("%d", rows),
		fmt.Sprintf("%d", cols),
		fmt.Sprintf("%g", min),
		fmt.Sprintf("%g", max),
		fmt.Sprintf("%g", mean),
		fmt.Sprintf("%g", total),
	}
}
