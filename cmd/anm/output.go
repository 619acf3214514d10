/*
 * output.go, part of gochem-enm.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/enm"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//modesFile is what gets written with --out.
type modesFile struct {
	Cutoff       float64    `json:"cutoff"`
	Gamma        float64    `json:"gamma"`
	MassWeighted bool       `json:"mass_weighted"`
	Modes        []modeJSON `json:"modes"`
}

type modeJSON struct {
	Value        float64   `json:"value"`
	Collectivity float64   `json:"collectivity"`
	Vector       []float64 `json:"vector"`
}

type nopCloser struct {
	io.Writer
}

func (n nopCloser) Close() error { return nil }

//compressor wraps f in a zstd encoder if the name ends in .zst.
func compressor(f io.Writer, name string) (io.WriteCloser, error) {
	if !strings.HasSuffix(name, ".zst") {
		return nopCloser{f}, nil
	}
	return zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
}

func writeModes(name string, modes []enm.NormalMode, collect []float64, O *enm.Options) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := compressor(f, name)
	if err != nil {
		return err
	}
	out := modesFile{Cutoff: O.Cutoff, Gamma: O.Gamma, MassWeighted: O.MassWeighted, Modes: make([]modeJSON, len(modes))}
	for i, m := range modes {
		out.Modes[i] = modeJSON{Value: m.Value, Collectivity: collect[i], Vector: m.Vector}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding modes to %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

//plotSpectrum plots the value of each mode against its index.
func plotSpectrum(name string, modes []enm.NormalMode, massWeighted bool) error {
	if len(modes) == 0 {
		return fmt.Errorf("no modes to plot")
	}
	p := plot.New()
	p.Title.Text = "ANM spectrum"
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = "Mode"
	p.Y.Label.Text = "Eigenvalue"
	if massWeighted {
		p.Y.Label.Text = "Frequency (cm-1)"
	}
	p.Add(plotter.NewGrid())
	pts := make(plotter.XYs, len(modes))
	for i, m := range modes {
		pts[i].X = float64(i + 1)
		pts[i].Y = m.Value
	}
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	s.Shape = draw.CircleGlyph{}
	s.Radius = vg.Points(2)
	p.Add(l, s)
	return p.Save(6*vg.Inch, 4*vg.Inch, name)
}
