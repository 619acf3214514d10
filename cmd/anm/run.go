/*
 * run.go, part of gochem-enm.
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
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/rmera/enm"
	v3 "github.com/rmera/enm/v3"
	"github.com/rmera/enm/xyz"
)

const animationFrames = 20

func run(cfg *config, name string, out io.Writer) error {
	coords, symbols, err := xyz.File(name)
	if err != nil {
		return err
	}
	if cfg.verbose {
		log.Printf("Read %d atoms from %s", coords.NVecs(), name)
		log.Printf("Options: %s", cfg.opts)
	}
	parts, err := enm.Components(coords, cfg.opts)
	if err != nil {
		return err
	}
	if len(parts) > 1 {
		log.Printf("Warning: the network is made of %d disconnected parts, some of the modes printed will be zero modes", len(parts))
	}
	var masses []float64
	if cfg.opts.MassWeighted {
		masses, err = enm.Masses(symbols)
		if err != nil {
			return err
		}
	}
	H, err := enm.BuildHessian(coords, masses, cfg.opts)
	if err != nil {
		return err
	}
	modes, err := enm.NormalModes(H, cfg.opts)
	if err != nil {
		return err
	}
	if cfg.verbose {
		log.Printf("Obtained %d normal modes", len(modes))
	}
	collect := make([]float64, len(modes))
	for i, m := range modes {
		collect[i], err = enm.Collectivity(m)
		if err != nil {
			return err
		}
	}
	printModes(out, modes, collect, cfg)
	if cfg.out != "" {
		if err := writeModes(cfg.out, modes, collect, cfg.opts); err != nil {
			return err
		}
		if cfg.verbose {
			log.Printf("Modes written to %s", cfg.out)
		}
	}
	if cfg.plot != "" {
		if err := plotSpectrum(cfg.plot, modes, cfg.opts.MassWeighted); err != nil {
			return err
		}
	}
	if cfg.animate != "" {
		if cfg.mode < 0 || cfg.mode >= len(modes) {
			return fmt.Errorf("can't animate mode %d, there are %d modes", cfg.mode, len(modes))
		}
		if err := animate(cfg.animate, coords, symbols, modes[cfg.mode], cfg.amplitude); err != nil {
			return err
		}
	}
	return nil
}

func printModes(out io.Writer, modes []enm.NormalMode, collect []float64, cfg *config) {
	n := len(modes)
	if cfg.nmodes > 0 && cfg.nmodes < n {
		n = cfg.nmodes
	}
	valname := "Eigenvalue"
	if cfg.opts.MassWeighted {
		valname = "Freq (cm-1)"
	}
	fmt.Fprintf(out, "%5s %14s %13s\n", "Mode", valname, "Collectivity")
	for i := 0; i < n; i++ {
		fmt.Fprintf(out, "%5d %14.6f %13.4f\n", i+1, modes[i].Value, collect[i])
	}
}

//animate writes a multi-frame XYZ file with a full oscillation of coords along the mode.
func animate(name string, coords *v3.Matrix, symbols []string, mode enm.NormalMode, amplitude float64) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	for k := 0; k < animationFrames; k++ {
		amp := amplitude * math.Sin(2*math.Pi*float64(k)/animationFrames)
		frame, err := enm.Displace(coords, mode, amp)
		if err != nil {
			return err
		}
		comment := fmt.Sprintf("frame %d, mode value %.6f, displacement %.3f A", k, mode.Value, amp)
		if err := xyz.Write(f, frame, symbols, comment); err != nil {
			return err
		}
	}
	return f.Close()
}
