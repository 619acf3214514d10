/*
 * options.go, part of gochem-enm.
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

package enm

import (
	"fmt"
	"math"
	"runtime"
)

//Options contains the parameters of the elastic network model.
type Options struct {
	Cutoff       float64 //pairs closer than this (in A) are joined by a spring
	Gamma        float64 //the spring constant, the same for all springs
	MassWeighted bool    //mass-weight the Hessian and report frequencies instead of eigenvalues
	Cpus         int     //goroutines used to fill the Hessian. Values < 1 mean 1.
}

//DefaultOptions returns the usual ANM parameters: a 15 A cutoff,
//unit spring constant, no mass weighting, and all logical CPUs.
func DefaultOptions() *Options {
	r := new(Options)
	r.Cutoff = 15.0
	r.Gamma = 1.0
	r.MassWeighted = false
	r.Cpus = runtime.NumCPU()
	return r
}

//String returns a string representation of the options.
func (O *Options) String() string {
	return fmt.Sprintf("cutoff: %.3f, gamma: %.3f, mass weighted: %t, cpus: %d", O.Cutoff, O.Gamma, O.MassWeighted, O.Cpus)
}

func (O *Options) check() error {
	if math.IsNaN(O.Cutoff) || math.IsInf(O.Cutoff, 0) || O.Cutoff <= 0 {
		return invalidInput("Options.check", "cutoff must be positive and finite, got %v", O.Cutoff)
	}
	if math.IsNaN(O.Gamma) || math.IsInf(O.Gamma, 0) {
		return invalidInput("Options.check", "gamma must be finite, got %v", O.Gamma)
	}
	return nil
}

func (O *Options) cpus() int {
	if O.Cpus < 1 {
		return 1
	}
	return O.Cpus
}
