/*
 * analysis.go, part of gochem-enm.
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
	"math"
	"sort"

	v3 "github.com/rmera/enm/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//atomSquares returns, for each atom, the squared norm of its 3 components in vec.
func atomSquares(vec []float64) []float64 {
	ret := make([]float64, len(vec)/3)
	for i := range ret {
		ret[i] = floats.Dot(vec[3*i:3*i+3], vec[3*i:3*i+3])
	}
	return ret
}

//SquareFluctuations returns the mean square fluctuation of each atom, sum_k |v_k,i|^2/lambda_k
//over the modes given. They are proportional to the crystallographic B-factors.
//The modes must come from a non mass-weighted calculation, and all values must be positive.
func SquareFluctuations(modes []NormalMode) ([]float64, error) {
	if len(modes) == 0 {
		return nil, invalidInput("SquareFluctuations", "no modes given")
	}
	natoms := modes[0].NAtoms()
	if natoms == 0 {
		return nil, invalidInput("SquareFluctuations", "empty mode vector")
	}
	ret := make([]float64, natoms)
	for k, m := range modes {
		if len(m.Vector) != 3*natoms {
			return nil, invalidInput("SquareFluctuations", "mode %d has %d components, expected %d", k, len(m.Vector), 3*natoms)
		}
		if !(m.Value > 0) || math.IsInf(m.Value, 0) {
			return nil, invalidInput("SquareFluctuations", "mode %d has a non-positive value %v", k, m.Value)
		}
		floats.AddScaled(ret, 1/m.Value, atomSquares(m.Vector))
	}
	return ret, nil
}

//Collectivity returns the collectivity of the mode (Bruschweiler, J. Chem. Phys. 102, 3396 (1995)),
//exp(-sum_i p_i ln p_i)/N, where p_i is the fraction of the square displacement
//carried by atom i. It goes from 1/N, when one atom moves, to 1, when all atoms move the same.
func Collectivity(mode NormalMode) (float64, error) {
	natoms := mode.NAtoms()
	if natoms == 0 || len(mode.Vector)%3 != 0 {
		return 0, invalidInput("Collectivity", "mode vector with %d components", len(mode.Vector))
	}
	p := atomSquares(mode.Vector)
	total := floats.Sum(p)
	if total == 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, invalidInput("Collectivity", "mode vector with norm %v", math.Sqrt(total))
	}
	floats.Scale(1/total, p)
	var entropy float64
	for _, v := range p {
		if v > 0 {
			entropy -= v * math.Log(v)
		}
	}
	return math.Exp(entropy) / float64(natoms), nil
}

//Overlap returns the absolute value of the cosine of the angle between the vectors of
//the modes a and b. It is 1 for the same mode (regardless of sign) and 0 for orthogonal modes.
func Overlap(a, b NormalMode) (float64, error) {
	if len(a.Vector) != len(b.Vector) || len(a.Vector) == 0 {
		return 0, invalidInput("Overlap", "modes with %d and %d components", len(a.Vector), len(b.Vector))
	}
	na := floats.Norm(a.Vector, 2)
	nb := floats.Norm(b.Vector, 2)
	if na == 0 || nb == 0 {
		return 0, invalidInput("Overlap", "zero mode vector")
	}
	return math.Abs(floats.Dot(a.Vector, b.Vector)) / (na * nb), nil
}

//DensityOfStates counts the modes with values in each of the bins defined by dividers.
//Bin i goes from dividers[i] (included) to dividers[i+1] (excluded). Modes out of the
//range of the dividers are not counted. dividers must be strictly increasing, and have at least 2 elements.
func DensityOfStates(modes []NormalMode, dividers []float64) ([]float64, error) {
	if len(dividers) < 2 {
		return nil, invalidInput("DensityOfStates", "at least 2 dividers are needed, got %d", len(dividers))
	}
	for i := 1; i < len(dividers); i++ {
		if !(dividers[i] > dividers[i-1]) {
			return nil, invalidInput("DensityOfStates", "dividers must be strictly increasing")
		}
	}
	lo, hi := dividers[0], dividers[len(dividers)-1]
	values := make([]float64, 0, len(modes))
	for _, m := range modes {
		if m.Value >= lo && m.Value < hi {
			values = append(values, m.Value)
		}
	}
	sort.Float64s(values)
	return stat.Histogram(nil, dividers, values, nil), nil
}

//Displace returns a new set of coordinates, coords displaced by amplitude (in A) along
//the normalized vector of the mode. A series of amplitudes gives an animation of the mode.
func Displace(coords *v3.Matrix, mode NormalMode, amplitude float64) (*v3.Matrix, error) {
	if coords == nil {
		return nil, invalidInput("Displace", "nil coordinates")
	}
	n := coords.NVecs()
	if len(mode.Vector) != 3*n {
		return nil, invalidInput("Displace", "mode has %d components, %d expected", len(mode.Vector), 3*n)
	}
	norm := floats.Norm(mode.Vector, 2)
	if norm == 0 {
		return nil, invalidInput("Displace", "zero mode vector")
	}
	data := make([]float64, 3*n)
	for i := 0; i < n; i++ {
		v := coords.Vec(i)
		copy(data[3*i:3*i+3], v[:])
	}
	floats.AddScaled(data, amplitude/norm, mode.Vector)
	ret, err := v3.NewMatrix(data)
	if err != nil {
		return nil, invalidInput("Displace", "%s", err.Error())
	}
	return ret, nil
}
