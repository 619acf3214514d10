/*
 * modes.go, part of gochem-enm.
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
	"sort"

	"gonum.org/v1/gonum/mat"
)

const (
	//FreqConversion takes the square root of an eigenvalue of a Hessian mass-weighted in
	//kcal/(mol A^2 amu) to a wavenumber in cm^-1.
	FreqConversion = 1302.79

	//RigidBodyModes is the number of lowest modes discarded: 3 translations and 3 rotations
	//of the whole network.
	RigidBodyModes = 6

	//SymmetryTol is the largest asymmetry, relative to the largest element of
	//the matrix (or to 1, if that is smaller), accepted by NormalModes.
	SymmetryTol = 1e-8
)

//NormalMode is an eigenvalue/eigenvector pair of the Hessian. Value is the eigenvalue, or
//the frequency in cm^-1 for mass-weighted calculations. Vector has 3N elements, x, y and z
//for each atom. It is defined up to its sign.
type NormalMode struct {
	Value  float64
	Vector []float64
}

//NAtoms returns the number of atoms the mode moves.
func (N NormalMode) NAtoms() int {
	return len(N.Vector) / 3
}

func (N NormalMode) String() string {
	return fmt.Sprintf("value: %.6f, %d atoms", N.Value, N.NAtoms())
}

//lessNaNLast orders floats numerically, with NaN after everything else,
//+Inf included. NaNs are equal among themselves. This is a total order, unlike <.
func lessNaNLast(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}

//eigenpair sorts a permutation of the eigenvalues in evals. It satisfies sort.Interface.
type eigenpair struct {
	evals []float64
	order []int
}

func newEigenpair(evals []float64) eigenpair {
	order := make([]int, len(evals))
	for i := range order {
		order[i] = i
	}
	return eigenpair{evals, order}
}

func (E eigenpair) Less(i, j int) bool {
	return lessNaNLast(E.evals[E.order[i]], E.evals[E.order[j]])
}

func (E eigenpair) Swap(i, j int) {
	E.order[i], E.order[j] = E.order[j], E.order[i]
}

func (E eigenpair) Len() int {
	return len(E.order)
}

//sortPermutation returns the indexes of evals in ascending order of the values, with NaN
//last. Equal values keep their original order.
func sortPermutation(evals []float64) []int {
	E := newEigenpair(evals)
	sort.Stable(E)
	return E.order
}

//frequency converts an eigenvalue of a mass-weighted Hessian to cm^-1.
//Negative eigenvalues give negative ("imaginary") frequencies.
func frequency(eval float64) float64 {
	if eval < 0 {
		return -math.Sqrt(-eval) * FreqConversion
	}
	return math.Sqrt(eval) * FreqConversion
}

//symmetric returns H as a mat.Symmetric, checking that all its elements are finite and, if
//H is not already a mat.Symmetric, that it is symmetric within SymmetryTol.
func symmetric(H mat.Matrix) (mat.Symmetric, error) {
	r, c := H.Dims()
	if r != c || r == 0 || r%3 != 0 {
		return nil, invalidInput("symmetric", "the matrix must be square with 3N rows, got %dx%d", r, c)
	}
	var largest float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := H.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, decompositionError("symmetric", "non-finite element (%d,%d): %v", i, j, v)
			}
			largest = math.Max(largest, math.Abs(v))
		}
	}
	switch S := H.(type) {
	case *Hessian:
		return S.SymDense, nil
	case mat.Symmetric:
		return S, nil
	}
	tol := SymmetryTol * math.Max(1, largest)
	S := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < c; j++ {
			if d := math.Abs(H.At(i, j) - H.At(j, i)); d > tol {
				return nil, decompositionError("symmetric", "matrix not symmetric at (%d,%d): difference %g, tolerance %g", i, j, d, tol)
			}
			S.SetSym(i, j, H.At(i, j))
		}
	}
	return S, nil
}

//NormalModes diagonalizes the Hessian H and returns its 3N-6 normal modes sorted by
//ascending eigenvalue. The 6 lowest modes, which correspond to translations and rotations of the
//whole network, are always discarded, regardless of their values.
//If O.MassWeighted is true, the values returned are frequencies in cm^-1 (see FreqConversion).
//H is not modified. If O is nil, DefaultOptions() is used.
func NormalModes(H mat.Matrix, O *Options) ([]NormalMode, error) {
	if O == nil {
		O = DefaultOptions()
	}
	S, err := symmetric(H)
	if err != nil {
		return nil, errDecorate(err, "NormalModes")
	}
	n := S.SymmetricDim()
	if n < RigidBodyModes {
		return nil, invalidInput("NormalModes", "at least 2 atoms are needed, got %d", n/3)
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(S, true); !ok {
		return nil, decompositionError("NormalModes", "eigendecomposition of the %dx%d matrix did not converge", n, n)
	}
	evals := eig.Values(nil)
	for i, v := range evals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, decompositionError("NormalModes", "non-finite eigenvalue %d: %v", i, v)
		}
	}
	evecs := mat.NewDense(n, n, nil)
	eig.VectorsTo(evecs)
	order := sortPermutation(evals)
	ret := make([]NormalMode, 0, n-RigidBodyModes)
	for _, k := range order[RigidBodyModes:] {
		val := evals[k]
		if O.MassWeighted {
			val = frequency(val)
		}
		ret = append(ret, NormalMode{Value: val, Vector: mat.Col(nil, k, evecs)})
	}
	return ret, nil
}
