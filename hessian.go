/*
 * hessian.go, part of gochem-enm.
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

	v3 "github.com/rmera/enm/v3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

//DefaultMass is the mass (in amu) assigned to every atom when
//no masses are given. It is the mass of a carbon atom, which is what
//a CA-only model is made of.
const DefaultMass = 12.011

//Hessian is the 3Nx3N matrix of second derivatives of the network's
//potential. It is made of NxN 3x3 blocks, the block (i,j) corresponding to
//the pair of atoms i and j.
type Hessian struct {
	*mat.SymDense
	natoms int
}

//NAtoms returns the number of atoms of the network.
func (H *Hessian) NAtoms() int {
	return H.natoms
}

//Block returns a copy of the 3x3 block (i,j) of the Hessian.
func (H *Hessian) Block(i, j int) *mat.Dense {
	if i < 0 || j < 0 || i >= H.natoms || j >= H.natoms {
		panic(v3.ErrIndexOutOfRange)
	}
	ret := mat.NewDense(3, 3, nil)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			ret.Set(a, b, H.At(3*i+a, 3*j+b))
		}
	}
	return ret
}

//setBlock writes the row-major 3x3 block s in the (i,j) position.
//Only i<=j is allowed, the (j,i) block shares the storage.
//For i==j, s must be symmetric.
func (H *Hessian) setBlock(i, j int, s *[9]float64) {
	for a := 0; a < 3; a++ {
		b0 := 0
		if i == j {
			b0 = a
		}
		for b := b0; b < 3; b++ {
			H.SetSym(3*i+a, 3*j+b, s[3*a+b])
		}
	}
}

//superElement returns the 3x3 block -(gamma/d2)*(rij x rij) for the pair i,j, where
//rij=rj-ri and d2 its squared norm, and whether the pair is within the cutoff.
func superElement(ri, rj [3]float64, cutoff2, gamma float64) (s [9]float64, d2 float64, ok bool) {
	var rij [3]float64
	for k := range rij {
		rij[k] = rj[k] - ri[k]
		d2 += rij[k] * rij[k]
	}
	if d2 >= cutoff2 || d2 == 0 {
		return s, d2, false
	}
	f := -gamma / d2
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			s[3*a+b] = f * rij[a] * rij[b]
		}
	}
	return s, d2, true
}

//checkCoords returns an error if coords can't be used to build a network.
func checkCoords(coords *v3.Matrix, caller string) error {
	if coords == nil {
		return invalidInput(caller, "nil coordinates")
	}
	if n := coords.NVecs(); n < 2 {
		return invalidInput(caller, "at least 2 atoms are needed, got %d", n)
	}
	if !coords.IsFinite() {
		return invalidInput(caller, "non-finite coordinates")
	}
	return nil
}

//BuildHessian builds the ANM Hessian for the N atoms with coordinates coords.
//Each pair of atoms closer than O.Cutoff is joined by a spring of constant O.Gamma.
//masses can be nil, in which case DefaultMass is used for all atoms. Masses are only used
//if O.MassWeighted is true. Then every 3x3 block (i,j), diagonal included, is divided by
//sqrt(m_i*m_j). If O is nil, DefaultOptions() is used.
//The result doesn't depend on O.Cpus.
func BuildHessian(coords *v3.Matrix, masses []float64, O *Options) (*Hessian, error) {
	if O == nil {
		O = DefaultOptions()
	}
	if err := O.check(); err != nil {
		return nil, errDecorate(err, "BuildHessian")
	}
	if err := checkCoords(coords, "BuildHessian"); err != nil {
		return nil, err
	}
	n := coords.NVecs()
	if masses != nil && len(masses) != n {
		return nil, invalidInput("BuildHessian", "%d masses given for %d atoms", len(masses), n)
	}
	for i, m := range masses {
		if !(m > 0) || math.IsInf(m, 0) {
			return nil, invalidInput("BuildHessian", "mass %d must be positive and finite, got %v", i, m)
		}
	}
	//inverse square roots of the masses, all ones unless mass-weighted
	invsqrt := make([]float64, n)
	for i := range invsqrt {
		invsqrt[i] = 1
		if !O.MassWeighted {
			continue
		}
		m := DefaultMass
		if masses != nil {
			m = masses[i]
		}
		invsqrt[i] = 1 / math.Sqrt(m)
	}
	pos := make([][3]float64, n)
	for i := range pos {
		pos[i] = coords.Vec(i)
	}
	H := &Hessian{SymDense: mat.NewSymDense(3*n, nil), natoms: n}
	cutoff2 := O.Cutoff * O.Cutoff

	//Each row of blocks is filled by one goroutine, which computes its whole
	//diagonal block but writes only the blocks (i,j) with j>=i. Every element
	//of the symmetric storage is then written exactly once, and the diagonal
	//sums are always accumulated in the same order.
	//Errors are kept per row, not returned through the group, so the
	//reported one is always that of the lowest row, whatever the scheduling.
	rowerrs := make([]error, n)
	fill := func(i int) {
		var diag [9]float64
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			s, d2, ok := superElement(pos[i], pos[j], cutoff2, O.Gamma)
			if d2 == 0 {
				rowerrs[i] = invalidInput("BuildHessian", "atoms %d and %d have the same coordinates", min(i, j), max(i, j))
				return
			}
			if !ok {
				continue
			}
			for k := range diag {
				diag[k] -= s[k]
			}
			if j < i {
				continue
			}
			w := invsqrt[i] * invsqrt[j]
			for k := range s {
				s[k] *= w
			}
			H.setBlock(i, j, &s)
		}
		w := invsqrt[i] * invsqrt[i]
		for k := range diag {
			diag[k] *= w
		}
		H.setBlock(i, i, &diag)
	}
	var g errgroup.Group
	g.SetLimit(O.cpus())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fill(i)
			return nil
		})
	}
	g.Wait()
	for _, err := range rowerrs {
		if err != nil {
			return nil, err
		}
	}
	return H, nil
}
