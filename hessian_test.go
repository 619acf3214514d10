/*
 * hessian_test.go, part of gochem-enm.
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
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	v3 "github.com/rmera/enm/v3"
	"gonum.org/v1/gonum/mat"
)

//the 8-atom test structure.
func refCoords(Te *testing.T) *v3.Matrix {
	Te.Helper()
	c, err := v3.NewMatrix([]float64{
		-1.723, 1.188, 1.856,
		-3.404, 0.600, 1.768,
		-4.674, -1.113, 0.601,
		-2.967, -0.682, 0.545,
		-3.094, 2.295, 1.392,
		-2.510, 1.079, 0.261,
		-4.253, 0.540, 0.157,
		-3.857, -0.766, -0.992,
	})
	if err != nil {
		Te.Fatal(err)
	}
	return c
}

//randomCoords returns n atoms in a box of side l, no two closer than 1 A.
func randomCoords(Te *testing.T, n int, l float64, seed int64) *v3.Matrix {
	Te.Helper()
	r := rand.New(rand.NewSource(seed))
	data := make([]float64, 0, 3*n)
	for len(data) < 3*n {
		p := [3]float64{r.Float64() * l, r.Float64() * l, r.Float64() * l}
		ok := true
		for i := 0; i < len(data); i += 3 {
			d := math.Pow(data[i]-p[0], 2) + math.Pow(data[i+1]-p[1], 2) + math.Pow(data[i+2]-p[2], 2)
			if d < 1 {
				ok = false
				break
			}
		}
		if ok {
			data = append(data, p[:]...)
		}
	}
	c, err := v3.NewMatrix(data)
	if err != nil {
		Te.Fatal(err)
	}
	return c
}

func maxAbs(A mat.Matrix) float64 {
	r, c := A.Dims()
	var m float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m = math.Max(m, math.Abs(A.At(i, j)))
		}
	}
	return m
}

func TestHessianSymmetry(Te *testing.T) {
	H, err := BuildHessian(randomCoords(Te, 20, 12, 1), nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if H.NAtoms() != 20 {
		Te.Errorf("expected 20 atoms, got %d", H.NAtoms())
	}
	if r, c := H.Dims(); r != 60 || c != 60 {
		Te.Fatalf("expected a 60x60 Hessian, got %dx%d", r, c)
	}
	for i := 0; i < H.NAtoms(); i++ {
		for j := 0; j < H.NAtoms(); j++ {
			if !mat.Equal(H.Block(i, j), H.Block(j, i).T()) {
				Te.Errorf("block (%d,%d) is not the transpose of block (%d,%d)", i, j, j, i)
			}
		}
	}
}

func TestHessianZeroRowSum(Te *testing.T) {
	//a small cutoff, so some pairs are out and some are in.
	O := DefaultOptions()
	O.Cutoff = 6
	H, err := BuildHessian(randomCoords(Te, 25, 12, 2), nil, O)
	if err != nil {
		Te.Fatal(err)
	}
	tol := 1e-8 * maxAbs(H)
	for i := 0; i < H.NAtoms(); i++ {
		sum := mat.NewDense(3, 3, nil)
		for j := 0; j < H.NAtoms(); j++ {
			sum.Add(sum, H.Block(i, j))
		}
		if m := maxAbs(sum); m > tol {
			Te.Errorf("row %d of blocks doesn't add up to zero: %v", i, m)
		}
	}
}

func TestHessianTranslation(Te *testing.T) {
	c := refCoords(Te)
	H1, err := BuildHessian(c, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	t, _ := v3.NewMatrix([]float64{10.5, -7.25, 3})
	moved := v3.Zeros(c.NVecs())
	moved.AddVec(c, t)
	H2, err := BuildHessian(moved, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if !mat.EqualApprox(H1, H2, 1e-9) {
		Te.Errorf("translation changed the Hessian")
	}
}

func TestHessianCutoff(Te *testing.T) {
	c, _ := v3.NewMatrix([]float64{
		0, 0, 0,
		1, 0, 0,
		20, 0, 0,
		0, 15, 0, //exactly at the cutoff from atom 0
	})
	H, err := BuildHessian(c, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	zero := mat.NewDense(3, 3, nil)
	for _, p := range [][2]int{{0, 2}, {1, 2}, {0, 3}, {2, 3}} {
		if !mat.Equal(H.Block(p[0], p[1]), zero) || !mat.Equal(H.Block(p[1], p[0]), zero) {
			Te.Errorf("pair %v is out of the cutoff but has a non-zero block", p)
		}
	}
	if !mat.Equal(H.Block(2, 2), zero) {
		Te.Errorf("atom 2 has no springs but a non-zero diagonal block: %v", mat.Formatted(H.Block(2, 2)))
	}
	//the only spring is 0-1
	want01 := mat.NewDense(3, 3, []float64{-1, 0, 0, 0, 0, 0, 0, 0, 0})
	if !mat.EqualApprox(H.Block(0, 1), want01, 1e-12) {
		Te.Errorf("wrong 0-1 block: %v", mat.Formatted(H.Block(0, 1)))
	}
	want00 := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 0, 0, 0, 0, 0})
	if !mat.EqualApprox(H.Block(0, 0), want00, 1e-12) {
		Te.Errorf("atom 0 should only feel the 0-1 spring: %v", mat.Formatted(H.Block(0, 0)))
	}
}

func TestHessianGamma(Te *testing.T) {
	c := refCoords(Te)
	H1, _ := BuildHessian(c, nil, nil)
	O := DefaultOptions()
	O.Gamma = 2.5
	H2, err := BuildHessian(c, nil, O)
	if err != nil {
		Te.Fatal(err)
	}
	scaled := mat.NewDense(24, 24, nil)
	scaled.Scale(2.5, H1)
	if !mat.EqualApprox(scaled, H2, 1e-12) {
		Te.Errorf("the Hessian should scale with gamma")
	}
}

func TestHessianCpus(Te *testing.T) {
	c := randomCoords(Te, 40, 15, 3)
	O := DefaultOptions()
	O.Cutoff = 7
	O.Cpus = 1
	H1, err := BuildHessian(c, nil, O)
	if err != nil {
		Te.Fatal(err)
	}
	O.Cpus = 4
	H4, err := BuildHessian(c, nil, O)
	if err != nil {
		Te.Fatal(err)
	}
	if !mat.Equal(H1, H4) {
		Te.Errorf("the Hessian depends on the number of goroutines")
	}
}

func TestHessianMassWeighted(Te *testing.T) {
	c := refCoords(Te)
	masses := []float64{12.011, 14.007, 15.999, 12.011, 1.008, 32.06, 12.011, 14.007}
	O := DefaultOptions()
	raw, err := BuildHessian(c, masses, O)
	if err != nil {
		Te.Fatal(err)
	}
	O.MassWeighted = true
	H, err := BuildHessian(c, masses, O)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < H.NAtoms(); i++ {
		sum := mat.NewDense(3, 3, nil)
		for j := 0; j < H.NAtoms(); j++ {
			want := mat.NewDense(3, 3, nil)
			want.Scale(1/math.Sqrt(masses[i]*masses[j]), raw.Block(i, j))
			if !mat.EqualApprox(H.Block(i, j), want, 1e-12) {
				Te.Errorf("block (%d,%d) is not weighted by 1/sqrt(mi*mj)", i, j)
			}
			b := H.Block(i, j)
			b.Scale(math.Sqrt(masses[j]), b)
			sum.Add(sum, b)
		}
		if m := maxAbs(sum); m > 1e-8*maxAbs(raw) {
			Te.Errorf("mass-scaled row %d doesn't add up to zero: %v", i, m)
		}
	}
	//without masses, all atoms weight DefaultMass
	H, err = BuildHessian(c, nil, O)
	if err != nil {
		Te.Fatal(err)
	}
	rawdef, _ := BuildHessian(c, nil, nil)
	want := mat.NewDense(24, 24, nil)
	want.Scale(1/DefaultMass, rawdef)
	if !mat.EqualApprox(H, want, 1e-12) {
		Te.Errorf("default masses should weight all blocks by 1/%v", DefaultMass)
	}
	//masses are ignored unless MassWeighted is set
	if !mat.Equal(raw, rawdef) {
		Te.Errorf("masses changed a non mass-weighted Hessian")
	}
}

func TestHessianErrors(Te *testing.T) {
	c := refCoords(Te)
	one, _ := v3.NewMatrix([]float64{1, 2, 3})
	twin, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 1, 1, 0, 0, 0})
	nan, _ := v3.NewMatrix([]float64{0, 0, 0, 1, math.NaN(), 1})
	badcut := DefaultOptions()
	badcut.Cutoff = 0
	badgamma := DefaultOptions()
	badgamma.Gamma = math.Inf(1)
	cases := []struct {
		name   string
		coords *v3.Matrix
		masses []float64
		O      *Options
	}{
		{"nil coordinates", nil, nil, nil},
		{"one atom", one, nil, nil},
		{"coincident atoms", twin, nil, nil},
		{"non-finite coordinates", nan, nil, nil},
		{"short masses", c, []float64{1, 2, 3}, nil},
		{"negative mass", c, []float64{1, 1, 1, 1, -1, 1, 1, 1}, nil},
		{"zero cutoff", c, nil, badcut},
		{"infinite gamma", c, nil, badgamma},
	}
	for _, v := range cases {
		H, err := BuildHessian(v.coords, v.masses, v.O)
		if err == nil || H != nil {
			Te.Errorf("%s: expected an error", v.name)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			Te.Errorf("%s: expected ErrInvalidInput, got %v", v.name, err)
		}
		var e *Error
		if !errors.As(err, &e) || !e.Critical() || len(e.Decorate("")) == 0 {
			Te.Errorf("%s: the error should be a decorated, critical *Error: %v", v.name, err)
		}
	}
}

func TestHessianErrorRow(Te *testing.T) {
	//atoms 2 and 5 coincide, and so do 3 and 4.
	c, err := v3.NewMatrix([]float64{
		0, 0, 0,
		1, 0, 0,
		0, 2, 0,
		0, 0, 3,
		0, 0, 3,
		0, 2, 0,
	})
	if err != nil {
		Te.Fatal(err)
	}
	for _, cpus := range []int{1, 2, 8} {
		O := DefaultOptions()
		O.Cpus = cpus
		for rep := 0; rep < 20; rep++ {
			_, err := BuildHessian(c, nil, O)
			if err == nil || !strings.Contains(err.Error(), "atoms 2 and 5") {
				Te.Fatalf("cpus %d: expected the error for atoms 2 and 5, got %v", cpus, err)
			}
		}
	}
}
