/*
 * network.go, part of gochem-enm.
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
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

//Network returns the elastic network for the atoms in coords, with the springs
//defined by O.Cutoff (O.Gamma is ignored). Each atom is a node with the atom's index
//as ID, and each spring an edge weighted with the distance between the atoms.
//If O is nil, DefaultOptions() is used.
func Network(coords *v3.Matrix, O *Options) (*simple.WeightedUndirectedGraph, error) {
	if O == nil {
		O = DefaultOptions()
	}
	if err := O.check(); err != nil {
		return nil, errDecorate(err, "Network")
	}
	if err := checkCoords(coords, "Network"); err != nil {
		return nil, err
	}
	n := coords.NVecs()
	cutoff2 := O.Cutoff * O.Cutoff
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < n; i++ {
		ri := coords.Vec(i)
		for j := i + 1; j < n; j++ {
			_, d2, ok := superElement(ri, coords.Vec(j), cutoff2, 1)
			if d2 == 0 {
				return nil, invalidInput("Network", "atoms %d and %d have the same coordinates", i, j)
			}
			if ok {
				g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(i), T: simple.Node(j), W: math.Sqrt(d2)})
			}
		}
	}
	return g, nil
}

//Components returns the indexes of the atoms in each connected part of the
//network, in ascending order. A network in more than one part has more
//than RigidBodyModes zero modes, which NormalModes doesn't remove.
func Components(coords *v3.Matrix, O *Options) ([][]int, error) {
	g, err := Network(coords, O)
	if err != nil {
		return nil, errDecorate(err, "Components")
	}
	cc := topo.ConnectedComponents(g)
	ret := make([][]int, len(cc))
	for i, c := range cc {
		ret[i] = make([]int, len(c))
		for j, node := range c {
			ret[i][j] = int(node.ID())
		}
		slices.Sort(ret[i])
	}
	slices.SortFunc(ret, func(a, b []int) int { return a[0] - b[0] })
	return ret, nil
}
