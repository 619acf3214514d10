/*
 * doc.go, part of gochem-enm.
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

/*
Package enm computes the normal modes of the Anisotropic Network Model (ANM) of a molecule.

In the ANM every pair of atoms closer than a cutoff is joined by a harmonic spring, all
springs with the same constant. The normal modes of such a network estimate the
flexibility and the collective motions of the molecule from a single structure.

	H, err := enm.BuildHessian(coords, nil, enm.DefaultOptions())
	if err != nil {
		return err
	}
	modes, err := enm.NormalModes(H, enm.DefaultOptions())

BuildHessian returns the 3Nx3N Hessian of the network, NormalModes diagonalizes it and returns
the 3N-6 internal modes in ascending order. Both are pure functions, safe to call from several goroutines.
The package also offers a few functions to analyze the modes (fluctuations, collectivity, overlaps).

References:

Atilgan, A. R. et al. Biophysical Journal 2001, 80 (1), 505-515. doi:10.1016/S0006-3495(01)76033-X
*/
package enm
