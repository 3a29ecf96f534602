/*
 * topology.go, part of gomagnon.
 *
 * Copyright 2024 Raul Mera rauldotmeraatusachdotcl
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

package magnon

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//BerryCurvatures computes the field-strength form of the Berry
//curvature of every magnon band at the given momentum transfer, on the
//plaquette spanned by delta*dir1 and delta*dir2: the product of the
//normalized link overlaps, taken under the bosonic metric, around the
//four corners, whose complex
//logarithm divided by the plaquette area is gauge invariant. Zero
//direction vectors default to the reciprocal x and y axes and a
//non-positive delta to 1e-3. With reortho set, eigenvectors of
//degenerate bands are re-orthonormalized at every corner before the
//overlaps are taken, which stabilizes the links at band crossings.
//Bands come back in descending energy order, matching Energies.
func (d *Dynamics) BerryCurvatures(q r3.Vec, delta float64, dir1, dir2 r3.Vec, reortho bool) ([]complex128, error) {
	if delta <= 0 {
		delta = 1e-3
	}
	if r3.Norm(dir1) == 0 {
		dir1 = r3.Vec{X: 1}
	}
	if r3.Norm(dir2) == 0 {
		dir2 = r3.Vec{Y: 1}
	}
	d1 := r3.Scale(delta, dir1)
	d2 := r3.Scale(delta, dir2)
	area := r3.Norm(r3.Cross(d1, d2))
	if area < d.eps*d.eps {
		return nil, fmt.Errorf("magnon: berry plaquette directions are parallel")
	}

	corners := []r3.Vec{
		q,
		r3.Add(q, d1),
		r3.Add(q, r3.Add(d1, d2)),
		r3.Add(q, d2),
	}
	vecs := make([]*mat.CDense, len(corners))
	var signs []float64
	for i, qq := range corners {
		sys, ok := d.eigensolve(d.Hamiltonian(qq), qq, true)
		if !ok {
			return nil, fmt.Errorf("magnon: no eigensystem at plaquette corner (%g, %g, %g)",
				qq.X, qq.Y, qq.Z)
		}
		if reortho {
			reorthonormalize(sys.evecs, sys.energies, d.eps)
		}
		vecs[i] = sys.evecs
		signs = sys.signs
	}

	nb, _ := vecs[0].Dims()
	curvs := make([]complex128, nb)
	for b := 0; b < nb; b++ {
		w := complex(1, 0)
		for c := 0; c < 4; c++ {
			u := overlap(vecs[c], vecs[(c+1)%4], signs, b)
			if cmplx.Abs(u) < d.eps {
				return nil, fmt.Errorf("magnon: vanishing link overlap for band %d", b)
			}
			w *= u / complex(cmplx.Abs(u), 0)
		}
		curvs[b] = cmplx.Log(w) / complex(0, area)
	}
	return curvs, nil
}

//overlap is the inner product of column b of two eigenvector matrices
//under the bosonic metric diag(+1 x N, -1 x N), the paraunitary
//analogue of the Hermitian link overlap.
func overlap(a, c *mat.CDense, signs []float64, b int) complex128 {
	r, _ := a.Dims()
	var s complex128
	for i := 0; i < r; i++ {
		s += complex(signs[i], 0) * cmplx.Conj(a.At(i, b)) * c.At(i, b)
	}
	return s
}

//reorthonormalize runs a modified Gram-Schmidt over each group of
//columns whose energies agree within eps, leaving the other columns
//untouched.
func reorthonormalize(v *mat.CDense, energies []float64, eps float64) {
	r, _ := v.Dims()
	for lo := 0; lo < len(energies); {
		hi := lo + 1
		for hi < len(energies) && math.Abs(energies[hi]-energies[lo]) < eps {
			hi++
		}
		for j := lo; j < hi; j++ {
			for k := lo; k < j; k++ {
				var p complex128
				for i := 0; i < r; i++ {
					p += cmplx.Conj(v.At(i, k)) * v.At(i, j)
				}
				for i := 0; i < r; i++ {
					v.Set(i, j, v.At(i, j)-p*v.At(i, k))
				}
			}
			var nrm float64
			for i := 0; i < r; i++ {
				a := v.At(i, j)
				nrm += real(a)*real(a) + imag(a)*imag(a)
			}
			if nrm = math.Sqrt(nrm); nrm > eps {
				for i := 0; i < r; i++ {
					v.Set(i, j, v.At(i, j)/complex(nrm, 0))
				}
			}
		}
		lo = hi
	}
}
