/*
 * bogoliubov.go, part of gomagnon.
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
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/gomagnon/cmat"
)

//eigensystem is the result of one paraunitary diagonalization: the 2N
//band energies in descending order, the matching eigenvectors of the
//commutator-weighted matrix K (nil if only energies were requested),
//the Cholesky factor of the Hamiltonian and the bosonic signature.
type eigensystem struct {
	energies []float64
	evecs    *mat.CDense
	chol     *mat.CDense
	kmat     *mat.CDense
	signs    []float64
}

//eigensolve diagonalizes a spin-wave Hamiltonian the paraunitary way:
//a Cholesky factorization H = C^H.C followed by a Hermitian
//eigendecomposition of K = C.g.C^H, g being the bosonic signature
//diag(+1 x N, -1 x N). The eigenvalues of K come in +-E pairs and are
//the magnon energies. A Hamiltonian that is not positive definite (a
//Goldstone mode, or a model away from its ground state) makes the
//factorization fail; eigensolve then retries with a growing diagonal
//shift, up to the model's retry budget, and reports the shift it
//needed. It returns false only when no usable decomposition was found;
//callers degrade to an empty result instead of failing the sweep.
func (d *Dynamics) eigensolve(h *mat.CDense, q r3.Vec, wantVecs bool) (*eigensystem, bool) {
	if h == nil {
		return nil, false
	}
	n2, _ := h.Dims()
	n := n2 / 2

	var chol *mat.CDense
	ok := false
	for try := 0; try < d.cholTries; try++ {
		cur := h
		if try > 0 {
			cur = cmat.Copy(h)
			shift := complex(float64(try)*d.cholDelta, 0)
			for i := 0; i < n2; i++ {
				cur.Set(i, i, cur.At(i, i)+shift)
			}
		}
		if c, good := cmat.Chol(cur); good {
			chol = c
			ok = true
			if try > 0 {
				d.warnf("magnon: Cholesky needed a diagonal shift of %g at Q=(%g, %g, %g)",
					float64(try)*d.cholDelta, q.X, q.Y, q.Z)
			}
			break
		}
	}
	if !ok {
		//Last resort: the best-effort factor of the unshifted matrix.
		chol, _ = cmat.Chol(h)
		d.warnf("magnon: Cholesky failed after %d tries at Q=(%g, %g, %g), using a best-effort factor",
			d.cholTries, q.X, q.Y, q.Z)
	}

	signs := make([]float64, n2)
	for i := range signs {
		if i < n {
			signs[i] = 1
		} else {
			signs[i] = -1
		}
	}
	//K = C.g.C^H, built by flipping the sign of the last N columns of C.
	cg := cmat.Copy(chol)
	for j := n; j < n2; j++ {
		for i := 0; i < n2; i++ {
			cg.Set(i, j, -cg.At(i, j))
		}
	}
	k := cmat.Mul(cg, cmat.Herm(chol))
	if d.performChecks && !cmat.IsHermitian(k, d.eps) {
		d.warnf("magnon: commutator-weighted matrix is not Hermitian at Q=(%g, %g, %g)",
			q.X, q.Y, q.Z)
	}

	evals, evecs, err := cmat.EigenHerm(k, wantVecs)
	if err != nil {
		d.warnf("magnon: eigendecomposition failed at Q=(%g, %g, %g): %v",
			q.X, q.Y, q.Z, err)
		return nil, false
	}

	sys := &eigensystem{chol: chol, kmat: k, signs: signs}
	sys.energies, sys.evecs = sortDescending(evals, evecs)
	return sys, true
}

//sortDescending orders the energies from the largest down, reordering
//the eigenvector columns alongside. The order is stable for equal
//energies so repeated runs give identical band layouts.
func sortDescending(evals []float64, evecs *mat.CDense) ([]float64, *mat.CDense) {
	perm := make([]int, len(evals))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return evals[perm[a]] > evals[perm[b]]
	})
	es := make([]float64, len(evals))
	for i, p := range perm {
		es[i] = evals[p]
	}
	if evecs == nil {
		return es, nil
	}
	r, c := evecs.Dims()
	vs := cmat.Zeros(r, c)
	for j, p := range perm {
		for i := 0; i < r; i++ {
			vs.Set(i, j, evecs.At(i, p))
		}
	}
	return es, vs
}
