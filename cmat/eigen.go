/*
 * eigen.go, part of gomagnon.
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

package cmat

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

//EigenHerm computes the eigendecomposition of the Hermitian matrix k.
//It returns the eigenvalues in ascending order and, if wantVecs is set,
//the corresponding orthonormal eigenvectors as the columns of the second
//return value. If k is not exactly Hermitian it is symmetrized first
//((K+K^H)/2), so callers that tolerate a slightly non-Hermitian input
//get a best-effort answer rather than a failure.
//
//The decomposition runs on gonum's real symmetric solver: K = A + iB is
//embedded as the symmetric matrix [[A, -B], [B, A]], whose spectrum is
//that of K with every eigenvalue doubled. Complex eigenvectors are then
//recovered from the real ones, one per degenerate pair, by a complex
//Gram-Schmidt pass over each eigenvalue cluster.
func EigenHerm(k *mat.CDense, wantVecs bool) ([]float64, *mat.CDense, error) {
	n, c := k.Dims()
	if n != c {
		return nil, nil, fmt.Errorf("cmat: EigenHerm needs a square matrix, got %dx%d", n, c)
	}
	if n == 0 {
		return nil, nil, nil
	}
	h := symmetrize(k)
	emb := embedReal(h)

	sym := mat.NewSymDense(2*n, nil)
	for i := 0; i < 2*n; i++ {
		for j := i; j < 2*n; j++ {
			sym.SetSym(i, j, (emb.At(i, j)+emb.At(j, i))/2)
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, wantVecs); !ok {
		return nil, nil, fmt.Errorf("cmat: symmetric eigendecomposition did not converge")
	}
	all := es.Values(nil) //ascending, each eigenvalue of K twice

	evals := make([]float64, n)
	for i := 0; i < n; i++ {
		evals[i] = (all[2*i] + all[2*i+1]) / 2
	}
	if !wantVecs {
		return evals, nil, nil
	}

	var rvecs mat.Dense
	es.VectorsTo(&rvecs)

	evecs, err := complexVectors(all, &rvecs, n)
	if err != nil {
		return evals, nil, err
	}
	return evals, evecs, nil
}

//symmetrize returns (K + K^H)/2.
func symmetrize(k *mat.CDense) *mat.CDense {
	n, _ := k.Dims()
	h := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			h.Set(i, j, (k.At(i, j)+cmplx.Conj(k.At(j, i)))/2)
		}
	}
	return h
}

//complexVectors rebuilds n complex eigenvectors from the 2n real
//eigenvectors of the embedded system. Every eigenvalue of the embedding
//appears with even multiplicity 2m; any real eigenvector (p, q) in such
//a cluster maps to the complex vector p + i q lying in the m-dimensional
//complex eigenspace, so a Gram-Schmidt sweep over the cluster's mapped
//vectors yields m orthonormal complex eigenvectors.
func complexVectors(all []float64, rvecs *mat.Dense, n int) (*mat.CDense, error) {
	evecs := mat.NewCDense(n, n, nil)
	scale := math.Max(math.Abs(all[0]), math.Abs(all[len(all)-1]))
	tol := 1e-9 * math.Max(scale, 1)

	out := 0
	for lo := 0; lo < 2*n; {
		hi := lo + 1
		for hi < 2*n && all[hi]-all[lo] <= tol {
			hi++
		}
		m := (hi - lo) / 2
		if (hi-lo)%2 != 0 {
			//cluster boundary fell between a degenerate pair; widen it
			hi++
			m = (hi - lo) / 2
		}
		kept := make([][]complex128, 0, m)
		for cand := lo; cand < hi && len(kept) < m; cand++ {
			v := make([]complex128, n)
			for i := 0; i < n; i++ {
				v[i] = complex(rvecs.At(i, cand), rvecs.At(i+n, cand))
			}
			//orthogonalize against the vectors already kept
			for _, u := range kept {
				ip := complex(0, 0)
				for i := range u {
					ip += cmplx.Conj(u[i]) * v[i]
				}
				for i := range v {
					v[i] -= ip * u[i]
				}
			}
			nrm := 0.0
			for _, x := range v {
				nrm += real(x)*real(x) + imag(x)*imag(x)
			}
			nrm = math.Sqrt(nrm)
			if nrm < 1e-8 {
				continue //linearly dependent candidate, try the next
			}
			for i := range v {
				v[i] /= complex(nrm, 0)
			}
			kept = append(kept, v)
		}
		if len(kept) != m {
			return nil, fmt.Errorf("cmat: could not extract %d independent eigenvectors from a degenerate cluster (got %d)", m, len(kept))
		}
		for _, v := range kept {
			for i := 0; i < n; i++ {
				evecs.Set(i, out, v[i])
			}
			out++
		}
		lo = hi
	}
	if out != n {
		return nil, fmt.Errorf("cmat: eigenvector extraction produced %d of %d vectors", out, n)
	}
	return evecs, nil
}
