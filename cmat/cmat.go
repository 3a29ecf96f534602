/*
 * cmat.go, part of gomagnon.
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

//Package cmat provides the dense complex linear algebra needed by the
//spin-wave solver: products via gonum's cblas128, a complex Cholesky
//factorization, Hermitian eigendecomposition and inversion. The latter
//two are obtained from gonum's real solvers through the standard
//embedding of an NxN complex matrix into a 2Nx2N real one, since gonum
//does not ship complex LAPACK drivers.
package cmat

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

//Zeros returns an r x c zero matrix.
func Zeros(r, c int) *mat.CDense {
	return mat.NewCDense(r, c, nil)
}

//Eye returns the n x n matrix s*I.
func Eye(n int, s complex128) *mat.CDense {
	m := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, s)
	}
	return m
}

//Mul returns the product a*b of two complex dense matrices, computed
//with a cblas128 GEMM call.
func Mul(a, b *mat.CDense) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		panic(fmt.Sprintf("cmat: dimension mismatch in Mul: %dx%d times %dx%d", ar, ac, br, bc))
	}
	c := mat.NewCDense(ar, bc, nil)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, a.RawCMatrix(), b.RawCMatrix(), 0, c.RawCMatrix())
	return c
}

//Herm returns the conjugate transpose of a.
func Herm(a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	h := mat.NewCDense(c, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			h.Set(j, i, cmplx.Conj(a.At(i, j)))
		}
	}
	return h
}

//Copy returns an independent copy of a.
func Copy(a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	b := mat.NewCDense(r, c, nil)
	b.Copy(a)
	return b
}

//IsHermitian reports whether a is Hermitian within tolerance eps.
func IsHermitian(a *mat.CDense, eps float64) bool {
	r, c := a.Dims()
	if r != c {
		return false
	}
	for i := 0; i < r; i++ {
		for j := i; j < c; j++ {
			d := a.At(i, j) - cmplx.Conj(a.At(j, i))
			if cmplx.Abs(d) > eps {
				return false
			}
		}
	}
	return true
}

//Chol attempts the Cholesky factorization H = C^H C of a Hermitian
//positive-definite matrix, with C upper triangular. It reports whether
//the factorization succeeded; on failure the returned factor holds the
//best-effort partial result, which callers may still use in degraded
//mode.
func Chol(h *mat.CDense) (*mat.CDense, bool) {
	n, c := h.Dims()
	if n != c {
		panic("cmat: Chol needs a square matrix")
	}
	//build the lower factor L with H = L L^H, then return C = L^H
	l := mat.NewCDense(n, n, nil)
	ok := true
	for j := 0; j < n; j++ {
		sum := real(h.At(j, j))
		for k := 0; k < j; k++ {
			v := l.At(j, k)
			sum -= real(v)*real(v) + imag(v)*imag(v)
		}
		if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
			ok = false
			//keep going with a tiny pivot so that a usable, if
			//degraded, factor is still produced
			sum = math.SmallestNonzeroFloat64
		}
		d := math.Sqrt(sum)
		l.Set(j, j, complex(d, 0))
		for i := j + 1; i < n; i++ {
			s := h.At(i, j)
			for k := 0; k < j; k++ {
				s -= l.At(i, k) * cmplx.Conj(l.At(j, k))
			}
			l.Set(i, j, s/complex(d, 0))
		}
	}
	return Herm(l), ok
}

//embedReal maps the complex matrix K = A + iB onto the real 2n x 2n
//matrix [[A, -B], [B, A]]. For Hermitian K the embedding is symmetric.
func embedReal(k *mat.CDense) *mat.Dense {
	n, _ := k.Dims()
	m := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := k.At(i, j)
			m.Set(i, j, real(v))
			m.Set(i, j+n, -imag(v))
			m.Set(i+n, j, imag(v))
			m.Set(i+n, j+n, real(v))
		}
	}
	return m
}

//Inverse returns the inverse of the complex matrix a, computed through
//gonum's real LU decomposition on the embedded 2Nx2N system.
func Inverse(a *mat.CDense) (*mat.CDense, error) {
	n, c := a.Dims()
	if n != c {
		return nil, fmt.Errorf("cmat: cannot invert a %dx%d matrix", n, c)
	}
	emb := embedReal(a)
	var inv mat.Dense
	if err := inv.Inverse(emb); err != nil {
		return nil, fmt.Errorf("cmat: inversion failed: %w", err)
	}
	r := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r.Set(i, j, complex(inv.At(i, j), inv.At(i+n, j)))
		}
	}
	return r, nil
}
