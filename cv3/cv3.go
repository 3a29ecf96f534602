/*
 * cv3.go, part of gomagnon.
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

//Package cv3 implements complex vectors and matrices in 3D space, the
//basic currency of spin-wave interaction matrices. Real geometry
//(positions, momenta, axes) is handled with gonum's r3 vectors; this
//package covers the complex side: exchange tensors, skew (cross-product)
//matrices and the rotation operators that act on them.
//Unlike the large reciprocal-space matrices handled by package cmat,
//everything here has a fixed 3x3 or 3x1 shape, so plain arrays are used
//as the backing store.
package cv3

import (
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"
)

//Vec is a complex vector in 3D space.
type Vec [3]complex128

//Mat is a complex 3x3 matrix, indexed [row][column].
type Mat [3][3]complex128

//VecFromReal returns the complex vector with v as its real part.
func VecFromReal(v r3.Vec) Vec {
	return Vec{complex(v.X, 0), complex(v.Y, 0), complex(v.Z, 0)}
}

//Real returns the real part of v as an r3 vector.
func (v Vec) Real() r3.Vec {
	return r3.Vec{X: real(v[0]), Y: real(v[1]), Z: real(v[2])}
}

//Conj returns the element-wise complex conjugate of v.
func (v Vec) Conj() Vec {
	return Vec{cmplx.Conj(v[0]), cmplx.Conj(v[1]), cmplx.Conj(v[2])}
}

//Add returns v+w.
func (v Vec) Add(w Vec) Vec {
	return Vec{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

//Scale returns s*v.
func (v Vec) Scale(s complex128) Vec {
	return Vec{s * v[0], s * v[1], s * v[2]}
}

//Dot returns the bilinear product sum_i a_i*b_i. Note that, unlike a
//Hermitian inner product, neither argument is conjugated; the spin-wave
//Hamiltonian is built from this un-conjugated form.
func Dot(a, b Vec) complex128 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

//Bilinear returns the bilinear form a . (M b), with no conjugation on
//either vector.
func Bilinear(a Vec, m Mat, b Vec) complex128 {
	return Dot(a, m.MulVec(b))
}

//MulVec returns the matrix-vector product M v.
func (m Mat) MulVec(v Vec) Vec {
	var r Vec
	for i := 0; i < 3; i++ {
		r[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return r
}

//Add returns m+b.
func (m Mat) Add(b Mat) Mat {
	var r Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] + b[i][j]
		}
	}
	return r
}

//Mul returns the matrix product m*b.
func (m Mat) Mul(b Mat) Mat {
	var r Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*b[0][j] + m[i][1]*b[1][j] + m[i][2]*b[2][j]
		}
	}
	return r
}

//Scale returns s*m.
func (m Mat) Scale(s complex128) Mat {
	var r Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = s * m[i][j]
		}
	}
	return r
}

//T returns the transpose of m (no conjugation).
func (m Mat) T() Mat {
	var r Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

//Conj returns the element-wise complex conjugate of m.
func (m Mat) Conj() Mat {
	var r Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = cmplx.Conj(m[i][j])
		}
	}
	return r
}

//Col returns the ith column of m.
func (m Mat) Col(i int) Vec {
	return Vec{m[0][i], m[1][i], m[2][i]}
}

//Diag returns a diagonal matrix with d on every diagonal entry.
func Diag(d complex128) Mat {
	return Mat{{d, 0, 0}, {0, d, 0}, {0, 0, d}}
}

//Ident returns the 3x3 identity matrix.
func Ident() Mat {
	return Diag(1)
}

//Skew returns the cross-product matrix of v, i.e. the matrix S with
//S x = v x x for every x.
func Skew(v Vec) Mat {
	return Mat{
		{0, -v[2], v[1]},
		{v[2], 0, -v[0]},
		{-v[1], v[0], 0},
	}
}

//Trace returns the sum of the diagonal entries of m.
func (m Mat) Trace() complex128 {
	return m[0][0] + m[1][1] + m[2][2]
}
