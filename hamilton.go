/*
 * hamilton.go, part of gomagnon.
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
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/gomagnon/cmat"
	"github.com/rmera/gomagnon/cv3"
)

//realJ builds the real-space 3x3 exchange matrix of one coupling: the
//isotropic constant on the diagonal, the antisymmetric DMI part and the
//general tensor, summed. For incommensurate structures the matrix is
//rotated by the ordering phase accumulated over the coupling distance.
func (d *Dynamics) realJ(c *Coupling) cv3.Mat {
	j := cv3.Diag(c.JCalc)
	j = j.Add(cv3.Skew(c.DMICalc.Scale(-1)))
	j = j.Add(c.JGenCalc)
	if d.IsIncommensurate() {
		angle := 2 * math.Pi * r3.Dot(d.ordering, c.DistCalc)
		if math.Abs(angle) > d.eps {
			j = j.Mul(cv3.AxisAngle(d.rotAxis, angle))
		}
	}
	return j
}

//pair indexes the reciprocal coupling maps by (site1, site2).
type pair [2]int

//reciprocalJs Fourier-transforms the exchange matrices to the given
//momentum transfer. It returns the phased matrices J(Q) and the
//unphased J(0) used for the diagonal self-interaction terms, both keyed
//by site-index pair. Couplings with unresolved sites contribute nothing.
func (d *Dynamics) reciprocalJs(q r3.Vec) (jq, jq0 map[pair]cv3.Mat) {
	jq = make(map[pair]cv3.Mat)
	jq0 = make(map[pair]cv3.Mat)
	add := func(m map[pair]cv3.Mat, k pair, v cv3.Mat) {
		if old, ok := m[k]; ok {
			m[k] = old.Add(v)
		} else {
			m[k] = v
		}
	}
	for _, c := range d.couplings {
		if !d.couplingOK(c) {
			continue
		}
		j := d.realJ(c)
		phase := d.phaseSign * 2 * math.Pi * r3.Dot(c.DistCalc, q)
		f := cmplx.Rect(1, phase)
		ij := pair{c.Site1Idx, c.Site2Idx}
		ji := pair{c.Site2Idx, c.Site1Idx}
		add(jq, ij, j.Scale(f))
		add(jq, ji, j.T().Scale(cmplx.Conj(f)))
		add(jq0, ij, j)
		add(jq0, ji, j.T())
	}
	return jq, jq0
}

//Hamiltonian assembles the 2Nx2N spin-wave Hamiltonian at the given
//momentum transfer, N being the number of sites. The upper-left block
//couples the u vectors of the sites through J(Q), the lower-right block
//their conjugates, and the off-diagonal blocks mix creation and
//annihilation operators. The diagonal carries the self-interaction
//terms from J(0) and, if an external field is set, the Zeeman energy.
//A model without sites yields a nil matrix.
func (d *Dynamics) Hamiltonian(q r3.Vec) *mat.CDense {
	n := len(d.sites)
	if n == 0 {
		return nil
	}
	jq, jq0 := d.reciprocalJs(q)
	h := cmat.Zeros(2*n, 2*n)
	addTo := func(r, c int, v complex128) {
		h.Set(r, c, h.At(r, c)+v)
	}

	for k, j := range jq {
		i1, i2 := k[0], k[1]
		s1, s2 := d.sites[i1], d.sites[i2]
		f := complex(0.5*math.Sqrt(s1.SpinMagCalc*s2.SpinMagCalc), 0)
		addTo(i1, i2, f*cv3.Bilinear(s1.U, j, s2.UConj))
		addTo(n+i1, n+i2, f*cv3.Bilinear(s1.UConj, j, s2.U))
		addTo(i1, n+i2, f*cv3.Bilinear(s1.U, j, s2.U))
	}
	//The lower-left block follows from Hermiticity.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			h.Set(n+i, j, cmplx.Conj(h.At(j, n+i)))
		}
	}

	for k, j := range jq0 {
		i1, i2 := k[0], k[1]
		s1, s2 := d.sites[i1], d.sites[i2]
		self := complex(s2.SpinMagCalc, 0) * cv3.Bilinear(s1.V, j, s2.V)
		addTo(i1, i1, -self)
		addTo(n+i1, n+i1, -self)
	}

	if d.fieldOn() {
		b := cv3.VecFromReal(r3.Scale(-d.field.Mag, d.field.Dir))
		for i, s := range d.sites {
			zee := complex(muB, 0) * cv3.Dot(b, s.GV)
			addTo(i, i, -zee)
			addTo(n+i, n+i, -cmplx.Conj(zee))
		}
	}

	if d.performChecks && !cmat.IsHermitian(h, d.eps) {
		d.warnf("magnon: Hamiltonian at Q=(%g, %g, %g) is not Hermitian",
			q.X, q.Y, q.Z)
	}
	return h
}
