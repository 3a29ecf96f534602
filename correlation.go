/*
 * correlation.go, part of gomagnon.
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

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/gomagnon/cmat"
	"github.com/rmera/gomagnon/cv3"
)

//correlations turns an eigensystem into bands carrying the full 3x3
//dynamical spin-spin correlation tensor of each magnon. The
//transformation matrix C^-1.V, with columns normalized by the square
//root of the signed band energies, maps the site operators to the
//normal modes; sandwiching the per-component structure matrices between
//it and its adjoint puts the spectral weight of each band on the
//diagonal. If the Cholesky factor cannot be inverted the bands keep
//their energies and zero weights.
func (d *Dynamics) correlations(sys *eigensystem, q r3.Vec) []EnergyAndWeight {
	n2 := len(sys.energies)
	n := n2 / 2
	bands := make([]EnergyAndWeight, n2)

	energyMat := cmat.Mul(cmat.Herm(sys.evecs), cmat.Mul(sys.kmat, sys.evecs))
	for i := range bands {
		bands[i].E = real(energyMat.At(i, i))
	}

	cholInv, err := cmat.Inverse(sys.chol)
	if err != nil {
		d.warnf("magnon: cannot invert the Cholesky factor at Q=(%g, %g, %g): %v",
			q.X, q.Y, q.Z, err)
		return bands
	}
	trafo := cmat.Mul(cholInv, sys.evecs)
	for j := 0; j < n2; j++ {
		norm := cmplx.Sqrt(complex(sys.signs[j], 0) * energyMat.At(j, j))
		for i := 0; i < n2; i++ {
			trafo.Set(i, j, trafo.At(i, j)*norm)
		}
	}
	trafoH := cmat.Herm(trafo)

	//Per-pair phases and spin-magnitude factors are band independent.
	phases := cmat.Zeros(n, n)
	for i, si := range d.sites {
		for j, sj := range d.sites {
			arg := -d.phaseSign * 2 * math.Pi * r3.Dot(r3.Sub(sj.PosCalc, si.PosCalc), q)
			mag := math.Sqrt(si.SpinMagCalc * sj.SpinMagCalc)
			phases.Set(i, j, cmplx.Rect(mag, arg))
		}
	}

	m := cmat.Zeros(n2, n2)
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			for i, si := range d.sites {
				for j, sj := range d.sites {
					p := phases.At(i, j)
					m.Set(i, j, p*si.GU[x]*sj.GUConj[y])
					m.Set(i, n+j, p*si.GU[x]*sj.GU[y])
					m.Set(n+i, j, p*si.GUConj[x]*sj.GUConj[y])
					m.Set(n+i, n+j, p*si.GUConj[x]*sj.GU[y])
				}
			}
			mtr := cmat.Mul(trafoH, cmat.Mul(m, trafo))
			for t := range bands {
				bands[t].S[x][y] = mtr.At(t, t) / complex(2*float64(n), 0)
			}
		}
	}
	return bands
}

//applyIntensities finishes the bands at one momentum transfer: the Bose
//occupation factor (if a temperature is set), the neutron-scattering
//projection orthogonal to Q and the scalar weights. At Q=0 there is no
//scattering direction to project out and SPerp equals S. Weights that
//carry a significant imaginary part are reported when checks are on.
func (d *Dynamics) applyIntensities(q r3.Vec, bands []EnergyAndWeight) {
	qn := r3.Norm(q)
	var proj cv3.Mat
	if qn > d.eps {
		proj = cv3.ProjectorPerp(q)
	} else {
		proj = cv3.Ident()
	}
	imagMax := 0.0
	for i := range bands {
		b := &bands[i]
		if d.temperature >= 0 {
			b.S = b.S.Scale(complex(d.bose(b.E), 0))
		}
		b.SPerp = proj.Mul(b.S).Mul(proj)
		b.SSum = b.S.Trace()
		b.SPerpSum = b.SPerp.Trace()
		b.WeightFull = math.Abs(real(b.SSum))
		b.Weight = math.Abs(real(b.SPerpSum))
		if im := math.Abs(imag(b.SPerpSum)); im > imagMax {
			imagMax = im
		}
		if im := math.Abs(imag(b.SSum)); im > imagMax {
			imagMax = im
		}
	}
	if d.performChecks && imagMax > d.eps {
		d.warnf("magnon: spectral weights at Q=(%g, %g, %g) carry an imaginary part of up to %g",
			q.X, q.Y, q.Z, imagMax)
	}
}

//bose is the boson occupation factor at the model's temperature, with
//the energy clamped to the cutoff near zero to keep the divergence out
//of the intensities. Energy-gain bands (E<0) get the occupation n,
//energy-loss bands n+1.
func (d *Dynamics) bose(e float64) float64 {
	if math.Abs(e) < d.boseCutoff {
		e = math.Copysign(d.boseCutoff, e)
	}
	n := 1 / (math.Exp(math.Abs(e)/(kB*d.temperature)) - 1)
	if e >= 0 {
		n += 1
	}
	return n
}

//uniteEnergies merges bands that are degenerate within eps, summing
//their correlation tensors and weights. The band order is preserved.
func uniteEnergies(bands []EnergyAndWeight, eps float64) []EnergyAndWeight {
	united := make([]EnergyAndWeight, 0, len(bands))
	for _, b := range bands {
		found := false
		for i := range united {
			if math.Abs(united[i].E-b.E) < eps {
				u := &united[i]
				u.S = u.S.Add(b.S)
				u.SPerp = u.SPerp.Add(b.SPerp)
				u.SSum += b.SSum
				u.SPerpSum += b.SPerpSum
				u.WeightFull += b.WeightFull
				u.Weight += b.Weight
				found = true
				break
			}
		}
		if !found {
			united = append(united, b)
		}
	}
	return united
}
