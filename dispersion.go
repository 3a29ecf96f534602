/*
 * dispersion.go, part of gomagnon.
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
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/gomagnon/cv3"
)

//Energies returns the magnon energies at one momentum transfer, without
//spectral weights. This is the fast path for plain dispersion plots.
func (d *Dynamics) Energies(q r3.Vec) SofQE {
	return d.calcEnergies(q, true)
}

//Spectrum returns the magnon energies at one momentum transfer together
//with the correlation tensors and neutron intensities of every band.
func (d *Dynamics) Spectrum(q r3.Vec) SofQE {
	return d.calcEnergies(q, false)
}

func (d *Dynamics) calcEnergies(q r3.Vec, onlyE bool) SofQE {
	eval := func(qq r3.Vec) []EnergyAndWeight {
		h := d.Hamiltonian(qq)
		sys, ok := d.eigensolve(h, qq, !onlyE)
		if !ok {
			return nil
		}
		if onlyE {
			bands := make([]EnergyAndWeight, len(sys.energies))
			for i, e := range sys.energies {
				bands[i].E = e
			}
			return bands
		}
		return d.correlations(sys, qq)
	}

	bands := eval(q)
	if d.IsIncommensurate() {
		//Satellites at Q +- the ordering vector; the correlation
		//tensors of the three contributions are rotated into the frame
		//of the incommensurate modulation before being combined.
		axis := r3.Unit(d.rotAxis)
		projNorm := cv3.ProjectorOnto(axis)
		rotP := cv3.Ident().
			Add(cv3.Skew(cv3.VecFromReal(axis)).Scale(complex(0, -d.phaseSign))).
			Add(projNorm.Scale(-1)).
			Scale(0.5)
		rotM := rotP.Conj()

		bandsP := eval(r3.Add(q, d.ordering))
		bandsM := eval(r3.Sub(q, d.ordering))
		if !onlyE {
			for i := range bands {
				bands[i].S = bands[i].S.Mul(projNorm)
			}
			for i := range bandsP {
				bandsP[i].S = bandsP[i].S.Mul(rotP)
			}
			for i := range bandsM {
				bandsM[i].S = bandsM[i].S.Mul(rotM)
			}
		}
		bands = append(bands, bandsP...)
		bands = append(bands, bandsM...)
	}

	if !onlyE {
		d.applyIntensities(q, bands)
	}
	if d.uniteBands {
		bands = uniteEnergies(bands, d.eps)
	}
	return SofQE{Q: q, Bands: bands}
}

//Dispersion evaluates the spectrum along the straight path from start
//to end, both included, at nq evenly spaced momentum transfers, spread
//over the given number of worker goroutines. A non-positive worker
//count uses half the machine's CPUs. The points come back in path
//order; points where the calculation broke down carry no bands.
func (d *Dynamics) Dispersion(start, end r3.Vec, nq, workers int) []SofQE {
	if nq < 1 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU() / 2
		if workers < 1 {
			workers = 1
		}
	}
	res := make([]SofQE, nq)
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < nq; i++ {
		i := i
		g.Go(func() error {
			t := 0.0
			if nq > 1 {
				t = float64(i) / float64(nq-1)
			}
			q := r3.Add(start, r3.Scale(t, r3.Sub(end, start)))
			res[i] = d.Spectrum(q)
			return nil
		})
	}
	g.Wait() //the workers never return errors; failures degrade per point
	return res
}
