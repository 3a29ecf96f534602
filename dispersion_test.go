/*
 * dispersion_test.go, part of gomagnon.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/gomagnon/cmat"
	"github.com/rmera/gomagnon/cv3"
)

//fmChain builds the simplest ferromagnet: one site per cell, spins
//along z, nearest-neighbor exchange J=-1 along x. Its magnon dispersion
//is E(q) = 2*S*|J|*(1 - cos(2 pi qx)).
func fmChain(Te *testing.T) *Dynamics {
	Te.Helper()
	d := New()
	d.SetSilent(true)
	require.NoError(Te, d.AddSite(&Site{
		Name:    "A",
		SpinDir: [3]string{"0", "0", "1"},
		SpinMag: "1",
	}))
	require.NoError(Te, d.AddCoupling(&Coupling{
		Name: "J1", Site1: "A", Site2: "A",
		Dist: [3]string{"1", "0", "0"},
		J:    "-1",
	}))
	d.Calc()
	return d
}

func fmChainEnergy(qx float64) float64 {
	return 2 * (1 - math.Cos(2*math.Pi*qx))
}

func TestFMChainDispersion(Te *testing.T) {
	d := fmChain(Te)
	for _, qx := range []float64{0.1, 0.25, 0.4, 0.5} {
		res := d.Energies(r3.Vec{X: qx})
		require.Equal(Te, 2, len(res.Bands), "qx = %g", qx)
		want := fmChainEnergy(qx)
		//bands come in a +-E pair, largest first
		assert.InDelta(Te, want, res.Bands[0].E, 1e-8, "qx = %g", qx)
		assert.InDelta(Te, -want, res.Bands[1].E, 1e-8, "qx = %g", qx)
	}
}

func TestFMPairZoneCenter(Te *testing.T) {
	//an isolated ferromagnetic pair has one magnon at 2*S*|J| and one
	//Goldstone mode; the singular Hamiltonian forces the regularized
	//Cholesky path
	d := New()
	d.SetSilent(true)
	require.NoError(Te, d.AddSite(&Site{
		Name: "A", SpinDir: [3]string{"0", "0", "1"}, SpinMag: "1",
	}))
	require.NoError(Te, d.AddSite(&Site{
		Name: "B", SpinDir: [3]string{"0", "0", "1"}, SpinMag: "1",
	}))
	require.NoError(Te, d.AddCoupling(&Coupling{
		Name: "J1", Site1: "A", Site2: "B",
		Dist: [3]string{"0", "0", "0"},
		J:    "-1",
	}))
	d.Calc()
	res := d.Energies(r3.Vec{})
	require.Equal(Te, 4, len(res.Bands))
	assert.InDelta(Te, 2, res.Bands[0].E, 0.01)
	assert.InDelta(Te, -2, res.Bands[3].E, 0.01)
	//the remaining pair is the (regularized) zero mode
	assert.Less(Te, math.Abs(res.Bands[1].E), 0.05)
	assert.Less(Te, math.Abs(res.Bands[2].E), 0.05)
}

func TestDispersionQSymmetry(Te *testing.T) {
	d := fmChain(Te)
	for _, qx := range []float64{0.05, 0.2, 0.35} {
		plus := d.Energies(r3.Vec{X: qx})
		minus := d.Energies(r3.Vec{X: -qx})
		require.Equal(Te, len(plus.Bands), len(minus.Bands))
		for i := range plus.Bands {
			assert.InDelta(Te, plus.Bands[i].E, minus.Bands[i].E, 1e-8)
		}
	}
}

func TestGoldstoneRegularization(Te *testing.T) {
	//at the zone center the ferromagnet's Hamiltonian vanishes and the
	//Cholesky factorization needs the diagonal shift to go through
	d := fmChain(Te)
	res := d.Energies(r3.Vec{})
	require.Equal(Te, 2, len(res.Bands))
	for _, b := range res.Bands {
		assert.Less(Te, math.Abs(b.E), 0.05)
	}
}

func TestEmptyModel(Te *testing.T) {
	d := New()
	d.SetSilent(true)
	d.Calc()
	assert.Nil(Te, d.Hamiltonian(r3.Vec{X: 0.1}))
	res := d.Spectrum(r3.Vec{X: 0.1})
	assert.Empty(Te, res.Bands)
}

func TestDanglingCouplingIsSkipped(Te *testing.T) {
	d := fmChain(Te)
	require.NoError(Te, d.AddCoupling(&Coupling{
		Name: "bad", Site1: "A", Site2: "nonesuch",
		Dist: [3]string{"0", "1", "0"},
		J:    "7",
	}))
	d.Calc()
	q := r3.Vec{X: 0.3}
	withDangling := d.Energies(q)

	require.True(Te, d.RemoveCoupling("bad"))
	d.Calc()
	clean := d.Energies(q)

	require.Equal(Te, len(clean.Bands), len(withDangling.Bands))
	for i := range clean.Bands {
		assert.Equal(Te, clean.Bands[i].E, withDangling.Bands[i].E)
	}
}

func TestHamiltonianHermitian(Te *testing.T) {
	d := New()
	d.SetSilent(true)
	require.NoError(Te, d.AddSite(&Site{
		Name: "A", Pos: [3]string{"0", "0", "0"},
		SpinDir: [3]string{"0", "0", "1"}, SpinMag: "1",
	}))
	require.NoError(Te, d.AddSite(&Site{
		Name: "B", Pos: [3]string{"1/2", "1/2", "0"},
		SpinDir: [3]string{"0", "0", "-1"}, SpinMag: "3/2",
	}))
	require.NoError(Te, d.AddCoupling(&Coupling{
		Name: "J1", Site1: "A", Site2: "B",
		Dist: [3]string{"0", "0", "0"},
		J:    "0.8",
		DMI:  [3]string{"0.1", "", "0.2"},
	}))
	d.SetField(Field{Dir: r3.Vec{Z: 1}, Mag: 0.5})
	d.Calc()
	for _, q := range []r3.Vec{{}, {X: 0.1}, {X: 0.3, Y: 0.2, Z: -0.1}} {
		h := d.Hamiltonian(q)
		require.NotNil(Te, h)
		r, c := h.Dims()
		assert.Equal(Te, 4, r)
		assert.Equal(Te, 4, c)
		assert.True(Te, cmat.IsHermitian(h, 1e-9), "Q = %v", q)
	}
}

func TestZeemanComplexGTensor(Te *testing.T) {
	d := New()
	d.SetSilent(true)
	d.SetPerformChecks(false)
	g := &cv3.Mat{
		{2, 0, 1i},
		{0, 2, 0},
		{-1i, 0, 2},
	}
	require.NoError(Te, d.AddSite(&Site{
		Name: "A", SpinDir: [3]string{"0", "0", "1"}, G: g,
	}))
	d.SetField(Field{Dir: r3.Vec{X: 1}, Mag: 1})
	d.Calc()
	h := d.Hamiltonian(r3.Vec{})
	require.NotNil(Te, h)
	//the Zeeman entry of the annihilation block is the complex
	//conjugate of the creation one
	assert.Greater(Te, math.Abs(imag(h.At(0, 0))), 1e-6)
	assert.InDelta(Te, real(h.At(0, 0)), real(h.At(1, 1)), 1e-12)
	assert.InDelta(Te, imag(h.At(0, 0)), -imag(h.At(1, 1)), 1e-12)
}

func TestIncommensurateSatellites(Te *testing.T) {
	d := fmChain(Te)
	d.SetOrdering(r3.Vec{X: 0.123}, r3.Vec{Z: 1})
	require.True(Te, d.IsIncommensurate())
	res := d.Energies(r3.Vec{X: 0.2})
	//contributions at Q and at Q +- the ordering vector
	assert.Equal(Te, 6, len(res.Bands))

	//the ordering rotation inside the exchange matrix cancels the
	//momentum shift of the +k satellite, which lands at the energy of
	//the unshifted chain
	sat := fmChainEnergy(0.2)
	found := false
	for _, b := range res.Bands {
		if math.Abs(b.E-sat) < 1e-8 {
			found = true
		}
	}
	assert.True(Te, found, "missing satellite band at E = %g", sat)
}

func TestUniteDegenerateBands(Te *testing.T) {
	//two decoupled, identical chains give doubly degenerate bands
	d := New()
	d.SetSilent(true)
	for _, name := range []string{"A", "B"} {
		require.NoError(Te, d.AddSite(&Site{
			Name: name, SpinDir: [3]string{"0", "0", "1"}, SpinMag: "1",
		}))
		require.NoError(Te, d.AddCoupling(&Coupling{
			Name: "J" + name, Site1: name, Site2: name,
			Dist: [3]string{"1", "0", "0"},
			J:    "-1",
		}))
	}
	d.Calc()
	q := r3.Vec{X: 0.25}
	require.Equal(Te, 4, len(d.Energies(q).Bands))
	d.SetUniteDegenerateBands(true)
	united := d.Spectrum(q)
	require.Equal(Te, 2, len(united.Bands))
	assert.InDelta(Te, fmChainEnergy(0.25), united.Bands[0].E, 1e-8)
}

func TestDispersionSweep(Te *testing.T) {
	d := fmChain(Te)
	start := r3.Vec{}
	end := r3.Vec{X: 0.5}
	nq := 9
	sweep := d.Dispersion(start, end, nq, 3)
	require.Equal(Te, nq, len(sweep))
	assert.Equal(Te, start, sweep[0].Q)
	assert.Equal(Te, end, sweep[nq-1].Q)
	for i, pt := range sweep {
		//points come back in path order and match the serial result
		qx := 0.5 * float64(i) / float64(nq-1)
		assert.InDelta(Te, qx, pt.Q.X, 1e-12)
		serial := d.Spectrum(pt.Q)
		require.Equal(Te, len(serial.Bands), len(pt.Bands))
		for j := range serial.Bands {
			assert.InDelta(Te, serial.Bands[j].E, pt.Bands[j].E, 1e-10)
		}
	}
}
