/*
 * groundstate_test.go, part of gomagnon.
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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

//spinPair builds two coupled spins with the given exchange constant and
//starting directions.
func spinPair(Te *testing.T, j string, dirA, dirB [3]string) *Dynamics {
	Te.Helper()
	d := New()
	d.SetSilent(true)
	require.NoError(Te, d.AddSite(&Site{Name: "A", SpinDir: dirA, SpinMag: "1"}))
	require.NoError(Te, d.AddSite(&Site{Name: "B", SpinDir: dirB, SpinMag: "1"}))
	require.NoError(Te, d.AddCoupling(&Coupling{
		Name: "J1", Site1: "A", Site2: "B",
		Dist: [3]string{"0", "0", "0"},
		J:    j,
	}))
	d.Calc()
	return d
}

func TestGroundStateEnergy(Te *testing.T) {
	//parallel spins under a ferromagnetic coupling: E = J
	d := spinPair(Te, "-1", [3]string{"0", "0", "1"}, [3]string{"0", "0", "1"})
	assert.InDelta(Te, -1, d.GroundStateEnergy(), 1e-12)

	//antiparallel spins flip the sign
	d = spinPair(Te, "-1", [3]string{"0", "0", "1"}, [3]string{"0", "0", "-1"})
	assert.InDelta(Te, 1, d.GroundStateEnergy(), 1e-12)

	//spin magnitudes scale the energy
	d.Site("A").SpinMag = "2"
	d.Calc()
	assert.InDelta(Te, 2, d.GroundStateEnergy(), 1e-12)
}

func TestGroundStateZeeman(Te *testing.T) {
	//a field along the spins lowers the classical energy, a field
	//against them raises it
	d := spinPair(Te, "-1", [3]string{"0", "0", "1"}, [3]string{"0", "0", "1"})
	e0 := d.GroundStateEnergy()
	d.SetField(Field{Dir: r3.Vec{Z: 1}, Mag: 2})
	d.Calc()
	aligned := d.GroundStateEnergy()
	d.SetField(Field{Dir: r3.Vec{Z: -1}, Mag: 2})
	d.Calc()
	against := d.GroundStateEnergy()
	assert.Less(Te, aligned, e0)
	assert.Greater(Te, against, e0)
	//the magnitude is muB * g * B per unit spin, symmetric about e0
	assert.InDelta(Te, e0, (aligned+against)/2, 1e-12)
}

func TestMinimise(Te *testing.T) {
	//an antiferromagnetic pair started slightly canted must relax to
	//the antiparallel configuration with E = -1
	d := spinPair(Te, "1", [3]string{"0", "0", "1"}, [3]string{"0.4", "0", "1"})
	m := d.NewMinimiser()
	m.FixSite("A", true, true) //pin one spin to remove the global rotation
	e, err := m.Minimise()
	require.NoError(Te, err)
	assert.InDelta(Te, -1, e, 1e-6)
	assert.InDelta(Te, e, d.GroundStateEnergy(), 1e-9,
		"the minimiser must leave the model in the configuration it reports")
	cosAB := r3.Dot(d.Site("A").SpinDirCalc, d.Site("B").SpinDirCalc)
	assert.InDelta(Te, -1, cosAB, 1e-5)
	assert.False(Te, m.Running())
}

func TestMinimiseAllFixed(Te *testing.T) {
	d := spinPair(Te, "1", [3]string{"0", "0", "1"}, [3]string{"0", "0", "1"})
	before := d.GroundStateEnergy()
	m := d.NewMinimiser()
	m.FixSite("A", true, true)
	m.FixSite("B", true, true)
	e, err := m.Minimise()
	require.NoError(Te, err)
	//nothing to vary: the current energy comes straight back, even if
	//the configuration is not a minimum
	assert.Equal(Te, before, e)
	assert.InDelta(Te, 1, d.GroundStateEnergy(), 1e-12)
}

func TestMinimiseAsync(Te *testing.T) {
	d := spinPair(Te, "1", [3]string{"0", "0", "1"}, [3]string{"0.4", "0", "1"})
	m := d.NewMinimiser()
	m.FixSite("A", true, true)
	select {
	case res := <-m.MinimiseAsync():
		require.NoError(Te, res.Err)
		assert.InDelta(Te, -1, res.E, 1e-6)
	case <-time.After(30 * time.Second):
		Te.Fatal("minimisation did not finish")
	}
}

func TestStopRecorder(Te *testing.T) {
	var flag int32
	r := stopRecorder{flag: &flag}
	require.NoError(Te, r.Init())
	assert.NoError(Te, r.Record(nil, 0, nil))
	flag = 1
	assert.ErrorIs(Te, r.Record(nil, 0, nil), ErrCancelled)
}

func TestUVChartRoundtrip(Te *testing.T) {
	for _, dir := range []r3.Vec{
		{Z: 1}, {Z: -1}, {X: 1}, {Y: -1},
		{X: 0.3, Y: -0.4, Z: 0.86},
	} {
		dir = r3.Unit(dir)
		u, v := dirToUV(dir)
		assert.GreaterOrEqual(Te, u, 0.0)
		assert.Less(Te, u, 1.0)
		assert.GreaterOrEqual(Te, v, 0.0)
		assert.LessOrEqual(Te, v, 1.0)
		back := uvToDir(u, v)
		assert.InDelta(Te, 1, r3.Dot(dir, back), 1e-12, "dir %v", dir)
	}
}

func TestMinimumEnergy(Te *testing.T) {
	//a ferromagnet in its ground state has no negative magnon energies
	//beyond the Goldstone regularization noise
	d := fmChain(Te)
	min := d.MinimumEnergy()
	assert.Less(Te, math.Abs(min), 0.05)
}
