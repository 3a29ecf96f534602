/*
 * magnon_test.go, part of gomagnon.
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
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/gomagnon/cv3"
)

func TestModelStore(Te *testing.T) {
	d := New()
	require.NoError(Te, d.AddSite(&Site{Name: "A", SpinDir: [3]string{"0", "0", "1"}}))
	assert.Error(Te, d.AddSite(&Site{Name: "A"}), "duplicate site names must be rejected")
	assert.Error(Te, d.AddSite(&Site{}), "nameless sites must be rejected")
	require.NoError(Te, d.AddSite(&Site{Name: "B", SpinDir: [3]string{"0", "0", "1"}}))
	assert.Equal(Te, 2, len(d.Sites()))
	assert.Equal(Te, 1, d.SiteIndex("B"))
	assert.Nil(Te, d.Site("C"))

	require.NoError(Te, d.AddCoupling(&Coupling{Name: "J1", Site1: "A", Site2: "B"}))
	assert.Error(Te, d.AddCoupling(&Coupling{Name: "J1"}))
	//an empty coupling name gets generated
	anon := &Coupling{Site1: "A", Site2: "B"}
	require.NoError(Te, d.AddCoupling(anon))
	assert.NotEmpty(Te, anon.Name)

	assert.True(Te, d.RemoveSite("B"))
	assert.False(Te, d.RemoveSite("B"))
	assert.True(Te, d.RemoveCoupling("J1"))
	assert.False(Te, d.RemoveCoupling("J1"))

	d.SetVariable("x", 1)
	d.SetVariable("x", 2) //replaces
	assert.Equal(Te, 1, len(d.Variables()))
	assert.Equal(Te, complex128(2), d.Variables()[0].Value)
	assert.True(Te, d.RemoveVariable("x"))
	assert.False(Te, d.RemoveVariable("x"))
}

func TestLocalFrames(Te *testing.T) {
	d := New()
	d.SetSilent(true)
	dirs := [][3]string{
		{"0", "0", "1"},
		{"0", "1", "0"},
		{"1", "1", "1"},
		{"0", "0", "-1"}, //anti-parallel to z, exercises the fallback axis
	}
	names := []string{"A", "B", "C", "D"}
	for i, dir := range dirs {
		require.NoError(Te, d.AddSite(&Site{Name: names[i], SpinDir: dir, SpinMag: "1"}))
	}
	d.Calc()
	for _, s := range d.Sites() {
		//V is the normalized spin direction
		assert.InDelta(Te, 1, r3.Norm(s.V.Real()), 1e-12, s.Name)
		assert.InDelta(Te, 1, r3.Dot(s.V.Real(), r3.Unit(s.SpinDirCalc)), 1e-12, s.Name)
		//U spans the orthogonal plane: U.U = 0 and U.conj(U) = 2
		assert.InDelta(Te, 0, cmplx.Abs(cv3.Dot(s.U, s.U)), 1e-12, s.Name)
		assert.InDelta(Te, 2, real(cv3.Dot(s.U, s.UConj)), 1e-12, s.Name)
		assert.InDelta(Te, 0, imag(cv3.Dot(s.U, s.UConj)), 1e-12, s.Name)
		//U is orthogonal to the spin direction in the bilinear sense
		assert.InDelta(Te, 0, cmplx.Abs(cv3.Dot(s.U, s.V)), 1e-12, s.Name)
	}
}

func TestSymbolicResolution(Te *testing.T) {
	d := New()
	d.SetSilent(true)
	d.SetVariable("Jval", -1.5)
	d.SetVariable("tilt", 0.25)
	require.NoError(Te, d.AddSite(&Site{
		Name:    "A",
		Pos:     [3]string{"1/2", "0", "tilt"},
		SpinDir: [3]string{"0", "0", "1"},
		SpinMag: "3/2",
	}))
	require.NoError(Te, d.AddSite(&Site{Name: "B", SpinDir: [3]string{"0", "0", "1"}}))
	require.NoError(Te, d.AddCoupling(&Coupling{
		Name: "J1", Site1: "A", Site2: "B",
		Dist: [3]string{"1", "0", "0"},
		J:    "2*Jval",
		DMI:  [3]string{"", "", "Jval/3"},
	}))
	d.Calc()

	a := d.Site("A")
	assert.InDelta(Te, 0.5, a.PosCalc.X, 1e-12)
	assert.InDelta(Te, 0.25, a.PosCalc.Z, 1e-12)
	assert.InDelta(Te, 1.5, a.SpinMagCalc, 1e-12)

	j1 := d.Couplings()[0]
	assert.Equal(Te, 0, j1.Site1Idx)
	assert.Equal(Te, 1, j1.Site2Idx)
	assert.InDelta(Te, -3, real(j1.JCalc), 1e-12)
	assert.InDelta(Te, -0.5, real(j1.DMICalc[2]), 1e-12)

	//changing a variable and re-resolving updates the numbers
	d.SetVariable("Jval", 2)
	d.Calc()
	assert.InDelta(Te, 4, real(j1.JCalc), 1e-12)
}

func TestCalcIdempotence(Te *testing.T) {
	d := New()
	d.SetSilent(true)
	d.SetVariable("S", 1.5)
	require.NoError(Te, d.AddSite(&Site{
		Name:    "A",
		Pos:     [3]string{"0.1", "0.2", "0.3"},
		SpinDir: [3]string{"1", "2", "-1"},
		SpinMag: "S",
	}))
	require.NoError(Te, d.AddCoupling(&Coupling{
		Name: "J1", Site1: "A", Site2: "A",
		Dist: [3]string{"1", "0", "0"},
		J:    "-2",
	}))
	d.Calc()
	a := d.Site("A")
	u, v, pos := a.U, a.V, a.PosCalc
	jc := d.Couplings()[0].JCalc

	d.Calc() //must reproduce the state bit for bit
	assert.Equal(Te, u, a.U)
	assert.Equal(Te, v, a.V)
	assert.Equal(Te, pos, a.PosCalc)
	assert.Equal(Te, jc, d.Couplings()[0].JCalc)
}

func TestAlignSpinsWithField(Te *testing.T) {
	d := New()
	d.SetSilent(true)
	require.NoError(Te, d.AddSite(&Site{Name: "A", SpinDir: [3]string{"0", "0", "1"}}))
	require.NoError(Te, d.AddSite(&Site{Name: "B", SpinDir: [3]string{"1", "0", "0"}}))
	d.SetField(Field{Dir: r3.Vec{Y: 2}, Mag: 1, AlignSpins: true})
	d.Calc()
	for _, s := range d.Sites() {
		assert.InDelta(Te, 1, r3.Dot(s.SpinDirCalc, r3.Vec{Y: 1}), 1e-12, s.Name)
	}
	//without AlignSpins the individual directions survive
	d.SetField(Field{Dir: r3.Vec{Y: 2}, Mag: 1})
	d.Calc()
	assert.InDelta(Te, 1, r3.Dot(d.Site("B").SpinDirCalc, r3.Vec{X: 1}), 1e-12)
	//the flag aligns even when the field has zero magnitude
	d.SetField(Field{Dir: r3.Vec{Y: 1}, Mag: 0, AlignSpins: true})
	d.Calc()
	assert.InDelta(Te, 1, r3.Dot(d.Site("B").SpinDirCalc, r3.Vec{Y: 1}), 1e-12)
}

func TestClone(Te *testing.T) {
	d := New()
	d.SetSilent(true)
	require.NoError(Te, d.AddSite(&Site{Name: "A", SpinDir: [3]string{"0", "0", "1"}}))
	d.SetVariable("J", -1)
	d.Calc()

	c := d.Clone()
	c.SetVariable("J", 5)
	require.NoError(Te, c.AddSite(&Site{Name: "B", SpinDir: [3]string{"0", "0", "1"}}))
	c.Site("A").SpinMag = "2"
	c.Calc()

	//the original is untouched
	assert.Equal(Te, 1, len(d.Sites()))
	assert.Equal(Te, complex128(-1), d.Variables()[0].Value)
	assert.Equal(Te, "", d.Site("A").SpinMag)
}
