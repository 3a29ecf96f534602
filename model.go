/*
 * model.go, part of gomagnon.
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
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/gomagnon/cv3"
)

//Site is a magnetic site of the crystal: a classical spin sitting at a
//fractional position of the unit cell. The string fields are symbolic
//expressions which may reference the model's variables; they are turned
//into the numeric *Calc fields, and into the local u/v transformation
//vectors, by (*Dynamics).CalcSites. Sites are identified by name.
type Site struct {
	Name string

	Pos       [3]string //fractional position in the unit cell
	SpinDir   [3]string //ordered spin direction
	SpinOrtho [3]string //optional explicit spin-orthogonal (plane) vector
	SpinMag   string    //spin magnitude; empty means 1

	//G is the gyromagnetic tensor. A nil G means the default isotropic
	//tensor g_e*I.
	G *cv3.Mat

	//Calculated fields, filled in by CalcSites. U is the complex
	//"plane" vector built from the first two columns of the local
	//rotation, UConj its conjugate and V the third column, which equals
	//the (normalized) ordered spin direction.
	PosCalc     r3.Vec
	SpinDirCalc r3.Vec
	SpinMagCalc float64
	U, UConj, V cv3.Vec

	//The same transformation vectors with the gyromagnetic tensor
	//applied, used by the correlation calculator.
	GU, GUConj, GV cv3.Vec
}

//Coupling is a pairwise exchange term between two magnetic sites,
//referenced by name. Dist is the distance between the unit cells of the
//two sites, in integer (or symbolic) lattice units. J is the isotropic
//exchange constant, DMI the Dzyaloshinskii-Moriya vector (the
//antisymmetric part of the interaction) and JGen an optional general
//3x3 exchange tensor; the three contributions are summed.
type Coupling struct {
	Name string

	Site1, Site2 string
	Dist         [3]string
	J            string
	DMI          [3]string
	JGen         [3][3]string

	//Calculated fields, filled in by CalcCouplings. A site index of -1
	//marks an unresolvable reference; such couplings are skipped by all
	//calculations rather than reported as errors.
	Site1Idx, Site2Idx int
	DistCalc           r3.Vec
	JCalc              complex128
	DMICalc            cv3.Vec
	JGenCalc           cv3.Mat
}

//Variable is a named complex value available to the symbolic expressions
//of sites and couplings.
type Variable struct {
	Name  string
	Value complex128
}

//Field is an external magnetic field. When AlignSpins is set, the local
//frames of all sites are built from the field direction, overriding the
//individual spin directions.
type Field struct {
	Dir        r3.Vec
	Mag        float64
	AlignSpins bool
}

//EnergyAndWeight holds one magnon band at one momentum transfer: its
//energy, the full 3x3 spin-spin correlation tensor S, the
//neutron-scattering projection SPerp (longitudinal component along Q
//removed), their traces and the scalar spectral weights derived from
//them. Weight is the unpolarized magnetic neutron intensity of the band.
type EnergyAndWeight struct {
	E float64

	S          cv3.Mat
	SSum       complex128
	WeightFull float64

	SPerp    cv3.Mat
	SPerpSum complex128
	Weight   float64
}

//SofQE is the result of evaluating the kernel at a single momentum
//transfer Q: the list of magnon bands found there. A failed evaluation
//(for example an eigendecomposition that did not converge) yields an
//empty Bands slice, never an aborted sweep.
type SofQE struct {
	Q     r3.Vec
	Bands []EnergyAndWeight
}
