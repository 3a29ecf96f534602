/*
 * magnon.go, part of gomagnon.
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
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

//Physical constants, in meV-based units.
const (
	muB = 0.057883818060 //Bohr magneton, meV/T
	kB  = 0.086173332621 //Boltzmann constant, meV/K
	gE  = 2.00231930436256
)

//Dynamics holds a spin model (sites, couplings, variables, external
//field and magnetic ordering) together with the numerical settings of
//the linear spin-wave calculation. Mutators and the Calc* resolvers are
//not safe for concurrent use; the evaluation methods (Energies,
//Spectrum, Dispersion, BerryCurvatures, GroundStateEnergy) only read
//the model and may be called concurrently once Calc has run.
type Dynamics struct {
	sites     []*Site
	couplings []*Coupling
	variables []*Variable
	field     Field

	ordering    r3.Vec
	rotAxis     r3.Vec
	forceIncomm bool

	eps           float64
	cholTries     int
	cholDelta     float64
	phaseSign     float64
	temperature   float64
	boseCutoff    float64
	uniteBands    bool
	performChecks bool
	zdir          r3.Vec
	silent        bool
}

//New returns an empty model with the default numerical settings: an
//epsilon of 1e-6, up to 50 Cholesky attempts with a diagonal increment
//of 0.0025 per retry, a negative phase sign convention, temperature
//effects disabled and Hermiticity checks enabled.
func New() *Dynamics {
	return &Dynamics{
		rotAxis:       r3.Vec{X: 1},
		zdir:          r3.Vec{Z: 1},
		eps:           1e-6,
		cholTries:     50,
		cholDelta:     0.0025,
		phaseSign:     -1,
		temperature:   -1, //<0 disables the Bose factor
		boseCutoff:    0.025,
		performChecks: true,
	}
}

//Clone returns a deep copy of the model. It is the supported way of
//evaluating several variants of one model concurrently: clone, mutate
//the copy, Calc it, and use each copy from its own goroutine.
func (d *Dynamics) Clone() *Dynamics {
	n := new(Dynamics)
	*n = *d
	n.sites = make([]*Site, len(d.sites))
	for i, v := range d.sites {
		s := *v
		if v.G != nil {
			g := *v.G
			s.G = &g
		}
		n.sites[i] = &s
	}
	n.couplings = make([]*Coupling, len(d.couplings))
	for i, v := range d.couplings {
		c := *v
		n.couplings[i] = &c
	}
	n.variables = make([]*Variable, len(d.variables))
	for i, v := range d.variables {
		t := *v
		n.variables[i] = &t
	}
	return n
}

//AddSite appends a site to the model. Site names must be unique; a
//duplicate name is an error. The caller still owns the pointer, but
//must Calc again after mutating it.
func (d *Dynamics) AddSite(s *Site) error {
	if s.Name == "" {
		return fmt.Errorf("magnon: site needs a name")
	}
	if d.SiteIndex(s.Name) >= 0 {
		return fmt.Errorf("magnon: duplicate site %q", s.Name)
	}
	d.sites = append(d.sites, s)
	return nil
}

//RemoveSite deletes the named site, reporting whether it existed.
//Couplings referencing it are kept; they resolve to an invalid index on
//the next Calc and are skipped by all calculations.
func (d *Dynamics) RemoveSite(name string) bool {
	for i, v := range d.sites {
		if v.Name == name {
			d.sites = append(d.sites[:i], d.sites[i+1:]...)
			return true
		}
	}
	return false
}

//Site returns the named site, or nil.
func (d *Dynamics) Site(name string) *Site {
	if i := d.SiteIndex(name); i >= 0 {
		return d.sites[i]
	}
	return nil
}

//SiteIndex returns the index of the named site, or -1.
func (d *Dynamics) SiteIndex(name string) int {
	for i, v := range d.sites {
		if v.Name == name {
			return i
		}
	}
	return -1
}

//Sites returns the model's sites, in insertion order. The slice is
//owned by the model.
func (d *Dynamics) Sites() []*Site { return d.sites }

//AddCoupling appends an exchange term to the model. An empty name gets
//a generated one. Duplicate names are an error.
func (d *Dynamics) AddCoupling(c *Coupling) error {
	if c.Name == "" {
		c.Name = fmt.Sprintf("coupling_%d", len(d.couplings))
	}
	for _, v := range d.couplings {
		if v.Name == c.Name {
			return fmt.Errorf("magnon: duplicate coupling %q", c.Name)
		}
	}
	d.couplings = append(d.couplings, c)
	return nil
}

//RemoveCoupling deletes the named exchange term, reporting whether it
//existed.
func (d *Dynamics) RemoveCoupling(name string) bool {
	for i, v := range d.couplings {
		if v.Name == name {
			d.couplings = append(d.couplings[:i], d.couplings[i+1:]...)
			return true
		}
	}
	return false
}

//Couplings returns the model's exchange terms, in insertion order. The
//slice is owned by the model.
func (d *Dynamics) Couplings() []*Coupling { return d.couplings }

//SetVariable sets a named value usable in the symbolic expressions of
//sites and couplings, replacing any previous value of the same name.
func (d *Dynamics) SetVariable(name string, value complex128) {
	for _, v := range d.variables {
		if v.Name == name {
			v.Value = value
			return
		}
	}
	d.variables = append(d.variables, &Variable{Name: name, Value: value})
}

//RemoveVariable deletes a variable, reporting whether it existed.
func (d *Dynamics) RemoveVariable(name string) bool {
	for i, v := range d.variables {
		if v.Name == name {
			d.variables = append(d.variables[:i], d.variables[i+1:]...)
			return true
		}
	}
	return false
}

//Variables returns the model's variables, in insertion order.
func (d *Dynamics) Variables() []*Variable { return d.variables }

//SetField sets the external magnetic field. A zero magnitude disables
//the Zeeman term.
func (d *Dynamics) SetField(f Field) { d.field = f }

//FieldVal returns the current external field.
func (d *Dynamics) FieldVal() Field { return d.field }

//SetOrdering sets the magnetic ordering wavevector and the axis of the
//incommensurate rotation, both in lattice units. A zero ordering vector
//makes the structure commensurate.
func (d *Dynamics) SetOrdering(prop, rotAxis r3.Vec) {
	d.ordering = prop
	if r3.Norm(rotAxis) > 0 {
		d.rotAxis = rotAxis
	}
}

//Ordering returns the magnetic ordering wavevector.
func (d *Dynamics) Ordering() r3.Vec { return d.ordering }

//RotationAxis returns the axis of the incommensurate rotation.
func (d *Dynamics) RotationAxis() r3.Vec { return d.rotAxis }

//SetForceIncommensurate treats the structure as incommensurate even if
//the ordering vector is zero.
func (d *Dynamics) SetForceIncommensurate(b bool) { d.forceIncomm = b }

//IsIncommensurate reports whether the satellite contributions at
//Q +- ordering are included in the dispersion.
func (d *Dynamics) IsIncommensurate() bool {
	return d.forceIncomm || r3.Norm(d.ordering) > d.eps
}

//SetEpsilon sets the tolerance used for zero tests and for the
//degenerate-band comparisons. Values <=0 are ignored.
func (d *Dynamics) SetEpsilon(eps float64) {
	if eps > 0 {
		d.eps = eps
	}
}

//Epsilon returns the model's numerical tolerance.
func (d *Dynamics) Epsilon() float64 { return d.eps }

//SetCholeskyTries sets the maximum number of Cholesky attempts and the
//diagonal increment added before each retry. Non-positive arguments
//leave the corresponding setting unchanged.
func (d *Dynamics) SetCholeskyTries(tries int, delta float64) {
	if tries > 0 {
		d.cholTries = tries
	}
	if delta > 0 {
		d.cholDelta = delta
	}
}

//SetPhaseSign sets the sign convention of the Fourier phase factors.
//Anything >=0 selects +1, anything else -1.
func (d *Dynamics) SetPhaseSign(s float64) {
	if s >= 0 {
		d.phaseSign = 1
	} else {
		d.phaseSign = -1
	}
}

//SetTemperature sets the temperature, in K, used for the Bose
//occupation factor of the intensities. A negative temperature disables
//the factor.
func (d *Dynamics) SetTemperature(t float64) { d.temperature = t }

//SetBoseCutoff sets the energy, in meV, below which the Bose factor is
//evaluated at the cutoff instead of at the band energy, to keep the
//divergence at E=0 off the intensities.
func (d *Dynamics) SetBoseCutoff(e float64) {
	if e > 0 {
		d.boseCutoff = e
	}
}

//SetUniteDegenerateBands merges bands with equal energies (within the
//model's epsilon) into one band with their summed weights.
func (d *Dynamics) SetUniteDegenerateBands(b bool) { d.uniteBands = b }

//SetPerformChecks enables or disables the Hermiticity checks on the
//assembled Hamiltonians. The checks only warn; they never abort a
//calculation.
func (d *Dynamics) SetPerformChecks(b bool) { d.performChecks = b }

//SetSilent suppresses the warnings logged on recoverable numerical
//problems.
func (d *Dynamics) SetSilent(b bool) { d.silent = b }
