/*
 * resolve.go, part of gomagnon.
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
	"log"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/gomagnon/cv3"
	"github.com/rmera/gomagnon/expr"
)

//parser returns an expression evaluator loaded with the model's
//variables.
func (d *Dynamics) parser() *expr.Parser {
	p := expr.New()
	for _, v := range d.variables {
		p.Set(v.Name, v.Value)
	}
	return p
}

func (d *Dynamics) warnf(format string, args ...interface{}) {
	if !d.silent {
		log.Printf(format, args...)
	}
}

//evalReal evaluates a symbolic expression as a real number. An empty
//expression yields def; a malformed one is reported and also yields def.
func (d *Dynamics) evalReal(p *expr.Parser, s, what string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := p.EvalReal(s)
	if err != nil {
		d.warnf("magnon: cannot evaluate %s %q: %v", what, s, err)
		return def
	}
	return v
}

//evalComplex is evalReal for complex-valued expressions.
func (d *Dynamics) evalComplex(p *expr.Parser, s, what string) complex128 {
	if s == "" {
		return 0
	}
	v, err := p.Eval(s)
	if err != nil {
		d.warnf("magnon: cannot evaluate %s %q: %v", what, s, err)
		return 0
	}
	return v
}

//Calc resolves the whole model: field, sites and couplings, in that
//order. It must be called after any mutation and before any evaluation.
//Re-running it on an unchanged model reproduces the calculated fields
//exactly.
func (d *Dynamics) Calc() {
	d.CalcField()
	d.CalcSites()
	d.CalcCouplings()
}

//CalcField normalizes the external field direction. A field with a
//zero direction vector is disabled regardless of its magnitude.
func (d *Dynamics) CalcField() {
	if n := r3.Norm(d.field.Dir); n > d.eps {
		d.field.Dir = r3.Scale(1/n, d.field.Dir)
	} else if d.field.Mag != 0 {
		d.warnf("magnon: external field has no direction, ignoring it")
		d.field.Mag = 0
	}
}

//fieldOn reports whether the Zeeman term contributes.
func (d *Dynamics) fieldOn() bool {
	return d.field.Mag != 0 && r3.Norm(d.field.Dir) > d.eps
}

//CalcSites evaluates the symbolic fields of every site and rebuilds its
//local transformation frame. The frame is the rotation taking the
//global z direction onto the site's spin direction: its third column V
//is that direction and U, the complex combination of the first two
//columns, spans the plane orthogonal to it, with U.U = 0 and
//U.conj(U) = 2. When the external field has AlignSpins set, the field
//direction replaces the per-site spin directions.
func (d *Dynamics) CalcSites() {
	p := d.parser()
	for _, s := range d.sites {
		d.calcSite(p, s)
	}
}

func (d *Dynamics) calcSite(p *expr.Parser, s *Site) {
	for i := 0; i < 3; i++ {
		setVecComp(&s.PosCalc, i, d.evalReal(p, s.Pos[i], "site position", 0))
	}
	s.SpinMagCalc = d.evalReal(p, s.SpinMag, "spin magnitude", 1)
	if s.SpinMagCalc <= 0 {
		d.warnf("magnon: site %q has non-positive spin magnitude, using 1", s.Name)
		s.SpinMagCalc = 1
	}

	var dir r3.Vec
	for i := 0; i < 3; i++ {
		setVecComp(&dir, i, d.evalReal(p, s.SpinDir[i], "spin direction", 0))
	}
	if d.field.AlignSpins && r3.Norm(d.field.Dir) > d.eps {
		dir = d.field.Dir
	}
	if r3.Norm(dir) < d.eps {
		d.warnf("magnon: site %q has no spin direction, using z", s.Name)
		dir = d.zdir
	}
	s.SpinDirCalc = r3.Unit(dir)

	if ortho := s.SpinOrtho; ortho[0] != "" || ortho[1] != "" || ortho[2] != "" {
		//An explicitly given plane vector takes precedence over the
		//one derived from the rotation.
		for i := 0; i < 3; i++ {
			s.U[i] = d.evalComplex(p, ortho[i], "spin ortho")
		}
		s.UConj = s.U.Conj()
		s.V = cv3.VecFromReal(s.SpinDirCalc)
	} else {
		rot := cv3.RotationTo(d.zdir, s.SpinDirCalc, d.rotAxis, d.eps)
		c0, c1, c2 := rot.Col(0), rot.Col(1), rot.Col(2)
		s.U = c0.Add(c1.Scale(1i))
		s.UConj = s.U.Conj()
		s.V = c2
	}

	g := d.siteG(s)
	s.GU = g.MulVec(s.U)
	s.GUConj = g.MulVec(s.UConj)
	s.GV = g.MulVec(s.V)
}

//siteG returns the site's gyromagnetic tensor, defaulting to g_e*I.
func (d *Dynamics) siteG(s *Site) cv3.Mat {
	if s.G != nil {
		return *s.G
	}
	return cv3.Diag(complex(gE, 0))
}

//CalcCouplings evaluates the symbolic fields of every exchange term and
//resolves its site references. A term naming an unknown site is marked
//with index -1 and reported; it stays in the model but contributes
//nothing.
func (d *Dynamics) CalcCouplings() {
	p := d.parser()
	for _, c := range d.couplings {
		d.calcCoupling(p, c)
	}
}

func (d *Dynamics) calcCoupling(p *expr.Parser, c *Coupling) {
	c.Site1Idx = d.SiteIndex(c.Site1)
	c.Site2Idx = d.SiteIndex(c.Site2)
	if c.Site1Idx < 0 || c.Site2Idx < 0 {
		d.warnf("magnon: coupling %q references an unknown site (%q, %q)",
			c.Name, c.Site1, c.Site2)
	}
	for i := 0; i < 3; i++ {
		setVecComp(&c.DistCalc, i, d.evalReal(p, c.Dist[i], "coupling distance", 0))
	}
	c.JCalc = d.evalComplex(p, c.J, "exchange constant")
	for i := 0; i < 3; i++ {
		c.DMICalc[i] = d.evalComplex(p, c.DMI[i], "DMI vector")
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.JGenCalc[i][j] = d.evalComplex(p, c.JGen[i][j], "general exchange")
		}
	}
}

//couplingOK reports whether a coupling's site indices are usable with
//the current site list.
func (d *Dynamics) couplingOK(c *Coupling) bool {
	n := len(d.sites)
	return c.Site1Idx >= 0 && c.Site1Idx < n && c.Site2Idx >= 0 && c.Site2Idx < n
}

func setVecComp(v *r3.Vec, i int, val float64) {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
}
