/*
 * rotation.go, part of gomagnon.
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

package cv3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

//AxisAngle returns the rotation matrix for a rotation by angle radians
//about the given axis, following the Rodrigues construction. The axis is
//normalized internally; a zero axis yields the identity.
func AxisAngle(axis r3.Vec, angle float64) Mat {
	n := r3.Norm(axis)
	if n == 0 {
		return Ident()
	}
	a := r3.Scale(1/n, axis)
	c := math.Cos(angle)
	s := math.Sin(angle)
	//R = c I + s [a]_x + (1-c) a a^T
	id := Diag(complex(c, 0))
	sk := Skew(VecFromReal(a)).Scale(complex(s, 0))
	op := OuterReal(a, a).Scale(complex(1-c, 0))
	return id.Add(sk).Add(op)
}

//RotationTo returns the rotation matrix R with R*from = to, for unit
//vectors from and to. When the two vectors are anti-parallel the rotation
//axis is ambiguous; axisHint (projected onto the plane orthogonal to
//from) disambiguates it. If the hint itself is degenerate, a fixed
//fallback axis orthogonal to from is used, so the result is always
//deterministic. eps is the tolerance for the parallel/anti-parallel
//detection.
func RotationTo(from, to, axisHint r3.Vec, eps float64) Mat {
	f := r3.Unit(from)
	t := r3.Unit(to)
	c := r3.Dot(f, t)
	if c >= 1-eps {
		return Ident()
	}
	if c <= -1+eps {
		//rotate by pi about an axis orthogonal to f
		return AxisAngle(orthoAxis(f, axisHint, eps), math.Pi)
	}
	axis := r3.Cross(f, t)
	angle := math.Acos(math.Max(-1, math.Min(1, c)))
	return AxisAngle(axis, angle)
}

//orthoAxis returns a unit vector orthogonal to f, preferring the
//component of hint orthogonal to f, and deterministically falling back to
//the coordinate axis least aligned with f.
func orthoAxis(f, hint r3.Vec, eps float64) r3.Vec {
	h := r3.Sub(hint, r3.Scale(r3.Dot(hint, f), f))
	if n := r3.Norm(h); n > eps {
		return r3.Scale(1/n, h)
	}
	//hint was zero or parallel to f: pick the coordinate axis with the
	//smallest projection on f
	axes := []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	best := axes[0]
	min := math.Abs(f.X)
	if math.Abs(f.Y) < min {
		best, min = axes[1], math.Abs(f.Y)
	}
	if math.Abs(f.Z) < min {
		best = axes[2]
	}
	h = r3.Sub(best, r3.Scale(r3.Dot(best, f), f))
	return r3.Scale(1/r3.Norm(h), h)
}

//OuterReal returns the outer product a b^T of two real vectors as a
//complex matrix.
func OuterReal(a, b r3.Vec) Mat {
	av := [3]float64{a.X, a.Y, a.Z}
	bv := [3]float64{b.X, b.Y, b.Z}
	var r Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = complex(av[i]*bv[j], 0)
		}
	}
	return r
}

//ProjectorOnto returns the orthogonal projector n n^T onto the direction
//of n, which is normalized internally.
func ProjectorOnto(n r3.Vec) Mat {
	u := r3.Unit(n)
	return OuterReal(u, u)
}

//ProjectorPerp returns the orthogonal projector 1 - q q^T onto the plane
//perpendicular to q. It is the projector that removes the longitudinal
//component of a correlation tensor in the magnetic neutron cross-section.
func ProjectorPerp(q r3.Vec) Mat {
	return Ident().Add(ProjectorOnto(q).Scale(-1))
}
