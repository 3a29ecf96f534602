/*
 * groundstate.go, part of gomagnon.
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
	"errors"
	"math"
	"strconv"
	"sync/atomic"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/gomagnon/cv3"
)

//GroundStateEnergy is the classical energy of the current spin
//configuration: the zero-operator term of the boson expansion summed
//over all resolvable exchange terms, plus the Zeeman energy of every
//spin in the external field. The model must have been Calc-ed.
func (d *Dynamics) GroundStateEnergy() float64 {
	e := 0.0
	for _, c := range d.couplings {
		if !d.couplingOK(c) {
			continue
		}
		si := d.sites[c.Site1Idx]
		sj := d.sites[c.Site2Idx]
		j := d.realJ(c)
		vi := si.V.Scale(complex(si.SpinMagCalc, 0))
		vj := sj.V.Scale(complex(sj.SpinMagCalc, 0))
		e += real(cv3.Bilinear(vi, j, vj))
	}
	if d.fieldOn() {
		//sign chosen so that spins along the field direction are the
		//minimum, matching the positive Zeeman gap of the Hamiltonian
		b := cv3.VecFromReal(r3.Scale(d.field.Mag, d.field.Dir))
		for _, s := range d.sites {
			e -= muB * s.SpinMagCalc * real(cv3.Dot(b, s.GV))
		}
	}
	return e
}

//MinimumEnergy returns the magnon energy closest to zero over the
//current Brillouin-zone sample at Q=0 and the ordering satellites. It
//is a quick stability check: a clearly negative minimum means the spin
//configuration is not the ground state.
func (d *Dynamics) MinimumEnergy() float64 {
	qs := []r3.Vec{{}}
	if d.IsIncommensurate() {
		qs = append(qs, d.ordering, r3.Scale(-1, d.ordering))
	}
	min := 0.0
	first := true
	for _, q := range qs {
		for _, b := range d.Energies(q).Bands {
			if first || math.Abs(b.E) < math.Abs(min) {
				min = b.E
				first = false
			}
		}
	}
	return min
}

//ErrCancelled is returned by Minimiser.Minimise when Stop was called
//before convergence. The model then holds the best configuration seen
//up to the cancellation, which is a usable state, not an error one.
var ErrCancelled = errors.New("magnon: ground state search cancelled")

//Minimiser searches for the classical ground state of a model by
//varying the spin directions of its sites. Each direction is
//parametrized by two coordinates on the unit sphere, (u, v) in [0, 1]^2
//with u the azimuth fraction and v the cosine-uniform polar coordinate;
//either may be fixed per site. One Minimise call runs at a time; Stop
//may be called from any goroutine.
type Minimiser struct {
	dyn       *Dynamics
	fixedU    map[string]bool
	fixedV    map[string]bool
	running   int32
	cancelled int32
}

//NewMinimiser returns a ground-state searcher for the model. The model
//must have been Calc-ed, and must not be mutated while a search runs.
func (d *Dynamics) NewMinimiser() *Minimiser {
	return &Minimiser{
		dyn:    d,
		fixedU: make(map[string]bool),
		fixedV: make(map[string]bool),
	}
}

//FixSite pins the azimuth (u), the polar coordinate (v), or both, of
//the named site to their current values during the search.
func (m *Minimiser) FixSite(name string, u, v bool) {
	m.fixedU[name] = u
	m.fixedV[name] = v
}

//Running reports whether a search is in progress.
func (m *Minimiser) Running() bool { return atomic.LoadInt32(&m.running) != 0 }

//Stop cancels a running search. It is a no-op when nothing runs.
func (m *Minimiser) Stop() { atomic.StoreInt32(&m.cancelled, 1) }

//Minimise searches for the spin configuration of least classical
//energy, starting from the current one, and writes the best
//configuration found back into the model's spin directions (the model
//is re-Calc-ed). It returns that configuration's energy. If every
//parameter is fixed there is nothing to vary and the current energy
//comes back immediately. A cancelled search still applies its best
//configuration and returns ErrCancelled.
func (m *Minimiser) Minimise() (float64, error) {
	if !atomic.CompareAndSwapInt32(&m.running, 0, 1) {
		return 0, errors.New("magnon: minimiser already running")
	}
	defer atomic.StoreInt32(&m.running, 0)
	atomic.StoreInt32(&m.cancelled, 0)

	d := m.dyn
	sites := d.Sites()
	//Map the free parameters: (site, coordinate) pairs not pinned.
	type param struct {
		site int
		isV  bool
	}
	var free []param
	x0 := []float64{}
	uv := make([][2]float64, len(sites))
	for i, s := range sites {
		u, v := dirToUV(s.SpinDirCalc)
		uv[i] = [2]float64{u, v}
		if !m.fixedU[s.Name] {
			free = append(free, param{i, false})
			x0 = append(x0, u)
		}
		if !m.fixedV[s.Name] {
			free = append(free, param{i, true})
			x0 = append(x0, v)
		}
	}
	if len(free) == 0 {
		return d.GroundStateEnergy(), nil
	}

	//The objective works on a scratch copy so a cancelled or failed
	//search never leaves the model half written.
	scratch := d.Clone()
	scratch.SetSilent(true)
	energy := func(x []float64) float64 {
		cur := uv
		applied := make([][2]float64, len(cur))
		copy(applied, cur)
		for k, p := range free {
			if p.isV {
				applied[p.site][1] = clamp01(x[k])
			} else {
				applied[p.site][0] = wrap01(x[k])
			}
		}
		for i, s := range scratch.Sites() {
			setSpinDir(s, uvToDir(applied[i][0], applied[i][1]))
		}
		scratch.CalcSites()
		return scratch.GroundStateEnergy()
	}

	best := make([]float64, len(x0))
	copy(best, x0)
	bestE := energy(x0)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			e := energy(x)
			if e < bestE {
				bestE = e
				copy(best, x)
			}
			return e
		},
	}
	settings := &optimize.Settings{
		Recorder:  stopRecorder{flag: &m.cancelled},
		Converger: &optimize.FunctionConverge{Absolute: 1e-10, Iterations: 100},
	}
	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})

	cancelled := atomic.LoadInt32(&m.cancelled) != 0
	if err == nil && result != nil && result.F <= bestE {
		bestE = result.F
		copy(best, result.X)
	}

	//Write the best configuration back into the model.
	final := make([][2]float64, len(uv))
	copy(final, uv)
	for k, p := range free {
		if p.isV {
			final[p.site][1] = clamp01(best[k])
		} else {
			final[p.site][0] = wrap01(best[k])
		}
	}
	for i, s := range sites {
		setSpinDir(s, uvToDir(final[i][0], final[i][1]))
	}
	d.CalcSites()

	switch {
	case cancelled:
		return bestE, ErrCancelled
	case err != nil:
		return bestE, err
	default:
		return bestE, nil
	}
}

//MinimiseAsync runs Minimise on its own goroutine and delivers the
//outcome on the returned channel.
func (m *Minimiser) MinimiseAsync() <-chan MinimiseResult {
	ch := make(chan MinimiseResult, 1)
	go func() {
		e, err := m.Minimise()
		ch <- MinimiseResult{E: e, Err: err}
	}()
	return ch
}

//MinimiseResult is the outcome of an asynchronous ground-state search.
type MinimiseResult struct {
	E   float64
	Err error
}

//stopRecorder aborts an optimization when the flag it watches is
//raised; gonum's optimizer stops on the first Record error.
type stopRecorder struct {
	flag *int32
}

func (stopRecorder) Init() error { return nil }

func (r stopRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if atomic.LoadInt32(r.flag) != 0 {
		return ErrCancelled
	}
	return nil
}

//dirToUV maps a unit vector to the (u, v) chart: u is the azimuth as a
//fraction of the full turn, v the polar coordinate scaled so that a
//uniform v samples the sphere uniformly.
func dirToUV(dir r3.Vec) (u, v float64) {
	n := r3.Norm(dir)
	if n == 0 {
		return 0, 0
	}
	dir = r3.Scale(1/n, dir)
	phi := math.Atan2(dir.Y, dir.X)
	u = wrap01(phi / (2 * math.Pi))
	v = (1 - dir.Z) / 2
	return u, v
}

//uvToDir is the inverse of dirToUV.
func uvToDir(u, v float64) r3.Vec {
	phi := 2 * math.Pi * wrap01(u)
	cosTheta := 1 - 2*clamp01(v)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	return r3.Vec{
		X: sinTheta * math.Cos(phi),
		Y: sinTheta * math.Sin(phi),
		Z: cosTheta,
	}
}

//setSpinDir writes a numeric direction into a site's symbolic fields,
//so the next CalcSites reproduces it.
func setSpinDir(s *Site, dir r3.Vec) {
	s.SpinDir[0] = strconv.FormatFloat(dir.X, 'g', 17, 64)
	s.SpinDir[1] = strconv.FormatFloat(dir.Y, 'g', 17, 64)
	s.SpinDir[2] = strconv.FormatFloat(dir.Z, 'g', 17, 64)
}

func wrap01(x float64) float64 {
	x = math.Mod(x, 1)
	if x < 0 {
		x++
	}
	return x
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
