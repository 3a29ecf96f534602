/*
 * doc.go, part of gomagnon.
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

/*Package magnon computes magnon dispersions and dynamical spin-spin
correlation tensors of ordered magnetic structures in linear spin-wave
theory, following the formalism of Toth and Lake (J. Phys.: Condens.
Matter 27, 166002, 2015).


	**gomagnon Capabilities**


    Builds spin models from sites, pairwise exchange terms (isotropic,
	Dzyaloshinskii-Moriya and general tensors), named variables,
	an external magnetic field and an ordering wavevector. All model
	quantities accept symbolic expressions.

    Assembles the bosonic spin-wave Hamiltonian at any momentum
	transfer and diagonalizes it the paraunitary way, with automatic
	regularization of Goldstone modes.

    Computes the neutron-scattering intensities of every magnon band,
	with the polarization factor and, optionally, the Bose occupation
	factor.

    Handles incommensurate structures by combining the contributions
	at Q and at the ordering satellites.

    Sweeps dispersion paths concurrently.

    Computes Berry curvatures of the magnon bands.

    Searches for the classical ground-state spin configuration, with
	support for fixing parameters and for cancelling a running search.

All energies are in meV, fields in T, temperatures in K and momenta in
relative lattice units.

The evaluation methods of a model are safe for concurrent use once the
model has been resolved with Calc; mutators are not. Clone gives each
goroutine its own model when the model itself must vary.
*/
package magnon
