/*
 * doc.go, part of gocryst.
 *
 * Copyright 2021 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package cryst provides structures for crystal models: a general lattice
coordinate system and atoms with positions and thermal displacement
parameters, plus facilities for reading and writing some structure file
formats.

	**gocryst capabilities**

    Builds a Lattice from cell parameters or from explicit base vectors,
	deriving in either case the reciprocal cell, the metric tensor and the
	(standard, rotated, reciprocal and length-normalized) base matrices,
	which are always kept mutually consistent.

    Converts positions between fractional and Cartesian coordinates, and
	computes dot products, norms, distances and angles directly in
	fractional coordinates through the metric tensor.

    Keeps, for every atom, the isotropic scalar and the anisotropic 3x3
	tensor descriptions of its thermal displacements synchronized against
	its lattice, with either representation authoritative at a time, and
	computes mean square displacements along arbitrary directions.

    Re-expresses a whole structure in a different lattice while preserving
	its absolute geometry, transforming positions and displacement tensors
	together (e.g. when a file declares a supercell).

    Reads/writes PDFfit (stru) and xyz files, transparently handling
	gzip and zstd compression.

All the fixed-size algebra is done with gonum Dense matrices, so lattice
and tensor quantities interoperate directly with the rest of the gonum
ecosystem.

Concurrent reads of an unchanging Lattice are safe; mutating a Lattice or
any Atom sharing it must be serialized by the caller.*/
package cryst
