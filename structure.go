/*
 * structure.go, part of gocryst.
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

package cryst

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//Structure is an ordered collection of atoms in one unit cell. All its
//atoms share, by reference, the single Lattice owned by the Structure, so
//the coordinate system of the whole collection can never drift out of sync
//between members: it is reassigned for every atom at once whenever the
//structure's lattice changes.
type Structure struct {
	Title   string
	Atoms   []*Atom
	lattice *Lattice
}

//NewStructure makes a structure with the given atoms, referred to the given
//lattice. A nil lattice means absolute Cartesian coordinates. The lattice
//reference of every atom is set to the structure's one. It returns an error
//if ats is nil.
func NewStructure(ats []*Atom, lattice *Lattice) (*Structure, error) {
	if ats == nil {
		return nil, fmt.Errorf("gocryst: " + ErrNilAtoms)
	}
	S := new(Structure)
	S.Atoms = ats
	S.lattice = lattice
	for _, at := range S.Atoms {
		at.SetLattice(lattice)
	}
	return S, nil
}

//Len returns the number of atoms in the structure.
func (S *Structure) Len() int {
	return len(S.Atoms)
}

//Atom returns the atom corresponding to the index i of the atom slice.
//Panics if out of range.
func (S *Structure) Atom(i int) *Atom {
	if i >= S.Len() {
		panic("gocryst: requested Atom out of bounds")
	}
	return S.Atoms[i]
}

//AddAtom appends an atom to the structure, pointing its lattice reference
//to the structure's lattice.
func (S *Structure) AddAtom(at *Atom) {
	if at == nil {
		panic("gocryst: attempted to add a nil atom")
	}
	at.SetLattice(S.lattice)
	S.Atoms = append(S.Atoms, at)
}

//Lattice returns the lattice shared by all atoms of the structure, or nil
//for absolute Cartesian coordinates.
func (S *Structure) Lattice() *Lattice { return S.lattice }

//SetLattice makes the fractional coordinates of every atom refer to the
//given lattice, without transforming them (the absolute positions change
//unless the lattices are equal). Use PlaceInLattice to switch lattices
//while preserving the absolute geometry.
func (S *Structure) SetLattice(L *Lattice) error {
	if L == nil {
		return LatticeError{message: ErrNilLattice, deco: []string{"SetLattice"}}
	}
	S.lattice = L
	for _, at := range S.Atoms {
		at.SetLattice(L)
	}
	return nil
}

//Copy returns a duplicate of the structure. The lattice is deep copied once
//and shared among the copied atoms.
func (S *Structure) Copy() *Structure {
	N := new(Structure)
	N.Title = S.Title
	if S.lattice != nil {
		N.lattice = S.lattice.Copy()
	}
	N.Atoms = make([]*Atom, S.Len())
	for i, at := range S.Atoms {
		N.Atoms[i] = at.Copy()
		N.Atoms[i].SetLattice(N.lattice)
	}
	return N
}

//PlaceInLattice re-expresses the whole structure in the coordinate system
//of newlat, preserving the absolute geometry: the fractional coordinates of
//every atom are transformed so their Cartesian positions do not move, and
//the displacement tensor of every anisotropic atom is re-expressed in the
//new fractional basis by the corresponding congruence transform. Isotropic
//atoms need no tensor update, as their scalar equivalent does not depend on
//the lattice. The shared lattice reference is switched to newlat at the
//end.
func (S *Structure) PlaceInLattice(newlat *Lattice) error {
	if newlat == nil {
		return LatticeError{message: ErrNilLattice, deco: []string{"PlaceInLattice"}}
	}
	old := S.lattice
	if old == nil {
		old = cartesianLattice
	}
	//xyz*base(old) is the Cartesian position, and multiplying that by
	//recbase(new) gives the same point in the new fractional coordinates.
	Tx := new(mat.Dense)
	Tx.Mul(old.base, newlat.recbase)
	Tu := new(mat.Dense)
	Tu.Mul(old.normbase, newlat.recnormbase)
	for _, at := range S.Atoms {
		xyz := make([]float64, 3)
		for j := 0; j < 3; j++ {
			xyz[j] = at.XYZ[0]*Tx.At(0, j) + at.XYZ[1]*Tx.At(1, j) + at.XYZ[2]*Tx.At(2, j)
		}
		copy(at.XYZ, xyz)
		if at.anisotropy {
			at.u = congruence(Tu, at.tensor())
		}
		at.SetLattice(newlat)
	}
	S.lattice = newlat
	return nil
}
