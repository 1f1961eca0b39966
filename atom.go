/*
 * atom.go, part of gocryst.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//Conversion constants between the U and B (Debye-Waller) conventions for
//atomic displacements: B = 8*pi^2*U.
const (
	UtoB float64 = 8.0 * math.Pi * math.Pi
	BtoU float64 = 1.0 / UtoB
)

//cartesianLattice is the coordinate system used by atoms with no associated
//lattice. It is shared and never mutated.
var cartesianLattice = CartesianLattice()

//Atom stores the information for a single atom of a crystal structure: its
//element symbol, fractional position, occupancy and thermal displacement
//parameters. The displacement state can be either isotropic, with the scalar
//equivalent authoritative, or anisotropic, with the 3x3 tensor (expressed in
//the fractional basis of the associated lattice) authoritative. The two
//representations are kept synchronized lazily: a staleness flag records
//whether the cached tensor of an isotropic atom still matches the scalar,
//and the tensor is rebuilt on read when it does not.
type Atom struct {
	Symbol     string    //element or ion symbol
	Label      string    //unique label to refer to this atom, e.g. "C_1"
	XYZ        []float64 //fractional coordinates in the associated lattice
	Occupancy  float64
	lattice    *Lattice //nil means absolute Cartesian coordinates
	anisotropy bool
	u          *mat.Dense //the displacement tensor
	uiso       float64    //the isotropic equivalent
	usynced    bool       //does u still match uiso, for an isotropic atom?
}

//NewAtom returns an atom with the given element symbol and fractional
//coordinates, referred to the given lattice (which can be nil for absolute
//Cartesian coordinates). Occupancy is set to 1 and displacements to zero,
//isotropic. Panics if xyz is non-nil with fewer than 3 elements.
func NewAtom(symbol string, xyz []float64, lattice *Lattice) *Atom {
	A := new(Atom)
	A.Symbol = symbol
	A.XYZ = make([]float64, 3)
	if xyz != nil {
		if len(xyz) < 3 {
			panic("gocryst: NewAtom needs 3 fractional coordinates")
		}
		copy(A.XYZ, xyz)
	}
	A.Occupancy = 1.0
	A.lattice = lattice
	A.u = mat.NewDense(3, 3, nil)
	return A
}

//Copy returns a duplicate of the atom, with its own coordinate and tensor
//storage. The lattice is shared by reference, as all atoms of a structure
//point to the same Lattice instance.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("gocryst: attempted to copy a nil atom")
	}
	N := new(Atom)
	N.Symbol = A.Symbol
	N.Label = A.Label
	N.XYZ = make([]float64, 3)
	copy(N.XYZ, A.XYZ)
	N.Occupancy = A.Occupancy
	N.lattice = A.lattice
	N.anisotropy = A.anisotropy
	N.u = mat.DenseCopyOf(A.tensor())
	N.uiso = A.uiso
	N.usynced = A.usynced
	return N
}

//lat returns the coordinate system for this atom: its lattice, or the
//shared Cartesian one when it has none.
func (A *Atom) lat() *Lattice {
	if A.lattice == nil {
		return cartesianLattice
	}
	return A.lattice
}

//tensor returns the internal tensor storage, allocating it if the Atom was
//built as a zero value rather than with NewAtom.
func (A *Atom) tensor() *mat.Dense {
	if A.u == nil {
		A.u = mat.NewDense(3, 3, nil)
	}
	return A.u
}

//Lattice returns the lattice this atom's fractional coordinates and tensor
//refer to, or nil for absolute Cartesian coordinates.
func (A *Atom) Lattice() *Lattice { return A.lattice }

//SetLattice makes the atom's coordinates and tensor refer to the given
//lattice. It does not transform anything: it is meant for the owning
//Structure, which keeps a single lattice reference for all its atoms (see
//Structure.PlaceInLattice for the transforming counterpart).
func (A *Atom) SetLattice(L *Lattice) { A.lattice = L }

//Anisotropy reports whether the 3x3 displacement tensor is the
//authoritative representation for this atom. When false, the isotropic
//scalar equivalent is authoritative instead.
func (A *Atom) Anisotropy() bool { return A.anisotropy }

//SetAnisotropy switches between the isotropic and anisotropic
//representations. Turning anisotropy on materializes the tensor from the
//current scalar equivalent, which is lossless for the scalar. Turning it
//off reduces the tensor to its scalar equivalent, discarding the
//anisotropic shape.
func (A *Atom) SetAnisotropy(aniso bool) {
	if aniso == A.anisotropy {
		return
	}
	if aniso {
		A.materialize()
	} else {
		A.uiso = A.Uisoequiv() //still anisotropic here, so this reduces the tensor
		A.usynced = false
	}
	A.anisotropy = aniso
}

//materialize rebuilds the tensor as the isotropic tensor for the current
//scalar equivalent, transpose(Tu)*uiso*Tu with Tu the normalized reciprocal
//base, which amounts to scaling the lattice unit isotropic tensor.
func (A *Atom) materialize() {
	u := A.tensor()
	iso := A.lat().IsotropicUnit()
	u.Scale(A.uiso, iso)
	A.usynced = true
}

//U returns the 3x3 tensor of displacement parameters. For an isotropic atom
//whose cached tensor is stale, the tensor is first rebuilt from the scalar
//equivalent. The returned matrix is a copy: tensor writes must go through
//SetU or SetUij so that the isotropic/anisotropic state is honored.
func (A *Atom) U() *mat.Dense {
	if !A.anisotropy && !A.usynced {
		A.materialize()
	}
	return mat.DenseCopyOf(A.tensor())
}

//SetU sets the whole displacement tensor. The given tensor is expected to
//be symmetric; it is symmetrized on assignment. It returns an
//IsotropyError, changing nothing, if the atom is isotropic.
func (A *Atom) SetU(u *mat.Dense) error {
	if !A.anisotropy {
		return IsotropyError{message: ErrIsotropicU, deco: []string{"SetU"}}
	}
	A.u = symmetrize3(u)
	return nil
}

//Uij returns the i,j element of the displacement tensor. Isotropic atoms
//answer from the scalar equivalent without touching the cached tensor.
func (A *Atom) Uij(i, j int) float64 {
	if A.anisotropy {
		return A.tensor().At(i, j)
	}
	return A.uiso * A.lat().IsotropicUnit().At(i, j)
}

//SetUij sets the i,j and j,i elements of the displacement tensor to the
//given value. It returns an IsotropyError, changing nothing, if the atom is
//isotropic: enable anisotropy first.
func (A *Atom) SetUij(i, j int, value float64) error {
	if !A.anisotropy {
		return IsotropyError{message: ErrIsotropicU, deco: []string{"SetUij"}}
	}
	u := A.tensor()
	u.Set(i, j, value)
	u.Set(j, i, value)
	return nil
}

//Uisoequiv returns the isotropic displacement parameter for an isotropic
//atom, or the equivalent direction-averaged displacement for an anisotropic
//one. The anisotropic equivalent is invariant under lattice rebasing; its
//value is cached.
func (A *Atom) Uisoequiv() float64 {
	if !A.anisotropy {
		return A.uiso
	}
	u := A.tensor()
	if A.lattice == nil {
		A.uiso = (u.At(0, 0) + u.At(1, 1) + u.At(2, 2)) / 3.0
		return A.uiso
	}
	lat := A.lattice
	A.uiso = (u.At(0, 0)*lat.ar*lat.ar*lat.a*lat.a +
		u.At(1, 1)*lat.br*lat.br*lat.b*lat.b +
		u.At(2, 2)*lat.cr*lat.cr*lat.c*lat.c +
		2.0*u.At(0, 1)*lat.ar*lat.br*lat.a*lat.b*lat.cg +
		2.0*u.At(0, 2)*lat.ar*lat.cr*lat.a*lat.c*lat.cb +
		2.0*u.At(1, 2)*lat.br*lat.cr*lat.b*lat.c*lat.ca) / 3.0
	return A.uiso
}

//SetUisoequiv sets the isotropic displacement parameter. For an anisotropic
//atom the tensor is rescaled so its equivalent matches the new value,
//preserving the anisotropic shape; if the current equivalent is too close
//to zero for a rescale (e.g. a brand new zero tensor), the tensor is
//replaced outright by the isotropic tensor for the new value.
func (A *Atom) SetUisoequiv(value float64) {
	if A.anisotropy {
		uequiv := A.Uisoequiv()
		A.uiso = value
		if math.Abs(uequiv) < latEpsilon {
			A.materialize()
		} else {
			u := A.tensor()
			u.Scale(value/uequiv, u)
		}
		return
	}
	A.uiso = value
	A.usynced = false
}

//Bisoequiv returns the isotropic displacement in the Debye-Waller
//convention, 8*pi^2*Uisoequiv.
func (A *Atom) Bisoequiv() float64 { return UtoB * A.Uisoequiv() }

//SetBisoequiv sets the isotropic displacement from a value in the
//Debye-Waller convention.
func (A *Atom) SetBisoequiv(value float64) { A.SetUisoequiv(BtoU * value) }

//Bij returns the i,j element of the displacement tensor in the Debye-Waller
//convention.
func (A *Atom) Bij(i, j int) float64 { return UtoB * A.Uij(i, j) }

//SetBij sets the i,j and j,i tensor elements from a value in the
//Debye-Waller convention. As SetUij, it fails with an IsotropyError on an
//isotropic atom.
func (A *Atom) SetBij(i, j int, value float64) error {
	err := A.SetUij(i, j, BtoU*value)
	if err != nil {
		err = errDecorate(err, "SetBij")
	}
	return err
}

//DetermineAnisotropy decides from the tensor itself whether this atom needs
//the anisotropic representation: it compares the current tensor against the
//isotropic tensor with the same equivalent, and flags the atom anisotropic
//when any element differs by more than the tolerance (1e-6 unless a
//different one is given). Note that this is a mutator, not an accessor: the
//resulting representation is both set on the atom and returned.
func (A *Atom) DetermineAnisotropy(tol ...float64) bool {
	eps := 1e-6
	if len(tol) > 0 && tol[0] > 0 {
		eps = tol[0]
	}
	A.anisotropy = true
	uequiv := A.Uisoequiv() //recomputed from the tensor, and cached
	iso := mat.NewDense(3, 3, nil)
	iso.Scale(uequiv, A.lat().IsotropicUnit())
	A.anisotropy = maxAbsDiff(A.tensor(), iso) > eps
	if !A.anisotropy {
		A.usynced = false //the tensor is regenerated from uiso on demand
	}
	return A.anisotropy
}

//MSDLat returns the mean square displacement of the atom along the given
//direction in fractional (lattice) coordinates. For an isotropic atom this
//is just the scalar equivalent, whatever the direction.
func (A *Atom) MSDLat(vl []float64) float64 {
	if !A.anisotropy {
		return A.Uisoequiv()
	}
	lat := A.lat()
	n := lat.Norm(vl)
	vln := []float64{vl[0] / n, vl[1] / n, vl[2] / n}
	//rows of the metric tensor scaled by the reciprocal lengths
	G := lat.metrics
	rl := []float64{lat.ar, lat.br, lat.cr}
	rhs := make([]float64, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rhs[i] += G.At(i, j) * rl[i] * vln[j]
		}
	}
	u := A.tensor()
	msd := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			msd += rhs[i] * u.At(i, j) * rhs[j]
		}
	}
	return msd
}

//MSDCart returns the mean square displacement of the atom along the given
//direction in Cartesian coordinates. For an isotropic atom this is just the
//scalar equivalent, whatever the direction.
func (A *Atom) MSDCart(vc []float64) float64 {
	if !A.anisotropy {
		return A.Uisoequiv()
	}
	lat := A.lat()
	n := math.Sqrt(vc[0]*vc[0] + vc[1]*vc[1] + vc[2]*vc[2])
	vcn := []float64{vc[0] / n, vc[1] / n, vc[2] / n}
	uc := congruence(lat.normbase, A.tensor())
	msd := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			msd += vcn[i] * uc.At(i, j) * vcn[j]
		}
	}
	return msd
}

//XYZCartn returns the position of the atom in absolute Cartesian
//coordinates, computed from the fractional coordinates through the
//associated lattice.
func (A *Atom) XYZCartn() []float64 {
	if A.lattice == nil {
		rc := make([]float64, 3)
		copy(rc, A.XYZ)
		return rc
	}
	return A.lattice.CartesianCoords(A.XYZ)
}

//SetXYZCartn places the atom at the given absolute Cartesian position,
//re-deriving the fractional coordinates through the associated lattice.
func (A *Atom) SetXYZCartn(rc []float64) {
	if A.lattice == nil {
		copy(A.XYZ, rc)
		return
	}
	copy(A.XYZ, A.lattice.FractionalCoords(rc))
}

//String returns a one-line printable representation of the atom.
func (A *Atom) String() string {
	return fmt.Sprintf("%-4s %8.6f %8.6f %8.6f %6.4f", A.Symbol, A.XYZ[0], A.XYZ[1], A.XYZ[2], A.Occupancy)
}
