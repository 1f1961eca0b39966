/*
 * structure_test.go, part of gocryst.
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

package cryst

import (
	"fmt"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func testStructure(Te *testing.T) *Structure {
	L, err := NewLattice(4, 4, 6, 90, 90, 120)
	if err != nil {
		Te.Fatal(err)
	}
	ats := []*Atom{
		NewAtom("Zn", []float64{1.0 / 3, 2.0 / 3, 0.25}, nil),
		NewAtom("S", []float64{1.0 / 3, 2.0 / 3, 0.625}, nil),
	}
	ats[0].SetUisoequiv(0.005)
	ats[1].SetAnisotropy(true)
	S, err := NewStructure(ats, L)
	if err != nil {
		Te.Fatal(err)
	}
	if err := ats[1].SetU(mat.NewDense(3, 3, []float64{0.008, 0.004, 0, 0.004, 0.008, 0, 0, 0, 0.012})); err != nil {
		Te.Fatal(err)
	}
	return S
}

func TestStructureLattice(Te *testing.T) {
	fmt.Println("Structure lattice test!")
	S := testStructure(Te)
	for i := 0; i < S.Len(); i++ {
		if S.Atom(i).Lattice() != S.Lattice() {
			Te.Errorf("atom %d does not share the structure's lattice", i)
		}
	}
	//SetLattice must repoint every atom, including ones added later
	at := NewAtom("O", []float64{0, 0, 0}, nil)
	S.AddAtom(at)
	N, err := NewLattice(5, 5, 5, 90, 90, 90)
	if err != nil {
		Te.Fatal(err)
	}
	if err := S.SetLattice(N); err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < S.Len(); i++ {
		if S.Atom(i).Lattice() != N {
			Te.Errorf("atom %d was left on the old lattice", i)
		}
	}
	if err := S.SetLattice(nil); err == nil {
		Te.Error("SetLattice accepted a nil lattice")
	}
	if _, err := NewStructure(nil, N); err == nil {
		Te.Error("NewStructure accepted a nil atom slice")
	}
}

func TestStructureCopy(Te *testing.T) {
	fmt.Println("Structure copy test!")
	S := testStructure(Te)
	C := S.Copy()
	if C.Lattice() == S.Lattice() {
		Te.Error("copy shares the original lattice instance")
	}
	C.Atom(0).XYZ[0] = 0.9
	if S.Atom(0).XYZ[0] == 0.9 {
		Te.Error("mutating a copied atom changed the original")
	}
	if C.Atom(1).Lattice() != C.Lattice() {
		Te.Error("copied atoms do not share the copied lattice")
	}
}

//rebasing onto the same lattice must change nothing.
func TestPlaceInLatticeIdentity(Te *testing.T) {
	fmt.Println("Identity rebase test!")
	S := testStructure(Te)
	xyz0 := append([]float64{}, S.Atom(0).XYZ...)
	u1 := S.Atom(1).U()
	same := S.Lattice().Copy()
	if err := S.PlaceInLattice(same); err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if !closeTo(S.Atom(0).XYZ[i], xyz0[i], 1e-12) {
			Te.Error("identity rebase moved an atom:", S.Atom(0).XYZ)
		}
	}
	if d := maxAbsDiff(u1, S.Atom(1).U()); d > 1e-12 {
		Te.Errorf("identity rebase changed a tensor by %g", d)
	}
}

//a real rebase changes the fractional numbers but not the physics:
//Cartesian positions and Cartesian mean square displacements survive.
func TestPlaceInLattice(Te *testing.T) {
	fmt.Println("Rebase test!")
	S := testStructure(Te)
	cart0 := S.Atom(0).XYZCartn()
	cart1 := S.Atom(1).XYZCartn()
	dirs := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, -1, 2}}
	msd1 := make([]float64, len(dirs))
	for i, d := range dirs {
		msd1[i] = S.Atom(1).MSDCart(d)
	}
	uiso0 := S.Atom(0).Uisoequiv()
	N, err := NewLattice(3, 5, 7, 85, 95, 105)
	if err != nil {
		Te.Fatal(err)
	}
	if err := S.PlaceInLattice(N); err != nil {
		Te.Fatal(err)
	}
	if S.Lattice() != N || S.Atom(0).Lattice() != N {
		Te.Error("structure or atoms not repointed to the new lattice")
	}
	for i, want := range [][]float64{cart0, cart1} {
		got := S.Atom(i).XYZCartn()
		for k := 0; k < 3; k++ {
			if !closeTo(got[k], want[k], 1e-10) {
				Te.Errorf("Cartesian position of atom %d changed: %v -> %v", i, want, got)
			}
		}
	}
	for i, d := range dirs {
		if m := S.Atom(1).MSDCart(d); !closeTo(m, msd1[i], 1e-10) {
			Te.Errorf("Cartesian MSD along %v changed: %g -> %g", d, msd1[i], m)
		}
	}
	//the isotropic atom stays isotropic, with the same equivalent
	if S.Atom(0).Anisotropy() {
		Te.Error("rebase turned an isotropic atom anisotropic")
	}
	if !closeTo(S.Atom(0).Uisoequiv(), uiso0, 1e-12) {
		Te.Error("rebase changed the isotropic equivalent:", S.Atom(0).Uisoequiv())
	}
	if err := S.PlaceInLattice(nil); err == nil {
		Te.Error("PlaceInLattice accepted a nil lattice")
	}
}
