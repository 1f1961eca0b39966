/*
 * lattice_test.go, part of gocryst.
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
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//close enough, for quantities of order 1.
func closeTo(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCosdExactValues(Te *testing.T) {
	fmt.Println("Exact trigonometry test!")
	cases := map[float64]float64{0: 1, 60: 0.5, 90: 0, 120: -0.5, 180: -1, 240: -0.5, 270: 0, 300: 0.5}
	for ang, want := range cases {
		if got := Cosd(ang); got != want {
			Te.Errorf("Cosd(%g) = %g, want exactly %g", ang, got, want)
		}
		//the special values must hold mod 360, negative angles included
		if got := Cosd(ang - 360.0); got != want {
			Te.Errorf("Cosd(%g) = %g, want exactly %g", ang-360.0, got, want)
		}
	}
	if Sind(90) != 1.0 || Sind(0) != 0.0 || Sind(150) != 0.5 {
		Te.Error("Sind special values are not exact")
	}
	if !closeTo(Cosd(33), math.Cos(33*math.Pi/180), 1e-15) {
		Te.Error("Cosd at a general angle disagrees with math.Cos")
	}
}

func TestCartesianLattice(Te *testing.T) {
	fmt.Println("Default lattice test!")
	L := CartesianLattice()
	if L.A() != 1 || L.B() != 1 || L.C() != 1 || L.Alpha() != 90 || L.Beta() != 90 || L.Gamma() != 90 {
		Te.Error("default lattice is not the unit cube:", L)
	}
	u := []float64{0.3, -1.2, 7.0}
	rc := L.CartesianCoords(u)
	for i := 0; i < 3; i++ {
		if rc[i] != u[i] {
			Te.Errorf("CartesianCoords of the default lattice is not the identity: %v -> %v", u, rc)
		}
	}
	if !closeTo(L.Volume(), 1.0, 1e-15) {
		Te.Error("unit cube volume is not 1:", L.Volume())
	}
}

func TestLatticeParameters(Te *testing.T) {
	fmt.Println("Lattice from parameters test!")
	L, err := NewLattice(1, 2, 3, 80, 100, 120)
	if err != nil {
		Te.Fatal(err)
	}
	base := L.Base()
	lengths := []float64{1, 2, 3}
	for i := 0; i < 3; i++ {
		n := math.Sqrt(rowDot(base, i, i))
		if !closeTo(n, lengths[i], 1e-12) {
			Te.Errorf("norm of base row %d is %g, want %g", i, n, lengths[i])
		}
	}
	//the angle between the b and c vectors is alpha
	ca := rowDot(base, 1, 2) / (2.0 * 3.0)
	if !closeTo(ca, Cosd(80), 1e-12) {
		Te.Errorf("cos(alpha) from the base is %g, want %g", ca, Cosd(80))
	}
	//and the fractional-space products go through the metric tensor
	if !closeTo(L.Dot([]float64{0, 1, 0}, []float64{0, 0, 1}), 2.0*3.0*Cosd(80), 1e-12) {
		Te.Error("Dot through the metric tensor disagrees with the cell geometry")
	}
	if !closeTo(L.Angle([]float64{0, 1, 0}, []float64{0, 0, 1}), 80, 1e-10) {
		Te.Error("Angle between the b and c axes is not alpha")
	}
	if !closeTo(L.Norm([]float64{0, 0, 1}), 3, 1e-12) {
		Te.Error("Norm of the c axis is not c")
	}
}

func TestBaseParameterRoundTrip(Te *testing.T) {
	fmt.Println("Construction path round trip test!")
	cells := [][6]float64{
		{1, 1, 1, 90, 90, 90},
		{1, 2, 3, 80, 100, 120},
		{3.5, 3.5, 3.5, 87, 87, 87},
		{2, 2, 5, 90, 90, 120},
	}
	for _, cell := range cells {
		L, err := NewLattice(cell[0], cell[1], cell[2], cell[3], cell[4], cell[5])
		if err != nil {
			Te.Fatal(err)
		}
		M, err := NewLatticeFromBase(L.Base())
		if err != nil {
			Te.Fatal(err)
		}
		got := [6]float64{M.A(), M.B(), M.C(), M.Alpha(), M.Beta(), M.Gamma()}
		for i := 0; i < 6; i++ {
			if !closeTo(got[i], cell[i], 1e-10*cell[i]) {
				Te.Errorf("cell %v recovered as %v through the base", cell, got)
				break
			}
		}
	}
}

//checks that recbase stays the exact inverse of base through every
//mutation path.
func TestRecBaseInverse(Te *testing.T) {
	fmt.Println("Inverse base invariant test!")
	check := func(L *Lattice, path string) {
		id := new(mat.Dense)
		id.Mul(L.Base(), L.RecBase())
		if d := maxAbsDiff(id, eye3()); d > 1e-10 {
			Te.Errorf("base*recbase differs from the identity by %g after %s", d, path)
		}
		rot := new(mat.Dense)
		rot.Mul(L.StdBase(), L.BaseRot())
		if d := maxAbsDiff(rot, L.Base()); d > 1e-10 {
			Te.Errorf("base differs from stdbase*baserot by %g after %s", d, path)
		}
	}
	L, err := NewLattice(1, 2, 3, 80, 100, 120)
	if err != nil {
		Te.Fatal(err)
	}
	check(L, "construction")
	if err := L.SetA(4.25); err != nil {
		Te.Error(err)
	}
	check(L, "SetA")
	if err := L.SetGamma(95); err != nil {
		Te.Error(err)
	}
	check(L, "SetGamma")
	if err := L.SetBase(mat.NewDense(3, 3, []float64{1, 1, 0, 0, 1, 1, 1, 0, 1})); err != nil {
		Te.Error(err)
	}
	check(L, "SetBase")
}

func TestLatticeFromBase(Te *testing.T) {
	fmt.Println("Lattice from base vectors test!")
	abc := mat.NewDense(3, 3, []float64{1, 1, 0, 0, 1, 1, 1, 0, 1})
	L, err := NewLatticeFromBase(abc)
	if err != nil {
		Te.Fatal(err)
	}
	r2 := math.Sqrt(2)
	for _, v := range []float64{L.A(), L.B(), L.C()} {
		if !closeTo(v, r2, 1e-12) {
			Te.Error("cell length is not sqrt(2):", v)
		}
	}
	for _, v := range []float64{L.Alpha(), L.Beta(), L.Gamma()} {
		if !closeTo(v, 60, 1e-10) {
			Te.Error("cell angle is not 60:", v)
		}
	}
	//setting the same parameters back must reproduce the original rows,
	//since the rotation recovered by SetBase is kept
	before := mat.DenseCopyOf(L.Base())
	if err := L.SetParameters(L.A(), L.B(), L.C(), 60, 60, 60); err != nil {
		Te.Fatal(err)
	}
	if d := maxAbsDiff(before, L.Base()); d > 1e-10 {
		Te.Errorf("base not reproduced after re-setting the same parameters, differs by %g", d)
	}
}

func TestInvalidLattice(Te *testing.T) {
	fmt.Println("Invalid lattice test!")
	if _, err := NewLattice(1, 1, 1, 10, 10, 170); err == nil {
		Te.Error("geometrically inconsistent angles did not fail")
	} else if _, ok := err.(LatticeError); !ok {
		Te.Errorf("expected a LatticeError, got %T", err)
	}
	if _, err := NewLatticeFromBase(mat.NewDense(3, 3, []float64{1, 0, 0, 2, 0, 0, 0, 0, 1})); err == nil {
		Te.Error("degenerate base did not fail")
	}
	if _, err := NewLatticeFromBase(mat.NewDense(3, 3, []float64{-1, 0, 0, 0, 1, 0, 0, 0, 1})); err == nil {
		Te.Error("left-handed base did not fail")
	}
	//a failed mutation must leave the previous state intact
	L, err := NewLattice(1, 2, 3, 80, 100, 120)
	if err != nil {
		Te.Fatal(err)
	}
	before := mat.DenseCopyOf(L.Base())
	if err := L.SetAlpha(179.99); err == nil {
		Te.Error("inconsistent angle mutation did not fail")
	}
	if L.Alpha() != 80 || maxAbsDiff(before, L.Base()) != 0 {
		Te.Error("failed mutation left the lattice half-updated")
	}
}

func TestReciprocal(Te *testing.T) {
	fmt.Println("Reciprocal lattice test!")
	L, err := NewLattice(2, 2, 2, 90, 90, 90)
	if err != nil {
		Te.Fatal(err)
	}
	R, err := L.Reciprocal()
	if err != nil {
		Te.Fatal(err)
	}
	if !closeTo(R.A(), 0.5, 1e-12) {
		Te.Error("reciprocal of a cubic cell with a=2 has a* =", R.A())
	}
	//the reciprocal of the reciprocal is the original lattice
	T, err := NewLattice(1, 2, 3, 80, 100, 120)
	if err != nil {
		Te.Fatal(err)
	}
	R1, err := T.Reciprocal()
	if err != nil {
		Te.Fatal(err)
	}
	R2, err := R1.Reciprocal()
	if err != nil {
		Te.Fatal(err)
	}
	if d := maxAbsDiff(T.Base(), R2.Base()); d > 1e-10 {
		Te.Errorf("double reciprocal differs from the original base by %g", d)
	}
}

func TestVolumeAndDist(Te *testing.T) {
	fmt.Println("Volume and distance test!")
	L, err := NewLattice(2, 3, 4, 90, 90, 90)
	if err != nil {
		Te.Fatal(err)
	}
	if !closeTo(L.Volume(), 24, 1e-12) {
		Te.Error("orthorhombic volume is wrong:", L.Volume())
	}
	d := L.Dist([]float64{0, 0, 0}, []float64{0.5, 0, 0})
	if !closeTo(d, 1, 1e-12) {
		Te.Error("distance along half the a axis is not 1:", d)
	}
	if !closeTo(L.RNorm([]float64{1, 0, 0}), 0.5, 1e-12) {
		Te.Error("reciprocal norm of (100) is not 1/a")
	}
}

func TestLatticeCopy(Te *testing.T) {
	fmt.Println("Lattice copy test!")
	L, err := NewLattice(1, 2, 3, 80, 100, 120)
	if err != nil {
		Te.Fatal(err)
	}
	N := L.Copy()
	if err := N.SetA(9); err != nil {
		Te.Fatal(err)
	}
	if L.A() != 1 {
		Te.Error("mutating a copy changed the original lattice")
	}
	if maxAbsDiff(L.Base(), N.Base()) == 0 {
		Te.Error("copy does not have its own base storage")
	}
}
