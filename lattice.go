/*
 * lattice.go, part of gocryst.
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

	"gonum.org/v1/gonum/mat"
)

//Exact trigonometric values for the crystallographically common angles.
//Looking these up instead of calling math.Cos keeps round-off out of
//cell-geometry comparisons (a 90-degree cell should give exactly zero
//off-diagonal metric elements).
var exactCosd = map[float64]float64{
	0.0:   1.0,
	60.0:  0.5,
	90.0:  0.0,
	120.0: -0.5,
	180.0: -1.0,
	240.0: -0.5,
	270.0: 0.0,
	300.0: 0.5,
}

//Cosd returns the cosine of an angle given in degrees. It returns exact
//values at the common crystallographic angles (multiples of 30 with exact
//cosines), and falls back to the standard floating-point computation
//anywhere else.
func Cosd(x float64) float64 {
	r := math.Mod(x, 360.0)
	if r < 0 {
		r += 360.0
	}
	if v, ok := exactCosd[r]; ok {
		return v
	}
	return math.Cos(x * math.Pi / 180.0)
}

//Sind returns the sine of an angle given in degrees, with the same exact
//values as Cosd at the special angles.
func Sind(x float64) float64 {
	return Cosd(90.0 - x)
}

//latEpsilon is the round-off tolerance used for degenerate-base detection
//and for the isotropy comparisons.
const latEpsilon float64 = 1e-8

//Lattice is a general crystallographic coordinate system. It stores the six
//cell parameters together with every derived quantity (reciprocal cell,
//metric tensor and the base matrices), which are kept mutually consistent:
//after any mutation base equals stdbase*baserot, and recbase is the exact
//inverse of base. The derived matrices are updated as a whole, never
//partially, so a failed mutation leaves the previous state intact.
type Lattice struct {
	a, b, c            float64
	alpha, beta, gamma float64 //cell angles, in degrees
	ca, cb, cg         float64 //their cosines
	sa, sb, sg         float64 //and sines
	ar, br, cr         float64 //reciprocal cell lengths
	alphar             float64
	betar              float64
	gammar             float64
	car, cbr, cgr      float64
	sar, sbr, sgr      float64
	metrics            *mat.Dense //the metric tensor
	stdbase            *mat.Dense //base vectors in their standard orientation, as rows
	baserot            *mat.Dense //rotation applied to stdbase
	base               *mat.Dense //stdbase*baserot
	recbase            *mat.Dense //inverse of base, reciprocal vectors as columns
	normbase           *mat.Dense //rows of base scaled by the reciprocal lengths
	recnormbase        *mat.Dense //columns of recbase divided by the reciprocal lengths
	isounit            *mat.Dense //tensor of unit isotropic displacements in this system
}

//reciprocal cell scalars, computed identically by both construction paths.
type recipCell struct {
	vunit                 float64
	ar, br, cr            float64
	car, cbr, cgr         float64
	sar, sbr, sgr         float64
	alphar, betar, gammar float64
}

//reciprocalCell obtains the reciprocal cell parameters from the direct ones.
//It fails if the angle cosines are geometrically inconsistent, i.e. if they
//yield a non-positive unit-cell volume factor.
func reciprocalCell(a, b, c, ca, cb, cg, sa, sb, sg float64) (*recipCell, error) {
	sq := 1.0 + 2.0*ca*cb*cg - ca*ca - cb*cb - cg*cg
	if sq <= 0 {
		return nil, LatticeError{message: ErrBadCellAngles}
	}
	r := new(recipCell)
	r.vunit = math.Sqrt(sq)
	r.ar = sa / (a * r.vunit)
	r.br = sb / (b * r.vunit)
	r.cr = sg / (c * r.vunit)
	r.car = (cb*cg - ca) / (sb * sg)
	r.cbr = (ca*cg - cb) / (sa * sg)
	r.cgr = (ca*cb - cg) / (sa * sb)
	r.sar = math.Sqrt(1.0 - r.car*r.car)
	r.sbr = math.Sqrt(1.0 - r.cbr*r.cbr)
	r.sgr = math.Sqrt(1.0 - r.cgr*r.cgr)
	r.alphar = math.Acos(r.car) * 180.0 / math.Pi
	r.betar = math.Acos(r.cbr) * 180.0 / math.Pi
	r.gammar = math.Acos(r.cgr) * 180.0 / math.Pi
	return r, nil
}

//stdBaseMatrix places the a vector along x, the b vector in the xy plane
//and the c vector in a general orientation.
func stdBaseMatrix(a, b, c, ca, sa, cb float64, r *recipCell) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1.0 / r.ar, -r.cgr / r.sgr / r.ar, cb * a,
		0.0, b * sa, b * ca,
		0.0, 0.0, c,
	})
}

//NewLattice returns a lattice with the given cell lengths and cell angles
//(in degrees). An optional rotation matrix for the base vectors with respect
//to their standard orientation can be given as a last argument. It returns a
//LatticeError if the angles are not geometrically consistent.
func NewLattice(a, b, c, alpha, beta, gamma float64, baserot ...*mat.Dense) (*Lattice, error) {
	L := CartesianLattice()
	var rot *mat.Dense
	if len(baserot) > 0 {
		rot = baserot[0]
	}
	if err := L.setPar(a, b, c, alpha, beta, gamma, rot); err != nil {
		return nil, errDecorate(err, "NewLattice")
	}
	return L, nil
}

//NewLatticeFromBase returns a lattice whose base vectors are the rows of the
//given matrix, expressed in Cartesian coordinates. It returns a LatticeError
//if the base is degenerate or not right-handed.
func NewLatticeFromBase(base *mat.Dense) (*Lattice, error) {
	L := CartesianLattice()
	if err := L.SetBase(base); err != nil {
		return nil, errDecorate(err, "NewLatticeFromBase")
	}
	return L, nil
}

//CartesianLattice returns the default lattice: a unit cubic cell with no
//rotation, i.e. the absolute Cartesian coordinate system.
func CartesianLattice() *Lattice {
	L := new(Lattice)
	L.baserot = eye3()
	if err := L.setPar(1.0, 1.0, 1.0, 90.0, 90.0, 90.0, nil); err != nil {
		panic(err.Error()) //the unit cube is always a valid cell
	}
	return L
}

//Copy returns a duplicate of the lattice. The derived matrices are deep
//copied, so mutating the copy never touches the original.
func (L *Lattice) Copy() *Lattice {
	N := new(Lattice)
	*N = *L //scalars
	N.metrics = mat.DenseCopyOf(L.metrics)
	N.stdbase = mat.DenseCopyOf(L.stdbase)
	N.baserot = mat.DenseCopyOf(L.baserot)
	N.base = mat.DenseCopyOf(L.base)
	N.recbase = mat.DenseCopyOf(L.recbase)
	N.normbase = mat.DenseCopyOf(L.normbase)
	N.recnormbase = mat.DenseCopyOf(L.recnormbase)
	N.isounit = mat.DenseCopyOf(L.isounit)
	return N
}

//setPar is the by-parameters construction path. Everything is computed into
//locals and only assigned once no failure is possible.
func (L *Lattice) setPar(a, b, c, alpha, beta, gamma float64, baserot *mat.Dense) error {
	ca, cb, cg := Cosd(alpha), Cosd(beta), Cosd(gamma)
	sa, sb, sg := Sind(alpha), Sind(beta), Sind(gamma)
	r, err := reciprocalCell(a, b, c, ca, cb, cg, sa, sb, sg)
	if err != nil {
		return err
	}
	rot := L.baserot
	if baserot != nil {
		rot = mat.DenseCopyOf(baserot)
	}
	stdbase := stdBaseMatrix(a, b, c, ca, sa, cb, r)
	base := new(mat.Dense)
	base.Mul(stdbase, rot)
	recbase := new(mat.Dense)
	if err := recbase.Inverse(base); err != nil {
		return LatticeError{message: ErrDegenerateBase}
	}
	L.a, L.b, L.c = a, b, c
	L.alpha, L.beta, L.gamma = alpha, beta, gamma
	L.ca, L.cb, L.cg = ca, cb, cg
	L.sa, L.sb, L.sg = sa, sb, sg
	L.stdbase = stdbase
	L.baserot = rot
	L.base = base
	L.recbase = recbase
	L.finish(r)
	return nil
}

//SetBase is the by-base construction path: it recovers the cell parameters
//from the row vectors of the given matrix and rebuilds every derived
//quantity, including the rotation that satisfies base = stdbase*baserot.
//It returns a LatticeError, leaving the lattice untouched, if the base is
//degenerate or left-handed.
func (L *Lattice) SetBase(base *mat.Dense) error {
	nb := mat.DenseCopyOf(base)
	det := det3x3(nb)
	if math.Abs(det) < latEpsilon {
		return LatticeError{message: ErrDegenerateBase}
	}
	if det < 0 {
		return LatticeError{message: ErrLeftHandedBase}
	}
	a := math.Sqrt(rowDot(nb, 0, 0))
	b := math.Sqrt(rowDot(nb, 1, 1))
	c := math.Sqrt(rowDot(nb, 2, 2))
	ca := rowDot(nb, 1, 2) / (b * c)
	cb := rowDot(nb, 0, 2) / (a * c)
	cg := rowDot(nb, 0, 1) / (a * b)
	sa := math.Sqrt(1.0 - ca*ca)
	sb := math.Sqrt(1.0 - cb*cb)
	sg := math.Sqrt(1.0 - cg*cg)
	r, err := reciprocalCell(a, b, c, ca, cb, cg, sa, sb, sg)
	if err != nil {
		return err
	}
	stdbase := stdBaseMatrix(a, b, c, ca, sa, cb, r)
	invstd := new(mat.Dense)
	if err := invstd.Inverse(stdbase); err != nil {
		return LatticeError{message: ErrDegenerateBase}
	}
	baserot := new(mat.Dense)
	baserot.Mul(invstd, nb)
	recbase := new(mat.Dense)
	if err := recbase.Inverse(nb); err != nil {
		return LatticeError{message: ErrDegenerateBase}
	}
	L.a, L.b, L.c = a, b, c
	L.alpha = math.Acos(ca) * 180.0 / math.Pi
	L.beta = math.Acos(cb) * 180.0 / math.Pi
	L.gamma = math.Acos(cg) * 180.0 / math.Pi
	L.ca, L.cb, L.cg = ca, cb, cg
	L.sa, L.sb, L.sg = sa, sb, sg
	L.stdbase = stdbase
	L.baserot = baserot
	L.base = nb
	L.recbase = recbase
	L.finish(r)
	return nil
}

//finish stores the reciprocal scalars and rebuilds the matrices that both
//construction paths derive the same way. It must be called with the direct
//cell scalars and base/recbase already in place.
func (L *Lattice) finish(r *recipCell) {
	L.ar, L.br, L.cr = r.ar, r.br, r.cr
	L.alphar, L.betar, L.gammar = r.alphar, r.betar, r.gammar
	L.car, L.cbr, L.cgr = r.car, r.cbr, r.cgr
	L.sar, L.sbr, L.sgr = r.sar, r.sbr, r.sgr
	rl := []float64{r.ar, r.br, r.cr}
	L.normbase = mat.NewDense(3, 3, nil)
	L.recnormbase = mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			L.normbase.Set(i, j, L.base.At(i, j)*rl[i])
			L.recnormbase.Set(i, j, L.recbase.At(i, j)/rl[j])
		}
	}
	L.metrics = mat.NewDense(3, 3, []float64{
		L.a * L.a, L.a * L.b * L.cg, L.a * L.c * L.cb,
		L.b * L.a * L.cg, L.b * L.b, L.b * L.c * L.ca,
		L.c * L.a * L.cb, L.c * L.b * L.ca, L.c * L.c,
	})
	iso := new(mat.Dense)
	iso.Mul(L.recnormbase.T(), L.recnormbase)
	//the diagonal is 1 by construction, set it exactly so
	iso.Set(0, 0, 1.0)
	iso.Set(1, 1, 1.0)
	iso.Set(2, 2, 1.0)
	L.isounit = iso
}

//SetParameters sets all six cell parameters at once, with an optional new
//rotation matrix for the base vectors. The derived quantities are rebuilt
//as in NewLattice.
func (L *Lattice) SetParameters(a, b, c, alpha, beta, gamma float64, baserot ...*mat.Dense) error {
	var rot *mat.Dense
	if len(baserot) > 0 {
		rot = baserot[0]
	}
	err := L.setPar(a, b, c, alpha, beta, gamma, rot)
	if err != nil {
		err = errDecorate(err, "SetParameters")
	}
	return err
}

//SetA sets the cell length a, keeping every other parameter.
func (L *Lattice) SetA(a float64) error {
	return L.setPar(a, L.b, L.c, L.alpha, L.beta, L.gamma, nil)
}

//SetB sets the cell length b, keeping every other parameter.
func (L *Lattice) SetB(b float64) error {
	return L.setPar(L.a, b, L.c, L.alpha, L.beta, L.gamma, nil)
}

//SetC sets the cell length c, keeping every other parameter.
func (L *Lattice) SetC(c float64) error {
	return L.setPar(L.a, L.b, c, L.alpha, L.beta, L.gamma, nil)
}

//SetAlpha sets the cell angle alpha (degrees), keeping every other parameter.
func (L *Lattice) SetAlpha(alpha float64) error {
	return L.setPar(L.a, L.b, L.c, alpha, L.beta, L.gamma, nil)
}

//SetBeta sets the cell angle beta (degrees), keeping every other parameter.
func (L *Lattice) SetBeta(beta float64) error {
	return L.setPar(L.a, L.b, L.c, L.alpha, beta, L.gamma, nil)
}

//SetGamma sets the cell angle gamma (degrees), keeping every other parameter.
func (L *Lattice) SetGamma(gamma float64) error {
	return L.setPar(L.a, L.b, L.c, L.alpha, L.beta, gamma, nil)
}

//SetBaseRot sets the rotation of the base vectors with respect to their
//standard orientation, keeping the cell parameters.
func (L *Lattice) SetBaseRot(rot *mat.Dense) error {
	return L.setPar(L.a, L.b, L.c, L.alpha, L.beta, L.gamma, rot)
}

//Cell parameter accessors.

//A returns the cell length a.
func (L *Lattice) A() float64 { return L.a }

//B returns the cell length b.
func (L *Lattice) B() float64 { return L.b }

//C returns the cell length c.
func (L *Lattice) C() float64 { return L.c }

//Alpha returns the cell angle alpha, in degrees.
func (L *Lattice) Alpha() float64 { return L.alpha }

//Beta returns the cell angle beta, in degrees.
func (L *Lattice) Beta() float64 { return L.beta }

//Gamma returns the cell angle gamma, in degrees.
func (L *Lattice) Gamma() float64 { return L.gamma }

//Ar returns the reciprocal cell length a*.
func (L *Lattice) Ar() float64 { return L.ar }

//Br returns the reciprocal cell length b*.
func (L *Lattice) Br() float64 { return L.br }

//Cr returns the reciprocal cell length c*.
func (L *Lattice) Cr() float64 { return L.cr }

//Alphar returns the reciprocal cell angle alpha*, in degrees.
func (L *Lattice) Alphar() float64 { return L.alphar }

//Betar returns the reciprocal cell angle beta*, in degrees.
func (L *Lattice) Betar() float64 { return L.betar }

//Gammar returns the reciprocal cell angle gamma*, in degrees.
func (L *Lattice) Gammar() float64 { return L.gammar }

//UnitVolume returns the cell volume for a=b=c=1, i.e. the square root of
//1+2*ca*cb*cg-ca^2-cb^2-cg^2.
func (L *Lattice) UnitVolume() float64 {
	ca, cb, cg := Cosd(L.alpha), Cosd(L.beta), Cosd(L.gamma)
	return math.Sqrt(1.0 + 2.0*ca*cb*cg - ca*ca - cb*cb - cg*cg)
}

//Volume returns the unit cell volume.
func (L *Lattice) Volume() float64 {
	return L.a * L.b * L.c * L.UnitVolume()
}

//The matrix accessors return the internal matrices, which the caller must
//treat as read-only: they are only updated, all together, by the Set*
//methods.

//Base returns the matrix of base vectors, as rows, in Cartesian coordinates.
func (L *Lattice) Base() *mat.Dense { return L.base }

//StdBase returns the base vectors in their standard orientation.
func (L *Lattice) StdBase() *mat.Dense { return L.stdbase }

//BaseRot returns the rotation matrix of the base with respect to StdBase.
func (L *Lattice) BaseRot() *mat.Dense { return L.baserot }

//RecBase returns the inverse of Base. Its columns are the reciprocal
//lattice vectors in Cartesian coordinates.
func (L *Lattice) RecBase() *mat.Dense { return L.recbase }

//NormBase returns the base vectors scaled by the reciprocal cell lengths.
func (L *Lattice) NormBase() *mat.Dense { return L.normbase }

//RecNormBase returns the inverse of Base with its columns divided by the
//reciprocal cell lengths.
func (L *Lattice) RecNormBase() *mat.Dense { return L.recnormbase }

//Metrics returns the metric tensor of the lattice.
func (L *Lattice) Metrics() *mat.Dense { return L.metrics }

//IsotropicUnit returns the tensor of unit isotropic displacement
//parameters in this coordinate system. It is the identity when the
//lattice is orthonormal.
func (L *Lattice) IsotropicUnit() *mat.Dense { return L.isounit }

//CartesianCoords transforms the fractional vector u to Cartesian
//coordinates. Panics if u has fewer than 3 elements.
func (L *Lattice) CartesianCoords(u []float64) []float64 {
	rc := make([]float64, 3)
	for j := 0; j < 3; j++ {
		rc[j] = u[0]*L.base.At(0, j) + u[1]*L.base.At(1, j) + u[2]*L.base.At(2, j)
	}
	return rc
}

//FractionalCoords transforms the Cartesian vector rc to fractional
//coordinates in this lattice. Panics if rc has fewer than 3 elements.
func (L *Lattice) FractionalCoords(rc []float64) []float64 {
	u := make([]float64, 3)
	for j := 0; j < 3; j++ {
		u[j] = rc[0]*L.recbase.At(0, j) + rc[1]*L.recbase.At(1, j) + rc[2]*L.recbase.At(2, j)
	}
	return u
}

//Dot returns the dot product of the fractional vectors u and v, obtained
//through the metric tensor.
func (L *Lattice) Dot(u, v []float64) float64 {
	dp := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dp += u[i] * L.metrics.At(i, j) * v[j]
		}
	}
	return dp
}

//Norm returns the magnitude of the fractional vector u.
func (L *Lattice) Norm(u []float64) float64 {
	rc := L.CartesianCoords(u)
	return math.Sqrt(rc[0]*rc[0] + rc[1]*rc[1] + rc[2]*rc[2])
}

//RNorm returns the magnitude of the reciprocal vector hkl.
func (L *Lattice) RNorm(hkl []float64) float64 {
	n := 0.0
	for j := 0; j < 3; j++ {
		x := hkl[0]*L.recbase.At(j, 0) + hkl[1]*L.recbase.At(j, 1) + hkl[2]*L.recbase.At(j, 2)
		n += x * x
	}
	return math.Sqrt(n)
}

//Dist returns the distance between the points u and v, both in fractional
//coordinates.
func (L *Lattice) Dist(u, v []float64) float64 {
	d := []float64{u[0] - v[0], u[1] - v[1], u[2] - v[2]}
	return L.Norm(d)
}

//Angle returns the angle between the fractional vectors u and v, in
//degrees.
func (L *Lattice) Angle(u, v []float64) float64 {
	ca := L.Dot(u, v) / (L.Norm(u) * L.Norm(v))
	//round-off can push the cosine just out of [-1,1]
	if ca > 1.0 {
		ca = 1.0
	} else if ca < -1.0 {
		ca = -1.0
	}
	return math.Acos(ca) * 180.0 / math.Pi
}

//Reciprocal returns the reciprocal lattice of L, i.e. the lattice whose
//direct base vectors are the reciprocal vectors of L.
func (L *Lattice) Reciprocal() (*Lattice, error) {
	rb := new(mat.Dense)
	rb.CloneFrom(L.recbase.T())
	R, err := NewLatticeFromBase(rb)
	if err != nil {
		return nil, errDecorate(err, "Reciprocal")
	}
	return R, nil
}

//IsAnisotropic reports whether the displacement tensor umx differs from an
//isotropic tensor in this lattice by more than a round-off tolerance.
func (L *Lattice) IsAnisotropic(umx *mat.Dense) bool {
	utr := (umx.At(0, 0) + umx.At(1, 1) + umx.At(2, 2)) / 3.0
	maxdiff := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d := math.Abs(umx.At(i, j) - utr*L.isounit.At(i, j))
			if d > maxdiff {
				maxdiff = d
			}
		}
	}
	return maxdiff > latEpsilon
}

//String returns a printable representation of the lattice.
func (L *Lattice) String() string {
	rotdiff := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			id := 0.0
			if i == j {
				id = 1.0
			}
			if d := math.Abs(L.baserot.At(i, j) - id); d > rotdiff {
				rotdiff = d
			}
		}
	}
	if rotdiff > latEpsilon {
		return fmt.Sprintf("Lattice(base=%v)", mat.Formatted(L.base, mat.Prefix(""), mat.Squeeze()))
	}
	return fmt.Sprintf("Lattice(a=%g, b=%g, c=%g, alpha=%g, beta=%g, gamma=%g)",
		L.a, L.b, L.c, L.alpha, L.beta, L.gamma)
}
