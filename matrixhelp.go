/*
 * matrixhelp.go, part of gocryst.
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

//A bunch of unexported helpers for the fixed 3x3 algebra of this package,
//most of them just for convenience.

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//used to correct floating point errors. Everything with an absolute value
//equal or smaller than this is considered zero.
const appzero float64 = 1e-12

//eye3 returns a 3x3 identity matrix.
func eye3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

//det3x3 returns the determinant of a 3x3 matrix, in closed form.
//Panics if the matrix is not 3x3.
func det3x3(A mat.Matrix) float64 {
	r, c := A.Dims()
	if r != 3 || c != 3 {
		panic("gocryst: determinants are only available for 3x3 matrices")
	}
	return A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) -
		A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) +
		A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2))
}

//rowDot returns the dot product between the i-th and j-th rows of a
//3-column matrix.
func rowDot(A *mat.Dense, i, j int) float64 {
	return A.At(i, 0)*A.At(j, 0) + A.At(i, 1)*A.At(j, 1) + A.At(i, 2)*A.At(j, 2)
}

//congruence puts transpose(T)*U*T in a new matrix. It is how a symmetric
//tensor is re-expressed under the basis transform T.
func congruence(T, U *mat.Dense) *mat.Dense {
	tmp := new(mat.Dense)
	tmp.Mul(U, T)
	out := new(mat.Dense)
	out.Mul(T.T(), tmp)
	return out
}

//maxAbsDiff returns the largest elementwise absolute difference between
//two matrices of the same shape.
func maxAbsDiff(A, B mat.Matrix) float64 {
	r, c := A.Dims()
	maxdiff := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if d := math.Abs(A.At(i, j) - B.At(i, j)); d > maxdiff {
				maxdiff = d
			}
		}
	}
	return maxdiff
}

//symmetrize3 copies the given 3x3 tensor averaging it with its transpose,
//so the result is exactly symmetric.
func symmetrize3(U *mat.Dense) *mat.Dense {
	out := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, 0.5*(U.At(i, j)+U.At(j, i)))
		}
	}
	return out
}
