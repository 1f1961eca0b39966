/*
 * errors.go, part of gocryst.
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

//Error is the interface implemented by the errors originating in this
//library. The Decorate method allows adding information to the error as it
//is passed up the calling stack, without changing its type or wrapping it.
//Each call returns the resulting decoration slice; passing an empty string
//just returns the current value.
type Error interface {
	Error() string
	Decorate(string) []string
}

//LatticeError reports an invalid lattice: a degenerate or left-handed set
//of base vectors, or cell angles that yield a non-positive cell volume.
type LatticeError struct {
	message string
	deco    []string
}

func (err LatticeError) Error() string { return "gocryst: invalid lattice: " + err.message }

//Decorate will add the deco string to the decoration slice of strings of the
//error, and return the resulting slice.
func (err LatticeError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//IsotropyError reports an attempt to write to the displacement tensor of an
//atom flagged isotropic. The caller has to enable anisotropy first.
type IsotropyError struct {
	message string
	deco    []string
}

func (err IsotropyError) Error() string { return "gocryst: isotropy violation: " + err.message }

//Decorate will add the deco string to the decoration slice of strings of the
//error, and return the resulting slice.
func (err IsotropyError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Messages for the errors of this package.
const (
	ErrDegenerateBase = "base vectors are degenerate"
	ErrLeftHandedBase = "base is not right-handed"
	ErrBadCellAngles  = "cell angles are geometrically inconsistent"
	ErrIsotropicU     = "atom is isotropic, tensor components are not writable"
	ErrNilAtoms       = "supplied a nil atom slice"
	ErrNilLattice     = "supplied a nil Lattice"
)

//errDecorate asserts that the given error implements Error, decorates it
//with the caller's name and returns it. Using it on a non-gocryst error
//causes a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}
