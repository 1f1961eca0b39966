/*
 * files.go, part of gocryst.
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
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

//Reading and writing of crystal structure files in the PDFfit (stru) and
//plain xyz formats. Files with a .gz or .zst suffix are compressed and
//decompressed transparently.

//zstd.Decoder does not implement io.ReadCloser, as its Close returns
//nothing, so we adapt it.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//uncompressor returns a reader that decompresses f according to the suffix
//of name, or f itself when the suffix implies no compression.
func uncompressor(f *os.File, name string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return gzip.NewReader(f)
	case strings.HasSuffix(name, ".zst"):
		z, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{z}, nil
	}
	return f, nil
}

//compressor is the writing counterpart of uncompressor.
func compressor(f *os.File, name string) (io.WriteCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return gzip.NewWriter(f), nil
	case strings.HasSuffix(name, ".zst"):
		return zstd.NewWriter(f)
	}
	return f, nil
}

//FormatName returns the format suffix of a structure file name, ignoring a
//trailing compression suffix: "a.stru.gz" has format "stru".
func FormatName(name string) string {
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".zst")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return ""
}

//StruRead reads a structure in PDFfit (stru) format. The header must carry
//a cell line before the atoms line; scale, sharp, spcgr and dcell lines are
//accepted and ignored. Each atom takes six lines: position and occupancy,
//their standard deviations, the tensor diagonal, its deviations, the tensor
//off-diagonal, and its deviations. Whether each atom is anisotropic is
//decided by comparing its tensor against an isotropic one in the cell read.
//An ncell line declaring a supercell makes the returned structure be
//re-expressed in the corresponding superlattice.
func StruRead(stru io.Reader) (*Structure, error) {
	sc := bufio.NewScanner(stru)
	nl := 0
	nextLine := func() ([]string, error) {
		for sc.Scan() {
			nl++
			f := strings.Fields(strings.ReplaceAll(sc.Text(), ",", " "))
			if len(f) == 0 || strings.HasPrefix(f[0], "#") {
				continue
			}
			return f, nil
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	var lat *Lattice
	var latpars [6]float64
	ncell := [4]int{1, 1, 1, 0}
	ncellRead := false
	S := new(Structure)
	//header
	for {
		words, err := nextLine()
		if err != nil {
			return nil, fmt.Errorf("%d: file is not in PDFfit format: %v", nl, err)
		}
		switch words[0] {
		case "title":
			S.Title = strings.Join(words[1:], " ")
		case "format":
			if len(words) < 2 || words[1] != "pdffit" {
				return nil, fmt.Errorf("%d: file is not in PDFfit format", nl)
			}
		case "scale", "sharp", "spcgr", "dcell", "shape":
			//not structural information, nothing to keep
		case "cell":
			if len(words) < 7 {
				return nil, fmt.Errorf("%d: cell line needs 6 parameters", nl)
			}
			for i := 0; i < 6; i++ {
				latpars[i], err = strconv.ParseFloat(words[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("%d: bad cell parameter: %v", nl, err)
				}
			}
			lat, err = NewLattice(latpars[0], latpars[1], latpars[2], latpars[3], latpars[4], latpars[5])
			if err != nil {
				return nil, fmt.Errorf("%d: %v", nl, err)
			}
		case "ncell":
			if len(words) < 5 {
				return nil, fmt.Errorf("%d: ncell line needs 4 values", nl)
			}
			for i := 0; i < 4; i++ {
				ncell[i], err = strconv.Atoi(words[i+1])
				if err != nil {
					return nil, fmt.Errorf("%d: bad ncell value: %v", nl, err)
				}
			}
			ncellRead = true
		case "atoms":
			if lat == nil {
				return nil, fmt.Errorf("%d: atoms before the cell line", nl)
			}
		default:
			log.Printf("gocryst: stru line %d ignored: %s", nl, strings.Join(words, " "))
			continue
		}
		if words[0] == "atoms" {
			break
		}
	}
	S.lattice = lat
	//atom blocks
	parse3 := func(w []string) ([3]float64, error) {
		var v [3]float64
		var err error
		if len(w) < 3 {
			return v, fmt.Errorf("expected at least 3 values")
		}
		for i := 0; i < 3; i++ {
			if v[i], err = strconv.ParseFloat(w[i], 64); err != nil {
				return v, err
			}
		}
		return v, nil
	}
	for {
		w1, err := nextLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%d: %v", nl, err)
		}
		if len(w1) < 5 {
			return nil, fmt.Errorf("%d: atom line needs element, coordinates and occupancy", nl)
		}
		el := strings.ToUpper(w1[0][:1]) + strings.ToLower(w1[0][1:])
		xyz, err := parse3(w1[1:4])
		if err != nil {
			return nil, fmt.Errorf("%d: bad coordinate: %v", nl, err)
		}
		occ, err := strconv.ParseFloat(w1[4], 64)
		if err != nil {
			return nil, fmt.Errorf("%d: bad occupancy: %v", nl, err)
		}
		if _, err = nextLine(); err != nil { //deviations of position and occupancy
			return nil, fmt.Errorf("%d: truncated atom entry: %v", nl, err)
		}
		w3, err := nextLine()
		if err != nil {
			return nil, fmt.Errorf("%d: truncated atom entry: %v", nl, err)
		}
		udiag, err := parse3(w3)
		if err != nil {
			return nil, fmt.Errorf("%d: bad tensor diagonal: %v", nl, err)
		}
		if _, err = nextLine(); err != nil { //deviations of the diagonal
			return nil, fmt.Errorf("%d: truncated atom entry: %v", nl, err)
		}
		w5, err := nextLine()
		if err != nil {
			return nil, fmt.Errorf("%d: truncated atom entry: %v", nl, err)
		}
		uoff, err := parse3(w5)
		if err != nil {
			return nil, fmt.Errorf("%d: bad tensor off-diagonal: %v", nl, err)
		}
		if _, err = nextLine(); err != nil { //deviations of the off-diagonal
			return nil, fmt.Errorf("%d: truncated atom entry: %v", nl, err)
		}
		U := mat.NewDense(3, 3, []float64{
			udiag[0], uoff[0], uoff[1],
			uoff[0], udiag[1], uoff[2],
			uoff[1], uoff[2], udiag[2],
		})
		at := NewAtom(el, xyz[:], lat)
		at.Occupancy = occ
		if lat.IsAnisotropic(U) {
			at.anisotropy = true
			at.u = U
		} else {
			at.uiso = U.At(0, 0)
			at.usynced = false
		}
		S.Atoms = append(S.Atoms, at)
	}
	if ncellRead {
		want := ncell[0] * ncell[1] * ncell[2] * ncell[3]
		if want != S.Len() {
			return nil, fmt.Errorf("expected %d atoms, read %d", want, S.Len())
		}
		if ncell[0] != 1 || ncell[1] != 1 || ncell[2] != 1 {
			super, err := NewLattice(latpars[0]*float64(ncell[0]), latpars[1]*float64(ncell[1]),
				latpars[2]*float64(ncell[2]), latpars[3], latpars[4], latpars[5])
			if err != nil {
				return nil, err
			}
			if err := S.PlaceInLattice(super); err != nil {
				return nil, err
			}
		}
	}
	return S, nil
}

//StruFileRead reads a structure from the PDFfit (stru) file with the given
//name, decompressing it if the name ends in .gz or .zst.
func StruFileRead(struname string) (*Structure, error) {
	f, err := os.Open(struname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := uncompressor(f, struname)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", struname, err)
	}
	if r != io.ReadCloser(f) {
		defer r.Close()
	}
	S, err := StruRead(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", struname, err)
	}
	return S, nil
}

//StruWrite writes the structure in PDFfit (stru) format. The tensor
//elements written for isotropic atoms are the materialized isotropic ones,
//so a read-back recovers the same displacement state.
func StruWrite(S *Structure, out io.Writer) error {
	lat := S.Lattice()
	if lat == nil {
		lat = cartesianLattice
	}
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "title  %s\n", S.Title)
	fmt.Fprintf(w, "format pdffit\n")
	fmt.Fprintf(w, "scale  %9.6f\n", 1.0)
	fmt.Fprintf(w, "cell   %9.6f, %9.6f, %9.6f, %9.6f, %9.6f, %9.6f\n",
		lat.A(), lat.B(), lat.C(), lat.Alpha(), lat.Beta(), lat.Gamma())
	fmt.Fprintf(w, "ncell  %9d, %9d, %9d, %9d\n", 1, 1, 1, S.Len())
	fmt.Fprintf(w, "atoms\n")
	for _, at := range S.Atoms {
		fmt.Fprintf(w, "%-4s %17.8f %17.8f %17.8f %12.4f\n",
			strings.ToUpper(at.Symbol), at.XYZ[0], at.XYZ[1], at.XYZ[2], at.Occupancy)
		fmt.Fprintf(w, "     %17.8f %17.8f %17.8f %12.4f\n", 0.0, 0.0, 0.0, 0.0)
		fmt.Fprintf(w, "     %17.8f %17.8f %17.8f\n", at.Uij(0, 0), at.Uij(1, 1), at.Uij(2, 2))
		fmt.Fprintf(w, "     %17.8f %17.8f %17.8f\n", 0.0, 0.0, 0.0)
		fmt.Fprintf(w, "     %17.8f %17.8f %17.8f\n", at.Uij(0, 1), at.Uij(0, 2), at.Uij(1, 2))
		fmt.Fprintf(w, "     %17.8f %17.8f %17.8f\n", 0.0, 0.0, 0.0)
	}
	return w.Flush()
}

//StruFileWrite writes the structure to a PDFfit (stru) file with the given
//name, compressing it if the name ends in .gz or .zst.
func StruFileWrite(struname string, S *Structure) error {
	f, err := os.Create(struname)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := compressor(f, struname)
	if err != nil {
		return fmt.Errorf("%s: %v", struname, err)
	}
	if err := StruWrite(S, w); err != nil {
		return fmt.Errorf("%s: %v", struname, err)
	}
	if w != io.WriteCloser(f) {
		return w.Close()
	}
	return nil
}

//XYZRead reads a structure in xyz format: the number of atoms, a title
//line, then one "element x y z" line per atom. The coordinates of an xyz
//file are Cartesian, so the returned structure has no lattice.
func XYZRead(xyz io.Reader) (*Structure, error) {
	sc := bufio.NewScanner(xyz)
	if !sc.Scan() {
		return nil, fmt.Errorf("empty xyz file")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return nil, fmt.Errorf("1: bad atom count: %v", err)
	}
	S := new(Structure)
	if sc.Scan() {
		S.Title = strings.TrimSpace(sc.Text())
	}
	nl := 2
	for sc.Scan() {
		nl++
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		if len(f) < 4 {
			return nil, fmt.Errorf("%d: malformed xyz line", nl)
		}
		var rc [3]float64
		for i := 0; i < 3; i++ {
			if rc[i], err = strconv.ParseFloat(f[i+1], 64); err != nil {
				return nil, fmt.Errorf("%d: bad coordinate: %v", nl, err)
			}
		}
		S.Atoms = append(S.Atoms, NewAtom(f[0], rc[:], nil))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if S.Len() != natoms {
		return nil, fmt.Errorf("expected %d atoms, read %d", natoms, S.Len())
	}
	return S, nil
}

//XYZFileRead reads a structure from the xyz file with the given name,
//decompressing it if the name ends in .gz or .zst.
func XYZFileRead(xyzname string) (*Structure, error) {
	f, err := os.Open(xyzname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := uncompressor(f, xyzname)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", xyzname, err)
	}
	if r != io.ReadCloser(f) {
		defer r.Close()
	}
	S, err := XYZRead(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", xyzname, err)
	}
	return S, nil
}

//XYZWrite writes the structure in xyz format. Fractional coordinates are
//converted to Cartesian through the structure's lattice, so the cell
//information is not kept by this format.
func XYZWrite(S *Structure, out io.Writer) error {
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "%d\n%s\n", S.Len(), S.Title)
	for _, at := range S.Atoms {
		rc := at.XYZCartn()
		fmt.Fprintf(w, "%-4s %12.6f %12.6f %12.6f\n", at.Symbol, rc[0], rc[1], rc[2])
	}
	return w.Flush()
}

//XYZFileWrite writes the structure to an xyz file with the given name,
//compressing it if the name ends in .gz or .zst.
func XYZFileWrite(xyzname string, S *Structure) error {
	f, err := os.Create(xyzname)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := compressor(f, xyzname)
	if err != nil {
		return fmt.Errorf("%s: %v", xyzname, err)
	}
	if err := XYZWrite(S, w); err != nil {
		return fmt.Errorf("%s: %v", xyzname, err)
	}
	if w != io.WriteCloser(f) {
		return w.Close()
	}
	return nil
}
