/*
 * plot.go, part of gocryst
 *
 * Copyright 2021 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
*/
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package crystplot produces simple plots of crystal structures and their
//thermal displacement parameters.
package crystplot

import (
	"fmt"
	"image/color"
	"math"

	cryst "github.com/rmera/gocryst"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//MSDPolar plots the mean square displacement of an atom along every
//direction of the plane spanned by the Cartesian vectors e1 and e2, as a
//polar curve: the distance of the curve from the origin along a direction is
//the MSD along it. For an isotropic atom the curve is a circle of radius
//Uisoequiv. The plot is saved as plotname.png.
func MSDPolar(at *cryst.Atom, e1, e2 []float64, title, plotname string) error {
	if at == nil {
		panic("Given nil atom")
	}
	const steps = 360
	pts := make(plotter.XYs, steps+1)
	for i := 0; i <= steps; i++ {
		theta := 2 * math.Pi * float64(i) / steps
		ct, st := math.Cos(theta), math.Sin(theta)
		dir := []float64{ct*e1[0] + st*e2[0], ct*e1[1] + st*e2[1], ct*e1[2] + st*e2[2]}
		m := at.MSDCart(dir)
		pts[i].X = m * ct
		pts[i].Y = m * st
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "MSD (AA^2)"
	p.Y.Label.Text = "MSD (AA^2)"
	p.Add(plotter.NewGrid())
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(1.5)
	l.LineStyle.Color = color.RGBA{R: 180, A: 255}
	p.Add(l)
	//the curve is centered on the origin, keep the frame square around it
	max := 0.0
	for _, pt := range pts {
		max = math.Max(max, math.Max(math.Abs(pt.X), math.Abs(pt.Y)))
	}
	p.X.Min, p.X.Max = -1.1*max, 1.1*max
	p.Y.Min, p.Y.Max = -1.1*max, 1.1*max
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(12*vg.Centimeter, 12*vg.Centimeter, filename)
}

//planeAxes returns the two cell axes spanning the requested projection
//plane: "ab", "bc" or "ca".
func planeAxes(plane string) (int, int, error) {
	switch plane {
	case "ab":
		return 0, 1, nil
	case "bc":
		return 1, 2, nil
	case "ca":
		return 2, 0, nil
	}
	return 0, 0, fmt.Errorf("crystplot: unknown projection plane %q", plane)
}

//CellProjection plots the atoms of a structure projected on the plane of two
//of its cell vectors ("ab", "bc" or "ca"), with the projected cell outline,
//one color per element. The plot is saved as plotname.png.
func CellProjection(S *cryst.Structure, plane, title, plotname string) error {
	if S == nil {
		panic("Given nil structure")
	}
	i1, i2, err := planeAxes(plane)
	if err != nil {
		return err
	}
	lat := S.Lattice()
	if lat == nil {
		return fmt.Errorf("crystplot: the structure has no lattice to project on")
	}
	base := lat.Base()
	v1 := []float64{base.At(i1, 0), base.At(i1, 1), base.At(i1, 2)}
	v2 := []float64{base.At(i2, 0), base.At(i2, 1), base.At(i2, 2)}
	//orthonormal frame in the projection plane: e1 along v1, e2 its
	//in-plane normal component
	e1 := normalized(v1)
	d := dot(v2, e1)
	e2 := normalized([]float64{v2[0] - d*e1[0], v2[1] - d*e1[1], v2[2] - d*e1[2]})
	project := func(rc []float64) (float64, float64) {
		return dot(rc, e1), dot(rc, e2)
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("along %c (AA)", plane[0])
	p.Y.Label.Text = "in-plane normal (AA)"
	p.Add(plotter.NewGrid())
	//cell outline: origin, v1, v1+v2, v2, back to the origin
	corners := [][]float64{{0, 0, 0}, v1, {v1[0] + v2[0], v1[1] + v2[1], v1[2] + v2[2]}, v2, {0, 0, 0}}
	edge := make(plotter.XYs, len(corners))
	for i, c := range corners {
		edge[i].X, edge[i].Y = project(c)
	}
	outline, err := plotter.NewLine(edge)
	if err != nil {
		return err
	}
	outline.LineStyle.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	p.Add(outline)
	//one scatter per element, colored around the hue circle
	species := []string{}
	for _, at := range S.Atoms {
		if !isInString(species, at.Symbol) {
			species = append(species, at.Symbol)
		}
	}
	for key, el := range species {
		pts := plotter.XYs{}
		for _, at := range S.Atoms {
			if at.Symbol != el {
				continue
			}
			x, y := project(at.XYZCartn())
			pts = append(pts, plotter.XY{X: x, Y: y})
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		r, g, b := colors(key, len(species))
		s.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(el, s)
	}
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(15*vg.Centimeter, 15*vg.Centimeter, filename)
}
