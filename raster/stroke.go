// seehuhn.de/go/layers - a layered image editing core
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Stroke paints the outline of p using Width, Cap, Join and MiterLimit.
//
// Every segment, join and cap becomes a small polygon. All polygons are
// oriented the same way and filled together with the nonzero rule, so
// overlaps never cancel out.
func (r *Rasterizer) Stroke(p path.Path, emit EmitFunc) {
	if r.Width <= 0 {
		return
	}
	r.flatten(p)

	r.beginEdges()
	h := r.Width / 2
	for i := range r.subStart {
		r.strokeSubpath(r.subpath(i), r.subClosed[i], h)
	}
	r.scan(NonZero, emit)
}

// flatten converts p into polylines. Curves are approximated by line
// segments and zero-length segments are dropped. A sub-path consisting of
// a single point is kept, since round and square caps make it visible.
func (r *Rasterizer) flatten(p path.Path) {
	r.pts = r.pts[:0]
	r.subStart = r.subStart[:0]
	r.subClosed = r.subClosed[:0]

	var start vec.Vec2
	inSub := false
	drawn := false
	begin := func(pt vec.Vec2) {
		r.subStart = append(r.subStart, len(r.pts))
		r.subClosed = append(r.subClosed, false)
		r.pts = append(r.pts, pt)
		inSub = true
		drawn = false
	}
	appendTo := func(_, to vec.Vec2) {
		r.appendPoint(to)
	}

	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			start = pts[0]
			if inSub && !drawn {
				// a moveto directly after another one replaces it
				r.pts[len(r.pts)-1] = start
				continue
			}
			begin(start)
		case path.CmdLineTo:
			if !inSub {
				begin(start)
			}
			r.appendPoint(pts[0])
			drawn = true
		case path.CmdQuadTo:
			if !inSub {
				begin(start)
			}
			r.flattenQuadratic(r.pts[len(r.pts)-1], pts[0], pts[1], appendTo)
			drawn = true
		case path.CmdCubeTo:
			if !inSub {
				begin(start)
			}
			r.flattenCubic(r.pts[len(r.pts)-1], pts[0], pts[1], pts[2], appendTo)
			drawn = true
		case path.CmdClose:
			if inSub {
				r.subClosed[len(r.subClosed)-1] = true
				inSub = false
			}
		}
	}
	if inSub && !drawn {
		last := len(r.subStart) - 1
		r.pts = r.pts[:r.subStart[last]]
		r.subStart = r.subStart[:last]
		r.subClosed = r.subClosed[:last]
	}

	// closed polylines must not repeat their first point
	for i := range r.subStart {
		pts := r.subpath(i)
		if r.subClosed[i] && len(pts) > 1 && pts[len(pts)-1].Sub(pts[0]).Length() < zeroLengthThreshold {
			end := r.subStart[i] + len(pts) - 1
			r.pts = append(r.pts[:end], r.pts[end+1:]...)
			for j := i + 1; j < len(r.subStart); j++ {
				r.subStart[j]--
			}
		}
	}
}

// appendPoint adds pt to the current polyline, unless it coincides with
// the previous point.
func (r *Rasterizer) appendPoint(pt vec.Vec2) {
	last := r.pts[len(r.pts)-1]
	if pt.Sub(last).Length() < zeroLengthThreshold {
		return
	}
	r.pts = append(r.pts, pt)
}

// subpath returns the points of polyline i.
func (r *Rasterizer) subpath(i int) []vec.Vec2 {
	end := len(r.pts)
	if i+1 < len(r.subStart) {
		end = r.subStart[i+1]
	}
	return r.pts[r.subStart[i]:end]
}

// strokeSubpath emits the outline polygons for one polyline.
func (r *Rasterizer) strokeSubpath(pts []vec.Vec2, closed bool, h float64) {
	n := len(pts)
	if n == 1 {
		switch r.Cap {
		case graphics.LineCapRound:
			r.addCircle(pts[0], h)
		case graphics.LineCapSquare:
			r.addCap(pts[0], vec.Vec2{X: 1, Y: 0}, h)
			r.addCap(pts[0], vec.Vec2{X: -1, Y: 0}, h)
		}
		return
	}

	segs := n - 1
	if closed {
		segs = n
	}
	dir := func(i int) vec.Vec2 {
		d := pts[(i+1)%n].Sub(pts[i])
		return d.Mul(1 / d.Length())
	}

	for i := range segs {
		a, b := pts[i], pts[(i+1)%n]
		nrm := perp(dir(i)).Mul(h)
		r.addPolygon(a.Add(nrm), b.Add(nrm), b.Sub(nrm), a.Sub(nrm))
	}

	if closed {
		for i := range n {
			r.addJoin(pts[i], dir((i+n-1)%n), dir(i), h)
		}
		return
	}
	for i := 1; i < n-1; i++ {
		r.addJoin(pts[i], dir(i-1), dir(i), h)
	}
	r.addCap(pts[0], dir(0).Mul(-1), h)
	r.addCap(pts[n-1], dir(n-2), h)
}

// addJoin fills the gap on the outer side of the corner at p, where the
// stroke turns from direction t1 to direction t2.
func (r *Rasterizer) addJoin(p, t1, t2 vec.Vec2, h float64) {
	cross := t1.X*t2.Y - t1.Y*t2.X
	if math.Abs(cross) < collinearThreshold && t1.Dot(t2) > 0 {
		return
	}

	side := 1.0
	if cross > 0 {
		side = -1
	}
	o1 := perp(t1).Mul(side * h)
	o2 := perp(t2).Mul(side * h)

	switch r.Join {
	case graphics.LineJoinRound:
		r.addArc(p, o1, o2, h)
		return
	case graphics.LineJoinMiter:
		sum := o1.Add(o2)
		l := sum.Length()
		if l > 0 && 2*h/l <= r.MiterLimit {
			tip := p.Add(sum.Mul(2 * h * h / (l * l)))
			r.addPolygon(p, p.Add(o1), tip, p.Add(o2))
			return
		}
	}
	r.addPolygon(p, p.Add(o1), p.Add(o2))
}

// addCap adds the cap at the end point p of an open polyline. The vector
// t is the unit direction pointing away from the line.
func (r *Rasterizer) addCap(p, t vec.Vec2, h float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.addCircle(p, h)
	case graphics.LineCapSquare:
		nrm := perp(t).Mul(h)
		ext := t.Mul(h)
		r.addPolygon(p.Add(nrm), p.Add(nrm).Add(ext), p.Sub(nrm).Add(ext), p.Sub(nrm))
	}
}

// addArc adds the pie slice around p between the offsets o1 and o2,
// which both have length h. The shorter way round is used.
func (r *Rasterizer) addArc(p, o1, o2 vec.Vec2, h float64) {
	a0 := math.Atan2(o1.Y, o1.X)
	sweep := math.Atan2(o1.X*o2.Y-o1.Y*o2.X, o1.Dot(o2))
	steps := max(int(math.Ceil(math.Abs(sweep)/r.arcStep(h))), 1)

	r.poly = append(r.poly[:0], p)
	for k := 0; k <= steps; k++ {
		a := a0 + sweep*float64(k)/float64(steps)
		r.poly = append(r.poly, vec.Vec2{X: p.X + h*math.Cos(a), Y: p.Y + h*math.Sin(a)})
	}
	r.addPolygon(r.poly...)
}

// addCircle adds a polygonal circle of radius h around p.
func (r *Rasterizer) addCircle(p vec.Vec2, h float64) {
	steps := max(int(math.Ceil(2*math.Pi/r.arcStep(h))), 8)
	r.poly = r.poly[:0]
	for k := range steps {
		a := 2 * math.Pi * float64(k) / float64(steps)
		r.poly = append(r.poly, vec.Vec2{X: p.X + h*math.Cos(a), Y: p.Y + h*math.Sin(a)})
	}
	r.addPolygon(r.poly...)
}

// arcStep returns the angle increment which keeps the chord error of an
// arc with user space radius h below the flatness in device space.
func (r *Rasterizer) arcStep(h float64) float64 {
	rad := max(
		r.transformLinear(vec.Vec2{X: h, Y: 0}).Length(),
		r.transformLinear(vec.Vec2{X: 0, Y: h}).Length(),
	)
	if rad <= r.Flatness {
		return math.Pi / 2
	}
	return 2 * math.Acos(1-r.Flatness/rad)
}

// addPolygon adds the closed polygon through pts to the edge list, with
// positive orientation. Degenerate polygons are skipped.
func (r *Rasterizer) addPolygon(pts ...vec.Vec2) {
	n := len(pts)
	if n < 3 {
		return
	}
	var a float64
	for i := range n {
		p, q := pts[i], pts[(i+1)%n]
		a += p.X*q.Y - q.X*p.Y
	}
	switch {
	case a > 0:
		for i := range n {
			r.addEdge(pts[i], pts[(i+1)%n])
		}
	case a < 0:
		for i := n - 1; i >= 0; i-- {
			r.addEdge(pts[(i+1)%n], pts[i])
		}
	}
}

// perp returns t rotated by 90 degrees.
func perp(t vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -t.Y, Y: t.X}
}
