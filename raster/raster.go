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

// Package raster converts vector paths into anti-aliased pixel coverage.
//
// The compositor uses a [Rasterizer] to paint shape layers: the layer
// matrix becomes the CTM, so outlines are given in the unscaled local
// content frame of the layer. Coverage is delivered row by row through an
// emit callback, in the range 0 (outside) to 1 (inside).
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of one scanline. The coverage slice
// starts at pixel xMin and is only valid during the call.
type EmitFunc func(y, xMin int, coverage []float32)

// FillRule selects how overlapping sub-paths combine.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

func (e *edge) yMin() float64 { return min(e.y0, e.y1) }
func (e *edge) yMax() float64 { return max(e.y0, e.y1) }

// Rasterizer holds the drawing parameters and reusable scratch buffers.
// Buffers grow as needed and are kept between calls, so a single
// Rasterizer should be reused for many paths.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip limits output to this device rectangle. Coordinates must be
	// integers.
	Clip rect.Rect

	// Flatness is the curve approximation tolerance in device pixels.
	Flatness float64

	// Width is the stroke width in user space units.
	Width float64

	// Cap is the style used at the ends of open stroked sub-paths.
	Cap graphics.LineCapStyle

	// Join is the style used where stroked segments meet.
	Join graphics.LineJoinStyle

	// MiterLimit converts miter joins to bevels when the miter length
	// exceeds MiterLimit times the stroke width. Must be at least 1.
	MiterLimit float64

	cover  []float32 // per-pixel cover change, reused as output
	area   []float32 // per-pixel area contribution
	edges  []edge
	active []int // indices into edges

	bboxSet                        bool
	bboxX0, bboxY0, bboxX1, bboxY1 float64

	// stroke flattening
	pts       []vec.Vec2
	subStart  []int
	subClosed []bool
	poly      []vec.Vec2
}

// NewRasterizer returns a Rasterizer for the given clip rectangle, with
// an identity CTM and default stroke parameters.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	r := &Rasterizer{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters and sets a new clip rectangle.
// Scratch buffers are kept.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit
}

// Fill paints the interior of p using the given fill rule. Open
// sub-paths are closed implicitly.
func (r *Rasterizer) Fill(p path.Path, rule FillRule, emit EmitFunc) {
	r.beginEdges()

	var cur, start vec.Vec2
	open := false
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			if open && cur != start {
				r.addEdge(cur, start)
			}
			cur = pts[0]
			start = cur
			open = false
		case path.CmdLineTo:
			r.addEdge(cur, pts[0])
			cur = pts[0]
			open = true
		case path.CmdQuadTo:
			r.flattenQuadratic(cur, pts[0], pts[1], r.addEdge)
			cur = pts[1]
			open = true
		case path.CmdCubeTo:
			r.flattenCubic(cur, pts[0], pts[1], pts[2], r.addEdge)
			cur = pts[2]
			open = true
		case path.CmdClose:
			if cur != start {
				r.addEdge(cur, start)
			}
			cur = start
			open = false
		}
	}
	if open && cur != start {
		r.addEdge(cur, start)
	}

	r.scan(rule, emit)
}

// transformLinear applies the 2×2 linear part of the CTM to v.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flattenQuadratic approximates the quadratic Bézier p0, p1, p2 by line
// segments. The number of segments is chosen from the device-space
// deviation of the control point.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(from, to vec.Vec2)) {
	dev := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic approximates a cubic Bézier by line segments, using Wang's
// formula for the segment count.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(from, to vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3))
	dev := max(d1.Length(), d2.Length())
	n := 1
	if dev > 0 {
		if f := math.Sqrt(3 * dev / (4 * r.Flatness)); f > 1 {
			n = int(math.Ceil(f))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		emit(prev, pt)
		prev = pt
	}
}

// beginEdges clears the edge list and its bounding box.
func (r *Rasterizer) beginEdges() {
	r.edges = r.edges[:0]
	r.bboxSet = false
}

// addEdge transforms a user space segment to device space and records it.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	x0 := r.CTM[0]*p0.X + r.CTM[2]*p0.Y + r.CTM[4]
	y0 := r.CTM[1]*p0.X + r.CTM[3]*p0.Y + r.CTM[5]
	x1 := r.CTM[0]*p1.X + r.CTM[2]*p1.Y + r.CTM[4]
	y1 := r.CTM[1]*p1.X + r.CTM[3]*p1.Y + r.CTM[5]

	dy := y1 - y0
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: x0, y0: y0,
		x1: x1, y1: y1,
		dxdy: (x1 - x0) / dy,
	})

	if !r.bboxSet {
		r.bboxX0, r.bboxX1 = min(x0, x1), max(x0, x1)
		r.bboxY0, r.bboxY1 = min(y0, y1), max(y0, y1)
		r.bboxSet = true
		return
	}
	r.bboxX0 = min(r.bboxX0, x0, x1)
	r.bboxX1 = max(r.bboxX1, x0, x1)
	r.bboxY0 = min(r.bboxY0, y0, y1)
	r.bboxY1 = max(r.bboxY1, y0, y1)
}

// scan converts the collected edges into coverage, one scanline at a time,
// using an active edge list.
func (r *Rasterizer) scan(rule FillRule, emit EmitFunc) {
	if len(r.edges) == 0 {
		return
	}

	xMin := max(int(math.Floor(r.bboxX0)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(r.bboxX1))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(r.bboxY0)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(r.bboxY1))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}

	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.yMin(), b.yMin())
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yTop := float64(y)
		yBot := float64(y + 1)

		for next < len(r.edges) && r.edges[next].yMin() < yBot {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			if next == len(r.edges) {
				break
			}
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if e.yMax() <= yTop {
				last := len(r.active) - 1
				r.active[i] = r.active[last]
				r.active = r.active[:last]
				continue
			}
			if accumulateEdge(e, y, r.cover, r.area, xMin, xMax) {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		if rule == NonZero {
			integrateNonZero(r.cover, r.area)
		} else {
			integrateEvenOdd(r.cover, r.area)
		}
		if cov, offs := trimZeros(r.cover); cov != nil {
			emit(y, xMin+offs, cov)
		}
	}
}

// Coverage model
//
// For every pixel two numbers are accumulated: cover, the signed vertical
// extent of all edge pieces inside the pixel column, and area, the same
// extent weighted by the distance from the crossing point to the right
// pixel border. Integrating from left to right gives the signed area of
// the path inside each pixel:
//
//	coverage[i] = sum(cover[0:i]) + area[i]
//
// Contributions left of the clip are folded into column 0, contributions
// right of the clip are dropped.

// accumulateEdge adds the part of e inside scanline y to cover and area.
// It reports whether anything was added.
func accumulateEdge(e *edge, y int, cover, area []float32, xMin, xMax int) bool {
	yTop := max(float64(y), e.yMin())
	yBot := min(float64(y+1), e.yMax())
	if yBot <= yTop {
		return false
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa := e.x0 + e.dxdy*(yTop-e.y0)
	xb := e.x0 + e.dxdy*(yBot-e.y0)
	left := int(math.Floor(min(xa, xb)))
	right := int(math.Floor(max(xa, xb)))

	switch {
	case right < xMin:
		c := sign * float32(yBot-yTop)
		cover[0] += c
		area[0] += c
		return true
	case left >= xMax:
		return false
	case left == right:
		addPiece(e, yTop, yBot, sign, left, cover, area, xMin, xMax)
		return true
	}

	dydx := 1 / e.dxdy
	for px := left; px <= right; px++ {
		ya := e.y0 + dydx*(float64(px)-e.x0)
		yb := e.y0 + dydx*(float64(px+1)-e.x0)
		lo := max(min(ya, yb), yTop)
		hi := min(max(ya, yb), yBot)
		if hi <= lo {
			continue
		}
		addPiece(e, lo, hi, sign, px, cover, area, xMin, xMax)
	}
	return true
}

// addPiece records the part of e between y0 and y1, which lies inside
// pixel column px.
func addPiece(e *edge, y0, y1 float64, sign float32, px int, cover, area []float32, xMin, xMax int) {
	c := sign * float32(y1-y0)
	if px < xMin {
		cover[0] += c
		area[0] += c
		return
	}
	if px >= xMax {
		return
	}
	xMid := e.x0 + e.dxdy*((y0+y1)/2-e.y0)
	frac := xMid - float64(px)
	i := px - xMin
	cover[i] += c
	area[i] += c * float32(1-frac)
}

// integrateNonZero turns accumulated cover/area into coverage values
// using the nonzero winding rule. The result is stored in cover.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		cover[i] = min(abs32(raw), 1)
	}
}

// integrateEvenOdd is like integrateNonZero, but folds the winding number
// with the even-odd rule.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := abs32(acc + area[i])
		acc += cover[i]
		m := raw - 2*float32(int(raw/2))
		cover[i] = 1 - abs32(1-m)
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// trimZeros strips zero coverage from both ends of a scanline.
// It returns nil if the whole line is zero.
func trimZeros(cov []float32) ([]float32, int) {
	lo := 0
	for lo < len(cov) && cov[lo] == 0 {
		lo++
	}
	if lo == len(cov) {
		return nil, 0
	}
	hi := len(cov) - 1
	for hi > lo && cov[hi] == 0 {
		hi--
	}
	return cov[lo : hi+1], lo
}

const (
	// defaultFlatness is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF and PostScript: joins become bevels
	// below an interior angle of about 11.5 degrees.
	defaultMiterLimit = 10.0

	// horizontalEdgeThreshold is the smallest vertical extent for an edge
	// to contribute coverage.
	horizontalEdgeThreshold = 1e-10

	// zeroLengthThreshold is the shortest stroke segment which is kept.
	zeroLengthThreshold = 1e-10

	// collinearThreshold bounds |sin| of the turning angle below which two
	// stroke segments need no join.
	collinearThreshold = 1e-6
)
