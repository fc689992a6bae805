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

package composite

import (
	"image"
	"math"

	"seehuhn.de/go/layers/layer"
)

// A kernel combines one premultiplied source pixel with one premultiplied
// destination pixel. All values are in the range 0-255.
type kernel func(sr, sg, sb, sa, dr, dg, db, da uint32) (r, g, b, a uint32)

var kernels = [...]kernel{
	layer.BlendNormal:         sourceOver,
	layer.BlendMultiply:       separable(multiply),
	layer.BlendScreen:         separable(screen),
	layer.BlendOverlay:        separable(overlay),
	layer.BlendDarken:         separable(darken),
	layer.BlendLighten:        separable(lighten),
	layer.BlendColorDodge:     separable(colorDodge),
	layer.BlendColorBurn:      separable(colorBurn),
	layer.BlendHardLight:      separable(hardLight),
	layer.BlendSoftLight:      separable(softLight),
	layer.BlendDifference:     separable(difference),
	layer.BlendExclusion:      separable(exclusion),
	layer.BlendSourceAtop:     sourceAtop,
	layer.BlendDestinationIn:  destinationIn,
	layer.BlendDestinationOut: destinationOut,
	layer.BlendXor:            xor,
	layer.BlendLighter:        lighter,
}

// kernelFor returns the kernel for mode. Unknown modes fall back to
// source-over.
func kernelFor(mode layer.BlendMode) kernel {
	if int(mode) < len(kernels) && kernels[mode] != nil {
		return kernels[mode]
	}
	return sourceOver
}

// Blend combines the pixels of src with dst inside r, using the given
// blend mode. The source pixels are first scaled by opacity (0-255).
// The point r.Min in dst is aligned with sp in src, as for [draw.Draw].
// Pixels outside the source image are treated as transparent.
func Blend(dst *image.RGBA, r image.Rectangle, src *image.RGBA, sp image.Point, mode layer.BlendMode, opacity uint8) {
	r = r.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	k := kernelFor(mode)
	op := uint32(opacity)
	dx := sp.X - r.Min.X
	dy := sp.Y - r.Min.Y

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var sr, sg, sb, sa uint32
			if p := (image.Point{X: x + dx, Y: y + dy}); p.In(src.Rect) {
				s := src.Pix[src.PixOffset(p.X, p.Y):]
				sr, sg, sb, sa = uint32(s[0]), uint32(s[1]), uint32(s[2]), uint32(s[3])
				if op != 255 {
					sr, sg, sb, sa = mulDiv255(sr, op), mulDiv255(sg, op), mulDiv255(sb, op), mulDiv255(sa, op)
				}
			}

			d := dst.Pix[dst.PixOffset(x, y):]
			cr, cg, cb, ca := k(sr, sg, sb, sa, uint32(d[0]), uint32(d[1]), uint32(d[2]), uint32(d[3]))
			d[0], d[1], d[2], d[3] = uint8(min(cr, 255)), uint8(min(cg, 255)), uint8(min(cb, 255)), uint8(min(ca, 255))
		}
	}
}

// mulDiv255 returns a*b/255, rounded to the nearest integer.
func mulDiv255(a, b uint32) uint32 {
	t := a*b + 128
	return (t + t>>8) >> 8
}

// Porter-Duff operators

func sourceOver(sr, sg, sb, sa, dr, dg, db, da uint32) (uint32, uint32, uint32, uint32) {
	if sa == 255 {
		return sr, sg, sb, sa
	}
	inv := 255 - sa
	return sr + mulDiv255(dr, inv), sg + mulDiv255(dg, inv), sb + mulDiv255(db, inv), sa + mulDiv255(da, inv)
}

func destinationIn(sr, sg, sb, sa, dr, dg, db, da uint32) (uint32, uint32, uint32, uint32) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

func destinationOut(sr, sg, sb, sa, dr, dg, db, da uint32) (uint32, uint32, uint32, uint32) {
	inv := 255 - sa
	return mulDiv255(dr, inv), mulDiv255(dg, inv), mulDiv255(db, inv), mulDiv255(da, inv)
}

func sourceAtop(sr, sg, sb, sa, dr, dg, db, da uint32) (uint32, uint32, uint32, uint32) {
	inv := 255 - sa
	return mulDiv255(sr, da) + mulDiv255(dr, inv),
		mulDiv255(sg, da) + mulDiv255(dg, inv),
		mulDiv255(sb, da) + mulDiv255(db, inv),
		da
}

func xor(sr, sg, sb, sa, dr, dg, db, da uint32) (uint32, uint32, uint32, uint32) {
	invS, invD := 255-sa, 255-da
	return mulDiv255(sr, invD) + mulDiv255(dr, invS),
		mulDiv255(sg, invD) + mulDiv255(dg, invS),
		mulDiv255(sb, invD) + mulDiv255(db, invS),
		mulDiv255(sa, invD) + mulDiv255(da, invS)
}

func lighter(sr, sg, sb, sa, dr, dg, db, da uint32) (uint32, uint32, uint32, uint32) {
	return min(sr+dr, 255), min(sg+dg, 255), min(sb+db, 255), min(sa+da, 255)
}

// separable turns a per-channel blend function into a kernel.
// The function receives unpremultiplied source and backdrop values.
// The result is
//
//	S·(1 - Da) + D·(1 - Sa) + Sa·Da·B(Cs, Cb)
func separable(b func(cs, cb uint32) uint32) kernel {
	return func(sr, sg, sb, sa, dr, dg, db, da uint32) (uint32, uint32, uint32, uint32) {
		if sa == 0 {
			return dr, dg, db, da
		}
		if da == 0 {
			return sr, sg, sb, sa
		}
		invS, invD := 255-sa, 255-da
		both := mulDiv255(sa, da)
		ch := func(s, d uint32) uint32 {
			v := mulDiv255(s, invD) + mulDiv255(d, invS) +
				mulDiv255(both, b(unpremultiply(s, sa), unpremultiply(d, da)))
			return min(v, 255)
		}
		return ch(sr, dr), ch(sg, dg), ch(sb, db), sa + da - both
	}
}

func unpremultiply(c, a uint32) uint32 {
	return min((c*255+a/2)/a, 255)
}

func multiply(cs, cb uint32) uint32 {
	return mulDiv255(cs, cb)
}

func screen(cs, cb uint32) uint32 {
	return cs + cb - mulDiv255(cs, cb)
}

func darken(cs, cb uint32) uint32 { return min(cs, cb) }

func lighten(cs, cb uint32) uint32 { return max(cs, cb) }

func hardLight(cs, cb uint32) uint32 {
	if cs <= 127 {
		return multiply(2*cs, cb)
	}
	return screen(2*cs-255, cb)
}

func overlay(cs, cb uint32) uint32 {
	return hardLight(cb, cs)
}

func colorDodge(cs, cb uint32) uint32 {
	switch {
	case cb == 0:
		return 0
	case cs == 255:
		return 255
	}
	return min(cb*255/(255-cs), 255)
}

func colorBurn(cs, cb uint32) uint32 {
	switch {
	case cb == 255:
		return 255
	case cs == 0:
		return 0
	}
	return 255 - min((255-cb)*255/cs, 255)
}

func softLight(cs, cb uint32) uint32 {
	s := float64(cs) / 255
	d := float64(cb) / 255
	var res float64
	if s <= 0.5 {
		res = d - (1-2*s)*d*(1-d)
	} else {
		var dd float64
		if d <= 0.25 {
			dd = ((16*d-12)*d + 4) * d
		} else {
			dd = math.Sqrt(d)
		}
		res = d + (2*s-1)*(dd-d)
	}
	return uint32(math.Round(min(max(res, 0), 1) * 255))
}

func difference(cs, cb uint32) uint32 {
	if cs > cb {
		return cs - cb
	}
	return cb - cs
}

func exclusion(cs, cb uint32) uint32 {
	return cs + cb - 2*mulDiv255(cs, cb)
}
