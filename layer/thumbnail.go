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

package layer

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/layers/raster"
)

// ThumbnailSize is the edge length, in pixels, of the square that layer
// thumbnails are fitted into. It should be set once at start-up, before
// any layers are created.
var ThumbnailSize = 64

// makeThumbnail renders a small preview of the layer content, ignoring
// the layer transform. The aspect ratio of the content is kept.
func makeThumbnail(l *Layer) *image.RGBA {
	if l.Width <= 0 || l.Height <= 0 || ThumbnailSize <= 0 {
		return nil
	}
	scale := float64(ThumbnailSize) / max(l.Width, l.Height)
	tw := max(int(math.Round(l.Width*scale)), 1)
	th := max(int(math.Round(l.Height*scale)), 1)
	thumb := image.NewRGBA(image.Rect(0, 0, tw, th))

	switch l.Kind {
	case KindPixel:
		if l.Raster != nil {
			draw.ApproxBiLinear.Scale(thumb, thumb.Rect, l.Raster, l.Raster.Rect, draw.Src, nil)
		}
	case KindShape:
		if l.Shape != nil {
			r := raster.NewRasterizer(rect.Rect{URx: float64(tw), URy: float64(th)})
			l.Shape.Paint(thumb, r, matrix.Matrix{scale, 0, 0, scale, 0, 0}, l.Width, l.Height)
		}
	}
	return thumb
}
