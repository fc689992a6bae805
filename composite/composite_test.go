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
	"bytes"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/draw"

	"seehuhn.de/go/layers/document"
	"seehuhn.de/go/layers/layer"
)

var (
	white = color.NRGBA{255, 255, 255, 255}
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
)

func fill(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func newDoc(t *testing.T, w, h int) *document.Document {
	t.Helper()
	d, err := document.New(w, h, document.BackgroundWhite, color.NRGBA{})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRenderIsPure(t *testing.T) {
	doc := newDoc(t, 40, 30)
	a := layer.NewPixel("a", fill(10, 10, red), 12.3, 8.7, 0, 0)
	a.Rotation = 33
	a.ScaleX = -1.4
	s := layer.NewShape("s", layer.Shape{Type: layer.ShapeEllipse, Fill: &blue, Stroke: &red, StrokeWidth: 2}, 25, 15, 20, 12)
	s = s.WithOpacity(0.6).WithBlend(layer.BlendMultiply)
	stack := document.NewStack(layer.NewBackground(40, 30, doc.Fill()), a, s)

	first := Render(doc, stack)
	second := Render(doc, stack)
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("repeated rendering gave different results")
	}

	patched := Render(doc, stack.ApplyPatch(layer.Patch{}))
	if !bytes.Equal(first.Pix, patched.Pix) {
		t.Error("empty patch changed the result")
	}
}

func TestRenderPlacement(t *testing.T) {
	doc := newDoc(t, 4, 4)
	l := layer.NewPixel("red", fill(2, 2, red), 1, 1, 0, 0)
	stack := document.NewStack(layer.NewBackground(4, 4, doc.Fill()), l)

	img := Render(doc, stack)
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("pixel (0,0) = %v", got)
	}
	if got := img.RGBAAt(3, 3); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel (3,3) = %v", got)
	}

	hidden := document.NewStack(stack.At(0), l.WithVisible(false))
	if got := Render(doc, hidden).RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("invisible layer was painted: %v", got)
	}
}

func TestRenderOpacity(t *testing.T) {
	doc := newDoc(t, 2, 2)
	l := layer.NewPixel("red", fill(2, 2, red), 1, 1, 0, 0).WithOpacity(128.0 / 255)
	stack := document.NewStack(layer.NewBackground(2, 2, doc.Fill()), l)

	got := Render(doc, stack).RGBAAt(1, 1)
	want := color.RGBA{255, 127, 127, 255}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRenderRotation(t *testing.T) {
	doc := newDoc(t, 10, 10)
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	draw.Draw(img, image.Rect(0, 0, 2, 2), image.NewUniform(red), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(2, 0, 4, 2), image.NewUniform(blue), image.Point{}, draw.Src)

	l := layer.NewPixel("l", img, 5, 5, 0, 0)
	l.Rotation = 90
	r := &Renderer{Interpolator: draw.NearestNeighbor}
	out := r.Render(doc, document.NewStack(l))

	// The left half of the content ends up at the top.
	if got := out.RGBAAt(4, 3); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("pixel (4,3) = %v", got)
	}
	if got := out.RGBAAt(5, 6); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("pixel (5,6) = %v", got)
	}
	if got := out.RGBAAt(1, 1); got.A != 0 {
		t.Errorf("pixel (1,1) = %v", got)
	}
}

func TestRenderShape(t *testing.T) {
	doc, err := document.New(20, 20, document.BackgroundTransparent, color.NRGBA{})
	if err != nil {
		t.Fatal(err)
	}
	s := layer.NewShape("s", layer.Shape{Type: layer.ShapeRectangle, Fill: &blue}, 10, 10, 10, 10)
	stack := document.NewStack(layer.NewBackground(20, 20, doc.Fill()), s)

	img := Render(doc, stack)
	if got := img.RGBAAt(10, 10); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("inside: %v", got)
	}
	if got := img.RGBAAt(2, 2); got.A != 0 {
		t.Errorf("outside: %v", got)
	}
}

func TestBackgroundIgnoresBlendMode(t *testing.T) {
	doc := newDoc(t, 2, 2)
	bg := layer.NewBackground(2, 2, &red).WithBlend(layer.BlendDestinationOut)
	img := Render(doc, document.NewStack(bg))
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("got %v", got)
	}
}

func TestEraseLayer(t *testing.T) {
	doc := newDoc(t, 4, 4)
	eraser := layer.NewPixel("e", fill(2, 2, color.Black), 1, 1, 0, 0).WithBlend(layer.BlendDestinationOut)
	img := Render(doc, document.NewStack(layer.NewBackground(4, 4, doc.Fill()), eraser))
	if got := img.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("erased pixel %v", got)
	}
	if got := img.RGBAAt(3, 3); got.A != 255 {
		t.Errorf("untouched pixel %v", got)
	}
}

func TestDestinationInClearsOutside(t *testing.T) {
	doc := newDoc(t, 4, 4)
	mask := layer.NewPixel("m", fill(2, 2, color.Black), 1, 1, 0, 0).WithBlend(layer.BlendDestinationIn)
	img := Render(doc, document.NewStack(layer.NewBackground(4, 4, doc.Fill()), mask))
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("inside mask: %v", got)
	}
	if got := img.RGBAAt(3, 3); got.A != 0 {
		t.Errorf("outside mask: %v", got)
	}
}

func TestRenderLayer(t *testing.T) {
	doc := newDoc(t, 4, 4)
	l := layer.NewPixel("red", fill(2, 2, red), 3, 3, 0, 0).WithOpacity(0.1).WithVisible(false)
	r := &Renderer{}
	img := r.RenderLayer(doc, l)
	if got := img.RGBAAt(2, 2); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("got %v", got)
	}
	if got := img.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("got %v", got)
	}
}

func TestKernels(t *testing.T) {
	type px = [4]uint32
	cases := []struct {
		mode layer.BlendMode
		s, d px
		want px
	}{
		{layer.BlendNormal, px{255, 0, 0, 255}, px{0, 0, 255, 255}, px{255, 0, 0, 255}},
		{layer.BlendNormal, px{0, 0, 0, 0}, px{1, 2, 3, 4}, px{1, 2, 3, 4}},
		{layer.BlendMultiply, px{255, 0, 0, 255}, px{128, 128, 128, 255}, px{128, 0, 0, 255}},
		{layer.BlendScreen, px{0, 0, 0, 255}, px{10, 20, 30, 255}, px{10, 20, 30, 255}},
		{layer.BlendDarken, px{100, 200, 50, 255}, px{150, 100, 50, 255}, px{100, 100, 50, 255}},
		{layer.BlendLighten, px{100, 200, 50, 255}, px{150, 100, 50, 255}, px{150, 200, 50, 255}},
		{layer.BlendDifference, px{100, 200, 50, 255}, px{150, 100, 50, 255}, px{50, 100, 0, 255}},
		{layer.BlendMultiply, px{0, 0, 0, 0}, px{1, 2, 3, 4}, px{1, 2, 3, 4}},
		{layer.BlendMultiply, px{10, 20, 30, 40}, px{0, 0, 0, 0}, px{10, 20, 30, 40}},
		{layer.BlendDestinationOut, px{0, 0, 0, 255}, px{9, 9, 9, 255}, px{0, 0, 0, 0}},
		{layer.BlendDestinationIn, px{0, 0, 0, 0}, px{9, 9, 9, 255}, px{0, 0, 0, 0}},
		{layer.BlendDestinationIn, px{0, 0, 0, 255}, px{9, 9, 9, 255}, px{9, 9, 9, 255}},
		{layer.BlendSourceAtop, px{255, 0, 0, 255}, px{0, 0, 0, 0}, px{0, 0, 0, 0}},
		{layer.BlendXor, px{255, 0, 0, 255}, px{0, 255, 0, 255}, px{0, 0, 0, 0}},
		{layer.BlendLighter, px{200, 0, 0, 200}, px{100, 0, 0, 100}, px{255, 0, 0, 255}},
	}
	for _, c := range cases {
		k := kernelFor(c.mode)
		r, g, b, a := k(c.s[0], c.s[1], c.s[2], c.s[3], c.d[0], c.d[1], c.d[2], c.d[3])
		if got := (px{r, g, b, a}); got != c.want {
			t.Errorf("%s(%v, %v) = %v, want %v", c.mode, c.s, c.d, got, c.want)
		}
	}
}

func TestMulDiv255(t *testing.T) {
	for a := uint32(0); a < 256; a++ {
		for b := uint32(0); b < 256; b++ {
			want := (a*b + 127) / 255
			if got := mulDiv255(a, b); got != want {
				t.Fatalf("mulDiv255(%d, %d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestInterpolator(t *testing.T) {
	for _, name := range InterpolatorNames() {
		if _, err := Interpolator(name); err != nil {
			t.Error(err)
		}
	}
	if _, err := Interpolator("cubic"); err == nil {
		t.Error("unknown name accepted")
	}
}
