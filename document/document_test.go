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

package document

import (
	"errors"
	"image/color"
	"testing"

	"seehuhn.de/go/layers/layer"
)

func TestNew(t *testing.T) {
	d, err := New(800, 600, BackgroundWhite, color.NRGBA{})
	if err != nil {
		t.Fatal(err)
	}
	b := d.Bounds()
	if b.Left != 0 || b.Top != 0 || b.Right != 800 || b.Bottom != 600 {
		t.Errorf("bounds %+v", b)
	}
	if f := d.Fill(); f == nil || *f != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("fill %v", f)
	}

	for _, size := range [][2]int{{0, 10}, {10, -1}} {
		_, err := New(size[0], size[1], BackgroundTransparent, color.NRGBA{})
		if !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d, %d): unexpected error %v", size[0], size[1], err)
		}
	}
}

func TestParseBackground(t *testing.T) {
	cases := []struct {
		in   string
		mode BackgroundMode
		col  color.NRGBA
	}{
		{"", BackgroundTransparent, color.NRGBA{}},
		{"transparent", BackgroundTransparent, color.NRGBA{}},
		{"White", BackgroundWhite, color.NRGBA{255, 255, 255, 255}},
		{"#102030", BackgroundColor, color.NRGBA{0x10, 0x20, 0x30, 0xff}},
		{"#10203040", BackgroundColor, color.NRGBA{0x10, 0x20, 0x30, 0x40}},
	}
	for _, c := range cases {
		mode, col, err := ParseBackground(c.in)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if mode != c.mode || col != c.col {
			t.Errorf("%q: got %v %v, want %v %v", c.in, mode, col, c.mode, c.col)
		}
	}

	for _, bad := range []string{"blue", "#12", "#gggggg"} {
		if _, _, err := ParseBackground(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func testStack() (Stack, []*layer.Layer) {
	white := color.NRGBA{255, 255, 255, 255}
	ls := []*layer.Layer{
		layer.NewBackground(100, 100, &white),
		layer.NewShape("a", layer.Shape{}, 10, 10, 5, 5),
		layer.NewShape("b", layer.Shape{}, 20, 20, 5, 5),
	}
	return NewStack(ls...), ls
}

func TestStackInsert(t *testing.T) {
	s, ls := testStack()
	c := layer.NewShape("c", layer.Shape{}, 0, 0, 1, 1)

	s2 := s.Insert(0, c)
	if s2.Index(c.ID) != 1 {
		t.Errorf("inserted below the background: index %d", s2.Index(c.ID))
	}
	if s.Len() != 3 || s.Index(c.ID) != -1 {
		t.Error("original stack was modified")
	}
	if s2.At(2) != ls[1] {
		t.Error("layer handles are not shared")
	}

	s3 := s.Insert(99, c)
	if s3.Top() != c {
		t.Error("large index did not insert at the top")
	}
	if err := s3.Validate(); err != nil {
		t.Error(err)
	}
}

func TestStackMove(t *testing.T) {
	s, ls := testStack()

	if m := s.Move(ls[2].ID, 0); m.Index(ls[2].ID) != 1 {
		t.Errorf("layer moved to index %d", m.Index(ls[2].ID))
	}
	if m := s.Move(ls[0].ID, 2); !m.Equal(s) {
		t.Error("background layer was moved")
	}
	m := s.Move(ls[1].ID, 2)
	if m.At(1) != ls[2] || m.At(2) != ls[1] {
		t.Error("layers not swapped")
	}
	if s.At(1) != ls[1] {
		t.Error("original stack was modified")
	}
}

func TestStackRemoveReplace(t *testing.T) {
	s, ls := testStack()

	r := s.Remove(ls[1].ID)
	if r.Len() != 2 || r.Find(ls[1].ID) != nil {
		t.Error("layer not removed")
	}
	if s.Remove(layer.NewID()).Len() != 3 {
		t.Error("removing an unknown layer changed the stack")
	}

	renamed := ls[2].WithName("renamed")
	p := s.Replace(renamed)
	if p.At(2) != renamed || s.At(2) != ls[2] {
		t.Error("replace failed")
	}
}

func TestStackApplyPatch(t *testing.T) {
	s, ls := testStack()

	if e := s.ApplyPatch(layer.Patch{}); !e.Equal(s) {
		t.Error("empty patch changed the stack")
	}

	p := layer.PatchOf(ls[1], layer.FieldPosition)
	p.X = 50
	e := s.ApplyPatch(p)
	if e.At(1).X != 50 || s.At(1).X != 10 {
		t.Error("patch not applied as an overlay")
	}
	if e.At(0) != ls[0] || e.At(2) != ls[2] {
		t.Error("untouched layers are not shared")
	}
}

func TestStackValidate(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	bg := layer.NewBackground(10, 10, &white)
	a := layer.NewShape("a", layer.Shape{}, 0, 0, 1, 1)

	cases := []struct {
		name string
		s    Stack
		ok   bool
	}{
		{"empty", NewStack(), false},
		{"background at bottom", NewStack(bg, a), true},
		{"no background", NewStack(a), true},
		{"background on top", NewStack(a, bg), false},
		{"duplicate", NewStack(a, a), false},
		{"two backgrounds", NewStack(bg, layer.NewBackground(10, 10, nil)), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.s.Validate()
			if (err == nil) != c.ok {
				t.Errorf("Validate() = %v", err)
			}
			if err != nil && !errors.Is(err, ErrInvalidStack) {
				t.Errorf("unexpected error type %v", err)
			}
		})
	}
}
