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
	"fmt"
	"iter"
	"slices"

	"seehuhn.de/go/layers/layer"
)

// Stack is an immutable ordered sequence of layers. Index 0 is the
// bottom-most layer, which is painted first.
//
// Methods which change the stack return a new Stack. Only the slice of
// layer handles is copied; untouched layers and their rasters are shared
// between the old and the new stack.
type Stack struct {
	layers []*layer.Layer
}

// ErrInvalidStack is returned by Validate.
var ErrInvalidStack = errors.New("invalid layer stack")

// NewStack returns a stack holding the given layers, bottom first.
func NewStack(layers ...*layer.Layer) Stack {
	return Stack{layers: slices.Clone(layers)}
}

// Len returns the number of layers.
func (s Stack) Len() int { return len(s.layers) }

// At returns the layer at index i.
func (s Stack) At(i int) *layer.Layer { return s.layers[i] }

// All iterates over the layers from bottom to top.
func (s Stack) All() iter.Seq2[int, *layer.Layer] {
	return slices.All(s.layers)
}

// Layers returns a copy of the layer handles, bottom first.
func (s Stack) Layers() []*layer.Layer {
	return slices.Clone(s.layers)
}

// Index returns the position of the layer with the given ID, or -1.
func (s Stack) Index(id layer.ID) int {
	return slices.IndexFunc(s.layers, func(l *layer.Layer) bool { return l.ID == id })
}

// Find returns the layer with the given ID, or nil.
func (s Stack) Find(id layer.ID) *layer.Layer {
	if i := s.Index(id); i >= 0 {
		return s.layers[i]
	}
	return nil
}

// Top returns the top-most layer, or nil for an empty stack.
func (s Stack) Top() *layer.Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

// HasBackground reports whether the bottom layer is a background layer.
func (s Stack) HasBackground() bool {
	return len(s.layers) > 0 && s.layers[0].Background
}

// minIndex is the lowest position a non-background layer may take.
func (s Stack) minIndex() int {
	if s.HasBackground() {
		return 1
	}
	return 0
}

// Insert returns a stack with l inserted at position i. The position is
// clamped so that l ends up above the background layer.
func (s Stack) Insert(i int, l *layer.Layer) Stack {
	i = min(max(i, s.minIndex()), len(s.layers))
	if l.Background {
		i = 0
	}
	return Stack{layers: slices.Insert(slices.Clone(s.layers), i, l)}
}

// Remove returns a stack without the layer with the given ID.
func (s Stack) Remove(id layer.ID) Stack {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	return Stack{layers: slices.Delete(slices.Clone(s.layers), i, i+1)}
}

// Replace returns a stack where the layer with the ID of l is replaced by l.
func (s Stack) Replace(l *layer.Layer) Stack {
	i := s.Index(l.ID)
	if i < 0 {
		return s
	}
	layers := slices.Clone(s.layers)
	layers[i] = l
	return Stack{layers: layers}
}

// Move returns a stack where the layer with the given ID is at position
// to. The background layer does not move, and no other layer can be
// moved below it.
func (s Stack) Move(id layer.ID, to int) Stack {
	i := s.Index(id)
	if i < 0 || s.layers[i].Background {
		return s
	}
	to = min(max(to, s.minIndex()), len(s.layers)-1)
	if to == i {
		return s
	}
	l := s.layers[i]
	layers := slices.Delete(slices.Clone(s.layers), i, i+1)
	return Stack{layers: slices.Insert(layers, to, l)}
}

// ApplyPatch returns the effective stack with p applied. An empty patch,
// or a patch for a layer not in the stack, returns s unchanged.
func (s Stack) ApplyPatch(p layer.Patch) Stack {
	if p.IsEmpty() {
		return s
	}
	l := s.Find(p.LayerID)
	if l == nil {
		return s
	}
	return s.Replace(p.Apply(l))
}

// Validate checks the structural invariants: the stack is not empty,
// layer IDs are unique, at most one layer is a background layer, and a
// background layer is the locked bottom-most entry.
func (s Stack) Validate() error {
	if len(s.layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalidStack)
	}
	seen := make(map[layer.ID]bool, len(s.layers))
	for i, l := range s.layers {
		if l == nil {
			return fmt.Errorf("%w: nil layer at index %d", ErrInvalidStack, i)
		}
		if seen[l.ID] {
			return fmt.Errorf("%w: duplicate layer %s", ErrInvalidStack, l.ID)
		}
		seen[l.ID] = true
		if l.Background {
			if i != 0 {
				return fmt.Errorf("%w: background layer at index %d", ErrInvalidStack, i)
			}
			if !l.Locked {
				return fmt.Errorf("%w: background layer is unlocked", ErrInvalidStack)
			}
		}
	}
	return nil
}

// Equal reports whether s and o hold the same layer values in the same
// order.
func (s Stack) Equal(o Stack) bool {
	return slices.Equal(s.layers, o.layers)
}
