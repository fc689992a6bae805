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

// Package history implements a linear undo/redo log of layer stack
// snapshots.
//
// Committing while the current entry is not the newest one discards all
// newer entries. There is no branching.
package history

import (
	"seehuhn.de/go/layers/document"
	"seehuhn.de/go/layers/layer"
)

// Entry is one snapshot in the history.
type Entry struct {
	Stack document.Stack
	Label string

	// Active is the layer which was selected after the edit.
	Active layer.ID
}

// History is the undo/redo log. The list of entries is never empty.
type History struct {
	entries []Entry
	index   int
}

// New returns a history holding a single entry.
func New(stack document.Stack, label string, active layer.ID) *History {
	h := &History{}
	h.Reset(stack, label, active)
	return h
}

// Reset discards all entries and starts over with a single entry.
func (h *History) Reset(stack document.Stack, label string, active layer.ID) {
	h.entries = []Entry{{Stack: stack, Label: label, Active: active}}
	h.index = 0
}

// Commit appends a new entry after the current one and makes it current.
// Entries after the current index are discarded first.
func (h *History) Commit(stack document.Stack, label string, active layer.ID) {
	h.clamp()
	clear(h.entries[h.index+1:])
	h.entries = append(h.entries[:h.index+1], Entry{Stack: stack, Label: label, Active: active})
	h.index = len(h.entries) - 1
}

// Undo steps back one entry. It reports false, and does nothing, if the
// current entry is the oldest one.
func (h *History) Undo() bool {
	return h.JumpTo(h.index - 1)
}

// Redo steps forward one entry. It reports false, and does nothing, if
// the current entry is the newest one.
func (h *History) Redo() bool {
	return h.JumpTo(h.index + 1)
}

// JumpTo makes entry i current. It reports false, and does nothing, if
// i is out of range.
func (h *History) JumpTo(i int) bool {
	if i < 0 || i >= len(h.entries) {
		return false
	}
	h.index = i
	return true
}

// Current returns the layer stack of the current entry.
func (h *History) Current() document.Stack {
	return h.Entry().Stack
}

// Entry returns the current entry.
func (h *History) Entry() Entry {
	h.clamp()
	return h.entries[h.index]
}

// Index returns the position of the current entry.
func (h *History) Index() int {
	h.clamp()
	return h.index
}

// Len returns the number of entries, including those which can be redone.
func (h *History) Len() int { return len(h.entries) }

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Labels returns the labels of all entries, oldest first.
func (h *History) Labels() []string {
	res := make([]string, len(h.entries))
	for i, e := range h.entries {
		res[i] = e.Label
	}
	return res
}

// clamp keeps the index in range.
func (h *History) clamp() {
	if len(h.entries) == 0 {
		h.entries = []Entry{{}}
	}
	h.index = min(max(h.index, 0), len(h.entries)-1)
}
