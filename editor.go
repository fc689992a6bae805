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

// Package layers is the editing core of a layered image editor.
//
// An [Editor] owns a document, the undo/redo history of its layer stack,
// and the state of the gesture in progress. Every edit produces a new
// immutable layer stack which is committed to the history with a
// descriptive label. Gestures (transform and move) show their effect
// through a preview patch, which is applied on top of the committed
// stack when rendering and never enters the history by itself.
//
// While a gesture is in progress, edits, selection changes and history
// navigation are refused with [ErrGestureActive]. The gesture must be
// committed or cancelled first.
//
// An Editor is not safe for concurrent use. Events are expected to be
// handled one at a time, each running to completion.
package layers

import (
	"fmt"
	"image"
	"log/slog"

	"seehuhn.de/go/layers/composite"
	"seehuhn.de/go/layers/config"
	"seehuhn.de/go/layers/document"
	"seehuhn.de/go/layers/history"
	"seehuhn.de/go/layers/layer"
	"seehuhn.de/go/layers/session"
)

// gesture is the gesture in progress: either a *session.Transform or a
// *session.Move. A nil gesture means the editor is idle.
type gesture interface {
	Patch() layer.Patch
}

// Editor is the state of one open document.
type Editor struct {
	settings *config.Settings
	renderer *composite.Renderer

	doc     *document.Document
	history *history.History
	active  layer.ID
	tool    session.Tool
	view    session.Viewport

	preview *layer.Patch
	gesture gesture
}

// New returns an editor for a new document. The layer stack holds a
// single background layer, filled according to the document background
// mode. If settings is nil, [config.Default] is used.
//
// The thumbnail size of the settings applies to all layers created
// afterwards.
func New(doc *document.Document, settings *config.Settings) *Editor {
	if settings == nil {
		settings = config.Default()
	}
	if settings.ThumbnailSize > 0 {
		layer.ThumbnailSize = settings.ThumbnailSize
	}
	bg := layer.NewBackground(doc.Width, doc.Height, doc.Fill())
	e := &Editor{
		settings: settings,
		renderer: settings.Renderer(),
		doc:      doc,
		history:  history.New(document.NewStack(bg), "New Document", bg.ID),
		active:   bg.ID,
		tool:     session.ToolMove,
		view:     session.DefaultViewport,
	}
	e.log().Info("new document",
		"width", doc.Width, "height", doc.Height, "background", doc.Background)
	return e
}

func (e *Editor) log() *slog.Logger {
	if e.settings.Logger != nil {
		return e.settings.Logger
	}
	return Logger()
}

// Document returns the document settings.
func (e *Editor) Document() *document.Document {
	return e.doc
}

// Stack returns the committed layer stack.
func (e *Editor) Stack() document.Stack {
	return e.history.Current()
}

// EffectiveStack returns the committed layer stack with the current
// preview applied.
func (e *Editor) EffectiveStack() document.Stack {
	s := e.history.Current()
	if e.preview != nil {
		s = s.ApplyPatch(*e.preview)
	}
	return s
}

// Layer returns the committed layer with the given ID, or nil.
func (e *Editor) Layer(id layer.ID) *layer.Layer {
	return e.Stack().Find(id)
}

// ActiveID returns the ID of the selected layer.
func (e *Editor) ActiveID() layer.ID {
	return e.active
}

// Active returns the selected layer, or nil if no layer is selected.
func (e *Editor) Active() *layer.Layer {
	return e.Stack().Find(e.active)
}

// SetActive selects a layer.
func (e *Editor) SetActive(id layer.ID) error {
	if err := e.idle("select"); err != nil {
		return err
	}
	if e.Stack().Index(id) < 0 {
		return fmt.Errorf("select %s: %w", id, ErrUnknownLayer)
	}
	e.active = id
	return nil
}

// Tool returns the selected tool.
func (e *Editor) Tool() session.Tool {
	return e.tool
}

// SetTool selects a tool.
func (e *Editor) SetTool(t session.Tool) {
	e.tool = t
}

// View returns the current viewport.
func (e *Editor) View() session.Viewport {
	return e.view
}

// SetView changes zoom and pan. A gesture in progress keeps the
// viewport it was started with.
func (e *Editor) SetView(v session.Viewport) {
	e.view = v
}

// Preview returns the current preview patch, if any.
func (e *Editor) Preview() (layer.Patch, bool) {
	if e.preview == nil {
		return layer.Patch{}, false
	}
	return *e.preview, true
}

// SetPreview shows p on top of the committed stack, for example while
// an opacity slider is dragged. It fails while a gesture is in progress.
func (e *Editor) SetPreview(p layer.Patch) error {
	if e.gesture != nil {
		return ErrGestureActive
	}
	if e.Stack().Index(p.LayerID) < 0 {
		return fmt.Errorf("preview %s: %w", p.LayerID, ErrUnknownLayer)
	}
	e.preview = &p
	return nil
}

// ClearPreview removes the preview patch. It fails while a gesture is in
// progress.
func (e *Editor) ClearPreview() error {
	if e.gesture != nil {
		return ErrGestureActive
	}
	e.preview = nil
	return nil
}

// RenderPreview renders the effective stack, including the preview.
func (e *Editor) RenderPreview() *image.RGBA {
	return e.renderer.Render(e.doc, e.EffectiveStack())
}

// Export renders the committed stack, ignoring any preview.
func (e *Editor) Export() *image.RGBA {
	return e.renderer.Render(e.doc, e.Stack())
}

// Project returns the document settings and the committed layer stack,
// for saving.
func (e *Editor) Project() (*document.Document, document.Stack) {
	return e.doc, e.Stack()
}

// Open replaces the document and its layers. All history is discarded
// and the new stack becomes the only history entry.
func (e *Editor) Open(doc *document.Document, stack document.Stack) error {
	if err := e.idle("open project"); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("open project: %w", document.ErrInvalidSize)
	}
	if err := stack.Validate(); err != nil {
		return fmt.Errorf("open project: %w", err)
	}
	var active layer.ID
	if top := stack.Top(); top != nil {
		active = top.ID
	}
	e.doc = doc
	e.history.Reset(stack, "Open Project", active)
	e.active = active
	e.preview = nil
	e.log().Info("open project",
		"width", doc.Width, "height", doc.Height, "layers", stack.Len())
	return nil
}

// Labels returns the labels of all history entries, oldest first.
func (e *Editor) Labels() []string {
	return e.history.Labels()
}

// HistoryIndex returns the position of the current history entry.
func (e *Editor) HistoryIndex() int {
	return e.history.Index()
}

// Undo steps back one history entry. It reports false if there is
// nothing to undo or a gesture is in progress.
func (e *Editor) Undo() bool {
	return e.navigate("undo", e.history.Undo)
}

// Redo steps forward one history entry. It reports false if there is
// nothing to redo or a gesture is in progress.
func (e *Editor) Redo() bool {
	return e.navigate("redo", e.history.Redo)
}

// JumpTo makes history entry i current. It reports false if i is out of
// range or a gesture is in progress.
func (e *Editor) JumpTo(i int) bool {
	return e.navigate("jump", func() bool { return e.history.JumpTo(i) })
}

func (e *Editor) navigate(op string, move func() bool) bool {
	if e.gesture != nil || !move() {
		e.log().Debug("ignored", "op", op, "index", e.history.Index())
		return false
	}
	e.preview = nil
	e.active = e.history.Entry().Active
	if e.Stack().Index(e.active) < 0 {
		e.active = layer.NoID
		if top := e.Stack().Top(); top != nil {
			e.active = top.ID
		}
	}
	return true
}

// idle returns ErrGestureActive while a gesture is in progress.
func (e *Editor) idle(op string) error {
	if e.gesture != nil {
		e.log().Debug("ignored", "op", op, "reason", "gesture active")
		return fmt.Errorf("%s: %w", op, ErrGestureActive)
	}
	return nil
}

// commit records a new history entry and selects the given layer.
func (e *Editor) commit(stack document.Stack, label string, active layer.ID) {
	e.history.Commit(stack, label, active)
	e.active = active
	e.preview = nil
	e.log().Debug("commit",
		"label", label, "index", e.history.Index(), "layers", stack.Len())
}

// reject logs a refused edit and returns err.
func (e *Editor) reject(op string, id layer.ID, err error) error {
	e.log().Warn("edit rejected", "op", op, "layer", id, "err", err)
	return fmt.Errorf("%s: %w", op, err)
}

// lookup returns the committed layer with the given ID.
func (e *Editor) lookup(op string, id layer.ID) (*layer.Layer, error) {
	l := e.Stack().Find(id)
	if l == nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, ErrUnknownLayer)
	}
	return l, nil
}
