/*
 * Copyright (c) 2025 by the CanvasStudio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor implements the template edit engine: a stateful service
// holding the current template and element selection, exposing the safe
// mutation operations the editing surfaces are built on (property updates
// with per-type validation, deletion, proportional canvas re-layout).
//
// The engine never fails visibly. Malformed property values degrade to safe
// defaults and unknown ids are silent no-ops; every mutator returns a bool
// so callers and tests can still tell "applied" from "did nothing".
package editor

import (
	"log/slog"
	"sync"

	"canvasstudio/internal/canvas"
	applog "canvasstudio/internal/log"
)

// State is the observable output of the engine after every operation.
// All fields are deep copies; mutating them cannot affect the engine.
type State struct {
	Template          *canvas.Template
	SelectedElementID string
	SelectedElement   *canvas.Element
}

// Store owns the current template exclusively. Every select operation takes
// a private deep copy, so callers holding a reference to a value they passed
// in cannot alias internal state. One Store per editing session; mutating
// calls are serialized by an internal mutex so a multi-panel host stays safe.
type Store struct {
	mu       sync.Mutex
	current  *canvas.Template
	selected *canvas.Element
	selID    string
	devMode  bool
	subs     []func(State)
	l        *slog.Logger
}

// NewStore creates an empty edit engine with no template loaded.
func NewStore() *Store {
	return &Store{l: applog.WithComponent("editor")}
}

// Subscribe registers a callback invoked after every state change with a
// fresh snapshot. Subscriptions cannot be removed; tie the Store lifetime
// to the session instead.
func (s *Store) Subscribe(fn func(State)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Snapshot returns the current (template, selected id, selected element)
// triple as deep copies.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	return State{
		Template:          s.current.Clone(),
		SelectedElementID: s.selID,
		SelectedElement:   s.selected.Clone(),
	}
}

// publish fans the snapshot out to subscribers outside the lock so a
// subscriber may call back into the store.
func (s *Store) publish(snap State, subs []func(State)) {
	for _, fn := range subs {
		fn(snap)
	}
}

// SelectTemplate replaces the current template with a deep copy of t, or
// clears it when t is nil. Selection is always reset.
func (s *Store) SelectTemplate(t *canvas.Template) {
	s.mu.Lock()
	s.current = t.Clone()
	s.selID = ""
	s.selected = nil
	snap, subs := s.snapshotLocked(), s.subs
	s.mu.Unlock()
	if t != nil {
		s.l.Debug("template selected", slog.String("template", t.ID), slog.Int("elements", len(t.Elements)))
	} else {
		s.l.Debug("template cleared")
	}
	s.publish(snap, subs)
}

// SelectElement marks el as the selected element (deep-copied), or clears
// the selection when el is nil. The element must belong to the current
// template; the engine does not verify this, and violating the precondition
// leaves a selection the engine cannot resolve back on the next lookup.
func (s *Store) SelectElement(el *canvas.Element) {
	s.mu.Lock()
	s.selected = el.Clone()
	if el != nil {
		s.selID = el.ID
	} else {
		s.selID = ""
	}
	snap, subs := s.snapshotLocked(), s.subs
	s.mu.Unlock()
	s.publish(snap, subs)
}

// UpdateElementProperty locates the element with the given id and replaces
// the named property with a validated value, coercing malformed input to
// safe defaults (see CoercePatch). Unknown property names are assigned
// verbatim for forward compatibility. Returns false without touching state
// when no template is loaded or the id does not match any element.
func (s *Store) UpdateElementProperty(elementID, property string, raw any) bool {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return false
	}
	el := s.current.FindElement(elementID)
	if el == nil {
		s.mu.Unlock()
		s.l.Debug("update on unknown element", slog.String("element", elementID), slog.String("property", property))
		return false
	}
	p := CoercePatch(el, property, raw)
	p.apply(el)
	s.resyncSelectionLocked()
	snap, subs := s.snapshotLocked(), s.subs
	s.mu.Unlock()
	s.publish(snap, subs)
	return true
}

// Apply applies a typed patch command to the element with the given id.
// Same no-op semantics as UpdateElementProperty.
func (s *Store) Apply(elementID string, p Patch) bool {
	if p == nil {
		return false
	}
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return false
	}
	el := s.current.FindElement(elementID)
	if el == nil {
		s.mu.Unlock()
		return false
	}
	p.apply(el)
	s.resyncSelectionLocked()
	snap, subs := s.snapshotLocked(), s.subs
	s.mu.Unlock()
	s.publish(snap, subs)
	return true
}

// DeleteElement removes the element with the given id, preserving the order
// of the remaining elements. If the deleted element was selected, the
// selection is cleared. Lock hints are not enforced here; that is the input
// layer's concern. Returns false when nothing was removed.
func (s *Store) DeleteElement(elementID string) bool {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return false
	}
	idx := -1
	for i := range s.current.Elements {
		if s.current.Elements[i].ID == elementID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		s.l.Debug("delete on unknown element", slog.String("element", elementID))
		return false
	}
	s.current.Elements = append(s.current.Elements[:idx], s.current.Elements[idx+1:]...)
	if s.selID == elementID {
		s.selID = ""
		s.selected = nil
	}
	snap, subs := s.snapshotLocked(), s.subs
	s.mu.Unlock()
	s.publish(snap, subs)
	return true
}

// SetDevMode toggles the developer-mode flag. Orthogonal to the document;
// carried on the store because the editing session owns it.
func (s *Store) SetDevMode(on bool) {
	s.mu.Lock()
	s.devMode = on
	s.mu.Unlock()
}

// DevMode reports the developer-mode flag.
func (s *Store) DevMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devMode
}

// resyncSelectionLocked re-derives the denormalized selected element from
// the element collection after a mutation so the two never drift apart.
func (s *Store) resyncSelectionLocked() {
	if s.selID == "" || s.current == nil {
		return
	}
	if el := s.current.FindElement(s.selID); el != nil {
		s.selected = el.Clone()
	}
}
