/*
 * Copyright (c) 2025 by the CanvasStudio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import (
	"log/slog"

	"canvasstudio/internal/canvas"
	"canvasstudio/internal/geom"
)

// SetCanvasDimensions resizes the canvas and proportionally re-lays-out
// every element so the visual composition survives an aspect-ratio switch:
//
//   - positions and extents scale anisotropically (x/width by the horizontal
//     factor, y/height by the vertical one), so shapes stretch with the canvas;
//   - font sizes scale by the uniform content scale (the smaller factor), so
//     text never distorts even when its bounding box does;
//   - media with contain/scale-down object-fit gets its height recomputed
//     from the element's own aspect ratio applied to the new width, keeping
//     the intrinsic proportions instead of stretching.
//
// Each call recomputes from the current geometry, so successive resizes
// compose multiplicatively and a no-op scale reproduces the document up to
// floating-point rounding. The new dimensions and recomputed elements commit
// as one atomic state update. Returns false when no template is loaded or
// the requested dimensions are not positive.
func (s *Store) SetCanvasDimensions(d canvas.Dimensions) bool {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return false
	}
	if d.Width <= 0 || d.Height <= 0 {
		s.mu.Unlock()
		s.l.Warn("rejecting non-positive canvas dimensions",
			slog.Float64("width", d.Width), slog.Float64("height", d.Height))
		return false
	}

	old := s.current.CanvasDimensions
	f := geom.Factors(old.Width, old.Height, d.Width, d.Height)
	content := f.Content()

	scaled := make([]canvas.Element, len(s.current.Elements))
	for i := range s.current.Elements {
		el := *s.current.Elements[i].Clone()
		aspect := geom.R(el.X, el.Y, el.Width, el.Height).AspectRatio()
		r := f.Apply(geom.R(el.X, el.Y, el.Width, el.Height))
		if el.KeepsAspect() && aspect > 0 {
			// Contained media keeps its intrinsic proportions: height follows
			// the element's pre-resize aspect ratio at the new width.
			r.H = r.W / aspect
		}
		el.X, el.Y, el.Width, el.Height = r.X, r.Y, r.W, r.H
		if el.IsTextual() {
			el.FontSize *= content
		}
		scaled[i] = el
	}

	s.current.CanvasDimensions = d
	s.current.Elements = scaled
	s.resyncSelectionLocked()
	snap, subs := s.snapshotLocked(), s.subs
	s.mu.Unlock()

	s.l.Debug("canvas resized",
		slog.Float64("scaleX", f.X), slog.Float64("scaleY", f.Y),
		slog.Float64("contentScale", content))
	s.publish(snap, subs)
	return true
}
