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
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"canvasstudio/internal/canvas"
	"canvasstudio/internal/geom"
)

// Patch is a validated mutation of a single element property. The well-known
// properties each have a typed variant carrying its native value; FieldPatch
// is the generic passthrough for forward-compatible fields.
type Patch interface {
	apply(el *canvas.Element)
}

// OpacityPatch sets the element opacity, clamped to [0,1].
type OpacityPatch struct{ Value float64 }

func (p OpacityPatch) apply(el *canvas.Element) { el.Opacity = geom.Clamp(p.Value, 0, 1) }

// XPatch sets the horizontal position, clamped to >= 0.
type XPatch struct{ Value float64 }

func (p XPatch) apply(el *canvas.Element) { el.X = math.Max(p.Value, 0) }

// YPatch sets the vertical position, clamped to >= 0.
type YPatch struct{ Value float64 }

func (p YPatch) apply(el *canvas.Element) { el.Y = math.Max(p.Value, 0) }

// WidthPatch sets the element width, clamped to >= 0.
type WidthPatch struct{ Value float64 }

func (p WidthPatch) apply(el *canvas.Element) { el.Width = math.Max(p.Value, 0) }

// HeightPatch sets the element height, clamped to >= 0.
type HeightPatch struct{ Value float64 }

func (p HeightPatch) apply(el *canvas.Element) { el.Height = math.Max(p.Value, 0) }

// RotationPatch sets the rotation in degrees. No clamping: full rotational
// freedom, not normalized.
type RotationPatch struct{ Value float64 }

func (p RotationPatch) apply(el *canvas.Element) { el.Rotation = p.Value }

// FontSizePatch sets the font size of a textual element, clamped to >= 1.
type FontSizePatch struct{ Value float64 }

func (p FontSizePatch) apply(el *canvas.Element) { el.FontSize = math.Max(p.Value, 1) }

// LineHeightPatch sets the unitless line-height multiplier, clamped to [0.8, 3].
type LineHeightPatch struct{ Value float64 }

func (p LineHeightPatch) apply(el *canvas.Element) { el.LineHeight = geom.Clamp(p.Value, 0.8, 3) }

// LetterSpacingPatch sets the letter spacing in px, clamped to [-2, 10].
type LetterSpacingPatch struct{ Value float64 }

func (p LetterSpacingPatch) apply(el *canvas.Element) { el.LetterSpacing = geom.Clamp(p.Value, -2, 10) }

// SourcePatch replaces the media source URL. An empty URL keeps the previous
// source so a half-typed update cannot blank out the element.
type SourcePatch struct{ URL string }

func (p SourcePatch) apply(el *canvas.Element) {
	if strings.TrimSpace(p.URL) != "" {
		el.Src = p.URL
	}
}

// FieldPatch assigns a property verbatim. Known fields get the value when
// the dynamic type fits; everything else lands in the element's Extra map so
// fields this engine predates still round-trip.
type FieldPatch struct {
	Name  string
	Value any
}

func (p FieldPatch) apply(el *canvas.Element) {
	if assignKnownField(el, p.Name, p.Value) {
		return
	}
	if el.Extra == nil {
		el.Extra = make(map[string]any)
	}
	el.Extra[p.Name] = p.Value
}

// CoercePatch turns a raw (propertyName, value) pair into the matching typed
// patch, applying the engine's safe-default coercion rules:
//
//	opacity   -> float clamped to [0,1], invalid input becomes 0
//	x,y,w,h   -> float clamped to >= 0, invalid input becomes 0
//	rotation  -> float, invalid input becomes 0, never clamped
//	fontSize  -> float clamped to >= 1, invalid input becomes 16
//	           (textual elements only; otherwise verbatim passthrough)
//	src       -> non-empty string accepted, otherwise previous value kept
//	           (media elements only; otherwise verbatim passthrough)
//
// Any other property name is passed through verbatim.
func CoercePatch(el *canvas.Element, property string, raw any) Patch {
	switch property {
	case "opacity":
		return OpacityPatch{Value: floatOr(raw, 0)}
	case "x":
		return XPatch{Value: floatOr(raw, 0)}
	case "y":
		return YPatch{Value: floatOr(raw, 0)}
	case "width":
		return WidthPatch{Value: floatOr(raw, 0)}
	case "height":
		return HeightPatch{Value: floatOr(raw, 0)}
	case "rotation":
		return RotationPatch{Value: floatOr(raw, 0)}
	case "fontSize":
		if el.IsTextual() {
			return FontSizePatch{Value: floatOr(raw, 16)}
		}
	case "lineHeight":
		if el.IsTextual() {
			return LineHeightPatch{Value: floatOr(raw, 1)}
		}
	case "letterSpacing":
		if el.IsTextual() {
			return LetterSpacingPatch{Value: floatOr(raw, 0)}
		}
	case "src":
		if el.IsMedia() || el.Type == canvas.ElementAudio {
			s, _ := raw.(string)
			return SourcePatch{URL: s}
		}
	}
	return FieldPatch{Name: property, Value: raw}
}

// floatOr parses raw as a float64, returning def for anything that is not a
// finite number. Strings and json.Number are accepted so values arriving
// from form inputs or decoded JSON behave the same as native numbers.
func floatOr(raw any, def float64) float64 {
	v, ok := toFloat(raw)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// assignKnownField writes raw into the element field named by property when
// the dynamic type is compatible. Returns false when the field is unknown or
// the type does not fit.
func assignKnownField(el *canvas.Element, property string, raw any) bool {
	switch property {
	case "name", "content", "fontFamily", "fontWeight", "fontStyle", "color",
		"textAlign", "textTransform", "textDecoration", "textShadow", "objectFit", "src":
		s, ok := raw.(string)
		if !ok {
			return false
		}
		setStringField(el, property, s)
		return true
	case "locked", "autoplay", "loop", "controls", "muted":
		b, ok := raw.(bool)
		if !ok {
			return false
		}
		setBoolField(el, property, b)
		return true
	case "zIndex":
		f, ok := toFloat(raw)
		if !ok {
			return false
		}
		el.ZIndex = int(f)
		return true
	case "volume", "startTime", "endTime", "fontSize", "lineHeight", "letterSpacing":
		f, ok := toFloat(raw)
		if !ok {
			return false
		}
		switch property {
		case "volume":
			el.Volume = geom.Clamp(f, 0, 1)
		case "startTime":
			el.StartTime = f
		case "endTime":
			el.EndTime = f
		case "fontSize":
			el.FontSize = f
		case "lineHeight":
			el.LineHeight = f
		case "letterSpacing":
			el.LetterSpacing = f
		}
		return true
	}
	return false
}

func setStringField(el *canvas.Element, property, s string) {
	switch property {
	case "name":
		el.Name = s
	case "content":
		el.Content = s
	case "fontFamily":
		el.FontFamily = s
	case "fontWeight":
		el.FontWeight = s
	case "fontStyle":
		el.FontStyle = s
	case "color":
		el.Color = s
	case "textAlign":
		el.TextAlign = s
	case "textTransform":
		el.TextTransform = s
	case "textDecoration":
		el.TextDecoration = s
	case "textShadow":
		el.TextShadow = s
	case "objectFit":
		el.ObjectFit = s
	case "src":
		el.Src = s
	}
}

func setBoolField(el *canvas.Element, property string, b bool) {
	switch property {
	case "locked":
		el.Locked = b
	case "autoplay":
		el.Autoplay = b
	case "loop":
		el.Loop = b
	case "controls":
		el.Controls = b
	case "muted":
		el.Muted = b
	}
}
