/*
 * Copyright (c) 2025 by the CanvasStudio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package geom

// Basic 2D geometry used by the canvas model and the edit engine.
// All values are float64 canvas pixel units with the origin at the top-left.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

// Rect is an axis-aligned rectangle defined by its top-left corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt { return Pt{r.X + r.W, r.Y + r.H} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// AspectRatio returns W/H, or 0 for a degenerate rectangle.
func (r Rect) AspectRatio() float64 {
	if r.H == 0 {
		return 0
	}
	return r.W / r.H
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// ScaleFactors holds the per-axis factors of a canvas resize.
type ScaleFactors struct{ X, Y float64 }

// Factors computes the per-axis scale from old to new dimensions.
// Degenerate old axes yield a factor of 1 so a broken document cannot
// produce NaN geometry.
func Factors(oldW, oldH, newW, newH float64) ScaleFactors {
	f := ScaleFactors{X: 1, Y: 1}
	if oldW > 0 {
		f.X = newW / oldW
	}
	if oldH > 0 {
		f.Y = newH / oldH
	}
	return f
}

// Content returns the uniform, non-distorting scale: the smaller of the
// two axis factors.
func (f ScaleFactors) Content() float64 { return math.Min(f.X, f.Y) }

// Apply scales a rect anisotropically: position and width by X, height by Y.
func (f ScaleFactors) Apply(r Rect) Rect {
	return Rect{X: r.X * f.X, Y: r.Y * f.Y, W: r.W * f.X, H: r.H * f.Y}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds v to n decimal places deterministically.
func Round(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
