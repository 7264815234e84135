/*
 * Copyright (c) 2025 by the CanvasStudio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package canvas

// This file defines the template document model: canvas dimensions plus a
// flat, ordered collection of typed elements. Templates serialize to a
// human-readable JSON document; every field is a primitive, string, number,
// boolean, or an array/map thereof, so the model doubles as the
// persistence and wire schema.

// ElementType discriminates the element variants.
type ElementType string

const (
	ElementText      ElementType = "text"
	ElementImage     ElementType = "image"
	ElementVideo     ElementType = "video"
	ElementShape     ElementType = "shape"
	ElementAudio     ElementType = "audio"
	ElementWatermark ElementType = "watermark"
)

// TemplateType distinguishes static designs from animated ones.
type TemplateType string

const (
	TemplateStatic   TemplateType = "static"
	TemplateAnimated TemplateType = "animated"
)

// AppType names the editor surface a template belongs to.
type AppType string

const (
	AppQuote AppType = "quote"
	AppMeme  AppType = "meme"
	AppReel  AppType = "reel"
)

// WatermarkName is the fixed display name of watermark elements.
const WatermarkName = "Watermark"

// Dimensions describes the canvas extent in pixels, origin top-left.
type Dimensions struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation,omitempty"` // degrees
}

// ShapeProps carries the styling payload of shape elements.
type ShapeProps struct {
	ShapeType    string  `json:"shapeType"`
	FillColor    string  `json:"fillColor,omitempty"`
	StrokeColor  string  `json:"strokeColor,omitempty"`
	StrokeWidth  float64 `json:"strokeWidth,omitempty"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`
}

// Element is one visual item on the canvas. The struct is a flat record
// over all variants; the Type tag decides which payload fields are
// meaningful. Position and extent are canvas pixel units and must stay
// non-negative; Opacity is a fraction in [0,1]; Rotation is degrees and
// deliberately unclamped.
//
// Locked is a hint consumed by the input layer: locked elements are exempt
// from user-initiated moves and deletes, but the engine itself still allows
// programmatic mutation.
type Element struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     ElementType `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation"`
	Opacity  float64     `json:"opacity"`
	Locked   bool        `json:"locked"`
	ZIndex   int         `json:"zIndex"`

	// Text and watermark payload.
	Content        string  `json:"content,omitempty"`
	FontFamily     string  `json:"fontFamily,omitempty"`
	FontSize       float64 `json:"fontSize,omitempty"`
	FontWeight     string  `json:"fontWeight,omitempty"`
	FontStyle      string  `json:"fontStyle,omitempty"`
	Color          string  `json:"color,omitempty"`
	TextAlign      string  `json:"textAlign,omitempty"`
	LineHeight     float64 `json:"lineHeight,omitempty"`    // unitless multiplier, [0.8, 3]
	LetterSpacing  float64 `json:"letterSpacing,omitempty"` // px, [-2, 10]
	TextTransform  string  `json:"textTransform,omitempty"`
	TextDecoration string  `json:"textDecoration,omitempty"` // space-joined flags or "none"
	TextShadow     string  `json:"textShadow,omitempty"`

	// Image, video and audio payload.
	Src       string  `json:"src,omitempty"`
	ObjectFit string  `json:"objectFit,omitempty"` // cover|contain|fill|none|scale-down
	StartTime float64 `json:"startTime,omitempty"`
	EndTime   float64 `json:"endTime,omitempty"`
	Volume    float64 `json:"volume,omitempty"` // [0,1]
	Autoplay  bool    `json:"autoplay,omitempty"`
	Loop      bool    `json:"loop,omitempty"`
	Controls  bool    `json:"controls,omitempty"`
	Muted     bool    `json:"muted,omitempty"`

	// Shape payload.
	Shape *ShapeProps `json:"props,omitempty"`

	// Extra holds forward-compatible fields the engine passes through
	// verbatim without interpreting them.
	Extra map[string]any `json:"extra,omitempty"`
}

// IsTextual reports whether the element carries font metrics.
func (e *Element) IsTextual() bool {
	return e.Type == ElementText || e.Type == ElementWatermark
}

// IsMedia reports whether the element references visual media content.
func (e *Element) IsMedia() bool {
	return e.Type == ElementImage || e.Type == ElementVideo
}

// KeepsAspect reports whether the element's object-fit policy preserves
// the intrinsic aspect ratio of its content.
func (e *Element) KeepsAspect() bool {
	return e.IsMedia() && (e.ObjectFit == "contain" || e.ObjectFit == "scale-down")
}

// SupportedFeatures declares capability flags consumed by external
// validators and the UI; the engine itself does not enforce the counts.
type SupportedFeatures struct {
	SupportsText    bool `json:"supportsText"`
	SupportsImages  bool `json:"supportsImages"`
	SupportsVideos  bool `json:"supportsVideos"`
	MaxTextElements int  `json:"maxTextElements,omitempty"`
}

// Template is a saved design document: canvas dimensions plus an ordered
// element collection. Element IDs are unique within a template and never
// reused after deletion. Elements draw in ascending zIndex order, ties
// broken by slice order.
type Template struct {
	ID                    string            `json:"id"`
	Name                  string            `json:"name"`
	Type                  TemplateType      `json:"type"`
	AppType               AppType           `json:"appType"`
	Category              string            `json:"category,omitempty"`
	AspectRatio           string            `json:"aspectRatio,omitempty"`
	CanvasDimensions      Dimensions        `json:"canvasDimensions"`
	CanvasBackgroundColor string            `json:"canvasBackgroundColor,omitempty"`
	Elements              []Element         `json:"elements"`
	Tags                  []string          `json:"tags,omitempty"`
	PreviewImageURL       string            `json:"previewImageUrl,omitempty"`
	CreatedBy             string            `json:"createdBy,omitempty"`
	Version               int               `json:"version"`
	SupportedFeatures     SupportedFeatures `json:"supportedFeatures"`
}

// FindElement returns a pointer to the element with the given id, or nil.
// The pointer aliases the template's own slice; callers that hand the
// element outward must clone it first.
func (t *Template) FindElement(id string) *Element {
	for i := range t.Elements {
		if t.Elements[i].ID == id {
			return &t.Elements[i]
		}
	}
	return nil
}
