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

// Clone returns a deep copy of the element with no shared mutable
// substructure. The edit engine relies on this for its copy-in/copy-out
// ownership discipline.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := *e
	if e.Shape != nil {
		sp := *e.Shape
		c.Shape = &sp
	}
	if e.Extra != nil {
		c.Extra = cloneValueMap(e.Extra)
	}
	return &c
}

// Clone returns a deep copy of the template. Mutating the copy can never
// be observed through the original, and vice versa.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	c := *t
	if t.Elements != nil {
		c.Elements = make([]Element, len(t.Elements))
		for i := range t.Elements {
			c.Elements[i] = *t.Elements[i].Clone()
		}
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return &c
}

// cloneValueMap deep-copies a JSON-object-tree shaped map. Values are
// primitives, []any, or map[string]any; anything else is copied by value.
func cloneValueMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneValueMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return tv
	}
}
