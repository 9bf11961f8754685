package domain

import (
	"fmt"
	"math"
	"strconv"
)

type BlockType string

const (
	BlockTypeText          BlockType = "text"
	BlockTypeImage         BlockType = "image"
	BlockTypePackageList   BlockType = "package-list"
	BlockTypeEmbeddedAsset BlockType = "embedded-asset"
)

// BlockTypes lists every supported block type.
var BlockTypes = []BlockType{
	BlockTypeText,
	BlockTypeImage,
	BlockTypePackageList,
	BlockTypeEmbeddedAsset,
}

func (t BlockType) Valid() bool {
	switch t {
	case BlockTypeText, BlockTypeImage, BlockTypePackageList, BlockTypeEmbeddedAsset:
		return true
	}
	return false
}

// ParseBlockType validates a block type tag.
func ParseBlockType(s string) (BlockType, error) {
	t := BlockType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown block type %q", s)
	}
	return t, nil
}

// Breakpoint is a responsive viewport class. Desktop carries the base layout.
type Breakpoint string

const (
	Desktop Breakpoint = "desktop"
	Tablet  Breakpoint = "tablet"
	Mobile  Breakpoint = "mobile"
)

// OverrideBreakpoints are the breakpoints that store sparse overrides.
var OverrideBreakpoints = []Breakpoint{Tablet, Mobile}

func (b Breakpoint) IsBase() bool { return b == Desktop || b == "" }

func (b Breakpoint) Valid() bool {
	switch b {
	case Desktop, Tablet, Mobile:
		return true
	}
	return false
}

// ParseBreakpoint validates a breakpoint name. Empty means desktop.
func ParseBreakpoint(s string) (Breakpoint, error) {
	if s == "" {
		return Desktop, nil
	}
	b := Breakpoint(s)
	if !b.Valid() {
		return "", fmt.Errorf("unknown breakpoint %q", s)
	}
	return b, nil
}

// Content is the opaque, type-specific payload of a block.
type Content map[string]any

func (c Content) Clone() Content {
	if c == nil {
		return nil
	}
	return Content(cloneMap(c))
}

// StringAt returns the string value stored at key, or "".
func (c Content) StringAt(key string) string {
	s, _ := c[key].(string)
	return s
}

// Style is the opaque style bag (colors, borders, z-index...).
type Style map[string]any

const ZIndexKey = "zIndex"

func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	return Style(cloneMap(s))
}

// ZIndex reads the stacking order; missing or malformed values count as 0.
func (s Style) ZIndex() int {
	switch v := s[ZIndexKey].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(math.Round(v))
	case string:
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return 0
}

// WithZIndex returns a copy of s with the z-index set.
func (s Style) WithZIndex(z int) Style {
	out := s.Clone()
	if out == nil {
		out = Style{}
	}
	out[ZIndexKey] = z
	return out
}

// Override is a sparse per-breakpoint layout override. Nil fields fall back to base.
type Override struct {
	Position *Position `json:"position,omitempty" yaml:"position,omitempty"`
	Size     *Size     `json:"size,omitempty" yaml:"size,omitempty"`
	Style    Style     `json:"style,omitempty" yaml:"style,omitempty"`
	Visible  *bool     `json:"visible,omitempty" yaml:"visible,omitempty"`
}

func (o Override) Clone() Override {
	out := Override{Style: o.Style.Clone()}
	if o.Position != nil {
		p := *o.Position
		out.Position = &p
	}
	if o.Size != nil {
		s := *o.Size
		out.Size = &s
	}
	if o.Visible != nil {
		v := *o.Visible
		out.Visible = &v
	}
	return out
}

func (o Override) IsEmpty() bool {
	return o.Position == nil && o.Size == nil && len(o.Style) == 0 && o.Visible == nil
}

// Block is the atomic placeable unit of a page.
type Block struct {
	ID        string                  `json:"id" yaml:"id"`
	Type      BlockType               `json:"type" yaml:"type"`
	Content   Content                 `json:"content" yaml:"content"`
	Position  Position                `json:"position" yaml:"position"`
	Size      Size                    `json:"size" yaml:"size"`
	Style     Style                   `json:"style" yaml:"style"`
	Visible   *bool                   `json:"visible,omitempty" yaml:"visible,omitempty"`
	Locked    bool                    `json:"locked" yaml:"locked"`
	Overrides map[Breakpoint]Override `json:"overrides" yaml:"overrides"`
}

// IsVisible reports the base visibility; unset means visible.
func (b Block) IsVisible() bool {
	return b.Visible == nil || *b.Visible
}

// Clone returns a deep copy sharing no mutable state with b.
func (b Block) Clone() Block {
	out := b
	out.Content = b.Content.Clone()
	out.Style = b.Style.Clone()
	if b.Visible != nil {
		v := *b.Visible
		out.Visible = &v
	}
	if b.Overrides != nil {
		out.Overrides = make(map[Breakpoint]Override, len(b.Overrides))
		for k, o := range b.Overrides {
			out.Overrides[k] = o.Clone()
		}
	}
	return out
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Content:
		return Content(cloneMap(t))
	case Style:
		return Style(cloneMap(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// MergeMaps deep-merges patch onto base and returns a new map.
// Nested maps merge key by key, every other value is replaced.
func MergeMaps(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = cloneValue(v)
	}
	for k, pv := range patch {
		pm, pIsMap := asMap(pv)
		bm, bIsMap := asMap(out[k])
		if pIsMap && bIsMap {
			out[k] = MergeMaps(bm, pm)
			continue
		}
		out[k] = cloneValue(pv)
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Content:
		return map[string]any(t), true
	case Style:
		return map[string]any(t), true
	}
	return nil, false
}
