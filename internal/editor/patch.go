package editor

import (
	"studio/internal/domain"
	"studio/internal/layout"
)

// PositionPatch changes one or both axes of a position.
type PositionPatch struct {
	X *domain.Fraction `json:"x,omitempty"`
	Y *domain.Fraction `json:"y,omitempty"`
}

// SizePatch changes one or both dimensions of a size.
type SizePatch struct {
	Width  *domain.Length `json:"width,omitempty"`
	Height *domain.Length `json:"height,omitempty"`
}

// BlockPatch is a partial block update. Maps merge key by key, nil fields are
// left alone. A patch with Delete set removes the block instead.
type BlockPatch struct {
	Delete   bool           `json:"delete,omitempty"`
	Content  domain.Content `json:"content,omitempty"`
	Position *PositionPatch `json:"position,omitempty"`
	Size     *SizePatch     `json:"size,omitempty"`
	Style    domain.Style   `json:"style,omitempty"`
	Visible  *bool          `json:"visible,omitempty"`
	Locked   *bool          `json:"locked,omitempty"`
}

// DeletePatch removes the targeted block.
var DeletePatch = BlockPatch{Delete: true}

// editsLockedFields reports whether the patch touches what a lock protects.
// Deletion, lock toggling, style and visibility stay allowed.
func (p BlockPatch) editsLockedFields() bool {
	return !p.Delete && (p.Position != nil || p.Size != nil || p.Content != nil)
}

// MoveTo builds a patch setting both position axes.
func MoveTo(p domain.Position) BlockPatch {
	x, y := p.X, p.Y
	return BlockPatch{Position: &PositionPatch{X: &x, Y: &y}}
}

// ResizeTo builds a patch setting both dimensions.
func ResizeTo(s domain.Size) BlockPatch {
	w, h := s.Width, s.Height
	return BlockPatch{Size: &SizePatch{Width: &w, Height: &h}}
}

func (p *PositionPatch) apply(cur domain.Position) domain.Position {
	if p.X != nil {
		cur.X = *p.X
	}
	if p.Y != nil {
		cur.Y = *p.Y
	}
	return cur
}

func (p *SizePatch) apply(cur domain.Size) domain.Size {
	if p.Width != nil {
		cur.Width = *p.Width
	}
	if p.Height != nil {
		cur.Height = *p.Height
	}
	return cur
}

// applyBase deep-merges p onto the base fields of b.
func applyBase(b domain.Block, p BlockPatch) domain.Block {
	out := b.Clone()
	if p.Content != nil {
		out.Content = domain.Content(domain.MergeMaps(out.Content, p.Content))
	}
	if p.Position != nil {
		out.Position = p.Position.apply(out.Position)
	}
	if p.Size != nil {
		out.Size = p.Size.apply(out.Size)
	}
	if p.Style != nil {
		out.Style = domain.Style(domain.MergeMaps(out.Style, p.Style))
	}
	if p.Visible != nil {
		out.Visible = domain.Bool(*p.Visible)
	}
	if p.Locked != nil {
		out.Locked = *p.Locked
	}
	return out
}

// applyOverride deep-merges the layout parts of p into the override record
// for bp. Base fields and other breakpoints are left untouched. A partial
// position or size is completed from the currently effective value so that
// the stored override is always whole.
func applyOverride(b domain.Block, p BlockPatch, bp domain.Breakpoint) domain.Block {
	out := b.Clone()
	eff := layout.Resolve(b, bp)
	o := out.Overrides[bp]

	if p.Position != nil {
		np := p.Position.apply(eff.Position)
		o.Position = &np
	}
	if p.Size != nil {
		ns := p.Size.apply(eff.Size)
		o.Size = &ns
	}
	if p.Style != nil {
		o.Style = domain.Style(domain.MergeMaps(o.Style, p.Style))
	}
	if p.Visible != nil {
		o.Visible = domain.Bool(*p.Visible)
	}

	if out.Overrides == nil {
		out.Overrides = make(map[domain.Breakpoint]domain.Override, len(domain.OverrideBreakpoints))
	}
	out.Overrides[bp] = o
	return out
}
