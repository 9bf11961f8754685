// Package layout resolves breakpoint-aware block geometry and derives
// read-only canvas aids (rulers, auto placement).
package layout

import "studio/internal/domain"

// Resolve computes the effective geometry of b at breakpoint bp.
//
// Position and size overrides replace the base value wholesale; style
// overrides merge key by key onto the base style. Missing overrides fall
// back to base, never to another breakpoint.
func Resolve(b domain.Block, bp domain.Breakpoint) domain.Effective {
	eff := domain.Effective{
		Position: b.Position,
		Size:     b.Size,
		Style:    b.Style.Clone(),
		Visible:  b.IsVisible(),
	}
	if eff.Style == nil {
		eff.Style = domain.Style{}
	}
	if bp.IsBase() {
		return eff
	}

	o := b.Overrides[bp]
	if o.Position != nil {
		eff.Position = *o.Position
	}
	if o.Size != nil {
		eff.Size = *o.Size
	}
	for k, v := range o.Style {
		eff.Style[k] = v
	}
	if o.Visible != nil {
		eff.Visible = *o.Visible
	}
	return eff
}

// ResolvePage resolves every block of a page, preserving list order.
func ResolvePage(page domain.Page, blocks []domain.Block, bp domain.Breakpoint) domain.PageState {
	state := domain.PageState{
		Page:       page,
		Breakpoint: bp,
		Blocks:     make([]domain.ResolvedBlock, len(blocks)),
	}
	for i, b := range blocks {
		state.Blocks[i] = domain.ResolvedBlock{Block: b, Effective: Resolve(b, bp), At: bp}
	}
	return state
}
