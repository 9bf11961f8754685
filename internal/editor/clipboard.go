package editor

import (
	"context"

	"studio/internal/domain"
	"studio/internal/notify"
)

// DuplicateOffset is how far a duplicate is shifted from its source on both axes.
const DuplicateOffset = domain.Fraction(0.02)

// Copy snapshots the block into the clipboard, without its identity.
func (s *Session) Copy(ctx context.Context, blockID string) bool {
	if !s.snapshot(blockID) {
		return false
	}
	s.notify(ctx, notify.Info, "Block copied")
	return true
}

// Clipboard returns the clipboard payload, if any.
func (s *Session) Clipboard() (domain.Block, bool) {
	if s.clipboard == nil {
		return domain.Block{}, false
	}
	return s.clipboard.Clone(), true
}

// Paste inserts the clipboard payload on the active page at the last pointer
// location. An empty clipboard is a no-op.
func (s *Session) Paste(ctx context.Context) (domain.Block, bool, error) {
	if s.clipboard == nil {
		return domain.Block{}, false, nil
	}
	pos := s.pointerPosition()
	b, err := s.AddBlock(ctx, placeCopy(s.clipboard.Clone(), pos), s.activePage, pos)
	if err != nil {
		return domain.Block{}, false, err
	}
	return b, true, nil
}

// Duplicate copies a block and pastes it on the same page, shifted by
// DuplicateOffset from the source's base position.
func (s *Session) Duplicate(ctx context.Context, blockID string) (domain.Block, bool, error) {
	src, pageID, ok := s.doc.FindBlock(blockID)
	if !ok {
		return domain.Block{}, false, nil
	}
	s.snapshot(blockID)
	pos := src.Position.Offset(DuplicateOffset, DuplicateOffset)
	pos = domain.Position{X: pos.X.Clamp(0, 1), Y: pos.Y.Clamp(0, 1)}

	b, err := s.AddBlock(ctx, placeCopy(s.clipboard.Clone(), pos), pageID, pos)
	if err != nil {
		return domain.Block{}, false, err
	}
	return b, true, nil
}

func (s *Session) snapshot(blockID string) bool {
	b, _, ok := s.doc.FindBlock(blockID)
	if !ok {
		return false
	}
	c := b.Clone()
	c.ID = ""
	s.clipboard = &c
	return true
}

// placeCopy moves a copy's base position to pos and shifts its override
// positions by the same delta, so tablet and mobile layouts travel with it.
func placeCopy(b domain.Block, pos domain.Position) domain.Block {
	dx, dy := pos.X-b.Position.X, pos.Y-b.Position.Y
	for bp, o := range b.Overrides {
		if o.Position == nil {
			continue
		}
		p := o.Position.Offset(dx, dy)
		o.Position = &domain.Position{X: p.X.Clamp(0, 1), Y: p.Y.Clamp(0, 1)}
		b.Overrides[bp] = o
	}
	b.Position = pos
	return b
}

// pointerPosition maps the last pointer location onto the canvas as fractions.
func (s *Session) pointerPosition() domain.Position {
	x := domain.FractionOf(s.pointer.X-s.canvas.Left, s.canvas.Width)
	y := domain.FractionOf(s.pointer.Y-s.canvas.Top, s.canvas.Height)
	return domain.Position{X: x.Clamp(0, 1), Y: y.Clamp(0, 1)}
}
