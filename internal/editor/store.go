package editor

import (
	"fmt"

	"github.com/google/uuid"

	"studio/internal/domain"
)

// IDFunc produces fresh identities for blocks and pages.
type IDFunc func() string

// NewID is the default IDFunc.
func NewID() string { return uuid.NewString() }

// AddBlock appends a copy of b to pageID at pos. The stored block gets a
// fresh identity, the default size for its type where none was given and
// an override slot for every breakpoint. Overrides already on b are kept.
// The input document is not modified.
func AddBlock(doc domain.Document, b domain.Block, pageID string, pos domain.Position, newID IDFunc) (domain.Document, domain.Block, error) {
	if pageID == "" {
		return doc, domain.Block{}, domain.ErrNoTargetSelected
	}
	if doc.PageIndex(pageID) < 0 {
		return doc, domain.Block{}, fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}
	if !b.Type.Valid() {
		return doc, domain.Block{}, fmt.Errorf("%w: %q", domain.ErrInvalidBlockType, b.Type)
	}

	nb, err := normalizeSize(b.Clone())
	if err != nil {
		return doc, domain.Block{}, err
	}
	nb.ID = newID()
	nb.Position = pos
	overrides := make(map[domain.Breakpoint]domain.Override, 3)
	for _, bp := range []domain.Breakpoint{domain.Desktop, domain.Tablet, domain.Mobile} {
		overrides[bp] = nb.Overrides[bp]
	}
	nb.Overrides = overrides

	out := withBlocks(doc)
	list := make([]domain.Block, 0, len(doc.Blocks[pageID])+1)
	list = append(list, doc.Blocks[pageID]...)
	out.Blocks[pageID] = append(list, nb)
	return out, nb.Clone(), nil
}

// UpdateBlock applies patch to the block with the given id, writing to the
// base fields for the desktop breakpoint and to the breakpoint's override
// record otherwise. The returned block is the freshly merged value. A missing
// block is a no-op reported through ok.
func UpdateBlock(doc domain.Document, blockID string, patch BlockPatch, bp domain.Breakpoint) (out domain.Document, b domain.Block, ok bool) {
	pageID, idx := locate(doc, blockID)
	if idx < 0 {
		return doc, domain.Block{}, false
	}
	if patch.Delete {
		return removeAt(doc, pageID, idx), domain.Block{}, true
	}

	cur := doc.Blocks[pageID][idx]
	var next domain.Block
	if bp.IsBase() {
		next = applyBase(cur, patch)
	} else {
		if !bp.Valid() {
			return doc, domain.Block{}, false
		}
		next = applyOverride(cur, patch, bp)
	}

	out = withBlocks(doc)
	list := append([]domain.Block(nil), doc.Blocks[pageID]...)
	list[idx] = next
	out.Blocks[pageID] = list
	return out, next.Clone(), true
}

// RemoveBlock deletes a block from whichever page holds it.
func RemoveBlock(doc domain.Document, blockID string) (domain.Document, bool) {
	out, _, ok := UpdateBlock(doc, blockID, DeletePatch, domain.Desktop)
	return out, ok
}

// MoveBlockToPage moves a block to another page, keeping its identity.
func MoveBlockToPage(doc domain.Document, blockID, pageID string) (domain.Document, error) {
	from, idx := locate(doc, blockID)
	if idx < 0 {
		return doc, fmt.Errorf("block %s: %w", blockID, domain.ErrNotFound)
	}
	if doc.PageIndex(pageID) < 0 {
		return doc, fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}
	if from == pageID {
		return doc, nil
	}
	b := doc.Blocks[from][idx].Clone()
	out := removeAt(doc, from, idx)
	list := append([]domain.Block(nil), out.Blocks[pageID]...)
	out.Blocks[pageID] = append(list, b)
	return out, nil
}

// ── internal ──

func locate(doc domain.Document, blockID string) (string, int) {
	if blockID == "" {
		return "", -1
	}
	for _, p := range doc.Pages {
		for i, b := range doc.Blocks[p.ID] {
			if b.ID == blockID {
				return p.ID, i
			}
		}
	}
	return "", -1
}

func removeAt(doc domain.Document, pageID string, idx int) domain.Document {
	out := withBlocks(doc)
	src := doc.Blocks[pageID]
	list := make([]domain.Block, 0, len(src)-1)
	list = append(list, src[:idx]...)
	list = append(list, src[idx+1:]...)
	out.Blocks[pageID] = list
	return out
}

// withBlocks returns a shallow copy of doc with its own page and block maps.
func withBlocks(doc domain.Document) domain.Document {
	out := doc
	out.Pages = append([]domain.Page(nil), doc.Pages...)
	out.Blocks = make(map[string][]domain.Block, len(doc.Blocks)+1)
	for k, v := range doc.Blocks {
		out.Blocks[k] = v
	}
	return out
}
