package editor

import (
	"fmt"
	"strconv"

	"studio/internal/domain"
)

// AddPage appends an empty page labelled "Page N".
func AddPage(doc domain.Document, newID IDFunc) (domain.Document, domain.Page) {
	p := domain.Page{ID: newID(), Label: "Page " + strconv.Itoa(len(doc.Pages)+1)}
	out := withBlocks(doc)
	out.Pages = append(out.Pages, p)
	out.Blocks[p.ID] = []domain.Block{}
	return out, p
}

// DuplicatePage inserts a copy of the page right after it. Every block on the
// copy gets a fresh identity; geometry, style and content are kept.
func DuplicatePage(doc domain.Document, pageID string, newID IDFunc) (domain.Document, domain.Page, error) {
	idx := doc.PageIndex(pageID)
	if idx < 0 {
		return doc, domain.Page{}, fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}

	src := doc.Pages[idx]
	p := domain.Page{ID: newID(), Label: src.Label}

	blocks := make([]domain.Block, len(doc.Blocks[pageID]))
	for i, b := range doc.Blocks[pageID] {
		nb := b.Clone()
		nb.ID = newID()
		blocks[i] = nb
	}

	out := withBlocks(doc)
	pages := make([]domain.Page, 0, len(doc.Pages)+1)
	pages = append(pages, doc.Pages[:idx+1]...)
	pages = append(pages, p)
	pages = append(pages, doc.Pages[idx+1:]...)
	out.Pages = pages
	out.Blocks[p.ID] = blocks
	return out, p, nil
}

// DeletePage removes a page and its blocks. The last remaining page cannot be
// deleted.
func DeletePage(doc domain.Document, pageID string) (domain.Document, error) {
	idx := doc.PageIndex(pageID)
	if idx < 0 {
		return doc, fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}
	if len(doc.Pages) <= 1 {
		return doc, domain.ErrLastPage
	}

	out := withBlocks(doc)
	pages := make([]domain.Page, 0, len(doc.Pages)-1)
	pages = append(pages, doc.Pages[:idx]...)
	pages = append(pages, doc.Pages[idx+1:]...)
	out.Pages = pages
	delete(out.Blocks, pageID)
	return out, nil
}

// ReorderPage moves the page at index from to index to. Other pages keep
// their relative order.
func ReorderPage(doc domain.Document, from, to int) (domain.Document, error) {
	n := len(doc.Pages)
	if from < 0 || from >= n || to < 0 || to >= n {
		return doc, fmt.Errorf("%w: %d -> %d of %d", domain.ErrPageIndex, from, to, n)
	}
	if from == to {
		return doc, nil
	}

	moved := doc.Pages[from]
	rest := make([]domain.Page, 0, n)
	rest = append(rest, doc.Pages[:from]...)
	rest = append(rest, doc.Pages[from+1:]...)

	pages := make([]domain.Page, 0, n)
	pages = append(pages, rest[:to]...)
	pages = append(pages, moved)
	pages = append(pages, rest[to:]...)

	out := withBlocks(doc)
	out.Pages = pages
	return out, nil
}

func RenamePage(doc domain.Document, pageID, label string) (domain.Document, error) {
	idx := doc.PageIndex(pageID)
	if idx < 0 {
		return doc, fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}
	out := withBlocks(doc)
	out.Pages[idx].Label = label
	return out, nil
}
