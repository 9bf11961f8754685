package editor

import (
	"context"
	"errors"

	"studio/internal/domain"
	"studio/internal/layout"
	"studio/internal/notify"
)

// ─────────────────────────────────────────────────────────────
// Session: single-writer editing state around one document
// ─────────────────────────────────────────────────────────────

// Point is a pointer location in screen coordinates.
type Point struct {
	X, Y float64
}

// Rect is the on-screen bounds of the canvas.
type Rect struct {
	Left, Top, Width, Height float64
}

// Session owns the document being edited together with the process-local
// state around it: active page, selection, clipboard, breakpoint, pointer.
// A Session is not safe for concurrent use.
type Session struct {
	doc        domain.Document
	version    uint64
	activePage string
	selected   string
	clipboard  *domain.Block
	breakpoint domain.Breakpoint
	pointer    Point
	canvas     Rect

	history  *History
	notifier notify.Notifier
	newID    IDFunc
}

type Option func(*Session)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

func WithIDFunc(f IDFunc) Option {
	return func(s *Session) { s.newID = f }
}

func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.history = NewHistory(n) }
}

// NewSession starts editing doc on its first page at the desktop breakpoint.
func NewSession(doc domain.Document, opts ...Option) *Session {
	s := &Session{
		notifier:   notify.Discard,
		newID:      NewID,
		history:    NewHistory(DefaultHistoryLimit),
		breakpoint: domain.Desktop,
	}
	for _, o := range opts {
		o(s)
	}
	s.Load(doc)
	return s
}

// Load replaces the edited document and resets selection, clipboard and history.
func (s *Session) Load(doc domain.Document) {
	if doc.Blocks == nil {
		doc.Blocks = map[string][]domain.Block{}
	}
	s.doc = doc
	s.version++
	s.selected = ""
	s.clipboard = nil
	s.activePage = ""
	if len(doc.Pages) > 0 {
		s.activePage = doc.Pages[0].ID
	}
	s.history.Reset()
}

// Document returns the current document value.
func (s *Session) Document() domain.Document { return s.doc }

// Version increases on every change of the document value.
func (s *Session) Version() uint64 { return s.version }

// MarkSaved stores persistence metadata without recording history.
func (s *Session) MarkSaved(doc domain.Document) {
	s.doc.CreatedAt = doc.CreatedAt
	s.doc.UpdatedAt = doc.UpdatedAt
}

func (s *Session) ActivePage() string { return s.activePage }

func (s *Session) SetActivePage(pageID string) error {
	if s.doc.PageIndex(pageID) < 0 {
		return domain.ErrNotFound
	}
	s.activePage = pageID
	return nil
}

func (s *Session) Breakpoint() domain.Breakpoint { return s.breakpoint }

func (s *Session) SetBreakpoint(bp domain.Breakpoint) { s.breakpoint = bp }

func (s *Session) SetPointer(p Point) { s.pointer = p }

func (s *Session) SetCanvas(r Rect) { s.canvas = r }

// Selected returns the currently selected block.
func (s *Session) Selected() (domain.Block, bool) {
	if s.selected == "" {
		return domain.Block{}, false
	}
	b, _, ok := s.doc.FindBlock(s.selected)
	return b, ok
}

// Select marks a block as selected. An unknown id clears the selection.
func (s *Session) Select(blockID string) {
	if _, _, ok := s.doc.FindBlock(blockID); !ok {
		s.selected = ""
		return
	}
	s.selected = blockID
}

func (s *Session) ClearSelection() { s.selected = "" }

// PageState resolves the blocks of a page at the current breakpoint.
func (s *Session) PageState(pageID string) (domain.PageState, bool) {
	idx := s.doc.PageIndex(pageID)
	if idx < 0 {
		return domain.PageState{}, false
	}
	return layout.ResolvePage(s.doc.Pages[idx], s.doc.Blocks[pageID], s.breakpoint), true
}

// ── block store ──

// AddBlock inserts b on pageID at pos and selects it. An empty page id is
// rejected with a warning notice.
func (s *Session) AddBlock(ctx context.Context, b domain.Block, pageID string, pos domain.Position) (domain.Block, error) {
	doc, nb, err := AddBlock(s.doc, b, pageID, pos, s.newID)
	if err != nil {
		if errors.Is(err, domain.ErrNoTargetSelected) {
			s.notify(ctx, notify.Warning, "Select a page before adding a block")
		}
		return domain.Block{}, err
	}
	s.commit(doc)
	s.selected = nb.ID
	return nb, nil
}

// UpdateBlock patches a block at breakpoint bp and returns the merged block.
// Unknown ids are ignored.
func (s *Session) UpdateBlock(blockID string, patch BlockPatch, bp domain.Breakpoint) (domain.Block, bool) {
	doc, b, ok := UpdateBlock(s.doc, blockID, patch, bp)
	if !ok {
		return domain.Block{}, false
	}
	s.commit(doc)
	if patch.Delete {
		if s.selected == blockID {
			s.selected = ""
		}
		return domain.Block{}, true
	}
	s.selected = b.ID
	return b, true
}

// Move repositions a block at the current breakpoint.
func (s *Session) Move(blockID string, pos domain.Position) (domain.Block, error) {
	return s.guarded(blockID, MoveTo(pos), s.breakpoint)
}

// Resize changes a block's size at the current breakpoint.
func (s *Session) Resize(blockID string, size domain.Size) (domain.Block, error) {
	return s.guarded(blockID, ResizeTo(size), s.breakpoint)
}

// EditContent merges content into the block. Content is not breakpoint
// specific and always lands on the base fields.
func (s *Session) EditContent(blockID string, content domain.Content) (domain.Block, error) {
	return s.guarded(blockID, BlockPatch{Content: content}, domain.Desktop)
}

// Patch applies patch at bp the way an editor action would: locked blocks
// refuse position, size and content changes with ErrBlockLocked. found is
// false for an unknown block, which is left as a no-op.
func (s *Session) Patch(blockID string, patch BlockPatch, bp domain.Breakpoint) (b domain.Block, found bool, err error) {
	cur, _, ok := s.doc.FindBlock(blockID)
	if !ok {
		return domain.Block{}, false, nil
	}
	if cur.Locked && patch.editsLockedFields() {
		return cur, true, domain.ErrBlockLocked
	}
	b, _ = s.UpdateBlock(blockID, patch, bp)
	return b, true, nil
}

func (s *Session) guarded(blockID string, patch BlockPatch, bp domain.Breakpoint) (domain.Block, error) {
	b, _, err := s.Patch(blockID, patch, bp)
	return b, err
}

// MoveBlockToPage moves a block to another page and keeps it selected.
func (s *Session) MoveBlockToPage(blockID, pageID string) error {
	doc, err := MoveBlockToPage(s.doc, blockID, pageID)
	if err != nil {
		return err
	}
	s.commit(doc)
	return nil
}

// ── pages ──

// AddPage appends a page and makes it active.
func (s *Session) AddPage() domain.Page {
	doc, p := AddPage(s.doc, s.newID)
	s.commit(doc)
	s.activePage = p.ID
	return p
}

func (s *Session) DuplicatePage(pageID string) (domain.Page, error) {
	doc, p, err := DuplicatePage(s.doc, pageID, s.newID)
	if err != nil {
		return domain.Page{}, err
	}
	s.commit(doc)
	return p, nil
}

// DeletePage removes a page. Deleting the last page raises a warning notice.
// When the active page goes away the first remaining page becomes active.
func (s *Session) DeletePage(ctx context.Context, pageID string) error {
	doc, err := DeletePage(s.doc, pageID)
	if err != nil {
		if errors.Is(err, domain.ErrLastPage) {
			s.notify(ctx, notify.Warning, "A document needs at least one page")
		}
		return err
	}
	if _, pid, ok := s.doc.FindBlock(s.selected); ok && pid == pageID {
		s.selected = ""
	}
	s.commit(doc)
	s.fixActivePage()
	return nil
}

func (s *Session) ReorderPage(from, to int) error {
	doc, err := ReorderPage(s.doc, from, to)
	if err != nil {
		return err
	}
	s.commit(doc)
	return nil
}

func (s *Session) RenamePage(pageID, label string) error {
	doc, err := RenamePage(s.doc, pageID, label)
	if err != nil {
		return err
	}
	s.commit(doc)
	return nil
}

// ── history ──

func (s *Session) Undo() bool {
	doc, ok := s.history.Undo(s.doc)
	if ok {
		s.restore(doc)
	}
	return ok
}

func (s *Session) Redo() bool {
	doc, ok := s.history.Redo(s.doc)
	if ok {
		s.restore(doc)
	}
	return ok
}

// ── internal ──

func (s *Session) commit(doc domain.Document) {
	s.history.Record(s.doc)
	s.doc = doc
	s.version++
}

func (s *Session) restore(doc domain.Document) {
	s.doc = doc
	s.version++
	if _, _, ok := doc.FindBlock(s.selected); !ok {
		s.selected = ""
	}
	s.fixActivePage()
}

func (s *Session) fixActivePage() {
	if s.doc.PageIndex(s.activePage) >= 0 {
		return
	}
	s.activePage = ""
	if len(s.doc.Pages) > 0 {
		s.activePage = s.doc.Pages[0].ID
	}
}

func (s *Session) notify(ctx context.Context, lvl notify.Level, msg string) {
	s.notifier.Notify(ctx, notify.Notice{Level: lvl, Message: msg})
}
