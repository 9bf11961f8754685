package service

import (
	"context"
	"sync"
	"sync/atomic"

	"studio/internal/domain"
	"studio/internal/editor"
)

// EditorHost owns one editing session and serializes access to it, so the
// MCP transport, autosave and export can share it from different goroutines.
type EditorHost struct {
	mu           sync.Mutex
	session      *editor.Session
	docs         *DocumentService
	savedVersion uint64
	docID        atomic.Value // string, readable while the session is busy
}

// NewEditorHost wraps s. The session's current document counts as saved.
func NewEditorHost(s *editor.Session, docs *DocumentService) *EditorHost {
	h := &EditorHost{session: s, docs: docs, savedVersion: s.Version()}
	h.docID.Store(s.Document().ID)
	return h
}

// Do runs fn with exclusive access to the session.
func (h *EditorHost) Do(fn func(s *editor.Session) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	defer func() { h.docID.Store(h.session.Document().ID) }()
	return fn(h.session)
}

// Snapshot returns the current document value.
func (h *EditorHost) Snapshot() domain.Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Document()
}

// DocumentID does not wait for a running Do.
func (h *EditorHost) DocumentID() string {
	id, _ := h.docID.Load().(string)
	return id
}

// Dirty reports whether the document changed since the last save.
func (h *EditorHost) Dirty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Version() != h.savedVersion
}

// Open loads a stored document into the session.
func (h *EditorHost) Open(id string) error {
	doc, err := h.docs.Load(id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.Load(*doc)
	h.savedVersion = h.session.Version()
	h.docID.Store(doc.ID)
	return nil
}

// Save persists the current document.
func (h *EditorHost) Save(ctx context.Context, label string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc := h.session.Document()
	if err := h.docs.Save(ctx, &doc, label); err != nil {
		return err
	}
	h.session.MarkSaved(doc)
	h.savedVersion = h.session.Version()
	return nil
}
