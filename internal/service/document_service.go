package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"studio/internal/domain"
	"studio/internal/editor"
	"studio/internal/storage"
)

// DocumentService handles document lifecycle: creation, persistence and
// revision snapshots.
type DocumentService struct {
	docs      *storage.DocumentStore
	revisions *storage.RevisionStore
	templates domain.TemplateSource
	emitter   EventEmitter
	log       *zap.Logger
	newID     editor.IDFunc
}

func NewDocumentService(docs *storage.DocumentStore, revisions *storage.RevisionStore, templates domain.TemplateSource, emitter EventEmitter, log *zap.Logger) *DocumentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DocumentService{
		docs:      docs,
		revisions: revisions,
		templates: templates,
		emitter:   emitter,
		log:       log.Named("documents"),
		newID:     editor.NewID,
	}
}

// Create stores a new document with a single empty page.
func (s *DocumentService) Create(ctx context.Context, name, clientID string) (*domain.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled"
	}
	page := domain.Page{ID: s.newID(), Label: "Page 1"}
	doc := &domain.Document{
		ID:       s.newID(),
		Name:     name,
		Pages:    []domain.Page{page},
		Blocks:   map[string][]domain.Block{page.ID: {}},
		ClientID: clientID,
	}
	if err := s.Save(ctx, doc, "Created"); err != nil {
		return nil, err
	}
	return doc, nil
}

// CreateFromTemplate copies a template into a new document. Pages and blocks
// get fresh identities so the template itself is never edited.
func (s *DocumentService) CreateFromTemplate(ctx context.Context, templateID, name string) (*domain.Document, error) {
	tpl, err := s.templates.GetTemplate(templateID)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}

	src := tpl.Document.Clone()
	doc := &domain.Document{
		ID:         s.newID(),
		Name:       strings.TrimSpace(name),
		Theme:      src.Theme,
		TemplateID: tpl.ID,
		Blocks:     make(map[string][]domain.Block, len(src.Pages)),
	}
	if doc.Name == "" {
		doc.Name = tpl.Name
	}
	for _, p := range src.Pages {
		np := domain.Page{ID: s.newID(), Label: p.Label}
		blocks := make([]domain.Block, 0, len(src.Blocks[p.ID]))
		for _, b := range src.Blocks[p.ID] {
			b.ID = s.newID()
			blocks = append(blocks, b)
		}
		doc.Pages = append(doc.Pages, np)
		doc.Blocks[np.ID] = blocks
	}
	if len(doc.Pages) == 0 {
		np := domain.Page{ID: s.newID(), Label: "Page 1"}
		doc.Pages = []domain.Page{np}
		doc.Blocks[np.ID] = []domain.Block{}
	}

	if err := s.Save(ctx, doc, "Created from "+tpl.Name); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) Load(id string) (*domain.Document, error) {
	return s.docs.GetDocument(id)
}

func (s *DocumentService) List() ([]domain.DocumentSummary, error) {
	return s.docs.ListDocuments()
}

// Save persists doc and records a revision snapshot labelled label.
// Timestamps on doc are updated in place.
func (s *DocumentService) Save(ctx context.Context, doc *domain.Document, label string) error {
	if err := s.docs.SaveDocument(doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	rev, err := s.revisions.Push(*doc, label)
	if err != nil {
		return fmt.Errorf("push revision: %w", err)
	}
	s.log.Debug("Document saved", zap.String("id", doc.ID), zap.String("revision", rev.ID), zap.String("label", label))
	s.emitter.Emit(ctx, EventDocumentSaved, map[string]string{"documentId": doc.ID, "revisionId": rev.ID})
	return nil
}

func (s *DocumentService) Delete(id string) error {
	return s.docs.DeleteDocument(id)
}

func (s *DocumentService) Revisions(id string) ([]storage.Revision, error) {
	return s.revisions.List(id)
}

// Restore writes a revision back as the stored document and moves the
// revision pointer to it. No new revision is recorded.
func (s *DocumentService) Restore(ctx context.Context, docID, revisionID string) (*domain.Document, error) {
	rev, err := s.revisions.Get(revisionID)
	if err != nil {
		return nil, err
	}
	if rev.DocumentID != docID {
		return nil, fmt.Errorf("revision %s of document %s: %w", revisionID, docID, domain.ErrNotFound)
	}
	doc, err := rev.Document()
	if err != nil {
		return nil, err
	}
	if err := s.docs.SaveDocument(&doc); err != nil {
		return nil, fmt.Errorf("restore document: %w", err)
	}
	if err := s.revisions.GoTo(docID, revisionID); err != nil {
		return nil, fmt.Errorf("move revision pointer: %w", err)
	}
	s.emitter.Emit(ctx, EventDocumentSaved, map[string]string{"documentId": docID, "revisionId": revisionID})
	return &doc, nil
}

// RecordExport remembers where the latest artifact of a document went.
func (s *DocumentService) RecordExport(ctx context.Context, docID, path string) error {
	if err := s.docs.RecordExport(docID, path); err != nil {
		return err
	}
	s.emitter.Emit(ctx, EventDocumentExported, map[string]string{"documentId": docID, "path": path})
	return nil
}
