package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"studio/internal/domain"
	"studio/internal/editor"
	"studio/internal/export"
)

var ErrExportRunning = errors.New("an export of this document is already running")

// ExportService runs the export pipeline for hosted sessions, one export per
// document at a time.
type ExportService struct {
	pipeline *export.Pipeline
	docs     *DocumentService
	inflight exportsInFlight
	log      *zap.Logger
}

func NewExportService(p *export.Pipeline, docs *DocumentService, log *zap.Logger) *ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportService{pipeline: p, docs: docs, log: log.Named("export")}
}

// Export renders the hosted document. The session is held for the whole run
// so edits cannot interleave with page capture.
func (s *ExportService) Export(ctx context.Context, host *EditorHost) (export.Result, error) {
	docID := host.DocumentID()
	release, ok := s.inflight.Begin(docID)
	if !ok {
		return export.Result{}, ErrExportRunning
	}
	defer release()

	var res export.Result
	err := host.Do(func(sess *editor.Session) error {
		var err error
		res, err = s.pipeline.Run(ctx, sess.Document(), sess)
		return err
	})
	if err != nil {
		return export.Result{}, err
	}
	if started, ok := s.inflight.Exporting(docID); ok {
		s.log.Debug("Export finished", zap.String("document", docID), zap.Duration("elapsed", time.Since(started)))
	}

	if s.docs != nil {
		if err := s.docs.RecordExport(ctx, docID, res.Path); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return res, fmt.Errorf("record export: %w", err)
			}
			s.log.Debug("Export of unsaved document not recorded", zap.String("document", docID))
		}
	}
	return res, nil
}

// Running reports whether docID is being exported.
func (s *ExportService) Running(docID string) bool {
	_, ok := s.inflight.Exporting(docID)
	return ok
}

// InFlight lists the documents being exported.
func (s *ExportService) InFlight() []string {
	return s.inflight.Documents()
}

// Wait blocks until running exports finish. It returns ctx's error when ctx
// ends first.
func (s *ExportService) Wait(ctx context.Context) error {
	return s.inflight.Wait(ctx)
}
