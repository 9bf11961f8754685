package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"studio/internal/config"
	"studio/internal/domain"
	"studio/internal/editor"
	"studio/internal/export"
	"studio/internal/notify"
	"studio/internal/service"
	"studio/internal/storage"
)

// App wires storage, services and the export pipeline for one process.
type App struct {
	cfg *config.Config
	log *zap.Logger

	db        *storage.DB
	templates *storage.TemplateStore

	// Events fans service events out; transports add themselves on start.
	Events *service.Emitters
	// Notices collects user-facing notices for transports that hand them
	// back to the caller.
	Notices *notify.Recorder

	Docs      *service.DocumentService
	Exports   *service.ExportService
	Templates *service.TemplateWatcher
}

// New opens the database and builds every service.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := storage.New(cfg.Storage.DBPath, cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a := &App{
		cfg:       cfg,
		log:       log,
		db:        db,
		templates: storage.NewTemplateStore(db),
		Events:    &service.Emitters{},
		Notices:   &notify.Recorder{},
	}
	a.Events.Add(service.NewLogEmitter(log))

	a.Docs = service.NewDocumentService(
		storage.NewDocumentStore(db),
		storage.NewRevisionStore(db),
		a.templates,
		a.Events,
		log,
	)
	a.Templates = service.NewTemplateWatcher(cfg.Templates.Dir, a.templates, a.Events, log)

	assetDir := cfg.Export.AssetDir
	if assetDir == "" {
		assetDir = db.DataDir()
	}
	pipeline := export.NewPipeline(
		export.NewCanvasRasterizer(cfg.Export.CanvasWidth, cfg.Export.CanvasHeight, assetDir),
		&export.PDFAssembler{Creator: config.AppName},
		export.DirSink{Dir: cfg.Export.OutputDir},
		a.notifier(),
		log,
		export.Options{SettleDelay: cfg.Export.SettleDelay, Scale: cfg.Export.Scale},
	)
	a.Exports = service.NewExportService(pipeline, a.Docs, log)
	return a, nil
}

// notifier delivers notices to the recorder, the log and event listeners.
func (a *App) notifier() notify.Notifier {
	return notify.Multi{a.Notices, notify.NewLog(a.log), service.EmitterNotifier{Emitter: a.Events}}
}

// NewSession starts editing doc with the application's notifier.
func (a *App) NewSession(doc domain.Document) *editor.Session {
	return editor.NewSession(doc, editor.WithNotifier(a.notifier()))
}

// OpenHost loads a stored document into a hosted session.
func (a *App) OpenHost(docID string) (*service.EditorHost, error) {
	doc, err := a.Docs.Load(docID)
	if err != nil {
		return nil, err
	}
	return service.NewEditorHost(a.NewSession(*doc), a.Docs), nil
}

// LatestOrNew returns the id of the most recently updated document, creating
// one called name when the store is empty.
func (a *App) LatestOrNew(ctx context.Context, name string) (string, error) {
	list, err := a.Docs.List()
	if err != nil {
		return "", err
	}
	if len(list) > 0 {
		return list[0].ID, nil
	}
	doc, err := a.Docs.Create(ctx, name, "")
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

// Export renders a stored document and returns the artifact.
func (a *App) Export(ctx context.Context, docID string) (export.Result, error) {
	host, err := a.OpenHost(docID)
	if err != nil {
		return export.Result{}, err
	}
	return a.Exports.Export(ctx, host)
}

// Shutdown waits for running exports and closes the database.
func (a *App) Shutdown(ctx context.Context) (err error) {
	if werr := a.Exports.Wait(ctx); werr != nil && !errors.Is(werr, context.Canceled) {
		err = multierr.Append(err, fmt.Errorf("waiting for exports %v: %w", a.Exports.InFlight(), werr))
	}
	if a.db != nil {
		if cerr := a.db.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close database: %w", cerr))
		}
		a.db = nil
	}
	return err
}

// ListTemplates loads templates from the configured directory and returns
// everything stored.
func (a *App) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	if _, err := a.Templates.LoadAll(ctx); err != nil {
		return nil, err
	}
	return a.templates.ListTemplates()
}
