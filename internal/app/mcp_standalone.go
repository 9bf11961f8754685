package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	mcpserver "studio/internal/mcp"
	"studio/internal/service"
)

// ServeMCP runs the editor as an MCP server on stdin/stdout until the client
// disconnects or ctx is cancelled. docID selects the document; empty means
// the most recent one (a new document is created when there is none).
// Unsaved changes are saved on the way out.
func (a *App) ServeMCP(ctx context.Context, docID, version string) (err error) {
	if docID == "" {
		if docID, err = a.LatestOrNew(ctx, "Untitled"); err != nil {
			return fmt.Errorf("pick document: %w", err)
		}
	}
	host, err := a.OpenHost(docID)
	if err != nil {
		return fmt.Errorf("open document %s: %w", docID, err)
	}

	// Templates
	if n, err := a.Templates.LoadAll(ctx); err != nil {
		a.log.Warn("Unable to load templates", zap.Error(err))
	} else {
		a.log.Debug("Templates loaded", zap.Int("count", n))
	}
	if a.cfg.Templates.Watch && a.cfg.Templates.Dir != "" {
		go func() {
			if err := a.Templates.Run(ctx); err != nil {
				a.log.Warn("Template watcher stopped", zap.Error(err))
			}
		}()
	}

	// Autosave
	if a.cfg.Autosave.Enabled {
		saver, err := service.NewAutosaver(ctx, host, a.cfg.Autosave.Schedule, a.log)
		if err != nil {
			return err
		}
		saver.Start()
		defer saver.Stop()
	}

	defer func() {
		if !host.Dirty() {
			return
		}
		if serr := host.Save(context.WithoutCancel(ctx), "Saved on exit"); serr != nil {
			a.log.Error("Unable to save on exit", zap.String("document", host.DocumentID()), zap.Error(serr))
		}
	}()

	srv := mcpserver.New(mcpserver.Deps{
		Host:    host,
		Docs:    a.Docs,
		Exports: a.Exports,
		Notices: a.Notices,
		Log:     a.log,
		Version: version,
	})
	a.Events.Add(srv)

	a.log.Info("Serving document over MCP", zap.String("document", host.DocumentID()))
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeStdio() }()
	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
