package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Autosaver saves the hosted document on a cron schedule when it has
// unsaved changes.
type Autosaver struct {
	host  *EditorHost
	sched *cron.Cron
	log   *zap.Logger
}

// NewAutosaver validates schedule (standard cron spec or "@every 1m") and
// prepares the job. Call Start to begin.
func NewAutosaver(ctx context.Context, host *EditorHost, schedule string, log *zap.Logger) (*Autosaver, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Autosaver{host: host, sched: cron.New(), log: log.Named("autosave")}
	if _, err := a.sched.AddFunc(schedule, func() { a.Tick(ctx) }); err != nil {
		return nil, fmt.Errorf("autosave schedule %q: %w", schedule, err)
	}
	return a, nil
}

func (a *Autosaver) Start() {
	a.sched.Start()
	a.log.Debug("Autosave started")
}

// Stop halts the schedule and waits for a running save.
func (a *Autosaver) Stop() {
	<-a.sched.Stop().Done()
}

// Tick saves once if the document is dirty. It reports whether a save ran.
func (a *Autosaver) Tick(ctx context.Context) bool {
	if !a.host.Dirty() {
		return false
	}
	if err := a.host.Save(ctx, "Autosave"); err != nil {
		a.log.Warn("Autosave failed", zap.String("document", a.host.DocumentID()), zap.Error(err))
		return false
	}
	a.log.Debug("Autosaved", zap.String("document", a.host.DocumentID()))
	return true
}
