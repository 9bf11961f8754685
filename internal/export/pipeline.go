// Package export turns a document into a paginated artifact: every page is
// rasterized at the desktop layout and the rasters are assembled into one
// multi-page file.
package export

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"studio/internal/domain"
	"studio/internal/layout"
	"studio/internal/notify"
)

type State string

const (
	StateIdle          State = "idle"
	StateCapturing     State = "capturing"
	StatePageRendering State = "page-rendering"
	StateAssembling    State = "assembling"
	StateFailed        State = "failed"
)

// ViewMode is the editor view whose breakpoint is forced to desktop for the
// duration of an export and restored afterwards.
type ViewMode interface {
	Breakpoint() domain.Breakpoint
	SetBreakpoint(domain.Breakpoint)
}

// Rasterizer renders one resolved page at the given oversampling factor.
type Rasterizer interface {
	Rasterize(ctx context.Context, page domain.PageState, theme domain.Theme, scale float64) (image.Image, error)
}

// Assembler builds the artifact from page rasters, in order.
type Assembler interface {
	Assemble(ctx context.Context, title string, pages []image.Image) ([]byte, error)
}

// Sink persists a finished artifact and returns where it was stored.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

type Options struct {
	SettleDelay time.Duration
	Scale       float64
}

func DefaultOptions() Options {
	return Options{SettleDelay: 300 * time.Millisecond, Scale: 2}
}

// Result describes a stored artifact.
type Result struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Pages int    `json:"pages"`
	Bytes int    `json:"bytes"`
}

// Pipeline runs exports one page at a time. It is safe to call Run from
// several goroutines; runs are serialized.
type Pipeline struct {
	raster    Rasterizer
	assembler Assembler
	sink      Sink
	notifier  notify.Notifier
	log       *zap.Logger
	opts      Options

	busy  sync.Mutex
	mu    sync.RWMutex
	state State
}

func NewPipeline(r Rasterizer, a Assembler, s Sink, n notify.Notifier, log *zap.Logger, opts Options) *Pipeline {
	if n == nil {
		n = notify.Discard
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	return &Pipeline{
		raster:    r,
		assembler: a,
		sink:      s,
		notifier:  n,
		log:       log.Named("export"),
		opts:      opts,
		state:     StateIdle,
	}
}

func (p *Pipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Run exports doc. The view's breakpoint is switched to desktop while pages
// are captured and is always restored before Run returns. On failure a
// single error notice carrying the cause is raised and nothing is stored.
func (p *Pipeline) Run(ctx context.Context, doc domain.Document, view ViewMode) (Result, error) {
	p.busy.Lock()
	defer p.busy.Unlock()

	res, err := p.capture(ctx, doc, view)
	if err != nil {
		p.setState(StateFailed, zap.String("document", doc.ID), zap.Error(err))
		p.notifier.Notify(ctx, notify.Notice{Level: notify.Error, Message: "Export failed: " + err.Error()})
		p.setState(StateIdle)
		return Result{}, err
	}
	p.notifier.Notify(ctx, notify.Notice{Level: notify.Success, Message: "Exported " + res.Name})
	p.setState(StateIdle, zap.String("path", res.Path), zap.Int("pages", res.Pages))
	return res, nil
}

func (p *Pipeline) capture(ctx context.Context, doc domain.Document, view ViewMode) (Result, error) {
	if len(doc.Pages) == 0 {
		return Result{}, fmt.Errorf("document %s has no pages", doc.ID)
	}

	saved := view.Breakpoint()
	defer view.SetBreakpoint(saved)
	view.SetBreakpoint(domain.Desktop)

	p.setState(StateCapturing, zap.String("document", doc.ID), zap.String("restore", string(saved)))
	if err := settle(ctx, p.opts.SettleDelay); err != nil {
		return Result{}, err
	}

	bp := view.Breakpoint()
	rasters := make([]image.Image, 0, len(doc.Pages))
	for i, page := range doc.Pages {
		p.setState(StatePageRendering, zap.Int("page", i+1), zap.Int("of", len(doc.Pages)))
		st := layout.ResolvePage(page, doc.Blocks[page.ID], bp)
		img, err := p.raster.Rasterize(ctx, st, doc.Theme, p.opts.Scale)
		if err != nil {
			return Result{}, fmt.Errorf("page %d (%s): %w", i+1, page.Label, err)
		}
		rasters = append(rasters, img)
	}

	p.setState(StateAssembling, zap.Int("pages", len(rasters)))
	data, err := p.assembler.Assemble(ctx, doc.Name, rasters)
	if err != nil {
		return Result{}, fmt.Errorf("assemble: %w", err)
	}

	name := ArtifactName(doc.Name)
	path, err := p.sink.Save(ctx, name, data)
	if err != nil {
		return Result{}, fmt.Errorf("save %s: %w", name, err)
	}
	return Result{Name: name, Path: path, Pages: len(rasters), Bytes: len(data)}, nil
}

func (p *Pipeline) setState(s State, fields ...zap.Field) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
	p.log.Debug("state", append([]zap.Field{zap.String("state", string(s))}, fields...)...)
}

func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ArtifactName derives the artifact file name from a document name.
func ArtifactName(docName string) string {
	s := slug.Make(docName)
	if s == "" {
		s = "document"
	}
	return s + ".pdf"
}
