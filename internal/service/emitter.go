package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"studio/internal/notify"
)

// Event names emitted by the services.
const (
	EventDocumentSaved    = "document:saved"
	EventDocumentExported = "document:exported"
	EventTemplateReloaded = "template:reloaded"
	EventTemplateRemoved  = "template:removed"
	EventNotice           = "notice"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples services from the transport in front of them
// ─────────────────────────────────────────────────────────────

// EventEmitter pushes events to whatever front end is attached (MCP client,
// log). Services receive this interface so they can be tested with
// MockEmitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Named returns the recorded emissions of one event.
func (m *MockEmitter) Named(event string) []EmittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []EmittedEvent
	for _, e := range m.Events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// LogEmitter writes events to a zap logger. Used when nothing else listens.
type LogEmitter struct {
	log *zap.Logger
}

func NewLogEmitter(log *zap.Logger) *LogEmitter {
	return &LogEmitter{log: log.Named("events")}
}

func (e *LogEmitter) Emit(_ context.Context, event string, data any) {
	e.log.Debug("Event", zap.String("event", event), zap.Any("data", data))
}

// EmitterNotifier forwards user notices as "notice" events.
type EmitterNotifier struct {
	Emitter EventEmitter
}

func (n EmitterNotifier) Notify(ctx context.Context, msg notify.Notice) {
	n.Emitter.Emit(ctx, EventNotice, msg)
}

// Emitters fans events out to every registered emitter. Emitters can be added
// after services were built with it.
type Emitters struct {
	mu   sync.RWMutex
	list []EventEmitter
}

func (e *Emitters) Add(em EventEmitter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = append(e.list, em)
}

func (e *Emitters) Emit(ctx context.Context, event string, data any) {
	e.mu.RLock()
	list := e.list
	e.mu.RUnlock()
	for _, em := range list {
		em.Emit(ctx, event, data)
	}
}
