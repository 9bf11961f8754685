// Package notify carries fire-and-forget user-facing notices out of the editor.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Notice is a single user-facing message.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier delivers notices. Implementations must not block the caller for long.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notice)

func (f Func) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Discard drops every notice.
var Discard Notifier = Func(func(context.Context, Notice) {})

// Recorder keeps every notice it receives; used by tests and the MCP transport
// to hand notices back to the caller.
type Recorder struct {
	mu      sync.Mutex
	Notices []Notice
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notices = append(r.Notices, n)
}

// Drain returns the recorded notices and clears the list.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.Notices
	r.Notices = nil
	return out
}

// Count returns how many notices of level lvl were recorded.
func (r *Recorder) Count(lvl Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.Notices {
		if x.Level == lvl {
			n++
		}
	}
	return n
}

// Log writes notices to a zap logger.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: log.Named("notice")}
}

func (l *Log) Notify(_ context.Context, n Notice) {
	switch n.Level {
	case Error:
		l.log.Error(n.Message)
	case Warning:
		l.log.Warn(n.Message)
	default:
		l.log.Info(n.Message, zap.String("level", string(n.Level)))
	}
}

// Multi fans a notice out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notice) {
	for _, x := range m {
		x.Notify(ctx, n)
	}
}
