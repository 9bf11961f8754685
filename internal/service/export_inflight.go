package service

import (
	"context"
	"slices"
	"sync"
	"time"
)

// exportsInFlight records which documents are being exported and when each
// export started. The zero value is ready to use.
type exportsInFlight struct {
	mu      sync.Mutex
	started map[string]time.Time
	wg      sync.WaitGroup
}

// Begin claims docID for an export. ok is false when the document is already
// being exported. release ends the claim; calling it again does nothing.
func (f *exportsInFlight) Begin(docID string) (release func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.started[docID]; busy {
		return func() {}, false
	}
	if f.started == nil {
		f.started = make(map[string]time.Time)
	}
	f.started[docID] = time.Now()
	f.wg.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.started, docID)
			f.mu.Unlock()
			f.wg.Done()
		})
	}, true
}

// Exporting reports whether docID is being exported and since when.
func (f *exportsInFlight) Exporting(docID string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.started[docID]
	return at, ok
}

// Documents lists the documents with an export in flight, sorted.
func (f *exportsInFlight) Documents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.started))
	for id := range f.started {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Wait blocks until every export in flight has been released. It returns
// ctx's error if ctx ends first.
func (f *exportsInFlight) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
