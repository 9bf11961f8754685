package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"studio/internal/domain"
	"studio/internal/storage"
)

// TemplateDebounce groups bursts of file events for the same file.
const TemplateDebounce = 300 * time.Millisecond

// LoadTemplateFile reads a YAML template. A template without an id takes the
// file name (without extension) as its id.
func LoadTemplateFile(path string) (*domain.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tpl domain.Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tpl); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}

	if tpl.ID == "" {
		tpl.ID = templateIDFromPath(path)
	}
	if tpl.Name == "" {
		tpl.Name = tpl.ID
	}
	if tpl.Document.Blocks == nil {
		tpl.Document.Blocks = map[string][]domain.Block{}
	}
	for pid, blocks := range tpl.Document.Blocks {
		for _, b := range blocks {
			if !b.Type.Valid() {
				return nil, fmt.Errorf("template %s page %s block %s: %w", tpl.ID, pid, b.ID, domain.ErrInvalidBlockType)
			}
		}
	}
	return &tpl, nil
}

func templateIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// TemplateWatcher keeps the template store in sync with a directory of YAML
// files.
type TemplateWatcher struct {
	dir      string
	store    *storage.TemplateStore
	emitter  EventEmitter
	log      *zap.Logger
	debounce time.Duration

	mu    sync.Mutex
	files map[string]string // path -> template id
}

func NewTemplateWatcher(dir string, store *storage.TemplateStore, emitter EventEmitter, log *zap.Logger) *TemplateWatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &TemplateWatcher{
		dir:      dir,
		store:    store,
		emitter:  emitter,
		log:      log.Named("templates"),
		debounce: TemplateDebounce,
		files:    map[string]string{},
	}
}

// LoadAll imports every template file in the directory. Broken files are
// logged and skipped; the number of loaded templates is returned.
func (w *TemplateWatcher) LoadAll(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read template dir: %w", err)
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || !isTemplateFile(e.Name()) {
			continue
		}
		if err := w.Reload(ctx, filepath.Join(w.dir, e.Name())); err != nil {
			w.log.Warn("Skipping template", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		n++
	}
	return n, nil
}

// Reload imports one template file into the store.
func (w *TemplateWatcher) Reload(ctx context.Context, path string) error {
	tpl, err := LoadTemplateFile(path)
	if err != nil {
		return err
	}
	if err := w.store.SaveTemplate(tpl); err != nil {
		return err
	}
	w.mu.Lock()
	w.files[path] = tpl.ID
	w.mu.Unlock()

	w.log.Debug("Template loaded", zap.String("id", tpl.ID), zap.String("file", path))
	w.emitter.Emit(ctx, EventTemplateReloaded, map[string]string{"templateId": tpl.ID})
	return nil
}

// Remove drops the template that was loaded from path.
func (w *TemplateWatcher) Remove(ctx context.Context, path string) error {
	w.mu.Lock()
	id, ok := w.files[path]
	delete(w.files, path)
	w.mu.Unlock()
	if !ok {
		return nil
	}
	if err := w.store.DeleteTemplate(id); err != nil {
		return err
	}
	w.emitter.Emit(ctx, EventTemplateRemoved, map[string]string{"templateId": id})
	return nil
}

// Run watches the directory until ctx is done.
func (w *TemplateWatcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create template dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Info("Watching templates", zap.String("dir", w.dir))

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isTemplateFile(event.Name) {
				continue
			}
			path := event.Name
			if t, exists := timers[path]; exists {
				t.Stop()
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				w.apply(ctx, path)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watcher error", zap.Error(err))
		}
	}
}

// apply reloads or removes path depending on whether it still exists.
func (w *TemplateWatcher) apply(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		if err := w.Remove(ctx, path); err != nil {
			w.log.Warn("Template removal failed", zap.String("file", path), zap.Error(err))
		}
		return
	}
	if err := w.Reload(ctx, path); err != nil {
		w.log.Warn("Template reload failed", zap.String("file", path), zap.Error(err))
	}
}
