package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studio/internal/domain"
	"studio/internal/notify"
	"studio/internal/service"
	"studio/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────

type fixture struct {
	db        *storage.DB
	docs      *storage.DocumentStore
	templates *storage.TemplateStore
	emitter   *service.MockEmitter
	svc       *service.DocumentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	db, err := storage.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:        db,
		docs:      storage.NewDocumentStore(db),
		templates: storage.NewTemplateStore(db),
		emitter:   &service.MockEmitter{},
	}
	f.svc = service.NewDocumentService(f.docs, storage.NewRevisionStore(db), f.templates, f.emitter, zap.NewNop())
	return f
}

// ─────────────────────────────────────────────────────────────
// Exports in flight
// ─────────────────────────────────────────────────────────────

func TestExportsInFlight_OnePerDocument(t *testing.T) {
	var f service.ExportsInFlight

	releaseProposal, ok := f.Begin("proposal")
	require.True(t, ok)
	_, ok = f.Begin("proposal")
	assert.False(t, ok, "second export of the same document must be refused")

	releaseInvoice, ok := f.Begin("invoice")
	require.True(t, ok)
	assert.Equal(t, []string{"invoice", "proposal"}, f.Documents())

	since, ok := f.Exporting("proposal")
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), since, time.Second)

	releaseProposal()
	releaseProposal()
	_, ok = f.Exporting("proposal")
	assert.False(t, ok)
	assert.Equal(t, []string{"invoice"}, f.Documents())

	again, ok := f.Begin("proposal")
	require.True(t, ok, "a released document can be exported again")
	again()
	releaseInvoice()
	assert.Empty(t, f.Documents())
}

func TestExportsInFlight_WaitIdle(t *testing.T) {
	var f service.ExportsInFlight
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, f.Wait(ctx))
}

func TestExportsInFlight_WaitForRelease(t *testing.T) {
	var f service.ExportsInFlight
	release, ok := f.Begin("proposal")
	require.True(t, ok)

	time.AfterFunc(20*time.Millisecond, release)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, f.Wait(ctx))
	assert.Empty(t, f.Documents())
}

func TestExportsInFlight_WaitTimesOut(t *testing.T) {
	var f service.ExportsInFlight
	release, ok := f.Begin("proposal")
	require.True(t, ok)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.Wait(ctx), context.DeadlineExceeded)
}

// ─────────────────────────────────────────────────────────────
// Emitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_Named(t *testing.T) {
	m := &service.MockEmitter{}
	m.Emit(context.Background(), "a", 1)
	m.Emit(context.Background(), "b", 2)
	m.Emit(context.Background(), "a", 3)

	got := m.Named("a")
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[1].Data)
}

func TestEmitterNotifier(t *testing.T) {
	m := &service.MockEmitter{}
	n := service.EmitterNotifier{Emitter: m}
	n.Notify(context.Background(), notify.Notice{Level: notify.Warning, Message: "careful"})

	events := m.Named(service.EventNotice)
	require.Len(t, events, 1)
	assert.Equal(t, notify.Notice{Level: notify.Warning, Message: "careful"}, events[0].Data)
}

// ─────────────────────────────────────────────────────────────
// DocumentService tests
// ─────────────────────────────────────────────────────────────

func TestDocumentService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, "  Smith Wedding ", "client-1")
	require.NoError(t, err)
	assert.Equal(t, "Smith Wedding", doc.Name)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "Page 1", doc.Pages[0].Label)
	assert.False(t, doc.CreatedAt.IsZero())

	loaded, err := f.svc.Load(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "client-1", loaded.ClientID)
	assert.Equal(t, doc.Pages, loaded.Pages)

	revs, err := f.svc.Revisions(doc.ID)
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, "Created", revs[0].Label)
	assert.Len(t, f.emitter.Named(service.EventDocumentSaved), 1)
}

func TestDocumentService_CreateDefaultsName(t *testing.T) {
	f := newFixture(t)
	doc, err := f.svc.Create(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", doc.Name)
}

func TestDocumentService_CreateFromTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tpl := &domain.Template{
		ID:   "wedding",
		Name: "Wedding",
		Document: domain.Document{
			Theme: domain.Theme{HeadingFont: "Playfair"},
			Pages: []domain.Page{{ID: "tp1", Label: "Cover"}, {ID: "tp2", Label: "Packages"}},
			Blocks: map[string][]domain.Block{
				"tp1": {{ID: "tb1", Type: domain.BlockTypeText, Content: domain.Content{"text": "Hi"}}},
			},
		},
	}
	require.NoError(t, f.templates.SaveTemplate(tpl))

	doc, err := f.svc.CreateFromTemplate(ctx, "wedding", "")
	require.NoError(t, err)
	assert.Equal(t, "Wedding", doc.Name)
	assert.Equal(t, "wedding", doc.TemplateID)
	assert.Equal(t, "Playfair", doc.Theme.HeadingFont)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, "Cover", doc.Pages[0].Label)
	assert.NotEqual(t, "tp1", doc.Pages[0].ID)

	blocks := doc.Blocks[doc.Pages[0].ID]
	require.Len(t, blocks, 1)
	assert.NotEqual(t, "tb1", blocks[0].ID)
	assert.Equal(t, "Hi", blocks[0].Content.StringAt("text"))

	// template untouched
	stored, err := f.templates.GetTemplate("wedding")
	require.NoError(t, err)
	assert.Equal(t, "tb1", stored.Document.Blocks["tp1"][0].ID)
}

func TestDocumentService_CreateFromMissingTemplate(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateFromTemplate(context.Background(), "nope", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Restore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, "Draft", "")
	require.NoError(t, err)
	revs, err := f.svc.Revisions(doc.ID)
	require.NoError(t, err)
	first := revs[0].ID

	doc.Name = "Final"
	require.NoError(t, f.svc.Save(ctx, doc, "Rename"))

	restored, err := f.svc.Restore(ctx, doc.ID, first)
	require.NoError(t, err)
	assert.Equal(t, "Draft", restored.Name)

	loaded, err := f.svc.Load(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", loaded.Name)

	revs, err = f.svc.Revisions(doc.ID)
	require.NoError(t, err)
	assert.Len(t, revs, 2)
}

func TestDocumentService_RestoreForeignRevision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, "A", "")
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, "B", "")
	require.NoError(t, err)
	revs, err := f.svc.Revisions(b.ID)
	require.NoError(t, err)

	_, err = f.svc.Restore(ctx, a.ID, revs[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_RecordExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, "Quote", "")
	require.NoError(t, err)
	require.NoError(t, f.svc.RecordExport(ctx, doc.ID, "/tmp/quote.pdf"))

	loaded, err := f.svc.Load(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/quote.pdf", loaded.LastExport)
	assert.Len(t, f.emitter.Named(service.EventDocumentExported), 1)

	assert.ErrorIs(t, f.svc.RecordExport(ctx, "missing", "x.pdf"), domain.ErrNotFound)
}

func TestDocumentService_Delete(t *testing.T) {
	f := newFixture(t)
	doc, err := f.svc.Create(context.Background(), "Temp", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(doc.ID))
	_, err = f.svc.Load(doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.svc.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmitters_FanOut(t *testing.T) {
	var set service.Emitters
	a, b := &service.MockEmitter{}, &service.MockEmitter{}
	set.Emit(context.Background(), "ignored", nil)
	set.Add(a)
	set.Add(b)
	set.Emit(context.Background(), service.EventDocumentSaved, "x")

	assert.Len(t, a.Events, 1)
	assert.Len(t, b.Named(service.EventDocumentSaved), 1)
}
