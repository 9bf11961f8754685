package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio/internal/domain"
	"studio/internal/notify"
)

func TestCopy_StripsIdentity(t *testing.T) {
	s, rec := newTestSession(threePageDoc())
	require.True(t, s.Copy(context.Background(), "a1"))

	c, ok := s.Clipboard()
	require.True(t, ok)
	assert.Empty(t, c.ID)
	assert.Equal(t, "hello", c.Content.StringAt("text"))
	require.Len(t, rec.Notices, 1)
	assert.Equal(t, notify.Notice{Level: notify.Info, Message: "Block copied"}, rec.Notices[0])

	assert.False(t, s.Copy(context.Background(), "ghost"))
}

func TestPaste_Empty(t *testing.T) {
	s, _ := newTestSession(threePageDoc())
	v := s.Version()
	_, ok, err := s.Paste(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, v, s.Version())
}

func TestPaste_AtPointer(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(threePageDoc())
	s.SetCanvas(Rect{Left: 100, Top: 50, Width: 800, Height: 1000})
	s.SetPointer(Point{X: 300, Y: 300})
	require.NoError(t, s.SetActivePage("C"))

	require.True(t, s.Copy(ctx, "a1"))
	b, ok, err := s.Paste(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, pid, found := s.Document().FindBlock(b.ID)
	require.True(t, found)
	assert.Equal(t, "C", pid)
	assert.NotEqual(t, "a1", b.ID)
	assert.InDelta(t, 0.25, float64(b.Position.X), 1e-9)
	assert.InDelta(t, 0.25, float64(b.Position.Y), 1e-9)

	sel, _ := s.Selected()
	assert.Equal(t, b.ID, sel.ID)
}

func TestPaste_ClampedToCanvas(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(threePageDoc())
	s.SetCanvas(Rect{Width: 100, Height: 100})
	s.SetPointer(Point{X: 500, Y: -20})
	s.Copy(ctx, "a1")

	b, _, err := s.Paste(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Fraction(1), b.Position.X)
	assert.Equal(t, domain.Fraction(0), b.Position.Y)
}

func TestPaste_NoActivePage(t *testing.T) {
	ctx := context.Background()
	s, rec := newTestSession(domain.Document{ID: "empty"})
	s.clipboard = &domain.Block{Type: domain.BlockTypeText}

	_, ok, err := s.Paste(ctx)
	require.ErrorIs(t, err, domain.ErrNoTargetSelected)
	assert.False(t, ok)
	assert.Equal(t, 1, rec.Count(notify.Warning))
}

func TestDuplicate_OffsetOnSamePage(t *testing.T) {
	s, rec := newTestSession(threePageDoc())
	require.NoError(t, s.SetActivePage("C"))

	b, ok, err := s.Duplicate(context.Background(), "a2")
	require.NoError(t, err)
	require.True(t, ok)

	_, pid, _ := s.Document().FindBlock(b.ID)
	assert.Equal(t, "A", pid)
	assert.InDelta(t, 0.07, float64(b.Position.X), 1e-9)
	assert.InDelta(t, 0.42, float64(b.Position.Y), 1e-9)
	assert.Equal(t, "cover.png", b.Content.StringAt("src"))
	assert.Len(t, s.Document().Blocks["A"], 3)
	assert.Empty(t, rec.Notices)
}

func TestDuplicate_ViaDispatch(t *testing.T) {
	s, _ := newTestSession(threePageDoc())
	require.NoError(t, s.Dispatch(context.Background(), CmdDuplicate, "b1"))
	assert.Len(t, s.Document().Blocks["B"], 2)
}

func mobileOverride(t *testing.T, s *Session, blockID string, x, y float64) {
	t.Helper()
	fx, fy := domain.Fraction(x/100), domain.Fraction(y/100)
	_, ok := s.UpdateBlock(blockID, BlockPatch{
		Position: &PositionPatch{X: &fx, Y: &fy},
		Style:    domain.Style{"fontSize": 10},
	}, domain.Mobile)
	require.True(t, ok)
}

func TestDuplicate_KeepsOverrides(t *testing.T) {
	s, _ := newTestSession(threePageDoc())
	mobileOverride(t, s, "a2", 20, 50)

	b, ok, err := s.Duplicate(context.Background(), "a2")
	require.NoError(t, err)
	require.True(t, ok)

	mobile := b.Overrides[domain.Mobile]
	assert.Equal(t, 10, mobile.Style["fontSize"])
	require.NotNil(t, mobile.Position)
	assert.InDelta(t, 0.22, float64(mobile.Position.X), 1e-9)
	assert.InDelta(t, 0.52, float64(mobile.Position.Y), 1e-9)
	assert.True(t, b.Overrides[domain.Tablet].IsEmpty())

	src, _, _ := s.Document().FindBlock("a2")
	assert.InDelta(t, 0.2, float64(src.Overrides[domain.Mobile].Position.X), 1e-9, "source override must not move")
}

func TestPaste_ShiftsOverridesWithBase(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(threePageDoc())
	mobileOverride(t, s, "a2", 20, 50)
	s.SetCanvas(Rect{Width: 100, Height: 100})
	s.SetPointer(Point{X: 50, Y: 60})

	require.True(t, s.Copy(ctx, "a2"))
	b, _, err := s.Paste(ctx)
	require.NoError(t, err)

	assert.Equal(t, pos(50, 60), b.Position)
	mobile := b.Overrides[domain.Mobile]
	assert.Equal(t, 10, mobile.Style["fontSize"])
	require.NotNil(t, mobile.Position)
	assert.InDelta(t, 0.65, float64(mobile.Position.X), 1e-9)
	assert.InDelta(t, 0.70, float64(mobile.Position.Y), 1e-9)

	c, _ := s.Clipboard()
	assert.InDelta(t, 0.2, float64(c.Overrides[domain.Mobile].Position.X), 1e-9, "clipboard keeps its payload")
}
