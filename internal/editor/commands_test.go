package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio/internal/domain"
	"studio/internal/layout"
	"studio/internal/notify"
)

func zOf(t *testing.T, s *Session, id string) int {
	t.Helper()
	b, _, ok := s.Document().FindBlock(id)
	require.True(t, ok)
	return layout.Resolve(b, s.Breakpoint()).Style.ZIndex()
}

func TestDispatch_Layers(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(threePageDoc())

	require.NoError(t, s.Dispatch(ctx, CmdBringForward, "a2"))
	assert.Equal(t, 4, zOf(t, s, "a2"))

	require.NoError(t, s.Dispatch(ctx, CmdSendBackward, "a2"))
	require.NoError(t, s.Dispatch(ctx, CmdSendBackward, "a2"))
	assert.Equal(t, 2, zOf(t, s, "a2"))

	require.NoError(t, s.Dispatch(ctx, CmdBringToFront, "a2"))
	assert.Equal(t, FrontZIndex, zOf(t, s, "a2"))

	require.NoError(t, s.Dispatch(ctx, CmdSendToBack, "a2"))
	assert.Equal(t, 0, zOf(t, s, "a2"))

	require.NoError(t, s.Dispatch(ctx, CmdSendBackward, "a2"))
	assert.Equal(t, 0, zOf(t, s, "a2"), "never below zero")
}

func TestDispatch_LayersKeepOtherStyle(t *testing.T) {
	s, _ := newTestSession(threePageDoc())
	require.NoError(t, s.Dispatch(context.Background(), CmdBringForward, "a1"))
	b, _, _ := s.Document().FindBlock("a1")
	assert.Equal(t, "#111", b.Style["color"])
	assert.Equal(t, 1, b.Style.ZIndex())
}

func TestDispatch_EmbeddedAssetExempt(t *testing.T) {
	ctx := context.Background()
	doc := onePageDoc()
	doc.Blocks["Page 1"] = []domain.Block{{
		ID: "bg", Type: domain.BlockTypeEmbeddedAsset,
		Content: domain.Content{"src": "brochure.pdf"}, Style: domain.Style{"zIndex": 5},
	}}
	s, _ := newTestSession(doc)

	require.NoError(t, s.Dispatch(ctx, CmdBringToFront, "bg"))
	assert.Equal(t, 5, zOf(t, s, "bg"))
	require.NoError(t, s.Dispatch(ctx, CmdSendToBack, "bg"))
	assert.Equal(t, 5, zOf(t, s, "bg"))

	require.NoError(t, s.Dispatch(ctx, CmdBringForward, "bg"))
	assert.Equal(t, 6, zOf(t, s, "bg"))
}

func TestDispatch_LayerAtBreakpoint(t *testing.T) {
	s, _ := newTestSession(threePageDoc())
	s.SetBreakpoint(domain.Mobile)
	require.NoError(t, s.Dispatch(context.Background(), CmdBringToFront, "a2"))

	b, _, _ := s.Document().FindBlock("a2")
	assert.Equal(t, 3, b.Style.ZIndex())
	assert.Equal(t, FrontZIndex, layout.Resolve(b, domain.Mobile).Style.ZIndex())
}

func TestDispatch_ToggleLock(t *testing.T) {
	s, _ := newTestSession(threePageDoc())
	s.SetBreakpoint(domain.Mobile)
	require.NoError(t, s.Dispatch(context.Background(), CmdToggleLock, "b1"))
	b, _, _ := s.Document().FindBlock("b1")
	assert.True(t, b.Locked)

	require.NoError(t, s.Dispatch(context.Background(), CmdToggleLock, "b1"))
	b, _, _ = s.Document().FindBlock("b1")
	assert.False(t, b.Locked)
}

func TestDispatch_ClearAsset(t *testing.T) {
	s, _ := newTestSession(threePageDoc())
	before, _, _ := s.Document().FindBlock("a2")

	require.NoError(t, s.Dispatch(context.Background(), CmdClearAsset, "a2"))
	b, _, _ := s.Document().FindBlock("a2")
	assert.Equal(t, "", b.Content.StringAt("src"))
	assert.Equal(t, before.Position, b.Position)
	assert.Equal(t, before.Size, b.Size)

	v := s.Version()
	require.NoError(t, s.Dispatch(context.Background(), CmdClearAsset, "a1"))
	assert.Equal(t, v, s.Version(), "text blocks have no asset")
}

func TestDispatch_ClearAssetLocked(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(threePageDoc())
	require.NoError(t, s.Dispatch(ctx, CmdToggleLock, "a2"))
	v := s.Version()

	err := s.Dispatch(ctx, CmdClearAsset, "a2")
	require.ErrorIs(t, err, domain.ErrBlockLocked)

	b, _, _ := s.Document().FindBlock("a2")
	assert.Equal(t, "cover.png", b.Content.StringAt("src"))
	assert.Equal(t, v, s.Version())
}

func TestDispatch_UnknownCommand(t *testing.T) {
	s, rec := newTestSession(threePageDoc())
	before := s.Document()
	v := s.Version()

	require.NoError(t, s.Dispatch(context.Background(), "convert-to-chart", "a1"))

	assert.Equal(t, v, s.Version())
	assert.Equal(t, before, s.Document())
	require.Len(t, rec.Notices, 1)
	assert.Equal(t, notify.Info, rec.Notices[0].Level)
	assert.Equal(t, "convert-to-chart is not yet available", rec.Notices[0].Message)
}

func TestDispatch_UnknownBlockIsNoop(t *testing.T) {
	s, rec := newTestSession(threePageDoc())
	v := s.Version()
	for _, cmd := range Commands {
		if cmd == CmdPaste {
			continue
		}
		require.NoError(t, s.Dispatch(context.Background(), cmd, "ghost"), cmd)
	}
	assert.Equal(t, v, s.Version())
	assert.Empty(t, rec.Notices)
}
