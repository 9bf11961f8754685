package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studio/internal/domain"
)

func TestHistory_UndoRedo(t *testing.T) {
	h := NewHistory(0)
	d1 := domain.Document{Name: "one"}
	d2 := domain.Document{Name: "two"}

	_, ok := h.Undo(d1)
	assert.False(t, ok)

	h.Record(d1)
	got, ok := h.Undo(d2)
	assert.True(t, ok)
	assert.Equal(t, "one", got.Name)
	assert.True(t, h.CanRedo())

	got, ok = h.Redo(got)
	assert.True(t, ok)
	assert.Equal(t, "two", got.Name)
	assert.False(t, h.CanRedo())
}

func TestHistory_RecordDropsRedo(t *testing.T) {
	h := NewHistory(5)
	h.Record(domain.Document{Name: "a"})
	h.Undo(domain.Document{Name: "b"})
	h.Record(domain.Document{Name: "a"})
	assert.False(t, h.CanRedo())
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(2)
	for _, n := range []string{"a", "b", "c"} {
		h.Record(domain.Document{Name: n})
	}
	cur := domain.Document{Name: "d"}
	var names []string
	for h.CanUndo() {
		cur, _ = h.Undo(cur)
		names = append(names, cur.Name)
	}
	assert.Equal(t, []string{"c", "b"}, names)
}
