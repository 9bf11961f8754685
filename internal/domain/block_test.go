package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockClone_Independent(t *testing.T) {
	b := Block{
		ID:      "b1",
		Type:    BlockTypeText,
		Content: Content{"text": "hi", "meta": map[string]any{"a": 1}},
		Style:   Style{"color": "red"},
		Visible: Bool(true),
		Overrides: map[Breakpoint]Override{
			Mobile: {Style: Style{"fontSize": 12}, Visible: Bool(false)},
		},
	}
	c := b.Clone()
	c.Content["text"] = "changed"
	c.Content["meta"].(map[string]any)["a"] = 2
	c.Style["color"] = "blue"
	*c.Visible = false
	c.Overrides[Mobile].Style["fontSize"] = 20

	assert.Equal(t, "hi", b.Content["text"])
	assert.Equal(t, 1, b.Content["meta"].(map[string]any)["a"])
	assert.Equal(t, "red", b.Style["color"])
	assert.True(t, *b.Visible)
	assert.Equal(t, 12, b.Overrides[Mobile].Style["fontSize"])
}

func TestMergeMaps_Nested(t *testing.T) {
	base := map[string]any{
		"color":  "red",
		"border": map[string]any{"width": 1, "color": "black"},
	}
	patch := map[string]any{
		"border": map[string]any{"color": "blue"},
		"margin": 4,
	}
	got := MergeMaps(base, patch)

	assert.Equal(t, "red", got["color"])
	assert.Equal(t, 4, got["margin"])
	assert.Equal(t, map[string]any{"width": 1, "color": "blue"}, got["border"])
	// base untouched
	assert.Equal(t, "black", base["border"].(map[string]any)["color"])
}

func TestStyleZIndex(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		want  int
	}{
		{"missing", Style{}, 0},
		{"int", Style{ZIndexKey: 3}, 3},
		{"float from json", Style{ZIndexKey: 7.0}, 7},
		{"string", Style{ZIndexKey: "12"}, 12},
		{"garbage", Style{ZIndexKey: "x"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.style.ZIndex())
		})
	}
}

func TestParseBreakpoint(t *testing.T) {
	bp, err := ParseBreakpoint("")
	assert.NoError(t, err)
	assert.Equal(t, Desktop, bp)

	_, err = ParseBreakpoint("watch")
	assert.Error(t, err)
}
