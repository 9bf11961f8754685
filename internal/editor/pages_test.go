package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio/internal/domain"
	"studio/internal/layout"
)

func pageIDs(doc domain.Document) []string {
	out := make([]string, len(doc.Pages))
	for i, p := range doc.Pages {
		out[i] = p.ID
	}
	return out
}

func TestAddPage(t *testing.T) {
	doc, p := AddPage(threePageDoc(), seqIDs("p"))
	assert.Equal(t, "Page 4", p.Label)
	assert.Equal(t, []string{"A", "B", "C", "p-1"}, pageIDs(doc))
	assert.Empty(t, doc.Blocks["p-1"])
}

func TestReorderPage(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"first to last", 0, 2, []string{"B", "C", "A"}},
		{"last to first", 2, 0, []string{"C", "A", "B"}},
		{"middle forward", 1, 2, []string{"A", "C", "B"}},
		{"same index", 1, 1, []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := threePageDoc()
			out, err := ReorderPage(doc, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pageIDs(out))
			assert.Equal(t, []string{"A", "B", "C"}, pageIDs(doc))
		})
	}
}

func TestReorderPage_OutOfRange(t *testing.T) {
	doc := threePageDoc()
	for _, idx := range [][2]int{{-1, 0}, {0, 3}, {5, 1}} {
		out, err := ReorderPage(doc, idx[0], idx[1])
		assert.ErrorIs(t, err, domain.ErrPageIndex)
		assert.Equal(t, []string{"A", "B", "C"}, pageIDs(out))
	}
}

func TestDuplicatePage_Law(t *testing.T) {
	doc := threePageDoc()
	out, p, err := DuplicatePage(doc, "A", seqIDs("x"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", p.ID, "B", "C"}, pageIDs(out))
	assert.Equal(t, "Cover", p.Label)

	src := out.Blocks["A"]
	dup := out.Blocks[p.ID]
	require.Len(t, dup, len(src))

	srcIDs := map[string]bool{}
	for _, b := range src {
		srcIDs[b.ID] = true
	}
	for i := range dup {
		assert.False(t, srcIDs[dup[i].ID], "identity reused: %s", dup[i].ID)
		assert.Equal(t, layout.Resolve(src[i], domain.Desktop), layout.Resolve(dup[i], domain.Desktop))
	}
}

func TestDuplicatePage_DeepCopy(t *testing.T) {
	out, p, err := DuplicatePage(threePageDoc(), "A", seqIDs("x"))
	require.NoError(t, err)

	out.Blocks[p.ID][0].Style["color"] = "changed"
	assert.Equal(t, "#111", out.Blocks["A"][0].Style["color"])
}

func TestDuplicatePage_Unknown(t *testing.T) {
	_, _, err := DuplicatePage(threePageDoc(), "Z", seqIDs("x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePage(t *testing.T) {
	doc := threePageDoc()
	out, err := DeletePage(doc, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, pageIDs(out))
	_, ok := out.Blocks["A"]
	assert.False(t, ok)
	_, _, found := out.FindBlock("a1")
	assert.False(t, found)
	assert.Len(t, doc.Pages, 3)
}

func TestDeletePage_LastPageRejected(t *testing.T) {
	doc := onePageDoc()
	out, err := DeletePage(doc, "Page 1")
	require.ErrorIs(t, err, domain.ErrLastPage)
	assert.Len(t, out.Pages, 1)
	assert.Equal(t, doc, out)
}

func TestRenamePage(t *testing.T) {
	doc := threePageDoc()
	out, err := RenamePage(doc, "B", "Pricing")
	require.NoError(t, err)
	assert.Equal(t, "Pricing", out.Pages[1].Label)
	assert.Equal(t, "Packages", doc.Pages[1].Label)
}
