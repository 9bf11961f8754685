package editor

import (
	"fmt"

	"studio/internal/domain"
)

func seqIDs(prefix string) IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func pos(x, y float64) domain.Position {
	return domain.Position{X: domain.Fraction(x / 100), Y: domain.Fraction(y / 100)}
}

func onePageDoc() domain.Document {
	return domain.Document{
		ID:     "doc-1",
		Name:   "Wedding Proposal",
		Pages:  []domain.Page{{ID: "Page 1", Label: "Page 1"}},
		Blocks: map[string][]domain.Block{"Page 1": {}},
	}
}

func threePageDoc() domain.Document {
	return domain.Document{
		ID:   "doc-1",
		Name: "Proposal",
		Pages: []domain.Page{
			{ID: "A", Label: "Cover"},
			{ID: "B", Label: "Packages"},
			{ID: "C", Label: "Terms"},
		},
		Blocks: map[string][]domain.Block{
			"A": {
				{ID: "a1", Type: domain.BlockTypeText, Content: domain.Content{"text": "hello", "level": "heading-1"},
					Position: pos(10, 10), Size: domain.Size{Width: domain.Pct(80), Height: domain.Auto},
					Style: domain.Style{"color": "#111", "fontSize": 32}},
				{ID: "a2", Type: domain.BlockTypeImage, Content: domain.Content{"src": "cover.png"},
					Position: pos(5, 40), Size: domain.Size{Width: domain.Pct(40), Height: domain.Pct(30)},
					Style: domain.Style{"zIndex": 3}},
			},
			"B": {
				{ID: "b1", Type: domain.BlockTypePackageList, Content: domain.Content{"items": []any{"gold"}},
					Position: pos(0, 0), Size: domain.Size{Width: domain.Pct(60), Height: domain.Auto}},
			},
			"C": {},
		},
	}
}
