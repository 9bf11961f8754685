package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studio/internal/domain"
)

func pos(x, y float64) domain.Position {
	return domain.Position{X: domain.Fraction(x), Y: domain.Fraction(y)}
}

func baseBlock() domain.Block {
	return domain.Block{
		ID:       "b1",
		Type:     domain.BlockTypeText,
		Position: pos(0.1, 0.1),
		Size:     domain.Size{Width: domain.Pct(50), Height: domain.Auto},
		Style:    domain.Style{"color": "#111", "fontSize": 16},
		Overrides: map[domain.Breakpoint]domain.Override{
			domain.Tablet: {},
			domain.Mobile: {},
		},
	}
}

func TestResolve_BaseReturnsBaseFields(t *testing.T) {
	b := baseBlock()
	e := Resolve(b, domain.Desktop)
	assert.Equal(t, b.Position, e.Position)
	assert.Equal(t, b.Size, e.Size)
	assert.Equal(t, b.Style, e.Style)
	assert.True(t, e.Visible, "unset visibility defaults to true")
}

func TestResolve_FallbackWithoutOverride(t *testing.T) {
	b := baseBlock()
	b.Overrides = nil // no record at all
	for _, bp := range domain.OverrideBreakpoints {
		e := Resolve(b, bp)
		assert.Equal(t, Resolve(b, domain.Desktop), e, "breakpoint %s", bp)
	}
}

func TestResolve_PositionReplacedStyleMerged(t *testing.T) {
	b := baseBlock()
	p := pos(0.2, 0.3)
	b.Overrides[domain.Mobile] = domain.Override{
		Position: &p,
		Style:    domain.Style{"fontSize": 12},
	}

	e := Resolve(b, domain.Mobile)
	assert.Equal(t, p, e.Position)
	assert.Equal(t, b.Size, e.Size)
	assert.Equal(t, domain.Style{"color": "#111", "fontSize": 12}, e.Style)

	// tablet is isolated from mobile
	assert.Equal(t, b.Position, Resolve(b, domain.Tablet).Position)
	assert.Equal(t, 16, Resolve(b, domain.Tablet).Style["fontSize"])
}

func TestResolve_ExplicitFalseVisibility(t *testing.T) {
	b := baseBlock()
	b.Overrides[domain.Mobile] = domain.Override{Visible: domain.Bool(false)}
	assert.False(t, Resolve(b, domain.Mobile).Visible)
	assert.True(t, Resolve(b, domain.Tablet).Visible)

	b.Visible = domain.Bool(false)
	b.Overrides[domain.Tablet] = domain.Override{Visible: domain.Bool(true)}
	assert.True(t, Resolve(b, domain.Tablet).Visible)
	assert.False(t, Resolve(b, domain.Desktop).Visible)
}

func TestResolve_DoesNotAliasStyle(t *testing.T) {
	b := baseBlock()
	e := Resolve(b, domain.Mobile)
	e.Style["color"] = "changed"
	assert.Equal(t, "#111", b.Style["color"])
}

func TestResolvePage_KeepsOrder(t *testing.T) {
	a, c := baseBlock(), baseBlock()
	c.ID = "b2"
	st := ResolvePage(domain.Page{ID: "p1"}, []domain.Block{a, c}, domain.Tablet)
	assert.Len(t, st.Blocks, 2)
	assert.Equal(t, "b1", st.Blocks[0].Block.ID)
	assert.Equal(t, "b2", st.Blocks[1].Block.ID)
	assert.Equal(t, domain.Tablet, st.Blocks[1].At)
}
