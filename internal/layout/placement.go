package layout

import (
	"math"

	"studio/internal/domain"
)

const (
	GridStep = 0.025 // 2.5% of the canvas
	Padding  = 0.02
)

// Placer finds free spots for new blocks on a page so that blocks created
// without a position don't overlap existing ones.
type Placer struct {
	grid    float64
	padding float64
}

func NewPlacer() *Placer {
	return &Placer{grid: GridStep, padding: Padding}
}

// snap rounds v to the nearest grid point.
func (p *Placer) snap(v float64) float64 {
	return math.Round(v/p.grid) * p.grid
}

// rect is an axis-aligned box in canvas fractions.
type rect struct {
	x, y, w, h float64
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

// autoHeight is the nominal height used for content-sized blocks.
const autoHeight = 0.1

func boxOf(e domain.Effective) rect {
	w, h := float64(e.Size.Width.Value), float64(e.Size.Height.Value)
	if e.Size.Width.Auto {
		w = 1 - float64(e.Position.X)
	}
	if e.Size.Height.Auto {
		h = autoHeight
	}
	return rect{float64(e.Position.X), float64(e.Position.Y), w, h}
}

// NextPosition scans the page top-to-bottom, left-to-right for the first grid
// position where a block of the given size fits without touching existing
// visible blocks at bp. It falls back to placing below everything.
func (p *Placer) NextPosition(existing []domain.Block, size domain.Size, bp domain.Breakpoint) domain.Position {
	occupied := make([]rect, 0, len(existing))
	for _, b := range existing {
		e := Resolve(b, bp)
		if !e.Visible {
			continue
		}
		occupied = append(occupied, boxOf(e))
	}
	if len(occupied) == 0 {
		return domain.Position{}
	}

	candidate := boxOf(domain.Effective{Size: size})
	for y := 0.0; y+candidate.h <= 1+1e-9; y += p.grid {
		for x := 0.0; x+candidate.w <= 1+1e-9; x += p.grid {
			candidate.x = p.snap(x)
			candidate.y = p.snap(y)

			overlaps := false
			for _, occ := range occupied {
				padded := rect{
					x: occ.x - p.padding,
					y: occ.y - p.padding,
					w: occ.w + p.padding*2,
					h: occ.h + p.padding*2,
				}
				if candidate.intersects(padded) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				return domain.Position{X: domain.Fraction(candidate.x), Y: domain.Fraction(candidate.y)}
			}
		}
	}

	maxY := 0.0
	for _, occ := range occupied {
		if occ.y+occ.h > maxY {
			maxY = occ.y + occ.h
		}
	}
	return domain.Position{Y: domain.Fraction(p.snap(math.Min(maxY+p.padding, 1)))}
}
