package layout

import (
	"math"
	"strconv"
)

// Tick is one ruler mark. Offset is in screen pixels from the ruler start,
// Value is the canvas coordinate the tick represents.
type Tick struct {
	Offset float64
	Value  int
	Major  bool
	Label  string
}

// Ruler derives the visible ticks for a ruler of the given length scrolled
// by scroll pixels. A tick is emitted every step canvas units and every
// majorEvery-th tick is major and labelled.
func Ruler(scroll, length float64, step, majorEvery int) []Tick {
	if length <= 0 || step <= 0 {
		return nil
	}
	if majorEvery <= 0 {
		majorEvery = 10
	}
	first := int(math.Ceil(scroll/float64(step))) * step
	var ticks []Tick
	for v := first; float64(v) <= scroll+length; v += step {
		t := Tick{Offset: float64(v) - scroll, Value: v}
		if (v/step)%majorEvery == 0 {
			t.Major = true
			t.Label = strconv.Itoa(v)
		}
		ticks = append(ticks, t)
	}
	return ticks
}
