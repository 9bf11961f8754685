package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fraction is a coordinate or length expressed as a fraction of the
// containing canvas. 0.25 is written as "25%" on the wire.
type Fraction float64

// ParseFraction parses a percentage string such as "12.5%".
// A bare number is accepted and read as a percentage too.
func ParseFraction(s string) (Fraction, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimSuffix(v, "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid percentage %q", s)
	}
	return Fraction(f / 100), nil
}

// Percent returns the value in percent units.
func (f Fraction) Percent() float64 {
	// round away float noise such as 0.1+0.2
	return math.Round(float64(f)*100*1e6) / 1e6
}

func (f Fraction) String() string {
	return strconv.FormatFloat(f.Percent(), 'f', -1, 64) + "%"
}

// Add returns f + d.
func (f Fraction) Add(d Fraction) Fraction {
	return f + d
}

// Clamp limits f to [lo, hi].
func (f Fraction) Clamp(lo, hi Fraction) Fraction {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// Of scales a container dimension by f.
func (f Fraction) Of(total float64) float64 {
	return float64(f) * total
}

// FractionOf returns part/total as a Fraction. A zero total yields 0.
func FractionOf(part, total float64) Fraction {
	if total == 0 {
		return 0
	}
	return Fraction(part / total)
}

func (f Fraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Fraction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n float64
		if err2 := json.Unmarshal(data, &n); err2 != nil {
			return fmt.Errorf("fraction: %w", err)
		}
		*f = Fraction(n / 100)
		return nil
	}
	v, err := ParseFraction(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f Fraction) MarshalYAML() (any, error) {
	return f.String(), nil
}

func (f *Fraction) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseFraction(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Length is a block dimension: either "auto" or a Fraction of the canvas.
type Length struct {
	Auto  bool
	Value Fraction
}

// Auto is the content-sized length.
var Auto = Length{Auto: true}

// Pct builds a Length from a percentage number.
func Pct(p float64) Length {
	return Length{Value: Fraction(p / 100)}
}

// ParseLength accepts "auto" or a percentage string.
func ParseLength(s string) (Length, error) {
	if strings.EqualFold(strings.TrimSpace(s), "auto") {
		return Auto, nil
	}
	f, err := ParseFraction(s)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: f}, nil
}

func (l Length) IsZero() bool {
	return !l.Auto && l.Value == 0
}

func (l Length) String() string {
	if l.Auto {
		return "auto"
	}
	return l.Value.String()
}

func (l Length) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Length) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("length: %w", err)
	}
	v, err := ParseLength(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (l Length) MarshalYAML() (any, error) {
	return l.String(), nil
}

func (l *Length) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseLength(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Position is the top-left corner of a block.
type Position struct {
	X Fraction `json:"x" yaml:"x"`
	Y Fraction `json:"y" yaml:"y"`
}

// Offset moves the position by (dx, dy).
func (p Position) Offset(dx, dy Fraction) Position {
	return Position{X: p.X.Add(dx), Y: p.Y.Add(dy)}
}

// Size is the block box.
type Size struct {
	Width  Length `json:"width" yaml:"width"`
	Height Length `json:"height" yaml:"height"`
}

func (s Size) IsZero() bool {
	return s.Width.IsZero() && s.Height.IsZero()
}
