package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFraction(t *testing.T) {
	tests := []struct {
		in      string
		want    Fraction
		wantErr bool
	}{
		{"10%", 0.1, false},
		{" 12.5% ", 0.125, false},
		{"0%", 0, false},
		{"100", 1, false},
		{"abc", 0, true},
		{"10%needed", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFraction(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, float64(tt.want), float64(got), 1e-9)
		})
	}
}

func TestFractionString(t *testing.T) {
	assert.Equal(t, "10%", Fraction(0.1).String())
	assert.Equal(t, "12.5%", Fraction(0.125).String())
	assert.Equal(t, "30%", Fraction(0.1).Add(0.2).String())
}

func TestFractionClamp(t *testing.T) {
	assert.Equal(t, Fraction(0), Fraction(-0.2).Clamp(0, 1))
	assert.Equal(t, Fraction(1), Fraction(1.4).Clamp(0, 1))
	assert.Equal(t, Fraction(0.5), Fraction(0.5).Clamp(0, 1))
}

func TestFractionOf(t *testing.T) {
	assert.Equal(t, Fraction(0.25), FractionOf(250, 1000))
	assert.Equal(t, Fraction(0), FractionOf(10, 0))
}

func TestLengthJSON(t *testing.T) {
	var s Size
	require.NoError(t, json.Unmarshal([]byte(`{"width":"40%","height":"auto"}`), &s))
	assert.False(t, s.Width.Auto)
	assert.InDelta(t, 0.4, float64(s.Width.Value), 1e-9)
	assert.True(t, s.Height.Auto)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":"40%","height":"auto"}`, string(out))
}

func TestPositionJSON(t *testing.T) {
	var p Position
	require.NoError(t, json.Unmarshal([]byte(`{"x":"10%","y":"20%"}`), &p))
	assert.Equal(t, "10%", p.X.String())
	assert.Equal(t, "20%", p.Y.String())
	assert.Error(t, json.Unmarshal([]byte(`{"x":"10%needed","y":"10%"}`), &p))
}
