package theme

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterpolateColor(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		pos  float64
		want string
	}{
		{"start", "#000000", "#ffffff", 0, "#000000"},
		{"end", "#000000", "#ffffff", 1, "#ffffff"},
		{"middle", "#000000", "#646464", 0.5, "#323232"},
		{"without hash", "ff0000", "0000ff", 0, "#ff0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, InterpolateColor(tt.a, tt.b, tt.pos))
		})
	}
}

func TestParseHexColor_Invalid(t *testing.T) {
	r, g, b := ParseHexColor("#abc")
	require.Zero(t, r)
	require.Zero(t, g)
	require.Zero(t, b)
}

func TestCurrentIsStable(t *testing.T) {
	require.Same(t, Current(), Current())
	require.Same(t, Current().S(), Current().S())
	require.Equal(t, "catppuccin-mocha", Current().Name)
}
