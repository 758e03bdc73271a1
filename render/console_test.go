package render

import (
	"strings"
	"testing"

	"github.com/CK6170/cgscale-go/scale"
)

func TestConsoleSinkLine(t *testing.T) {
	cases := []struct {
		name string
		r    scale.Reading
		want string
	}{
		{
			"out of range",
			scale.Reading{Front: -7, Rear: 1234, Total: 1227, CG: 0},
			"Front: -0.07g  Rear: 12.34g  CG: Out of range\n",
		},
		{
			"balanced",
			scale.Reading{Front: 1000, Rear: 1000, Total: 2000, CG: 8960},
			"Front: 10.00g  Rear: 10.00g  CG: 89.60mm\n",
		},
		{
			"fraction zero padded",
			scale.Reading{Front: 505, Rear: 30000, Total: 30505, CG: 8905},
			"Front: 5.05g  Rear: 300.00g  CG: 89.05mm\n",
		},
		{
			"negative cg keeps explicit minus",
			scale.Reading{Front: 90000, Rear: 600, Total: 90600, CG: -1234},
			"Front: 900.00g  Rear: 6.00g  CG: -12.34mm\n",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var sb strings.Builder
			s := NewConsoleSink(&sb)
			if err := s.Render(Frame{Reading: c.r}); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if sb.String() != c.want {
				t.Errorf("line = %q, want %q", sb.String(), c.want)
			}
		})
	}
}

func TestFormatCentigrams(t *testing.T) {
	cases := []struct {
		v    scale.Centigrams
		want string
	}{
		{0, "0.00"},
		{7, "0.07"},
		{-7, "-0.07"},
		{1234, "12.34"},
		{-1234, "-12.34"},
		{100, "1.00"},
	}
	for _, c := range cases {
		if got := FormatCentigrams(c.v); got != c.want {
			t.Errorf("FormatCentigrams(%d) = %q, want %q", c.v, got, c.want)
		}
	}
}
