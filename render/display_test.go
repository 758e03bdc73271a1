package render

import (
	"testing"

	"github.com/CK6170/cgscale-go/lcd"
	"github.com/CK6170/cgscale-go/scale"
)

func TestWeightLine(t *testing.T) {
	cases := []struct {
		total scale.Centigrams
		want  string
	}{
		{-101, "Wt: Error!"},
		{-100, "Wt: 0g"}, // clamp band, not an error
		{-1, "Wt: 0g"},
		{0, "Wt: 0g"},
		{99, "Wt: 0g"}, // integer truncation
		{100, "Wt: 1g"},
		{25438, "Wt: 254g"},
	}
	for _, c := range cases {
		if got := WeightLine(c.total); got != c.want {
			t.Errorf("WeightLine(%d) = %q, want %q", c.total, got, c.want)
		}
	}
}

func TestCGLine(t *testing.T) {
	cases := []struct {
		cg   scale.Centimm
		want string
	}{
		{0, "CG: Out of range"},
		{8960, "CG: 89.6mm"},
		{8905, "CG: 89.0mm"}, // one decimal, truncated
		{-450, "CG: -4.5mm"},
		{12315, "CG: 123.1mm"},
	}
	for _, c := range cases {
		if got := CGLine(c.cg); got != c.want {
			t.Errorf("CGLine(%d) = %q, want %q", c.cg, got, c.want)
		}
	}
}

func TestDisplaySinkRendersBothLines(t *testing.T) {
	buf := lcd.NewBuffer()
	s, err := NewDisplaySink(buf)
	if err != nil {
		t.Fatalf("NewDisplaySink: %v", err)
	}
	r := scale.Reading{Front: 1000, Rear: 1000, Total: 2000, CG: 8960}
	if err := s.Render(Frame{Reading: r}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := buf.Line(0); got != "Wt: 20g         " {
		t.Errorf("line 0 = %q", got)
	}
	if got := buf.Line(1); got != "CG: 89.6mm      " {
		t.Errorf("line 1 = %q", got)
	}
	if !buf.BacklightOn() {
		t.Error("backlight off after sink setup")
	}
}

func TestDisplaySinkStableMarker(t *testing.T) {
	buf := lcd.NewBuffer()
	s, err := NewDisplaySink(buf)
	if err != nil {
		t.Fatalf("NewDisplaySink: %v", err)
	}
	r := scale.Reading{Front: 1000, Rear: 1000, Total: 2000, CG: 8960}
	if err := s.Render(Frame{Reading: r, Stable: true}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := buf.Line(0); got != "Wt: 20g        ▴" {
		t.Errorf("line 0 = %q, want marker at right edge", got)
	}
}

func TestDisplaySinkFullRedraw(t *testing.T) {
	buf := lcd.NewBuffer()
	s, err := NewDisplaySink(buf)
	if err != nil {
		t.Fatalf("NewDisplaySink: %v", err)
	}
	long := scale.Reading{Front: 20000, Rear: 20000, Total: 40000, CG: 8960}
	if err := s.Render(Frame{Reading: long, Stable: true}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	short := scale.Reading{Front: 10, Rear: 10, Total: 20, CG: 0}
	if err := s.Render(Frame{Reading: short}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := buf.Line(0); got != "Wt: 0g          " {
		t.Errorf("line 0 = %q, residue from previous frame", got)
	}
	if got := buf.Line(1); got != "CG: Out of range" {
		t.Errorf("line 1 = %q", got)
	}
}
