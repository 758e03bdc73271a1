package render

import (
	"fmt"

	"github.com/CK6170/cgscale-go/lcd"
	"github.com/CK6170/cgscale-go/scale"
)

// stableSlot is the custom glyph shown at the right edge of line 1 while
// the reading is steady.
const stableSlot byte = 0

var stableGlyph = [8]byte{0x00, 0x04, 0x0E, 0x1F, 0x00, 0x00, 0x00, 0x00}

// DisplaySink drives the 2x16 panel: line 1 total weight, line 2 CG.
// Every refresh is a full redraw.
type DisplaySink struct {
	dev lcd.Device
}

func NewDisplaySink(dev lcd.Device) (*DisplaySink, error) {
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("init display: %w", err)
	}
	dev.Backlight(true)
	dev.CreateChar(stableSlot, stableGlyph)
	dev.Clear()
	return &DisplaySink{dev: dev}, nil
}

func (s *DisplaySink) Render(f Frame) error {
	r := f.Reading
	s.dev.Clear()
	s.dev.SetCursor(0, 0)
	s.dev.Print(WeightLine(r.Total))
	s.dev.SetCursor(0, 1)
	s.dev.Print(CGLine(r.CG))
	if f.Stable {
		s.dev.SetCursor(lcd.Cols-1, 0)
		s.dev.Write(stableSlot)
	}
	return nil
}

// WeightLine renders the total for line 1. Totals in [-100, 0] centigrams
// are noise around an empty rig and clamp to zero; anything lower is a
// hard fault.
func WeightLine(total scale.Centigrams) string {
	switch {
	case total < -100:
		return "Wt: Error!"
	case total <= 0:
		return "Wt: 0g"
	default:
		return fmt.Sprintf("Wt: %dg", total/100)
	}
}

// CGLine renders the CG for line 2 with one decimal, or the out-of-range
// text for the zero sentinel.
func CGLine(cg scale.Centimm) string {
	if cg == 0 {
		return "CG: Out of range"
	}
	sign := ""
	if cg < 0 {
		sign = "-"
		cg = -cg
	}
	return fmt.Sprintf("CG: %s%d.%dmm", sign, cg/100, (cg%100)/10)
}
