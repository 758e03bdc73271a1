package lcd

import "testing"

func TestBufferStartsBlank(t *testing.T) {
	b := NewBuffer()
	for row := 0; row < Rows; row++ {
		if got := b.Line(row); got != "                " {
			t.Errorf("row %d = %q, want 16 spaces", row, got)
		}
	}
}

func TestBufferPrintAndCursor(t *testing.T) {
	b := NewBuffer()
	b.SetCursor(0, 0)
	b.Print("Wt: 100g")
	b.SetCursor(0, 1)
	b.Print("CG: 89.6mm")
	if got := b.Line(0); got != "Wt: 100g        " {
		t.Errorf("line 0 = %q", got)
	}
	if got := b.Line(1); got != "CG: 89.6mm      " {
		t.Errorf("line 1 = %q", got)
	}
}

func TestBufferDropsOverflow(t *testing.T) {
	b := NewBuffer()
	b.Print("0123456789abcdefOVERFLOW")
	if got := b.Line(0); got != "0123456789abcdef" {
		t.Errorf("line 0 = %q", got)
	}
	if got := b.Line(1); got != "                " {
		t.Errorf("line 1 = %q, overflow must not wrap", got)
	}
}

func TestBufferCustomGlyph(t *testing.T) {
	b := NewBuffer()
	b.CreateChar(0, [8]byte{0x00, 0x04, 0x0E, 0x1F, 0, 0, 0, 0})
	b.SetCursor(15, 0)
	b.Write(0)
	if got := b.Line(0); got != "               ▴" {
		t.Errorf("line 0 = %q, want marker at column 15", got)
	}
	// undefined slot falls through as the raw byte
	b.SetCursor(0, 1)
	b.Write('x')
	if got := b.Line(1); got[0] != 'x' {
		t.Errorf("line 1 = %q, want leading x", got)
	}
}

func TestBufferClampsCursor(t *testing.T) {
	b := NewBuffer()
	b.SetCursor(99, 99)
	b.Print("y") // cursor clamped to right edge, write dropped
	b.SetCursor(-5, -5)
	b.Print("z")
	if got := b.Line(0); got[0] != 'z' {
		t.Errorf("line 0 = %q, want leading z", got)
	}
	if got := b.Line(1); got != "                " {
		t.Errorf("line 1 = %q, want blank", got)
	}
}
