// Package lcd defines the character-display contract the render layer
// writes through, plus two host-side realizations: an inspectable
// in-memory buffer and a terminal mirror.
package lcd

// Display geometry. Everything here assumes the common 2x16 module.
const (
	Cols = 16
	Rows = 2
)

// Device is the display driver surface. Write puts one raw byte at the
// cursor; values below 8 select a custom glyph slot defined with
// CreateChar.
type Device interface {
	Init() error
	Backlight(on bool)
	Clear()
	SetCursor(col, row int)
	Print(text string)
	Write(b byte)
	CreateChar(slot byte, bitmap [8]byte)
}

// glyphRunes stand in for the eight programmable slots when a buffer is
// rendered as text.
var glyphRunes = [8]rune{'▴', '▾', '◆', '●', '○', '■', '□', '·'}
