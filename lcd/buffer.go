package lcd

// Buffer is an in-memory Device. It backs the TUI panel and the render
// tests, and carries the cell grid for Terminal. Writes past the right
// edge are dropped, not wrapped.
type Buffer struct {
	cells     [Rows][Cols]rune
	glyphs    map[byte][8]byte
	col, row  int
	backlight bool
}

func NewBuffer() *Buffer {
	b := &Buffer{glyphs: make(map[byte][8]byte)}
	b.Clear()
	return b
}

func (b *Buffer) Init() error {
	b.Clear()
	return nil
}

func (b *Buffer) Backlight(on bool) { b.backlight = on }

func (b *Buffer) Clear() {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			b.cells[r][c] = ' '
		}
	}
	b.col, b.row = 0, 0
}

func (b *Buffer) SetCursor(col, row int) {
	if col < 0 {
		col = 0
	}
	if col > Cols {
		col = Cols
	}
	if row < 0 {
		row = 0
	}
	if row >= Rows {
		row = Rows - 1
	}
	b.col, b.row = col, row
}

func (b *Buffer) Print(text string) {
	for _, r := range text {
		b.put(r)
	}
}

func (b *Buffer) Write(raw byte) {
	if raw < 8 {
		if _, ok := b.glyphs[raw]; ok {
			b.put(glyphRunes[raw])
			return
		}
	}
	b.put(rune(raw))
}

func (b *Buffer) CreateChar(slot byte, bitmap [8]byte) {
	if slot < 8 {
		b.glyphs[slot] = bitmap
	}
}

func (b *Buffer) put(r rune) {
	if b.col >= Cols {
		return
	}
	b.cells[b.row][b.col] = r
	b.col++
}

// Line returns one row as text, trailing padding included.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= Rows {
		return ""
	}
	return string(b.cells[row][:])
}

// Lines returns both rows, top first.
func (b *Buffer) Lines() [Rows]string {
	return [Rows]string{b.Line(0), b.Line(1)}
}

// BacklightOn reports the last Backlight call.
func (b *Buffer) BacklightOn() bool { return b.backlight }
