package lcd

import (
	"fmt"
	"io"
	"strings"
)

// Terminal renders the panel as a boxed two-line frame on a plain
// terminal, redrawn whenever text lands on it. It keeps the real display
// timing profile: every driver op completes immediately, no buffering.
type Terminal struct {
	buf *Buffer
	w   io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{buf: NewBuffer(), w: w}
}

func (t *Terminal) Init() error {
	if err := t.buf.Init(); err != nil {
		return err
	}
	t.repaint()
	return nil
}

func (t *Terminal) Backlight(on bool) { t.buf.Backlight(on) }

func (t *Terminal) Clear() {
	t.buf.Clear()
}

func (t *Terminal) SetCursor(col, row int) { t.buf.SetCursor(col, row) }

func (t *Terminal) Print(text string) {
	t.buf.Print(text)
	t.repaint()
}

func (t *Terminal) Write(raw byte) {
	t.buf.Write(raw)
	t.repaint()
}

func (t *Terminal) CreateChar(slot byte, bitmap [8]byte) {
	t.buf.CreateChar(slot, bitmap)
}

func (t *Terminal) repaint() {
	bar := strings.Repeat("─", Cols)
	fmt.Fprint(t.w, "\033[2J\033[1;1H")
	fmt.Fprintf(t.w, "┌%s┐\n", bar)
	fmt.Fprintf(t.w, "│%s│\n", t.buf.Line(0))
	fmt.Fprintf(t.w, "│%s│\n", t.buf.Line(1))
	fmt.Fprintf(t.w, "└%s┘\n", bar)
}
