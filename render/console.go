package render

import (
	"fmt"
	"io"

	"github.com/CK6170/cgscale-go/scale"
)

// ConsoleSink writes one line per refresh to a text stream: both channel
// weights, then the CG.
type ConsoleSink struct {
	w io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Render(f Frame) error {
	r := f.Reading
	_, err := fmt.Fprintf(s.w, "Front: %sg  Rear: %sg  %s\n",
		FormatCentigrams(r.Front), FormatCentigrams(r.Rear), consoleCG(r.CG))
	return err
}

func consoleCG(cg scale.Centimm) string {
	if cg == 0 {
		return "CG: Out of range"
	}
	return fmt.Sprintf("CG: %smm", FormatCentimm(cg))
}
