// Package render turns computed readings into text on one of two output
// targets: a line-oriented console stream or a 2x16 character display.
// The target is picked once, at configuration time.
package render

import (
	"fmt"

	"github.com/CK6170/cgscale-go/scale"
)

// Frame is what a sink receives on each refresh: the gated reading plus
// the advisory stability flag. Sinks may ignore the flag.
type Frame struct {
	Reading scale.Reading
	Stable  bool
}

// Sink renders one frame per refresh interval.
type Sink interface {
	Render(f Frame) error
}

// FormatCentigrams renders hundredths of a gram as a signed decimal with
// a two-digit fraction. Negative values print the magnitude behind an
// explicit minus.
func FormatCentigrams(v scale.Centigrams) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// FormatCentimm renders hundredths of a millimeter the same way.
func FormatCentimm(v scale.Centimm) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
