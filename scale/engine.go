package scale

import "fmt"

// minChannelLoad is the validity gate: both supports must carry more than
// 5.00 g before a CG claim is trusted. Below that the cells read noise.
// The threshold is absolute per channel, not a share of the total.
const minChannelLoad Centigrams = 500

// Geometry holds the two fixed distances of the physical rig, both in
// tenths of a millimeter.
type Geometry struct {
	WingPegDistance int64 // separation of the two support pegs
	StopperDistance int64 // leading-edge stopper to the front peg
}

// Offset is the CG of a perfectly balanced model, in hundredths of a
// millimeter from the stopper pin. Always derived from the distances,
// never stored on its own.
func (g Geometry) Offset() Centimm {
	return Centimm((g.WingPegDistance/2 + g.StopperDistance) * 10)
}

// Reading is the result of one gated computation pass.
type Reading struct {
	Front Centigrams `json:"front"`
	Rear  Centigrams `json:"rear"`
	Total Centigrams `json:"total"`
	CG    Centimm    `json:"cg"` // 0 is the out-of-range sentinel
}

// CGKnown reports whether the CG passed the validity gate.
func (r Reading) CGKnown() bool { return r.CG != 0 }

// Engine combines the two latest calibrated weights into a weight total
// and a CG offset. Compute is a pure function of its inputs and the
// geometry, all in scaled-integer arithmetic.
type Engine struct {
	geom Geometry
}

func NewEngine(g Geometry) (*Engine, error) {
	if g.WingPegDistance <= 0 {
		return nil, fmt.Errorf("wing peg distance must be positive, got %d", g.WingPegDistance)
	}
	if g.StopperDistance < 0 {
		return nil, fmt.Errorf("stopper distance must not be negative, got %d", g.StopperDistance)
	}
	return &Engine{geom: g}, nil
}

// Geometry returns the rig distances the engine was built with.
func (e *Engine) Geometry() Geometry { return e.geom }

// Compute converts both weights (grams) to centigrams, sums them, and
// derives the CG from the rear channel's share of the total. The total is
// always the plain sum; CG stays 0 unless both channels clear
// minChannelLoad.
func (e *Engine) Compute(frontGrams, rearGrams float64) Reading {
	front := CentigramsFromGrams(frontGrams)
	rear := CentigramsFromGrams(rearGrams)
	r := Reading{Front: front, Rear: rear, Total: front + rear}
	if front > minChannelLoad && rear > minChannelLoad {
		a := int64(rear) / 10
		b := int64(front) / 10
		// rear share of the total in parts per ten thousand
		ratio := a * 10000 / (a + b)
		peg := e.geom.WingPegDistance
		r.CG = Centimm(peg*ratio/1000-peg*10/2) + e.geom.Offset()
	}
	return r
}
