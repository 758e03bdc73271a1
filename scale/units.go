package scale

// Fixed-point units used by the computation core. Every conversion
// truncates toward zero so results stay bit-identical to the firmware
// this replaces.

// Centigrams is a weight in hundredths of a gram.
type Centigrams int64

// Centimm is a length in hundredths of a millimeter.
type Centimm int64

// CentigramsFromGrams converts grams to centigrams, truncating toward zero.
func CentigramsFromGrams(g float64) Centigrams {
	return Centigrams(g * 100)
}

// Grams converts back to grams for display-independent consumers.
func (c Centigrams) Grams() float64 { return float64(c) / 100 }

// Millimeters converts back to millimeters.
func (c Centimm) Millimeters() float64 { return float64(c) / 100 }
