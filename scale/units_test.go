package scale

import "testing"

func TestCentigramsFromGramsTruncatesTowardZero(t *testing.T) {
	cases := []struct {
		grams float64
		want  Centigrams
	}{
		{0, 0},
		{10.0, 1000},
		{0.756, 75},
		{-0.756, -75}, // toward zero, not -76
		{5.0, 500},
		{-3.5, -350},
		{123.456, 12345},
	}
	for _, c := range cases {
		if got := CentigramsFromGrams(c.grams); got != c.want {
			t.Errorf("CentigramsFromGrams(%v) = %d, want %d", c.grams, got, c.want)
		}
	}
}

func TestUnitConversionsRoundTrip(t *testing.T) {
	if g := Centigrams(1234).Grams(); g != 12.34 {
		t.Errorf("Grams() = %v, want 12.34", g)
	}
	if mm := Centimm(8960).Millimeters(); mm != 89.6 {
		t.Errorf("Millimeters() = %v, want 89.6", mm)
	}
}
