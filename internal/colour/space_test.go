package colour_test

import (
	"math"
	"testing"

	"colorchecker-service/internal/colour"
	"colorchecker-service/internal/entity"
)

func TestLinearizeRoundTrip(t *testing.T) {
	for v := 0.0; v <= 1.0; v += 0.01 {
		got := colour.Delinearize(colour.Linearize(v))
		if math.Abs(got-v) > 1e-12 {
			t.Fatalf("round trip of %v drifted to %v", v, got)
		}
	}
}

func TestLabRoundTrip(t *testing.T) {
	cases := [][3]float64{
		{0, 0, 0},
		{1, 1, 1},
		{0.5, 0.25, 0.75},
		{0.01, 0.99, 0.5},
	}
	for _, rgb := range cases {
		back := colour.LabToRGB(colour.RGBToLab(rgb))
		for ch := 0; ch < 3; ch++ {
			if math.Abs(back[ch]-rgb[ch]) > 1e-5 {
				t.Errorf("Lab round trip of %v gave %v", rgb, back)
				break
			}
		}
	}
}

func TestWhiteMapsToLabWhite(t *testing.T) {
	lab := colour.RGBToLab([3]float64{1, 1, 1})
	if math.Abs(lab[0]-100) > 1e-3 {
		t.Errorf("L of white = %v, want 100", lab[0])
	}
	if math.Abs(lab[1]) > 0.02 || math.Abs(lab[2]) > 0.02 {
		t.Errorf("white not neutral: a=%v b=%v", lab[1], lab[2])
	}
}

func TestDeltaE2000(t *testing.T) {
	lab := [3]float64{50, 10, -10}
	if d := colour.DeltaE2000(lab, lab); d != 0 {
		t.Errorf("identical colours differ by %v", d)
	}

	// black vs white is the canonical worst case, around 100
	d := colour.DeltaE2000([3]float64{0, 0, 0}, [3]float64{100, 0, 0})
	if d < 90 || d > 110 {
		t.Errorf("black/white delta = %v, want ~100", d)
	}

	// symmetry
	a := [3]float64{42, 7, -3}
	b := [3]float64{55, -12, 20}
	if math.Abs(colour.DeltaE2000(a, b)-colour.DeltaE2000(b, a)) > 1e-12 {
		t.Error("delta E is not symmetric")
	}
}

func TestReference(t *testing.T) {
	ref := colour.Reference()
	if err := ref.Validate(); err != nil {
		t.Fatalf("reference set invalid: %v", err)
	}

	// grey-ramp patches must be near-neutral and descending in lightness
	prevL := math.Inf(1)
	for i := entity.NeutralStart; i < entity.SwatchCount; i++ {
		lab := colour.RGBToLab(ref[i])
		if math.Abs(lab[1]) > 2 || math.Abs(lab[2]) > 3 {
			t.Errorf("patch %d not neutral: a=%v b=%v", i, lab[1], lab[2])
		}
		if lab[0] >= prevL {
			t.Errorf("grey ramp not descending at patch %d", i)
		}
		prevL = lab[0]
	}

	// callers get copies, the table itself must never be mutable
	ref[0] = [3]float64{9, 9, 9}
	if colour.Reference()[0] == ref[0] {
		t.Error("mutating a returned set leaked into the reference table")
	}
}
