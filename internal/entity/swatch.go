package entity

import "fmt"

// SwatchCount is the number of patches on the reference chart.
const SwatchCount = 24

// NeutralStart is the index of the first neutral/grey-ramp patch; patches
// NeutralStart..SwatchCount-1 form the grey ramp used for neutrality checks.
const NeutralStart = 18

// SwatchSet is an ordered set of measured patch colours, index-aligned to the
// chart's canonical patch order. Values are linear RGB in [0,1]. Order is a
// hard invariant: reordering corrupts every downstream comparison.
type SwatchSet [][3]float64

func (s SwatchSet) Validate() error {
	if len(s) != SwatchCount {
		return fmt.Errorf("swatch set must contain exactly %d entries, got %d", SwatchCount, len(s))
	}
	return nil
}

// SpotShift is an additive Lab-space offset applied after the primary
// correction.
type SpotShift struct {
	L float64 `json:"L"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// IsZero reports whether the shift (possibly nil) is a no-op.
func (s *SpotShift) IsZero() bool {
	return s == nil || (s.L == 0 && s.A == 0 && s.B == 0)
}
