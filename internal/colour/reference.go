package colour

import (
	"sync"

	"colorchecker-service/internal/entity"
)

// referenceSRGB holds the canonical 24-patch chart colours as encoded sRGB,
// in chart order (row-major, the grey ramp last). Values are the post-2014
// X-Rite specification, 8-bit sRGB scaled to [0,1].
var referenceSRGB = [entity.SwatchCount][3]float64{
	{115.0 / 255, 82.0 / 255, 68.0 / 255},   // dark skin
	{194.0 / 255, 150.0 / 255, 130.0 / 255}, // light skin
	{98.0 / 255, 122.0 / 255, 157.0 / 255},  // blue sky
	{87.0 / 255, 108.0 / 255, 67.0 / 255},   // foliage
	{133.0 / 255, 128.0 / 255, 177.0 / 255}, // blue flower
	{103.0 / 255, 189.0 / 255, 170.0 / 255}, // bluish green
	{214.0 / 255, 126.0 / 255, 44.0 / 255},  // orange
	{80.0 / 255, 91.0 / 255, 166.0 / 255},   // purplish blue
	{193.0 / 255, 90.0 / 255, 99.0 / 255},   // moderate red
	{94.0 / 255, 60.0 / 255, 108.0 / 255},   // purple
	{157.0 / 255, 188.0 / 255, 64.0 / 255},  // yellow green
	{224.0 / 255, 163.0 / 255, 46.0 / 255},  // orange yellow
	{56.0 / 255, 61.0 / 255, 150.0 / 255},   // blue
	{70.0 / 255, 148.0 / 255, 73.0 / 255},   // green
	{175.0 / 255, 54.0 / 255, 60.0 / 255},   // red
	{231.0 / 255, 199.0 / 255, 31.0 / 255},  // yellow
	{187.0 / 255, 86.0 / 255, 149.0 / 255},  // magenta
	{8.0 / 255, 133.0 / 255, 161.0 / 255},   // cyan
	{243.0 / 255, 243.0 / 255, 242.0 / 255}, // white
	{200.0 / 255, 200.0 / 255, 200.0 / 255}, // neutral 8
	{160.0 / 255, 160.0 / 255, 160.0 / 255}, // neutral 6.5
	{122.0 / 255, 122.0 / 255, 121.0 / 255}, // neutral 5
	{85.0 / 255, 85.0 / 255, 85.0 / 255},    // neutral 3.5
	{52.0 / 255, 52.0 / 255, 52.0 / 255},    // black
}

var (
	referenceOnce   sync.Once
	referenceLinear entity.SwatchSet
)

// Reference returns the reference swatch set in linear RGB, matching the
// space measured swatches are delivered in. The table is linearised once and
// never mutated afterwards; callers receive a copy.
func Reference() entity.SwatchSet {
	referenceOnce.Do(func() {
		referenceLinear = make(entity.SwatchSet, entity.SwatchCount)
		for i, rgb := range referenceSRGB {
			referenceLinear[i] = LinearizeRGB(rgb)
		}
	})
	out := make(entity.SwatchSet, len(referenceLinear))
	copy(out, referenceLinear)
	return out
}
