package correction

import (
	"colorchecker-service/internal/colour"
	"colorchecker-service/internal/entity"
	"colorchecker-service/internal/imaging"
)

// Apply corrects a full sRGB-encoded image: linearize, fit the method from
// measured to reference swatches, map every pixel, clip the overshoot that
// polynomial and spline fits can produce, and re-encode.
func Apply(img *imaging.Image, measured entity.SwatchSet, method entity.Method) (*imaging.Image, error) {
	corr, err := Fit(method, measured, colour.Reference())
	if err != nil {
		return nil, err
	}

	out := imaging.New(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			linear := colour.LinearizeRGB(img.At(x, y))
			corrected := clipRGB(corr.Map(linear))
			out.Set(x, y, colour.DelinearizeRGB(corrected))
		}
	}
	return out, nil
}

// ApplySpotShift adds a uniform Lab offset to an sRGB-encoded image. A nil or
// all-zero shift returns the input unchanged, avoiding a redundant colour
// space round-trip.
func ApplySpotShift(img *imaging.Image, shift *entity.SpotShift) *imaging.Image {
	if shift.IsZero() {
		return img
	}

	out := imaging.New(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			lab := colour.RGBToLab(colour.LinearizeRGB(img.At(x, y)))
			lab[0] = clamp(lab[0]+shift.L, 0, 100)
			lab[1] = clamp(lab[1]+shift.A, -128, 127)
			lab[2] = clamp(lab[2]+shift.B, -128, 127)
			linear := clipRGB(colour.LabToRGB(lab))
			out.Set(x, y, colour.DelinearizeRGB(linear))
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clipRGB(rgb [3]float64) [3]float64 {
	return [3]float64{clamp(rgb[0], 0, 1), clamp(rgb[1], 0, 1), clamp(rgb[2], 0, 1)}
}
