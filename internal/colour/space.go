// Package colour implements the fixed working colour space of the calibration
// pipeline: sRGB with the D65 white point. All conversions are pure functions
// over single RGB/XYZ/Lab triples; image-level loops belong to the callers.
package colour

import "math"

// D65 white point in XYZ, normalised to Y=1.
const (
	WhiteX = 0.95047
	WhiteY = 1.00000
	WhiteZ = 1.08883
)

// Linearize decodes an sRGB-encoded component to linear light.
func Linearize(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Delinearize encodes a linear component back to sRGB.
func Delinearize(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

// LinearizeRGB applies Linearize per channel.
func LinearizeRGB(rgb [3]float64) [3]float64 {
	return [3]float64{Linearize(rgb[0]), Linearize(rgb[1]), Linearize(rgb[2])}
}

// DelinearizeRGB applies Delinearize per channel.
func DelinearizeRGB(rgb [3]float64) [3]float64 {
	return [3]float64{Delinearize(rgb[0]), Delinearize(rgb[1]), Delinearize(rgb[2])}
}

// RGBToXYZ converts linear sRGB to CIE XYZ.
func RGBToXYZ(rgb [3]float64) [3]float64 {
	r, g, b := rgb[0], rgb[1], rgb[2]
	return [3]float64{
		0.4124564*r + 0.3575761*g + 0.1804375*b,
		0.2126729*r + 0.7151522*g + 0.0721750*b,
		0.0193339*r + 0.1191920*g + 0.9503041*b,
	}
}

// XYZToRGB converts CIE XYZ to linear sRGB. Out-of-gamut values are returned
// as-is; clipping is the caller's decision.
func XYZToRGB(xyz [3]float64) [3]float64 {
	x, y, z := xyz[0], xyz[1], xyz[2]
	return [3]float64{
		3.2404542*x - 1.5371385*y - 0.4985314*z,
		-0.9692660*x + 1.8760108*y + 0.0415560*z,
		0.0556434*x - 0.2040259*y + 1.0572252*z,
	}
}

const (
	labDelta  = 6.0 / 29.0
	labDelta3 = labDelta * labDelta * labDelta
)

func labF(t float64) float64 {
	if t > labDelta3 {
		return math.Cbrt(t)
	}
	return t/(3*labDelta*labDelta) + 4.0/29.0
}

func labFInv(t float64) float64 {
	if t > labDelta {
		return t * t * t
	}
	return 3 * labDelta * labDelta * (t - 4.0/29.0)
}

// XYZToLab converts CIE XYZ to CIE Lab under the D65 white point.
func XYZToLab(xyz [3]float64) [3]float64 {
	fx := labF(xyz[0] / WhiteX)
	fy := labF(xyz[1] / WhiteY)
	fz := labF(xyz[2] / WhiteZ)
	return [3]float64{
		116*fy - 16,
		500 * (fx - fy),
		200 * (fy - fz),
	}
}

// LabToXYZ inverts XYZToLab.
func LabToXYZ(lab [3]float64) [3]float64 {
	fy := (lab[0] + 16) / 116
	fx := fy + lab[1]/500
	fz := fy - lab[2]/200
	return [3]float64{
		WhiteX * labFInv(fx),
		WhiteY * labFInv(fy),
		WhiteZ * labFInv(fz),
	}
}

// RGBToLab converts linear sRGB to Lab in one step.
func RGBToLab(rgb [3]float64) [3]float64 {
	return XYZToLab(RGBToXYZ(rgb))
}

// LabToRGB converts Lab to linear sRGB in one step.
func LabToRGB(lab [3]float64) [3]float64 {
	return XYZToRGB(LabToXYZ(lab))
}
