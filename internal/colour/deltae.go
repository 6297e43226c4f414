package colour

import "math"

var pow25to7 = math.Pow(25, 7)

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// hueAngle returns the hue angle of (a, b) in degrees within [0, 360).
func hueAngle(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	h := math.Atan2(b, a) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

// DeltaE2000 computes the CIEDE2000 colour difference between two Lab
// triples, with the parametric factors kL = kC = kH = 1.
func DeltaE2000(lab1, lab2 [3]float64) float64 {
	l1, a1, b1 := lab1[0], lab1[1], lab1[2]
	l2, a2, b2 := lab2[0], lab2[1], lab2[2]

	c1 := math.Hypot(a1, b1)
	c2 := math.Hypot(a2, b2)
	cBar := (c1 + c2) / 2

	cBar7 := math.Pow(cBar, 7)
	g := 0.5 * (1 - math.Sqrt(cBar7/(cBar7+pow25to7)))

	a1p := (1 + g) * a1
	a2p := (1 + g) * a2
	c1p := math.Hypot(a1p, b1)
	c2p := math.Hypot(a2p, b2)
	h1p := hueAngle(a1p, b1)
	h2p := hueAngle(a2p, b2)

	dLp := l2 - l1
	dCp := c2p - c1p

	var dhp float64
	switch {
	case c1p*c2p == 0:
		dhp = 0
	case math.Abs(h2p-h1p) <= 180:
		dhp = h2p - h1p
	case h2p-h1p > 180:
		dhp = h2p - h1p - 360
	default:
		dhp = h2p - h1p + 360
	}
	dHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(radians(dhp)/2)

	lBarP := (l1 + l2) / 2
	cBarP := (c1p + c2p) / 2

	var hBarP float64
	switch {
	case c1p*c2p == 0:
		hBarP = h1p + h2p
	case math.Abs(h1p-h2p) <= 180:
		hBarP = (h1p + h2p) / 2
	case h1p+h2p < 360:
		hBarP = (h1p + h2p + 360) / 2
	default:
		hBarP = (h1p + h2p - 360) / 2
	}

	t := 1 -
		0.17*math.Cos(radians(hBarP-30)) +
		0.24*math.Cos(radians(2*hBarP)) +
		0.32*math.Cos(radians(3*hBarP+6)) -
		0.20*math.Cos(radians(4*hBarP-63))

	dTheta := 30 * math.Exp(-math.Pow((hBarP-275)/25, 2))
	cBarP7 := math.Pow(cBarP, 7)
	rc := 2 * math.Sqrt(cBarP7/(cBarP7+pow25to7))
	rt := -math.Sin(radians(2*dTheta)) * rc

	sl := 1 + 0.015*math.Pow(lBarP-50, 2)/math.Sqrt(20+math.Pow(lBarP-50, 2))
	sc := 1 + 0.045*cBarP
	sh := 1 + 0.015*cBarP*t

	return math.Sqrt(
		math.Pow(dLp/sl, 2) +
			math.Pow(dCp/sc, 2) +
			math.Pow(dHp/sh, 2) +
			rt*(dCp/sc)*(dHp/sh))
}
