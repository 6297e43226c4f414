// Package correction fits and applies per-pixel colour corrections mapping
// measured chart swatches toward the reference chart. All fitting operates on
// linear RGB.
package correction

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"colorchecker-service/internal/entity"
)

// ErrFitFailure marks a numeric failure of one specific method. It is scoped
// to that method and never fatal to a whole evaluation.
var ErrFitFailure = errors.New("correction fit failed")

// Correction maps a single linear-RGB triple through a fitted correction.
type Correction interface {
	Map(rgb [3]float64) [3]float64
}

// Fit computes a correction from measured swatches to reference swatches for
// a concrete method. Ill-conditioned systems surface as ErrFitFailure.
func Fit(method entity.Method, measured, reference entity.SwatchSet) (Correction, error) {
	if len(measured) == 0 || len(measured) != len(reference) {
		return nil, fmt.Errorf("%w: need matching non-empty swatch sets (%d vs %d)",
			ErrFitFailure, len(measured), len(reference))
	}
	switch method {
	case entity.MethodCheung2004:
		return fitMatrix(expandLinear, measured, reference)
	case entity.MethodFinlayson2015:
		return fitMatrix(expandRootPolynomial, measured, reference)
	case entity.MethodVandermonde:
		return fitMatrix(expandVandermonde, measured, reference)
	case entity.MethodTPS3D:
		return fitThinPlateSpline(measured, reference)
	default:
		return nil, fmt.Errorf("%w: method %q is not fittable", ErrFitFailure, method)
	}
}

// expansion lifts an RGB triple into a method's term space.
type expansion func(rgb [3]float64) []float64

// Cheung 2004, 3-term form: a straight linear matrix.
func expandLinear(rgb [3]float64) []float64 {
	return []float64{rgb[0], rgb[1], rgb[2]}
}

// Finlayson 2015 degree-2 root-polynomial: exposure-invariant terms.
func expandRootPolynomial(rgb [3]float64) []float64 {
	r, g, b := rgb[0], rgb[1], rgb[2]
	return []float64{
		r, g, b,
		math.Sqrt(math.Max(0, r*g)),
		math.Sqrt(math.Max(0, g*b)),
		math.Sqrt(math.Max(0, r*b)),
	}
}

// Vandermonde degree-1 with bias term.
func expandVandermonde(rgb [3]float64) []float64 {
	return []float64{rgb[0], rgb[1], rgb[2], 1}
}

type matrixCorrection struct {
	expand expansion
	// m is terms x 3: corrected = expand(rgb)^T * m.
	m *mat.Dense
}

func (c *matrixCorrection) Map(rgb [3]float64) [3]float64 {
	terms := c.expand(rgb)
	var out [3]float64
	for ch := 0; ch < 3; ch++ {
		var sum float64
		for i, t := range terms {
			sum += t * c.m.At(i, ch)
		}
		out[ch] = sum
	}
	return out
}

func fitMatrix(expand expansion, measured, reference entity.SwatchSet) (Correction, error) {
	n := len(measured)
	k := len(expand(measured[0]))

	a := mat.NewDense(n, k, nil)
	b := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		a.SetRow(i, expand(measured[i]))
		b.SetRow(i, reference[i][:])
	}

	var qr mat.QR
	qr.Factorize(a)
	m := mat.NewDense(k, 3, nil)
	if err := qr.SolveTo(m, false, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFitFailure, err)
	}
	if !allFinite(m) {
		return nil, fmt.Errorf("%w: non-finite solution", ErrFitFailure)
	}
	return &matrixCorrection{expand: expand, m: m}, nil
}

// tpsCorrection is a 3D thin-plate spline with the biharmonic kernel U(r)=r:
// f(p) = a0 + a.p + sum_i w_i U(|p - c_i|), solved per output channel.
type tpsCorrection struct {
	centers entity.SwatchSet
	// weights is (n+4) x 3: n kernel weights followed by the affine part.
	weights *mat.Dense
}

func (c *tpsCorrection) Map(rgb [3]float64) [3]float64 {
	n := len(c.centers)
	var out [3]float64
	for ch := 0; ch < 3; ch++ {
		sum := c.weights.At(n, ch) +
			c.weights.At(n+1, ch)*rgb[0] +
			c.weights.At(n+2, ch)*rgb[1] +
			c.weights.At(n+3, ch)*rgb[2]
		for i, ctr := range c.centers {
			sum += c.weights.At(i, ch) * dist3(rgb, ctr)
		}
		out[ch] = sum
	}
	return out
}

func fitThinPlateSpline(measured, reference entity.SwatchSet) (Correction, error) {
	n := len(measured)

	// [K P; P^T 0] [w; a] = [y; 0]
	size := n + 4
	a := mat.NewDense(size, size, nil)
	b := mat.NewDense(size, 3, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, dist3(measured[i], measured[j]))
		}
		a.Set(i, n, 1)
		a.Set(i, n+1, measured[i][0])
		a.Set(i, n+2, measured[i][1])
		a.Set(i, n+3, measured[i][2])
		a.Set(n, i, 1)
		a.Set(n+1, i, measured[i][0])
		a.Set(n+2, i, measured[i][1])
		a.Set(n+3, i, measured[i][2])
		b.SetRow(i, reference[i][:])
	}

	var lu mat.LU
	lu.Factorize(a)
	w := mat.NewDense(size, 3, nil)
	if err := lu.SolveTo(w, false, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFitFailure, err)
	}
	if !allFinite(w) {
		return nil, fmt.Errorf("%w: non-finite solution", ErrFitFailure)
	}

	centers := make(entity.SwatchSet, n)
	copy(centers, measured)
	return &tpsCorrection{centers: centers, weights: w}, nil
}

func dist3(p, q [3]float64) float64 {
	dx := p[0] - q[0]
	dy := p[1] - q[1]
	dz := p[2] - q[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func allFinite(m *mat.Dense) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(m.At(i, j)) || math.IsInf(m.At(i, j), 0) {
				return false
			}
		}
	}
	return true
}
