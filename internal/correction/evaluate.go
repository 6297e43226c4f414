package correction

import (
	"colorchecker-service/internal/colour"
	"colorchecker-service/internal/entity"
)

// Evaluation holds the per-method fit-quality scores (mean CIEDE2000 against
// the reference chart; nil when the method failed to fit) and the recommended
// method. Scores always contain an entry for every concrete method.
type Evaluation struct {
	Scores      map[entity.Method]*float64
	Recommended entity.Method
}

// Evaluate scores each concrete method by fitting the measured swatches to
// themselves (mapping toward the reference set) and measuring how close the
// corrected swatches land to the reference. A method that fails numerically
// scores nil and is excluded from recommendation only. When every method
// fails, the default method is recommended so "auto" never becomes a failure
// path. Deterministic for identical inputs.
func Evaluate(measured entity.SwatchSet) Evaluation {
	reference := colour.Reference()
	scores := make(map[entity.Method]*float64, len(entity.Methods()))

	best := entity.Method("")
	bestScore := 0.0
	for _, method := range entity.Methods() {
		corr, err := Fit(method, measured, reference)
		if err != nil {
			scores[method] = nil
			continue
		}
		corrected := make(entity.SwatchSet, len(measured))
		for i, s := range measured {
			corrected[i] = corr.Map(s)
		}
		score := MeanDeltaE(corrected, reference)
		scores[method] = &score
		if best == "" || score < bestScore {
			best = method
			bestScore = score
		}
	}
	if best == "" {
		best = entity.DefaultMethod
	}
	return Evaluation{Scores: scores, Recommended: best}
}

// Resolve turns "auto" into a concrete method; concrete methods pass through.
func Resolve(method entity.Method, measured entity.SwatchSet) entity.Method {
	if method.Concrete() {
		return method
	}
	return Evaluate(measured).Recommended
}

// DeltaEs computes the per-swatch CIEDE2000 difference between two linear-RGB
// swatch sets.
func DeltaEs(a, b entity.SwatchSet) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = colour.DeltaE2000(colour.RGBToLab(a[i]), colour.RGBToLab(b[i]))
	}
	return out
}

// MeanDeltaE is the mean of DeltaEs.
func MeanDeltaE(a, b entity.SwatchSet) float64 {
	if len(a) == 0 {
		return 0
	}
	var sum float64
	for _, d := range DeltaEs(a, b) {
		sum += d
	}
	return sum / float64(len(a))
}
