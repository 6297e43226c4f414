package correction

import (
	"math"

	"colorchecker-service/internal/colour"
	"colorchecker-service/internal/entity"
)

// NeutralStats describes the grey-ramp patches (chart indices 18-23) in Lab
// space. A neutral ramp should sit at a=b=0 with lightness spanning the ramp.
type NeutralStats struct {
	MeanA float64 `json:"meanA"`
	MeanB float64 `json:"meanB"`
	StdA  float64 `json:"stdA"`
	StdB  float64 `json:"stdB"`
	LMin  float64 `json:"lMin"`
	LMax  float64 `json:"lMax"`
}

// Report is the measurement/scoring report returned by the analyze operation.
type Report struct {
	DeltaE            []float64                  `json:"deltaE"`
	DeltaEAvg         float64                    `json:"deltaEAvg"`
	DeltaEMax         float64                    `json:"deltaEMax"`
	Swatches          entity.SwatchSet           `json:"swatches"`
	MethodScores      map[entity.Method]*float64 `json:"methodScores"`
	RecommendedMethod entity.Method              `json:"recommendedMethod"`
	NeutralStats      NeutralStats               `json:"neutralStats"`
	QualityScore      float64                    `json:"qualityScore"`
}

// Analyze measures a swatch set against the reference chart: per-patch
// CIEDE2000, method scores, neutral-ramp statistics, and the heuristic
// quality score. The score weights and thresholds are a literal compatibility
// contract, not a derived formula.
func Analyze(measured entity.SwatchSet) Report {
	reference := colour.Reference()

	deltas := DeltaEs(measured, reference)
	var sum, max float64
	for _, d := range deltas {
		sum += d
		if d > max {
			max = d
		}
	}
	avg := sum / float64(len(deltas))

	eval := Evaluate(measured)
	stats := neutralStats(measured)
	shift := math.Hypot(stats.MeanA, stats.MeanB)

	score := 100.0
	score -= math.Max(0, avg-2.0) * 4.0
	score -= shift * 2.5
	if stats.LMax < 90 {
		score -= (90 - stats.LMax) * 0.5
	}
	if stats.LMin > 8 {
		score -= (stats.LMin - 8) * 0.5
	}
	score = clamp(score, 0, 100)

	return Report{
		DeltaE:            deltas,
		DeltaEAvg:         avg,
		DeltaEMax:         max,
		Swatches:          measured,
		MethodScores:      eval.Scores,
		RecommendedMethod: eval.Recommended,
		NeutralStats:      stats,
		QualityScore:      score,
	}
}

func neutralStats(measured entity.SwatchSet) NeutralStats {
	n := 0
	var sumA, sumB float64
	labs := make([][3]float64, 0, entity.SwatchCount-entity.NeutralStart)
	lMin, lMax := math.Inf(1), math.Inf(-1)
	for i := entity.NeutralStart; i < len(measured); i++ {
		lab := colour.RGBToLab(measured[i])
		labs = append(labs, lab)
		sumA += lab[1]
		sumB += lab[2]
		lMin = math.Min(lMin, lab[0])
		lMax = math.Max(lMax, lab[0])
		n++
	}
	meanA := sumA / float64(n)
	meanB := sumB / float64(n)

	var varA, varB float64
	for _, lab := range labs {
		varA += (lab[1] - meanA) * (lab[1] - meanA)
		varB += (lab[2] - meanB) * (lab[2] - meanB)
	}

	return NeutralStats{
		MeanA: meanA,
		MeanB: meanB,
		StdA:  math.Sqrt(varA / float64(n)),
		StdB:  math.Sqrt(varB / float64(n)),
		LMin:  lMin,
		LMax:  lMax,
	}
}
