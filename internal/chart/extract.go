package chart

import (
	"errors"
	"fmt"
	"log"

	"colorchecker-service/internal/colour"
	"colorchecker-service/internal/entity"
	"colorchecker-service/internal/imaging"
)

// ErrChartNotFound means no configuration in the attempt ladder produced a
// chart. It is user-actionable: the chart must be large in frame, in focus,
// and free of glare or extreme tilt.
var ErrChartNotFound = errors.New("colour chart not found in image")

const (
	defaultWorkingWidth = 1440
	rescueWorkingWidth  = 2200

	// swatchMinAreaFactor follows the segmentation default: the smallest
	// acceptable patch area is W*H/(24*factor).
	swatchMinAreaFactor = 200.0
)

type attemptConfig struct {
	workingWidth int
	// encodeBeforeDetect assumes the input was linear and encodes it before
	// segmentation; the default assumption is that input is already encoded.
	encodeBeforeDetect bool
	// decodeSwatches linearizes the sampled patch colours.
	decodeSwatches bool
	minAreaFactor  float64
}

// ladder is the fixed, ordered list of detection attempts. Real-world photos
// vary enough in scale and exposure that no single configuration reliably
// finds the chart; later rungs trade latency for robustness. The first
// success wins.
func ladder() []attemptConfig {
	var attempts []attemptConfig
	for _, width := range []int{defaultWorkingWidth, rescueWorkingWidth} {
		attempts = append(attempts,
			attemptConfig{workingWidth: width, encodeBeforeDetect: false, decodeSwatches: true, minAreaFactor: swatchMinAreaFactor},
			attemptConfig{workingWidth: width, encodeBeforeDetect: true, decodeSwatches: true, minAreaFactor: swatchMinAreaFactor},
		)
	}
	attempts = append(attempts,
		attemptConfig{workingWidth: rescueWorkingWidth, encodeBeforeDetect: false, decodeSwatches: true, minAreaFactor: swatchMinAreaFactor * 3},
		attemptConfig{workingWidth: rescueWorkingWidth, encodeBeforeDetect: true, decodeSwatches: true, minAreaFactor: swatchMinAreaFactor * 3},
	)
	return attempts
}

// Extract locates the reference chart and returns its 24 measured swatches
// in linear RGB, chart order. Individual attempt failures are logged as
// diagnostics; only the synthesized ErrChartNotFound crosses the boundary.
func Extract(img *imaging.Image) (entity.SwatchSet, error) {
	attempts := ladder()
	for i, cfg := range attempts {
		swatches, err := extractOnce(img, cfg)
		if err != nil {
			log.Printf("[chart] attempt=%d/%d width=%d encode=%t error=%v",
				i+1, len(attempts), cfg.workingWidth, cfg.encodeBeforeDetect, err)
			continue
		}
		return swatches, nil
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrChartNotFound, len(attempts))
}

func extractOnce(img *imaging.Image, cfg attemptConfig) (entity.SwatchSet, error) {
	base := img
	if cfg.encodeBeforeDetect {
		base = imaging.New(img.Width, img.Height)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				base.Set(x, y, colour.DelinearizeRGB(img.At(x, y)))
			}
		}
	}

	workingHeight := cfg.workingWidth * gridRows / gridCols
	working := imaging.Resize(base, cfg.workingWidth, workingHeight)

	minArea := float64(working.Width*working.Height) / (float64(entity.SwatchCount) * cfg.minAreaFactor)
	grid, err := segmentChart(working, minArea)
	if err != nil {
		return nil, err
	}

	swatches := samplePatches(base, working, grid)
	orientSwatches(swatches)

	if cfg.decodeSwatches {
		for i := range swatches {
			swatches[i] = colour.LinearizeRGB(swatches[i])
		}
	}
	return swatches, nil
}

// samplePatches measures each patch from the full-resolution image, mapping
// the working-resolution grid back through the resize scale. Each patch is
// the mean of a square region around its centre.
func samplePatches(base, working *imaging.Image, grid *patchGrid) entity.SwatchSet {
	sx := float64(base.Width) / float64(working.Width)
	sy := float64(base.Height) / float64(working.Height)

	swatches := make(entity.SwatchSet, entity.SwatchCount)
	for i, c := range grid.centers {
		cx := c[0] * sx
		cy := c[1] * sy
		half := int(grid.radius*(sx+sy)/2 + 0.5)
		if half < 1 {
			half = 1
		}

		var sum [3]float64
		var n float64
		for dy := -half; dy <= half; dy++ {
			for dx := -half; dx <= half; dx++ {
				x := int(cx) + dx
				y := int(cy) + dy
				if x < 0 || x >= base.Width || y < 0 || y >= base.Height {
					continue
				}
				rgb := base.At(x, y)
				sum[0] += rgb[0]
				sum[1] += rgb[1]
				sum[2] += rgb[2]
				n++
			}
		}
		if n > 0 {
			swatches[i] = [3]float64{sum[0] / n, sum[1] / n, sum[2] / n}
		}
	}
	return swatches
}

// orientSwatches fixes the 180-degree ambiguity of the detected grid: in
// canonical order the grey ramp runs white (18) to black (23), so the white
// patch must out-bright the black one. A flipped chart reverses the order.
func orientSwatches(s entity.SwatchSet) {
	white := s[entity.NeutralStart]
	black := s[entity.SwatchCount-1]
	if luma(white) >= luma(black) {
		return
	}
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func luma(rgb [3]float64) float64 {
	return 0.2126*rgb[0] + 0.7152*rgb[1] + 0.0722*rgb[2]
}
