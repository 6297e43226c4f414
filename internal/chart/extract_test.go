package chart

import (
	"errors"
	"testing"

	"colorchecker-service/internal/entity"
	"colorchecker-service/internal/imaging"
)

func TestLadderOrder(t *testing.T) {
	attempts := ladder()
	if len(attempts) != 6 {
		t.Fatalf("expected 6 attempts, got %d", len(attempts))
	}

	wantWidths := []int{1440, 1440, 2200, 2200, 2200, 2200}
	wantEncode := []bool{false, true, false, true, false, true}
	for i, cfg := range attempts {
		if cfg.workingWidth != wantWidths[i] {
			t.Errorf("attempt %d: width=%d, want %d", i, cfg.workingWidth, wantWidths[i])
		}
		if cfg.encodeBeforeDetect != wantEncode[i] {
			t.Errorf("attempt %d: encode=%t, want %t", i, cfg.encodeBeforeDetect, wantEncode[i])
		}
		if !cfg.decodeSwatches {
			t.Errorf("attempt %d: swatch decoding disabled", i)
		}
	}

	// the last two rungs relax the minimum patch area threefold
	for i := 0; i < 4; i++ {
		if attempts[i].minAreaFactor != swatchMinAreaFactor {
			t.Errorf("attempt %d: minAreaFactor=%v", i, attempts[i].minAreaFactor)
		}
	}
	for i := 4; i < 6; i++ {
		if attempts[i].minAreaFactor != swatchMinAreaFactor*3 {
			t.Errorf("attempt %d: minAreaFactor=%v", i, attempts[i].minAreaFactor)
		}
	}
}

func TestOrientSwatches(t *testing.T) {
	canonical := make(entity.SwatchSet, entity.SwatchCount)
	for i := range canonical {
		// a ramp that puts the bright value at the white-patch slot
		v := 1 - float64(i)/float64(entity.SwatchCount)
		canonical[i] = [3]float64{v, v, v}
	}

	kept := append(entity.SwatchSet(nil), canonical...)
	orientSwatches(kept)
	for i := range kept {
		if kept[i] != canonical[i] {
			t.Fatalf("correctly oriented set was reordered at %d", i)
		}
	}

	flipped := make(entity.SwatchSet, entity.SwatchCount)
	for i := range flipped {
		flipped[i] = canonical[entity.SwatchCount-1-i]
	}
	orientSwatches(flipped)
	for i := range flipped {
		if flipped[i] != canonical[i] {
			t.Fatalf("flipped set not restored at %d: %v != %v", i, flipped[i], canonical[i])
		}
	}
}

func TestExtractFailsOnBlankImage(t *testing.T) {
	img := imaging.New(600, 400)
	for i := range img.Pix {
		img.Pix[i] = 1
	}
	_, err := Extract(img)
	if !errors.Is(err, ErrChartNotFound) {
		t.Fatalf("expected ErrChartNotFound, got %v", err)
	}
}

func TestSamplePatchesMapsScale(t *testing.T) {
	// base image: left half red, right half blue; the working image is a
	// half-size view, so centres must map back through the scale factor
	base := imaging.New(40, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if x < 20 {
				base.Set(x, y, [3]float64{1, 0, 0})
			} else {
				base.Set(x, y, [3]float64{0, 0, 1})
			}
		}
	}
	working := imaging.Resize(base, 20, 10)

	grid := &patchGrid{radius: 1}
	for i := range grid.centers {
		if i%2 == 0 {
			grid.centers[i] = [2]float64{5, 5} // left half in working coords
		} else {
			grid.centers[i] = [2]float64{15, 5} // right half
		}
	}

	swatches := samplePatches(base, working, grid)
	if swatches[0][0] < 0.9 || swatches[0][2] > 0.1 {
		t.Errorf("left centre sampled %v, want red", swatches[0])
	}
	if swatches[1][2] < 0.9 || swatches[1][0] > 0.1 {
		t.Errorf("right centre sampled %v, want blue", swatches[1])
	}
}
