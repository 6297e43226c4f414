// Package chart locates the 24-patch reference chart in a photograph and
// measures the colour of each patch.
package chart

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"colorchecker-service/internal/imaging"
)

const (
	gridCols = 6
	gridRows = 4
)

// patchGrid is the detected chart geometry in working-image coordinates:
// one sample centre per patch, in canonical chart order, plus the sampling
// radius derived from the patch size.
type patchGrid struct {
	centers [gridCols * gridRows][2]float64
	radius  float64
}

// segmentChart finds the chart in a working-resolution image and returns the
// patch grid. minArea is the smallest acceptable candidate-patch area in
// pixels. Failures here are per-attempt diagnostics consumed by the ladder,
// not user-facing errors.
func segmentChart(working *imaging.Image, minArea float64) (*patchGrid, error) {
	mat, err := imageToMat(working)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: 5, Y: 5}, 0, 0, gocv.BorderDefault)

	bin := gocv.NewMat()
	defer bin.Close()
	gocv.AdaptiveThreshold(blurred, &bin, 255, gocv.AdaptiveThresholdMean, gocv.ThresholdBinary, 51, -5)

	contours := gocv.FindContours(bin, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return nil, errors.New("no contours found")
	}

	maxArea := float64(working.Width*working.Height) / float64(gridCols*gridRows)
	var centers []image.Point
	var sizeSum float64
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < minArea || area > maxArea {
			continue
		}
		approx := gocv.ApproxPolyDP(contour, 0.05*gocv.ArcLength(contour, true), true)
		if approx.Size() != 4 || !gocv.IsContourConvex(approx) {
			approx.Close()
			continue
		}
		approx.Close()

		rect := gocv.MinAreaRect(contour)
		w, h := float64(rect.Width), float64(rect.Height)
		if w <= 0 || h <= 0 {
			continue
		}
		if ratio := math.Max(w, h) / math.Min(w, h); ratio > 1.6 {
			continue
		}
		centers = append(centers, rect.Center)
		sizeSum += math.Sqrt(w * h)
	}

	// Half the patches is enough to pin down the chart's bounding quad.
	if len(centers) < gridCols*gridRows/2 {
		return nil, fmt.Errorf("only %d candidate patches (need %d)", len(centers), gridCols*gridRows/2)
	}

	pv := gocv.NewPointVectorFromPoints(centers)
	defer pv.Close()
	board := gocv.MinAreaRect(pv)

	return buildGrid(board, sizeSum/float64(len(centers)))
}

// buildGrid lays the canonical 6x4 patch grid over the chart's rotated
// bounding rectangle. The rect spans patch centres, not the chart border, so
// cell pitch divides by (cells-1).
func buildGrid(board gocv.RotatedRect, meanPatchSize float64) (*patchGrid, error) {
	w, h := float64(board.Width), float64(board.Height)
	angle := board.Angle * math.Pi / 180
	if w < h {
		w, h = h, w
		angle += math.Pi / 2
	}
	if w <= 0 || h <= 0 {
		return nil, errors.New("degenerate chart bounds")
	}

	cos, sin := math.Cos(angle), math.Sin(angle)
	cx, cy := float64(board.Center.X), float64(board.Center.Y)

	var grid patchGrid
	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridCols; col++ {
			u := (float64(col)/float64(gridCols-1) - 0.5) * w
			v := (float64(row)/float64(gridRows-1) - 0.5) * h
			grid.centers[row*gridCols+col] = [2]float64{
				cx + u*cos - v*sin,
				cy + u*sin + v*cos,
			}
		}
	}
	grid.radius = meanPatchSize * 0.25
	if grid.radius < 1 {
		grid.radius = 1
	}
	return &grid, nil
}

// imageToMat converts the float image to an 8-bit BGR Mat.
func imageToMat(im *imaging.Image) (gocv.Mat, error) {
	if im.Width == 0 || im.Height == 0 {
		return gocv.Mat{}, errors.New("empty image")
	}
	rgba := im.Clone().Clip().ToRGBA()
	mat := gocv.NewMatWithSize(im.Height, im.Width, gocv.MatTypeCV8UC3)
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			c := rgba.RGBAAt(x, y)
			mat.SetUCharAt(y, x*3+0, c.B)
			mat.SetUCharAt(y, x*3+1, c.G)
			mat.SetUCharAt(y, x*3+2, c.R)
		}
	}
	return mat, nil
}
