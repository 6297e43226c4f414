package imaging

import (
	"image"

	"golang.org/x/image/draw"
)

// Resize scales the image to width x height using Catmull-Rom resampling.
// The result is quantised through 8 bits, which is fine for detection
// geometry; colour measurements must be sampled from the original image.
func Resize(im *Image, width, height int) *Image {
	if width == im.Width && height == im.Height {
		return im.Clone()
	}
	src := im.Clone().Clip().ToRGBA()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return FromImage(dst)
}
