// Package imaging holds the floating-point image representation used by the
// calibration pipeline and the container codecs around it. Pixel values are
// RGB in [0,1]; whether they are sRGB-encoded or linear is tracked by the
// callers, conversions are always explicit.
package imaging

import (
	"image"
	"image/color"
)

type Image struct {
	Width  int
	Height int
	// Pix is row-major interleaved RGB, length Width*Height*3.
	Pix []float64
}

func New(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]float64, width*height*3)}
}

func (im *Image) At(x, y int) [3]float64 {
	i := (y*im.Width + x) * 3
	return [3]float64{im.Pix[i], im.Pix[i+1], im.Pix[i+2]}
}

func (im *Image) Set(x, y int, rgb [3]float64) {
	i := (y*im.Width + x) * 3
	im.Pix[i], im.Pix[i+1], im.Pix[i+2] = rgb[0], rgb[1], rgb[2]
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := &Image{Width: im.Width, Height: im.Height, Pix: make([]float64, len(im.Pix))}
	copy(out.Pix, im.Pix)
	return out
}

// Clip clamps every component to [0,1] in place and returns im.
func (im *Image) Clip() *Image {
	for i, v := range im.Pix {
		if v < 0 {
			im.Pix[i] = 0
		} else if v > 1 {
			im.Pix[i] = 1
		}
	}
	return im
}

// ToRGBA quantises to an 8-bit image.RGBA, clipping out-of-range values.
func (im *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			rgb := im.At(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: quantize(rgb[0]),
				G: quantize(rgb[1]),
				B: quantize(rgb[2]),
				A: 255,
			})
		}
	}
	return out
}

func quantize(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// FromImage converts any stdlib image to the float representation. Alpha is
// dropped; greyscale sources end up with equal channels.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			out.Set(x, y, [3]float64{
				float64(c.R) / 255,
				float64(c.G) / 255,
				float64(c.B) / 255,
			})
		}
	}
	return out
}
