package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif" // Register GIF format
	"image/jpeg"
	"image/png"
	"strings"
)

const (
	FormatJPEG = "image/jpeg"
	FormatPNG  = "image/png"
)

// NormalizeFormat maps a requested output format to one of the supported
// content types. Anything that is not PNG encodes as JPEG.
func NormalizeFormat(format string) string {
	if format == FormatPNG {
		return FormatPNG
	}
	return FormatJPEG
}

// Decode reads a PNG/JPEG/GIF byte stream into the float representation.
func Decode(data []byte) (*Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(src), nil
}

// DecodeBase64 decodes a base64 payload, tolerating a data-URL prefix.
func DecodeBase64(data string) (*Image, error) {
	if data == "" {
		return nil, fmt.Errorf("missing image data")
	}
	if i := strings.Index(data, ","); i >= 0 {
		data = data[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode base64 image: %w", err)
	}
	return Decode(raw)
}

// Encode writes the image as PNG or JPEG. quality is the JPEG quality in
// (0,1]; it is ignored for PNG.
func Encode(im *Image, format string, quality float64) ([]byte, error) {
	rgba := im.Clone().Clip().ToRGBA()
	var buf bytes.Buffer
	if NormalizeFormat(format) == FormatPNG {
		if err := png.Encode(&buf, rgba); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), nil
	}
	q := int(quality * 100)
	if q < 1 {
		q = 1
	} else if q > 100 {
		q = 100
	}
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: q}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 encodes like Encode and wraps the result in base64.
func EncodeBase64(im *Image, format string, quality float64) (string, error) {
	raw, err := Encode(im, format, quality)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
