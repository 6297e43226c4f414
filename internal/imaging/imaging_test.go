package imaging_test

import (
	"math"
	"strings"
	"testing"

	"colorchecker-service/internal/imaging"
)

func TestNormalizeFormat(t *testing.T) {
	cases := map[string]string{
		"image/png":  imaging.FormatPNG,
		"image/jpeg": imaging.FormatJPEG,
		"image/webp": imaging.FormatJPEG,
		"":           imaging.FormatJPEG,
	}
	for in, want := range cases {
		if got := imaging.NormalizeFormat(in); got != want {
			t.Errorf("NormalizeFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPNGRoundTrip(t *testing.T) {
	img := imaging.New(3, 2)
	img.Set(0, 0, [3]float64{1, 0, 0})
	img.Set(1, 0, [3]float64{0, 1, 0})
	img.Set(2, 0, [3]float64{0, 0, 1})
	img.Set(0, 1, [3]float64{0.25, 0.5, 0.75})

	data, err := imaging.Encode(img, imaging.FormatPNG, 1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := imaging.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Width != 3 || back.Height != 2 {
		t.Fatalf("shape: %dx%d", back.Width, back.Height)
	}
	// PNG is lossless, only 8-bit quantisation remains
	for i := range img.Pix {
		if math.Abs(back.Pix[i]-img.Pix[i]) > 1.0/255+1e-9 {
			t.Fatalf("component %d: %v -> %v", i, img.Pix[i], back.Pix[i])
		}
	}
}

func TestJPEGEncodeDecodes(t *testing.T) {
	img := imaging.New(8, 8)
	for i := range img.Pix {
		img.Pix[i] = 0.5
	}
	data, err := imaging.Encode(img, imaging.FormatJPEG, 0.92)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := imaging.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Width != 8 || back.Height != 8 {
		t.Fatalf("shape: %dx%d", back.Width, back.Height)
	}
}

func TestEncodeClipsOutOfRange(t *testing.T) {
	img := imaging.New(1, 1)
	img.Set(0, 0, [3]float64{-0.5, 1.5, 0.5})

	data, err := imaging.Encode(img, imaging.FormatPNG, 1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := imaging.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := back.At(0, 0)
	if got[0] != 0 || got[1] != 1 {
		t.Errorf("clipping failed: %v", got)
	}
	// the source image must not be mutated by encoding
	if src := img.At(0, 0); src[0] != -0.5 || src[1] != 1.5 {
		t.Errorf("encode mutated its input: %v", src)
	}
}

func TestBase64RoundTripWithDataURL(t *testing.T) {
	img := imaging.New(2, 2)
	img.Set(1, 1, [3]float64{0.2, 0.4, 0.6})

	encoded, err := imaging.EncodeBase64(img, imaging.FormatPNG, 1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(encoded, ",") {
		t.Fatal("encoder must emit bare base64")
	}

	for _, payload := range []string{encoded, "data:image/png;base64," + encoded} {
		back, err := imaging.DecodeBase64(payload)
		if err != nil {
			t.Fatalf("decode %q...: %v", payload[:20], err)
		}
		if back.Width != 2 || back.Height != 2 {
			t.Fatalf("shape: %dx%d", back.Width, back.Height)
		}
	}

	if _, err := imaging.DecodeBase64(""); err == nil {
		t.Error("empty payload accepted")
	}
	if _, err := imaging.DecodeBase64("!!!not-base64"); err == nil {
		t.Error("garbage payload accepted")
	}
}

func TestResizeShape(t *testing.T) {
	img := imaging.New(100, 60)
	for i := range img.Pix {
		img.Pix[i] = 0.75
	}
	out := imaging.Resize(img, 50, 30)
	if out.Width != 50 || out.Height != 30 {
		t.Fatalf("shape: %dx%d", out.Width, out.Height)
	}
	// uniform input stays uniform within quantisation error
	got := out.At(25, 15)
	for ch := 0; ch < 3; ch++ {
		if math.Abs(got[ch]-0.75) > 1.0/255+1e-9 {
			t.Errorf("channel %d = %v, want ~0.75", ch, got[ch])
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	img := imaging.New(2, 1)
	img.Set(0, 0, [3]float64{0.1, 0.2, 0.3})
	clone := img.Clone()
	clone.Set(0, 0, [3]float64{0.9, 0.9, 0.9})
	if img.At(0, 0) != [3]float64{0.1, 0.2, 0.3} {
		t.Error("clone shares pixel storage with its source")
	}
}
