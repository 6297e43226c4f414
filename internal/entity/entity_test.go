package entity_test

import (
	"testing"

	"colorchecker-service/internal/entity"
)

func TestParseMethod(t *testing.T) {
	cases := []struct {
		in      string
		want    entity.Method
		wantErr bool
	}{
		{"", entity.DefaultMethod, false},
		{"Cheung 2004", entity.MethodCheung2004, false},
		{"Finlayson 2015", entity.MethodFinlayson2015, false},
		{"Vandermonde", entity.MethodVandermonde, false},
		{"TPS-3D", entity.MethodTPS3D, false},
		{"auto", entity.MethodAuto, false},
		{"cheung 2004", "", true},
		{"nearest", "", true},
	}

	for _, tc := range cases {
		got, err := entity.ParseMethod(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMethod(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMethod(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMethod(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMethodConcrete(t *testing.T) {
	for _, m := range entity.Methods() {
		if !m.Concrete() {
			t.Errorf("%q should be concrete", m)
		}
	}
	if entity.MethodAuto.Concrete() {
		t.Error("auto must not be concrete")
	}
}

func TestOutputBlobName(t *testing.T) {
	if got := entity.OutputBlobName("abc", "image/jpeg"); got != "abc/result.jpg" {
		t.Errorf("jpeg output = %q", got)
	}
	if got := entity.OutputBlobName("abc", "image/png"); got != "abc/result.png" {
		t.Errorf("png output = %q", got)
	}
	// anything unknown falls back to jpeg
	if got := entity.OutputBlobName("abc", "image/webp"); got != "abc/result.jpg" {
		t.Errorf("fallback output = %q", got)
	}
}

func TestSpotShiftIsZero(t *testing.T) {
	var nilShift *entity.SpotShift
	if !nilShift.IsZero() {
		t.Error("nil shift must be zero")
	}
	if !(&entity.SpotShift{}).IsZero() {
		t.Error("zero-valued shift must be zero")
	}
	if (&entity.SpotShift{L: 0.5}).IsZero() {
		t.Error("non-zero shift reported as zero")
	}
}

func TestSwatchSetValidate(t *testing.T) {
	if err := make(entity.SwatchSet, entity.SwatchCount).Validate(); err != nil {
		t.Errorf("24 swatches should validate: %v", err)
	}
	if err := make(entity.SwatchSet, 23).Validate(); err == nil {
		t.Error("23 swatches must not validate")
	}
	if err := entity.SwatchSet(nil).Validate(); err == nil {
		t.Error("nil swatch set must not validate")
	}
}
