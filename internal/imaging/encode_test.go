package imaging

import (
	"encoding/base64"
	"image/color"
	"testing"
)

func TestEncode(t *testing.T) {
	img := newSolidImage(40, 30, color.NRGBA{10, 200, 30, 255})

	tests := []struct {
		format   string
		wantMime string
		wantFmt  string
	}{
		{"", "image/png", "png"},
		{"png", "image/png", "png"},
		{"PNG", "image/png", "png"},
		{"webp", "image/webp", "webp"},
		{"jpg", "image/jpeg", "jpeg"},
		{"jpeg", "image/jpeg", "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			enc, err := Encode(img, tt.format)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if enc.MimeType != tt.wantMime {
				t.Errorf("MimeType: got %s, want %s", enc.MimeType, tt.wantMime)
			}
			if enc.Width != 40 || enc.Height != 30 {
				t.Errorf("dimensions: got %dx%d, want 40x30", enc.Width, enc.Height)
			}

			n, err := Normalize(enc.Data)
			if err != nil {
				t.Fatalf("encoded bytes do not decode: %v", err)
			}
			if n.Format != tt.wantFmt {
				t.Errorf("decoded format: got %s, want %s", n.Format, tt.wantFmt)
			}
		})
	}
}

func TestEncode_Unsupported(t *testing.T) {
	if _, err := Encode(newSolidImage(2, 2, color.White), "bmp"); err == nil {
		t.Error("Encode should reject unknown formats")
	}
}

func TestEncodedImage_WithBase64(t *testing.T) {
	enc, err := Encode(newSolidImage(4, 4, color.White), "png")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if enc.ImageBase64 != "" {
		t.Error("ImageBase64 should be empty until requested")
	}

	decoded, err := base64.StdEncoding.DecodeString(enc.WithBase64().ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if string(decoded) != string(enc.Data) {
		t.Error("base64 payload does not match Data")
	}
}
