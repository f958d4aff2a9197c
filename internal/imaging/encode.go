package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// EncodedImage is an image serialized for transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type"`
	Data        []byte `json:"-"`
}

// Encode serializes img as "png" (default), "webp" (lossless) or "jpeg".
func Encode(img image.Image, format string) (*EncodedImage, error) {
	var buf bytes.Buffer
	var mime string

	switch strings.ToLower(format) {
	case "", "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		mime = "image/png"
	case "webp":
		if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
			return nil, fmt.Errorf("failed to encode webp image: %w", err)
		}
		mime = "image/webp"
	case "jpg", "jpeg":
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg image: %w", err)
		}
		mime = "image/jpeg"
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	bounds := img.Bounds()
	return &EncodedImage{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: mime,
		Data:     buf.Bytes(),
	}, nil
}

// WithBase64 fills ImageBase64 from Data and returns e.
func (e *EncodedImage) WithBase64() *EncodedImage {
	e.ImageBase64 = base64.StdEncoding.EncodeToString(e.Data)
	return e
}
