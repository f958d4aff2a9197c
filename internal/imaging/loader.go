package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/gerardrbentley/url-scan/internal/errs"
)

// Normalized is an upright, decoded image ready for compression and drawing.
//
// The image has had any EXIF orientation applied, so Width and Height are the
// dimensions a viewer would see. All detection boxes are mapped against these
// dimensions.
type Normalized struct {
	// Image is the decoded, orientation-corrected raster.
	Image image.Image

	// Width is the upright image width in pixels.
	Width int

	// Height is the upright image height in pixels.
	Height int

	// Format is the container format reported by the decoder: "png", "jpeg",
	// "gif" or "webp".
	Format string
}

// Normalize decodes raw image bytes and applies EXIF orientation.
//
// Parameters:
//   - data: The encoded image as uploaded. Supported containers are PNG, JPEG,
//     GIF and WebP.
//
// Returns:
//   - *Normalized: The upright raster with its pixel dimensions.
//   - error: Wraps errs.ErrDecode if the bytes are empty, not a registered
//     container, or corrupt.
//
// # Orientation
//
// JPEG photos from phones usually store pixels in sensor order and record the
// intended rotation in the EXIF Orientation tag. Normalize applies that tag so
// that a portrait photo comes back portrait. Images without EXIF data are
// returned as decoded.
func Normalize(data []byte) (*Normalized, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to decode image: empty input: %w", errs.ErrDecode)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v: %w", err, errs.ErrDecode)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %v: %w", format, err, errs.ErrDecode)
	}

	bounds := img.Bounds()
	return &Normalized{
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
	}, nil
}

// Open reads an image file from disk and normalizes it.
//
// File system errors are returned as-is; decode failures wrap errs.ErrDecode.
func Open(path string) (*Normalized, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	n, err := Normalize(data)
	if err != nil {
		return nil, nil, err
	}
	return n, data, nil
}

// ImageInfo contains metadata about a normalized image.
type ImageInfo struct {
	// Width is the upright image width in pixels.
	Width int `json:"width"`

	// Height is the upright image height in pixels.
	Height int `json:"height"`

	// Format is the decoded container format.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded raster carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// SizeBytes is the length of the encoded input.
	SizeBytes int `json:"size_bytes"`
}

// Info describes n. size is the encoded byte length the image was decoded from.
//
// # Color Depth Detection
//
// Color depth is determined by the Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
func (n *Normalized) Info(size int) *ImageInfo {
	hasAlpha := false
	colorDepth := "8-bit"
	switch n.Image.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	return &ImageInfo{
		Width:      n.Width,
		Height:     n.Height,
		Format:     n.Format,
		ColorDepth: colorDepth,
		HasAlpha:   hasAlpha,
		SizeBytes:  size,
	}
}
