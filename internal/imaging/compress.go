package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/gerardrbentley/url-scan/internal/errs"
)

// DefaultByteBudget is the largest encoded payload the detection service
// accepts: 5 MiB.
const DefaultByteBudget = 5 * (1 << 20)

// CompressResult is the lossless encoding of an image that fits a byte budget.
type CompressResult struct {
	// Data is the PNG encoding, len(Data) <= the requested limit.
	Data []byte `json:"-"`

	// Size is len(Data).
	Size int `json:"size_bytes"`

	// Width and Height are the dimensions of the encoded image. They equal the
	// input dimensions when no shrinking was needed.
	Width  int `json:"width"`
	Height int `json:"height"`

	// OriginalSize is the encoded length before any shrinking.
	OriginalSize int `json:"original_size_bytes"`

	// Ratios holds limit/size for every shrink step, in order. Empty when the
	// first encoding already fit.
	Ratios []float64 `json:"ratios"`
}

// Iterations is the number of shrink steps that were applied.
func (r *CompressResult) Iterations() int {
	return len(r.Ratios)
}

// Compress encodes img as PNG and shrinks it until the encoding fits in limit
// bytes.
//
// Parameters:
//   - img: The source raster. It is never modified.
//   - limit: Maximum encoded size in bytes. Must be positive.
//
// Returns:
//   - *CompressResult: The fitting encoding and its dimensions.
//   - error: errs.ErrShrinkToZero if a dimension would reach zero (or limit is
//     not positive), errs.ErrCompressionDiverged if the encoded size fails to
//     decrease between steps, or a PNG encoder error.
//
// # Algorithm
//
//  1. Encode losslessly; if the size is within limit, return it unchanged.
//  2. Otherwise scale both dimensions by limit/size (floored) with a Lanczos
//     filter and go back to 1.
//
// Gray, Gray16 and Paletted sources keep their color model while shrinking,
// so every step is encoded with the same bytes per pixel as the input.
//
// Encoded size does not scale linearly with pixel count, so one resize is not
// guaranteed to fit. Each step strictly reduces both dimensions because the
// ratio is below 1, so the loop always ends in success, ErrShrinkToZero or
// ErrCompressionDiverged.
func Compress(img image.Image, limit int) (*CompressResult, error) {
	return compress(img, limit, encodePNG)
}

func compress(img image.Image, limit int, encode func(image.Image) ([]byte, error)) (*CompressResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("byte budget %d is not positive: %w", limit, errs.ErrShrinkToZero)
	}

	current := img
	result := &CompressResult{}
	prevSize := -1

	for {
		data, err := encode(current)
		if err != nil {
			return nil, err
		}
		size := len(data)
		if result.OriginalSize == 0 {
			result.OriginalSize = size
		}

		bounds := current.Bounds()
		width, height := bounds.Dx(), bounds.Dy()

		if size <= limit {
			result.Data = data
			result.Size = size
			result.Width = width
			result.Height = height
			return result, nil
		}

		if prevSize >= 0 && size >= prevSize {
			return nil, fmt.Errorf("encoded size %d did not shrink below %d at %dx%d: %w",
				size, prevSize, width, height, errs.ErrCompressionDiverged)
		}

		ratio := float64(limit) / float64(size)
		newWidth := int(float64(width) * ratio)
		newHeight := int(float64(height) * ratio)
		if newWidth <= 0 || newHeight <= 0 {
			return nil, fmt.Errorf("resizing %dx%d by %.6f gives %dx%d: %w",
				width, height, ratio, newWidth, newHeight, errs.ErrShrinkToZero)
		}

		result.Ratios = append(result.Ratios, ratio)
		current = resample(current, newWidth, newHeight)
		prevSize = size
	}
}

// resample resizes img with a Lanczos filter. imaging.Resize always returns
// NRGBA, which PNG writes as RGB; single-channel and palette images are
// redrawn into their original model.
func resample(img image.Image, width, height int) image.Image {
	resized := imaging.Resize(img, width, height, imaging.Lanczos)

	var dst draw.Image
	switch src := img.(type) {
	case *image.Gray:
		dst = image.NewGray(resized.Bounds())
	case *image.Gray16:
		dst = image.NewGray16(resized.Bounds())
	case *image.Paletted:
		dst = image.NewPaletted(resized.Bounds(), src.Palette)
	default:
		return resized
	}
	draw.Draw(dst, dst.Bounds(), resized, resized.Bounds().Min, draw.Src)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
