package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/otiai10/gosseract/v2"

	"github.com/gerardrbentley/url-scan/internal/errs"
	"github.com/gerardrbentley/url-scan/internal/imaging"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// preprocessContrast is the bild contrast change applied after grayscale.
const preprocessContrast = 0.3

// Tesseract detects text locally through libtesseract.
//
// Each Detect call creates its own gosseract client; clients are not safe for
// concurrent use.
type Tesseract struct {
	language string
	timeout  time.Duration
}

// NewTesseract returns a detector for language ("eng" when empty).
func NewTesseract(language string, timeout time.Duration) *Tesseract {
	if language == "" {
		language = DefaultLanguage
	}
	return &Tesseract{language: language, timeout: timeout}
}

type tesseractOutput struct {
	detections []Detection
	raw        []gosseract.BoundingBox
	err        error
}

// Detect runs line- and word-level recognition on data.
//
// # Detections
//
// Lines come from RIL_TEXTLINE, words from RIL_WORD. Each word is attached to
// the line whose box contains the word's center. Pixel boxes are converted to
// fractions of the image size so they match the other providers.
//
// # Timeout
//
// libtesseract cannot be interrupted. On deadline expiry Detect returns a
// ServiceError immediately and the recognition finishes in the background.
func (t *Tesseract) Detect(ctx context.Context, data []byte) (*Result, error) {
	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	src, err := imaging.Normalize(data)
	if err != nil {
		return nil, errs.Service(ProviderTesseract, err)
	}

	prepared, err := preprocess(src.Image)
	if err != nil {
		return nil, errs.Service(ProviderTesseract, err)
	}

	done := make(chan tesseractOutput, 1)
	go func() {
		dets, raw, err := t.recognize(prepared, src.Width, src.Height)
		done <- tesseractOutput{detections: dets, raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, errs.Service(ProviderTesseract, ctx.Err())
	case out := <-done:
		if out.err != nil {
			return nil, errs.Service(ProviderTesseract, out.err)
		}
		return &Result{
			Provider:     ProviderTesseract,
			ModelVersion: "tesseract " + gosseract.Version(),
			Detections:   out.detections,
			Raw:          out.raw,
		}, nil
	}
}

// preprocess converts to grayscale, boosts contrast and re-encodes as PNG.
func preprocess(img image.Image) ([]byte, error) {
	gray := effect.Grayscale(img)
	contrasted := adjust.Contrast(gray, preprocessContrast)

	var buf bytes.Buffer
	if err := png.Encode(&buf, contrasted); err != nil {
		return nil, fmt.Errorf("failed to encode preprocessed image: %w", err)
	}
	return buf.Bytes(), nil
}

func (t *Tesseract) recognize(data []byte, width, height int) ([]Detection, []gosseract.BoundingBox, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return nil, nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, nil, fmt.Errorf("failed to set image: %w", err)
	}

	lines, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get line boxes: %w", err)
	}
	words, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get word boxes: %w", err)
	}

	dets := boxesToDetections(lines, words, width, height)
	raw := append(append(make([]gosseract.BoundingBox, 0, len(lines)+len(words)), lines...), words...)
	return dets, raw, nil
}

// boxesToDetections numbers lines first, then words, skipping empty text.
func boxesToDetections(lines, words []gosseract.BoundingBox, width, height int) []Detection {
	dets := make([]Detection, 0, len(lines)+len(words))
	lineRects := make([]image.Rectangle, 0, len(lines))
	lineIDs := make([]int, 0, len(lines))

	id := 0
	for _, b := range lines {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		dets = append(dets, Detection{
			Text:       text,
			Kind:       KindLine,
			Box:        imaging.NormalizeRect(b.Box, width, height),
			Confidence: b.Confidence,
			ID:         id,
		})
		lineRects = append(lineRects, b.Box)
		lineIDs = append(lineIDs, id)
		id++
	}

	for _, b := range words {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		d := Detection{
			Text:       text,
			Kind:       KindWord,
			Box:        imaging.NormalizeRect(b.Box, width, height),
			Confidence: b.Confidence,
			ID:         id,
		}
		center := image.Pt((b.Box.Min.X+b.Box.Max.X)/2, (b.Box.Min.Y+b.Box.Max.Y)/2)
		for i, r := range lineRects {
			if center.In(r) {
				parent := lineIDs[i]
				d.ParentID = &parent
				break
			}
		}
		dets = append(dets, d)
		id++
	}
	return dets
}
