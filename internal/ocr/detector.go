package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gerardrbentley/url-scan/internal/errs"
	"github.com/gerardrbentley/url-scan/internal/imaging"
)

// DefaultTimeout bounds a detection call when the caller's context has no
// deadline.
const DefaultTimeout = 30 * time.Second

// Kind is the granularity of a detection.
type Kind string

const (
	KindLine  Kind = "LINE"
	KindWord  Kind = "WORD"
	KindOther Kind = "OTHER"
)

// Detection is one piece of text found in an image.
type Detection struct {
	// Text is the recognized content.
	Text string `json:"text"`

	// Kind is LINE, WORD or OTHER.
	Kind Kind `json:"kind"`

	// Box locates the text as fractions of the image size.
	Box imaging.NormalizedBox `json:"box"`

	// Confidence is the provider's score on a 0-100 scale.
	Confidence float64 `json:"confidence"`

	// ID identifies the detection within one Result. WORD detections point to
	// their LINE through ParentID; nil when the provider does not say.
	ID       int  `json:"id"`
	ParentID *int `json:"parent_id,omitempty"`
}

// Result is everything a provider returned for one image, in provider order.
type Result struct {
	Provider     string      `json:"provider"`
	ModelVersion string      `json:"model_version,omitempty"`
	Detections   []Detection `json:"detections"`

	// Raw is the provider's response as received, for display and debugging.
	Raw any `json:"raw,omitempty"`
}

// Lines returns the LINE detections in order.
func (r *Result) Lines() []Detection {
	return FilterKind(r.Detections, KindLine)
}

// Detector finds text in an encoded image.
//
// Implementations make at most one outbound call per Detect, never retry, and
// report every failure (including deadline expiry) as an errs.ServiceError.
type Detector interface {
	Detect(ctx context.Context, image []byte) (*Result, error)
}

// FilterKind returns the detections of the given kind, preserving order.
// The result is never nil.
func FilterKind(dets []Detection, kind Kind) []Detection {
	out := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Provider names accepted by New.
const (
	ProviderRekognition = "rekognition"
	ProviderTesseract   = "tesseract"
	ProviderOllama      = "ollama"
)

// Options selects and configures a detection provider.
type Options struct {
	Provider string
	Timeout  time.Duration

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	TesseractLanguage string

	OllamaURL   string
	OllamaModel string
}

// New builds the Detector named by opts.Provider. An empty provider selects
// Rekognition.
func New(ctx context.Context, opts Options) (Detector, error) {
	switch strings.ToLower(opts.Provider) {
	case "", ProviderRekognition:
		return NewRekognition(ctx, opts.AWSRegion, opts.AWSAccessKeyID, opts.AWSSecretAccessKey, opts.Timeout)
	case ProviderTesseract:
		return NewTesseract(opts.TesseractLanguage, opts.Timeout), nil
	case ProviderOllama:
		return NewOllama(opts.OllamaURL, opts.OllamaModel, opts.Timeout)
	default:
		return nil, fmt.Errorf("unknown detection provider %q: %w", opts.Provider, errs.ErrConfiguration)
	}
}

// withTimeout applies d (or DefaultTimeout) when ctx carries no deadline.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
