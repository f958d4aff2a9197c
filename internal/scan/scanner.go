package scan

import (
	"context"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gerardrbentley/url-scan/internal/imaging"
	"github.com/gerardrbentley/url-scan/internal/ocr"
	"github.com/gerardrbentley/url-scan/internal/urls"
)

// Options tunes a Scanner. Zero values select the defaults.
type Options struct {
	// ByteBudget is the compressor limit; imaging.DefaultByteBudget when 0.
	ByteBudget int

	// Outline styles the boxes on the annotated image; red 3px when zero.
	Outline imaging.OutlineStyle

	// Protocol is prepended to scheme-less URLs in Links; "http://" when empty.
	Protocol string

	Logger logrus.FieldLogger
}

// Scanner runs the pipeline with fixed collaborators.
type Scanner struct {
	detector  ocr.Detector
	extractor *urls.Extractor
	budget    int
	outline   imaging.OutlineStyle
	protocol  string
	log       logrus.FieldLogger
}

// New returns a Scanner. detector and extractor must not be nil.
func New(detector ocr.Detector, extractor *urls.Extractor, opts Options) *Scanner {
	s := &Scanner{
		detector:  detector,
		extractor: extractor,
		budget:    opts.ByteBudget,
		outline:   opts.Outline,
		protocol:  opts.Protocol,
		log:       opts.Logger,
	}
	if s.budget == 0 {
		s.budget = imaging.DefaultByteBudget
	}
	if s.outline == (imaging.OutlineStyle{}) {
		s.outline = imaging.DefaultOutlineStyle()
	}
	if s.protocol == "" {
		s.protocol = urls.DefaultProtocol
	}
	if s.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		s.log = discard
	}
	return s
}

// ByteBudget is the compressor limit in use.
func (s *Scanner) ByteBudget() int { return s.budget }

// Extractor returns the URL extractor in use.
func (s *Scanner) Extractor() *urls.Extractor { return s.extractor }

// Links pairs every URL with its href. The input is not modified.
func (s *Scanner) Links(found []string) []Link {
	links := make([]Link, 0, len(found))
	for _, u := range found {
		links = append(links, Link{URL: u, Href: urls.WithProtocol(u, s.protocol)})
	}
	return links
}

// Link pairs an extracted URL with the href used to open it.
type Link struct {
	URL  string `json:"url"`
	Href string `json:"href"`
}

// Result is the outcome of one scan.
type Result struct {
	// Width, Height and Format describe the normalized upload.
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`

	// Compression describes what was sent to the detector.
	Compression *imaging.CompressResult `json:"compression"`

	// Lines holds the LINE texts in detection order.
	Lines []string `json:"lines"`

	// URLs holds the extracted URLs exactly as found, duplicates included.
	URLs []string `json:"urls"`

	// Links pairs each entry of URLs with its display href.
	Links []Link `json:"links"`

	// Boxes holds the pixel box of every LINE, aligned with Lines.
	Boxes []imaging.PixelBox `json:"boxes"`

	// Detection is the provider response, passed through.
	Detection *ocr.Result `json:"detection"`

	// Annotated is a copy of the normalized image with every LINE outlined.
	Annotated *image.NRGBA `json:"-"`
}

// Summary returns "Found N URLs in M Lines of text!".
func (r *Result) Summary() string {
	return fmt.Sprintf("Found %d URLs in %d Lines of text!", len(r.URLs), len(r.Lines))
}

// Scan runs the full pipeline on an uploaded image.
//
// Errors are returned unchanged from the failing step: errs.ErrDecode from
// normalization, errs.ErrShrinkToZero or errs.ErrCompressionDiverged from
// compression, and *errs.ServiceError from detection. Nothing is retried.
func (s *Scanner) Scan(ctx context.Context, data []byte) (*Result, error) {
	log := s.log.WithField("bytes", len(data))

	norm, err := imaging.Normalize(data)
	if err != nil {
		log.WithError(err).Debug("Failed to decode upload")
		return nil, err
	}
	log = log.WithFields(logrus.Fields{"width": norm.Width, "height": norm.Height, "format": norm.Format})

	compressed, err := imaging.Compress(norm.Image, s.budget)
	if err != nil {
		log.WithError(err).Warn("Failed to compress image")
		return nil, err
	}
	for _, ratio := range compressed.Ratios {
		log.WithField("ratio", ratio).Warn("Resizing by ratio")
	}

	detection, err := s.detector.Detect(ctx, compressed.Data)
	if err != nil {
		log.WithError(err).Error("Text detection failed")
		return nil, err
	}

	lines := detection.Lines()
	result := &Result{
		Width:       norm.Width,
		Height:      norm.Height,
		Format:      norm.Format,
		Compression: compressed,
		Lines:       make([]string, 0, len(lines)),
		Boxes:       make([]imaging.PixelBox, 0, len(lines)),
		Detection:   detection,
	}
	for _, line := range lines {
		result.Lines = append(result.Lines, line.Text)
		result.Boxes = append(result.Boxes, imaging.ToPixelBox(line.Box, norm.Width, norm.Height))
	}

	result.Annotated = imaging.Annotate(norm.Image, result.Boxes, s.outline)

	result.URLs = s.extractor.FindURLs(strings.Join(result.Lines, " "))
	result.Links = s.Links(result.URLs)

	log.WithFields(logrus.Fields{
		"provider": detection.Provider,
		"lines":    len(result.Lines),
		"urls":     len(result.URLs),
		"resizes":  compressed.Iterations(),
	}).Info(result.Summary())

	return result, nil
}
