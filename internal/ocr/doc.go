// Package ocr finds lines and words of text in images through pluggable
// detection providers.
//
// Every provider implements Detector:
//
//   - Rekognition: AWS Rekognition DetectText (the default). Images are sent
//     inline, so they must already fit the 5 MiB payload limit.
//   - Tesseract: local libtesseract via gosseract, with grayscale and contrast
//     preprocessing (bild). Reports LINE and WORD detections.
//   - Ollama: a local vision model prompted to return JSON text lines with
//     normalized boxes. Reports LINE detections only.
//
// # Prerequisites
//
// The Tesseract provider needs Tesseract and its language data installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Boxes
//
// Detection boxes are normalized (fractions of image width and height) no
// matter what the provider reports natively; use imaging.ToPixelBox to map
// them onto an image.
//
// # Timeouts and Errors
//
// Each Detect call is bounded by the provider's configured timeout, or
// DefaultTimeout (30s), when the context has no deadline of its own. Providers
// make exactly one outbound call and never retry. All failures are returned
// as *errs.ServiceError, so errors.Is(err, errs.ErrService) holds; a deadline
// expiry additionally satisfies errs.Timeout.
package ocr
