// Package errs defines the failure taxonomy shared by the scan pipeline.
//
// Every failure that reaches the user-facing layers (HTTP API, MCP tools) is
// classified by one of the sentinel errors below. Callers wrap them with
// fmt.Errorf("...: %w", err) and classify with errors.Is.
//
//   - ErrDecode: uploaded bytes are not a supported image container
//   - ErrShrinkToZero: the compressor would have to shrink a dimension to zero
//   - ErrCompressionDiverged: the encoded size stopped decreasing while shrinking
//   - ErrService: the detection service or the URL pattern source failed
//   - ErrConfiguration: required settings are missing or malformed at startup
//
// None of these are retried by the pipeline.
package errs

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrDecode              = errors.New("unsupported or corrupt image")
	ErrShrinkToZero        = errors.New("image cannot shrink to fit byte budget")
	ErrCompressionDiverged = errors.New("compression did not converge")
	ErrService             = errors.New("service error")
	ErrConfiguration       = errors.New("configuration error")
)

// ServiceError records which external collaborator failed.
type ServiceError struct {
	Service string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Is reports ErrService for every ServiceError so callers can classify
// without knowing the provider.
func (e *ServiceError) Is(target error) bool { return target == ErrService }

// Service wraps err as a ServiceError for the named collaborator.
// A nil err returns nil.
func Service(service string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Service: service, Err: err}
}

// Timeout reports whether err came from an expired deadline.
func Timeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// Message returns the human-readable, request-scoped text shown to users.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDecode):
		return "Could not read the image. Upload a PNG or JPEG file."
	case errors.Is(err, ErrShrinkToZero), errors.Is(err, ErrCompressionDiverged):
		return "The image could not be compressed enough for text detection."
	case Timeout(err):
		return "Text detection timed out. Try again."
	case errors.Is(err, ErrService):
		return "Text detection service failed: " + err.Error()
	case errors.Is(err, ErrConfiguration):
		return "Server is misconfigured: " + err.Error()
	default:
		return err.Error()
	}
}
