package errs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestServiceError_Is(t *testing.T) {
	err := Service("rekognition", errors.New("throttled"))

	if !errors.Is(err, ErrService) {
		t.Fatal("ServiceError should match ErrService")
	}
	if errors.Is(err, ErrDecode) {
		t.Error("ServiceError should not match ErrDecode")
	}

	wrapped := fmt.Errorf("detect: %w", err)
	var se *ServiceError
	if !errors.As(wrapped, &se) {
		t.Fatal("errors.As should find the ServiceError")
	}
	if se.Service != "rekognition" {
		t.Errorf("Service: got %q, want rekognition", se.Service)
	}
	if !strings.Contains(wrapped.Error(), "throttled") {
		t.Errorf("message lost cause: %q", wrapped.Error())
	}
}

func TestService_Nil(t *testing.T) {
	if err := Service("x", nil); err != nil {
		t.Errorf("Service(nil) = %v, want nil", err)
	}
}

func TestTimeout(t *testing.T) {
	err := Service("ollama", fmt.Errorf("chat: %w", context.DeadlineExceeded))
	if !Timeout(err) {
		t.Error("deadline inside a ServiceError should report Timeout")
	}
	if !errors.Is(err, ErrService) {
		t.Error("timeout should still be a ServiceError")
	}
	if Timeout(errors.New("other")) {
		t.Error("plain error is not a timeout")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"decode", fmt.Errorf("normalize: %w", ErrDecode), "Could not read the image"},
		{"shrink", ErrShrinkToZero, "could not be compressed"},
		{"diverged", ErrCompressionDiverged, "could not be compressed"},
		{"timeout", Service("rekognition", context.DeadlineExceeded), "timed out"},
		{"service", Service("rekognition", errors.New("boom")), "boom"},
		{"config", fmt.Errorf("%w: AWS_REGION is required", ErrConfiguration), "AWS_REGION"},
		{"other", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Message(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Message: got %q, want substring %q", got, tt.want)
			}
		})
	}
}
