package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gerardrbentley/url-scan/internal/errs"
)

func sampleDetections() []Detection {
	parent := 0
	return []Detection{
		{Text: "visit example.com", Kind: KindLine, ID: 0},
		{Text: "visit", Kind: KindWord, ID: 1, ParentID: &parent},
		{Text: "example.com", Kind: KindWord, ID: 2, ParentID: &parent},
		{Text: "now", Kind: KindLine, ID: 3},
		{Text: "?", Kind: KindOther, ID: 4},
	}
}

func TestFilterKind(t *testing.T) {
	dets := sampleDetections()

	tests := []struct {
		kind    Kind
		wantIDs []int
	}{
		{KindLine, []int{0, 3}},
		{KindWord, []int{1, 2}},
		{KindOther, []int{4}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := FilterKind(dets, tt.kind)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d detections, want %d", len(got), len(tt.wantIDs))
			}
			for i, d := range got {
				if d.ID != tt.wantIDs[i] {
					t.Errorf("detection %d: got ID %d, want %d", i, d.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestFilterKind_Empty(t *testing.T) {
	got := FilterKind(nil, KindLine)
	if got == nil {
		t.Error("FilterKind should return an empty, non-nil slice")
	}
}

func TestResult_Lines(t *testing.T) {
	r := &Result{Detections: sampleDetections()}
	lines := r.Lines()
	if len(lines) != 2 || lines[0].Text != "visit example.com" || lines[1].Text != "now" {
		t.Errorf("Lines: got %+v", lines)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		provider string
		wantType string
		wantErr  bool
	}{
		{"tesseract", "*ocr.Tesseract", false},
		{"Tesseract", "*ocr.Tesseract", false},
		{"ollama", "*ocr.Ollama", false},
		{"azure", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, err := New(context.Background(), Options{Provider: tt.provider})
			if tt.wantErr {
				if !errors.Is(err, errs.ErrConfiguration) {
					t.Errorf("got %v, want ErrConfiguration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			switch d.(type) {
			case *Tesseract:
				if tt.wantType != "*ocr.Tesseract" {
					t.Errorf("got Tesseract, want %s", tt.wantType)
				}
			case *Ollama:
				if tt.wantType != "*ocr.Ollama" {
					t.Errorf("got Ollama, want %s", tt.wantType)
				}
			default:
				t.Errorf("unexpected detector type %T", d)
			}
		})
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := withTimeout(context.Background(), 0)
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("context without deadline should get the default timeout")
	}
	if remaining := time.Until(deadline); remaining > DefaultTimeout || remaining < DefaultTimeout-time.Second {
		t.Errorf("remaining %v, want about %v", remaining, DefaultTimeout)
	}

	ctx, cancel = withTimeout(context.Background(), 5*time.Second)
	defer cancel()
	deadline, _ = ctx.Deadline()
	if time.Until(deadline) > 5*time.Second {
		t.Error("configured timeout should be used")
	}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Hour)
	defer parentCancel()
	want, _ := parent.Deadline()
	ctx, cancel = withTimeout(parent, time.Second)
	defer cancel()
	if got, _ := ctx.Deadline(); !got.Equal(want) {
		t.Error("an existing deadline should be kept")
	}
}
