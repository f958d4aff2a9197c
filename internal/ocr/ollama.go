package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/gerardrbentley/url-scan/internal/errs"
	"github.com/gerardrbentley/url-scan/internal/imaging"
)

// Ollama defaults.
const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llava"
)

const ollamaPrompt = `Read all text in this image, line by line from top to bottom.
Respond with JSON only, no prose, in exactly this form:
{"lines":[{"text":"<line text>","confidence":<0-100>,"box":{"x":<left>,"y":<top>,"w":<width>,"h":<height>}}]}
Box values are fractions of the image width and height between 0 and 1.
If there is no text respond with {"lines":[]}.`

// chatAPI is the subset of *api.Client used here.
type chatAPI interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// Ollama asks a local vision model to transcribe text lines with boxes.
// It reports LINE detections only.
type Ollama struct {
	client  chatAPI
	model   string
	timeout time.Duration
}

// NewOllama connects to the Ollama server at rawURL. Any path on the URL is
// ignored.
func NewOllama(rawURL, model string, timeout time.Duration) (*Ollama, error) {
	if rawURL == "" {
		rawURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid ollama URL %q: %w", rawURL, errs.ErrConfiguration)
	}
	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}

	return &Ollama{
		client:  api.NewClient(base, http.DefaultClient),
		model:   model,
		timeout: timeout,
	}, nil
}

type ollamaBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type ollamaLine struct {
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	Box        ollamaBox `json:"box"`
}

type ollamaResponse struct {
	Lines []ollamaLine `json:"lines"`
}

// Detect sends data with the transcription prompt and parses the reply.
func (o *Ollama) Detect(ctx context.Context, data []byte) (*Result, error) {
	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	stream := false
	req := &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: ollamaPrompt,
				Images:  []api.ImageData{api.ImageData(data)},
			},
		},
		Stream: &stream,
		Format: json.RawMessage(`"json"`),
	}

	var content strings.Builder
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, errs.Service(ProviderOllama, err)
	}

	raw := content.String()
	dets, err := parseOllamaLines(raw)
	if err != nil {
		return nil, errs.Service(ProviderOllama, err)
	}

	return &Result{
		Provider:     ProviderOllama,
		ModelVersion: o.model,
		Detections:   dets,
		Raw:          raw,
	}, nil
}

func parseOllamaLines(raw string) ([]Detection, error) {
	cleaned := sanitizeModelJSON(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return nil, fmt.Errorf("model returned non-JSON response: %.80q", raw)
	}

	var resp ollamaResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	dets := make([]Detection, 0, len(resp.Lines))
	for _, l := range resp.Lines {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		dets = append(dets, Detection{
			Text:       text,
			Kind:       KindLine,
			Box:        imaging.NormalizedBox{Left: l.Box.X, Top: l.Box.Y, Width: l.Box.W, Height: l.Box.H},
			Confidence: l.Confidence,
			ID:         len(dets),
		})
	}
	return dets, nil
}

var (
	reBlockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLineComment   = regexp.MustCompile(`(?m)^\s*//.*$`)
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// sanitizeModelJSON strips code fences, comments and trailing commas, and
// keeps only the outermost {...}.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.Trim(strings.TrimSpace(raw), "`")

	raw = reBlockComment.ReplaceAllString(raw, "")
	raw = reLineComment.ReplaceAllString(raw, "")
	raw = reTrailingComma.ReplaceAllString(raw, "$1")

	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
