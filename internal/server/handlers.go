package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gerardrbentley/url-scan/internal/errs"
	"github.com/gerardrbentley/url-scan/internal/imaging"
	"github.com/gerardrbentley/url-scan/internal/scan"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "url_scan", "url_extract").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errInvalidArgs marks tool arguments that are missing or malformed.
var errInvalidArgs = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// whose data carries the user-facing message from errs.Message.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, errInvalidArgs) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		s.log.WithError(err).WithField("tool", params.Name).Warn("Tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", errs.Message(err))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "url_scan":
		return s.handleURLScan(ctx, args)
	case "url_extract":
		return s.handleURLExtract(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_compress":
		return s.handleImageCompress(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// === Scan Handlers ===

var scanExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

type urlScanArgs struct {
	Path         string `json:"path"`
	ImageBase64  string `json:"image_base64"`
	IncludeImage bool   `json:"include_image"`
}

type urlScanResult struct {
	Summary string `json:"summary"`
	*scan.Result
	Annotated *imaging.EncodedImage `json:"annotated,omitempty"`
}

func (s *Server) handleURLScan(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a urlScanArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	data, err := a.imageBytes()
	if err != nil {
		return nil, err
	}

	result, err := s.scanner.Scan(ctx, data)
	if err != nil {
		return nil, err
	}

	out := &urlScanResult{Summary: result.Summary(), Result: result}
	if a.IncludeImage {
		encoded, err := imaging.Encode(result.Annotated, "png")
		if err != nil {
			return nil, err
		}
		out.Annotated = encoded.WithBase64()
	}
	return out, nil
}

// imageBytes resolves the image from exactly one of path or image_base64.
func (a *urlScanArgs) imageBytes() ([]byte, error) {
	switch {
	case a.Path != "" && a.ImageBase64 != "":
		return nil, fmt.Errorf("%w: give path or image_base64, not both", errInvalidArgs)
	case a.Path != "":
		ext := strings.ToLower(filepath.Ext(a.Path))
		if !scanExtensions[ext] {
			return nil, fmt.Errorf("unsupported image type %q (allowed: png, jpg, jpeg)", ext)
		}
		_, data, err := imaging.Open(a.Path)
		return data, err
	case a.ImageBase64 != "":
		data, err := base64.StdEncoding.DecodeString(a.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("%w: image_base64: %v", errInvalidArgs, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: path or image_base64 is required", errInvalidArgs)
	}
}

type urlExtractArgs struct {
	Text string `json:"text"`
}

type urlExtractResult struct {
	URLs  []string    `json:"urls"`
	Links []scan.Link `json:"links"`
}

func (s *Server) handleURLExtract(args json.RawMessage) (interface{}, error) {
	var a urlExtractArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	found := s.scanner.Extractor().FindURLs(a.Text)
	return &urlExtractResult{URLs: found, Links: s.scanner.Links(found)}, nil
}

// === Image Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (a *imagePathArgs) open() (*imaging.Normalized, []byte, error) {
	if a.Path == "" {
		return nil, nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	return imaging.Open(a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	norm, data, err := a.open()
	if err != nil {
		return nil, err
	}
	return norm.Info(len(data)), nil
}

type imageCompressArgs struct {
	imagePathArgs
	Limit int `json:"limit"`
}

func (s *Server) handleImageCompress(args json.RawMessage) (interface{}, error) {
	var a imageCompressArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Limit == 0 {
		a.Limit = s.scanner.ByteBudget()
	}
	norm, _, err := a.open()
	if err != nil {
		return nil, err
	}
	return imaging.Compress(norm.Image, a.Limit)
}
