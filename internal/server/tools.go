package server

import (
	"github.com/gerardrbentley/url-scan/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Scanning
		{
			Name:        "url_scan",
			Description: "Detect the lines of text in a PNG or JPEG image and extract every URL they contain. Returns the lines, the URLs, their pixel boxes and a summary. Give either path or image_base64.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a .png, .jpg or .jpeg file",
					},
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded image bytes, used instead of path",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the annotated image (detected lines outlined) as base64 PNG",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "url_extract",
			Description: "Extract URLs from plain text using the same rules as url_scan. Duplicates are kept in order of appearance.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text to search",
					},
				},
				"required": []string{"text"},
			},
		},

		// Image Preparation
		{
			Name:        "image_dimensions",
			Description: "Get the upright width, height, format and color depth of an image file after EXIF orientation is applied.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_compress",
			Description: "Losslessly encode an image as PNG, shrinking its dimensions until it fits a byte limit. Reports the final size, dimensions and every resize ratio applied.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum encoded size in bytes",
						"default":     imaging.DefaultByteBudget,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
