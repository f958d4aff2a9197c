// Package server implements the MCP (Model Context Protocol) server for URL
// scanning.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line, and exposes
// the same pipeline as the HTTP API so MCP clients can pull URLs out of
// screenshots and photos.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - url_scan: Detect text lines in an image and extract URLs
//   - url_extract: Extract URLs from plain text
//   - image_dimensions: Upright dimensions and format of an image file
//   - image_compress: Fit an image into a byte budget, losslessly
//
// # Error Handling
//
// Malformed arguments return code -32602. Pipeline failures return code -32000
// with the user-facing message in data; the full error is logged.
//
// # Usage
//
//	srv := server.New(scanner, log)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
