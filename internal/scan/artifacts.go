package scan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Download file names for the exported lists.
const (
	URLsFilename = "extracted_urls.json"
	TextFilename = "extracted_text.json"
)

// URLsJSON is the extracted URL list as a downloadable JSON document.
func (r *Result) URLsJSON() ([]byte, error) {
	return MarshalList(r.URLs)
}

// TextJSON is the LINE text list as a downloadable JSON document.
func (r *Result) TextJSON() ([]byte, error) {
	return MarshalList(r.Lines)
}

// MarshalList encodes items as a JSON array indented by four spaces, with
// every non-ASCII character escaped as \uXXXX (UTF-16, surrogate pairs above
// U+FFFF) and no trailing newline. A nil or empty list encodes as [].
func MarshalList(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	return escapeNonASCII(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func escapeNonASCII(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		switch {
		case r < 0x7f:
			out = append(out, b[0])
		case r > 0xFFFF:
			r -= 0x10000
			out = fmt.Appendf(out, `\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF))
		default:
			out = fmt.Appendf(out, `\u%04x`, r)
		}
		b = b[size:]
	}
	return out
}
