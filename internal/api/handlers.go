package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gerardrbentley/url-scan/internal/errs"
	"github.com/gerardrbentley/url-scan/internal/imaging"
	"github.com/gerardrbentley/url-scan/internal/scan"
)

// allowedExtensions are the upload types accepted.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// errUnsupportedType marks uploads rejected by extension.
var errUnsupportedType = errors.New("unsupported upload type")

// Scanner runs the pipeline; *scan.Scanner implements it.
type Scanner interface {
	Scan(ctx context.Context, data []byte) (*scan.Result, error)
}

// Handler serves the scan routes.
type Handler struct {
	scanner  Scanner
	provider string
	log      logrus.FieldLogger
}

// NewHandler returns a Handler. provider is reported by /health.
func NewHandler(scanner Scanner, provider string, log logrus.FieldLogger) *Handler {
	return &Handler{scanner: scanner, provider: provider, log: log}
}

// scanResponse is the JSON body of POST /api/v1/scan.
type scanResponse struct {
	Summary string `json:"summary"`
	*scan.Result
	Annotated *imaging.EncodedImage `json:"annotated,omitempty"`
}

// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "provider": h.provider})
}

// POST /api/v1/scan
func (h *Handler) Scan(c *gin.Context) {
	result, ok := h.runScan(c)
	if !ok {
		return
	}

	resp := scanResponse{Summary: result.Summary(), Result: result}
	if c.Query("include_image") == "true" {
		enc, err := imaging.Encode(result.Annotated, "png")
		if err != nil {
			h.fail(c, err)
			return
		}
		resp.Annotated = enc.WithBase64()
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/scan/annotated
func (h *Handler) Annotated(c *gin.Context) {
	format := c.DefaultQuery("format", "png")
	switch strings.ToLower(format) {
	case "png", "webp", "jpg", "jpeg":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be png, webp or jpeg"})
		return
	}

	result, ok := h.runScan(c)
	if !ok {
		return
	}

	enc, err := imaging.Encode(result.Annotated, format)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("X-URL-Scan-Summary", result.Summary())
	c.Data(http.StatusOK, enc.MimeType, enc.Data)
}

// POST /api/v1/scan/download/urls
func (h *Handler) DownloadURLs(c *gin.Context) {
	h.download(c, scan.URLsFilename, (*scan.Result).URLsJSON)
}

// POST /api/v1/scan/download/text
func (h *Handler) DownloadText(c *gin.Context) {
	h.download(c, scan.TextFilename, (*scan.Result).TextJSON)
}

func (h *Handler) download(c *gin.Context, filename string, marshal func(*scan.Result) ([]byte, error)) {
	result, ok := h.runScan(c)
	if !ok {
		return
	}

	data, err := marshal(result)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/json", data)
}

// runScan reads the "file" upload and scans it. On failure the error
// response has been written and ok is false.
func (h *Handler) runScan(c *gin.Context) (*scan.Result, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return nil, false
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		h.fail(c, fmt.Errorf("%w: %q (allowed: png, jpg, jpeg)", errUnsupportedType, fh.Filename))
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(c, fmt.Errorf("failed to open upload: %w", err))
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.fail(c, fmt.Errorf("failed to read upload: %w", err))
		return nil, false
	}

	result, err := h.scanner.Scan(c.Request.Context(), data)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return result, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("status", status).Error("Scan failed")
	}
	message := errs.Message(err)
	if errors.Is(err, errUnsupportedType) {
		message = "Upload a PNG or JPEG image."
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, errs.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrShrinkToZero), errors.Is(err, errs.ErrCompressionDiverged):
		return http.StatusUnprocessableEntity
	case errs.Timeout(err):
		return http.StatusGatewayTimeout
	case errors.Is(err, errs.ErrService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
