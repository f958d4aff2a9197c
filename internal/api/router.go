package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxMultipartMemory bounds the in-memory part of an upload form.
const maxMultipartMemory = 32 << 20

// SetupRouter wires the handlers and middleware onto a new engine.
func SetupRouter(h *Handler, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory
	r.Use(requestLogger(log))
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	{
		scanRoutes := v1.Group("/scan")
		{
			scanRoutes.POST("", h.Scan)
			scanRoutes.POST("/annotated", h.Annotated)
			scanRoutes.POST("/download/urls", h.DownloadURLs)
			scanRoutes.POST("/download/text", h.DownloadText)
		}
	}

	return r
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Debug("Request served")
		}
	}
}
