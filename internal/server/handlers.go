package server

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) serveFile(c *gin.Context) {
	target := c.Request.RequestURI
	if target == "" {
		target = c.Request.URL.RequestURI()
	}

	absolutePath, err := s.resolver.Resolve(target)
	if err != nil {
		s.respondError(c, err)
		return
	}

	// The file may vanish between resolution and open.
	file, err := os.Open(absolutePath)
	if err != nil {
		s.respondError(c, ErrNotFound)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		s.respondError(c, ErrNotFound)
		return
	}

	c.DataFromReader(http.StatusOK, info.Size(), contentTypeFor(absolutePath), file, nil)
}

func (s *Server) respondError(c *gin.Context, err error) {
	if err == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	var httpErr *httpError
	if errors.As(err, &httpErr) {
		if httpErr.Status >= http.StatusInternalServerError {
			s.logger.Error("server error", "error", err)
		}

		c.String(httpErr.Status, httpErr.Message)
		c.Abort()
		return
	}

	s.logger.Error("unexpected error", "error", err)
	c.String(http.StatusInternalServerError, "internal server error")
	c.Abort()
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelDebug
		}

		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.RequestURI,
			"status", status,
			"bytes", c.Writer.Size(),
			"latency", time.Since(start),
		)
	}
}
