package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupLoggerRouter(t *testing.T, buf *bytes.Buffer, skip ...string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(true), Logger(newBufferLogger(t, buf), skip...))
	r.GET("/tags/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/missing", func(c *gin.Context) {
		_ = c.Error(errors.New("tag not found"))
		c.String(http.StatusNotFound, "missing")
	})
	r.GET("/boom", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "boom")
	})
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		path  string
		level string
	}{
		{"/tags/1", "INFO"},
		{"/missing", "WARN"},
		{"/boom", "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			perform(setupLoggerRouter(t, &buf), http.MethodGet, tt.path, nil)
			if !strings.Contains(buf.String(), tt.level) {
				t.Errorf("expected %s line, got:\n%s", tt.level, buf.String())
			}
		})
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	r := setupLoggerRouter(t, &buf)

	perform(r, http.MethodGet, "/tags/7", map[string]string{RequestIDHeader: "req-42"})

	out := buf.String()
	for _, want := range []string{"method=GET", "path=/tags/7", "route=/tags/:id", "status=200", "bytes=2", "latency=", "req-42"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestLogger_IncludesHandlerErrors(t *testing.T) {
	var buf bytes.Buffer
	perform(setupLoggerRouter(t, &buf), http.MethodGet, "/missing", nil)

	if !strings.Contains(buf.String(), "tag not found") {
		t.Errorf("expected handler error in:\n%s", buf.String())
	}
}

func TestLogger_SkipsPaths(t *testing.T) {
	var buf bytes.Buffer
	r := setupLoggerRouter(t, &buf, "/health")

	perform(r, http.MethodGet, "/health", nil)
	if buf.Len() != 0 {
		t.Errorf("expected no log for skipped path, got:\n%s", buf.String())
	}
}
