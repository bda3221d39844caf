package middleware

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

var (
	upstreamIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)
	fallbackSeq       atomic.Uint64
)

// RequestID tags every request with an id. The id is echoed in the
// X-Request-ID response header, stored on the gin context, and attached to
// the request context so every log line written with it carries request_id.
//
// A well-formed incoming X-Request-ID is reused only when trustUpstream is
// set, as it is behind a proxy that assigns ids.
func RequestID(trustUpstream bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		if trustUpstream {
			if in := c.GetHeader(RequestIDHeader); upstreamIDPattern.MatchString(in) {
				id = in
			}
		}
		if id == "" {
			id = newRequestID()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(
			logger.WithContextAttrs(c.Request.Context(), slog.String(requestIDKey, id)),
		)

		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func newRequestID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
		binary.BigEndian.PutUint64(b[8:], fallbackSeq.Add(1))
	}
	return hex.EncodeToString(b[:])
}
