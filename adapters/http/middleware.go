package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-api/pkg/logger"
)

const (
	HeaderRequestID     = "X-Request-ID"
	GinContextRequestID = "requestID"
)

// RequestID tags each request with an identifier that is echoed back to the
// client and attached to every log line for the request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(GinContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func requestIDFromGinContext(c *gin.Context) string {
	if id, ok := c.Get(GinContextRequestID); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// RequestLogger writes one structured access line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", requestIDFromGinContext(c)))
	}
}

// CORS allows any origin and answers preflight with 200 and an empty body
// before any handler runs.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Content-Type"},
		OptionsResponseStatusCode: http.StatusOK,
		MaxAge:                    12 * time.Hour,
	})
}
