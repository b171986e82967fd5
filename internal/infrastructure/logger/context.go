package logger

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey is the gin context key under which the request ID is stored
const RequestIDKey = "request_id"

// FromGin returns a logger enriched with the request ID from the gin context
func FromGin(c *gin.Context, logger *zap.Logger) *zap.Logger {
	if id := c.GetString(RequestIDKey); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}
