package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/courseforge/internal/http/response"
	"github.com/abhisek/courseforge/internal/logger"
)

// Recovery turns a handler panic into a 500 error envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		if log != nil {
			log.Error("panic in handler",
				"path", c.Request.URL.Path,
				"request_id", c.GetString(RequestIDKey),
				"panic", recovered,
			)
		}
		response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
	})
}
