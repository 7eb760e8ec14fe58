package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pantry/backend/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Unexpected errors are logged and hidden behind a generic 500.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := errorResponse(err)
		if status == http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		c.AbortWithStatusJSON(status, body)
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	if verrs, ok := service.AsValidation(err); ok {
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verrs.Fields()}
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: service.ErrNotFound.Error()}
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: service.ErrUnauthenticated.Error()}
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInactiveUser),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
}
