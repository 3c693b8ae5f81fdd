// Package response writes the {status, data, details} envelope every endpoint answers with.
package response

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/social-network/backend/internal/apperrors"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Envelope struct {
	Status  string  `json:"status"`
	Data    any     `json:"data"`
	Details *string `json:"details"`
}

func details(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Success writes a success envelope. An empty details string is sent as null.
func Success(c *gin.Context, code int, data any, msg string) {
	c.JSON(code, Envelope{Status: StatusSuccess, Data: data, Details: details(msg)})
}

// Error writes an error envelope and aborts the chain. Unknown errors become a
// bare 500 whose cause is only logged.
func Error(c *gin.Context, err error) {
	appErr := apperrors.As(err)

	if errors.Is(appErr, apperrors.ErrStoreUnavailable) {
		slog.ErrorContext(c.Request.Context(), "Internal server error",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(appErr.HTTPCode, Envelope{Status: StatusError})
		return
	}

	slog.DebugContext(c.Request.Context(), "Request failed",
		"code", appErr.Code,
		"error", appErr.Message,
		"path", c.Request.URL.Path,
	)
	c.AbortWithStatusJSON(appErr.HTTPCode, Envelope{Status: StatusError, Details: details(appErr.Message)})
}
