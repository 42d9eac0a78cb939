package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "upcache/internal/errors"
	"upcache/internal/logger"
	"upcache/internal/upbank"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into consistent JSON error responses. AppErrors are returned with
// their code and message; raw Up API error documents surface their upstream
// detail; anything else is logged and returns a generic internal error to
// avoid leaking details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			body := gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			}
			// Attach the bank's structured errors when the failure originated
			// upstream so callers can see what the API rejected.
			var apiErr *upbank.APIError
			if errors.As(err, &apiErr) {
				body["upstream_errors"] = apiErr.Errors
			}
			c.JSON(appErr.StatusCode, gin.H{"error": body})
			return
		}

		var apiErr *upbank.APIError
		if errors.As(err, &apiErr) {
			logger.Get().Errorw("bank api error",
				"status", apiErr.HTTPStatus,
				"path", c.Request.URL.Path,
			)
			c.JSON(apperrors.ErrBankAPI.StatusCode, gin.H{
				"error": gin.H{
					"code":            apperrors.ErrBankAPI.Code,
					"message":         apperrors.ErrBankAPI.Message,
					"upstream_errors": apiErr.Errors,
				},
			})
			return
		}

		// Unexpected error: log full details, return generic message
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
			"error": gin.H{
				"code":    apperrors.ErrInternalServer.Code,
				"message": apperrors.ErrInternalServer.Message,
			},
		})
	}
}
