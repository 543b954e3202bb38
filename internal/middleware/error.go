package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "ally/internal/errors"
	"ally/internal/logger"
)

// ErrorHandler converts errors attached to the Gin context into the
// {"error":{"code","message"}} envelope the budgeting client expects.
// AppErrors keep their own code and status (EXPENSE_NOT_FOUND,
// ALLOCATION_SUM, ...); anything else is logged with the request ID and
// masked as an internal error.
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
					"request_id", c.GetString(requestIDKey),
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			c.JSON(appErr.StatusCode, gin.H{
				"error": gin.H{
					"code":    appErr.Code,
					"message": appErr.Message,
				},
			})
			return
		}

		logger.Get().Errorw("unexpected error",
			"request_id", c.GetString(requestIDKey),
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
