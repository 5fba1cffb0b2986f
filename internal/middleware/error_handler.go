package middleware

import (
	"net/http"

	"brightnest-properties/internal/errors"
	"brightnest-properties/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers from panics and translates errors attached to
// the gin context into JSON responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.GlobalLogger.Errorf("panic recovered: %v", r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Something went wrong. Please try again later.",
				})
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			appErr := errors.MapError(c.Errors.Last().Err)
			c.JSON(appErr.HTTPStatus, gin.H{
				"code":    appErr.Code,
				"message": appErr.UserMessage,
			})
		}
	}
}
