package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"phoneshop-backend/internal/shared/response"
	"phoneshop-backend/pkg/logger"
)

// Recovery turns a handler panic into a 500 envelope instead of dropping the
// connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorFields("Request panicked", fmt.Errorf("%v", rec),
					map[string]interface{}{
						"request_id": c.GetString("request_id"),
						"path":       c.Request.URL.Path,
					})

				response.InternalServerError(c, "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
