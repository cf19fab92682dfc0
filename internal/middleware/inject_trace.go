package middleware

import (
	"blog-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// InjectTrace assigns every request a trace id. It is stored in the gin context, in the request
// context handed to the managers and echoed in the X-Trace-Id response header.
func InjectTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := utils.GenerateTraceId()
		c.Set(utils.TraceIdKey.String(), traceId)
		c.Request = c.Request.WithContext(utils.WithTraceId(c.Request.Context(), traceId))
		c.Header("X-Trace-Id", traceId)
		c.Next()
	}
}
