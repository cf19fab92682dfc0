package middleware

import (
	"time"

	"blog-server/internal/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func LogRequest() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		entry := log.WithFields(log.Fields{
			"traceId": utils.TraceIdFromContext(ctx),
			"service": utils.ExtractServiceName(),
		})
		utils.LogEntry(entry, "info", "Request received: "+ctx.Request.Method+" "+ctx.Request.URL.Path)

		ctx.Next()

		entry.WithFields(log.Fields{
			"status":   ctx.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("Request handled")
	}
}
