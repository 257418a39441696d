package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookstore-api/pkg/metrics"
)

// Metrics HTTP请求指标
// path标签使用路由模板(/books/:isbn),避免ISBN造成标签基数爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer metrics.TrackHTTPInFlight()()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), start)
	}
}
