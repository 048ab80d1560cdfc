package middleware

import (
	"net/http"

	"quillbit/blog-api/pkg/guard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewSQLInjectionMiddleware classifies the endpoint through the policy
// table and applies the tier's pattern checks to query parameters
// and/or body. Content endpoints pass through untouched, their prose
// would trip the patterns constantly.
func NewSQLInjectionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch guard.Classify(c.Request.URL.Path) {
		case guard.TierContent:

		case guard.TierStrict:
			if queryParamsMatch(c, guard.ContainsSQLInjection) {
				rejectQueryParams(c)
				return
			}

			if mutatingMethods[c.Request.Method] && guard.ContainsSQLInjection(string(readAndRestoreBody(c))) {
				logInjection(c, "request body")
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request data",
					"message": "The request body contains illegal characters",
				})
				return
			}

		case guard.TierModerate:
			if mutatingMethods[c.Request.Method] && guard.ContainsCriticalSQL(string(readAndRestoreBody(c))) {
				logInjection(c, "request body")
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":   "Dangerous SQL detected",
					"message": "The request contains dangerous SQL patterns",
				})
				return
			}

		default:
			if queryParamsMatch(c, guard.ContainsSQLInjection) {
				rejectQueryParams(c)
				return
			}
		}

		c.Next()
	}
}

func queryParamsMatch(c *gin.Context, match func(string) bool) bool {
	for _, values := range c.Request.URL.Query() {
		for _, v := range values {
			if match(v) {
				return true
			}
		}
	}
	return false
}

func rejectQueryParams(c *gin.Context) {
	logInjection(c, "URL params")
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request parameters",
		"message": "The request parameters contain illegal characters",
	})
}

func logInjection(c *gin.Context, where string) {
	zap.L().Warn("Blocked SQL injection attempt",
		zap.String("in", where),
		zap.String("path", c.Request.URL.Path),
		zap.String("requestID", c.GetString("requestID")),
	)
}
