package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

func apiKeyMiddleware(expected string) gin.HandlerFunc {
	want := []byte(expected)
	return func(c *gin.Context) {
		got := c.GetHeader(apiKeyHeader)
		if got == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing api key", nil))
			return
		}
		if len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid api key", nil))
			return
		}
		c.Next()
	}
}
