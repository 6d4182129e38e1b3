package middleware

import (
	"github.com/gin-gonic/gin"
)

const responseMetaKey = "responseMeta"

// ResponseMeta gives handlers a fresh per-request metadata map. Handlers that want
// the map in their response pass Meta(c) to response.JSON themselves; nothing is
// added once the handler has written the body.
func ResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, make(map[string]interface{}))
		c.Next()
	}
}

// SetCacheHit records whether the response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	Meta(c)["cache_hit"] = hit
}

// Meta returns the request's metadata map, creating it on first use.
func Meta(c *gin.Context) map[string]interface{} {
	if value, ok := c.Get(responseMetaKey); ok {
		if meta, ok := value.(map[string]interface{}); ok {
			return meta
		}
	}
	meta := make(map[string]interface{})
	c.Set(responseMetaKey, meta)
	return meta
}
