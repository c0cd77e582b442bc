package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/user/movieexplorer/internal/network"
)

const requestIDKey = "request_id"

// RequestID 读取或生成 X-Request-ID，写回响应头，并放进请求 context 供出站请求使用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(network.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(network.RequestIDHeader, id)
		c.Request = c.Request.WithContext(network.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// GetRequestID 当前请求的 id
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
