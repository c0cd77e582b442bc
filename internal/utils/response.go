package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusClientClosedRequest 客户端在响应前断开（nginx 约定）
const StatusClientClosedRequest = 499

// requestIDHeader 由 middleware.RequestID 写入响应头
const requestIDHeader = "X-Request-ID"

// Response 统一API响应结构
type Response struct {
	Code      int    `json:"code"`                 // 状态码
	Message   string `json:"message"`              // 消息
	Data      any    `json:"data"`                 // 数据
	Success   bool   `json:"success"`              // 是否成功
	RequestID string `json:"request_id,omitempty"` // 与 X-Request-ID 相同
}

func write(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{
		Code:      code,
		Message:   message,
		Data:      data,
		Success:   code < http.StatusBadRequest,
		RequestID: c.Writer.Header().Get(requestIDHeader),
	})
}

// Success 返回成功响应
func Success(c *gin.Context, data any) {
	write(c, http.StatusOK, "success", data)
}

// SuccessWithMessage 返回成功响应并自定义消息
func SuccessWithMessage(c *gin.Context, message string, data any) {
	write(c, http.StatusOK, message, data)
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	write(c, code, message, nil)
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound 电影或收藏不存在
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "电影不存在"
	}
	Error(c, http.StatusNotFound, message)
}

// BadGateway 上游接口失败且没有缓存可用
func BadGateway(c *gin.Context, message string) {
	if message == "" {
		message = "电影数据服务不可用，且没有可用的缓存"
	}
	Error(c, http.StatusBadGateway, message)
}

// ClientClosed 客户端已断开，只记录状态码
func ClientClosed(c *gin.Context) {
	c.AbortWithStatus(StatusClientClosedRequest)
}

// InternalServerError 本地缓存读写失败
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "本地缓存读写失败"
	}
	Error(c, http.StatusInternalServerError, message)
}
