package network

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// Interceptor 在每次尝试结束后观察请求与结果，只做副作用，不修改请求或响应。
// 返回的错误会直接交给调用方，跳过正常的成功/重试流程。
type Interceptor interface {
	Intercept(ctx context.Context, req *http.Request, resp *http.Response, body []byte, err error) error
}

// InterceptorFunc 函数形式的 Interceptor
type InterceptorFunc func(ctx context.Context, req *http.Request, resp *http.Response, body []byte, err error) error

func (f InterceptorFunc) Intercept(ctx context.Context, req *http.Request, resp *http.Response, body []byte, err error) error {
	return f(ctx, req, resp, body, err)
}

// LogLevel 日志拦截器的输出粒度
type LogLevel int

const (
	// LogVerbose 所有尝试，附带请求头和 body
	LogVerbose LogLevel = iota
	// LogInfo 只记录成功的尝试
	LogInfo
	// LogError 只记录失败的尝试
	LogError
)

// ParseLogLevel 未知值按 info 处理
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "verbose", "debug":
		return LogVerbose
	case "error":
		return LogError
	default:
		return LogInfo
	}
}

const maxLoggedBody = 2048

// LoggingInterceptor 打印请求日志
type LoggingInterceptor struct {
	level  LogLevel
	logger zerolog.Logger
}

func NewLoggingInterceptor(level LogLevel, logger zerolog.Logger) *LoggingInterceptor {
	return &LoggingInterceptor{level: level, logger: logger.With().Str("component", "network").Logger()}
}

func (l *LoggingInterceptor) Intercept(_ context.Context, req *http.Request, resp *http.Response, body []byte, err error) error {
	if !l.shouldLog(err) {
		return nil
	}

	event := l.logger.Info()
	if err != nil {
		event = l.logger.Warn().Err(err)
	}
	event = event.Str("method", req.Method).Str("url", req.URL.String())
	if resp != nil {
		event = event.Int("status", resp.StatusCode)
	}
	if l.level == LogVerbose {
		headers := zerolog.Dict()
		for k := range req.Header {
			if k == "Authorization" {
				headers = headers.Str(k, "<redacted>")
				continue
			}
			headers = headers.Str(k, req.Header.Get(k))
		}
		event = event.Dict("headers", headers).Int("response_bytes", len(body))
		if req.GetBody != nil {
			if rc, gerr := req.GetBody(); gerr == nil {
				payload, _ := io.ReadAll(io.LimitReader(rc, maxLoggedBody))
				rc.Close()
				event = event.Bytes("body", payload)
			}
		}
	}
	event.Msg("[HTTP] request finished")
	return nil
}

func (l *LoggingInterceptor) shouldLog(err error) bool {
	switch l.level {
	case LogVerbose:
		return true
	case LogInfo:
		return err == nil
	case LogError:
		return err != nil
	default:
		return false
	}
}
