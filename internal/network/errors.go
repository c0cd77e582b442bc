package network

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL 路径无法解析到 base URL 上
	ErrInvalidURL = errors.New("network: invalid url")
	// ErrInvalidResponse 传输层没有返回 HTTP 响应
	ErrInvalidResponse = errors.New("network: invalid response")
	// ErrNoData 响应 body 为空
	ErrNoData = errors.New("network: no data")
	// ErrRequestRetryFailed 需要重试但请求无法重放
	ErrRequestRetryFailed = errors.New("network: request retry failed")
	// ErrCancelled 调用方取消了请求
	ErrCancelled = errors.New("network: cancelled")
)

// URLError 带上无法解析的 URL
type URLError struct {
	URL string
	Err error
}

func (e *URLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network: invalid url %q: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("network: invalid url %q", e.URL)
}

func (e *URLError) Unwrap() error { return e.Err }

func (e *URLError) Is(target error) bool { return target == ErrInvalidURL }

// HTTPError 状态码未通过校验
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("network: http status %d", e.StatusCode)
}

// DecodingError 响应解码失败
type DecodingError struct {
	Err error
}

func (e *DecodingError) Error() string { return "network: decoding failed: " + e.Err.Error() }

func (e *DecodingError) Unwrap() error { return e.Err }

// EncodingError 参数编码失败
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string { return "network: encoding failed: " + e.Err.Error() }

func (e *EncodingError) Unwrap() error { return e.Err }

// AdaptationError adapter 处理请求失败，后续 adapter 不再执行
type AdaptationError struct {
	Err error
}

func (e *AdaptationError) Error() string {
	return "network: request adaptation failed: " + e.Err.Error()
}

func (e *AdaptationError) Unwrap() error { return e.Err }

// StatusCode 从错误链里取出 HTTP 状态码，没有时返回 0
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
