package network

import (
	"net/http"
	"time"
)

// Method HTTP 请求方法
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
	MethodPatch  Method = http.MethodPatch
)

// supportsURLQuery 只有 GET/DELETE 把参数编码进查询串
func (m Method) supportsURLQuery() bool {
	return m == MethodGet || m == MethodDelete
}

// Headers 请求头，键为头名称
type Headers map[string]string

// DefaultTimeout 单次请求的默认超时
const DefaultTimeout = 60 * time.Second

// Request 描述一个接口请求。每次调用都重新构造，不共享可变状态。
type Request interface {
	// Path 相对路径，会拼接在 base URL 之后
	Path() string
	Method() Method
	// Headers 覆盖默认请求头，同名时以这里为准
	Headers() Headers
	// Encoders 按顺序作用在请求上
	Encoders() []Encoder
	// BaseURL 非空时替代客户端配置的 base URL
	BaseURL() string
	Timeout() time.Duration
}

// RequestDefaults 嵌入到具体请求类型里，提供可选字段的默认实现
type RequestDefaults struct{}

func (RequestDefaults) Headers() Headers       { return nil }
func (RequestDefaults) Encoders() []Encoder    { return nil }
func (RequestDefaults) BaseURL() string        { return "" }
func (RequestDefaults) Timeout() time.Duration { return DefaultTimeout }
