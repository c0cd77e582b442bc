package network

import "net/http"

// Validator 判断一个传输成功的响应在业务上是否成功
type Validator interface {
	Validate(req *http.Request, resp *http.Response, body []byte) error
}

// StatusCodeValidator 状态码落在 [Min, Max) 之内视为成功
type StatusCodeValidator struct {
	Min int
	Max int
}

// DefaultValidator 接受 2xx
func DefaultValidator() StatusCodeValidator {
	return StatusCodeValidator{Min: 200, Max: 300}
}

func (v StatusCodeValidator) Validate(_ *http.Request, resp *http.Response, body []byte) error {
	if resp.StatusCode < v.Min || resp.StatusCode >= v.Max {
		return &HTTPError{StatusCode: resp.StatusCode, Body: body}
	}
	return nil
}
