package network

import "time"

type testRequest struct {
	path     string
	method   Method
	headers  Headers
	encoders []Encoder
	base     string
	timeout  time.Duration
}

func (r testRequest) Path() string {
	return r.path
}

func (r testRequest) Method() Method {
	if r.method == "" {
		return MethodGet
	}
	return r.method
}

func (r testRequest) Headers() Headers    { return r.headers }
func (r testRequest) Encoders() []Encoder { return r.encoders }
func (r testRequest) BaseURL() string     { return r.base }

func (r testRequest) Timeout() time.Duration {
	if r.timeout == 0 {
		return DefaultTimeout
	}
	return r.timeout
}
