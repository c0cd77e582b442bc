package network

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// RequestBuilder 把 Request 转成 *http.Request
type RequestBuilder struct {
	baseURL *url.URL
}

// NewRequestBuilder 创建构建器，base URL 的路径会补齐结尾的 /
func NewRequestBuilder(baseURL *url.URL) *RequestBuilder {
	return &RequestBuilder{baseURL: withTrailingSlash(baseURL)}
}

// Build 先写默认头再写请求自身的头，同名以后者为准，然后依次执行 encoder。
func (b *RequestBuilder) Build(ctx context.Context, r Request, defaultHeaders Headers) (*http.Request, error) {
	target, err := b.resolve(r)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, string(r.Method()), target.String(), nil)
	if err != nil {
		return nil, &URLError{URL: target.String(), Err: err}
	}

	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range r.Headers() {
		req.Header.Set(k, v)
	}

	for _, enc := range r.Encoders() {
		if err := enc.encode(req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (b *RequestBuilder) resolve(r Request) (*url.URL, error) {
	base := b.baseURL
	if override := r.BaseURL(); override != "" {
		parsed, err := url.Parse(override)
		if err != nil {
			return nil, &URLError{URL: override, Err: err}
		}
		base = withTrailingSlash(parsed)
	}
	if base == nil || base.Scheme == "" || base.Host == "" {
		raw := ""
		if base != nil {
			raw = base.String()
		}
		return nil, &URLError{URL: raw + r.Path()}
	}

	ref, err := url.Parse(r.Path())
	if err != nil {
		return nil, &URLError{URL: r.Path(), Err: err}
	}
	return base.ResolveReference(ref), nil
}

func withTrailingSlash(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	clone := *u
	if !strings.HasSuffix(clone.Path, "/") {
		clone.Path += "/"
		if clone.RawPath != "" {
			clone.RawPath += "/"
		}
	}
	return &clone
}
