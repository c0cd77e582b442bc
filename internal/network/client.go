package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Transport 发送 HTTP 请求，*http.Client 满足该接口
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// DecodeFunc 把响应 body 解码到 v
type DecodeFunc func(data []byte, v any) error

// Configuration 客户端配置，构造后不再修改
type Configuration struct {
	BaseURL        *url.URL
	Transport      Transport
	Decode         DecodeFunc
	Adapters       []Adapter
	Interceptors   []Interceptor
	Retrier        Retrier
	Validator      Validator
	DefaultHeaders Headers
}

// Executor 仓库层依赖的最小接口
type Executor interface {
	Execute(ctx context.Context, r Request) ([]byte, error)
	ExecuteInto(ctx context.Context, r Request, v any) error
}

// Client 组合 RequestBuilder、中间件和传输层。除了只读配置外没有共享状态，可以并发使用。
type Client struct {
	cfg     Configuration
	builder *RequestBuilder
}

// NewClient 未指定 Transport 时使用 http.DefaultClient，未指定 Decode 时使用 encoding/json
func NewClient(cfg Configuration) (*Client, error) {
	if cfg.BaseURL == nil {
		return nil, &URLError{URL: ""}
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultClient
	}
	if cfg.Decode == nil {
		cfg.Decode = json.Unmarshal
	}
	headers := make(Headers, len(cfg.DefaultHeaders))
	for k, v := range cfg.DefaultHeaders {
		headers[k] = v
	}
	cfg.DefaultHeaders = headers
	cfg.Adapters = append([]Adapter(nil), cfg.Adapters...)
	cfg.Interceptors = append([]Interceptor(nil), cfg.Interceptors...)

	return &Client{cfg: cfg, builder: NewRequestBuilder(cfg.BaseURL)}, nil
}

// Execute 返回成功响应的原始 body
func (c *Client) Execute(ctx context.Context, r Request) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}

	req, err := c.builder.Build(ctx, r, c.cfg.DefaultHeaders)
	if err != nil {
		return nil, err
	}

	req, err = c.adapt(ctx, req)
	if err != nil {
		return nil, err
	}

	return c.executeWithRetry(ctx, req, r)
}

// ExecuteInto 执行请求并把 body 解码到 v，body 为空时返回 ErrNoData
func (c *Client) ExecuteInto(ctx context.Context, r Request, v any) error {
	data, err := c.Execute(ctx, r)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrNoData
	}
	if err := c.cfg.Decode(data, v); err != nil {
		return &DecodingError{Err: err}
	}
	return nil
}

// Execute 泛型版本的 ExecuteInto
func Execute[T any](ctx context.Context, e Executor, r Request) (T, error) {
	var out T
	err := e.ExecuteInto(ctx, r, &out)
	return out, err
}

func (c *Client) adapt(ctx context.Context, req *http.Request) (*http.Request, error) {
	for _, adapter := range c.cfg.Adapters {
		adapted, err := adapter.Adapt(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrCancelled
			}
			return nil, &AdaptationError{Err: err}
		}
		if adapted != nil {
			req = adapted
		}
	}
	return req, nil
}

func (c *Client) executeWithRetry(ctx context.Context, req *http.Request, r Request) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		body, resp, err := c.attempt(ctx, req, r)

		if ierr := c.intercept(ctx, req, resp, body, err); ierr != nil {
			return nil, ierr
		}
		if err == nil {
			return body, nil
		}

		if c.cfg.Retrier == nil || !c.cfg.Retrier.ShouldRetry(ctx, req, resp, err, attempt) {
			// 等待重试期间被取消
			if ctx.Err() != nil {
				return nil, ErrCancelled
			}
			return nil, err
		}
		if req.Body != nil && req.GetBody == nil {
			return nil, ErrRequestRetryFailed
		}
	}
}

func (c *Client) attempt(ctx context.Context, req *http.Request, r Request) ([]byte, *http.Response, error) {
	timeout := r.Timeout()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wire := req.Clone(attemptCtx)
	if req.GetBody != nil {
		rc, err := req.GetBody()
		if err != nil {
			return nil, nil, fmt.Errorf("network: rewind body: %w", err)
		}
		wire.Body = rc
	}

	resp, err := c.cfg.Transport.Do(wire)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, nil, ErrCancelled
		}
		return nil, nil, err
	}
	if resp == nil {
		return nil, nil, ErrInvalidResponse
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, nil, ErrCancelled
		}
		return nil, nil, err
	}

	if err := c.validate(req, resp, body); err != nil {
		return body, resp, err
	}
	return body, resp, nil
}

func (c *Client) validate(req *http.Request, resp *http.Response, body []byte) error {
	if c.cfg.Validator != nil {
		return c.cfg.Validator.Validate(req, resp, body)
	}
	return DefaultValidator().Validate(req, resp, body)
}

func (c *Client) intercept(ctx context.Context, req *http.Request, resp *http.Response, body []byte, err error) error {
	for _, interceptor := range c.cfg.Interceptors {
		if ierr := interceptor.Intercept(ctx, req, resp, body, err); ierr != nil {
			return ierr
		}
	}
	return nil
}
