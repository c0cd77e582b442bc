package network

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Adapter 发送前修改请求，例如注入鉴权头
type Adapter interface {
	Adapt(ctx context.Context, req *http.Request) (*http.Request, error)
}

// AdapterFunc 函数形式的 Adapter
type AdapterFunc func(ctx context.Context, req *http.Request) (*http.Request, error)

func (f AdapterFunc) Adapt(ctx context.Context, req *http.Request) (*http.Request, error) {
	return f(ctx, req)
}

// TokenProvider 返回当前可用的 token，空字符串表示不带鉴权头
type TokenProvider func(ctx context.Context) (string, error)

// StaticToken 固定 token
func StaticToken(token string) TokenProvider {
	return func(context.Context) (string, error) { return token, nil }
}

// AuthenticationAdapter 写入 Authorization: Bearer <token>
type AuthenticationAdapter struct {
	tokenProvider TokenProvider
}

func NewAuthenticationAdapter(provider TokenProvider) *AuthenticationAdapter {
	return &AuthenticationAdapter{tokenProvider: provider}
}

func (a *AuthenticationAdapter) Adapt(ctx context.Context, req *http.Request) (*http.Request, error) {
	token, err := a.tokenProvider(ctx)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// RequestIDHeader 出站请求的追踪头
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID 把入站请求的 id 带到出站请求上
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext 没有时返回空串
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDAdapter 为没有 X-Request-ID 的请求补上，优先使用 ctx 里的 id
type RequestIDAdapter struct{}

func (RequestIDAdapter) Adapt(ctx context.Context, req *http.Request) (*http.Request, error) {
	if req.Header.Get(RequestIDHeader) != "" {
		return req, nil
	}
	id := RequestIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, id)
	return req, nil
}

// RateLimitAdapter 每个请求发出前先等待令牌
type RateLimitAdapter struct {
	limiter *rate.Limiter
}

// NewRateLimitAdapter rps<=0 时不限速
func NewRateLimitAdapter(rps float64, burst int) *RateLimitAdapter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitAdapter{limiter: rate.NewLimiter(limit, burst)}
}

func (a *RateLimitAdapter) Adapt(ctx context.Context, req *http.Request) (*http.Request, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return req, nil
}
