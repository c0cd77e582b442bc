package network

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Retrier 只在失败时被调用，决定是否重试。attempt 从 0 开始。
type Retrier interface {
	ShouldRetry(ctx context.Context, req *http.Request, resp *http.Response, err error, attempt int) bool
}

// RetryPolicy 固定间隔重试
type RetryPolicy struct {
	maxRetryCount        int
	retryableStatusCodes map[int]struct{}
	retryDelay           time.Duration
}

// RetryOption 修改 RetryPolicy 的默认值
type RetryOption func(*RetryPolicy)

func WithMaxRetryCount(n int) RetryOption {
	return func(p *RetryPolicy) { p.maxRetryCount = n }
}

func WithRetryDelay(d time.Duration) RetryOption {
	return func(p *RetryPolicy) { p.retryDelay = d }
}

func WithRetryableStatusCodes(codes ...int) RetryOption {
	return func(p *RetryPolicy) {
		p.retryableStatusCodes = make(map[int]struct{}, len(codes))
		for _, c := range codes {
			p.retryableStatusCodes[c] = struct{}{}
		}
	}
}

// NewRetryPolicy 默认最多重试 3 次，间隔 1 秒，408/429/500/502/503/504 可重试
func NewRetryPolicy(opts ...RetryOption) *RetryPolicy {
	p := &RetryPolicy{retryDelay: time.Second, maxRetryCount: 3}
	WithRetryableStatusCodes(
		http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ShouldRetry 返回 true 之前会先等待 retryDelay，等待期间取消则返回 false
func (p *RetryPolicy) ShouldRetry(ctx context.Context, _ *http.Request, resp *http.Response, err error, attempt int) bool {
	if attempt >= p.maxRetryCount {
		return false
	}
	if ctx.Err() != nil || errors.Is(err, ErrCancelled) {
		return false
	}

	retryable := false
	if resp != nil {
		_, retryable = p.retryableStatusCodes[resp.StatusCode]
	}
	if !retryable && resp == nil && err != nil {
		retryable = isTransientTransportError(err)
	}
	if !retryable {
		return false
	}
	return sleep(ctx, p.retryDelay)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// isTransientTransportError 超时、连接中断、网络不可达
func isTransientTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETDOWN):
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}
	return false
}
