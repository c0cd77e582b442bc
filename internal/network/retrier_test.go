package network

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func statusResponse(code int) *http.Response {
	return &http.Response{StatusCode: code}
}

func TestRetryPolicyRetriesRetryableStatus(t *testing.T) {
	policy := NewRetryPolicy(WithRetryDelay(20 * time.Millisecond))
	ctx := context.Background()
	err := &HTTPError{StatusCode: http.StatusServiceUnavailable}

	for attempt := 0; attempt < 3; attempt++ {
		start := time.Now()
		assert.True(t, policy.ShouldRetry(ctx, nil, statusResponse(503), err, attempt))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	}

	start := time.Now()
	assert.False(t, policy.ShouldRetry(ctx, nil, statusResponse(503), err, 3))
	assert.Less(t, time.Since(start), 20*time.Millisecond)
}

func TestRetryPolicyStatusCodes(t *testing.T) {
	policy := NewRetryPolicy(WithRetryDelay(0))
	ctx := context.Background()

	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, policy.ShouldRetry(ctx, nil, statusResponse(code), &HTTPError{StatusCode: code}, 0), "status %d", code)
	}
	for _, code := range []int{400, 401, 404, 422, 501} {
		assert.False(t, policy.ShouldRetry(ctx, nil, statusResponse(code), &HTTPError{StatusCode: code}, 0), "status %d", code)
	}

	custom := NewRetryPolicy(WithRetryDelay(0), WithRetryableStatusCodes(404))
	assert.True(t, custom.ShouldRetry(ctx, nil, statusResponse(404), &HTTPError{StatusCode: 404}, 0))
	assert.False(t, custom.ShouldRetry(ctx, nil, statusResponse(503), &HTTPError{StatusCode: 503}, 0))
}

func TestRetryPolicyTransportErrors(t *testing.T) {
	policy := NewRetryPolicy(WithRetryDelay(0))
	ctx := context.Background()

	transient := []error{
		context.DeadlineExceeded,
		&net.DNSError{Err: "timeout", IsTimeout: true},
		&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
		syscall.ECONNRESET,
	}
	for _, err := range transient {
		assert.True(t, policy.ShouldRetry(ctx, nil, nil, err, 0), "%v", err)
	}

	permanent := []error{
		errors.New("boom"),
		&net.DNSError{Err: "no such host", IsNotFound: true},
		&DecodingError{Err: errors.New("bad json")},
	}
	for _, err := range permanent {
		assert.False(t, policy.ShouldRetry(ctx, nil, nil, err, 0), "%v", err)
	}
}

func TestRetryPolicyStopsOnCancellation(t *testing.T) {
	policy := NewRetryPolicy(WithRetryDelay(time.Second))

	assert.False(t, policy.ShouldRetry(context.Background(), nil, nil, ErrCancelled, 0))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, policy.ShouldRetry(cancelled, nil, statusResponse(503), &HTTPError{StatusCode: 503}, 0))

	ctx, cancelLater := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancelLater()
	}()
	start := time.Now()
	assert.False(t, policy.ShouldRetry(ctx, nil, statusResponse(503), &HTTPError{StatusCode: 503}, 0))
	assert.Less(t, time.Since(start), time.Second)
}
