package network

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
)

// ErrTokenExpired token 自带的 exp 已经过期
var ErrTokenExpired = errors.New("network: token expired")

const tokenCacheKey = "bearer"

// CachedTokenProvider 缓存 token。token 是 JWT 且带 exp 时以 exp 为缓存期限，
// 否则使用 fallbackTTL（<=0 表示永不过期）。
type CachedTokenProvider struct {
	fetch       TokenProvider
	cache       *cache.Cache
	fallbackTTL time.Duration
	now         func() time.Time
}

func NewCachedTokenProvider(fetch TokenProvider, fallbackTTL time.Duration) *CachedTokenProvider {
	return &CachedTokenProvider{
		fetch:       fetch,
		cache:       cache.New(cache.NoExpiration, 10*time.Minute),
		fallbackTTL: fallbackTTL,
		now:         time.Now,
	}
}

// Token 满足 TokenProvider
func (p *CachedTokenProvider) Token(ctx context.Context) (string, error) {
	if v, ok := p.cache.Get(tokenCacheKey); ok {
		return v.(string), nil
	}

	token, err := p.fetch(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", nil
	}

	ttl := p.fallbackTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	if exp, ok := tokenExpiry(token); ok {
		remaining := exp.Sub(p.now())
		if remaining <= 0 {
			return "", ErrTokenExpired
		}
		ttl = remaining
	}
	p.cache.Set(tokenCacheKey, token, ttl)
	return token, nil
}

// Invalidate 丢弃缓存的 token
func (p *CachedTokenProvider) Invalidate() {
	p.cache.Delete(tokenCacheKey)
}

// tokenExpiry 只读取 exp，不校验签名
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
