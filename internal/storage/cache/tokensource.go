package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/caseline/go-dispatch-service/internal/fcm"
)

// CacheClient defines the subset of Redis commands we need.
type CacheClient interface {
	// Get returns the value or a specific error if not found.
	Get(ctx context.Context, key string, dest interface{}) error
	// Set stores the value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Del removes the key.
	Del(ctx context.Context, key string) error
}

// CachedTokenSource is a decorator that adds read-aside caching to any
// TokenSource. With it, replicas of the service reuse one access token
// instead of each performing its own exchange.
type CachedTokenSource struct {
	inner  fcm.TokenSource
	cache  CacheClient
	logger *slog.Logger
	now    func() time.Time
}

func NewCachedTokenSource(inner fcm.TokenSource, cache CacheClient, logger *slog.Logger) *CachedTokenSource {
	return &CachedTokenSource{
		inner:  inner,
		cache:  cache,
		logger: logger.With("component", "CachedTokenSource"),
		now:    time.Now,
	}
}

// Token tries the shared cache first and falls back to the inner source.
// Cache failures are ignored: caching is an optimization, not a transaction.
// If redis is down we just exchange locally.
func (s *CachedTokenSource) Token(ctx context.Context, account *fcm.ServiceAccount) (fcm.AccessToken, error) {
	key := s.cacheKey(account)

	var cached fcm.AccessToken
	if err := s.cache.Get(ctx, key, &cached); err == nil && cached.Valid(s.now()) {
		return cached, nil
	}

	tok, err := s.inner.Token(ctx, account)
	if err != nil {
		return fcm.AccessToken{}, err
	}

	// The TTL already accounts for the validity margin, so a stale entry ages
	// out of redis before any reader would be tempted to use it.
	if ttl := tok.ExpiresAt.Sub(s.now()) - time.Minute; ttl > 0 {
		if err := s.cache.Set(ctx, key, tok, ttl); err != nil {
			s.logger.Warn("failed to cache access token", "err", err)
		}
	}

	return tok, nil
}

// Invalidate drops the shared entry, forcing the next caller to exchange.
func (s *CachedTokenSource) Invalidate(ctx context.Context, account *fcm.ServiceAccount) error {
	return s.cache.Del(ctx, s.cacheKey(account))
}

func (s *CachedTokenSource) cacheKey(account *fcm.ServiceAccount) string {
	return "notify:access_token:" + account.ClientEmail
}
