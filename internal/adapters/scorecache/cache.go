// Package scorecache memoizes scoring output in Redis so recalculate runs do
// not re-pay the gateway for transcripts it has already judged.
package scorecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/convo-eval/internal/core"
)

// DefaultTTL is how long cached scores are kept.
const DefaultTTL = 7 * 24 * time.Hour

// Cache decorates a core.Scorer with a Redis-backed memo keyed by a digest of
// the metric, prompt, and transcript. Cache failures degrade to a direct
// scorer call; they never surface as evaluation failures.
type Cache struct {
	inner  core.Scorer
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// Options groups dependencies for Cache.
type Options struct {
	Inner  core.Scorer           // Required: the scorer being decorated
	Client redis.UniversalClient // Required: redis connection
	TTL    time.Duration         // Optional: defaults to DefaultTTL
	Logger *slog.Logger          // Optional: structured logger
}

// New constructs a score cache around the given scorer.
func New(opts Options) (*Cache, error) {
	if opts.Inner == nil {
		return nil, errors.New("inner Scorer is required")
	}
	if opts.Client == nil {
		return nil, errors.New("redis Client is required")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "score_cache")
	}
	return &Cache{
		inner:  opts.Inner,
		client: opts.Client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Evaluate returns the cached score for an identical request if one exists,
// otherwise delegates to the inner scorer and caches the outcome.
func (c *Cache) Evaluate(ctx context.Context, req core.ScoreRequest) (string, error) {
	key := cacheKey(req)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, redis.Nil):
		if c.logger != nil {
			c.logger.DebugContext(ctx, "score cache read", "metric", req.Metric, "error", err)
		}
	}

	out, err := c.inner.Evaluate(ctx, req)
	if err != nil {
		return "", err
	}

	if setErr := c.client.Set(ctx, key, out, c.ttl).Err(); setErr != nil && c.logger != nil {
		c.logger.DebugContext(ctx, "score cache write", "metric", req.Metric, "error", setErr)
	}
	return out, nil
}

// cacheKey digests the full request so any change to the metric, prompt, or
// transcript produces a distinct entry.
func cacheKey(req core.ScoreRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Metric))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	for _, turn := range req.Turns {
		h.Write([]byte{0})
		h.Write([]byte(turn.Role))
		h.Write([]byte{0})
		h.Write([]byte(turn.Message))
	}
	return "convo-eval:score:" + hex.EncodeToString(h.Sum(nil))
}
