// Package cache provides a Redis-backed response cache for read-only endpoints.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// HeaderCache is set to "HIT" when a response is served from Redis.
const HeaderCache = "X-Cache"

// cachedResponse is the JSON document stored per request URI.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ResponseCache caches successful GET responses in Redis.
// A nil Redis client disables caching; every request goes straight to the handler.
type ResponseCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewResponseCache creates a response cache.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "http".
func NewResponseCache(rdb *redis.Client, ttl time.Duration, namespace string) *ResponseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "http"
	}
	return &ResponseCache{rdb: rdb, ttl: ttl, namespace: namespace}
}

// Middleware returns a gin handler that serves cached responses and stores fresh 200 responses.
func (c *ResponseCache) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c.rdb == nil || ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}

		key := c.cacheKey(ctx.Request.RequestURI)
		reqCtx := ctx.Request.Context()

		// 1) Check cache
		if b, err := c.rdb.Get(reqCtx, key).Bytes(); err == nil && len(b) > 0 {
			var cached cachedResponse
			if err := json.Unmarshal(b, &cached); err == nil {
				ctx.Header(HeaderCache, "HIT")
				ctx.Data(cached.Status, cached.ContentType, cached.Body)
				ctx.Abort()
				return
			}
			// Delete corrupted cache entry
			_ = c.rdb.Del(reqCtx, key).Err()
		}

		// 2) Run the handler while recording the body
		rec := &bodyRecorder{ResponseWriter: ctx.Writer}
		ctx.Writer = rec
		ctx.Next()

		if rec.Status() != http.StatusOK {
			return
		}

		// 3) Store in cache (best effort)
		b, err := json.Marshal(cachedResponse{
			Status:      rec.Status(),
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.buf.Bytes(),
		})
		if err != nil {
			return
		}
		if err := c.rdb.Set(reqCtx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("failed to store cached response", "key", key, "error", err)
		}
	}
}

// InvalidateOnSuccess returns a gin handler that clears the namespace after a handler responds 200.
func (c *ResponseCache) InvalidateOnSuccess() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		if c.rdb == nil || ctx.Writer.Status() != http.StatusOK {
			return
		}
		if err := c.InvalidateAll(ctx.Request.Context()); err != nil {
			slog.Warn("failed to invalidate response cache", "namespace", c.namespace, "error", err)
		}
	}
}

// InvalidateAll deletes every entry in this cache's namespace.
func (c *ResponseCache) InvalidateAll(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

// cacheKey generates a cache key for a request URI.
func (c *ResponseCache) cacheKey(uri string) string {
	return c.namespace + ":" + safe(uri)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *ResponseCache) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// bodyRecorder copies everything the handler writes.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
