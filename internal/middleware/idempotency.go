package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// IdempotencyHeader is the standard HTTP header for idempotency keys
	IdempotencyHeader = "Idempotency-Key"

	// IdempotencyReplayHeader marks responses served from the cache
	IdempotencyReplayHeader = "X-Idempotency-Replayed"

	idempotencyKeyPrefix  = "idempotency:"
	idempotencyLockPrefix = "idempotency-lock:"
)

// IdempotencyConfig tunes the Redis-backed idempotency middleware.
type IdempotencyConfig struct {
	// TTL is how long successful responses are replayed.
	TTL time.Duration
	// LockTimeout bounds how long an in-flight request holds its key.
	LockTimeout time.Duration
}

type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// bodyCaptureWriter tees the response body so it can be cached.
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key and rejects
// concurrent requests with the same key. Requests without the header pass through.
func Idempotency(rdb redis.UniversalClient, cfg IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		logger := GetLoggerFromCtx(ctx).With(slog.String("idempotency_key", key))
		// The concrete path keeps the same key on /accounts/A and /accounts/B apart.
		scope := c.Request.Method + ":" + c.Request.URL.Path + ":" + key
		cacheKey := idempotencyKeyPrefix + scope
		lockKey := idempotencyLockPrefix + scope

		raw, err := rdb.Get(ctx, cacheKey).Bytes()
		switch {
		case err == nil:
			var cached cachedResponse
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				logger.Info("Replaying cached response")
				c.Header(IdempotencyReplayHeader, "true")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
			logger.Warn("Discarding unreadable cached response")
		case !errors.Is(err, redis.Nil):
			logger.Error("Failed to read idempotency cache", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Idempotency store unavailable"})
			return
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "1", cfg.LockTimeout).Result()
		if err != nil {
			logger.Error("Failed to acquire idempotency lock", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Idempotency store unavailable"})
			return
		}
		if !acquired {
			logger.Warn("Concurrent request with same idempotency key")
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "A request with this idempotency key is already being processed"})
			return
		}
		// The lock is released and the response cached even if the client has gone away.
		storeCtx := context.WithoutCancel(ctx)
		defer func() {
			if err := rdb.Del(storeCtx, lockKey).Err(); err != nil {
				logger.Error("Failed to release idempotency lock", slog.String("error", err.Error()))
			}
		}()

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 || !json.Valid(writer.body.Bytes()) {
			return
		}
		payload, err := json.Marshal(cachedResponse{Status: status, Body: writer.body.Bytes()})
		if err != nil {
			logger.Error("Failed to encode response for idempotency cache", slog.String("error", err.Error()))
			return
		}
		if err := rdb.Set(storeCtx, cacheKey, payload, cfg.TTL).Err(); err != nil {
			logger.Error("Failed to cache response", slog.String("error", err.Error()))
		}
	}
}
