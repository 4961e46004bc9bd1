package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempotentRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	calls := 0
	r := gin.New()
	r.POST("/deposits", Idempotency(rdb, IdempotencyConfig{TTL: time.Hour, LockTimeout: time.Minute}), func(c *gin.Context) {
		calls++
		if c.Query("fail") == "1" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient funds"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})
	return r, mr, &calls
}

func post(r *gin.Engine, url, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, url, nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysSuccessfulResponse(t *testing.T) {
	r, _, calls := newIdempotentRouter(t)

	first := post(r, "/deposits", "key-1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := post(r, "/deposits", "key-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(IdempotencyReplayHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *calls)

	third := post(r, "/deposits", "key-2")
	assert.Equal(t, http.StatusCreated, third.Code)
	assert.Empty(t, third.Header().Get(IdempotencyReplayHeader))
	assert.Equal(t, 2, *calls)
}

func TestIdempotency_WithoutHeaderPassesThrough(t *testing.T) {
	r, _, calls := newIdempotentRouter(t)

	post(r, "/deposits", "")
	post(r, "/deposits", "")
	assert.Equal(t, 2, *calls)
}

func TestIdempotency_FailuresAreNotCached(t *testing.T) {
	r, mr, calls := newIdempotentRouter(t)

	w := post(r, "/deposits?fail=1", "key-1")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, mr.Exists("idempotency:POST:/deposits:key-1"))

	post(r, "/deposits?fail=1", "key-1")
	assert.Equal(t, 2, *calls)
}

func TestIdempotency_InFlightKeyConflicts(t *testing.T) {
	r, mr, calls := newIdempotentRouter(t)
	require.NoError(t, mr.Set("idempotency-lock:POST:/deposits:key-1", "1"))

	w := post(r, "/deposits", "key-1")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, *calls)
}

func TestIdempotency_LockReleasedAfterRequest(t *testing.T) {
	r, mr, _ := newIdempotentRouter(t)

	post(r, "/deposits", "key-1")
	assert.False(t, mr.Exists("idempotency-lock:POST:/deposits:key-1"))
	assert.True(t, mr.Exists("idempotency:POST:/deposits:key-1"))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL("idempotency:POST:/deposits:key-1").Seconds(), 1)
}

func TestIdempotency_StoreUnavailable(t *testing.T) {
	r, mr, calls := newIdempotentRouter(t)
	mr.Close()

	w := post(r, "/deposits", "key-1")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 0, *calls)
}

func TestIdempotency_SameKeyOnDifferentAccounts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	calls := map[string]int{}
	r := gin.New()
	r.POST("/accounts/:id/deposits", Idempotency(rdb, IdempotencyConfig{TTL: time.Hour, LockTimeout: time.Minute}), func(c *gin.Context) {
		calls[c.Param("id")]++
		c.JSON(http.StatusCreated, gin.H{"accountID": c.Param("id")})
	})

	first := post(r, "/accounts/A/deposits", "same-key")
	require.Equal(t, http.StatusCreated, first.Code)

	second := post(r, "/accounts/B/deposits", "same-key")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Empty(t, second.Header().Get(IdempotencyReplayHeader))
	assert.JSONEq(t, `{"accountID":"B"}`, second.Body.String())
	assert.Equal(t, map[string]int{"A": 1, "B": 1}, calls)

	again := post(r, "/accounts/A/deposits", "same-key")
	assert.Equal(t, "true", again.Header().Get(IdempotencyReplayHeader))
	assert.JSONEq(t, `{"accountID":"A"}`, again.Body.String())
	assert.Equal(t, 1, calls["A"])
}

func TestIdempotency_LockReleasedWhenClientGoesAway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.POST("/deposits", Idempotency(rdb, IdempotencyConfig{TTL: time.Hour, LockTimeout: time.Minute}), func(c *gin.Context) {
		cancel()
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/deposits", nil).WithContext(ctx)
	req.Header.Set(IdempotencyHeader, "key-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.False(t, mr.Exists("idempotency-lock:POST:/deposits:key-1"))
	assert.True(t, mr.Exists("idempotency:POST:/deposits:key-1"))
}
