package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "")
	require.NoError(t, NewHealthHandler(nil).Liveness(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestHealth_Readiness(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all healthy", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/health/ready", "")
		require.NoError(t, NewHealthHandler(map[string]Pinger{"mongo": ok, "redis": ok}).Readiness(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		resp := decode(t, rec)
		assert.Equal(t, "ok", resp["status"])
		assert.Len(t, resp["dependencies"], 2)
	})

	t.Run("one dependency down", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/health/ready", "")
		require.NoError(t, NewHealthHandler(map[string]Pinger{"mongo": ok, "redis": down}).Readiness(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		resp := decode(t, rec)
		assert.Equal(t, "degraded", resp["status"])
		redis := resp["dependencies"].(map[string]any)["redis"].(map[string]any)
		assert.Equal(t, "unhealthy", redis["status"])
		assert.Equal(t, "connection refused", redis["error"])
	})

	t.Run("ping gets a deadline", func(t *testing.T) {
		var hasDeadline bool
		check := pingFunc(func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		})
		c, _ := newContext(http.MethodGet, "/health/ready", "")
		require.NoError(t, NewHealthHandler(map[string]Pinger{"db": check}).Readiness(c))
		assert.True(t, hasDeadline)
	})
}
