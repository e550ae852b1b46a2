package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/config"
)

func TestNewRedisKeepsClientWhenUnreachable(t *testing.T) {
	r := NewRedis(config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	t.Cleanup(r.Close)

	require.NotNil(t, r.Client)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, r.Ping(ctx))
}

func TestRedisNilSafety(t *testing.T) {
	var r *Redis
	assert.Error(t, r.Ping(context.Background()))
	assert.NotPanics(t, r.Close)
}
