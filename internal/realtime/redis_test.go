package realtime

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betonit/internal/channel"
)

func TestTopic(t *testing.T) {
	assert.Equal(t, "betonit:lobby", Topic("lobby"))
}

// Requires a running redis, e.g. REDIS_TEST_ADDR=localhost:6379.
func TestRedisTransport_PubSub(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := NewRedisTransport(ctx, client, "redis-test", RedisOptions{WriteTimeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()
	b, err := NewRedisTransport(ctx, client, "redis-test", RedisOptions{WriteTimeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	own := make(chan string, 1)
	got := make(chan string, 1)
	require.NoError(t, a.SetMessageReceivedCallback(channel.Namespace, func(_, m string) { own <- m }))
	require.NoError(t, b.SetMessageReceivedCallback(channel.Namespace, func(_, m string) { got <- m }))

	status := make(chan channel.Status, 1)
	a.SendMessage(channel.Namespace, `{"command":"leave"}`, func(s channel.Status) { status <- s })
	assert.True(t, (<-status).Success())

	select {
	case m := <-got:
		assert.Equal(t, `{"command":"leave"}`, m)
	case <-time.After(2 * time.Second):
		t.Fatal("message not received")
	}
	assert.Empty(t, own)
}

// Requires a running redis, e.g. REDIS_TEST_ADDR=localhost:6379.
func TestRedisTransport_PreservesSendOrder(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := NewRedisTransport(ctx, client, "redis-order", RedisOptions{QueueSize: 32, WriteTimeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	b, err := NewRedisTransport(ctx, client, "redis-order", RedisOptions{WriteTimeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	const n = 20
	got := make(chan string, n)
	require.NoError(t, b.SetMessageReceivedCallback(channel.Namespace, func(_, m string) { got <- m }))

	for i := 0; i < n; i++ {
		a.SendMessage(channel.Namespace, fmt.Sprintf(`{"command":"guess","guess":%d}`, i), func(channel.Status) {})
	}
	require.NoError(t, a.Close())

	for i := 0; i < n; i++ {
		select {
		case m := <-got:
			assert.Equal(t, fmt.Sprintf(`{"command":"guess","guess":%d}`, i), m)
		case <-time.After(2 * time.Second):
			t.Fatalf("message %d not received", i)
		}
	}
}
