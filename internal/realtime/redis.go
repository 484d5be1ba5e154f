package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"betonit/internal/channel"
)

const topicPrefix = "betonit:"

type RedisOptions struct {
	QueueSize    int
	WriteTimeout time.Duration
}

// RedisTransport exchanges envelopes through a redis pub/sub topic per session. Peers receive
// their own publications, which are dropped by sender id. Publishes go out one at a time from a
// single writer so peers see them in send order.
type RedisTransport struct {
	client       *redis.Client
	pubsub       *redis.PubSub
	topic        string
	senderID     string
	writeTimeout time.Duration
	logger       zerolog.Logger
	receivers    receivers
	queue        *sendQueue

	ctx    context.Context
	cancel context.CancelFunc
}

func Topic(sessionID string) string {
	return topicPrefix + sessionID
}

// NewRedisTransport subscribes to the session topic and starts delivering frames.
func NewRedisTransport(ctx context.Context, client *redis.Client, sessionID string, opts RedisOptions, logger zerolog.Logger) (*RedisTransport, error) {
	topic := Topic(sessionID)
	pubsub := client.Subscribe(ctx, topic)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}

	senderID := uuid.NewString()
	t := &RedisTransport{
		client:       client,
		pubsub:       pubsub,
		topic:        topic,
		senderID:     senderID,
		writeTimeout: opts.WriteTimeout,
		logger:       logger.With().Str("transport", "redis").Str("topic", topic).Str("sender", senderID).Logger(),
		queue:        newSendQueue(opts.QueueSize),
	}
	t.ctx, t.cancel = context.WithCancel(context.Background())

	go t.queue.run(t.publish)
	go t.listen()
	return t, nil
}

func (t *RedisTransport) SetMessageReceivedCallback(namespace string, fn channel.MessageReceivedFunc) error {
	return t.receivers.set(namespace, fn)
}

func (t *RedisTransport) SendMessage(namespace, message string, callback channel.ResultCallback) {
	frame, err := EncodeEnvelope(Envelope{Sender: t.senderID, Namespace: namespace, Data: message})
	if err != nil {
		callback(channel.Status{Code: channel.StatusInternalError, Reason: err.Error()})
		return
	}

	t.queue.push(outbound{frame: frame, callback: callback})
}

// Done is closed after Close.
func (t *RedisTransport) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Close publishes the frames already queued, waiting at most the write timeout, then
// unsubscribes.
func (t *RedisTransport) Close() error {
	first, drained := t.queue.shutdown(t.writeTimeout)
	if !first {
		return nil
	}
	if !drained {
		t.logger.Warn().Msg("Closing with unpublished frames.")
	}

	t.cancel()
	return t.pubsub.Close()
}

func (t *RedisTransport) publish(frame []byte) error {
	ctx, cancel := context.WithTimeout(t.ctx, t.writeTimeout)
	defer cancel()
	return t.client.Publish(ctx, t.topic, frame).Err()
}

func (t *RedisTransport) listen() {
	for msg := range t.pubsub.Channel() {
		t.receivers.handleFrame([]byte(msg.Payload), t.senderID, t.logger)
	}
	t.logger.Debug().Msg("Subscription closed.")
}
