// Package realtime carries channel messages over shared transports: a websocket relay and redis
// pub/sub. Every frame is an Envelope tagging the message with its namespace and sender.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"betonit/internal/channel"
)

type Envelope struct {
	Sender    string `json:"sender"`
	Namespace string `json:"namespace"`
	Data      string `json:"data"`
}

func EncodeEnvelope(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

func DecodeEnvelope(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, err
	}
	if env.Namespace == "" {
		return Envelope{}, errors.New("missing_namespace")
	}
	return env, nil
}

// receivers routes inbound frames to the callback registered for their namespace.
type receivers struct {
	mu  sync.RWMutex
	fns map[string]channel.MessageReceivedFunc
}

func (r *receivers) set(namespace string, fn channel.MessageReceivedFunc) error {
	if namespace == "" {
		return errors.New("namespace_is_required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fns == nil {
		r.fns = make(map[string]channel.MessageReceivedFunc)
	}
	if fn == nil {
		delete(r.fns, namespace)
		return nil
	}
	r.fns[namespace] = fn
	return nil
}

// handleFrame delivers frame unless it was sent by self. It reports whether a receiver was called.
func (r *receivers) handleFrame(frame []byte, self string, logger zerolog.Logger) bool {
	env, err := DecodeEnvelope(frame)
	if err != nil {
		logger.Warn().Err(err).Bytes("frame", frame).Msg("Failed to decode envelope.")
		return false
	}
	if env.Sender == self {
		return false
	}

	r.mu.RLock()
	fn := r.fns[env.Namespace]
	r.mu.RUnlock()

	if fn == nil {
		logger.Debug().Str("ns", env.Namespace).Msg("No receiver for namespace.")
		return false
	}
	fn(env.Namespace, env.Data)
	return true
}

func statusFor(err error) channel.Status {
	if err == nil {
		return channel.Status{Code: channel.StatusSuccess}
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return channel.Status{Code: channel.StatusCanceled, Reason: err.Error()}
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return channel.Status{Code: channel.StatusTimeout, Reason: err.Error()}
	case errors.Is(err, websocket.ErrCloseSent),
		errors.Is(err, redis.ErrClosed),
		websocket.IsUnexpectedCloseError(err):
		return channel.Status{Code: channel.StatusInterrupted, Reason: err.Error()}
	}
	return channel.Status{Code: channel.StatusNetworkError, Reason: err.Error()}
}
