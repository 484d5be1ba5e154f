package channel

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Status codes reported by transports. Values follow the common status codes of the cast
// messaging API so peers can log them consistently.
const (
	StatusSuccess       = 0
	StatusNetworkError  = 7
	StatusInternalError = 8
	StatusInterrupted   = 14
	StatusTimeout       = 15
	StatusCanceled      = 16
)

// Status is the outcome of one send attempt.
type Status struct {
	Code   int
	Reason string
}

func (s Status) Success() bool {
	return s.Code == StatusSuccess
}

// ResultCallback receives the outcome of a send. It may run on any goroutine.
type ResultCallback func(Status)

// Transport hands a message to the remote peer. SendMessage must not block on delivery and must
// invoke callback exactly once, unless the transport silently drops the message.
type Transport interface {
	SendMessage(namespace, message string, callback ResultCallback)
}

// MessageReceivedFunc is the inbound entry point a transport delivers frames to.
type MessageReceivedFunc func(namespace, message string)

// Registrar lets a transport route inbound frames of one namespace to a receiver.
type Registrar interface {
	SetMessageReceivedCallback(namespace string, fn MessageReceivedFunc) error
}

// SendFailure describes a message the transport could not deliver.
type SendFailure struct {
	ID        string
	Namespace string
	Message   string
	Status    Status
}

type TrackerStats struct {
	InFlight int64
	Sent     int64
	Failed   int64
}

// SendTracker issues fire-and-forget sends and reports failures. Sends are never retried.
type SendTracker struct {
	transport Transport
	logger    zerolog.Logger

	// OnFailure, when set, is called after a failed send is logged.
	OnFailure func(SendFailure)

	inFlight atomic.Int64
	sent     atomic.Int64
	failed   atomic.Int64
}

func NewSendTracker(transport Transport, logger zerolog.Logger) *SendTracker {
	return &SendTracker{
		transport: transport,
		logger:    logger.With().Str("component", "send_tracker").Logger(),
	}
}

// Send hands message to the transport and returns the id used to attribute its outcome.
func (t *SendTracker) Send(namespace, message string) string {
	id := uuid.NewString()
	t.logger.Debug().Str("id", id).Str("ns", namespace).Str("message", message).Msg("Sending message.")

	t.inFlight.Add(1)
	t.transport.SendMessage(namespace, message, func(status Status) {
		t.inFlight.Add(-1)
		if status.Success() {
			t.sent.Add(1)
			t.logger.Debug().Str("id", id).Msg("Message sent.")
			return
		}

		t.failed.Add(1)
		t.logger.Warn().
			Str("id", id).
			Int("status_code", status.Code).
			Str("reason", status.Reason).
			Str("message", message).
			Msg("Failed to send message.")

		if t.OnFailure != nil {
			t.OnFailure(SendFailure{
				ID:        id,
				Namespace: namespace,
				Message:   message,
				Status:    status,
			})
		}
	})
	return id
}

func (t *SendTracker) Stats() TrackerStats {
	return TrackerStats{
		InFlight: t.inFlight.Load(),
		Sent:     t.sent.Load(),
		Failed:   t.failed.Load(),
	}
}
