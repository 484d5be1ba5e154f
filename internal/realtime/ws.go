package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"betonit/internal/channel"
)

type WSOptions struct {
	QueueSize    int
	WriteTimeout time.Duration
	Header       http.Header
}

// WSTransport sends and receives envelopes over one websocket connection. A single writer
// goroutine drains the send queue in order; SendMessage never blocks.
type WSTransport struct {
	conn         *websocket.Conn
	senderID     string
	writeTimeout time.Duration
	logger       zerolog.Logger
	receivers    receivers
	queue        *sendQueue
	done         chan struct{}
}

// DialWS connects to a relay session, e.g. ws://localhost:3000/ws/lobby.
func DialWS(ctx context.Context, url string, opts WSOptions, logger zerolog.Logger) (*WSTransport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	return NewWSTransport(conn, opts, logger), nil
}

// NewWSTransport takes ownership of conn and starts its reader and writer goroutines.
func NewWSTransport(conn *websocket.Conn, opts WSOptions, logger zerolog.Logger) *WSTransport {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}

	senderID := uuid.NewString()
	t := &WSTransport{
		conn:         conn,
		senderID:     senderID,
		writeTimeout: opts.WriteTimeout,
		logger:       logger.With().Str("transport", "ws").Str("sender", senderID).Logger(),
		queue:        newSendQueue(opts.QueueSize),
		done:         make(chan struct{}),
	}

	go t.queue.run(t.write)
	go t.readLoop()
	return t
}

func (t *WSTransport) SenderID() string {
	return t.senderID
}

func (t *WSTransport) SetMessageReceivedCallback(namespace string, fn channel.MessageReceivedFunc) error {
	return t.receivers.set(namespace, fn)
}

func (t *WSTransport) SendMessage(namespace, message string, callback channel.ResultCallback) {
	frame, err := EncodeEnvelope(Envelope{Sender: t.senderID, Namespace: namespace, Data: message})
	if err != nil {
		callback(channel.Status{Code: channel.StatusInternalError, Reason: err.Error()})
		return
	}

	t.queue.push(outbound{frame: frame, callback: callback})
}

// Done is closed once the transport stops, either by Close or because the connection dropped.
func (t *WSTransport) Done() <-chan struct{} {
	return t.done
}

// Close writes out the frames already queued, waiting at most the write timeout, then closes
// the connection.
func (t *WSTransport) Close() error {
	first, drained := t.queue.shutdown(t.writeTimeout)
	if !first {
		return nil
	}
	if !drained {
		t.logger.Warn().Msg("Closing with unsent frames.")
	}

	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := t.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil &&
		!errors.Is(err, websocket.ErrCloseSent) {
		t.logger.Debug().Err(err).Msg("Failed to send close frame.")
	}
	err := t.conn.Close()
	close(t.done)
	return err
}

func (t *WSTransport) write(frame []byte) error {
	_ = t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
	return t.conn.WriteMessage(websocket.TextMessage, frame)
}

func (t *WSTransport) readLoop() {
	for {
		_, frame, err := t.conn.ReadMessage()
		if err != nil {
			if !t.queue.isClosed() {
				t.logger.Warn().Err(err).Msg("Connection lost.")
			}
			_ = t.Close()
			return
		}
		t.receivers.handleFrame(frame, t.senderID, t.logger)
	}
}
