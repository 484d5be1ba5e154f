package actions

import (
	"errors"
	"net/http"

	"betonit/internal/realtime"

	"github.com/gobuffalo/buffalo"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// RelayWebSocketHandler attaches the connection to its session and relays envelopes until the
// peer disconnects. Frames that are not envelopes are dropped.
func RelayWebSocketHandler(c buffalo.Context) error {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		return c.Error(http.StatusBadRequest, errors.New("missing sessionID"))
	}

	conn, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade connection.")
		return err
	}

	client := &realtime.Client{
		Conn:      conn,
		SessionID: sessionID,
		ID:        uuid.NewString(),
	}

	realtime.Manager.AddClient(client)
	log.Info().Str("session", sessionID).Str("client", client.ID).Msg("Client connected.")

	defer func() {
		realtime.Manager.RemoveClient(client)
		_ = conn.Close()
		log.Info().Str("session", sessionID).Str("client", client.ID).Msg("Client disconnected.")
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return nil
		}

		env, err := realtime.DecodeEnvelope(frame)
		if err != nil {
			log.Warn().Err(err).Str("client", client.ID).Msg("Dropping invalid frame.")
			continue
		}

		n := realtime.Manager.Broadcast(sessionID, client, frame)
		log.Debug().Str("session", sessionID).Str("ns", env.Namespace).Int("peers", n).Msg("Frame relayed.")
	}
}
