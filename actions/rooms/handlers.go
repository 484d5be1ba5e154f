package rooms

import (
	"net/http"

	"betonit/internal/realtime"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/buffalo/render"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var renderer = render.New(render.Options{})

type RoomsController struct {
	Manager *realtime.RoomManager
}

func NewRoomsController(manager *realtime.RoomManager) *RoomsController {
	return &RoomsController{Manager: manager}
}

// CreateRoom hands out a session id peers can meet on. Sessions exist implicitly while clients
// are connected, so nothing is stored.
func (controller *RoomsController) CreateRoom(ctx buffalo.Context) error {
	var dto CreateRoomDTO
	if ctx.Request().ContentLength > 0 {
		if err := ctx.Bind(&dto); err != nil {
			log.Error().Err(err).Msg("Failed to bind create room request.")
			return ctx.Render(http.StatusBadRequest, renderer.JSON(map[string]any{
				"error": "invalid_body",
			}))
		}
	}
	if err := dto.Validate(); err != nil {
		return ctx.Render(http.StatusBadRequest, renderer.JSON(map[string]any{
			"error": err.Error(),
		}))
	}

	if dto.SessionID == "" {
		dto.SessionID = uuid.NewString()
	}
	log.Info().Str("session", dto.SessionID).Msg("Creating new room.")

	return ctx.Render(http.StatusOK, renderer.JSON(controller.room(dto.SessionID)))
}

func (controller *RoomsController) ShowRoom(ctx buffalo.Context) error {
	sessionID := ctx.Param("sessionID")
	if !sessionIDPattern.MatchString(sessionID) {
		return ctx.Render(http.StatusBadRequest, renderer.JSON(map[string]any{
			"error": errInvalidSessionID.Error(),
		}))
	}
	return ctx.Render(http.StatusOK, renderer.JSON(controller.room(sessionID)))
}

func (controller *RoomsController) room(sessionID string) RoomDTO {
	return RoomDTO{
		SessionID: sessionID,
		Path:      "/ws/" + sessionID,
		Clients:   controller.Manager.Count(sessionID),
	}
}
