package rooms

import (
	"errors"
	"regexp"
)

var (
	sessionIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	errInvalidSessionID = errors.New("invalid_session_id")
)

type CreateRoomDTO struct {
	SessionID string `json:"sessionId,omitempty"`
}

// Validate accepts an empty SessionID; the controller generates one.
func (dto *CreateRoomDTO) Validate() error {
	if dto.SessionID != "" && !sessionIDPattern.MatchString(dto.SessionID) {
		return errInvalidSessionID
	}
	return nil
}

type RoomDTO struct {
	SessionID string `json:"sessionId"`
	Path      string `json:"path"`
	Clients   int    `json:"clients"`
}
