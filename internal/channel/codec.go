package channel

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

var (
	ErrMalformedMessage = errors.New("malformed_message")
	ErrMissingField     = errors.New("missing_field")
	ErrInvalidField     = errors.New("invalid_field")
	ErrDuplicateField   = errors.New("duplicate_field")
	ErrUnknownCommand   = errors.New("unknown_command")
)

const (
	keyEvent           = "event"
	keyPlayer          = "player"
	keyOpponent        = "opponent"
	keyEndState        = "end_state"
	keyWinningLocation = "winning_location"
	keyMessage         = "message"
)

// EncodeCommand serializes cmd into its wire text.
func EncodeCommand(cmd Command) (string, error) {
	switch cmd.(type) {
	case JoinCommand, BetCommand, GuessCommand, LeaveCommand:
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("encode %s command: %w", cmd.Type(), err)
	}
	return string(data), nil
}

// DecodeEvent parses wire text into an Event. Text that is not a JSON object, or a known event
// missing a required field, yields an error wrapping ErrMalformedMessage. So does an object that
// repeats a key, since decoders disagree on which copy wins. A well-formed object without a known
// "event" value yields UnrecognizedEvent and no error.
func DecodeEvent(text string) (Event, error) {
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedMessage)
	}
	payload := gjson.Parse(text)
	if !payload.IsObject() {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedMessage)
	}
	if err := uniqueKeys(payload); err != nil {
		return nil, err
	}

	discriminator := payload.Get(keyEvent)
	if discriminator.Type != gjson.String {
		return UnrecognizedEvent{Raw: text}, nil
	}

	switch EventType(discriminator.Str) {
	case EventJoined:
		player, err := stringField(payload, keyPlayer)
		if err != nil {
			return nil, err
		}
		opponent, err := stringField(payload, keyOpponent)
		if err != nil {
			return nil, err
		}
		return JoinedEvent{Player: player, Opponent: opponent}, nil

	case EventEndGame:
		endState, err := stringField(payload, keyEndState)
		if err != nil {
			return nil, err
		}
		ev := EndGameEvent{EndState: EndState(endState)}
		if ev.EndState != EndStateAbandoned {
			location, err := intField(payload, keyWinningLocation)
			if err != nil {
				return nil, err
			}
			ev.WinningLocation = &location
		}
		return ev, nil

	case EventError:
		message, err := stringField(payload, keyMessage)
		if err != nil {
			return nil, err
		}
		return GameErrorEvent{Message: message}, nil

	case EventBetRequest:
		return BetRequestEvent{}, nil

	case EventGuessRequest:
		return GuessRequestEvent{}, nil
	}

	return UnrecognizedEvent{Raw: text}, nil
}

func stringField(payload gjson.Result, key string) (string, error) {
	value := payload.Get(key)
	if !value.Exists() {
		return "", fmt.Errorf("%w: %w %q", ErrMalformedMessage, ErrMissingField, key)
	}
	if value.Type != gjson.String {
		return "", fmt.Errorf("%w: %w %q", ErrMalformedMessage, ErrInvalidField, key)
	}
	return value.Str, nil
}

func intField(payload gjson.Result, key string) (int, error) {
	value := payload.Get(key)
	if !value.Exists() {
		return 0, fmt.Errorf("%w: %w %q", ErrMalformedMessage, ErrMissingField, key)
	}
	if value.Type != gjson.Number || value.Num != math.Trunc(value.Num) ||
		value.Num > math.MaxInt32 || value.Num < math.MinInt32 {
		return 0, fmt.Errorf("%w: %w %q", ErrMalformedMessage, ErrInvalidField, key)
	}
	return int(value.Int()), nil
}

func uniqueKeys(payload gjson.Result) error {
	var dup string
	seen := make(map[string]struct{})
	payload.ForEach(func(key, _ gjson.Result) bool {
		if _, ok := seen[key.Str]; ok {
			dup = key.Str
			return false
		}
		seen[key.Str] = struct{}{}
		return true
	})
	if dup != "" {
		return fmt.Errorf("%w: %w %q", ErrMalformedMessage, ErrDuplicateField, dup)
	}
	return nil
}
