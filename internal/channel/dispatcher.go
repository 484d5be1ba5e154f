package channel

import "github.com/rs/zerolog"

// Handler receives decoded events. Implementations hold whatever game session state they need;
// the channel itself keeps none. Methods may be called from transport goroutines.
type Handler interface {
	// OnGameJoined is called when a player joined. player is either X or O.
	OnGameJoined(player, opponent string)
	// OnGameEnd is called when the game ended. location is NoWinningLocation for ABANDONED.
	OnGameEnd(endState EndState, location int)
	OnBetRequest()
	OnGuessRequest()
	OnGameError(message string)
}

// HandlerFuncs adapts plain functions to Handler. Nil fields are ignored.
type HandlerFuncs struct {
	GameJoined   func(player, opponent string)
	GameEnd      func(endState EndState, location int)
	BetRequest   func()
	GuessRequest func()
	GameError    func(message string)
}

func (h HandlerFuncs) OnGameJoined(player, opponent string) {
	if h.GameJoined != nil {
		h.GameJoined(player, opponent)
	}
}

func (h HandlerFuncs) OnGameEnd(endState EndState, location int) {
	if h.GameEnd != nil {
		h.GameEnd(endState, location)
	}
}

func (h HandlerFuncs) OnBetRequest() {
	if h.BetRequest != nil {
		h.BetRequest()
	}
}

func (h HandlerFuncs) OnGuessRequest() {
	if h.GuessRequest != nil {
		h.GuessRequest()
	}
}

func (h HandlerFuncs) OnGameError(message string) {
	if h.GameError != nil {
		h.GameError(message)
	}
}

type Dispatcher struct {
	handler Handler
	logger  zerolog.Logger
}

func NewDispatcher(handler Handler, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handler: handler,
		logger:  logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch invokes at most one handler method for ev and reports whether one was called.
func (d *Dispatcher) Dispatch(ev Event) bool {
	switch ev := ev.(type) {
	case JoinedEvent:
		d.logger.Debug().Str("player", ev.Player).Str("opponent", ev.Opponent).Msg("Joined.")
		d.handler.OnGameJoined(ev.Player, ev.Opponent)
	case EndGameEvent:
		d.logger.Debug().Str("end_state", string(ev.EndState)).Int("location", ev.Location()).Msg("Game ended.")
		d.handler.OnGameEnd(ev.EndState, ev.Location())
	case GameErrorEvent:
		d.logger.Debug().Str("message", ev.Message).Msg("Game error.")
		d.handler.OnGameError(ev.Message)
	case BetRequestEvent:
		d.logger.Debug().Msg("Bet requested.")
		d.handler.OnBetRequest()
	case GuessRequestEvent:
		d.logger.Debug().Msg("Guess requested.")
		d.handler.OnGuessRequest()
	case UnrecognizedEvent:
		d.logger.Debug().Str("payload", ev.Raw).Msg("Unknown payload.")
		return false
	default:
		d.logger.Warn().Msgf("Cannot dispatch event of type %T.", ev)
		return false
	}
	return true
}
