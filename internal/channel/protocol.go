// Package channel implements the betonit game protocol: player commands go out as JSON text on
// the Namespace channel of a transport, and game events coming back are decoded and routed to a
// Handler. Delivery is best effort. Failures are logged, never returned to callers.
package channel

import (
	"errors"

	"github.com/rs/zerolog"
)

// Channel is safe for concurrent use. It keeps no game state between calls.
type Channel struct {
	tracker    *SendTracker
	dispatcher *Dispatcher
	logger     zerolog.Logger
}

func NewChannel(transport Transport, handler Handler, logger zerolog.Logger) *Channel {
	logger = logger.With().Str("ns", Namespace).Logger()
	return &Channel{
		tracker:    NewSendTracker(transport, logger),
		dispatcher: NewDispatcher(handler, logger),
		logger:     logger,
	}
}

func (c *Channel) Namespace() string {
	return Namespace
}

// Tracker exposes the send tracker for stats and failure observation.
func (c *Channel) Tracker() *SendTracker {
	return c.tracker
}

// Attach registers OnMessageReceived as the receiver for Namespace on r.
func (c *Channel) Attach(r Registrar) error {
	return r.SetMessageReceivedCallback(Namespace, c.OnMessageReceived)
}

// Join asks to join the current game as name.
func (c *Channel) Join(name string) {
	c.logger.Debug().Str("name", name).Msg("join")
	c.send(JoinCommand{Name: name}, "Cannot create object to join a game.")
}

// Bet places coins on two answers.
func (c *Channel) Bet(answerOne, answerOneCoins, answerTwo, answerTwoCoins int) {
	c.logger.Debug().Int("answer", answerOne).Int("coins", answerOneCoins).Msg("bet")
	c.logger.Debug().Int("answer", answerTwo).Int("coins", answerTwoCoins).Msg("bet")
	c.send(BetCommand{
		AnswerOne:      answerOne,
		AnswerOneCoins: answerOneCoins,
		AnswerTwo:      answerTwo,
		AnswerTwoCoins: answerTwoCoins,
	}, "Cannot create object to place a bet.")
}

// Guess submits a numeric answer to the current question.
func (c *Channel) Guess(value int) {
	c.logger.Debug().Int("guess", value).Msg("guess")
	c.send(GuessCommand{Guess: value}, "Cannot create object to make a guess.")
}

// Leave leaves the current game.
func (c *Channel) Leave() {
	c.logger.Debug().Msg("leave")
	c.send(LeaveCommand{}, "Cannot create object to leave a game.")
}

func (c *Channel) send(cmd Command, failure string) {
	message, err := EncodeCommand(cmd)
	if err != nil {
		c.logger.Error().Err(err).Msg(failure)
		return
	}
	c.tracker.Send(Namespace, message)
}

// OnMessageReceived is the transport entry point. Frames for other namespaces are ignored.
func (c *Channel) OnMessageReceived(namespace, message string) {
	if namespace != Namespace {
		c.logger.Debug().Str("other_ns", namespace).Msg("Ignoring message for another namespace.")
		return
	}
	c.OnMessage(message)
}

// OnMessage decodes text and dispatches it. It never panics on bad input and reports nothing to
// the caller; failures are logged.
func (c *Channel) OnMessage(text string) {
	c.logger.Debug().Str("message", text).Msg("Message received.")
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Str("message", text).Msg("Handler panicked.")
		}
	}()

	ev, err := DecodeEvent(text)
	if err != nil {
		if errors.Is(err, ErrMalformedMessage) {
			c.logger.Warn().Err(err).Str("message", text).Msg("Message doesn't contain an expected key.")
		} else {
			c.logger.Error().Err(err).Str("message", text).Msg("Failed to decode message.")
		}
		return
	}

	if !c.dispatcher.Dispatch(ev) {
		c.logger.Info().Str("payload", text).Msg("Unknown payload.")
	}
}
