// Package console drives a channel from a terminal: it parses typed commands and prints the
// events the peer sends back.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"betonit/internal/channel"
)

// Phase is the game session state implied by the events seen so far.
type Phase int

const (
	PhaseNotJoined Phase = iota
	PhaseJoined
	PhaseAwaitingBet
	PhaseAwaitingGuess
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseNotJoined:
		return "not_joined"
	case PhaseJoined:
		return "joined"
	case PhaseAwaitingBet:
		return "awaiting_bet"
	case PhaseAwaitingGuess:
		return "awaiting_guess"
	case PhaseEnded:
		return "ended"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

var (
	info    = color.New(color.FgCyan)
	prompt  = color.New(color.FgYellow, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	failure = color.New(color.FgRed)
)

// Handler prints events to out and tracks the session phase.
type Handler struct {
	mu     sync.Mutex
	out    io.Writer
	phase  Phase
	symbol string
}

var _ channel.Handler = (*Handler)(nil)

func NewHandler(out io.Writer) *Handler {
	return &Handler{out: out}
}

func (h *Handler) Phase() Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

func (h *Handler) OnGameJoined(player, opponent string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.phase = PhaseJoined
	h.symbol = player
	info.Fprintf(h.out, "Joined as %s against %s\n", player, opponent)
}

func (h *Handler) OnGameEnd(endState channel.EndState, location int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.phase = PhaseEnded

	switch {
	case endState == channel.EndStateAbandoned:
		failure.Fprintln(h.out, "Game abandoned")
	case h.symbol != "" && string(endState) == h.symbol+"_WON":
		success.Fprintf(h.out, "You won! (location %d)\n", location)
	default:
		info.Fprintf(h.out, "Game over: %s (location %d)\n", endState, location)
	}
}

func (h *Handler) OnBetRequest() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.phase = PhaseAwaitingBet
	prompt.Fprintln(h.out, "Place your bets: bet <answer> <coins> <answer> <coins>")
}

func (h *Handler) OnGuessRequest() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.phase = PhaseAwaitingGuess
	prompt.Fprintln(h.out, "Your guess: guess <number>")
}

func (h *Handler) OnGameError(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	failure.Fprintf(h.out, "Error: %s\n", message)
}
