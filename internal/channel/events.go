package channel

type EventType string

const (
	EventJoined       EventType = "joined"
	EventEndGame      EventType = "endgame"
	EventError        EventType = "error"
	EventBetRequest   EventType = "bet_request"
	EventGuessRequest EventType = "guess_request"
)

type EndState string

const (
	EndStateXWon      EndState = "X_WON"
	EndStateOWon      EndState = "O_WON"
	EndStateAbandoned EndState = "ABANDONED"
)

// NoWinningLocation is passed to Handler.OnGameEnd when the game was abandoned.
const NoWinningLocation = -1

// Event is an inbound notification decoded from the remote peer.
type Event interface {
	isEvent()
}

type JoinedEvent struct {
	Player   string
	Opponent string
}

// EndGameEvent carries a WinningLocation unless EndState is ABANDONED.
type EndGameEvent struct {
	EndState        EndState
	WinningLocation *int
}

// Location returns the winning location or NoWinningLocation.
func (ev EndGameEvent) Location() int {
	if ev.WinningLocation == nil {
		return NoWinningLocation
	}
	return *ev.WinningLocation
}

type GameErrorEvent struct {
	Message string
}

type BetRequestEvent struct{}

type GuessRequestEvent struct{}

// UnrecognizedEvent is a well-formed message this protocol does not know. Raw is kept for logging.
type UnrecognizedEvent struct {
	Raw string
}

func (JoinedEvent) isEvent()       {}
func (EndGameEvent) isEvent()      {}
func (GameErrorEvent) isEvent()    {}
func (BetRequestEvent) isEvent()   {}
func (GuessRequestEvent) isEvent() {}
func (UnrecognizedEvent) isEvent() {}
