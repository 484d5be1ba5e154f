package channel

import "encoding/json"

// Namespace identifies this protocol on a shared transport. Both ends must agree on it.
const Namespace = "urn:x-cast:com.betonit"

type CommandType string

const (
	CommandJoin  CommandType = "join"
	CommandBet   CommandType = "bet"
	CommandGuess CommandType = "guess"
	CommandLeave CommandType = "leave"
)

// Command is an outbound player action.
type Command interface {
	Type() CommandType
}

type JoinCommand struct {
	Name string
}

type BetCommand struct {
	AnswerOne      int
	AnswerOneCoins int
	AnswerTwo      int
	AnswerTwoCoins int
}

type GuessCommand struct {
	Guess int
}

type LeaveCommand struct{}

func (JoinCommand) Type() CommandType  { return CommandJoin }
func (BetCommand) Type() CommandType   { return CommandBet }
func (GuessCommand) Type() CommandType { return CommandGuess }
func (LeaveCommand) Type() CommandType { return CommandLeave }

func (cmd JoinCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command CommandType `json:"command"`
		Name    string      `json:"name"`
	}{CommandJoin, cmd.Name})
}

// answer_one and answer_two are [answer, coins] pairs.
func (cmd BetCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command   CommandType `json:"command"`
		AnswerOne [2]int      `json:"answer_one"`
		AnswerTwo [2]int      `json:"answer_two"`
	}{
		Command:   CommandBet,
		AnswerOne: [2]int{cmd.AnswerOne, cmd.AnswerOneCoins},
		AnswerTwo: [2]int{cmd.AnswerTwo, cmd.AnswerTwoCoins},
	})
}

func (cmd GuessCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command CommandType `json:"command"`
		Guess   int         `json:"guess"`
	}{CommandGuess, cmd.Guess})
}

func (LeaveCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command CommandType `json:"command"`
	}{CommandLeave})
}
