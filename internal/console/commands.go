package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

var (
	ErrUnknownCommand = errors.New("unknown_command")
	ErrUsage          = errors.New("usage")
	ErrQuit           = errors.New("quit")
)

// Player is the set of actions a console can issue. *channel.Channel implements it.
type Player interface {
	Join(name string)
	Bet(answerOne, answerOneCoins, answerTwo, answerTwoCoins int)
	Guess(value int)
	Leave()
}

const Help = `commands:
  join <name>                           join the game
  guess <number>                        answer the current question
  bet <answer> <coins> <answer> <coins> bet on two answers
  leave                                 leave the game
  quit                                  exit`

// Execute parses one input line and issues the matching action. Quoted names are kept whole,
// e.g. join "Big Al". Blank lines do nothing. quit and exit return ErrQuit.
func Execute(p Player, line string) error {
	args, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(args) == 0 {
		return nil
	}

	switch cmd := strings.ToLower(args[0]); cmd {
	case "join":
		if len(args) != 2 || args[1] == "" {
			return fmt.Errorf("%w: join <name>", ErrUsage)
		}
		p.Join(args[1])
	case "guess":
		values, err := ints(args[1:], 1)
		if err != nil {
			return fmt.Errorf("%w: guess <number>", err)
		}
		p.Guess(values[0])
	case "bet":
		values, err := ints(args[1:], 4)
		if err != nil {
			return fmt.Errorf("%w: bet <answer> <coins> <answer> <coins>", err)
		}
		p.Bet(values[0], values[1], values[2], values[3])
	case "leave":
		p.Leave()
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return nil
}

func ints(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, ErrUsage
	}
	values := make([]int, n)
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, ErrUsage
		}
		values[i] = v
	}
	return values, nil
}
