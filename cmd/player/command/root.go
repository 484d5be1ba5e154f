package command

// root.go defines the player command: it connects to a session, attaches the betonit channel
// and reads game commands from the terminal.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"betonit/internal/channel"
	"betonit/internal/config"
	"betonit/internal/console"
	"betonit/internal/logger"
	"betonit/internal/realtime"
)

var (
	transportFlag string
	relayURL      string
	sessionID     string
	redisAddr     string
	playerName    string
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "player",
	Short: "player - play betonit from the terminal",
	Long: `player connects to a betonit session through the websocket relay or redis,
then reads commands from the terminal and prints game events as they arrive.

` + console.Help,
	RunE: run,
}

// Execute is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&transportFlag, "transport", "t", "", "transport to use: ws or redis (default from TRANSPORT)")
	rootCmd.Flags().StringVar(&relayURL, "relay", "", "relay base URL (default from RELAY_URL)")
	rootCmd.Flags().StringVarP(&sessionID, "session", "s", "", "session to join (default from SESSION_ID)")
	rootCmd.Flags().StringVar(&redisAddr, "redis", "", "redis address (default from REDIS_ADDR)")
	rootCmd.Flags().StringVarP(&playerName, "name", "n", "", "join immediately with this name")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (default from LOG_LEVEL)")
}

// applyFlags overrides cfg with the flags that were set.
func applyFlags(cfg *config.Config) error {
	if transportFlag != "" {
		cfg.Transport = transportFlag
	}
	if relayURL != "" {
		cfg.RelayURL = relayURL
	}
	if sessionID != "" {
		cfg.SessionID = sessionID
	}
	if redisAddr != "" {
		cfg.RedisAddr = redisAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg.Validate()
}

type sessionTransport interface {
	channel.Transport
	channel.Registrar
	Done() <-chan struct{}
	Close() error
}

func connect(ctx context.Context, cfg *config.Config) (sessionTransport, error) {
	switch cfg.Transport {
	case config.TransportRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		transport, err := realtime.NewRedisTransport(ctx, client, cfg.SessionID, realtime.RedisOptions{
			QueueSize:    cfg.SendQueueSize,
			WriteTimeout: cfg.WriteTimeout,
		}, log.Logger)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return transport, nil
	default:
		url := strings.TrimSuffix(cfg.RelayURL, "/") + "/ws/" + cfg.SessionID
		transport, err := realtime.DialWS(ctx, url, realtime.WSOptions{
			QueueSize:    cfg.SendQueueSize,
			WriteTimeout: cfg.WriteTimeout,
		}, log.Logger)
		if err != nil {
			return nil, err
		}
		return transport, nil
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	transport, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer transport.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	handler := console.NewHandler(rl.Stdout())
	ch := channel.NewChannel(transport, handler, log.Logger)
	if err := ch.Attach(transport); err != nil {
		return err
	}
	log.Info().Str("session", cfg.SessionID).Str("transport", cfg.Transport).Msg("Connected.")

	if playerName != "" {
		ch.Join(playerName)
	}

	go func() {
		select {
		case <-transport.Done():
			log.Warn().Msg("Transport closed.")
			rl.Close()
		case <-ctx.Done():
			rl.Close()
		}
	}()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		err = console.Execute(ch, line)
		if errors.Is(err, console.ErrQuit) {
			break
		}
		if err != nil {
			fmt.Fprintln(rl.Stderr(), err)
			fmt.Fprintln(rl.Stderr(), console.Help)
		}
	}

	if handler.Phase() != console.PhaseNotJoined && handler.Phase() != console.PhaseEnded {
		ch.Leave()
	}
	stats := ch.Tracker().Stats()
	log.Debug().Int64("sent", stats.Sent).Int64("failed", stats.Failed).Int64("in_flight", stats.InFlight).Msg("Bye.")
	return nil
}
