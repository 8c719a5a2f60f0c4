package server

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/tococyn/internal/dice"
	"github.com/lawnchairsociety/tococyn/internal/help"
	"github.com/lawnchairsociety/tococyn/internal/logger"
	"github.com/lawnchairsociety/tococyn/internal/stats"
)

var (
	// ErrUnknownCommand is reported for input that is not a table command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage is reported when a command has the wrong arguments.
	ErrUsage = errors.New("usage")

	// ErrTooManyDice is reported when a roll exceeds the server's dice cap.
	ErrTooManyDice = dice.ErrTooManyDice

	// ErrThrottled is reported when a session sends dice commands too quickly.
	ErrThrottled = errors.New("slow down")
)

const welcome = "Welcome to the table. Type 'help' for commands."

var tableHelp = help.Default()

// Session runs the command loop for one client. Its Source is never shared
// with another session.
type Session struct {
	id       string
	client   Client
	source   dice.Source
	maxDice  int
	throttle *Throttle
}

// NewSession creates a session that rolls with source and refuses rolls of
// more than maxDice dice.
func NewSession(client Client, source dice.Source, maxDice int) *Session {
	return &Session{id: uuid.NewString(), client: client, source: source, maxDice: maxDice}
}

// ID returns the session identifier used in audit records.
func (s *Session) ID() string {
	return s.id
}

// Run greets the client and answers commands until quit or a read error.
func (s *Session) Run() {
	if err := s.client.WriteLine(welcome); err != nil {
		return
	}
	for {
		line, err := s.client.ReadLine()
		if err != nil {
			logger.Debug("Session read ended", "session", s.id, "remote_addr", s.client.RemoteAddr(), "error", err)
			return
		}

		reply, quit := s.Execute(line)
		if reply != "" {
			if err := s.client.WriteLine(reply); err != nil {
				logger.Debug("Session write failed", "session", s.id, "remote_addr", s.client.RemoteAddr(), "error", err)
				return
			}
		}
		if quit {
			return
		}
	}
}

// Execute runs one command line and returns the reply and whether the
// session should end. Errors are turned into replies so the session continues.
func (s *Session) Execute(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}

	var reply string
	var err error
	switch strings.ToLower(fields[0]) {
	case "roll", "r":
		if err = s.allow(); err == nil {
			reply, err = s.roll(fields[1:])
		}
	case "check", "c":
		if err = s.allow(); err == nil {
			reply, err = s.check(fields[1:])
		}
	case "help", "?":
		return tableHelp.GetHelpText(strings.Join(fields[1:], " ")), false
	case "quit", "exit":
		return "Goodbye.", true
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}

	if err != nil {
		logger.Warning("Table command failed",
			"session", s.id,
			"remote_addr", s.client.RemoteAddr(),
			"command", line,
			"error", err)
		return "Error: " + err.Error(), false
	}
	return reply, false
}

func (s *Session) allow() error {
	if ok, wait := s.throttle.Allow(); !ok {
		return fmt.Errorf("%w: try again in %ds", ErrThrottled, int(math.Ceil(wait.Seconds())))
	}
	return nil
}

// roll accepts notation split by spaces, so "2D6 + 6" works too.
func (s *Session) roll(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: roll <notation>", ErrUsage)
	}
	expr, err := dice.Parse(strings.Join(args, ""))
	if err != nil {
		return "", err
	}
	if err := expr.Limit(s.maxDice); err != nil {
		return "", err
	}

	result := expr.RollDetailed(s.source)
	logger.Always("Roll",
		"session", s.id,
		"remote_addr", s.client.RemoteAddr(),
		"expression", result.Expression,
		"dice", result.Dice,
		"total", result.Total())
	return result.String(), nil
}

func (s *Session) check(args []string) (string, error) {
	if len(args) < 2 || len(args) > 3 {
		return "", fmt.Errorf("%w: check <rating> <tier> [value]", ErrUsage)
	}
	rating, err := stats.ParseRating(args[0])
	if err != nil {
		return "", err
	}
	tier, err := stats.ParseTier(args[1])
	if err != nil {
		return "", err
	}

	attr := stats.NewRatedAttribute("Check", "", rating)
	var result stats.Result
	if len(args) == 3 {
		value, convErr := strconv.Atoi(args[2])
		if convErr != nil || value < 1 || value > stats.CheckSides {
			return "", fmt.Errorf("%w: value must be 1-%d, got %q", ErrUsage, stats.CheckSides, args[2])
		}
		result, err = attr.CheckValue(tier, value)
	} else {
		result, err = attr.Roll(s.source, tier)
	}
	if err != nil {
		return "", err
	}

	logger.Always("Check",
		"session", s.id,
		"remote_addr", s.client.RemoteAddr(),
		"rating", rating,
		"tier", tier.String(),
		"value", result.Value,
		"success", result.Success)
	return attr.Summary(result), nil
}
