// Package console runs a game over a line-oriented terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tworld/internal/game/command"
	"github.com/cory-johannsen/tworld/internal/game/engine"
)

// RestartPrompt is shown after the player dies.
const RestartPrompt = "Play again? (y/n) "

// Console reads command lines from an input stream and writes the game's
// responses, word-wrapped, to an output stream.
type Console struct {
	game    *engine.Game
	scanner *bufio.Scanner
	out     io.Writer
	width   int
	logger  *zap.Logger
	stopped atomic.Bool
}

// New creates a Console for g. A width of 0 disables wrapping.
//
// Precondition: g, in and out must be non-nil.
func New(g *engine.Game, in io.Reader, out io.Writer, width int, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		game:    g,
		scanner: bufio.NewScanner(in),
		out:     out,
		width:   width,
		logger:  logger,
	}
}

// Start runs the loop until the game stops or input ends.
func (c *Console) Start() error { return c.Run() }

// Stop makes Run return after the current line.
func (c *Console) Stop() { c.stopped.Store(true) }

// Run prints the welcome banner and processes lines until the player quits,
// declines a restart after dying, or input is exhausted. End of input leaves
// puzzle mode first and stops the game from world mode.
//
// Postcondition: Returns nil on a normal exit or the input's read error.
func (c *Console) Run() error {
	c.println(c.game.Welcome())
	for c.game.IsRunning() && !c.stopped.Load() {
		c.print(c.game.Prompt())
		line, ok := c.readLine()
		if !ok {
			c.print("\n")
			c.logger.Debug("end of input", zap.Stringer("mode", c.game.Mode()))
			c.game.Interrupt()
			continue
		}

		out, err := c.game.ExecuteLine(line)
		if out != "" {
			c.println(out)
		}
		if errors.Is(err, command.ErrPlayerDied) {
			if !c.askRestart() {
				c.game.Quit()
				break
			}
			if err := c.game.Restart(); err != nil {
				return fmt.Errorf("restarting game: %w", err)
			}
			c.println(c.game.Welcome())
		}
	}
	return c.scanner.Err()
}

// askRestart repeats RestartPrompt until it reads yes or no. End of input
// counts as no.
func (c *Console) askRestart() bool {
	for {
		c.print(RestartPrompt)
		line, ok := c.readLine()
		if !ok {
			c.print("\n")
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}

func (c *Console) readLine() (string, bool) {
	if !c.scanner.Scan() {
		return "", false
	}
	return c.scanner.Text(), true
}

func (c *Console) print(s string) {
	if _, err := io.WriteString(c.out, s); err != nil {
		c.logger.Warn("writing output", zap.Error(err))
	}
}

func (c *Console) println(s string) {
	if c.width > 0 {
		s = wordwrap.String(s, c.width)
	}
	c.print(s + "\n")
}
