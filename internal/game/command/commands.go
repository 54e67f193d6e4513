// Package command provides the command registry, the line parser and the
// interpreter that dispatches verbs to handlers.
package command

import (
	"errors"
	"fmt"
)

// Categories for organizing commands in help output.
const (
	CategoryMovement = "movement"
	CategoryWorld    = "world"
	CategoryItems    = "items"
	CategoryCombat   = "combat"
	CategoryPuzzle   = "puzzle"
	CategorySystem   = "system"
	CategoryAdmin    = "admin"
)

// ErrPlayerDied signals that the player's health reached zero. It is the only
// error an Interpreter returns; the outer loop decides whether to restart.
var ErrPlayerDied = errors.New("player has died")

// UserError is a handler failure whose message is shown to the player as is.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

// Userf creates a user-facing error from a format string.
func Userf(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// HandlerFunc executes a command with the tokens following the verb and
// returns the text to show.
type HandlerFunc func(args []string) (string, error)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage is the argument synopsis shown by help, e.g. "<item>".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command in help listings.
	Category string
	// Admin restricts the command to privileged sessions.
	Admin bool
	// Handle runs the command.
	Handle HandlerFunc
}

// Synopsis returns the name and usage.
func (c *Command) Synopsis() string {
	if c.Usage == "" {
		return c.Name
	}
	return c.Name + " " + c.Usage
}
