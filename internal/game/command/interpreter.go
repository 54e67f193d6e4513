package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Interpreter resolves input lines against a Registry and runs the handler.
// Admin commands are hidden and unresolvable unless privileged reports true.
type Interpreter struct {
	name       string
	registry   *Registry
	privileged func() bool
	logger     *zap.Logger
}

// NewInterpreter creates an Interpreter. name identifies it in logs.
//
// Precondition: registry must be non-nil. A nil privileged func denies admin
// commands; a nil logger disables logging.
func NewInterpreter(name string, registry *Registry, privileged func() bool, logger *zap.Logger) *Interpreter {
	if privileged == nil {
		privileged = func() bool { return false }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{name: name, registry: registry, privileged: privileged, logger: logger}
}

// Name returns the interpreter name.
func (in *Interpreter) Name() string { return in.name }

// ExecuteLine runs one input line and returns the text to show.
// Blank input is a no-op. Handler errors become output text, except
// ErrPlayerDied, which is returned along with any text produced before it.
//
// Postcondition: the returned error is nil or wraps ErrPlayerDied.
func (in *Interpreter) ExecuteLine(line string) (string, error) {
	parsed := Parse(line)
	if parsed.Command == "" {
		return "", nil
	}
	cmd := in.lookup(parsed.Command)
	if cmd == nil {
		in.logger.Debug("unknown command", zap.String("mode", in.name), zap.String("verb", parsed.Command))
		return fmt.Sprintf("%s: command not found", parsed.Command), nil
	}

	in.logger.Debug("executing command",
		zap.String("mode", in.name),
		zap.String("verb", cmd.Name),
		zap.Strings("args", parsed.Args),
	)
	out, err := cmd.Handle(parsed.Args)
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, ErrPlayerDied):
		return out, err
	}

	var userErr *UserError
	if !errors.As(err, &userErr) {
		in.logger.Debug("command failed", zap.String("verb", cmd.Name), zap.Error(err))
	}
	if out != "" {
		return out + "\n" + err.Error(), nil
	}
	return err.Error(), nil
}

// Visible returns the commands the current session may run, sorted by name.
func (in *Interpreter) Visible() []*Command {
	var out []*Command
	for _, c := range in.registry.Commands() {
		if !c.Admin || in.privileged() {
			out = append(out, c)
		}
	}
	return out
}

// Help lists visible commands grouped by category, or describes one verb.
func (in *Interpreter) Help(verb string) string {
	if verb != "" {
		cmd := in.lookup(verb)
		if cmd == nil {
			return fmt.Sprintf("%s: command not found", strings.ToLower(verb))
		}
		s := fmt.Sprintf("%s: %s", cmd.Synopsis(), cmd.Help)
		if len(cmd.Aliases) > 0 {
			s += fmt.Sprintf("\naliases: %s", strings.Join(cmd.Aliases, ", "))
		}
		return s
	}

	groups := make(map[string][]string)
	for _, c := range in.Visible() {
		groups[c.Category] = append(groups[c.Category], c.Name)
	}
	cats := make([]string, 0, len(groups))
	for c := range groups {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	var sb strings.Builder
	sb.WriteString("Commands:")
	for _, c := range cats {
		fmt.Fprintf(&sb, "\n  %-9s %s", c+":", strings.Join(groups[c], ", "))
	}
	sb.WriteString("\nType `help <command>` for details.")
	return sb.String()
}

func (in *Interpreter) lookup(verb string) *Command {
	cmd, ok := in.registry.Resolve(verb)
	if !ok || (cmd.Admin && !in.privileged()) {
		return nil
	}
	return cmd
}
